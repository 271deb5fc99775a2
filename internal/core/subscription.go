package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edvin/mabruk/internal/model"
	"github.com/edvin/mabruk/internal/query"
	"github.com/edvin/mabruk/internal/store"
)

type SubscriptionService struct {
	store    *store.Store
	enforcer *Enforcer
}

func NewSubscriptionService(s *store.Store, e *Enforcer) *SubscriptionService {
	return &SubscriptionService{store: s, enforcer: e}
}

func (s *SubscriptionService) List(ctx context.Context, f query.SubscriptionFilter, p query.Params) (query.Result[model.Subscription], error) {
	res, err := s.store.Subscriptions.List(ctx, f, p)
	if err != nil {
		return res, fmt.Errorf("list subscriptions: %w", err)
	}
	return res, nil
}

func (s *SubscriptionService) Get(ctx context.Context, id int64) (*model.Subscription, error) {
	sub, err := s.store.Subscriptions.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "get subscription", "subscription", id)
	}
	return sub, nil
}

func (s *SubscriptionService) Create(ctx context.Context, sub *model.Subscription) (*model.Subscription, error) {
	sub.Course = strings.TrimSpace(sub.Course)
	if err := s.enforcer.CheckSubscription(ctx, sub); err != nil {
		return nil, err
	}

	out, err := s.store.Subscriptions.Insert(ctx, sub)
	if err != nil {
		return nil, writeError(err, "create subscription", ErrDuplicateKey)
	}
	zerolog.Ctx(ctx).Debug().
		Int64("subscription_id", out.ID).
		Int64("subscriber_id", out.SubscriberID).
		Msg("subscription created")
	return out, nil
}

func (s *SubscriptionService) Update(ctx context.Context, id int64, sub *model.Subscription) (*model.Subscription, error) {
	sub.ID = id
	sub.Course = strings.TrimSpace(sub.Course)
	if err := s.enforcer.CheckSubscription(ctx, sub); err != nil {
		return nil, err
	}

	out, err := s.store.Subscriptions.Update(ctx, sub)
	if err != nil {
		return nil, updateError(err, "update subscription", "subscription", id, ErrDuplicateKey)
	}
	zerolog.Ctx(ctx).Debug().Int64("subscription_id", id).Msg("subscription updated")
	return out, nil
}

func (s *SubscriptionService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Subscriptions.Delete(ctx, id); err != nil {
		return notFound(err, "delete subscription", "subscription", id)
	}
	zerolog.Ctx(ctx).Debug().Int64("subscription_id", id).Msg("subscription deleted")
	return nil
}
