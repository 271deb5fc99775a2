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

type SubscriberService struct {
	store    *store.Store
	enforcer *Enforcer
	today    func() model.Date
}

func NewSubscriberService(s *store.Store, e *Enforcer) *SubscriberService {
	return &SubscriberService{store: s, enforcer: e, today: model.Today}
}

func (s *SubscriberService) List(ctx context.Context, f query.SubscriberFilter, p query.Params) (query.Result[model.Subscriber], error) {
	res, err := s.store.Subscribers.List(ctx, f, p)
	if err != nil {
		return res, fmt.Errorf("list subscribers: %w", err)
	}
	return res, nil
}

func (s *SubscriberService) Get(ctx context.Context, id int64) (*model.Subscriber, error) {
	sub, err := s.store.Subscribers.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "get subscriber", "subscriber", id)
	}
	return sub, nil
}

// Create stores a new subscriber. StartDate defaults to today.
func (s *SubscriberService) Create(ctx context.Context, sub *model.Subscriber) (*model.Subscriber, error) {
	normalizeSubscriber(sub)
	if sub.StartDate == nil {
		today := s.today()
		sub.StartDate = &today
	}
	if err := s.enforcer.CheckSubscriber(ctx, sub); err != nil {
		return nil, err
	}

	out, err := s.store.Subscribers.Insert(ctx, sub)
	if err != nil {
		return nil, writeError(err, "create subscriber", ErrDuplicateKey)
	}
	zerolog.Ctx(ctx).Debug().Int64("subscriber_id", out.ID).Msg("subscriber created")
	return out, nil
}

// Update replaces every field of the subscriber. An omitted StartDate keeps
// the stored one.
func (s *SubscriberService) Update(ctx context.Context, id int64, sub *model.Subscriber) (*model.Subscriber, error) {
	sub.ID = id
	normalizeSubscriber(sub)
	if sub.StartDate == nil {
		existing, err := s.store.Subscribers.Get(ctx, id)
		if err != nil {
			return nil, notFound(err, "update subscriber", "subscriber", id)
		}
		sub.StartDate = existing.StartDate
	}
	if err := s.enforcer.CheckSubscriber(ctx, sub); err != nil {
		return nil, err
	}

	out, err := s.store.Subscribers.Update(ctx, sub)
	if err != nil {
		return nil, updateError(err, "update subscriber", "subscriber", id, ErrDuplicateKey)
	}
	zerolog.Ctx(ctx).Debug().Int64("subscriber_id", id).Msg("subscriber updated")
	return out, nil
}

// Delete leaves the subscriber's subscriptions in place.
func (s *SubscriberService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Subscribers.Delete(ctx, id); err != nil {
		return notFound(err, "delete subscriber", "subscriber", id)
	}
	zerolog.Ctx(ctx).Debug().Int64("subscriber_id", id).Msg("subscriber deleted")
	return nil
}

func normalizeSubscriber(sub *model.Subscriber) {
	sub.Email = query.NormalizeEmail(sub.Email)
	sub.FullName = trimOptional(sub.FullName)
	sub.FirstName = trimOptional(sub.FirstName)
	sub.LastName = trimOptional(sub.LastName)
	sub.Phone = trimOptional(sub.Phone)
	sub.Plan = lowerOptional(trimOptional(sub.Plan))
	sub.Type = lowerOptional(trimOptional(sub.Type))
	sub.Group = trimOptional(sub.Group)
	sub.GithubUser = trimOptional(sub.GithubUser)
	sub.PaymentDetails = trimOptional(sub.PaymentDetails)
}

func lowerOptional(v *string) *string {
	if v == nil {
		return nil
	}
	l := strings.ToLower(*v)
	return &l
}
