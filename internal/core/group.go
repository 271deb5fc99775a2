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

type GroupService struct {
	store    *store.Store
	enforcer *Enforcer
}

func NewGroupService(s *store.Store, e *Enforcer) *GroupService {
	return &GroupService{store: s, enforcer: e}
}

func (s *GroupService) List(ctx context.Context, f query.GroupFilter, p query.Params) (query.Result[model.Group], error) {
	res, err := s.store.Groups.List(ctx, f, p)
	if err != nil {
		return res, fmt.Errorf("list groups: %w", err)
	}
	return res, nil
}

func (s *GroupService) Get(ctx context.Context, id int64) (*model.Group, error) {
	g, err := s.store.Groups.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "get group", "group", id)
	}
	return g, nil
}

func (s *GroupService) Create(ctx context.Context, g *model.Group) (*model.Group, error) {
	g.Name = strings.TrimSpace(g.Name)
	if err := s.enforcer.CheckGroup(ctx, g); err != nil {
		return nil, err
	}

	out, err := s.store.Groups.Insert(ctx, g)
	if err != nil {
		return nil, writeError(err, "create group", ErrDuplicateKey)
	}
	zerolog.Ctx(ctx).Debug().
		Int64("group_id", out.ID).
		Int64("organization_id", out.OrganizationID).
		Msg("group created")
	return out, nil
}

func (s *GroupService) Update(ctx context.Context, id int64, g *model.Group) (*model.Group, error) {
	g.ID = id
	g.Name = strings.TrimSpace(g.Name)
	if err := s.enforcer.CheckGroup(ctx, g); err != nil {
		return nil, err
	}

	out, err := s.store.Groups.Update(ctx, g)
	if err != nil {
		return nil, updateError(err, "update group", "group", id, ErrDuplicateKey)
	}
	zerolog.Ctx(ctx).Debug().Int64("group_id", id).Msg("group updated")
	return out, nil
}

// Delete leaves subscriptions that point at the group untouched.
func (s *GroupService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Groups.Delete(ctx, id); err != nil {
		return notFound(err, "delete group", "group", id)
	}
	zerolog.Ctx(ctx).Debug().Int64("group_id", id).Msg("group deleted")
	return nil
}
