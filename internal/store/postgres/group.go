package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/edvin/mabruk/internal/model"
	"github.com/edvin/mabruk/internal/query"
)

var groupPage = page[model.Group]{
	table:   "groups",
	columns: "id, created_at, name, organization_id",
	order:   query.GroupOrder,
	scan: func(row pgx.Row) (model.Group, error) {
		var g model.Group
		err := row.Scan(&g.ID, &g.CreatedAt, &g.Name, &g.OrganizationID)
		return g, err
	},
}

type groupRepo struct {
	db DB
}

func (r *groupRepo) Get(ctx context.Context, id int64) (*model.Group, error) {
	g, err := groupPage.scan(r.db.QueryRow(ctx,
		"SELECT id, created_at, name, organization_id FROM groups WHERE id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("get group %d: %w", id, mapError(err))
	}
	return &g, nil
}

func (r *groupRepo) Insert(ctx context.Context, g *model.Group) (*model.Group, error) {
	out := *g
	err := r.db.QueryRow(ctx,
		"INSERT INTO groups (name, organization_id) VALUES ($1, $2) RETURNING id, created_at",
		g.Name, g.OrganizationID,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert group: %w", mapError(err))
	}
	return &out, nil
}

func (r *groupRepo) Update(ctx context.Context, g *model.Group) (*model.Group, error) {
	out := *g
	err := r.db.QueryRow(ctx,
		"UPDATE groups SET name = $2, organization_id = $3 WHERE id = $1 RETURNING created_at",
		g.ID, g.Name, g.OrganizationID,
	).Scan(&out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("update group %d: %w", g.ID, mapError(err))
	}
	return &out, nil
}

func (r *groupRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM groups WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete group %d: %w", id, mapError(err))
	}
	if err := checkAffected(tag); err != nil {
		return fmt.Errorf("delete group %d: %w", id, err)
	}
	return nil
}

func (r *groupRepo) Scan(ctx context.Context, match func(*model.Group) bool) ([]model.Group, error) {
	return scanAll(ctx, r.db, groupPage, match)
}

func (r *groupRepo) List(ctx context.Context, f query.GroupFilter, p query.Params) (query.Result[model.Group], error) {
	var w query.Where
	f.Apply(&w)
	return groupPage.list(ctx, r.db, &w, p)
}

func (r *groupRepo) ListByOrganization(ctx context.Context, organizationID int64) ([]model.Group, error) {
	var w query.Where
	w.And("organization_id = " + w.Arg(organizationID))
	return groupPage.all(ctx, r.db, &w, "created_at DESC, id ASC")
}
