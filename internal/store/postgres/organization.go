package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/edvin/mabruk/internal/model"
	"github.com/edvin/mabruk/internal/query"
)

var organizationPage = page[model.Organization]{
	table:   "organizations",
	columns: "id, created_at, name",
	order:   query.OrganizationOrder,
	scan: func(row pgx.Row) (model.Organization, error) {
		var o model.Organization
		err := row.Scan(&o.ID, &o.CreatedAt, &o.Name)
		return o, err
	},
}

type organizationRepo struct {
	db DB
}

func (r *organizationRepo) Get(ctx context.Context, id int64) (*model.Organization, error) {
	o, err := organizationPage.scan(r.db.QueryRow(ctx,
		"SELECT id, created_at, name FROM organizations WHERE id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("get organization %d: %w", id, mapError(err))
	}
	return &o, nil
}

func (r *organizationRepo) Insert(ctx context.Context, o *model.Organization) (*model.Organization, error) {
	out := *o
	err := r.db.QueryRow(ctx,
		"INSERT INTO organizations (name) VALUES ($1) RETURNING id, created_at",
		o.Name,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert organization: %w", mapError(err))
	}
	return &out, nil
}

func (r *organizationRepo) Update(ctx context.Context, o *model.Organization) (*model.Organization, error) {
	out := *o
	err := r.db.QueryRow(ctx,
		"UPDATE organizations SET name = $2 WHERE id = $1 RETURNING created_at",
		o.ID, o.Name,
	).Scan(&out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("update organization %d: %w", o.ID, mapError(err))
	}
	return &out, nil
}

func (r *organizationRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM organizations WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete organization %d: %w", id, mapError(err))
	}
	if err := checkAffected(tag); err != nil {
		return fmt.Errorf("delete organization %d: %w", id, err)
	}
	return nil
}

func (r *organizationRepo) Scan(ctx context.Context, match func(*model.Organization) bool) ([]model.Organization, error) {
	return scanAll(ctx, r.db, organizationPage, match)
}

func (r *organizationRepo) List(ctx context.Context, f query.OrganizationFilter, p query.Params) (query.Result[model.Organization], error) {
	var w query.Where
	f.Apply(&w)
	return organizationPage.list(ctx, r.db, &w, p)
}
