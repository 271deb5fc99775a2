package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/edvin/mabruk/internal/model"
	"github.com/edvin/mabruk/internal/query"
)

var coursePage = page[model.Course]{
	table:   "courses",
	columns: "id, created_at, name, price, duration",
	order:   query.CourseOrder,
	scan: func(row pgx.Row) (model.Course, error) {
		var c model.Course
		err := row.Scan(&c.ID, &c.CreatedAt, &c.Name, &c.Price, &c.DurationDays)
		return c, err
	},
}

type courseRepo struct {
	db DB
}

func (r *courseRepo) Get(ctx context.Context, id int64) (*model.Course, error) {
	c, err := coursePage.scan(r.db.QueryRow(ctx,
		"SELECT id, created_at, name, price, duration FROM courses WHERE id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("get course %d: %w", id, mapError(err))
	}
	return &c, nil
}

func (r *courseRepo) Insert(ctx context.Context, c *model.Course) (*model.Course, error) {
	out := *c
	err := r.db.QueryRow(ctx,
		"INSERT INTO courses (name, price, duration) VALUES ($1, $2, $3) RETURNING id, created_at",
		c.Name, c.Price, c.DurationDays,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert course: %w", mapError(err))
	}
	return &out, nil
}

func (r *courseRepo) Update(ctx context.Context, c *model.Course) (*model.Course, error) {
	out := *c
	err := r.db.QueryRow(ctx,
		"UPDATE courses SET name = $2, price = $3, duration = $4 WHERE id = $1 RETURNING created_at",
		c.ID, c.Name, c.Price, c.DurationDays,
	).Scan(&out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("update course %d: %w", c.ID, mapError(err))
	}
	return &out, nil
}

func (r *courseRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM courses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete course %d: %w", id, mapError(err))
	}
	if err := checkAffected(tag); err != nil {
		return fmt.Errorf("delete course %d: %w", id, err)
	}
	return nil
}

func (r *courseRepo) Scan(ctx context.Context, match func(*model.Course) bool) ([]model.Course, error) {
	return scanAll(ctx, r.db, coursePage, match)
}

func (r *courseRepo) List(ctx context.Context, f query.CourseFilter, p query.Params) (query.Result[model.Course], error) {
	var w query.Where
	f.Apply(&w)
	return coursePage.list(ctx, r.db, &w, p)
}

func (r *courseRepo) GetMany(ctx context.Context, ids []int64) ([]model.Course, error) {
	if len(ids) == 0 {
		return []model.Course{}, nil
	}
	var w query.Where
	w.And("id = ANY(" + w.Arg(ids) + ")")
	return coursePage.all(ctx, r.db, &w, query.CourseOrder)
}
