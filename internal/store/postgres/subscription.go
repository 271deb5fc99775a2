package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/edvin/mabruk/internal/model"
	"github.com/edvin/mabruk/internal/query"
)

const subscriptionColumns = "id, created_at, subscriber_id, course, start_date, end_date, group_id"

var subscriptionPage = page[model.Subscription]{
	table:   "subscriptions",
	columns: subscriptionColumns,
	order:   query.SubscriptionOrder,
	scan:    scanSubscription,
}

func scanSubscription(row pgx.Row) (model.Subscription, error) {
	var s model.Subscription
	var start, end pgtype.Date
	err := row.Scan(&s.ID, &s.CreatedAt, &s.SubscriberID, &s.Course, &start, &end, &s.GroupID)
	if err != nil {
		return s, err
	}
	s.StartDate = dateValue(start)
	s.EndDate = dateValue(end)
	return s, nil
}

type subscriptionRepo struct {
	db DB
}

func (r *subscriptionRepo) Get(ctx context.Context, id int64) (*model.Subscription, error) {
	s, err := scanSubscription(r.db.QueryRow(ctx,
		"SELECT "+subscriptionColumns+" FROM subscriptions WHERE id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("get subscription %d: %w", id, mapError(err))
	}
	return &s, nil
}

func (r *subscriptionRepo) Insert(ctx context.Context, s *model.Subscription) (*model.Subscription, error) {
	out := *s
	err := r.db.QueryRow(ctx,
		`INSERT INTO subscriptions (subscriber_id, course, start_date, end_date, group_id)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		s.SubscriberID, s.Course, dateArg(s.StartDate), dateArg(s.EndDate), s.GroupID,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert subscription: %w", mapError(err))
	}
	return &out, nil
}

func (r *subscriptionRepo) Update(ctx context.Context, s *model.Subscription) (*model.Subscription, error) {
	out := *s
	err := r.db.QueryRow(ctx,
		`UPDATE subscriptions SET subscriber_id = $2, course = $3, start_date = $4, end_date = $5,
		 group_id = $6 WHERE id = $1 RETURNING created_at`,
		s.ID, s.SubscriberID, s.Course, dateArg(s.StartDate), dateArg(s.EndDate), s.GroupID,
	).Scan(&out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("update subscription %d: %w", s.ID, mapError(err))
	}
	return &out, nil
}

func (r *subscriptionRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM subscriptions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete subscription %d: %w", id, mapError(err))
	}
	if err := checkAffected(tag); err != nil {
		return fmt.Errorf("delete subscription %d: %w", id, err)
	}
	return nil
}

func (r *subscriptionRepo) Scan(ctx context.Context, match func(*model.Subscription) bool) ([]model.Subscription, error) {
	return scanAll(ctx, r.db, subscriptionPage, match)
}

func (r *subscriptionRepo) List(ctx context.Context, f query.SubscriptionFilter, p query.Params) (query.Result[model.Subscription], error) {
	var w query.Where
	f.Apply(&w)
	return subscriptionPage.list(ctx, r.db, &w, p)
}
