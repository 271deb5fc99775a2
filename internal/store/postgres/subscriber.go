package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/edvin/mabruk/internal/model"
	"github.com/edvin/mabruk/internal/query"
)

const subscriberColumns = `id, created_at, email, full_name, first_name, last_name, phone,
	plan, type, "group", github_user, customer_id_sumit, payment_details, start_date, end_date`

var subscriberPage = page[model.Subscriber]{
	table:   "subscribers",
	columns: subscriberColumns,
	order:   query.SubscriberOrder,
	scan:    scanSubscriber,
}

func scanSubscriber(row pgx.Row) (model.Subscriber, error) {
	var s model.Subscriber
	var start, end pgtype.Date
	err := row.Scan(&s.ID, &s.CreatedAt, &s.Email, &s.FullName, &s.FirstName, &s.LastName, &s.Phone,
		&s.Plan, &s.Type, &s.Group, &s.GithubUser, &s.CustomerIDSumit, &s.PaymentDetails, &start, &end)
	if err != nil {
		return s, err
	}
	s.StartDate = dateValue(start)
	s.EndDate = dateValue(end)
	return s, nil
}

type subscriberRepo struct {
	db DB
}

func (r *subscriberRepo) Get(ctx context.Context, id int64) (*model.Subscriber, error) {
	s, err := scanSubscriber(r.db.QueryRow(ctx,
		"SELECT "+subscriberColumns+" FROM subscribers WHERE id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("get subscriber %d: %w", id, mapError(err))
	}
	return &s, nil
}

func (r *subscriberRepo) Insert(ctx context.Context, s *model.Subscriber) (*model.Subscriber, error) {
	out := *s
	err := r.db.QueryRow(ctx,
		`INSERT INTO subscribers (email, full_name, first_name, last_name, phone, plan, type, "group",
		 github_user, customer_id_sumit, payment_details, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, created_at`,
		s.Email, s.FullName, s.FirstName, s.LastName, s.Phone, s.Plan, s.Type, s.Group,
		s.GithubUser, s.CustomerIDSumit, s.PaymentDetails, dateArg(s.StartDate), dateArg(s.EndDate),
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert subscriber: %w", mapError(err))
	}
	return &out, nil
}

func (r *subscriberRepo) Update(ctx context.Context, s *model.Subscriber) (*model.Subscriber, error) {
	out := *s
	err := r.db.QueryRow(ctx,
		`UPDATE subscribers SET email = $2, full_name = $3, first_name = $4, last_name = $5,
		 phone = $6, plan = $7, type = $8, "group" = $9, github_user = $10,
		 customer_id_sumit = $11, payment_details = $12, start_date = $13, end_date = $14
		 WHERE id = $1 RETURNING created_at`,
		s.ID, s.Email, s.FullName, s.FirstName, s.LastName, s.Phone, s.Plan, s.Type, s.Group,
		s.GithubUser, s.CustomerIDSumit, s.PaymentDetails, dateArg(s.StartDate), dateArg(s.EndDate),
	).Scan(&out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("update subscriber %d: %w", s.ID, mapError(err))
	}
	return &out, nil
}

func (r *subscriberRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM subscribers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete subscriber %d: %w", id, mapError(err))
	}
	if err := checkAffected(tag); err != nil {
		return fmt.Errorf("delete subscriber %d: %w", id, err)
	}
	return nil
}

func (r *subscriberRepo) Scan(ctx context.Context, match func(*model.Subscriber) bool) ([]model.Subscriber, error) {
	return scanAll(ctx, r.db, subscriberPage, match)
}

func (r *subscriberRepo) List(ctx context.Context, f query.SubscriberFilter, p query.Params) (query.Result[model.Subscriber], error) {
	var w query.Where
	f.Apply(&w)
	return subscriberPage.list(ctx, r.db, &w, p)
}

func (r *subscriberRepo) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM subscribers WHERE lower(email) = $1 AND id <> $2)",
		query.NormalizeEmail(email), excludeID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check subscriber email: %w", mapError(err))
	}
	return taken, nil
}
