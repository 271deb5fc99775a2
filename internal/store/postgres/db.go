// Package postgres implements the entity store on PostgreSQL through pgx.
// Unique indexes are enforced by the schema; violations are mapped onto the
// store error values.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/edvin/mabruk/internal/store"
)

// DB defines the database operations used by the repositories.
// *pgxpool.Pool satisfies this interface.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// New returns a store backed by db. ping is used for readiness checks and
// may be nil, in which case a trivial query is issued instead.
func New(db DB, ping func(ctx context.Context) error) *store.Store {
	if ping == nil {
		ping = func(ctx context.Context) error {
			_, err := db.Exec(ctx, "SELECT 1")
			return err
		}
	}
	return &store.Store{
		Organizations:       &organizationRepo{db: db},
		Groups:              &groupRepo{db: db},
		Courses:             &courseRepo{db: db},
		OrganizationCourses: &organizationCourseRepo{db: db},
		Subscribers:         &subscriberRepo{db: db},
		Subscriptions:       &subscriptionRepo{db: db},
		Ping:                ping,
	}
}
