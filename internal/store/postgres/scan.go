package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/edvin/mabruk/internal/model"
	"github.com/edvin/mabruk/internal/query"
)

func dateArg(d *model.Date) pgtype.Date {
	if d == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: d.Time(), Valid: true}
}

func dateValue(d pgtype.Date) *model.Date {
	if !d.Valid {
		return nil
	}
	v := model.DateOf(d.Time)
	return &v
}

// collect scans every row with scan and closes rows.
func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// page describes one paginated listing of a table.
type page[T any] struct {
	table   string
	columns string
	order   string
	scan    func(pgx.Row) (T, error)
}

// list counts every row matched by w and then reads the requested page.
// A page past the end is answered from the count alone.
func (pg page[T]) list(ctx context.Context, db DB, w *query.Where, p query.Params) (query.Result[T], error) {
	var total int64
	countSQL := "SELECT count(*) FROM " + pg.table + w.SQL()
	if err := db.QueryRow(ctx, countSQL, w.Args()...).Scan(&total); err != nil {
		return query.Result[T]{}, fmt.Errorf("count %s: %w", pg.table, err)
	}
	if int64(p.Offset()) >= total {
		return query.NewResult[T](nil, p, int(total)), nil
	}

	args := append([]any{}, w.Args()...)
	n := w.NextArg()
	listSQL := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		pg.columns, pg.table, w.SQL(), pg.order, n, n+1)
	args = append(args, p.Limit(), p.Offset())

	rows, err := db.Query(ctx, listSQL, args...)
	if err != nil {
		return query.Result[T]{}, fmt.Errorf("list %s: %w", pg.table, err)
	}
	items, err := collect(rows, pg.scan)
	if err != nil {
		return query.Result[T]{}, fmt.Errorf("scan %s: %w", pg.table, err)
	}
	return query.NewResult(items, p, int(total)), nil
}

// all reads every row matched by w in the page's order.
func (pg page[T]) all(ctx context.Context, db DB, w *query.Where, order string) ([]T, error) {
	sql := "SELECT " + pg.columns + " FROM " + pg.table + w.SQL() + " ORDER BY " + order
	rows, err := db.Query(ctx, sql, w.Args()...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", pg.table, err)
	}
	items, err := collect(rows, pg.scan)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", pg.table, err)
	}
	return items, nil
}

// scanAll reads the whole table in id order and applies match in process.
func scanAll[T any](ctx context.Context, db DB, pg page[T], match func(*T) bool) ([]T, error) {
	items, err := pg.all(ctx, db, &query.Where{}, "id ASC")
	if err != nil {
		return nil, err
	}
	if match == nil {
		return items, nil
	}
	out := items[:0]
	for i := range items {
		if match(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out, nil
}
