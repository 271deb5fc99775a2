package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/edvin/mabruk/internal/store"
)

// table is a mutex-guarded row map with id assignment and an optional
// unique index. Rows go in and out by value so callers never share memory
// with the table.
type table[T any] struct {
	mu     sync.RWMutex
	rows   map[int64]T
	nextID int64
	clock  *clock

	idOf      func(*T) int64
	createdOf func(*T) time.Time
	stamp     func(row *T, id int64, createdAt time.Time)
	clone     func(T) T

	// unique reports whether a and b collide on the table's unique index.
	unique    func(a, b *T) bool
	indexName string
}

func (t *table[T]) get(ctx context.Context, id int64) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := t.clone(row)
	return &out, nil
}

func (t *table[T]) insert(ctx context.Context, row *T) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkUnique(row, 0); err != nil {
		return nil, err
	}

	t.nextID++
	stored := t.clone(*row)
	t.stamp(&stored, t.nextID, t.clock.now())
	t.rows[t.nextID] = stored

	out := t.clone(stored)
	return &out, nil
}

func (t *table[T]) update(ctx context.Context, row *T) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.idOf(row)
	existing, ok := t.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if err := t.checkUnique(row, id); err != nil {
		return nil, err
	}

	stored := t.clone(*row)
	t.stamp(&stored, id, t.createdOf(&existing))
	t.rows[id] = stored

	out := t.clone(stored)
	return &out, nil
}

func (t *table[T]) delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

// scan returns matching rows in ascending id order.
func (t *table[T]) scan(ctx context.Context, match func(*T) bool) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		row := t.rows[id]
		if match == nil || match(&row) {
			out = append(out, t.clone(row))
		}
	}
	return out, nil
}

// checkUnique must be called with the write lock held. Row selfID is
// skipped so an update does not collide with itself.
func (t *table[T]) checkUnique(row *T, selfID int64) error {
	if t.unique == nil {
		return nil
	}
	for id, existing := range t.rows {
		if id == selfID {
			continue
		}
		if t.unique(&existing, row) {
			return fmt.Errorf("%w: %s", store.ErrDuplicate, t.indexName)
		}
	}
	return nil
}
