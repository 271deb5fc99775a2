// Package memory is an in-process entity store. It enforces the same unique
// indexes as the Postgres schema, atomically under a per-table lock.
package memory

import (
	"context"
	"sort"
	"time"

	"github.com/edvin/mabruk/internal/model"
	"github.com/edvin/mabruk/internal/query"
	"github.com/edvin/mabruk/internal/store"
)

// Option configures a memory store.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New returns an empty store.
func New(opts ...Option) *store.Store {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	c := newClock(o.now)

	return &store.Store{
		Organizations:       &organizationRepo{t: newOrganizationTable(c)},
		Groups:              &groupRepo{t: newGroupTable(c)},
		Courses:             &courseRepo{t: newCourseTable(c)},
		OrganizationCourses: &organizationCourseRepo{t: newOrganizationCourseTable(c)},
		Subscribers:         &subscriberRepo{t: newSubscriberTable(c)},
		Subscriptions:       &subscriptionRepo{t: newSubscriptionTable(c)},
		Ping:                func(ctx context.Context) error { return ctx.Err() },
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func identity[T any](v T) T { return v }

// list runs a Scan followed by the query engine's in-memory pagination.
func list[T any](ctx context.Context, t *table[T], match func(*T) bool, less func(a, b *T) bool, p query.Params) (query.Result[T], error) {
	rows, err := t.scan(ctx, match)
	if err != nil {
		return query.Result[T]{}, err
	}
	return query.Paginate(rows, nil, less, p), nil
}

func sortRows[T any](rows []T, less func(a, b *T) bool) {
	sort.SliceStable(rows, func(i, j int) bool { return less(&rows[i], &rows[j]) })
}

// ---------- Organizations ----------

func newOrganizationTable(c *clock) *table[model.Organization] {
	return &table[model.Organization]{
		rows:      make(map[int64]model.Organization),
		clock:     c,
		idOf:      func(o *model.Organization) int64 { return o.ID },
		createdOf: func(o *model.Organization) time.Time { return o.CreatedAt },
		stamp: func(o *model.Organization, id int64, at time.Time) {
			o.ID, o.CreatedAt = id, at
		},
		clone: identity[model.Organization],
	}
}

type organizationRepo struct {
	t *table[model.Organization]
}

func (r *organizationRepo) Get(ctx context.Context, id int64) (*model.Organization, error) {
	return r.t.get(ctx, id)
}

func (r *organizationRepo) Insert(ctx context.Context, o *model.Organization) (*model.Organization, error) {
	return r.t.insert(ctx, o)
}

func (r *organizationRepo) Update(ctx context.Context, o *model.Organization) (*model.Organization, error) {
	return r.t.update(ctx, o)
}

func (r *organizationRepo) Delete(ctx context.Context, id int64) error {
	return r.t.delete(ctx, id)
}

func (r *organizationRepo) Scan(ctx context.Context, match func(*model.Organization) bool) ([]model.Organization, error) {
	return r.t.scan(ctx, match)
}

func (r *organizationRepo) List(ctx context.Context, f query.OrganizationFilter, p query.Params) (query.Result[model.Organization], error) {
	return list(ctx, r.t, f.Match, query.OrganizationLess, p)
}

// ---------- Groups ----------

func newGroupTable(c *clock) *table[model.Group] {
	return &table[model.Group]{
		rows:      make(map[int64]model.Group),
		clock:     c,
		idOf:      func(g *model.Group) int64 { return g.ID },
		createdOf: func(g *model.Group) time.Time { return g.CreatedAt },
		stamp: func(g *model.Group, id int64, at time.Time) {
			g.ID, g.CreatedAt = id, at
		},
		clone: identity[model.Group],
	}
}

type groupRepo struct {
	t *table[model.Group]
}

func (r *groupRepo) Get(ctx context.Context, id int64) (*model.Group, error) {
	return r.t.get(ctx, id)
}

func (r *groupRepo) Insert(ctx context.Context, g *model.Group) (*model.Group, error) {
	return r.t.insert(ctx, g)
}

func (r *groupRepo) Update(ctx context.Context, g *model.Group) (*model.Group, error) {
	return r.t.update(ctx, g)
}

func (r *groupRepo) Delete(ctx context.Context, id int64) error {
	return r.t.delete(ctx, id)
}

func (r *groupRepo) Scan(ctx context.Context, match func(*model.Group) bool) ([]model.Group, error) {
	return r.t.scan(ctx, match)
}

func (r *groupRepo) List(ctx context.Context, f query.GroupFilter, p query.Params) (query.Result[model.Group], error) {
	return list(ctx, r.t, f.Match, query.GroupLess, p)
}

func (r *groupRepo) ListByOrganization(ctx context.Context, organizationID int64) ([]model.Group, error) {
	rows, err := r.t.scan(ctx, func(g *model.Group) bool { return g.OrganizationID == organizationID })
	if err != nil {
		return nil, err
	}
	sortRows(rows, query.GroupNewestFirst)
	return rows, nil
}

// ---------- Courses ----------

func newCourseTable(c *clock) *table[model.Course] {
	return &table[model.Course]{
		rows:      make(map[int64]model.Course),
		clock:     c,
		idOf:      func(c *model.Course) int64 { return c.ID },
		createdOf: func(c *model.Course) time.Time { return c.CreatedAt },
		stamp: func(c *model.Course, id int64, at time.Time) {
			c.ID, c.CreatedAt = id, at
		},
		clone: func(c model.Course) model.Course {
			c.Price = clonePtr(c.Price)
			c.DurationDays = clonePtr(c.DurationDays)
			return c
		},
	}
}

type courseRepo struct {
	t *table[model.Course]
}

func (r *courseRepo) Get(ctx context.Context, id int64) (*model.Course, error) {
	return r.t.get(ctx, id)
}

func (r *courseRepo) Insert(ctx context.Context, c *model.Course) (*model.Course, error) {
	return r.t.insert(ctx, c)
}

func (r *courseRepo) Update(ctx context.Context, c *model.Course) (*model.Course, error) {
	return r.t.update(ctx, c)
}

func (r *courseRepo) Delete(ctx context.Context, id int64) error {
	return r.t.delete(ctx, id)
}

func (r *courseRepo) Scan(ctx context.Context, match func(*model.Course) bool) ([]model.Course, error) {
	return r.t.scan(ctx, match)
}

func (r *courseRepo) List(ctx context.Context, f query.CourseFilter, p query.Params) (query.Result[model.Course], error) {
	return list(ctx, r.t, f.Match, query.CourseLess, p)
}

func (r *courseRepo) GetMany(ctx context.Context, ids []int64) ([]model.Course, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	rows, err := r.t.scan(ctx, func(c *model.Course) bool { return want[c.ID] })
	if err != nil {
		return nil, err
	}
	sortRows(rows, query.CourseLess)
	return rows, nil
}

// ---------- Organization courses ----------

func newOrganizationCourseTable(c *clock) *table[model.OrganizationCourse] {
	return &table[model.OrganizationCourse]{
		rows:      make(map[int64]model.OrganizationCourse),
		clock:     c,
		idOf:      func(oc *model.OrganizationCourse) int64 { return oc.ID },
		createdOf: func(oc *model.OrganizationCourse) time.Time { return oc.CreatedAt },
		stamp: func(oc *model.OrganizationCourse, id int64, at time.Time) {
			oc.ID, oc.CreatedAt = id, at
		},
		clone: identity[model.OrganizationCourse],
		unique: func(a, b *model.OrganizationCourse) bool {
			return a.OrganizationID == b.OrganizationID && a.CourseID == b.CourseID
		},
		indexName: store.OrganizationCoursePairKey,
	}
}

type organizationCourseRepo struct {
	t *table[model.OrganizationCourse]
}

func (r *organizationCourseRepo) Get(ctx context.Context, id int64) (*model.OrganizationCourse, error) {
	return r.t.get(ctx, id)
}

func (r *organizationCourseRepo) Insert(ctx context.Context, oc *model.OrganizationCourse) (*model.OrganizationCourse, error) {
	return r.t.insert(ctx, oc)
}

func (r *organizationCourseRepo) Delete(ctx context.Context, id int64) error {
	return r.t.delete(ctx, id)
}

func (r *organizationCourseRepo) Exists(ctx context.Context, organizationID, courseID int64) (bool, error) {
	rows, err := r.t.scan(ctx, func(oc *model.OrganizationCourse) bool {
		return oc.OrganizationID == organizationID && oc.CourseID == courseID
	})
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

func (r *organizationCourseRepo) ListByOrganization(ctx context.Context, organizationID int64) ([]model.OrganizationCourse, error) {
	return r.t.scan(ctx, func(oc *model.OrganizationCourse) bool {
		return oc.OrganizationID == organizationID
	})
}

// ---------- Subscribers ----------

func newSubscriberTable(c *clock) *table[model.Subscriber] {
	return &table[model.Subscriber]{
		rows:      make(map[int64]model.Subscriber),
		clock:     c,
		idOf:      func(s *model.Subscriber) int64 { return s.ID },
		createdOf: func(s *model.Subscriber) time.Time { return s.CreatedAt },
		stamp: func(s *model.Subscriber, id int64, at time.Time) {
			s.ID, s.CreatedAt = id, at
		},
		clone: func(s model.Subscriber) model.Subscriber {
			s.FullName = clonePtr(s.FullName)
			s.FirstName = clonePtr(s.FirstName)
			s.LastName = clonePtr(s.LastName)
			s.Phone = clonePtr(s.Phone)
			s.Plan = clonePtr(s.Plan)
			s.Type = clonePtr(s.Type)
			s.Group = clonePtr(s.Group)
			s.GithubUser = clonePtr(s.GithubUser)
			s.CustomerIDSumit = clonePtr(s.CustomerIDSumit)
			s.PaymentDetails = clonePtr(s.PaymentDetails)
			s.StartDate = clonePtr(s.StartDate)
			s.EndDate = clonePtr(s.EndDate)
			return s
		},
		unique: func(a, b *model.Subscriber) bool {
			return query.NormalizeEmail(a.Email) == query.NormalizeEmail(b.Email)
		},
		indexName: store.SubscriberEmailKey,
	}
}

type subscriberRepo struct {
	t *table[model.Subscriber]
}

func (r *subscriberRepo) Get(ctx context.Context, id int64) (*model.Subscriber, error) {
	return r.t.get(ctx, id)
}

func (r *subscriberRepo) Insert(ctx context.Context, s *model.Subscriber) (*model.Subscriber, error) {
	return r.t.insert(ctx, s)
}

func (r *subscriberRepo) Update(ctx context.Context, s *model.Subscriber) (*model.Subscriber, error) {
	return r.t.update(ctx, s)
}

func (r *subscriberRepo) Delete(ctx context.Context, id int64) error {
	return r.t.delete(ctx, id)
}

func (r *subscriberRepo) Scan(ctx context.Context, match func(*model.Subscriber) bool) ([]model.Subscriber, error) {
	return r.t.scan(ctx, match)
}

func (r *subscriberRepo) List(ctx context.Context, f query.SubscriberFilter, p query.Params) (query.Result[model.Subscriber], error) {
	return list(ctx, r.t, f.Match, query.SubscriberLess, p)
}

func (r *subscriberRepo) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	email = query.NormalizeEmail(email)
	rows, err := r.t.scan(ctx, func(s *model.Subscriber) bool {
		return s.ID != excludeID && query.NormalizeEmail(s.Email) == email
	})
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// ---------- Subscriptions ----------

func newSubscriptionTable(c *clock) *table[model.Subscription] {
	return &table[model.Subscription]{
		rows:      make(map[int64]model.Subscription),
		clock:     c,
		idOf:      func(s *model.Subscription) int64 { return s.ID },
		createdOf: func(s *model.Subscription) time.Time { return s.CreatedAt },
		stamp: func(s *model.Subscription, id int64, at time.Time) {
			s.ID, s.CreatedAt = id, at
		},
		clone: func(s model.Subscription) model.Subscription {
			s.StartDate = clonePtr(s.StartDate)
			s.EndDate = clonePtr(s.EndDate)
			s.GroupID = clonePtr(s.GroupID)
			return s
		},
	}
}

type subscriptionRepo struct {
	t *table[model.Subscription]
}

func (r *subscriptionRepo) Get(ctx context.Context, id int64) (*model.Subscription, error) {
	return r.t.get(ctx, id)
}

func (r *subscriptionRepo) Insert(ctx context.Context, s *model.Subscription) (*model.Subscription, error) {
	return r.t.insert(ctx, s)
}

func (r *subscriptionRepo) Update(ctx context.Context, s *model.Subscription) (*model.Subscription, error) {
	return r.t.update(ctx, s)
}

func (r *subscriptionRepo) Delete(ctx context.Context, id int64) error {
	return r.t.delete(ctx, id)
}

func (r *subscriptionRepo) Scan(ctx context.Context, match func(*model.Subscription) bool) ([]model.Subscription, error) {
	return r.t.scan(ctx, match)
}

func (r *subscriptionRepo) List(ctx context.Context, f query.SubscriptionFilter, p query.Params) (query.Result[model.Subscription], error) {
	return list(ctx, r.t, f.Match, query.SubscriptionLess, p)
}
