package store

import (
	"context"

	"github.com/edvin/mabruk/internal/model"
	"github.com/edvin/mabruk/internal/query"
)

// Insert assigns ID and CreatedAt and returns the stored row. Update replaces
// every mutable field of the row with the given ID and returns the stored
// row; ID and CreatedAt are never changed. Scan returns every row accepted by
// match (all rows when match is nil) in ascending id order.

type OrganizationRepository interface {
	Get(ctx context.Context, id int64) (*model.Organization, error)
	Insert(ctx context.Context, o *model.Organization) (*model.Organization, error)
	Update(ctx context.Context, o *model.Organization) (*model.Organization, error)
	Delete(ctx context.Context, id int64) error
	Scan(ctx context.Context, match func(*model.Organization) bool) ([]model.Organization, error)
	List(ctx context.Context, f query.OrganizationFilter, p query.Params) (query.Result[model.Organization], error)
}

type GroupRepository interface {
	Get(ctx context.Context, id int64) (*model.Group, error)
	Insert(ctx context.Context, g *model.Group) (*model.Group, error)
	Update(ctx context.Context, g *model.Group) (*model.Group, error)
	Delete(ctx context.Context, id int64) error
	Scan(ctx context.Context, match func(*model.Group) bool) ([]model.Group, error)
	List(ctx context.Context, f query.GroupFilter, p query.Params) (query.Result[model.Group], error)
	// ListByOrganization returns the organization's groups, newest first.
	ListByOrganization(ctx context.Context, organizationID int64) ([]model.Group, error)
}

type CourseRepository interface {
	Get(ctx context.Context, id int64) (*model.Course, error)
	Insert(ctx context.Context, c *model.Course) (*model.Course, error)
	Update(ctx context.Context, c *model.Course) (*model.Course, error)
	Delete(ctx context.Context, id int64) error
	Scan(ctx context.Context, match func(*model.Course) bool) ([]model.Course, error)
	List(ctx context.Context, f query.CourseFilter, p query.Params) (query.Result[model.Course], error)
	// GetMany returns the courses with the given ids ordered by name.
	// Ids with no course are skipped.
	GetMany(ctx context.Context, ids []int64) ([]model.Course, error)
}

type OrganizationCourseRepository interface {
	Get(ctx context.Context, id int64) (*model.OrganizationCourse, error)
	Insert(ctx context.Context, oc *model.OrganizationCourse) (*model.OrganizationCourse, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, organizationID, courseID int64) (bool, error)
	ListByOrganization(ctx context.Context, organizationID int64) ([]model.OrganizationCourse, error)
}

type SubscriberRepository interface {
	Get(ctx context.Context, id int64) (*model.Subscriber, error)
	Insert(ctx context.Context, s *model.Subscriber) (*model.Subscriber, error)
	Update(ctx context.Context, s *model.Subscriber) (*model.Subscriber, error)
	Delete(ctx context.Context, id int64) error
	Scan(ctx context.Context, match func(*model.Subscriber) bool) ([]model.Subscriber, error)
	List(ctx context.Context, f query.SubscriberFilter, p query.Params) (query.Result[model.Subscriber], error)
	// EmailTaken reports whether a subscriber other than excludeID already
	// has email. Pass 0 to consider every subscriber.
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
}

type SubscriptionRepository interface {
	Get(ctx context.Context, id int64) (*model.Subscription, error)
	Insert(ctx context.Context, s *model.Subscription) (*model.Subscription, error)
	Update(ctx context.Context, s *model.Subscription) (*model.Subscription, error)
	Delete(ctx context.Context, id int64) error
	Scan(ctx context.Context, match func(*model.Subscription) bool) ([]model.Subscription, error)
	List(ctx context.Context, f query.SubscriptionFilter, p query.Params) (query.Result[model.Subscription], error)
}

// Store bundles the repositories of one backend.
type Store struct {
	Organizations       OrganizationRepository
	Groups              GroupRepository
	Courses             CourseRepository
	OrganizationCourses OrganizationCourseRepository
	Subscribers         SubscriberRepository
	Subscriptions       SubscriptionRepository

	// Ping checks that the backend is reachable.
	Ping func(ctx context.Context) error
}
