package core

import (
	"context"

	"github.com/edvin/mabruk/internal/store"
)

type Services struct {
	Enforcer     *Enforcer
	Organization *OrganizationService
	Group        *GroupService
	Course       *CourseService
	Subscriber   *SubscriberService
	Subscription *SubscriptionService

	store *store.Store
}

func NewServices(s *store.Store) *Services {
	e := NewEnforcer(s)
	return &Services{
		Enforcer:     e,
		Organization: NewOrganizationService(s, e),
		Group:        NewGroupService(s, e),
		Course:       NewCourseService(s, e),
		Subscriber:   NewSubscriberService(s, e),
		Subscription: NewSubscriptionService(s, e),
		store:        s,
	}
}

// Ping reports whether the backing store is reachable.
func (s *Services) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
