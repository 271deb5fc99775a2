package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/edvin/mabruk/internal/model"
	"github.com/edvin/mabruk/internal/store"
)

// Enforcer checks a write against the current store state before it is
// committed. Input checks run first, then reference lookups, then
// uniqueness. The checks are not atomic with the write that follows; the
// store's unique indexes are the final guard.
type Enforcer struct {
	store *store.Store
}

func NewEnforcer(s *store.Store) *Enforcer {
	return &Enforcer{store: s}
}

func (e *Enforcer) CheckOrganization(ctx context.Context, o *model.Organization) (err error) {
	defer observe(ctx, "organization", &err)
	return requireText("name", o.Name)
}

func (e *Enforcer) CheckCourse(ctx context.Context, c *model.Course) (err error) {
	defer observe(ctx, "course", &err)

	if err := requireText("name", c.Name); err != nil {
		return err
	}
	if err := checkNonNegative("price", c.Price); err != nil {
		return err
	}
	return checkNonNegative("durationDays", c.DurationDays)
}

func (e *Enforcer) CheckGroup(ctx context.Context, g *model.Group) (err error) {
	defer observe(ctx, "group", &err)

	if err := requireText("name", g.Name); err != nil {
		return err
	}
	return e.requireOrganization(ctx, g.OrganizationID)
}

// CheckOrganizationCourse returns the course that would be linked.
func (e *Enforcer) CheckOrganizationCourse(ctx context.Context, organizationID, courseID int64) (c *model.Course, err error) {
	defer observe(ctx, "organization_course", &err)

	if err := e.requireOrganization(ctx, organizationID); err != nil {
		return nil, err
	}
	c, err = e.store.Courses.Get(ctx, courseID)
	if err != nil {
		return nil, reference(err, "course", courseID)
	}

	exists, err := e.store.OrganizationCourses.Exists(ctx, organizationID, courseID)
	if err != nil {
		return nil, fmt.Errorf("check organization course: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: course %d is already linked to organization %d", ErrDuplicateLink, courseID, organizationID)
	}
	return c, nil
}

// CheckSubscriber expects s to be normalized already.
func (e *Enforcer) CheckSubscriber(ctx context.Context, s *model.Subscriber) (err error) {
	defer observe(ctx, "subscriber", &err)

	if err := checkEmail(s.Email); err != nil {
		return err
	}
	if err := checkOneOf("plan", s.Plan, model.PlanDoveret, model.PlanPremium, model.PlanEnterprise); err != nil {
		return err
	}
	if err := checkOneOf("type", s.Type, model.SubscriberTypePrivate, model.SubscriberTypeBusiness); err != nil {
		return err
	}
	if err := checkNonNegative("customerIdSumit", s.CustomerIDSumit); err != nil {
		return err
	}
	if err := checkRange(s.StartDate, s.EndDate); err != nil {
		return err
	}

	taken, err := e.store.Subscribers.EmailTaken(ctx, s.Email, s.ID)
	if err != nil {
		return fmt.Errorf("check subscriber email: %w", err)
	}
	if taken {
		return fmt.Errorf("%w: email %s is already registered", ErrDuplicateKey, s.Email)
	}
	return nil
}

func (e *Enforcer) CheckSubscription(ctx context.Context, s *model.Subscription) (err error) {
	defer observe(ctx, "subscription", &err)

	if err := requireText("course", s.Course); err != nil {
		return err
	}
	if err := checkRange(s.StartDate, s.EndDate); err != nil {
		return err
	}

	if _, err := e.store.Subscribers.Get(ctx, s.SubscriberID); err != nil {
		return reference(err, "subscriber", s.SubscriberID)
	}
	if s.GroupID != nil {
		if _, err := e.store.Groups.Get(ctx, *s.GroupID); err != nil {
			return reference(err, "group", *s.GroupID)
		}
	}
	return nil
}

func (e *Enforcer) requireOrganization(ctx context.Context, id int64) error {
	if _, err := e.store.Organizations.Get(ctx, id); err != nil {
		return reference(err, "organization", id)
	}
	return nil
}

// reference converts a failed lookup of a referenced row.
func reference(err error, entity string, id int64) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s %d does not exist", ErrNotFoundReference, entity, id)
	}
	return fmt.Errorf("resolve %s %d: %w", entity, id, err)
}
