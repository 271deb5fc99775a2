package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/mabruk/internal/model"
	"github.com/edvin/mabruk/internal/query"
	"github.com/edvin/mabruk/internal/store"
)

// OrganizationDetails is an organization with its groups, newest first, and
// its linked courses ordered by name. Courses skips links to deleted
// courses; Links holds every link in id order so stale ones can be removed.
type OrganizationDetails struct {
	Organization model.Organization
	Groups       []model.Group
	Courses      []model.Course
	Links        []model.OrganizationCourse
}

type OrganizationService struct {
	store    *store.Store
	enforcer *Enforcer
}

func NewOrganizationService(s *store.Store, e *Enforcer) *OrganizationService {
	return &OrganizationService{store: s, enforcer: e}
}

func (s *OrganizationService) List(ctx context.Context, f query.OrganizationFilter, p query.Params) (query.Result[model.Organization], error) {
	res, err := s.store.Organizations.List(ctx, f, p)
	if err != nil {
		return res, fmt.Errorf("list organizations: %w", err)
	}
	return res, nil
}

func (s *OrganizationService) Get(ctx context.Context, id int64) (*model.Organization, error) {
	o, err := s.store.Organizations.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "get organization", "organization", id)
	}
	return o, nil
}

func (s *OrganizationService) GetDetails(ctx context.Context, id int64) (*OrganizationDetails, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		groups []model.Group
		links  []model.OrganizationCourse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		groups, err = s.store.Groups.ListByOrganization(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		links, err = s.store.OrganizationCourses.ListByOrganization(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("get organization %d details: %w", id, err)
	}

	ids := make([]int64, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.CourseID)
	}
	courses, err := s.store.Courses.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get organization %d courses: %w", id, err)
	}

	return &OrganizationDetails{Organization: *o, Groups: groups, Courses: courses, Links: links}, nil
}

func (s *OrganizationService) Create(ctx context.Context, o *model.Organization) (*model.Organization, error) {
	o.Name = strings.TrimSpace(o.Name)
	if err := s.enforcer.CheckOrganization(ctx, o); err != nil {
		return nil, err
	}

	out, err := s.store.Organizations.Insert(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Int64("organization_id", out.ID).Msg("organization created")
	return out, nil
}

func (s *OrganizationService) Update(ctx context.Context, id int64, o *model.Organization) (*model.Organization, error) {
	o.ID = id
	o.Name = strings.TrimSpace(o.Name)
	if err := s.enforcer.CheckOrganization(ctx, o); err != nil {
		return nil, err
	}

	out, err := s.store.Organizations.Update(ctx, o)
	if err != nil {
		return nil, notFound(err, "update organization", "organization", id)
	}
	zerolog.Ctx(ctx).Debug().Int64("organization_id", id).Msg("organization updated")
	return out, nil
}

// Delete removes the organization only. Its groups and course links keep
// the dangling organization id.
func (s *OrganizationService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Organizations.Delete(ctx, id); err != nil {
		return notFound(err, "delete organization", "organization", id)
	}
	zerolog.Ctx(ctx).Debug().Int64("organization_id", id).Msg("organization deleted")
	return nil
}

// AssignCourse links a course to the organization and returns the course.
func (s *OrganizationService) AssignCourse(ctx context.Context, organizationID, courseID int64) (*model.Course, error) {
	c, err := s.enforcer.CheckOrganizationCourse(ctx, organizationID, courseID)
	if err != nil {
		return nil, err
	}

	link, err := s.store.OrganizationCourses.Insert(ctx, &model.OrganizationCourse{
		OrganizationID: organizationID,
		CourseID:       courseID,
	})
	if err != nil {
		return nil, writeError(err, "assign course", ErrDuplicateLink)
	}
	zerolog.Ctx(ctx).Debug().
		Int64("organization_id", organizationID).
		Int64("course_id", courseID).
		Int64("link_id", link.ID).
		Msg("course assigned")
	return c, nil
}

// RemoveCourseLink deletes a link by its own id. A link that belongs to
// another organization is reported as not found.
func (s *OrganizationService) RemoveCourseLink(ctx context.Context, organizationID, linkID int64) error {
	link, err := s.store.OrganizationCourses.Get(ctx, linkID)
	if err != nil {
		return notFound(err, "remove course link", "course link", linkID)
	}
	if link.OrganizationID != organizationID {
		return fmt.Errorf("course link %d: %w", linkID, ErrNotFound)
	}

	if err := s.store.OrganizationCourses.Delete(ctx, linkID); err != nil {
		return notFound(err, "remove course link", "course link", linkID)
	}
	zerolog.Ctx(ctx).Debug().
		Int64("organization_id", organizationID).
		Int64("link_id", linkID).
		Msg("course link removed")
	return nil
}
