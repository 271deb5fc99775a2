package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edvin/mabruk/internal/model"
	"github.com/edvin/mabruk/internal/query"
	"github.com/edvin/mabruk/internal/store"
)

type CourseService struct {
	store    *store.Store
	enforcer *Enforcer
}

func NewCourseService(s *store.Store, e *Enforcer) *CourseService {
	return &CourseService{store: s, enforcer: e}
}

func (s *CourseService) List(ctx context.Context, f query.CourseFilter, p query.Params) (query.Result[model.Course], error) {
	res, err := s.store.Courses.List(ctx, f, p)
	if err != nil {
		return res, fmt.Errorf("list courses: %w", err)
	}
	return res, nil
}

func (s *CourseService) Get(ctx context.Context, id int64) (*model.Course, error) {
	c, err := s.store.Courses.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "get course", "course", id)
	}
	return c, nil
}

func (s *CourseService) Create(ctx context.Context, c *model.Course) (*model.Course, error) {
	c.Name = strings.TrimSpace(c.Name)
	if err := s.enforcer.CheckCourse(ctx, c); err != nil {
		return nil, err
	}

	out, err := s.store.Courses.Insert(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Int64("course_id", out.ID).Msg("course created")
	return out, nil
}

func (s *CourseService) Update(ctx context.Context, id int64, c *model.Course) (*model.Course, error) {
	c.ID = id
	c.Name = strings.TrimSpace(c.Name)
	if err := s.enforcer.CheckCourse(ctx, c); err != nil {
		return nil, err
	}

	out, err := s.store.Courses.Update(ctx, c)
	if err != nil {
		return nil, notFound(err, "update course", "course", id)
	}
	zerolog.Ctx(ctx).Debug().Int64("course_id", id).Msg("course updated")
	return out, nil
}

// Delete leaves organization links to the course in place; they are skipped
// when organization details are assembled.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Courses.Delete(ctx, id); err != nil {
		return notFound(err, "delete course", "course", id)
	}
	zerolog.Ctx(ctx).Debug().Int64("course_id", id).Msg("course deleted")
	return nil
}
