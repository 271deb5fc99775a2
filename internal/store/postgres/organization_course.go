package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/edvin/mabruk/internal/model"
	"github.com/edvin/mabruk/internal/query"
)

var organizationCoursePage = page[model.OrganizationCourse]{
	table:   "organizations_courses",
	columns: "id, created_at, organization_id, course_id",
	order:   "id ASC",
	scan: func(row pgx.Row) (model.OrganizationCourse, error) {
		var oc model.OrganizationCourse
		err := row.Scan(&oc.ID, &oc.CreatedAt, &oc.OrganizationID, &oc.CourseID)
		return oc, err
	},
}

type organizationCourseRepo struct {
	db DB
}

func (r *organizationCourseRepo) Get(ctx context.Context, id int64) (*model.OrganizationCourse, error) {
	oc, err := organizationCoursePage.scan(r.db.QueryRow(ctx,
		"SELECT id, created_at, organization_id, course_id FROM organizations_courses WHERE id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("get organization course %d: %w", id, mapError(err))
	}
	return &oc, nil
}

func (r *organizationCourseRepo) Insert(ctx context.Context, oc *model.OrganizationCourse) (*model.OrganizationCourse, error) {
	out := *oc
	err := r.db.QueryRow(ctx,
		`INSERT INTO organizations_courses (organization_id, course_id)
		 VALUES ($1, $2) RETURNING id, created_at`,
		oc.OrganizationID, oc.CourseID,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert organization course: %w", mapError(err))
	}
	return &out, nil
}

func (r *organizationCourseRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM organizations_courses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete organization course %d: %w", id, mapError(err))
	}
	if err := checkAffected(tag); err != nil {
		return fmt.Errorf("delete organization course %d: %w", id, err)
	}
	return nil
}

func (r *organizationCourseRepo) Exists(ctx context.Context, organizationID, courseID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM organizations_courses
		 WHERE organization_id = $1 AND course_id = $2)`,
		organizationID, courseID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check organization course: %w", mapError(err))
	}
	return exists, nil
}

func (r *organizationCourseRepo) ListByOrganization(ctx context.Context, organizationID int64) ([]model.OrganizationCourse, error) {
	var w query.Where
	w.And("organization_id = " + w.Arg(organizationID))
	return organizationCoursePage.all(ctx, r.db, &w, "id ASC")
}
