package model

import "time"

type Organization struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	Name      string    `db:"name"`
}

// OrganizationCourse links a course to an organization that offers it.
// The (OrganizationID, CourseID) pair is unique.
type OrganizationCourse struct {
	ID             int64     `db:"id"`
	CreatedAt      time.Time `db:"created_at"`
	OrganizationID int64     `db:"organization_id"`
	CourseID       int64     `db:"course_id"`
}
