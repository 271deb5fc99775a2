package store

import "errors"

var (
	// ErrNotFound is returned when no row has the requested id.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a write would violate a unique index.
	ErrDuplicate = errors.New("duplicate")

	// ErrInvalidReference is returned when the backend rejects a write
	// because a referenced row does not exist.
	ErrInvalidReference = errors.New("invalid reference")
)

// Unique index names shared by every implementation.
const (
	SubscriberEmailKey        = "subscribers_email_key"
	OrganizationCoursePairKey = "organizations_courses_organization_id_course_id_key"
)
