package model

import "time"

// Group is a sub-division of an organization.
type Group struct {
	ID             int64     `db:"id"`
	CreatedAt      time.Time `db:"created_at"`
	Name           string    `db:"name"`
	OrganizationID int64     `db:"organization_id"`
}
