package model

import "time"

// Subscription binds a subscriber to a course label for a date range,
// optionally within a group.
type Subscription struct {
	ID           int64     `db:"id"`
	CreatedAt    time.Time `db:"created_at"`
	SubscriberID int64     `db:"subscriber_id"`
	Course       string    `db:"course"`
	StartDate    *Date     `db:"start_date"`
	EndDate      *Date     `db:"end_date"`
	GroupID      *int64    `db:"group_id"`
}
