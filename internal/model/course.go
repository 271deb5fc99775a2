package model

import "time"

type Course struct {
	ID           int64     `db:"id"`
	CreatedAt    time.Time `db:"created_at"`
	Name         string    `db:"name"`
	Price        *int64    `db:"price"`
	DurationDays *int64    `db:"duration"`
}
