package model

import "time"

// Subscriber plans.
const (
	PlanDoveret    = "doveret"
	PlanPremium    = "premium"
	PlanEnterprise = "enterprise"
)

// Subscriber types.
const (
	SubscriberTypePrivate  = "private"
	SubscriberTypeBusiness = "business"
)

// Subscriber is an individual end user. Email is stored lower-cased and is
// unique across all subscribers.
type Subscriber struct {
	ID              int64     `db:"id"`
	CreatedAt       time.Time `db:"created_at"`
	Email           string    `db:"email"`
	FullName        *string   `db:"full_name"`
	FirstName       *string   `db:"first_name"`
	LastName        *string   `db:"last_name"`
	Phone           *string   `db:"phone"`
	Plan            *string   `db:"plan"`
	Type            *string   `db:"type"`
	Group           *string   `db:"group"`
	GithubUser      *string   `db:"github_user"`
	CustomerIDSumit *int64    `db:"customer_id_sumit"`
	PaymentDetails  *string   `db:"payment_details"`
	StartDate       *Date     `db:"start_date"`
	EndDate         *Date     `db:"end_date"`
}
