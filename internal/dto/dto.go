// Package dto holds the external JSON shape of every entity. Optional values
// that are absent are omitted from the output.
package dto

import (
	"time"

	"github.com/edvin/mabruk/internal/model"
	"github.com/edvin/mabruk/internal/query"
)

type Organization struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Name      string    `json:"name"`
}

type Group struct {
	ID             int64     `json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	Name           string    `json:"name"`
	OrganizationID int64     `json:"organizationId"`
}

type Course struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	Name         string    `json:"name"`
	Price        *int64    `json:"price,omitempty"`
	DurationDays *int64    `json:"durationDays,omitempty"`
}

type OrganizationCourse struct {
	ID             int64     `json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	OrganizationID int64     `json:"organizationId"`
	CourseID       int64     `json:"courseId"`
}

type Subscriber struct {
	ID              int64       `json:"id"`
	CreatedAt       time.Time   `json:"createdAt"`
	Email           string      `json:"email"`
	FullName        *string     `json:"fullName,omitempty"`
	FirstName       *string     `json:"firstName,omitempty"`
	LastName        *string     `json:"lastName,omitempty"`
	Phone           *string     `json:"phone,omitempty"`
	Plan            *string     `json:"plan,omitempty"`
	Type            *string     `json:"type,omitempty"`
	Group           *string     `json:"group,omitempty"`
	GithubUser      *string     `json:"githubUser,omitempty"`
	CustomerIDSumit *int64      `json:"customerIdSumit,omitempty"`
	PaymentDetails  *string     `json:"paymentDetails,omitempty"`
	StartDate       *model.Date `json:"startDate,omitempty"`
	EndDate         *model.Date `json:"endDate,omitempty"`
}

type Subscription struct {
	ID           int64       `json:"id"`
	CreatedAt    time.Time   `json:"createdAt"`
	SubscriberID int64       `json:"subscriberId"`
	Course       string      `json:"course"`
	StartDate    *model.Date `json:"startDate,omitempty"`
	EndDate      *model.Date `json:"endDate,omitempty"`
	GroupID      *int64      `json:"groupId,omitempty"`
}

// OrganizationDetails is the composite organization view.
type OrganizationDetails struct {
	Organization Organization         `json:"organization"`
	Groups       []Group              `json:"groups"`
	Courses      []Course             `json:"courses"`
	CourseLinks  []OrganizationCourse `json:"courseLinks"`
}

// Page is the paged list envelope.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
}

func FromOrganization(o *model.Organization) Organization {
	return Organization{ID: o.ID, CreatedAt: o.CreatedAt, Name: o.Name}
}

func FromGroup(g *model.Group) Group {
	return Group{ID: g.ID, CreatedAt: g.CreatedAt, Name: g.Name, OrganizationID: g.OrganizationID}
}

func FromCourse(c *model.Course) Course {
	return Course{
		ID:           c.ID,
		CreatedAt:    c.CreatedAt,
		Name:         c.Name,
		Price:        c.Price,
		DurationDays: c.DurationDays,
	}
}

func FromOrganizationCourse(oc *model.OrganizationCourse) OrganizationCourse {
	return OrganizationCourse{
		ID:             oc.ID,
		CreatedAt:      oc.CreatedAt,
		OrganizationID: oc.OrganizationID,
		CourseID:       oc.CourseID,
	}
}

func FromSubscriber(s *model.Subscriber) Subscriber {
	return Subscriber{
		ID:              s.ID,
		CreatedAt:       s.CreatedAt,
		Email:           s.Email,
		FullName:        s.FullName,
		FirstName:       s.FirstName,
		LastName:        s.LastName,
		Phone:           s.Phone,
		Plan:            s.Plan,
		Type:            s.Type,
		Group:           s.Group,
		GithubUser:      s.GithubUser,
		CustomerIDSumit: s.CustomerIDSumit,
		PaymentDetails:  s.PaymentDetails,
		StartDate:       s.StartDate,
		EndDate:         s.EndDate,
	}
}

func FromSubscription(s *model.Subscription) Subscription {
	return Subscription{
		ID:           s.ID,
		CreatedAt:    s.CreatedAt,
		SubscriberID: s.SubscriberID,
		Course:       s.Course,
		StartDate:    s.StartDate,
		EndDate:      s.EndDate,
		GroupID:      s.GroupID,
	}
}

// FromSlice maps every element of items with fn, returning an empty (not
// nil) slice for no items.
func FromSlice[T, U any](items []T, fn func(*T) U) []U {
	out := make([]U, 0, len(items))
	for i := range items {
		out = append(out, fn(&items[i]))
	}
	return out
}

// NewPage maps a query result into the list envelope.
func NewPage[T, U any](r query.Result[T], fn func(*T) U) Page[U] {
	m := query.MapResult(r, fn)
	return Page[U]{
		Items:      m.Items,
		Page:       m.Page,
		PageSize:   m.PageSize,
		TotalCount: m.TotalCount,
	}
}

// NewOrganizationDetails assumes groups, courses and links are already
// ordered. The link ids are what course link removal takes.
func NewOrganizationDetails(o *model.Organization, groups []model.Group, courses []model.Course, links []model.OrganizationCourse) OrganizationDetails {
	return OrganizationDetails{
		Organization: FromOrganization(o),
		Groups:       FromSlice(groups, FromGroup),
		Courses:      FromSlice(courses, FromCourse),
		CourseLinks:  FromSlice(links, FromOrganizationCourse),
	}
}
