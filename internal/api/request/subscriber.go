package request

import "github.com/edvin/mabruk/internal/model"

// Subscriber is the create and update body. Plan and type are checked
// against their allowed values by the core, after normalization.
type Subscriber struct {
	Email           string      `json:"email" validate:"required,email,max=255"`
	FullName        *string     `json:"fullName" validate:"omitempty,max=255"`
	FirstName       *string     `json:"firstName" validate:"omitempty,max=255"`
	LastName        *string     `json:"lastName" validate:"omitempty,max=255"`
	Phone           *string     `json:"phone" validate:"omitempty,max=50"`
	Plan            *string     `json:"plan"`
	Type            *string     `json:"type"`
	Group           *string     `json:"group" validate:"omitempty,max=255"`
	GithubUser      *string     `json:"githubUser" validate:"omitempty,max=255"`
	CustomerIDSumit *int64      `json:"customerIdSumit" validate:"omitempty,gte=0"`
	PaymentDetails  *string     `json:"paymentDetails"`
	StartDate       *model.Date `json:"startDate"`
	EndDate         *model.Date `json:"endDate"`
}

func (s Subscriber) Model() *model.Subscriber {
	return &model.Subscriber{
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
