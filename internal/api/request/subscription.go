package request

import "github.com/edvin/mabruk/internal/model"

type Subscription struct {
	SubscriberID int64       `json:"subscriberId" validate:"required,gt=0"`
	Course       string      `json:"course" validate:"notblank,max=255"`
	StartDate    *model.Date `json:"startDate"`
	EndDate      *model.Date `json:"endDate"`
	GroupID      *int64      `json:"groupId" validate:"omitempty,gt=0"`
}

func (s Subscription) Model() *model.Subscription {
	return &model.Subscription{
		SubscriberID: s.SubscriberID,
		Course:       s.Course,
		StartDate:    s.StartDate,
		EndDate:      s.EndDate,
		GroupID:      s.GroupID,
	}
}
