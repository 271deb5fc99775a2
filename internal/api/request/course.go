package request

import "github.com/edvin/mabruk/internal/model"

type Course struct {
	Name         string `json:"name" validate:"notblank,max=255"`
	Price        *int64 `json:"price" validate:"omitempty,gte=0"`
	DurationDays *int64 `json:"durationDays" validate:"omitempty,gte=0"`
}

func (c Course) Model() *model.Course {
	return &model.Course{Name: c.Name, Price: c.Price, DurationDays: c.DurationDays}
}
