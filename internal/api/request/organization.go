package request

import "github.com/edvin/mabruk/internal/model"

// Organization is the create and update body; updates replace every field.
type Organization struct {
	Name string `json:"name" validate:"notblank,max=255"`
}

func (o Organization) Model() *model.Organization {
	return &model.Organization{Name: o.Name}
}

type AssignCourse struct {
	CourseID int64 `json:"courseId" validate:"required,gt=0"`
}
