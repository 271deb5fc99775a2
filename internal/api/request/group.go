package request

import "github.com/edvin/mabruk/internal/model"

type Group struct {
	Name           string `json:"name" validate:"notblank,max=255"`
	OrganizationID int64  `json:"organizationId" validate:"required,gt=0"`
}

func (g Group) Model() *model.Group {
	return &model.Group{Name: g.Name, OrganizationID: g.OrganizationID}
}
