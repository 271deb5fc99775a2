package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/mabruk/internal/api/request"
	"github.com/edvin/mabruk/internal/api/response"
	"github.com/edvin/mabruk/internal/core"
	"github.com/edvin/mabruk/internal/dto"
)

type Organization struct {
	svc *core.OrganizationService
}

func NewOrganization(svc *core.OrganizationService) *Organization {
	return &Organization{svc: svc}
}

func (h *Organization) List(w http.ResponseWriter, r *http.Request) {
	params, err := request.ParsePagination(r)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.List(r.Context(), request.OrganizationFilter(r), params)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, dto.NewPage(res, dto.FromOrganization))
}

// Get returns the organization with its groups, courses and course links.
func (h *Organization) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	d, err := h.svc.GetDetails(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, dto.NewOrganizationDetails(&d.Organization, d.Groups, d.Courses, d.Links))
}

func (h *Organization) Create(w http.ResponseWriter, r *http.Request) {
	var req request.Organization
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	o, err := h.svc.Create(r.Context(), req.Model())
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, dto.FromOrganization(o))
}

func (h *Organization) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.Organization
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	o, err := h.svc.Update(r.Context(), id, req.Model())
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, dto.FromOrganization(o))
}

func (h *Organization) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AssignCourse links a course to the organization and returns the course.
func (h *Organization) AssignCourse(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.AssignCourse
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.svc.AssignCourse(r.Context(), id, req.CourseID)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, dto.FromCourse(c))
}

func (h *Organization) RemoveCourseLink(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	linkID, err := request.RequireID(chi.URLParam(r, "linkID"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.RemoveCourseLink(r.Context(), id, linkID); err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
