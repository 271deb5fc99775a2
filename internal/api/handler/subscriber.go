package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/mabruk/internal/api/request"
	"github.com/edvin/mabruk/internal/api/response"
	"github.com/edvin/mabruk/internal/core"
	"github.com/edvin/mabruk/internal/dto"
)

type Subscriber struct {
	svc *core.SubscriberService
}

func NewSubscriber(svc *core.SubscriberService) *Subscriber {
	return &Subscriber{svc: svc}
}

func (h *Subscriber) List(w http.ResponseWriter, r *http.Request) {
	params, err := request.ParsePagination(r)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter := request.SubscriberFilter(r)

	res, err := h.svc.List(r.Context(), filter, params)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, dto.NewPage(res, dto.FromSubscriber))
}

func (h *Subscriber) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	v, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, dto.FromSubscriber(v))
}

func (h *Subscriber) Create(w http.ResponseWriter, r *http.Request) {
	var req request.Subscriber
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	v, err := h.svc.Create(r.Context(), req.Model())
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, dto.FromSubscriber(v))
}

// Update replaces every mutable field. An omitted startDate keeps the
// stored one.
func (h *Subscriber) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req request.Subscriber
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	v, err := h.svc.Update(r.Context(), id, req.Model())
	if err != nil {
		response.WriteServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, dto.FromSubscriber(v))
}

func (h *Subscriber) Delete(w http.ResponseWriter, r *http.Request) {
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
