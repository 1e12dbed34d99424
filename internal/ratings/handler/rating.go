package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"servicehub/internal/ratings/service"
	httputil "servicehub/pkg/http"
	"servicehub/pkg/middleware"
	"servicehub/pkg/model"
)

// RatingHandler serves the ratings of one target kind under its own prefix.
type RatingHandler struct {
	service service.RatingService
	prefix  string
}

func NewRatingHandler(service service.RatingService) *RatingHandler {
	prefix := "/api/v1/ratings/services"
	if service.Target() == model.RatingTargetProvider {
		prefix = "/api/v1/ratings/providers"
	}
	return &RatingHandler{
		service: service,
		prefix:  prefix,
	}
}

func (h *RatingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST(h.prefix, h.Create)
	router.GET(h.prefix+"/target/:id", h.ListByTarget)
	router.PATCH(h.prefix+"/id/:id", h.Update)
	router.DELETE(h.prefix+"/id/:id", h.Delete)
	router.POST(h.prefix+"/id/:id/like", h.ToggleLike)
}

func (h *RatingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := middleware.RequireIdentity(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req model.RatingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	rating, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, rating)
}

func (h *RatingHandler) ListByTarget(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ratings, err := h.service.ListByTarget(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteList(w, ratings)
}

func (h *RatingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := middleware.RequireIdentity(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var update model.RatingUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		httputil.WriteError(w, err)
		return
	}

	rating, err := h.service.Update(r.Context(), actor, ps.ByName("id"), &update)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, rating)
}

func (h *RatingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := middleware.RequireIdentity(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), actor, ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *RatingHandler) ToggleLike(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := middleware.RequireIdentity(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rating, err := h.service.ToggleLike(r.Context(), actor, ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, map[string]any{
		"message":           "Rating like status updated",
		"liked_by_user_ids": rating.LikedByUserIDs,
	})
}
