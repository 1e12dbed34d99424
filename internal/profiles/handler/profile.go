package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"servicehub/internal/profiles/service"
	httputil "servicehub/pkg/http"
	"servicehub/pkg/logger"
	"servicehub/pkg/middleware"
	"servicehub/pkg/model"
)

type ProfileHandler struct {
	service service.ProfileService
	log     *logger.Logger
}

func NewProfileHandler(service service.ProfileService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		log:     log,
	}
}

func (h *ProfileHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/profiles", h.Create)
	router.GET("/api/v1/profiles/me", h.GetMine)
	router.PATCH("/api/v1/profiles/me", h.Update)
	router.GET("/api/v1/profiles/id/:id", h.GetByID)
	router.GET("/api/v1/profiles/providers/nearest", h.NearestProviders)
	router.GET("/api/v1/profiles/providers/top", h.TopProviders)
}

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := middleware.RequireIdentity(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var profile model.Profile
	if err := httputil.DecodeJSON(r, &profile); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Create(r.Context(), actor, &profile); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, profile)
}

func (h *ProfileHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	profile, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, profile)
}

func (h *ProfileHandler) GetMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := middleware.RequireIdentity(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	profile, err := h.service.GetMine(r.Context(), actor)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, profile)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := middleware.RequireIdentity(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var updates model.ProfileUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		httputil.WriteError(w, err)
		return
	}

	profile, err := h.service.Update(r.Context(), actor, &updates)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, profile)
}

func (h *ProfileHandler) NearestProviders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	point, err := middleware.OriginPoint(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	profiles, err := h.service.NearestProviders(r.Context(), point)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteList(w, profiles)
}

func (h *ProfileHandler) TopProviders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	point, err := middleware.OriginPoint(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	profiles, err := h.service.TopProviders(r.Context(), point)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteList(w, profiles)
}
