package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"servicehub/internal/bookings/service"
	httputil "servicehub/pkg/http"
	"servicehub/pkg/logger"
	"servicehub/pkg/middleware"
	"servicehub/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings/user", h.ListByUser)
	router.GET("/api/v1/bookings/provider", h.ListByProvider)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.POST("/api/v1/bookings/id/:id/accept", h.Accept)
	router.POST("/api/v1/bookings/id/:id/complete", h.Complete)
	router.POST("/api/v1/bookings/id/:id/cancel/user", h.cancel(model.CancelledByUser))
	router.POST("/api/v1/bookings/id/:id/cancel/provider", h.cancel(model.CancelledByProvider))
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := middleware.RequireIdentity(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.log.Warn("Invalid booking request body", "handler", "Create", "user_id", actor.UserID, "error", err)
		httputil.WriteError(w, err)
		return
	}

	booking, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, booking)
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := middleware.RequireIdentity(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	booking, err := h.service.GetByID(r.Context(), actor, ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) ListByUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := middleware.RequireIdentity(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	bookings, err := h.service.ListByUser(r.Context(), actor.UserID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteList(w, bookings)
}

func (h *BookingHandler) ListByProvider(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := middleware.RequireIdentity(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	bookings, err := h.service.ListByProvider(r.Context(), actor.ProfileID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteList(w, bookings)
}

func (h *BookingHandler) Accept(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := middleware.RequireIdentity(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	booking, err := h.service.Accept(r.Context(), actor, ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := middleware.RequireIdentity(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	booking, err := h.service.Complete(r.Context(), actor, ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) cancel(by model.CancelledBy) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		actor, err := middleware.RequireIdentity(r.Context())
		if err != nil {
			httputil.WriteError(w, err)
			return
		}

		var req model.CancelRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			h.log.Warn("Invalid cancel request body", "handler", "Cancel", "id", ps.ByName("id"), "by", by, "error", err)
			httputil.WriteError(w, err)
			return
		}

		entry, err := h.service.Cancel(r.Context(), actor, by, ps.ByName("id"), &req)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}

		httputil.WriteSuccess(w, entry)
	}
}
