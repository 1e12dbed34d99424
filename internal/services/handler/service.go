package handler

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"servicehub/internal/services/service"
	httputil "servicehub/pkg/http"
	"servicehub/pkg/logger"
	"servicehub/pkg/middleware"
	"servicehub/pkg/model"
)

type ServiceHandler struct {
	service service.ServiceService
	log     *logger.Logger
}

func NewServiceHandler(service service.ServiceService, log *logger.Logger) *ServiceHandler {
	return &ServiceHandler{
		service: service,
		log:     log,
	}
}

func (h *ServiceHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/services", h.Create)
	router.GET("/api/v1/services/search", h.Search)
	router.GET("/api/v1/services/nearest", h.Nearest)
	router.GET("/api/v1/services/top-rated", h.TopRated)
	router.GET("/api/v1/services/provider/:id", h.ListByProvider)
	router.GET("/api/v1/services/id/:id", h.GetByID)
	router.PATCH("/api/v1/services/id/:id", h.Update)
	router.DELETE("/api/v1/services/id/:id", h.Delete)
	router.POST("/api/v1/services/id/:id/like", h.ToggleLike)
}

func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := middleware.RequireIdentity(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var svc model.Service
	if err := httputil.DecodeJSON(r, &svc); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Create(r.Context(), actor, &svc); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, svc)
}

func (h *ServiceHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	svc, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, svc)
}

func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := middleware.RequireIdentity(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var updates model.ServiceUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		httputil.WriteError(w, err)
		return
	}

	svc, err := h.service.Update(r.Context(), actor, ps.ByName("id"), &updates)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, svc)
}

func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

func (h *ServiceHandler) ListByProvider(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	services, err := h.service.ListByProvider(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteList(w, services)
}

func (h *ServiceHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	search := model.ServiceSearch{
		City: strings.TrimSpace(query.Get("city")),
		Type: strings.TrimSpace(query.Get("type")),
	}

	minPrice, ok, err := httputil.QueryFloat(r, "minPrice")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if ok {
		search.MinPrice = &minPrice
	}

	maxPrice, ok, err := httputil.QueryFloat(r, "maxPrice")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if ok {
		search.MaxPrice = &maxPrice
	}

	services, err := h.service.Search(r.Context(), search)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteList(w, services)
}

func (h *ServiceHandler) Nearest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	point, err := middleware.OriginPoint(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	services, err := h.service.Nearest(r.Context(), point)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteList(w, services)
}

func (h *ServiceHandler) TopRated(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	point, err := middleware.OriginPoint(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	services, err := h.service.TopRated(r.Context(), point)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteList(w, services)
}

func (h *ServiceHandler) ToggleLike(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := middleware.RequireIdentity(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	svc, err := h.service.ToggleLike(r.Context(), actor, ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, svc)
}
