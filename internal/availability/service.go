package availability

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"servicehub/pkg/config"
	apperrors "servicehub/pkg/errors"
	httputil "servicehub/pkg/http"
	"servicehub/pkg/model"
)

type ServiceReader interface {
	GetByID(ctx context.Context, id string) (*model.Service, error)
}

// BookingReader returns the pending and confirmed bookings of a service in [from, to).
type BookingReader interface {
	FindBlocking(ctx context.Context, serviceID string, from, to time.Time) ([]*model.Booking, error)
}

type AvailabilityService interface {
	FreeSlots(ctx context.Context, serviceID, date string) ([]string, error)
}

type availabilityService struct {
	services ServiceReader
	bookings BookingReader
	cfg      *config.Config
}

func NewAvailabilityService(services ServiceReader, bookings BookingReader, cfg *config.Config) AvailabilityService {
	return &availabilityService{
		services: services,
		bookings: bookings,
		cfg:      cfg,
	}
}

func (s *availabilityService) FreeSlots(ctx context.Context, serviceID, date string) ([]string, error) {
	if serviceID == "" {
		return nil, apperrors.InvalidInput("Service ID cannot be empty")
	}
	if date == "" {
		return nil, apperrors.InvalidInput("date query parameter is required")
	}

	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	window := WindowOf(svc, s.cfg.Location())
	day, err := ParseDate(date, window.Location)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	start, end, ok := window.Bounds(day)
	if !ok {
		return []string{}, nil
	}

	bookings, err := s.bookings.FindBlocking(ctx, svc.ID, start, end)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for availability",
			"service_id", svc.ID,
			"date", date,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to compute free slots", err)
	}

	occupied := make([]time.Time, 0, len(bookings))
	for _, b := range bookings {
		occupied = append(occupied, b.BookingDate)
	}

	slots := ComputeFreeSlots(window, day, occupied, s.cfg.SlotDuration)
	s.cfg.Log.Debug("Free slots computed",
		"service_id", svc.ID,
		"date", date,
		"free", len(slots),
		"occupied", len(occupied),
	)
	return slots, nil
}

type AvailabilityHandler struct {
	service AvailabilityService
}

func NewAvailabilityHandler(service AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/services/id/:id/slots", h.FreeSlots)
}

func (h *AvailabilityHandler) FreeSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slots, err := h.service.FreeSlots(r.Context(), ps.ByName("id"), r.URL.Query().Get("date"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteList(w, slots)
}
