package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"

	"servicehub/internal/bookings/service"
	"servicehub/pkg/logger"
	"servicehub/pkg/middleware"
	"servicehub/pkg/model"
)

type recordingService struct {
	service.BookingService
	calls int
}

func (s *recordingService) Create(context.Context, *model.Identity, *model.BookingRequest) (*model.Booking, error) {
	s.calls++
	return &model.Booking{}, nil
}

func (s *recordingService) Cancel(context.Context, *model.Identity, model.CancelledBy, string, *model.CancelRequest) (*model.CancelledBooking, error) {
	s.calls++
	return &model.CancelledBooking{}, nil
}

func newTestRouter(svc service.BookingService, out *bytes.Buffer) *httprouter.Router {
	log := logger.New(logger.Config{Output: out, Level: logger.WARN})
	router := httprouter.New()
	NewBookingHandler(svc, log).RegisterRoutes(router)
	return router
}

func TestBookingHandler_MalformedBodyIsLogged(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantLog string
	}{
		{name: "create", path: "/api/v1/bookings", wantLog: "Invalid booking request body"},
		{name: "cancel", path: "/api/v1/bookings/id/507f1f77bcf86cd799439011/cancel/user", wantLog: "Invalid cancel request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			svc := &recordingService{}
			router := newTestRouter(svc, &logs)

			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(`{"service_id":`))
			req = req.WithContext(middleware.WithIdentity(req.Context(), &model.Identity{UserID: "user-1"}))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, svc.calls)
			assert.Contains(t, logs.String(), tt.wantLog)
		})
	}
}
