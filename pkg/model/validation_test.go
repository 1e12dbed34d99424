package model

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	if err := RegisterValidations(v); err != nil {
		t.Fatalf("RegisterValidations() error = %v", err)
	}
	return v
}

func validService() *Service {
	return &Service{
		ProviderProfileID: "507f1f77bcf86cd799439011",
		Description:       "Full exterior and interior wash",
		Type:              ServiceTypeCarWashing,
		Tiers: []Tier{{
			Name:            "Basic",
			Price:           25,
			Currency:        "USD",
			Description:     "Exterior only",
			Characteristics: []string{"foam wash"},
		}},
		Location:        NewGeoPoint(40.7128, -74.0060),
		City:            "New York",
		DaysOfOperation: []int{1, 2, 3},
		StartTime:       "09:00",
		EndTime:         "17:00",
	}
}

func TestService_Validation(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name        string
		mutate      func(*Service)
		expectValid bool
	}{
		{"valid service", func(*Service) {}, true},
		{"unknown type", func(s *Service) { s.Type = "Dog Walking" }, false},
		{"type with spaces accepted", func(s *Service) { s.Type = ServiceTypeWindowCleaning }, true},
		{"no tiers", func(s *Service) { s.Tiers = nil }, false},
		{"tier without price", func(s *Service) { s.Tiers[0].Price = 0 }, false},
		{"tier without characteristics", func(s *Service) { s.Tiers[0].Characteristics = nil }, false},
		{"tier bad currency", func(s *Service) { s.Tiers[0].Currency = "XXY" }, false},
		{"weekday out of range", func(s *Service) { s.DaysOfOperation = []int{7} }, false},
		{"duplicate weekday", func(s *Service) { s.DaysOfOperation = []int{1, 1} }, false},
		{"sunday allowed", func(s *Service) { s.DaysOfOperation = []int{0} }, true},
		{"bad start time", func(s *Service) { s.StartTime = "9:00" }, false},
		{"end time 24:00 rejected", func(s *Service) { s.EndTime = "24:00" }, false},
		{"photo not url", func(s *Service) { s.Photos = []string{"not a url"} }, false},
		{"photo url", func(s *Service) { s.Photos = []string{"https://cdn.example.com/a.jpg"} }, true},
		{"latitude out of range", func(s *Service) { s.Location = NewGeoPoint(95, 0) }, false},
		{"bad time zone", func(s *Service) { s.TimeZone = "Nowhere/City" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validService()
			tt.mutate(s)
			err := v.Struct(s)
			if tt.expectValid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.expectValid && err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestProfile_PostalCode(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		code  string
		valid bool
	}{
		{"12345", true},
		{"12345-6789", true},
		{"1234", false},
		{"12345-678", false},
		{"ABCDE", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			p := &Profile{
				UserID:   "507f1f77bcf86cd799439011",
				Name:     "Jordan",
				Type:     ProfileTypeUser,
				Location: NewGeoPoint(1, 1),
				Address: Address{
					Street: "1 Main St", City: "Austin", State: "TX", Country: "US", PostalCode: tt.code,
				},
			}
			err := v.Struct(p)
			if tt.valid != (err == nil) {
				t.Errorf("postal code %q: valid=%v, err=%v", tt.code, tt.valid, err)
			}
		})
	}
}

func TestBookingStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		allowed  bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusConfirmed, BookingStatusCompleted, true},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusPending, false},
		{BookingStatusCancelled, BookingStatusPending, false},
		{BookingStatusCancelled, BookingStatusConfirmed, false},
		{BookingStatusCompleted, BookingStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.allowed {
				t.Errorf("CanTransition() = %v, want %v", got, tt.allowed)
			}
		})
	}

	for _, terminal := range []BookingStatus{BookingStatusCancelled, BookingStatusCompleted} {
		for _, next := range BookingStatuses {
			if terminal.CanTransition(next) {
				t.Errorf("%s must be terminal, but may move to %s", terminal, next)
			}
		}
	}
	blocking := SlotBlockingStatuses()
	if len(blocking) != 2 || blocking[0] != BookingStatusPending || blocking[1] != BookingStatusConfirmed {
		t.Errorf("SlotBlockingStatuses() = %v", blocking)
	}
	cancellable := StatusesLeadingTo(BookingStatusCancelled)
	if len(cancellable) != 2 || cancellable[0] != BookingStatusPending || cancellable[1] != BookingStatusConfirmed {
		t.Errorf("StatusesLeadingTo(cancelled) = %v", cancellable)
	}
	if BookingStatusCancelled.BlocksSlot() || !BookingStatusPending.BlocksSlot() || !BookingStatusConfirmed.BlocksSlot() {
		t.Errorf("only pending and confirmed bookings occupy a slot")
	}
}

func TestBookingRequest_DateFormat(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		date  string
		valid bool
	}{
		{"2030-01-07T10:00:00Z", true},
		{"2030-01-07T10:00:00.000Z", true},
		{"2030-01-07T10:00:00+02:00", true},
		{"2030-01-07", false},
		{"tomorrow", false},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			err := v.Struct(&BookingRequest{ServiceID: "507f1f77bcf86cd799439011", BookingDate: tt.date})
			if tt.valid != (err == nil) {
				t.Errorf("date %q: valid=%v, err=%v", tt.date, tt.valid, err)
			}
		})
	}
}
