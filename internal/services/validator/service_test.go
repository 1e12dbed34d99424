package validator

import (
	"errors"
	"testing"

	"servicehub/pkg/logger"
	"servicehub/pkg/model"
	"servicehub/pkg/validation"
)

func validService() *model.Service {
	return &model.Service{
		ProviderProfileID: "507f1f77bcf86cd799439022",
		Description:       "Full exterior and interior wash",
		Type:              model.ServiceTypeCarWashing,
		Tiers: []model.Tier{{
			Name:            "Basic",
			Price:           25.5,
			Currency:        "USD",
			Description:     "Exterior only",
			Characteristics: []string{"hand wash"},
		}},
		Location:        model.NewGeoPoint(40.7128, -74.0060),
		City:            "New York",
		DaysOfOperation: []int{1, 2, 3, 4, 5},
		StartTime:       "09:00",
		EndTime:         "17:00",
	}
}

func fieldsOf(t *testing.T, err error) map[string]bool {
	t.Helper()
	var verrs validation.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	fields := map[string]bool{}
	for _, e := range verrs {
		fields[e.Field] = true
	}
	return fields
}

func TestServiceValidator_Validate(t *testing.T) {
	v := NewServiceValidator(logger.Discard())

	tests := []struct {
		name      string
		mutate    func(*model.Service)
		wantField string
	}{
		{name: "valid", mutate: func(*model.Service) {}},
		{name: "no tiers", mutate: func(s *model.Service) { s.Tiers = nil }, wantField: "tiers"},
		{name: "zero price", mutate: func(s *model.Service) { s.Tiers[0].Price = 0 }, wantField: "tiers[0].price"},
		{name: "fractional cents", mutate: func(s *model.Service) { s.Tiers[0].Price = 10.005 }, wantField: "tiers[0].price"},
		{name: "unknown type", mutate: func(s *model.Service) { s.Type = "Dog Walking" }, wantField: "type"},
		{name: "weekday out of range", mutate: func(s *model.Service) { s.DaysOfOperation = []int{7} }, wantField: "days_of_operation[0]"},
		{name: "bad clock", mutate: func(s *model.Service) { s.StartTime = "9am" }, wantField: "start_time"},
		{name: "closing before opening", mutate: func(s *model.Service) { s.EndTime = "08:00" }, wantField: "end_time"},
		{name: "non http photo", mutate: func(s *model.Service) { s.Photos = []string{"ftp://x/y.png"} }, wantField: "photos[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := validService()
			tt.mutate(svc)
			err := v.Validate(svc)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error on %s", tt.wantField)
			}
			if fields := fieldsOf(t, err); !fields[tt.wantField] {
				t.Errorf("expected error on %s, got %v", tt.wantField, fields)
			}
		})
	}
}

func TestServiceValidator_ValidateUpdate(t *testing.T) {
	v := NewServiceValidator(logger.Discard())

	if err := v.ValidateUpdate(&model.ServiceUpdate{}); err == nil {
		t.Error("expected empty update to fail")
	}
	city := "Boston"
	if err := v.ValidateUpdate(&model.ServiceUpdate{City: &city}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
