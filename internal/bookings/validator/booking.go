package validator

import (
	"time"

	"github.com/go-playground/validator/v10"

	"servicehub/pkg/logger"
	"servicehub/pkg/model"
	"servicehub/pkg/validation"
)

type BookingValidator struct {
	validate *validator.Validate
	now      func() time.Time
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to register booking validators",
			"error", err,
		)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		now:      time.Now,
	}
}

// ValidateRequest checks the create payload and returns the parsed booking
// date truncated to the millisecond precision the store keeps.
func (v *BookingValidator) ValidateRequest(req *model.BookingRequest) (time.Time, error) {
	if err := validation.Struct(v.validate, req); err != nil {
		return time.Time{}, err
	}

	date, err := time.Parse(time.RFC3339, req.BookingDate)
	if err != nil {
		return time.Time{}, validation.Field("booking_date", "booking_date must be an RFC3339 timestamp")
	}
	date = date.UTC().Truncate(time.Millisecond)

	if date.Before(v.now()) {
		return time.Time{}, validation.Field("booking_date", "booking_date cannot be in the past")
	}

	return date, nil
}

func (v *BookingValidator) ValidateCancel(req *model.CancelRequest) error {
	return validation.Struct(v.validate, req)
}
