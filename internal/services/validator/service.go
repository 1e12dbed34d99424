package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"servicehub/pkg/logger"
	"servicehub/pkg/model"
	"servicehub/pkg/validation"
)

type ServiceValidator struct {
	validate *validator.Validate
}

func NewServiceValidator(log *logger.Logger) *ServiceValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to register service validators",
			"error", err,
		)
	}

	log.Info("Service validator initialized successfully")

	return &ServiceValidator{
		validate: v,
	}
}

func (v *ServiceValidator) Validate(svc *model.Service) error {
	if err := validation.Struct(v.validate, svc); err != nil {
		return err
	}
	return v.validateBusinessRules(svc)
}

func (v *ServiceValidator) ValidateUpdate(update *model.ServiceUpdate) error {
	if update.Empty() {
		return validation.Field("body", "at least one field must be provided")
	}
	return validation.Struct(v.validate, update)
}

// validateBusinessRules covers what the struct tags cannot: the operating
// window must be non-empty and prices are whole cents.
func (v *ServiceValidator) validateBusinessRules(svc *model.Service) error {
	var errs validation.ValidationErrors

	// HH:MM strings order the same way as the times they denote.
	if svc.EndTime <= svc.StartTime {
		errs = append(errs, validation.ValidationError{
			Field:   "end_time",
			Message: "end_time must be after start_time",
		})
	}

	for i, tier := range svc.Tiers {
		price := decimal.NewFromFloat(tier.Price)
		if !price.Equal(price.Round(2)) {
			errs = append(errs, validation.ValidationError{
				Field:   fmt.Sprintf("tiers[%d].price", i),
				Message: "price must have at most two decimal places",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
