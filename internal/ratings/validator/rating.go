package validator

import (
	"github.com/go-playground/validator/v10"

	"servicehub/pkg/logger"
	"servicehub/pkg/model"
	"servicehub/pkg/validation"
)

type RatingValidator struct {
	validate *validator.Validate
}

func NewRatingValidator(log *logger.Logger) *RatingValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to register rating validators",
			"error", err,
		)
	}

	return &RatingValidator{
		validate: v,
	}
}

func (v *RatingValidator) Validate(req *model.RatingRequest) error {
	return validation.Struct(v.validate, req)
}

func (v *RatingValidator) ValidateUpdate(update *model.RatingUpdate) error {
	if update.Empty() {
		return validation.Field("score", "at least one of score or comment must be provided")
	}
	return validation.Struct(v.validate, update)
}
