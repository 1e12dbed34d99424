package validator

import (
	"github.com/go-playground/validator/v10"

	"servicehub/pkg/logger"
	"servicehub/pkg/model"
	"servicehub/pkg/validation"
)

type ProfileValidator struct {
	validate *validator.Validate
}

func NewProfileValidator(log *logger.Logger) *ProfileValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to register profile validators",
			"error", err,
		)
	}

	log.Info("Profile validator initialized successfully")

	return &ProfileValidator{
		validate: v,
	}
}

func (v *ProfileValidator) Validate(profile *model.Profile) error {
	if err := validation.Struct(v.validate, profile); err != nil {
		return err
	}
	if profile.IsProvider() && len(profile.Services) == 0 {
		return validation.Field("services", "providers must offer at least one service type")
	}
	return nil
}

func (v *ProfileValidator) ValidateUpdate(update *model.ProfileUpdate) error {
	if update.Empty() {
		return validation.Field("body", "at least one field must be provided")
	}
	return validation.Struct(v.validate, update)
}
