package validator

import (
	"github.com/go-playground/validator/v10"

	"servicehub/pkg/logger"
	"servicehub/pkg/model"
	"servicehub/pkg/validation"
)

type AuthValidator struct {
	validate *validator.Validate
}

func NewAuthValidator(log *logger.Logger) *AuthValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to register auth validators",
			"error", err,
		)
	}

	return &AuthValidator{
		validate: v,
	}
}

func (v *AuthValidator) ValidateRegister(req *model.RegisterRequest) error {
	return validation.Struct(v.validate, req)
}

func (v *AuthValidator) ValidateLogin(req *model.LoginRequest) error {
	return validation.Struct(v.validate, req)
}
