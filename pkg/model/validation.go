package model

import (
	"reflect"
	"regexp"
	"slices"

	"github.com/go-playground/validator/v10"
)

var (
	hhmmRegex       = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	postalCodeRegex = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// RegisterValidations installs the custom tags used by the model structs.
// Every domain validator calls it once on its own validator instance.
func RegisterValidations(v *validator.Validate) error {
	tags := map[string]validator.Func{
		"service_type": validateServiceType,
		"hhmm":         validateHHMM,
		"postal_code":  validatePostalCode,
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	v.RegisterStructValidation(validateGeoPoint, GeoPoint{})
	return nil
}

func validateServiceType(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	return slices.Contains(ServiceTypes, fl.Field().String())
}

func validateHHMM(fl validator.FieldLevel) bool {
	return fl.Field().Kind() == reflect.String && hhmmRegex.MatchString(fl.Field().String())
}

func validatePostalCode(fl validator.FieldLevel) bool {
	return fl.Field().Kind() == reflect.String && postalCodeRegex.MatchString(fl.Field().String())
}

func validateGeoPoint(sl validator.StructLevel) {
	p := sl.Current().Interface().(GeoPoint)
	if !p.Valid() {
		sl.ReportError(p.Coordinates, "Coordinates", "coordinates", "geo_point", "")
	}
}
