package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicehub/pkg/logger"
	"servicehub/pkg/model"
	"servicehub/pkg/validation"
)

func validProfile() *model.Profile {
	return &model.Profile{
		UserID:   "507f1f77bcf86cd799439011",
		Name:     "Dana Shine",
		Type:     model.ProfileTypeProvider,
		Location: model.NewGeoPoint(40.7128, -74.0060),
		Address: model.Address{
			Street:     "1 Main St",
			City:       "New York",
			State:      "NY",
			Country:    "USA",
			PostalCode: "10001",
		},
		Services: []string{model.ServiceTypeCarWashing},
	}
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var verrs validation.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestProfileValidator_Validate(t *testing.T) {
	v := NewProfileValidator(logger.Discard())

	tests := []struct {
		name      string
		mutate    func(*model.Profile)
		wantField string
	}{
		{name: "valid provider", mutate: func(*model.Profile) {}},
		{name: "valid user without services", mutate: func(p *model.Profile) {
			p.Type = model.ProfileTypeUser
			p.Services = nil
		}},
		{name: "provider without services", mutate: func(p *model.Profile) { p.Services = nil }, wantField: "services"},
		{name: "unknown type", mutate: func(p *model.Profile) { p.Type = "Admin" }, wantField: "type"},
		{name: "bad postal code", mutate: func(p *model.Profile) { p.Address.PostalCode = "1234" }, wantField: "address.postal_code"},
		{name: "unknown service type", mutate: func(p *model.Profile) { p.Services = []string{"Plumbing"} }, wantField: "services[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(p)
			err := v.Validate(p)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldsOf(t, err), tt.wantField)
		})
	}
}

func TestProfileValidator_ValidateUpdate(t *testing.T) {
	v := NewProfileValidator(logger.Discard())

	assert.Contains(t, fieldsOf(t, v.ValidateUpdate(&model.ProfileUpdate{})), "body")

	name := "X"
	assert.Contains(t, fieldsOf(t, v.ValidateUpdate(&model.ProfileUpdate{Name: &name})), "name")

	name = "New Name"
	assert.NoError(t, v.ValidateUpdate(&model.ProfileUpdate{Name: &name}))
}
