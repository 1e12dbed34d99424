package model

import "time"

const (
	ProfileTypeUser     = "User"
	ProfileTypeProvider = "Provider"
)

type Address struct {
	Street     string `json:"street" bson:"street" validate:"required,min=2,max=200"`
	City       string `json:"city" bson:"city" validate:"required,min=2,max=100"`
	State      string `json:"state" bson:"state" validate:"required,min=2,max=100"`
	Country    string `json:"country" bson:"country" validate:"required,min=2,max=100"`
	PostalCode string `json:"postal_code" bson:"postal_code" validate:"required,postal_code"`
}

// Profile is the public face of a user. Type is fixed at creation.
type Profile struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID    string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Type      string    `json:"type" bson:"type" validate:"required,oneof=User Provider"`
	Location  GeoPoint  `json:"location" bson:"location"`
	Address   Address   `json:"address" bson:"address"`
	Interests []string  `json:"interests,omitempty" bson:"interests,omitempty" validate:"omitempty,max=20,dive,service_type"`
	Services  []string  `json:"services,omitempty" bson:"services,omitempty" validate:"omitempty,max=20,dive,service_type"`
	Rating    float64   `json:"rating" bson:"rating"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func (p *Profile) IsProvider() bool {
	return p.Type == ProfileTypeProvider
}

// ProfileUpdate has no Type and no Rating field.
type ProfileUpdate struct {
	Name      *string   `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Location  *GeoPoint `json:"location,omitempty" validate:"omitempty"`
	Address   *Address  `json:"address,omitempty" validate:"omitempty"`
	Interests []string  `json:"interests,omitempty" validate:"omitempty,max=20,dive,service_type"`
	Services  []string  `json:"services,omitempty" validate:"omitempty,min=1,max=20,dive,service_type"`
}

func (u *ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Location == nil && u.Address == nil && u.Interests == nil && u.Services == nil
}
