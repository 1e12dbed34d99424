package model

import "time"

const (
	ServiceTypeCarWashing     = "Car Washing"
	ServiceTypeHouseCleaning  = "House Cleaning"
	ServiceTypeGardening      = "Gardening"
	ServiceTypePoolCleaning   = "Pool Cleaning"
	ServiceTypeBoatInterior   = "Boat Interior"
	ServiceTypeWindowCleaning = "Window Cleaning"
	ServiceTypeOther          = "Other"
)

var ServiceTypes = []string{
	ServiceTypeCarWashing,
	ServiceTypeHouseCleaning,
	ServiceTypeGardening,
	ServiceTypePoolCleaning,
	ServiceTypeBoatInterior,
	ServiceTypeWindowCleaning,
	ServiceTypeOther,
}

// Tier is one priced offering of a service.
type Tier struct {
	Name            string   `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Price           float64  `json:"price" bson:"price" validate:"gt=0"`
	Currency        string   `json:"currency" bson:"currency" validate:"required,iso4217"`
	Description     string   `json:"description" bson:"description" validate:"required,max=1000"`
	Characteristics []string `json:"characteristics" bson:"characteristics" validate:"required,min=1,dive,required"`
}

// Service is a bookable offering published by a Provider profile. Rating is
// derived from the service ratings and never written by clients.
type Service struct {
	ID                string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ProviderProfileID string    `json:"provider_profile_id" bson:"provider_profile_id" validate:"required,mongodb"`
	Description       string    `json:"description" bson:"description" validate:"required,min=2,max=2000"`
	Type              string    `json:"type" bson:"type" validate:"required,service_type"`
	Tiers             []Tier    `json:"tiers" bson:"tiers" validate:"required,min=1,dive"`
	Location          GeoPoint  `json:"location" bson:"location"`
	City              string    `json:"city" bson:"city" validate:"required,min=2,max=100"`
	DaysOfOperation   []int     `json:"days_of_operation" bson:"days_of_operation" validate:"required,min=1,max=7,unique,dive,min=0,max=6"`
	StartTime         string    `json:"start_time" bson:"start_time" validate:"required,hhmm"`
	EndTime           string    `json:"end_time" bson:"end_time" validate:"required,hhmm"`
	TimeZone          string    `json:"time_zone,omitempty" bson:"time_zone,omitempty" validate:"omitempty,timezone"`
	Photos            []string  `json:"photos,omitempty" bson:"photos,omitempty" validate:"omitempty,dive,http_url"`
	Rating            float64   `json:"rating" bson:"rating"`
	LikedByUserIDs    []string  `json:"liked_by_user_ids" bson:"liked_by_user_ids"`
	CreatedAt         time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}

// ServiceUpdate carries the owner-editable fields. Provider and rating are not among them.
type ServiceUpdate struct {
	Description     *string   `json:"description,omitempty" validate:"omitempty,min=2,max=2000"`
	Type            *string   `json:"type,omitempty" validate:"omitempty,service_type"`
	Tiers           []Tier    `json:"tiers,omitempty" validate:"omitempty,min=1,dive"`
	Location        *GeoPoint `json:"location,omitempty" validate:"omitempty"`
	City            *string   `json:"city,omitempty" validate:"omitempty,min=2,max=100"`
	DaysOfOperation []int     `json:"days_of_operation,omitempty" validate:"omitempty,min=1,max=7,unique,dive,min=0,max=6"`
	StartTime       *string   `json:"start_time,omitempty" validate:"omitempty,hhmm"`
	EndTime         *string   `json:"end_time,omitempty" validate:"omitempty,hhmm"`
	TimeZone        *string   `json:"time_zone,omitempty" validate:"omitempty,timezone"`
	Photos          []string  `json:"photos,omitempty" validate:"omitempty,dive,http_url"`
}

func (u *ServiceUpdate) Empty() bool {
	return u.Description == nil && u.Type == nil && u.Tiers == nil && u.Location == nil &&
		u.City == nil && u.DaysOfOperation == nil && u.StartTime == nil && u.EndTime == nil &&
		u.TimeZone == nil && u.Photos == nil
}

// ServiceSearch filters the catalog. Zero values mean "any".
type ServiceSearch struct {
	City     string
	Type     string
	MinPrice *float64
	MaxPrice *float64
}
