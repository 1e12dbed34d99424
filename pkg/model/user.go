package model

import "time"

type User struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty"`
	Email        string    `json:"email" bson:"email"`
	Phone        string    `json:"phone" bson:"phone"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Identity is the authenticated caller as resolved by the auth middleware.
// ProfileID and ProfileType are empty until the user creates a profile.
type Identity struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	ProfileID   string    `json:"profile_id,omitempty"`
	ProfileType string    `json:"profile_type,omitempty"`
	Location    *GeoPoint `json:"location,omitempty"`
}

func (i *Identity) HasProfile() bool {
	return i != nil && i.ProfileID != ""
}

func (i *Identity) IsProvider() bool {
	return i != nil && i.ProfileType == ProfileTypeProvider
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Phone    string `json:"phone" validate:"required,min=7,max=20"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}
