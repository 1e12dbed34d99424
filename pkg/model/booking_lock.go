package model

import "time"

// SlotLock is an advisory lock row guarding one (provider, booking date) slot
// while a booking is created or accepted. Owner identifies the holder so only
// it can release the lock.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
