package model

import (
	"slices"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type CancelledBy string

const (
	CancelledByUser     CancelledBy = "user"
	CancelledByProvider CancelledBy = "provider"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

// CanTransition reports whether a booking may move from s to next.
// Cancelled and completed are terminal.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	return slices.Contains(bookingTransitions[s], next)
}

// BlocksSlot reports whether a booking in this status occupies its slot.
func (s BookingStatus) BlocksSlot() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

var BookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCancelled,
	BookingStatusCompleted,
}

// SlotBlockingStatuses lists the statuses for which BlocksSlot holds.
func SlotBlockingStatuses() []BookingStatus {
	return statusesWhere(BookingStatus.BlocksSlot)
}

// StatusesLeadingTo lists the statuses allowed to move to next.
func StatusesLeadingTo(next BookingStatus) []BookingStatus {
	return statusesWhere(func(s BookingStatus) bool { return s.CanTransition(next) })
}

func statusesWhere(keep func(BookingStatus) bool) []BookingStatus {
	var out []BookingStatus
	for _, s := range BookingStatuses {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// Cancellation is embedded on the booking and is the single source of truth
// for why and by whom it was cancelled.
type Cancellation struct {
	Reason      string      `json:"reason" bson:"reason"`
	By          CancelledBy `json:"by" bson:"by"`
	CancelledAt time.Time   `json:"cancelled_at" bson:"cancelled_at"`
}

type Booking struct {
	ID                string        `json:"id,omitempty" bson:"_id,omitempty"`
	UserID            string        `json:"user_id" bson:"user_id"`
	ServiceID         string        `json:"service_id" bson:"service_id"`
	ProviderProfileID string        `json:"provider_profile_id" bson:"provider_profile_id"`
	BookingDate       time.Time     `json:"booking_date" bson:"booking_date"`
	Status            BookingStatus `json:"status" bson:"status"`
	Confirmed         bool          `json:"confirmed" bson:"confirmed"`
	Notes             string        `json:"notes,omitempty" bson:"notes,omitempty"`
	Cancellation      *Cancellation `json:"cancellation,omitempty" bson:"cancellation,omitempty"`
	CreatedAt         time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" bson:"updated_at"`
}

// CancelledBooking is the append-only cancellation log row, one per booking.
type CancelledBooking struct {
	ID        string      `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID string      `json:"booking_id" bson:"booking_id"`
	Reason    string      `json:"reason" bson:"reason"`
	By        CancelledBy `json:"by" bson:"by"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
}

// BookingRequest is the client payload for creating a booking.
type BookingRequest struct {
	ServiceID   string `json:"service_id" validate:"required,mongodb"`
	BookingDate string `json:"booking_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Notes       string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}
