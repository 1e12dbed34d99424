package events

import (
	"context"
	"strings"
	"time"

	"servicehub/pkg/model"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingConfirmed = "booking.confirmed"
	TypeBookingCompleted = "booking.completed"
	TypeBookingCancelled = "booking.cancelled"
	TypeRatingChanged    = "rating.changed"
)

// Event is a domain fact published after the change it describes has committed.
type Event struct {
	Type          string
	Key           string
	CorrelationID string
	Payload       any
}

// Publisher delivers events. Delivery is best effort; callers log failures
// and never roll back on them.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

type BookingEvent struct {
	BookingID         string              `json:"booking_id"`
	Status            model.BookingStatus `json:"status"`
	UserID            string              `json:"user_id"`
	ServiceID         string              `json:"service_id"`
	ProviderProfileID string              `json:"provider_profile_id"`
	BookingDate       time.Time           `json:"booking_date"`
	Cancellation      *model.Cancellation `json:"cancellation,omitempty"`
	OccurredAt        time.Time           `json:"occurred_at"`
}

func NewBookingEvent(eventType string, b *model.Booking) Event {
	return Event{
		Type: eventType,
		Key:  b.ID,
		Payload: BookingEvent{
			BookingID:         b.ID,
			Status:            b.Status,
			UserID:            b.UserID,
			ServiceID:         b.ServiceID,
			ProviderProfileID: b.ProviderProfileID,
			BookingDate:       b.BookingDate,
			Cancellation:      b.Cancellation,
			OccurredAt:        time.Now().UTC(),
		},
	}
}

// RatingChanged is keyed by target id so every change to one target lands on
// the same partition in order.
type RatingChanged struct {
	Target     model.RatingTarget `json:"target"`
	TargetID   string             `json:"target_id"`
	RatingID   string             `json:"rating_id"`
	Operation  string             `json:"operation"`
	Rating     float64            `json:"rating"`
	OccurredAt time.Time          `json:"occurred_at"`
}

func NewRatingChanged(op string, agg model.Aggregate, ratingID string) Event {
	return Event{
		Type: TypeRatingChanged,
		Key:  agg.TargetID,
		Payload: RatingChanged{
			Target:     agg.Target,
			TargetID:   agg.TargetID,
			RatingID:   ratingID,
			Operation:  op,
			Rating:     agg.Rating,
			OccurredAt: time.Now().UTC(),
		},
	}
}

func isBookingEvent(eventType string) bool {
	return strings.HasPrefix(eventType, "booking.")
}

// Nop discards events. Used when EVENTS_ENABLED is false.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
