package events

import (
	"context"
	"errors"
	"fmt"

	"servicehub/pkg/kafka"
)

// KafkaPublisher routes booking events and rating events to their own topics.
type KafkaPublisher struct {
	bookings *kafka.Producer
	ratings  *kafka.Producer
	source   string
}

func NewKafkaPublisher(bookings, ratings *kafka.Producer, source string) *KafkaPublisher {
	return &KafkaPublisher{bookings: bookings, ratings: ratings, source: source}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	producer := p.ratings
	if isBookingEvent(evt.Type) {
		producer = p.bookings
	}

	msg, err := kafka.NewMessage().
		WithKey(evt.Key).
		WithValue(evt.Payload).
		WithEventType(evt.Type).
		WithSource(p.source).
		WithCorrelationID(evt.CorrelationID).
		Build()
	if err != nil {
		return fmt.Errorf("build %s event: %w", evt.Type, err)
	}
	return producer.Publish(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return errors.Join(p.bookings.Close(), p.ratings.Close())
}
