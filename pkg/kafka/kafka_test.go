package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicehub/pkg/logger"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func header(km kafka.Message, key string) string {
	for _, h := range km.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestMessageBuilder(t *testing.T) {
	msg, err := NewMessage().
		WithKey("svc-1").
		WithValue(map[string]any{"rating": 4.5}).
		WithEventType("rating.changed").
		WithSource("marketplace").
		WithCorrelationID("").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "svc-1", msg.Key)
	assert.NotEmpty(t, msg.GetEventID())
	assert.Equal(t, "rating.changed", msg.GetEventType())
	assert.NotContains(t, msg.Headers, HeaderCorrelationID)

	var decoded map[string]float64
	require.NoError(t, msg.DecodeValue(&decoded))
	assert.Equal(t, 4.5, decoded["rating"])
}

func TestMessageBuilder_EncodeError(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	assert.Error(t, err)
}

func TestRetryCount(t *testing.T) {
	msg := Message{Headers: map[string]string{}}
	assert.Equal(t, 0, msg.GetRetryCount())
	for i := 0; i < 12; i++ {
		msg.IncrementRetryCount()
	}
	assert.Equal(t, 12, msg.GetRetryCount())
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, ErrorTypeTransient, ClassifyError(NewTransientError("x", nil)))
	assert.Equal(t, ErrorTypePermanent, ClassifyError(NewPermanentError("x", nil)))
	assert.Equal(t, ErrorTypeTransient, ClassifyError(context.DeadlineExceeded))
	assert.Equal(t, ErrorTypeTransient, ClassifyError(errors.New("dial tcp: Connection Refused")))
	assert.Equal(t, ErrorTypePermanent, ClassifyError(errors.New("invalid payload")))
	assert.Equal(t, ErrorTypeUnknown, ClassifyError(nil))

	assert.True(t, ShouldRetry(context.DeadlineExceeded, 0, 3))
	assert.False(t, ShouldRetry(context.DeadlineExceeded, 3, 3))
	assert.False(t, ShouldRetry(errors.New("invalid payload"), 0, 3))
}

func TestProducer_PublishRunsMiddlewareInOrder(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "booking.events", logger.Discard())

	var order []string
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		order = append(order, "outer")
		return next(ctx, msg)
	})
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		order = append(order, "inner")
		return next(ctx, msg)
	})

	msg, err := NewMessage().WithKey("b1").WithValue("x").WithEventType("booking.created").Build()
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), msg))

	assert.Equal(t, []string{"outer", "inner"}, order)
	require.Len(t, w.messages, 1)
	assert.Equal(t, "b1", string(w.messages[0].Key))
	assert.Equal(t, "booking.created", header(w.messages[0], HeaderEventType))
}

func TestProducer_Rejects(t *testing.T) {
	p := newProducer(&fakeWriter{}, "t", logger.Discard())

	assert.ErrorIs(t, p.Publish(context.Background(), Message{Value: []byte("x")}), ErrEmptyKey)
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k"}), ErrEmptyValue)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k", Value: []byte("x")}), ErrProducerClosed)
}

func newTestConsumer(handler MessageHandler, dlq messageWriter) *Consumer {
	return &Consumer{
		topic:      "rating.changed",
		maxRetries: 2,
		handler:    handler,
		dlq:        dlq,
		log:        logger.Discard(),
	}
}

func TestConsumer_RetriesTransientThenSucceeds(t *testing.T) {
	calls := 0
	c := newTestConsumer(func(context.Context, Message) error {
		calls++
		if calls < 2 {
			return NewTransientError("store busy", nil)
		}
		return nil
	}, nil)

	err := c.processMessage(context.Background(), Message{Headers: map[string]string{}})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestConsumer_PermanentGoesToDLQ(t *testing.T) {
	dlq := &fakeWriter{}
	calls := 0
	c := newTestConsumer(func(context.Context, Message) error {
		calls++
		return NewPermanentError("bad payload", nil)
	}, dlq)

	err := c.processMessage(context.Background(), Message{Key: "k", Headers: map[string]string{}})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	require.Len(t, dlq.messages, 1)
	assert.Equal(t, "rating.changed", header(dlq.messages[0], HeaderOriginalTopic))
}

func TestConsumer_ExhaustedRetriesGoToDLQ(t *testing.T) {
	dlq := &fakeWriter{}
	calls := 0
	c := newTestConsumer(func(context.Context, Message) error {
		calls++
		return NewTransientError("store busy", nil)
	}, dlq)

	err := c.processMessage(context.Background(), Message{Key: "k", Headers: map[string]string{}})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, dlq.messages, 1)
}
