// Package repair re-derives rating aggregates from rating.changed events so a
// lost or partial write is corrected on the next delivery.
package repair

import (
	"context"
	"fmt"

	apperrors "servicehub/pkg/errors"
	"servicehub/pkg/events"
	"servicehub/pkg/kafka"
	"servicehub/pkg/logger"
	"servicehub/pkg/model"
)

type Recomputer interface {
	Target() model.RatingTarget
	Recompute(ctx context.Context, targetID string) (model.Aggregate, error)
}

type Handler struct {
	recomputers map[model.RatingTarget]Recomputer
	log         *logger.Logger
}

func NewHandler(log *logger.Logger, recomputers ...Recomputer) *Handler {
	byTarget := make(map[model.RatingTarget]Recomputer, len(recomputers))
	for _, r := range recomputers {
		byTarget[r.Target()] = r
	}
	return &Handler{recomputers: byTarget, log: log}
}

// Handle is a kafka.MessageHandler. Malformed events are permanent failures;
// store failures are retried.
func (h *Handler) Handle(ctx context.Context, msg kafka.Message) error {
	if eventType := msg.GetEventType(); eventType != events.TypeRatingChanged {
		h.log.Debug("Skipping non rating event", "event_type", eventType)
		return nil
	}

	var evt events.RatingChanged
	if err := msg.DecodeValue(&evt); err != nil {
		return kafka.NewPermanentError("decode rating.changed", err)
	}

	recomputer, ok := h.recomputers[evt.Target]
	if !ok {
		return kafka.NewPermanentError(fmt.Sprintf("unknown rating target %q", evt.Target), nil)
	}

	agg, err := recomputer.Recompute(ctx, evt.TargetID)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) || apperrors.HasCode(err, apperrors.CodeInvalidInput) {
			h.log.Warn("Rating target no longer exists",
				"target", evt.Target,
				"target_id", evt.TargetID,
				"event_id", msg.GetEventID(),
			)
			return nil
		}
		return kafka.NewTransientError("recompute rating aggregate", err)
	}

	h.log.Debug("Rating aggregate verified",
		"target", evt.Target,
		"target_id", evt.TargetID,
		"rating", agg.Rating,
		"drifted", agg.Drifted(),
	)
	return nil
}
