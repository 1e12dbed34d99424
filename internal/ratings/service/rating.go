package service

import (
	"context"
	"errors"
	"fmt"

	ratingserrors "servicehub/internal/ratings/errors"
	"servicehub/internal/ratings/repository"
	"servicehub/internal/ratings/validator"
	"servicehub/pkg/config"
	apperrors "servicehub/pkg/errors"
	"servicehub/pkg/events"
	"servicehub/pkg/metrics"
	"servicehub/pkg/model"
	"servicehub/pkg/validation"
)

const (
	OperationCreated = "created"
	OperationUpdated = "updated"
	OperationDeleted = "deleted"
	OperationRepair  = "repair"
)

// RatingService manages the ratings of one target kind and keeps the
// target's aggregate in step with them.
type RatingService interface {
	Target() model.RatingTarget
	Create(ctx context.Context, actor *model.Identity, req *model.RatingRequest) (*model.Rating, error)
	Update(ctx context.Context, actor *model.Identity, id string, update *model.RatingUpdate) (*model.Rating, error)
	Delete(ctx context.Context, actor *model.Identity, id string) error
	ToggleLike(ctx context.Context, actor *model.Identity, id string) (*model.Rating, error)
	ListByTarget(ctx context.Context, targetID string) ([]*model.Rating, error)
	// Recompute rebuilds the target's aggregate from its ratings. Safe to re-run.
	Recompute(ctx context.Context, targetID string) (model.Aggregate, error)
}

type ratingService struct {
	target    model.RatingTarget
	repo      repository.RatingRepository
	targets   repository.TargetRepository
	publisher events.Publisher
	validator *validator.RatingValidator
	cfg       *config.Config
}

func NewRatingService(
	target model.RatingTarget,
	repo repository.RatingRepository,
	targets repository.TargetRepository,
	publisher events.Publisher,
	validator *validator.RatingValidator,
	cfg *config.Config,
) RatingService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &ratingService{
		target:    target,
		repo:      repo,
		targets:   targets,
		publisher: publisher,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *ratingService) Target() model.RatingTarget {
	return s.target
}

func (s *ratingService) Create(ctx context.Context, actor *model.Identity, req *model.RatingRequest) (*model.Rating, error) {
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Rating validation failed", "target", s.target, "error", err)
		return nil, validation.AppError("Rating validation failed", err)
	}

	raterID, err := s.raterID(actor)
	if err != nil {
		return nil, err
	}

	target, err := s.targets.Find(ctx, req.TargetID)
	if err != nil {
		return nil, s.translateTargetError(err, req.TargetID)
	}
	if actor.HasProfile() && target.OwnerProfileID == actor.ProfileID {
		return nil, apperrors.Forbidden(fmt.Sprintf("You cannot rate your own %s", s.target))
	}

	var rating *model.Rating
	var agg model.Aggregate
	err = s.repo.ExecuteTransaction(ctx, func(ctx context.Context) error {
		rating = &model.Rating{
			TargetID: req.TargetID,
			RaterID:  raterID,
			Score:    req.Score,
			Comment:  req.Comment,
		}
		if err := s.repo.Create(ctx, rating); err != nil {
			return apperrors.Internal("Failed to create rating", err)
		}
		agg, err = s.recompute(ctx, rating.TargetID)
		return err
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create rating", "target", s.target, "target_id", req.TargetID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Rating created successfully",
		"id", rating.ID,
		"target", s.target,
		"target_id", rating.TargetID,
		"score", rating.Score,
		"aggregate", agg.Rating,
	)
	s.publish(ctx, OperationCreated, agg, rating.ID)
	return rating, nil
}

func (s *ratingService) Update(ctx context.Context, actor *model.Identity, id string, update *model.RatingUpdate) (*model.Rating, error) {
	if err := s.validator.ValidateUpdate(update); err != nil {
		s.cfg.Log.Warn("Rating update validation failed", "id", id, "error", err)
		return nil, validation.AppError("Rating validation failed", err)
	}

	existing, err := s.findOwned(ctx, actor, id, "update")
	if err != nil {
		return nil, err
	}

	var updated *model.Rating
	var agg model.Aggregate
	err = s.repo.ExecuteTransaction(ctx, func(ctx context.Context) error {
		updated, err = s.repo.Update(ctx, id, update)
		if err != nil {
			return s.translateRatingError(err, id)
		}
		agg, err = s.recompute(ctx, existing.TargetID)
		return err
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update rating", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Rating updated successfully",
		"id", id,
		"target", s.target,
		"target_id", existing.TargetID,
		"aggregate", agg.Rating,
	)
	s.publish(ctx, OperationUpdated, agg, id)
	return updated, nil
}

func (s *ratingService) Delete(ctx context.Context, actor *model.Identity, id string) error {
	existing, err := s.findOwned(ctx, actor, id, "delete")
	if err != nil {
		return err
	}

	var agg model.Aggregate
	err = s.repo.ExecuteTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, id); err != nil {
			return s.translateRatingError(err, id)
		}
		agg, err = s.recompute(ctx, existing.TargetID)
		return err
	})
	if err != nil {
		s.cfg.Log.Error("Failed to delete rating", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Rating deleted successfully",
		"id", id,
		"target", s.target,
		"target_id", existing.TargetID,
		"aggregate", agg.Rating,
	)
	s.publish(ctx, OperationDeleted, agg, id)
	return nil
}

func (s *ratingService) ToggleLike(ctx context.Context, actor *model.Identity, id string) (*model.Rating, error) {
	rating, err := s.repo.ToggleLike(ctx, id, actor.UserID)
	if err != nil {
		if errors.Is(err, ratingserrors.ErrNotFound) || errors.Is(err, ratingserrors.ErrInvalidID) {
			return nil, s.translateRatingError(err, id)
		}
		s.cfg.Log.Error("Failed to toggle rating like", "id", id, "user_id", actor.UserID, "error", err)
		return nil, apperrors.Internal("Failed to update rating like status", err)
	}

	s.cfg.Log.Info("Rating like status updated",
		"id", id,
		"user_id", actor.UserID,
		"likes", len(rating.LikedByUserIDs),
	)
	return rating, nil
}

func (s *ratingService) ListByTarget(ctx context.Context, targetID string) ([]*model.Rating, error) {
	if _, err := s.targets.Find(ctx, targetID); err != nil {
		return nil, s.translateTargetError(err, targetID)
	}

	ratings, err := s.repo.ListByTarget(ctx, targetID)
	if err != nil {
		s.cfg.Log.Error("Failed to list ratings", "target", s.target, "target_id", targetID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve ratings", err)
	}
	return ratings, nil
}

func (s *ratingService) Recompute(ctx context.Context, targetID string) (model.Aggregate, error) {
	agg, err := s.recompute(ctx, targetID)
	if err != nil {
		return model.Aggregate{}, err
	}

	metrics.IncRatingRecompute(string(s.target), agg.Drifted())
	if agg.Drifted() {
		s.cfg.Log.Warn("Repaired drifted rating aggregate",
			"target", s.target,
			"target_id", targetID,
			"stored", agg.Previous,
			"recomputed", agg.Rating,
			"count", agg.Count,
		)
	}
	return agg, nil
}

// --- Helpers ---

func (s *ratingService) recompute(ctx context.Context, targetID string) (model.Aggregate, error) {
	total, count, err := s.repo.Sum(ctx, targetID)
	if err != nil {
		return model.Aggregate{}, apperrors.Internal("Failed to recompute rating", err)
	}

	agg := model.Aggregate{
		Target:   s.target,
		TargetID: targetID,
		Count:    count,
		Rating:   Mean(total, count),
	}

	agg.Previous, err = s.targets.SetRating(ctx, targetID, agg.Rating)
	if err != nil {
		if errors.Is(err, ratingserrors.ErrTargetNotFound) || errors.Is(err, ratingserrors.ErrInvalidID) {
			return model.Aggregate{}, s.translateTargetError(err, targetID)
		}
		return model.Aggregate{}, apperrors.Internal("Failed to recompute rating", err)
	}
	return agg, nil
}

// raterID is the user id for service ratings and the rater's profile id for
// provider ratings.
func (s *ratingService) raterID(actor *model.Identity) (string, error) {
	if s.target == model.RatingTargetProvider {
		if !actor.HasProfile() {
			return "", apperrors.Forbidden("A profile is required to rate providers")
		}
		return actor.ProfileID, nil
	}
	return actor.UserID, nil
}

func (s *ratingService) findOwned(ctx context.Context, actor *model.Identity, id, action string) (*model.Rating, error) {
	rating, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRatingError(err, id)
	}

	raterID, err := s.raterID(actor)
	if err != nil || rating.RaterID != raterID {
		return nil, apperrors.Forbidden(fmt.Sprintf("You are not authorized to %s this rating", action))
	}
	return rating, nil
}

func (s *ratingService) translateRatingError(err error, id string) error {
	switch {
	case errors.Is(err, ratingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Rating", id)
	case errors.Is(err, ratingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid rating ID format")
	default:
		return apperrors.Internal("Failed to access rating", err)
	}
}

func (s *ratingService) translateTargetError(err error, targetID string) error {
	resource := "Service"
	if s.target == model.RatingTargetProvider {
		resource = "Provider"
	}
	switch {
	case errors.Is(err, ratingserrors.ErrTargetNotFound):
		return apperrors.NotFoundWithID(resource, targetID)
	case errors.Is(err, ratingserrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("Invalid %s ID format", s.target))
	default:
		s.cfg.Log.Error("Failed to load rating target", "target", s.target, "target_id", targetID, "error", err)
		return apperrors.Internal(fmt.Sprintf("Failed to load %s", s.target), err)
	}
}

func (s *ratingService) publish(ctx context.Context, op string, agg model.Aggregate, ratingID string) {
	if err := s.publisher.Publish(ctx, events.NewRatingChanged(op, agg, ratingID)); err != nil {
		s.cfg.Log.Warn("Failed to publish rating event",
			"target", s.target,
			"target_id", agg.TargetID,
			"operation", op,
			"error", err,
		)
	}
}
