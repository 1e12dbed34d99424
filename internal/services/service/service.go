package service

import (
	"context"
	"errors"

	serviceserrors "servicehub/internal/services/errors"
	"servicehub/internal/services/repository"
	"servicehub/internal/services/validator"
	"servicehub/pkg/config"
	apperrors "servicehub/pkg/errors"
	"servicehub/pkg/model"
	"servicehub/pkg/sanitizer"
	"servicehub/pkg/validation"
)

const (
	NearestLimit  = 10
	TopRatedLimit = 20
)

type ServiceService interface {
	Create(ctx context.Context, actor *model.Identity, svc *model.Service) error
	GetByID(ctx context.Context, id string) (*model.Service, error)
	Update(ctx context.Context, actor *model.Identity, id string, updates *model.ServiceUpdate) (*model.Service, error)
	Delete(ctx context.Context, actor *model.Identity, id string) error
	ListByProvider(ctx context.Context, providerProfileID string) ([]*model.Service, error)
	Search(ctx context.Context, search model.ServiceSearch) ([]*model.Service, error)
	Nearest(ctx context.Context, point model.GeoPoint) ([]*model.Service, error)
	TopRated(ctx context.Context, point model.GeoPoint) ([]*model.Service, error)
	ToggleLike(ctx context.Context, actor *model.Identity, id string) (*model.Service, error)
}

type serviceService struct {
	repo      repository.ServiceRepository
	validator *validator.ServiceValidator
	cfg       *config.Config
}

func NewServiceService(
	repo repository.ServiceRepository,
	validator *validator.ServiceValidator,
	cfg *config.Config,
) ServiceService {
	return &serviceService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *serviceService) Create(ctx context.Context, actor *model.Identity, svc *model.Service) error {
	if !actor.IsProvider() {
		return apperrors.Forbidden("Only providers can create services")
	}

	svc.ID = ""
	svc.ProviderProfileID = actor.ProfileID
	svc.Rating = 0
	svc.LikedByUserIDs = []string{}
	if svc.TimeZone == "" {
		svc.TimeZone = s.cfg.DefaultTimeZone
	}
	s.sanitize(svc)

	if err := s.validator.Validate(svc); err != nil {
		s.cfg.Log.Warn("Service validation failed",
			"provider_profile_id", svc.ProviderProfileID,
			"error", err,
		)
		return validation.AppError("Service validation failed", err)
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		s.cfg.Log.Error("Failed to create service", "provider_profile_id", svc.ProviderProfileID, "error", err)
		return apperrors.Internal("Failed to create service", err)
	}

	s.cfg.Log.Info("Service created successfully",
		"id", svc.ID,
		"provider_profile_id", svc.ProviderProfileID,
		"type", svc.Type,
		"city", svc.City,
	)
	return nil
}

func (s *serviceService) GetByID(ctx context.Context, id string) (*model.Service, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Service ID cannot be empty")
	}

	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateError(err, id, "Failed to retrieve service")
	}
	return svc, nil
}

func (s *serviceService) Update(ctx context.Context, actor *model.Identity, id string, updates *model.ServiceUpdate) (*model.Service, error) {
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Service update validation failed", "id", id, "error", err)
		return nil, validation.AppError("Service validation failed", err)
	}

	existing, err := s.owned(ctx, actor, id, "update")
	if err != nil {
		return nil, err
	}

	merged := s.mergeServiceUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Merged service validation failed", "id", id, "error", err)
		return nil, validation.AppError("Service validation failed", err)
	}

	updated, err := s.repo.Update(ctx, id, merged)
	if err != nil {
		return nil, s.translateError(err, id, "Failed to update service")
	}

	s.cfg.Log.Info("Service updated successfully", "id", id)
	return updated, nil
}

func (s *serviceService) Delete(ctx context.Context, actor *model.Identity, id string) error {
	if _, err := s.owned(ctx, actor, id, "delete"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translateError(err, id, "Failed to delete service")
	}

	s.cfg.Log.Info("Service deleted successfully", "id", id)
	return nil
}

func (s *serviceService) ListByProvider(ctx context.Context, providerProfileID string) ([]*model.Service, error) {
	services, err := s.repo.ListByProvider(ctx, providerProfileID)
	if err != nil {
		s.cfg.Log.Error("Failed to list services by provider", "provider_profile_id", providerProfileID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve services", err)
	}
	return services, nil
}

func (s *serviceService) Search(ctx context.Context, search model.ServiceSearch) ([]*model.Service, error) {
	search.City = sanitizer.NormalizeCity(search.City)
	if search.Type != "" {
		search.Type = sanitizer.CanonicalChoice(search.Type, model.ServiceTypes)
	}
	if search.MinPrice != nil && search.MaxPrice != nil && *search.MinPrice > *search.MaxPrice {
		return nil, apperrors.InvalidInput("minPrice cannot be greater than maxPrice")
	}

	services, err := s.repo.Search(ctx, search)
	if err != nil {
		s.cfg.Log.Error("Failed to search services",
			"city", search.City,
			"type", search.Type,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to search services", err)
	}

	s.cfg.Log.Debug("Service search completed", "city", search.City, "type", search.Type, "count", len(services))
	return services, nil
}

func (s *serviceService) Nearest(ctx context.Context, point model.GeoPoint) ([]*model.Service, error) {
	services, err := s.repo.Nearest(ctx, point, NearestLimit)
	if err != nil {
		s.cfg.Log.Error("Failed to find nearest services", "lat", point.Lat(), "lng", point.Lng(), "error", err)
		return nil, apperrors.Internal("Failed to find nearest services", err)
	}
	return services, nil
}

func (s *serviceService) TopRated(ctx context.Context, point model.GeoPoint) ([]*model.Service, error) {
	services, err := s.repo.TopRated(ctx, point, s.cfg.NearbyRadiusMeters, TopRatedLimit)
	if err != nil {
		s.cfg.Log.Error("Failed to find top rated services", "lat", point.Lat(), "lng", point.Lng(), "error", err)
		return nil, apperrors.Internal("Failed to find top rated services", err)
	}
	return services, nil
}

func (s *serviceService) ToggleLike(ctx context.Context, actor *model.Identity, id string) (*model.Service, error) {
	svc, err := s.repo.ToggleLike(ctx, id, actor.UserID)
	if err != nil {
		return nil, s.translateError(err, id, "Failed to update service like status")
	}

	s.cfg.Log.Info("Service like status updated", "id", id, "user_id", actor.UserID)
	return svc, nil
}

// --- Helpers ---

func (s *serviceService) owned(ctx context.Context, actor *model.Identity, id, action string) (*model.Service, error) {
	if !actor.IsProvider() {
		return nil, apperrors.Forbidden("Only providers can " + action + " services")
	}

	svc, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc.ProviderProfileID != actor.ProfileID {
		s.cfg.Log.Warn("Rejected service change by non-owner",
			"id", id,
			"action", action,
			"profile_id", actor.ProfileID,
		)
		return nil, apperrors.Forbidden("You do not have permission to " + action + " this service")
	}
	return svc, nil
}

func (s *serviceService) translateError(err error, id, message string) error {
	switch {
	case errors.Is(err, serviceserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Service", id)
	case errors.Is(err, serviceserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid service ID format")
	default:
		s.cfg.Log.Error(message, "id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}

func (s *serviceService) sanitize(svc *model.Service) {
	svc.Description = sanitizer.TrimAndNormalize(svc.Description)
	svc.City = sanitizer.NormalizeCity(svc.City)
	svc.Type = sanitizer.CanonicalChoice(svc.Type, model.ServiceTypes)
	svc.Photos = sanitizer.NormalizeStringSlice(svc.Photos, sanitizer.NormalizeURL)
	for i := range svc.Tiers {
		svc.Tiers[i].Name = sanitizer.TrimAndNormalize(svc.Tiers[i].Name)
		svc.Tiers[i].Description = sanitizer.TrimAndNormalize(svc.Tiers[i].Description)
		svc.Tiers[i].Characteristics = sanitizer.NormalizeStringSlice(svc.Tiers[i].Characteristics, sanitizer.TrimAndNormalize)
	}
}

func (s *serviceService) mergeServiceUpdates(existing *model.Service, updates *model.ServiceUpdate) *model.Service {
	merged := *existing

	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.Type != nil {
		merged.Type = *updates.Type
	}
	if updates.Tiers != nil {
		merged.Tiers = updates.Tiers
	}
	if updates.Location != nil {
		merged.Location = *updates.Location
	}
	if updates.City != nil {
		merged.City = *updates.City
	}
	if updates.DaysOfOperation != nil {
		merged.DaysOfOperation = updates.DaysOfOperation
	}
	if updates.StartTime != nil {
		merged.StartTime = *updates.StartTime
	}
	if updates.EndTime != nil {
		merged.EndTime = *updates.EndTime
	}
	if updates.TimeZone != nil {
		merged.TimeZone = *updates.TimeZone
	}
	if updates.Photos != nil {
		merged.Photos = updates.Photos
	}

	return &merged
}
