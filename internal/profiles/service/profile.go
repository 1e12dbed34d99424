package service

import (
	"context"
	"errors"

	profileserrors "servicehub/internal/profiles/errors"
	"servicehub/internal/profiles/repository"
	"servicehub/internal/profiles/validator"
	"servicehub/pkg/config"
	apperrors "servicehub/pkg/errors"
	"servicehub/pkg/model"
	"servicehub/pkg/sanitizer"
	"servicehub/pkg/validation"
)

const (
	NearestLimit = 10
	TopLimit     = 20
)

type ProfileService interface {
	Create(ctx context.Context, actor *model.Identity, profile *model.Profile) error
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	GetMine(ctx context.Context, actor *model.Identity) (*model.Profile, error)
	Update(ctx context.Context, actor *model.Identity, updates *model.ProfileUpdate) (*model.Profile, error)
	NearestProviders(ctx context.Context, point model.GeoPoint) ([]*model.Profile, error)
	TopProviders(ctx context.Context, point model.GeoPoint) ([]*model.Profile, error)
	ResolveProfile(ctx context.Context, userID string) (*model.Profile, error)
}

type profileService struct {
	repo      repository.ProfileRepository
	validator *validator.ProfileValidator
	cfg       *config.Config
}

func NewProfileService(
	repo repository.ProfileRepository,
	validator *validator.ProfileValidator,
	cfg *config.Config,
) ProfileService {
	return &profileService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *profileService) Create(ctx context.Context, actor *model.Identity, profile *model.Profile) error {
	if actor.HasProfile() {
		return apperrors.Conflict("User already has a profile")
	}

	profile.ID = ""
	profile.UserID = actor.UserID
	profile.Rating = 0
	s.sanitize(profile)

	if err := s.validator.Validate(profile); err != nil {
		s.cfg.Log.Warn("Profile validation failed",
			"user_id", actor.UserID,
			"error", err,
		)
		return validation.AppError("Profile validation failed", err)
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		if errors.Is(err, profileserrors.ErrProfileExists) {
			s.cfg.Log.Warn("Duplicate profile rejected", "user_id", actor.UserID)
			return apperrors.Conflict("User already has a profile")
		}
		s.cfg.Log.Error("Failed to create profile", "user_id", actor.UserID, "error", err)
		return apperrors.Internal("Failed to create profile", err)
	}

	s.cfg.Log.Info("Profile created successfully",
		"id", profile.ID,
		"user_id", profile.UserID,
		"type", profile.Type,
	)
	return nil
}

func (s *profileService) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Profile ID cannot be empty")
	}

	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateError(err, id, "Failed to retrieve profile")
	}
	return profile, nil
}

func (s *profileService) GetMine(ctx context.Context, actor *model.Identity) (*model.Profile, error) {
	profile, err := s.repo.FindByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, profileserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Profile")
		}
		s.cfg.Log.Error("Failed to retrieve own profile", "user_id", actor.UserID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve profile", err)
	}
	return profile, nil
}

func (s *profileService) Update(ctx context.Context, actor *model.Identity, updates *model.ProfileUpdate) (*model.Profile, error) {
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Profile update validation failed", "user_id", actor.UserID, "error", err)
		return nil, validation.AppError("Profile validation failed", err)
	}

	existing, err := s.GetMine(ctx, actor)
	if err != nil {
		return nil, err
	}

	merged := s.mergeProfileUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Merged profile validation failed", "id", existing.ID, "error", err)
		return nil, validation.AppError("Profile validation failed", err)
	}

	updated, err := s.repo.Update(ctx, existing.ID, merged)
	if err != nil {
		return nil, s.translateError(err, existing.ID, "Failed to update profile")
	}

	s.cfg.Log.Info("Profile updated successfully", "id", existing.ID)
	return updated, nil
}

func (s *profileService) NearestProviders(ctx context.Context, point model.GeoPoint) ([]*model.Profile, error) {
	profiles, err := s.repo.NearestProviders(ctx, point, NearestLimit)
	if err != nil {
		s.cfg.Log.Error("Failed to find nearest providers", "lat", point.Lat(), "lng", point.Lng(), "error", err)
		return nil, apperrors.Internal("Failed to find nearest providers", err)
	}
	return profiles, nil
}

func (s *profileService) TopProviders(ctx context.Context, point model.GeoPoint) ([]*model.Profile, error) {
	profiles, err := s.repo.TopProviders(ctx, point, s.cfg.NearbyRadiusMeters, TopLimit)
	if err != nil {
		s.cfg.Log.Error("Failed to find top providers", "lat", point.Lat(), "lng", point.Lng(), "error", err)
		return nil, apperrors.Internal("Failed to find top providers", err)
	}
	return profiles, nil
}

// ResolveProfile returns nil, nil for users that have not created a profile yet.
func (s *profileService) ResolveProfile(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profileserrors.ErrNotFound) {
			return nil, nil
		}
		return nil, apperrors.Internal("Failed to resolve profile", err)
	}
	return profile, nil
}

// --- Helpers ---

func (s *profileService) translateError(err error, id, message string) error {
	switch {
	case errors.Is(err, profileserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Profile", id)
	case errors.Is(err, profileserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid profile ID format")
	default:
		s.cfg.Log.Error(message, "id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}

func (s *profileService) sanitize(profile *model.Profile) {
	profile.Name = sanitizer.NormalizeName(profile.Name)
	profile.Type = sanitizer.CanonicalChoice(profile.Type, []string{model.ProfileTypeUser, model.ProfileTypeProvider})
	profile.Address.Street = sanitizer.TrimAndNormalize(profile.Address.Street)
	profile.Address.City = sanitizer.NormalizeCity(profile.Address.City)
	profile.Address.State = sanitizer.TrimAndNormalize(profile.Address.State)
	profile.Address.Country = sanitizer.TrimAndNormalize(profile.Address.Country)
	profile.Address.PostalCode = sanitizer.TrimAndNormalize(profile.Address.PostalCode)
	profile.Interests = canonicalTypes(profile.Interests)
	profile.Services = canonicalTypes(profile.Services)
}

func canonicalTypes(types []string) []string {
	return sanitizer.NormalizeStringSlice(types, func(t string) string {
		return sanitizer.CanonicalChoice(t, model.ServiceTypes)
	})
}

// mergeProfileUpdates has no type or rating branch: both are fixed after creation.
func (s *profileService) mergeProfileUpdates(existing *model.Profile, updates *model.ProfileUpdate) *model.Profile {
	merged := *existing

	if updates.Name != nil {
		merged.Name = *updates.Name
	}
	if updates.Location != nil {
		merged.Location = *updates.Location
	}
	if updates.Address != nil {
		merged.Address = *updates.Address
	}
	if updates.Interests != nil {
		merged.Interests = updates.Interests
	}
	if updates.Services != nil {
		merged.Services = updates.Services
	}

	return &merged
}
