package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	autherrors "servicehub/internal/auth/errors"
	"servicehub/internal/auth/repository"
	"servicehub/internal/auth/token"
	"servicehub/internal/auth/validator"
	"servicehub/pkg/config"
	apperrors "servicehub/pkg/errors"
	"servicehub/pkg/model"
	"servicehub/pkg/sanitizer"
	"servicehub/pkg/validation"
)

const invalidCredentialsMessage = "Invalid email or password"

type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)
	Me(ctx context.Context, actor *model.Identity) (*model.User, error)
}

type authService struct {
	repo      repository.UserRepository
	issuer    *token.Issuer
	validator *validator.AuthValidator
	cfg       *config.Config
}

func NewAuthService(
	repo repository.UserRepository,
	issuer *token.Issuer,
	validator *validator.AuthValidator,
	cfg *config.Config,
) AuthService {
	return &authService{
		repo:      repo,
		issuer:    issuer,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)
	if err := s.validator.ValidateRegister(req); err != nil {
		s.cfg.Log.Warn("Registration validation failed", "email", req.Email, "error", err)
		return nil, validation.AppError("Registration validation failed", err)
	}

	phone, err := sanitizer.NormalizePhone(req.Phone, sanitizer.DefaultRegion)
	if err != nil {
		s.cfg.Log.Warn("Registration rejected invalid phone", "email", req.Email, "error", err)
		return nil, validation.AppError("Registration validation failed", validation.Field("phone", "phone must be a valid phone number"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		s.cfg.Log.Error("Failed to hash password", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}

	user := &model.User{
		Email:        req.Email,
		Phone:        phone,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, autherrors.ErrEmailTaken) {
			s.cfg.Log.Warn("Registration rejected duplicate email", "email", req.Email)
			return nil, apperrors.Conflict("Email is already registered")
		}
		s.cfg.Log.Error("Failed to create user", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}

	s.cfg.Log.Info("User registered successfully", "user_id", user.ID)
	return user, nil
}

func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)
	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, validation.AppError("Login validation failed", err)
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, autherrors.ErrUserNotFound) {
			s.cfg.Log.Warn("Login failed", "email", req.Email, "reason", "unknown email")
			return nil, apperrors.Unauthorized(invalidCredentialsMessage)
		}
		s.cfg.Log.Error("Failed to look up user", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to log in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.cfg.Log.Warn("Login failed", "user_id", user.ID, "reason", "wrong password")
		return nil, apperrors.Unauthorized(invalidCredentialsMessage)
	}

	signed, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		s.cfg.Log.Error("Failed to issue token", "user_id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to log in", err)
	}

	s.cfg.Log.Info("User logged in", "user_id", user.ID)
	return &model.TokenResponse{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) Me(ctx context.Context, actor *model.Identity) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, autherrors.ErrUserNotFound) || errors.Is(err, autherrors.ErrInvalidID) {
			return nil, apperrors.Unauthorized("Account no longer exists")
		}
		s.cfg.Log.Error("Failed to load current user", "user_id", actor.UserID, "error", err)
		return nil, apperrors.Internal("Failed to load user", err)
	}
	return user, nil
}
