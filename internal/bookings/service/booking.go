package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "servicehub/internal/bookings/errors"
	"servicehub/internal/bookings/repository"
	"servicehub/internal/bookings/validator"
	"servicehub/pkg/config"
	apperrors "servicehub/pkg/errors"
	"servicehub/pkg/events"
	"servicehub/pkg/lock"
	"servicehub/pkg/metrics"
	"servicehub/pkg/model"
	"servicehub/pkg/validation"
)

const slotTakenMessage = "This time slot is already booked"

// ServiceReader resolves the service a booking is made against.
type ServiceReader interface {
	GetByID(ctx context.Context, id string) (*model.Service, error)
}

type BookingService interface {
	Create(ctx context.Context, actor *model.Identity, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, actor *model.Identity, id string) (*model.Booking, error)
	Accept(ctx context.Context, actor *model.Identity, id string) (*model.Booking, error)
	Complete(ctx context.Context, actor *model.Identity, id string) (*model.Booking, error)
	Cancel(ctx context.Context, actor *model.Identity, by model.CancelledBy, id string, req *model.CancelRequest) (*model.CancelledBooking, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Booking, error)
	ListByProvider(ctx context.Context, providerProfileID string) ([]*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	services  ServiceReader
	locker    lock.Locker
	publisher events.Publisher
	validator *validator.BookingValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	services ServiceReader,
	locker lock.Locker,
	publisher events.Publisher,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &bookingService{
		repo:      repo,
		services:  services,
		locker:    locker,
		publisher: publisher,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, actor *model.Identity, req *model.BookingRequest) (*model.Booking, error) {
	bookingDate, err := s.validator.ValidateRequest(req)
	if err != nil {
		s.cfg.Log.Warn("Booking validation failed", "user_id", actor.UserID, "error", err)
		return nil, validation.AppError("Booking validation failed", err)
	}

	svc, err := s.services.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	lease, err := s.acquireSlotLock(ctx, svc.ProviderProfileID, bookingDate)
	if err != nil {
		return nil, err
	}
	defer s.releaseSlotLock(ctx, lease)

	booking := &model.Booking{
		UserID:            actor.UserID,
		ServiceID:         svc.ID,
		ProviderProfileID: svc.ProviderProfileID,
		BookingDate:       bookingDate,
		Status:            model.BookingStatusPending,
		Confirmed:         false,
		Notes:             req.Notes,
	}

	err = s.repo.ExecuteTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureSlotFree(ctx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, booking); err != nil {
			if errors.Is(err, bookingserrors.ErrSlotTaken) {
				return apperrors.Conflict(slotTakenMessage)
			}
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("Failed to create booking", err, "service_id", req.ServiceID, "booking_date", bookingDate)
		return nil, err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"user_id", booking.UserID,
		"service_id", booking.ServiceID,
		"provider_profile_id", booking.ProviderProfileID,
		"booking_date", booking.BookingDate,
	)
	metrics.IncBookingTransition(string(booking.Status))
	s.publish(ctx, events.NewBookingEvent(events.TypeBookingCreated, booking))
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, actor *model.Identity, id string) (*model.Booking, error) {
	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != actor.UserID && !s.ownsAsProvider(actor, booking) {
		return nil, apperrors.Forbidden("You are not authorized to view this booking")
	}
	return booking, nil
}

func (s *bookingService) Accept(ctx context.Context, actor *model.Identity, id string) (*model.Booking, error) {
	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.ownsAsProvider(actor, booking) {
		s.cfg.Log.Warn("Rejected booking accept by non-owner", "id", id, "profile_id", actor.ProfileID)
		return nil, apperrors.Forbidden("You are not authorized to accept this booking")
	}
	if err := checkTransition(booking, model.BookingStatusConfirmed); err != nil {
		return nil, err
	}

	lease, err := s.acquireSlotLock(ctx, booking.ProviderProfileID, booking.BookingDate)
	if err != nil {
		return nil, err
	}
	defer s.releaseSlotLock(ctx, lease)

	var updated *model.Booking
	err = s.repo.ExecuteTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureSlotFree(ctx, booking); err != nil {
			return err
		}
		updated, err = s.repo.UpdateStatus(ctx, id, model.BookingStatusPending, model.BookingStatusConfirmed)
		return s.translateUpdateError(err)
	})
	if err != nil {
		s.logFailure("Failed to accept booking", err, "id", id)
		return nil, err
	}

	s.cfg.Log.Info("Booking accepted successfully",
		"id", updated.ID,
		"provider_profile_id", updated.ProviderProfileID,
		"booking_date", updated.BookingDate,
	)
	metrics.IncBookingTransition(string(updated.Status))
	s.publish(ctx, events.NewBookingEvent(events.TypeBookingConfirmed, updated))
	return updated, nil
}

func (s *bookingService) Complete(ctx context.Context, actor *model.Identity, id string) (*model.Booking, error) {
	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.ownsAsProvider(actor, booking) {
		s.cfg.Log.Warn("Rejected booking completion by non-owner", "id", id, "profile_id", actor.ProfileID)
		return nil, apperrors.Forbidden("You are not authorized to complete this booking")
	}
	if err := checkTransition(booking, model.BookingStatusCompleted); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, model.BookingStatusConfirmed, model.BookingStatusCompleted)
	if err = s.translateUpdateError(err); err != nil {
		s.logFailure("Failed to complete booking", err, "id", id)
		return nil, err
	}

	s.cfg.Log.Info("Booking completed successfully", "id", updated.ID)
	metrics.IncBookingTransition(string(updated.Status))
	s.publish(ctx, events.NewBookingEvent(events.TypeBookingCompleted, updated))
	return updated, nil
}

func (s *bookingService) Cancel(ctx context.Context, actor *model.Identity, by model.CancelledBy, id string, req *model.CancelRequest) (*model.CancelledBooking, error) {
	if err := s.validator.ValidateCancel(req); err != nil {
		s.cfg.Log.Warn("Cancellation validation failed", "id", id, "error", err)
		return nil, validation.AppError("Cancellation validation failed", err)
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	switch by {
	case model.CancelledByUser:
		if booking.UserID != actor.UserID {
			return nil, apperrors.Forbidden("You are not authorized to cancel this booking")
		}
	case model.CancelledByProvider:
		if !s.ownsAsProvider(actor, booking) {
			return nil, apperrors.Forbidden("You are not authorized to cancel this booking")
		}
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown cancellation role: %s", by))
	}

	if err := checkTransition(booking, model.BookingStatusCancelled); err != nil {
		return nil, err
	}

	cancellation := model.Cancellation{
		Reason:      req.Reason,
		By:          by,
		CancelledAt: s.now().UTC().Truncate(time.Millisecond),
	}
	entry := &model.CancelledBooking{
		BookingID: id,
		Reason:    req.Reason,
		By:        by,
	}

	var cancelled *model.Booking
	err = s.repo.ExecuteTransaction(ctx, func(ctx context.Context) error {
		cancelled, err = s.repo.Cancel(ctx, id, cancellation)
		if err = s.translateUpdateError(err); err != nil {
			return err
		}
		if err := s.repo.InsertCancellation(ctx, entry); err != nil {
			if errors.Is(err, bookingserrors.ErrAlreadyCancelled) {
				return apperrors.Conflict("Booking is already cancelled")
			}
			return apperrors.Internal("Failed to record cancellation", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("Failed to cancel booking", err, "id", id, "by", by)
		return nil, err
	}

	s.cfg.Log.Info("Booking cancelled successfully",
		"id", id,
		"by", by,
		"previous_status", booking.Status,
	)
	metrics.IncBookingTransition(string(cancelled.Status))
	s.publish(ctx, events.NewBookingEvent(events.TypeBookingCancelled, cancelled))
	return entry, nil
}

func (s *bookingService) ListByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by user", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) ListByProvider(ctx context.Context, providerProfileID string) ([]*model.Booking, error) {
	if providerProfileID == "" {
		return nil, apperrors.Forbidden("Only providers can list provider bookings")
	}
	bookings, err := s.repo.ListByProvider(ctx, providerProfileID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by provider", "provider_profile_id", providerProfileID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

// --- Helpers ---

func (s *bookingService) find(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

func (s *bookingService) ownsAsProvider(actor *model.Identity, booking *model.Booking) bool {
	return actor.HasProfile() && actor.ProfileID == booking.ProviderProfileID
}

func checkTransition(booking *model.Booking, next model.BookingStatus) error {
	if !booking.Status.CanTransition(next) {
		return apperrors.Conflict(fmt.Sprintf("Booking cannot move from %s to %s", booking.Status, next)).
			WithDetails(map[string]any{"status": booking.Status})
	}
	return nil
}

// ensureSlotFree fails when another booking already holds the provider's slot as confirmed.
func (s *bookingService) ensureSlotFree(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindConfirmedAt(ctx, booking.ProviderProfileID, booking.BookingDate)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}
	if existing != nil && existing.ID != booking.ID {
		metrics.IncBookingConflict()
		return apperrors.Conflict(slotTakenMessage)
	}
	return nil
}

func (s *bookingService) translateUpdateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bookingserrors.ErrStatusChanged):
		return apperrors.Conflict("Booking status changed, please retry")
	case errors.Is(err, bookingserrors.ErrSlotTaken):
		metrics.IncBookingConflict()
		return apperrors.Conflict(slotTakenMessage)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	default:
		return apperrors.Internal("Failed to update booking", err)
	}
}

// acquireSlotLock serializes create and accept on one provider slot across instances.
func (s *bookingService) acquireSlotLock(ctx context.Context, providerProfileID string, bookingDate time.Time) (*lock.Lease, error) {
	key := lock.SlotKey(providerProfileID, bookingDate)

	lease, err := s.locker.Lock(ctx, key, s.cfg.SlotLockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrLockHeld) {
			metrics.IncSlotLockContention()
			return nil, apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
		}
		return nil, apperrors.Internal("Failed to acquire booking lock", err)
	}
	return lease, nil
}

func (s *bookingService) releaseSlotLock(ctx context.Context, lease *lock.Lease) {
	if err := lease.Unlock(context.WithoutCancel(ctx)); err != nil {
		s.cfg.Log.Warn("Failed to release booking lock", "key", lease.Key, "error", err)
	}
}

func (s *bookingService) publish(ctx context.Context, evt events.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"type", evt.Type,
			"key", evt.Key,
			"error", err,
		)
	}
}

func (s *bookingService) logFailure(msg string, err error, args ...any) {
	args = append(args, "error", err)
	if appErr := apperrors.AsAppError(err); appErr.StatusCode() < 500 {
		s.cfg.Log.Warn(msg, args...)
		return
	}
	s.cfg.Log.Error(msg, args...)
}
