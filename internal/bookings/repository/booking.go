package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingserrors "servicehub/internal/bookings/errors"
	"servicehub/pkg/config"
	mongotx "servicehub/pkg/db/mongo"
	"servicehub/pkg/model"
)

const (
	CollectionName          = "Bookings"
	CancelledCollectionName = "CancelledBookings"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Booking, error)
	ListByProvider(ctx context.Context, providerProfileID string) ([]*model.Booking, error)
	// FindConfirmedAt returns the confirmed booking holding the provider's slot, or nil.
	FindConfirmedAt(ctx context.Context, providerProfileID string, bookingDate time.Time) (*model.Booking, error)
	// FindBlocking returns the pending or confirmed bookings of a service in [from, to).
	FindBlocking(ctx context.Context, serviceID string, from, to time.Time) ([]*model.Booking, error)
	// UpdateStatus moves a booking from one status to another. It fails with
	// ErrStatusChanged when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus) (*model.Booking, error)
	Cancel(ctx context.Context, id string, cancellation model.Cancellation) (*model.Booking, error)
	InsertCancellation(ctx context.Context, entry *model.CancelledBooking) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	cancelled  *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		cancelled:  db.Collection(CancelledCollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	booking.ID = ""
	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		if mongotx.IsDuplicateKey(err) {
			return bookingserrors.ErrSlotTaken
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) ListByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *mongoBookingRepository) ListByProvider(ctx context.Context, providerProfileID string) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"provider_profile_id": providerProfileID})
}

func (r *mongoBookingRepository) FindConfirmedAt(ctx context.Context, providerProfileID string, bookingDate time.Time) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	filter := bson.M{
		"provider_profile_id": providerProfileID,
		"booking_date":        bookingDate,
		"status":              model.BookingStatusConfirmed,
	}

	var booking model.Booking
	err := r.collection.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check confirmed booking: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) FindBlocking(ctx context.Context, serviceID string, from, to time.Time) ([]*model.Booking, error) {
	return r.find(ctx, blockingFilter(serviceID, from, to))
}

// blockingFilter matches the service's bookings in [from, to) that still hold their slot.
func blockingFilter(serviceID string, from, to time.Time) bson.M {
	return bson.M{
		"service_id":   serviceID,
		"booking_date": bson.M{"$gte": from, "$lt": to},
		"status":       bson.M{"$in": model.SlotBlockingStatuses()},
	}
}

func cancelFilter(objectID primitive.ObjectID) bson.M {
	return bson.M{
		"_id":    objectID,
		"status": bson.M{"$in": model.StatusesLeadingTo(model.BookingStatusCancelled)},
	}
}

func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{
		"status":     to,
		"confirmed":  to == model.BookingStatusConfirmed,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}

	return r.findOneAndUpdate(ctx, bson.M{"_id": objectID, "status": from}, update)
}

func (r *mongoBookingRepository) Cancel(ctx context.Context, id string, cancellation model.Cancellation) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := cancelFilter(objectID)
	update := bson.M{"$set": bson.M{
		"status":       model.BookingStatusCancelled,
		"confirmed":    false,
		"cancellation": cancellation,
		"updated_at":   cancellation.CancelledAt,
	}}

	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *mongoBookingRepository) InsertCancellation(ctx context.Context, entry *model.CancelledBooking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	entry.ID = ""
	entry.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.cancelled.InsertOne(ctx, entry)
	if err != nil {
		if mongotx.IsDuplicateKey(err) {
			return bookingserrors.ErrAlreadyCancelled
		}
		return fmt.Errorf("failed to record cancellation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		entry.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "booking_date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*model.Booking, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking model.Booking
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrStatusChanged
		}
		if mongotx.IsDuplicateKey(err) {
			return nil, bookingserrors.ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	return &booking, nil
}
