package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	authrepo "servicehub/internal/auth/repository"
	bookingsrepo "servicehub/internal/bookings/repository"
	"servicehub/internal/migrations/mongo/validators"
	profilesrepo "servicehub/internal/profiles/repository"
	ratingsrepo "servicehub/internal/ratings/repository"
	servicesrepo "servicehub/internal/services/repository"
	"servicehub/pkg/lock"
	"servicehub/pkg/logger"
	"servicehub/pkg/model"
)

var (
	UsersIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	ProfilesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "rating", Value: -1}}},
	}

	ServicesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "provider_profile_id", Value: 1}}},
		{Keys: bson.D{{Key: "city", Value: 1}, {Key: "type", Value: 1}}},
		{Keys: bson.D{{Key: "rating", Value: -1}}},
	}

	BookingsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "provider_profile_id", Value: 1},
				{Key: "booking_date", Value: 1},
			},
			Options: options.Index().
				SetName("confirmed_slot_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": string(model.BookingStatusConfirmed)}),
		},
		{Keys: bson.D{{Key: "service_id", Value: 1}, {Key: "booking_date", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "booking_date", Value: 1}}},
		{Keys: bson.D{{Key: "provider_profile_id", Value: 1}, {Key: "status", Value: 1}}},
	}

	CancelledBookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	RatingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "target_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "rater_id", Value: 1}}},
	}

	SlotLocksIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	}
)

type collectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

// Collections lists every collection the marketplace owns. A nil validator
// creates the collection without schema validation.
func Collections() map[string]collectionDef {
	return map[string]collectionDef{
		authrepo.CollectionName: {
			Indexes:   UsersIndexes,
			Validator: validators.UserValidator,
		},
		profilesrepo.CollectionName: {
			Indexes:   ProfilesIndexes,
			Validator: validators.ProfileValidator,
		},
		servicesrepo.CollectionName: {
			Indexes:   ServicesIndexes,
			Validator: validators.ServiceValidator,
		},
		bookingsrepo.CollectionName: {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		bookingsrepo.CancelledCollectionName: {
			Indexes:   CancelledBookingsIndexes,
			Validator: validators.CancelledBookingValidator,
		},
		ratingsrepo.ServiceRatingsCollection: {
			Indexes:   RatingsIndexes,
			Validator: validators.RatingValidator,
		},
		ratingsrepo.ProviderRatingsCollection: {
			Indexes:   RatingsIndexes,
			Validator: validators.RatingValidator,
		},
		lock.SlotLocksCollection: {
			Indexes: SlotLocksIndexes,
		},
	}
}

func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for name, def := range Collections() {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection()
		if validator != nil {
			opts.SetValidator(validator)
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	if validator == nil {
		return nil
	}

	log.Info("Collection exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
