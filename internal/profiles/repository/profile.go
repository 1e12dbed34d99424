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

	profileserrors "servicehub/internal/profiles/errors"
	"servicehub/pkg/config"
	mongotx "servicehub/pkg/db/mongo"
	"servicehub/pkg/model"
)

const (
	CollectionName = "Profiles"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	FindByID(ctx context.Context, id string) (*model.Profile, error)
	FindByUserID(ctx context.Context, userID string) (*model.Profile, error)
	Update(ctx context.Context, id string, profile *model.Profile) (*model.Profile, error)
	NearestProviders(ctx context.Context, point model.GeoPoint, limit int) ([]*model.Profile, error)
	TopProviders(ctx context.Context, point model.GeoPoint, radiusMeters, limit int) ([]*model.Profile, error)
}

type mongoProfileRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoProfileRepository(cfg *config.Config) ProfileRepository {
	return &mongoProfileRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(CollectionName),
	}
}

// Create relies on the unique user_id index to enforce one profile per user.
func (r *mongoProfileRepository) Create(ctx context.Context, profile *model.Profile) error {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	profile.CreatedAt = now
	profile.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, profile)
	if err != nil {
		if mongotx.IsDuplicateKey(err) {
			return profileserrors.ErrProfileExists
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		profile.ID = oid.Hex()
	}
	return nil
}

func (r *mongoProfileRepository) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", profileserrors.ErrInvalidID, id)
	}
	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *mongoProfileRepository) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	return r.findOne(ctx, bson.M{"user_id": userID})
}

// Update writes the mutable fields. Type, user and rating are never touched.
func (r *mongoProfileRepository) Update(ctx context.Context, id string, profile *model.Profile) (*model.Profile, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", profileserrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{
		"name":       profile.Name,
		"location":   profile.Location,
		"address":    profile.Address,
		"interests":  profile.Interests,
		"services":   profile.Services,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated model.Profile
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, profileserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &updated, nil
}

func (r *mongoProfileRepository) NearestProviders(ctx context.Context, point model.GeoPoint, limit int) ([]*model.Profile, error) {
	filter := bson.M{
		"type":     model.ProfileTypeProvider,
		"location": mongotx.Near(point.Lng(), point.Lat()),
	}
	return r.find(ctx, filter, options.Find().SetLimit(int64(limit)))
}

func (r *mongoProfileRepository) TopProviders(ctx context.Context, point model.GeoPoint, radiusMeters, limit int) ([]*model.Profile, error) {
	filter := bson.M{
		"type":     model.ProfileTypeProvider,
		"location": mongotx.WithinRadius(point.Lng(), point.Lat(), radiusMeters),
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	return r.find(ctx, filter, opts)
}

func (r *mongoProfileRepository) findOne(ctx context.Context, filter bson.M) (*model.Profile, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	var profile model.Profile
	if err := r.collection.FindOne(ctx, filter).Decode(&profile); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, profileserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return &profile, nil
}

func (r *mongoProfileRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Profile, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []*model.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}
	return profiles, nil
}
