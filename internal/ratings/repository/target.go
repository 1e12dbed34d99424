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

	profilesrepo "servicehub/internal/profiles/repository"
	ratingserrors "servicehub/internal/ratings/errors"
	servicesrepo "servicehub/internal/services/repository"
	"servicehub/pkg/config"
	mongotx "servicehub/pkg/db/mongo"
	"servicehub/pkg/model"
)

// Target is the document a rating is attached to, reduced to what the
// aggregator needs.
type Target struct {
	ID string
	// OwnerProfileID is the profile that may not rate this target.
	OwnerProfileID string
	Rating         float64
}

// TargetRepository reads rating targets and stores their aggregate rating.
type TargetRepository interface {
	Find(ctx context.Context, targetID string) (*Target, error)
	// SetRating stores the aggregate and returns the value it replaced.
	SetRating(ctx context.Context, targetID string, rating float64) (previous float64, err error)
}

type mongoTargetRepository struct {
	cfg        *config.Config
	target     model.RatingTarget
	collection *mongo.Collection
}

func NewMongoTargetRepository(cfg *config.Config, target model.RatingTarget) TargetRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	name := servicesrepo.CollectionName
	if target == model.RatingTargetProvider {
		name = profilesrepo.CollectionName
	}
	return &mongoTargetRepository{
		cfg:        cfg,
		target:     target,
		collection: db.Collection(name),
	}
}

// filter matches the target document. Provider targets must be Provider profiles.
func (r *mongoTargetRepository) filter(targetID string) (bson.M, error) {
	objectID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ratingserrors.ErrInvalidID, targetID)
	}
	filter := bson.M{"_id": objectID}
	if r.target == model.RatingTargetProvider {
		filter["type"] = model.ProfileTypeProvider
	}
	return filter, nil
}

func (r *mongoTargetRepository) Find(ctx context.Context, targetID string) (*Target, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	filter, err := r.filter(targetID)
	if err != nil {
		return nil, err
	}

	var doc struct {
		ID                string  `bson:"_id"`
		ProviderProfileID string  `bson:"provider_profile_id"`
		Rating            float64 `bson:"rating"`
	}
	opts := options.FindOne().SetProjection(bson.M{"provider_profile_id": 1, "rating": 1})
	if err := r.collection.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ratingserrors.ErrTargetNotFound
		}
		return nil, fmt.Errorf("failed to find %s: %w", r.target, err)
	}

	owner := doc.ProviderProfileID
	if r.target == model.RatingTargetProvider {
		owner = doc.ID
	}
	return &Target{ID: doc.ID, OwnerProfileID: owner, Rating: doc.Rating}, nil
}

func (r *mongoTargetRepository) SetRating(ctx context.Context, targetID string, rating float64) (float64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	filter, err := r.filter(targetID)
	if err != nil {
		return 0, err
	}

	update := bson.M{"$set": bson.M{
		"rating":     rating,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.Before).
		SetProjection(bson.M{"rating": 1})

	var before struct {
		Rating float64 `bson:"rating"`
	}
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&before); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ratingserrors.ErrTargetNotFound
		}
		return 0, fmt.Errorf("failed to store %s rating: %w", r.target, err)
	}
	return before.Rating, nil
}
