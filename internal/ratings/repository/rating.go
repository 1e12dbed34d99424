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

	ratingserrors "servicehub/internal/ratings/errors"
	"servicehub/pkg/config"
	mongotx "servicehub/pkg/db/mongo"
	"servicehub/pkg/model"
)

const (
	ServiceRatingsCollection  = "ServiceRatings"
	ProviderRatingsCollection = "ProviderRatings"
)

// CollectionFor returns the collection holding ratings of the given target kind.
func CollectionFor(target model.RatingTarget) string {
	if target == model.RatingTargetProvider {
		return ProviderRatingsCollection
	}
	return ServiceRatingsCollection
}

type RatingRepository interface {
	Create(ctx context.Context, rating *model.Rating) error
	FindByID(ctx context.Context, id string) (*model.Rating, error)
	ListByTarget(ctx context.Context, targetID string) ([]*model.Rating, error)
	Update(ctx context.Context, id string, update *model.RatingUpdate) (*model.Rating, error)
	Delete(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, id, userID string) (*model.Rating, error)
	// Sum returns the score total and rating count of a target.
	Sum(ctx context.Context, targetID string) (total, count int64, err error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoRatingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoRatingRepository(cfg *config.Config, target model.RatingTarget) RatingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRatingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionFor(target)),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoRatingRepository) Create(ctx context.Context, rating *model.Rating) error {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	// The driver assigns _id; a retried transaction must not re-insert the hex string.
	rating.ID = ""
	now := time.Now().UTC().Truncate(time.Millisecond)
	rating.CreatedAt = now
	rating.UpdatedAt = now
	if rating.LikedByUserIDs == nil {
		rating.LikedByUserIDs = []string{}
	}

	result, err := r.collection.InsertOne(ctx, rating)
	if err != nil {
		return fmt.Errorf("failed to create rating: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		rating.ID = oid.Hex()
	}
	return nil
}

func (r *mongoRatingRepository) FindByID(ctx context.Context, id string) (*model.Rating, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ratingserrors.ErrInvalidID, id)
	}

	var rating model.Rating
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&rating); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ratingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rating: %w", err)
	}
	return &rating, nil
}

func (r *mongoRatingRepository) ListByTarget(ctx context.Context, targetID string) ([]*model.Rating, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"target_id": targetID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var ratings []*model.Rating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, fmt.Errorf("failed to decode ratings: %w", err)
	}
	return ratings, nil
}

func (r *mongoRatingRepository) Update(ctx context.Context, id string, update *model.RatingUpdate) (*model.Rating, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ratingserrors.ErrInvalidID, id)
	}

	set := bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}
	if update.Score != nil {
		set["score"] = *update.Score
	}
	if update.Comment != nil {
		set["comment"] = *update.Comment
	}

	return r.findOneAndUpdate(ctx, objectID, bson.M{"$set": set})
}

func (r *mongoRatingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ratingserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}
	if result.DeletedCount == 0 {
		return ratingserrors.ErrNotFound
	}
	return nil
}

func (r *mongoRatingRepository) ToggleLike(ctx context.Context, id, userID string) (*model.Rating, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ratingserrors.ErrInvalidID, id)
	}

	update := mongotx.ToggleInArray("liked_by_user_ids", userID, time.Now().UTC().Truncate(time.Millisecond))
	return r.findOneAndUpdate(ctx, objectID, update)
}

func (r *mongoRatingRepository) Sum(ctx context.Context, targetID string) (int64, int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"target_id": targetID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$score"},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total int64 `bson:"total"`
		Count int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, fmt.Errorf("failed to decode rating aggregate: %w", err)
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Total, rows[0].Count, nil
}

func (r *mongoRatingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func (r *mongoRatingRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update any) (*model.Rating, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rating model.Rating
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&rating); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ratingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update rating: %w", err)
	}
	return &rating, nil
}
