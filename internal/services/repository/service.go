package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	serviceserrors "servicehub/internal/services/errors"
	"servicehub/pkg/config"
	mongotx "servicehub/pkg/db/mongo"
	"servicehub/pkg/model"
)

const (
	CollectionName = "Services"
)

type ServiceRepository interface {
	Create(ctx context.Context, svc *model.Service) error
	FindByID(ctx context.Context, id string) (*model.Service, error)
	Update(ctx context.Context, id string, svc *model.Service) (*model.Service, error)
	Delete(ctx context.Context, id string) error
	ListByProvider(ctx context.Context, providerProfileID string) ([]*model.Service, error)
	Search(ctx context.Context, search model.ServiceSearch) ([]*model.Service, error)
	Nearest(ctx context.Context, point model.GeoPoint, limit int) ([]*model.Service, error)
	TopRated(ctx context.Context, point model.GeoPoint, radiusMeters, limit int) ([]*model.Service, error)
	ToggleLike(ctx context.Context, id, userID string) (*model.Service, error)
}

type mongoServiceRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoServiceRepository(cfg *config.Config) ServiceRepository {
	return &mongoServiceRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(CollectionName),
	}
}

func (r *mongoServiceRepository) Create(ctx context.Context, svc *model.Service) error {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	svc.CreatedAt = now
	svc.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, svc)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		svc.ID = oid.Hex()
	}
	return nil
}

func (r *mongoServiceRepository) FindByID(ctx context.Context, id string) (*model.Service, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", serviceserrors.ErrInvalidID, id)
	}

	var svc model.Service
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&svc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, serviceserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find service: %w", err)
	}
	return &svc, nil
}

// Update writes the owner-editable fields of svc. Provider, rating and likes
// are never touched here.
func (r *mongoServiceRepository) Update(ctx context.Context, id string, svc *model.Service) (*model.Service, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", serviceserrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{
		"description":       svc.Description,
		"type":              svc.Type,
		"tiers":             svc.Tiers,
		"location":          svc.Location,
		"city":              svc.City,
		"days_of_operation": svc.DaysOfOperation,
		"start_time":        svc.StartTime,
		"end_time":          svc.EndTime,
		"time_zone":         svc.TimeZone,
		"photos":            svc.Photos,
		"updated_at":        time.Now().UTC().Truncate(time.Millisecond),
	}}

	return r.findOneAndUpdate(ctx, objectID, update)
}

func (r *mongoServiceRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", serviceserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	if result.DeletedCount == 0 {
		return serviceserrors.ErrNotFound
	}
	return nil
}

func (r *mongoServiceRepository) ListByProvider(ctx context.Context, providerProfileID string) ([]*model.Service, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"provider_profile_id": providerProfileID}, opts)
}

func (r *mongoServiceRepository) Search(ctx context.Context, search model.ServiceSearch) ([]*model.Service, error) {
	filter := bson.M{}
	if search.City != "" {
		filter["city"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(search.City) + "$", Options: "i"}
	}
	if search.Type != "" {
		filter["type"] = search.Type
	}

	price := bson.M{}
	if search.MinPrice != nil {
		price["$gte"] = *search.MinPrice
	}
	if search.MaxPrice != nil {
		price["$lte"] = *search.MaxPrice
	}
	if len(price) > 0 {
		filter["tiers"] = bson.M{"$elemMatch": bson.M{"price": price}}
	}

	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "_id", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *mongoServiceRepository) Nearest(ctx context.Context, point model.GeoPoint, limit int) ([]*model.Service, error) {
	filter := bson.M{"location": mongotx.Near(point.Lng(), point.Lat())}
	return r.find(ctx, filter, options.Find().SetLimit(int64(limit)))
}

func (r *mongoServiceRepository) TopRated(ctx context.Context, point model.GeoPoint, radiusMeters, limit int) ([]*model.Service, error) {
	filter := bson.M{"location": mongotx.WithinRadius(point.Lng(), point.Lat(), radiusMeters)}
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	return r.find(ctx, filter, opts)
}

func (r *mongoServiceRepository) ToggleLike(ctx context.Context, id, userID string) (*model.Service, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", serviceserrors.ErrInvalidID, id)
	}

	update := mongotx.ToggleInArray("liked_by_user_ids", userID, time.Now().UTC().Truncate(time.Millisecond))
	return r.findOneAndUpdate(ctx, objectID, update)
}

func (r *mongoServiceRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Service, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, mongotx.DefaultOperationTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []*model.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}

func (r *mongoServiceRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update any) (*model.Service, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var svc model.Service
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&svc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, serviceserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	return &svc, nil
}
