package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"servicehub/pkg/model"
)

const SlotLocksCollection = "Booking_locks"

// MongoLocker keeps locks as documents keyed by _id, so a duplicate key error
// means the slot is taken. A TTL index on expires_at reaps abandoned locks;
// Lock also clears an expired lock itself since the TTL monitor runs lazily.
type MongoLocker struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewMongoLocker(db *mongo.Database) *MongoLocker {
	return &MongoLocker{
		collection: db.Collection(SlotLocksCollection),
		now:        time.Now,
	}
}

func (m *MongoLocker) Lock(ctx context.Context, key string, ttl time.Duration) (*Lease, error) {
	owner := uuid.NewString()

	for attempt := 0; attempt < 2; attempt++ {
		now := m.now()
		_, err := m.collection.InsertOne(ctx, model.SlotLock{
			ID:        key,
			Owner:     owner,
			ExpiresAt: now.Add(ttl),
			CreatedAt: now,
		})
		if err == nil {
			return NewLease(key, owner, m.releaser(key, owner)), nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("lock.MongoLocker.Lock: %w", err)
		}

		res, err := m.collection.DeleteOne(ctx, bson.M{"_id": key, "expires_at": bson.M{"$lte": now}})
		if err != nil {
			return nil, fmt.Errorf("lock.MongoLocker.Lock: clear stale: %w", err)
		}
		if res.DeletedCount == 0 {
			return nil, ErrLockHeld
		}
	}

	return nil, ErrLockHeld
}

func (m *MongoLocker) releaser(key, owner string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if _, err := m.collection.DeleteOne(ctx, bson.M{"_id": key, "owner": owner}); err != nil {
			return fmt.Errorf("lock.MongoLocker.Unlock: %w", err)
		}
		return nil
	}
}
