package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const DefaultOperationTimeout = 5 * time.Second

// earthRadiusMeters converts distances to the radians $centerSphere expects.
const earthRadiusMeters = 6378100.0

// WithTimeout bounds a single store call. Calls made inside a transaction keep
// the session context untouched.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if mongo.SessionFromContext(ctx) != nil {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// ObjectIDs converts hex ids, failing on the first malformed one.
func ObjectIDs(ids ...string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, err
		}
		out = append(out, oid)
	}
	return out, nil
}

// ToggleInArray builds an update pipeline that removes value from the array
// field when present and appends it otherwise, in one atomic write.
func ToggleInArray(field, value string, now time.Time) mongo.Pipeline {
	current := bson.M{"$ifNull": bson.A{"$" + field, bson.A{}}}
	literal := bson.M{"$literal": value}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			field: bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{literal, current}},
				bson.M{"$filter": bson.M{
					"input": current,
					"cond":  bson.M{"$ne": bson.A{"$$this", literal}},
				}},
				bson.M{"$concatArrays": bson.A{current, bson.A{literal}}},
			}},
			"updated_at": now,
		}}},
	}
}

// Near matches documents whose 2dsphere field lies near (lng, lat), closest first.
func Near(lng, lat float64) bson.M {
	return bson.M{"$near": bson.M{
		"$geometry": bson.M{"type": "Point", "coordinates": bson.A{lng, lat}},
	}}
}

// WithinRadius matches documents within meters of (lng, lat). Unlike Near it
// leaves the sort order to the caller.
func WithinRadius(lng, lat float64, meters int) bson.M {
	return bson.M{"$geoWithin": bson.M{
		"$centerSphere": bson.A{bson.A{lng, lat}, float64(meters) / earthRadiusMeters},
	}}
}
