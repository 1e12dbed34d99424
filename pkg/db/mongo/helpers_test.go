package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestObjectIDs(t *testing.T) {
	ids, err := ObjectIDs("507f1f77bcf86cd799439011", "507f1f77bcf86cd799439012")
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Equal(t, "507f1f77bcf86cd799439012", ids[1].Hex())

	_, err = ObjectIDs("507f1f77bcf86cd799439011", "nope")
	assert.Error(t, err)
}

func TestWithTimeout_AddsDeadlineOutsideSession(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, ok := ctx.Deadline()
	assert.True(t, ok)
}

func TestToggleInArray(t *testing.T) {
	now := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	pipeline := ToggleInArray("liked_by_user_ids", "u1", now)
	require.Len(t, pipeline, 1)

	stage := pipeline[0]
	require.Equal(t, "$set", stage[0].Key)
	set := stage[0].Value.(bson.M)
	assert.Equal(t, now, set["updated_at"])

	cond := set["liked_by_user_ids"].(bson.M)["$cond"].(bson.A)
	require.Len(t, cond, 3)
	assert.Contains(t, cond[0].(bson.M), "$in")
	assert.Contains(t, cond[1].(bson.M), "$filter")
	assert.Contains(t, cond[2].(bson.M), "$concatArrays")
}

func TestWithinRadius(t *testing.T) {
	filter := WithinRadius(-73.98, 40.75, 50000)
	sphere := filter["$geoWithin"].(bson.M)["$centerSphere"].(bson.A)
	center := sphere[0].(bson.A)

	assert.Equal(t, -73.98, center[0])
	assert.Equal(t, 40.75, center[1])
	assert.InDelta(t, 0.00784, sphere[1].(float64), 0.00001)
}
