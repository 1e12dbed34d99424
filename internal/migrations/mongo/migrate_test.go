package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	bookingsrepo "servicehub/internal/bookings/repository"
	"servicehub/pkg/lock"
)

func TestCollections_CoverEveryStore(t *testing.T) {
	collections := Collections()

	for _, name := range []string{
		"Users", "Profiles", "Services", "Bookings", "CancelledBookings",
		"ServiceRatings", "ProviderRatings", lock.SlotLocksCollection,
	} {
		def, ok := collections[name]
		require.True(t, ok, "missing collection %s", name)
		assert.NotEmpty(t, def.Indexes, "collection %s has no indexes", name)
	}
	assert.Nil(t, collections[lock.SlotLocksCollection].Validator)
}

func TestBookingsIndexes_ConfirmedSlotIsUnique(t *testing.T) {
	idx := Collections()[bookingsrepo.CollectionName].Indexes[0]

	assert.Equal(t, bson.D{
		{Key: "provider_profile_id", Value: 1},
		{Key: "booking_date", Value: 1},
	}, idx.Keys)
	require.NotNil(t, idx.Options)
	require.NotNil(t, idx.Options.Unique)
	assert.True(t, *idx.Options.Unique)
	assert.Equal(t, bson.M{"status": "confirmed"}, idx.Options.PartialFilterExpression)
}

func TestSlotLocksIndexes_ExpireOnDeadline(t *testing.T) {
	idx := SlotLocksIndexes[0]

	require.NotNil(t, idx.Options.ExpireAfterSeconds)
	assert.Equal(t, int32(0), *idx.Options.ExpireAfterSeconds)
}
