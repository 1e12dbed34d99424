package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017/?replicaSet=rs0"
	DefaultMongoDatabaseName = "servicehub"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultJWTTTL     = 24 * time.Hour
	DefaultBcryptCost = 10

	DefaultRedisDB     = 0
	DefaultSlotLockTTL = 10 * time.Second

	DefaultTimeZone           = "UTC"
	DefaultSlotDuration       = 1 * time.Hour
	DefaultNearbyRadiusMeters = 50000

	DefaultEventsEnabled      = false
	DefaultRatingEventsTopic  = "rating.changed"
	DefaultBookingEventsTopic = "booking.events"

	minJWTSecretLength = 32
)
