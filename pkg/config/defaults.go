package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "slotify"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Admission locks expire on their own so a crashed request cannot wedge a
	// provider's calendar.
	DefaultAdmissionLockTTL = 10 * time.Second

	// Lookahead horizon for the available-days query.
	DefaultDaysAheadLimit = 60

	DefaultPaginationLimit = 100

	DefaultBookingEventsTopic    = "bookings.events"
	DefaultBookingEventsDLQTopic = "bookings.events.dlq"
)

const DefaultLogLevel = "info"
