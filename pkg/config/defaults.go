package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "demoride"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Demo-ride scheduling windows. Slots start on the hour: the ride takes
	// 45 minutes and the turnaround 15, so the cadence is their sum.
	DefaultMorningStart   = "09:00"
	DefaultMorningCutoff  = "12:00"
	DefaultAfternoonStart = "14:00"
	DefaultAfternoonCutoff = "18:00"

	DefaultRideDurationMin       = 45
	DefaultTurnaroundDurationMin = 15

	DefaultMaxSlotsPerSession = 8

	DefaultSessionLockTTL = 10 * time.Second

	DefaultPaginationLimit = 100
)
