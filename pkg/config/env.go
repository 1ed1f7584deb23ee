package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvStaffTokenSecret = "STAFF_TOKEN_SECRET"

	EnvGeocoderBaseURL = "GEOCODER_BASE_URL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvMorningStart    = "MORNING_START"
	EnvMorningCutoff   = "MORNING_CUTOFF"
	EnvAfternoonStart  = "AFTERNOON_START"
	EnvAfternoonCutoff = "AFTERNOON_CUTOFF"

	EnvRideDurationMin       = "RIDE_DURATION_MIN"
	EnvTurnaroundDurationMin = "TURNAROUND_DURATION_MIN"

	EnvMaxSlotsPerSession = "MAX_SLOTS_PER_SESSION"

	EnvSessionLockTTL = "SESSION_LOCK_TTL"
)
