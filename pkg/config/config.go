package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"demoride/pkg/client"
	"demoride/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	StaffTokenSecret string

	GeocoderBaseURL string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	MorningStart    string
	MorningCutoff   string
	AfternoonStart  string
	AfternoonCutoff string

	RideDurationMin       int
	TurnaroundDurationMin int

	MaxSlotsPerSession int

	SessionLockTTL time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		StaffTokenSecret: getEnvStr(EnvStaffTokenSecret, ""),

		GeocoderBaseURL: getEnvStr(EnvGeocoderBaseURL, ""),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		MorningStart:    getEnvStr(EnvMorningStart, DefaultMorningStart),
		MorningCutoff:   getEnvStr(EnvMorningCutoff, DefaultMorningCutoff),
		AfternoonStart:  getEnvStr(EnvAfternoonStart, DefaultAfternoonStart),
		AfternoonCutoff: getEnvStr(EnvAfternoonCutoff, DefaultAfternoonCutoff),

		RideDurationMin:       getEnvNum(EnvRideDurationMin, DefaultRideDurationMin),
		TurnaroundDurationMin: getEnvNum(EnvTurnaroundDurationMin, DefaultTurnaroundDurationMin),

		MaxSlotsPerSession: getEnvNum(EnvMaxSlotsPerSession, DefaultMaxSlotsPerSession),

		SessionLockTTL: getEnvDuration(EnvSessionLockTTL, DefaultSessionLockTTL),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, logger.INFO),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.New(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

var (
	timeOfDayRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	mongoURIRegex  = regexp.MustCompile(`^mongodb(\+srv)?://`)
)

func (cfg *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" || !mongoURIRegex.MatchString(cfg.MongoURI) {
		problems = append(problems, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		problems = append(problems, "MongoDatabaseName cannot be empty")
	}

	for name, value := range map[string]string{
		"MorningStart":    cfg.MorningStart,
		"MorningCutoff":   cfg.MorningCutoff,
		"AfternoonStart":  cfg.AfternoonStart,
		"AfternoonCutoff": cfg.AfternoonCutoff,
	} {
		if !timeOfDayRegex.MatchString(value) {
			problems = append(problems, fmt.Sprintf("%s must be in HH:MM format, got: %s", name, value))
		}
	}
	if cfg.MorningStart >= cfg.MorningCutoff {
		problems = append(problems, fmt.Sprintf("MorningStart (%s) must be before MorningCutoff (%s)", cfg.MorningStart, cfg.MorningCutoff))
	}
	if cfg.AfternoonStart >= cfg.AfternoonCutoff {
		problems = append(problems, fmt.Sprintf("AfternoonStart (%s) must be before AfternoonCutoff (%s)", cfg.AfternoonStart, cfg.AfternoonCutoff))
	}

	if cfg.RideDurationMin <= 0 {
		problems = append(problems, fmt.Sprintf("RideDurationMin must be positive, got: %d", cfg.RideDurationMin))
	}
	if cfg.TurnaroundDurationMin < 0 {
		problems = append(problems, fmt.Sprintf("TurnaroundDurationMin cannot be negative, got: %d", cfg.TurnaroundDurationMin))
	}
	if cfg.MaxSlotsPerSession < 1 {
		problems = append(problems, fmt.Sprintf("MaxSlotsPerSession must be at least 1, got: %d", cfg.MaxSlotsPerSession))
	}

	for name, value := range map[string]time.Duration{
		"MongoConnTimeout": cfg.MongoConnTimeout,
		"RateLimitWindow":  cfg.RateLimitWindow,
		"RequestTimeout":   cfg.RequestTimeout,
		"IdempotencyTTL":   cfg.IdempotencyTTL,
		"ReadTimeout":      cfg.ReadTimeout,
		"WriteTimeout":     cfg.WriteTimeout,
		"IdleTimeout":      cfg.IdleTimeout,
		"ShutdownTimeout":  cfg.ShutdownTimeout,
		"SessionLockTTL":   cfg.SessionLockTTL,
	} {
		if value <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got: %s", name, value))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		problems = append(problems, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		problems = append(problems, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if len(problems) > 0 {
		msg := "Configuration validation failed:\n"
		for i, p := range problems {
			msg += fmt.Sprintf("  %d. %s\n", i+1, p)
		}
		return fmt.Errorf("%s", msg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"staff_token_secret_set", cfg.StaffTokenSecret != "",
		"geocoder_base_url", cfg.GeocoderBaseURL,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"morning_window", cfg.MorningStart+"-"+cfg.MorningCutoff,
		"afternoon_window", cfg.AfternoonStart+"-"+cfg.AfternoonCutoff,
		"ride_duration_min", cfg.RideDurationMin,
		"turnaround_duration_min", cfg.TurnaroundDurationMin,
		"max_slots_per_session", cfg.MaxSlotsPerSession,
		"session_lock_ttl", cfg.SessionLockTTL,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
