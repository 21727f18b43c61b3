package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// HTTP
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	RateLimitWrites  int // goal mutations per user and window, 0 disables
	RateLimitWindow  time.Duration

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver          string
	DBConnection      string
	DBConnectAttempts int

	// Security
	JWTSecret string
	JWTExpiry time.Duration

	// Goals
	MaxActiveGoals     int
	ProgressOwnerCheck bool // run the ownership check before progress updates

	// Export archive (optional, S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3PresignExpiry time.Duration

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Goal Tracker"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// HTTP
		HTTPReadTimeout:  envDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout: envDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
		RateLimitWrites:  envInt("RATE_LIMIT_WRITES", 60),
		RateLimitWindow:  envDuration("RATE_LIMIT_WINDOW", time.Minute),

		// Database
		DBDriver:          envString("DB_DRIVER", "sqlite"),
		DBConnection:      envString("DB_CONNECTION", "./data/goals.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),
		DBConnectAttempts: envInt("DB_CONNECT_ATTEMPTS", 3),

		// Security
		JWTSecret: envRequired("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days

		// Goals
		MaxActiveGoals:     envInt("MAX_ACTIVE_GOALS", 10),
		ProgressOwnerCheck: envBool("PROGRESS_OWNER_CHECK", false),

		// Export archive (disabled while S3_BUCKET is empty)
		S3Region:        envString("S3_REGION", "us-east-1"),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", time.Hour),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.MaxActiveGoals < 1 {
		slog.Warn("config MAX_ACTIVE_GOALS must be positive, using default", "value", cfg.MaxActiveGoals, "default", 10)
		cfg.MaxActiveGoals = 10
	}

	return cfg
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
