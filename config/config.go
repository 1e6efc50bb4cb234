// Package config loads the service configuration from environment variables
// (optionally seeded from a .env file) into an explicit Config value that is
// constructed once at startup and passed to the components that need it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LogConfig selects the zap level and encoding.
type LogConfig struct {
	Level  string // debug|info|warn|error
	Format string // json|console
}

// RedisConfig enables the aggregate read cache when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RateLimitConfig bounds ingestion requests per caller.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type Config struct {
	Port string

	// Mongo
	MongoURI      string
	MongoDatabase string

	JWTSecret string

	// Skills matrix
	DefaultNamespace      string
	AggregatorConcurrency int
	ArchiveUploads        bool

	// Timeouts applied at the HTTP boundary
	RequestTimeout     time.Duration
	BulkRequestTimeout time.Duration

	Log       LogConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads a .env file when present, then builds and validates Config from
// the environment.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Config{
		Port:          getenv("PORT", "8081"),
		MongoURI:      mongoURI(),
		MongoDatabase: getenv("MONGO_DATABASE", "skills_matrix"),
		JWTSecret:     os.Getenv("JWT_SECRET"),

		DefaultNamespace:      getenv("DEFAULT_NAMESPACE", "Capability"),
		AggregatorConcurrency: getint("AGGREGATOR_CONCURRENCY", 16),
		ArchiveUploads:        getbool("ARCHIVE_UPLOADS", true),

		RequestTimeout:     getdur("REQUEST_TIMEOUT", 10*time.Second),
		BulkRequestTimeout: getdur("BULK_REQUEST_TIMEOUT", 2*time.Minute),

		Log: LogConfig{
			Level:  strings.ToLower(getenv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getenv("LOG_FORMAT", "json")),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getint("REDIS_DB", 0),
			TTL:      getdur("CACHE_TTL", time.Hour),
		},
		RateLimit: RateLimitConfig{
			RPS:   getfloat("RATE_RPS", 2),
			Burst: getint("RATE_BURST", 5),
		},
	}

	if cfg.Log.Level == "warning" {
		cfg.Log.Level = "warn"
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error")
	}
	switch cfg.Log.Format {
	case "json", "console":
	default:
		return cfg, errors.New("LOG_FORMAT must be json or console")
	}
	if cfg.MongoURI == "" {
		return cfg, errors.New("MONGO_URI or MONGO_USERNAME/MONGO_PASSWORD/MONGO_CLUSTER/MONGO_APP_NAME must be set")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return cfg, errors.New("JWT_SECRET must not be empty")
	}
	if strings.TrimSpace(cfg.DefaultNamespace) == "" {
		return cfg, errors.New("DEFAULT_NAMESPACE must not be empty")
	}
	if cfg.AggregatorConcurrency < 1 {
		return cfg, errors.New("AGGREGATOR_CONCURRENCY must be >= 1")
	}
	if cfg.RequestTimeout <= 0 || cfg.BulkRequestTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.Redis.TTL <= 0 {
		return cfg, errors.New("CACHE_TTL must be > 0")
	}
	if cfg.RateLimit.RPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateLimit.Burst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}

	return cfg, nil
}

// mongoURI prefers MONGO_URI and falls back to building an Atlas SRV string
// from its parts.
func mongoURI() string {
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		return uri
	}

	username := os.Getenv("MONGO_USERNAME")
	password := os.Getenv("MONGO_PASSWORD")
	cluster := os.Getenv("MONGO_CLUSTER")
	appName := os.Getenv("MONGO_APP_NAME")
	if username == "" || password == "" || cluster == "" || appName == "" {
		return ""
	}

	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority&appName=%s",
		username, password, cluster, appName)
}

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
