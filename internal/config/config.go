package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/neuraldesk/billing/internal/envutil"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Razorpay  RazorpayConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string
	Interface    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds Postgres and Redis configuration
type DatabaseConfig struct {
	PostgresURL string
	RedisURL    string
}

// AuthConfig holds auth provider configuration.
// The provider is a Supabase-style GoTrue deployment: tokens are HS256 JWTs
// that can be verified locally when JWTSecret is set, or exchanged for a
// user identity at <BaseURL>/auth/v1/user otherwise.
type AuthConfig struct {
	BaseURL    string
	ServiceKey string
	JWTSecret  string
}

// RazorpayConfig holds payment provider credentials
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

// RateLimitConfig holds fixed-window rate limit settings for billing endpoints
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level            string
	IsDev            bool
	LogDir           string
	MaxAgeDays       int
	MaxSizeMB        int
	MaxBackups       int
	AlsoLogToConsole bool
}

// Load builds the configuration from the environment. Missing required
// variables are a startup error, not a per-request one.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         envutil.Get("SERVER_PORT", "8080"),
			Interface:    envutil.Get("SERVER_INTERFACE", "0.0.0.0"),
			ReadTimeout:  durationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: durationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  durationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			PostgresURL: envutil.Get("DATABASE_URL", ""),
			RedisURL:    envutil.Get("REDIS_URL", ""),
		},
		Auth: AuthConfig{
			BaseURL:    envutil.Get("AUTH_BASE_URL", ""),
			ServiceKey: envutil.Get("AUTH_SERVICE_KEY", ""),
			JWTSecret:  envutil.Get("AUTH_JWT_SECRET", ""),
		},
		Razorpay: RazorpayConfig{
			KeyID:     envutil.Get("RAZORPAY_KEY_ID", ""),
			KeySecret: envutil.Get("RAZORPAY_KEY_SECRET", ""),
			BaseURL:   envutil.Get("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1"),
		},
		RateLimit: RateLimitConfig{
			MaxRequests: intEnv("RATE_LIMIT_MAX_REQUESTS", 10),
			Window:      durationEnv("RATE_LIMIT_WINDOW", time.Minute),
		},
		Logging: LoggingConfig{
			Level:            envutil.Get("LOG_LEVEL", "info"),
			IsDev:            boolEnv("LOG_DEV", false),
			LogDir:           envutil.Get("LOG_DIR", "logs"),
			MaxAgeDays:       intEnv("LOG_MAX_AGE_DAYS", 7),
			MaxSizeMB:        intEnv("LOG_MAX_SIZE_MB", 100),
			MaxBackups:       intEnv("LOG_MAX_BACKUPS", 10),
			AlsoLogToConsole: boolEnv("LOG_CONSOLE", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all required settings are present
func (c *Config) Validate() error {
	var missing []string
	if c.Razorpay.KeyID == "" {
		missing = append(missing, "RAZORPAY_KEY_ID")
	}
	if c.Razorpay.KeySecret == "" {
		missing = append(missing, "RAZORPAY_KEY_SECRET")
	}
	if c.Database.PostgresURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Auth.BaseURL == "" && c.Auth.JWTSecret == "" {
		missing = append(missing, "AUTH_BASE_URL or AUTH_JWT_SECRET")
	}
	if c.Auth.BaseURL != "" && c.Auth.ServiceKey == "" {
		missing = append(missing, "AUTH_SERVICE_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX_REQUESTS must be positive, got %d", c.RateLimit.MaxRequests)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimit.Window)
	}
	return nil
}

func intEnv(key string, fallback int) int {
	raw := envutil.Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func boolEnv(key string, fallback bool) bool {
	raw := envutil.Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := envutil.Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return v
}
