// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only meant for local development.
const DefaultJWTSecret = "your-secret-key-change-in-production"

// Config holds all application settings.
type Config struct {
	HTTP      HTTPConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// HTTPConfig configures the Fiber server.
type HTTPConfig struct {
	Port int
}

// Addr returns the listen address for the HTTP server.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// DatabaseConfig configures the SQLite database.
type DatabaseConfig struct {
	Path string
}

// JWTConfig configures bearer token signing and verification.
type JWTConfig struct {
	SecretKey            string
	Issuer               string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
}

// UsesDefaultSecret reports whether the development secret is in use.
func (c JWTConfig) UsesDefaultSecret() bool {
	return c.SecretKey == DefaultJWTSecret
}

// RedisConfig configures the optional Redis connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address was configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// RateLimitConfig limits account deletion attempts per client IP.
type RateLimitConfig struct {
	DeleteAccountRequests int
	DeleteAccountWindow   time.Duration
}

// LogConfig configures logrus output.
type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Default returns the configuration used when no environment is set.
func Default() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 3000},
		Database: DatabaseConfig{Path: "task_manager.db"},
		JWT: JWTConfig{
			SecretKey:            DefaultJWTSecret,
			Issuer:               "task-manager-api",
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 7 * 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			DeleteAccountRequests: 5,
			DeleteAccountWindow:   15 * time.Minute,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from the given lookup function, starting from
// Default. Malformed values are reported instead of being ignored.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	r := reader{lookup: lookup}

	cfg.HTTP.Port = r.num("PORT", cfg.HTTP.Port)
	cfg.Database.Path = r.str("DB_PATH", cfg.Database.Path)

	cfg.JWT.SecretKey = r.str("JWT_SECRET", cfg.JWT.SecretKey)
	cfg.JWT.Issuer = r.str("JWT_ISSUER", cfg.JWT.Issuer)
	cfg.JWT.AccessTokenDuration = r.dur("ACCESS_TOKEN_TTL", cfg.JWT.AccessTokenDuration)
	cfg.JWT.RefreshTokenDuration = r.dur("REFRESH_TOKEN_TTL", cfg.JWT.RefreshTokenDuration)

	cfg.Redis.Addr = r.str("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = r.str("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = r.num("REDIS_DB", cfg.Redis.DB)

	cfg.RateLimit.DeleteAccountRequests = r.num("DELETE_ACCOUNT_RATE_LIMIT", cfg.RateLimit.DeleteAccountRequests)
	cfg.RateLimit.DeleteAccountWindow = r.dur("DELETE_ACCOUNT_RATE_WINDOW", cfg.RateLimit.DeleteAccountWindow)

	cfg.Log.Level = r.str("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = r.str("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.File = r.str("LOG_FILE", cfg.Log.File)
	cfg.Log.MaxSizeMB = r.num("LOG_MAX_SIZE_MB", cfg.Log.MaxSizeMB)
	cfg.Log.MaxBackups = r.num("LOG_MAX_BACKUPS", cfg.Log.MaxBackups)
	cfg.Log.MaxAgeDays = r.num("LOG_MAX_AGE_DAYS", cfg.Log.MaxAgeDays)

	if r.err != nil {
		return nil, r.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges that cannot be expressed by parsing alone.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DB_PATH must not be empty")
	}
	if c.JWT.SecretKey == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.JWT.AccessTokenDuration <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	if c.JWT.RefreshTokenDuration <= 0 {
		return fmt.Errorf("REFRESH_TOKEN_TTL must be positive")
	}
	if c.RateLimit.DeleteAccountRequests <= 0 {
		return fmt.Errorf("DELETE_ACCOUNT_RATE_LIMIT must be positive")
	}
	if c.RateLimit.DeleteAccountWindow <= 0 {
		return fmt.Errorf("DELETE_ACCOUNT_RATE_WINDOW must be positive")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// reader accumulates the first parse error so FromEnv stays linear.
type reader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *reader) str(key, def string) string {
	if v, ok := r.lookup(key); ok && v != "" {
		return v
	}
	return def
}

func (r *reader) num(key string, def int) int {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return n
}

func (r *reader) dur(key string, def time.Duration) time.Duration {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return d
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}
