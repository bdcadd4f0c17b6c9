package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envLookup(nil))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, ":3000", cfg.HTTP.Addr())
	assert.Equal(t, "task_manager.db", cfg.Database.Path)
	assert.True(t, cfg.JWT.UsesDefaultSecret())
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenDuration)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 5, cfg.RateLimit.DeleteAccountRequests)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envLookup(map[string]string{
		"PORT":                       "8080",
		"DB_PATH":                    "/data/tasks.db",
		"JWT_SECRET":                 "s3cret",
		"JWT_ISSUER":                 "tests",
		"ACCESS_TOKEN_TTL":           "1h",
		"REFRESH_TOKEN_TTL":          "48h",
		"REDIS_ADDR":                 "localhost:6379",
		"REDIS_DB":                   "2",
		"DELETE_ACCOUNT_RATE_LIMIT":  "3",
		"DELETE_ACCOUNT_RATE_WINDOW": "1m",
		"LOG_LEVEL":                  "debug",
		"LOG_FORMAT":                 "json",
		"LOG_FILE":                   "/var/log/tasks.log",
	}))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "/data/tasks.db", cfg.Database.Path)
	assert.Equal(t, "s3cret", cfg.JWT.SecretKey)
	assert.False(t, cfg.JWT.UsesDefaultSecret())
	assert.Equal(t, "tests", cfg.JWT.Issuer)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTokenDuration)
	assert.Equal(t, 48*time.Hour, cfg.JWT.RefreshTokenDuration)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 3, cfg.RateLimit.DeleteAccountRequests)
	assert.Equal(t, time.Minute, cfg.RateLimit.DeleteAccountWindow)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/var/log/tasks.log", cfg.Log.File)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "non-numeric port", env: map[string]string{"PORT": "abc"}},
		{name: "port out of range", env: map[string]string{"PORT": "70000"}},
		{name: "bad duration", env: map[string]string{"ACCESS_TOKEN_TTL": "soon"}},
		{name: "negative duration", env: map[string]string{"REFRESH_TOKEN_TTL": "-1h"}},
		{name: "zero rate limit", env: map[string]string{"DELETE_ACCOUNT_RATE_LIMIT": "0"}},
		{name: "unknown log format", env: map[string]string{"LOG_FORMAT": "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envLookup(tt.env))
			assert.Error(t, err)
		})
	}
}
