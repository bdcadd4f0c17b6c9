package ratelimit

import (
	"context"
	"fmt"

	"github.com/cypherab01/task-manager-api/config"
	"github.com/go-monolith/mono"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const keyPrefix = "task-manager:ratelimit:delete-account:"

// Module owns the Redis connection behind the account deletion limiter.
type Module struct {
	client     *redis.Client
	middleware *Middleware
	addr       string
	logger     *log.Entry
}

var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates the module. The Redis client connects lazily; Start
// verifies the connection.
func NewModule(redisCfg config.RedisConfig, limitCfg config.RateLimitConfig, reg prometheus.Registerer) *Module {
	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})
	return NewModuleWithClient(client, limitCfg, reg)
}

// NewModuleWithClient creates the module around an existing client.
func NewModuleWithClient(client *redis.Client, limitCfg config.RateLimitConfig, reg prometheus.Registerer) *Module {
	limiter := NewSlidingWindowLimiter(client, Config{
		RequestsPerWindow: limitCfg.DeleteAccountRequests,
		WindowSize:        limitCfg.DeleteAccountWindow,
	}, keyPrefix)

	return &Module{
		client:     client,
		middleware: NewMiddleware(limiter, reg),
		addr:       client.Options().Addr,
		logger:     log.WithField("module", "ratelimit"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "ratelimit"
}

// Start checks that Redis is reachable.
func (m *Module) Start(ctx context.Context) error {
	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", m.addr, err)
	}
	m.logger.WithField("addr", m.addr).Info("Module started")
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if err := m.client.Close(); err != nil {
		m.logger.WithError(err).Warn("Error closing Redis connection")
	}
	m.logger.Info("Module stopped")
	return nil
}

// Health pings Redis.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if err := m.client.Ping(ctx).Err(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"redis": m.addr},
	}
}

// Middleware returns the rate limiting middleware.
func (m *Module) Middleware() *Middleware {
	return m.middleware
}
