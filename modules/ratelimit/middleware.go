package ratelimit

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// Middleware provides rate limiting middleware for Fiber.
type Middleware struct {
	limiter  *SlidingWindowLimiter
	requests *prometheus.CounterVec
	blocked  *prometheus.CounterVec
	logger   *log.Entry
}

// NewMiddleware wraps limiter and registers its counters with reg.
func NewMiddleware(limiter *SlidingWindowLimiter, reg prometheus.Registerer) *Middleware {
	m := &Middleware{
		limiter: limiter,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limiter_requests_total",
				Help: "Total requests seen by the rate limiter",
			},
			[]string{"endpoint"},
		),
		blocked: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limiter_blocked_total",
				Help: "Total requests blocked by the rate limiter",
			},
			[]string{"endpoint"},
		),
		logger: log.WithField("module", "ratelimit"),
	}
	reg.MustRegister(m.requests, m.blocked)
	return m
}

// IPRateLimit returns middleware that limits requests by client IP.
// Redis failures let the request through.
func (m *Middleware) IPRateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		endpoint := c.Route().Path
		m.requests.WithLabelValues(endpoint).Inc()

		ip := c.IP()
		if ip == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Unable to determine client IP address",
			})
		}

		result, err := m.limiter.Allow(c.UserContext(), ip)
		if err != nil {
			m.logger.WithError(err).WithField("endpoint", endpoint).Warn("Rate limiter unavailable, allowing request")
			return c.Next()
		}

		setRateLimitHeaders(c, result, m.limiter.Config().RequestsPerWindow)

		if !result.Allowed {
			m.blocked.WithLabelValues(endpoint).Inc()
			m.logger.WithFields(log.Fields{"endpoint": endpoint, "ip": ip}).Warn("Rate limit exceeded")
			return sendRateLimitExceeded(c, result)
		}

		return c.Next()
	}
}

func setRateLimitHeaders(c *fiber.Ctx, result *Result, limit int) {
	c.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func sendRateLimitExceeded(c *fiber.Ctx, result *Result) error {
	retryAfter := int(result.RetryAfter.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}

	c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))

	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error":       fmt.Sprintf("Too many attempts. Please retry after %d seconds.", retryAfter),
		"retry_after": retryAfter,
	})
}
