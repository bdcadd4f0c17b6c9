package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/cypherab01/task-manager-api/config"
	"github.com/cypherab01/task-manager-api/modules/auth"
	"github.com/cypherab01/task-manager-api/modules/task"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// APIModule is the HTTP API module.
type APIModule struct {
	cfg      config.HTTPConfig
	app      *fiber.App
	authPort auth.AuthPort
	taskPort task.TaskPort
	gatherer prometheus.Gatherer
	metrics  *httpMetrics
	logger   *log.Entry

	limiter fiber.Handler
	// limiterOwner is the module whose connection backs limiter.
	limiterOwner string
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// Option configures an APIModule.
type Option func(*APIModule)

// WithDeleteAccountLimiter guards POST /delete-account with limiter.
// owner names the module that runs the limiter's backing store; it becomes a
// dependency so it is started before and stopped after the HTTP server.
func WithDeleteAccountLimiter(owner string, limiter fiber.Handler) Option {
	return func(m *APIModule) {
		m.limiter = limiter
		m.limiterOwner = owner
	}
}

// NewModule creates a new APIModule. HTTP metrics are registered on reg
// and everything in reg is served at /metrics.
func NewModule(cfg config.HTTPConfig, reg *prometheus.Registry, opts ...Option) *APIModule {
	m := &APIModule{
		cfg:      cfg,
		gatherer: reg,
		metrics:  newHTTPMetrics(reg),
		logger:   log.WithField("module", "api"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	deps := []string{"auth", "task"}
	if m.limiter != nil && m.limiterOwner != "" {
		deps = append(deps, m.limiterOwner)
	}
	return deps
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authPort = auth.NewAuthAdapter(container)
	case "task":
		m.taskPort = task.NewTaskAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.authPort == nil {
		return fmt.Errorf("auth dependency not set")
	}
	if m.taskPort == nil {
		return fmt.Errorf("task dependency not set")
	}

	m.app = m.buildApp()

	addr := m.cfg.Addr()
	go func() {
		if err := m.app.Listen(addr); err != nil {
			m.logger.WithError(err).Error("HTTP server error")
		}
	}()

	m.logger.WithField("addr", addr).Info("HTTP server started")
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server...")
	return m.app.ShutdownWithContext(ctx)
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port":       m.cfg.Port,
			"rate_limit": m.limiter != nil,
		},
	}
}

// buildApp creates the Fiber app with middleware and routes.
func (m *APIModule) buildApp() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          m.errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		Output: log.StandardLogger().Writer(),
	}))
	app.Use(cors.New())
	app.Use(m.metrics.middleware())

	m.setupRoutes(app)
	return app
}

// setupRoutes configures all routes.
func (m *APIModule) setupRoutes(app *fiber.App) {
	handlers := NewHandlers(m.authPort, m.taskPort)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})))

	authRoutes := app.Group("/auth")
	authRoutes.Post("/register", handlers.Register)
	authRoutes.Post("/login", handlers.Login)
	authRoutes.Post("/refresh", handlers.Refresh)

	tasks := app.Group("/tasks", AuthMiddleware(m.authPort))
	tasks.Get("/", handlers.ListTasks)
	tasks.Post("/", handlers.CreateTask)
	tasks.Patch("/:id", handlers.UpdateTaskStatus)
	tasks.Delete("/:id", handlers.DeleteTask)

	app.Get("/delete-account", handlers.DeleteAccountPage)
	if m.limiter != nil {
		app.Post("/delete-account", m.limiter, handlers.DeleteAccount)
	} else {
		app.Post("/delete-account", handlers.DeleteAccount)
	}
}

// errorHandler answers errors returned by handlers and middleware.
// Anything that is not a *fiber.Error becomes the generic 500.
func (m *APIModule) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(ErrorResponse{Error: fe.Message})
	}

	m.logger.WithError(err).WithFields(log.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error("Unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: msgInternal})
}
