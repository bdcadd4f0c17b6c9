package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cypherab01/task-manager-api/config"
	"github.com/cypherab01/task-manager-api/database"
	"github.com/cypherab01/task-manager-api/logging"
	"github.com/cypherab01/task-manager-api/modules/activity"
	"github.com/cypherab01/task-manager-api/modules/api"
	"github.com/cypherab01/task-manager-api/modules/auth"
	"github.com/cypherab01/task-manager-api/modules/ratelimit"
	"github.com/cypherab01/task-manager-api/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logFile, err := logging.Setup(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	log.Info("=== Task Manager API ===")

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Errorf("Failed to open database: %v", err)
		releaseResources(nil, logFile)
		os.Exit(1)
	}

	fatal := func(format string, args ...any) {
		log.Errorf(format, args...)
		releaseResources(db, logFile)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		fatal("Failed to migrate database: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		fatal("Failed to create application: %v", err)
	}

	var apiOpts []api.Option
	if cfg.Redis.Enabled() {
		limiter := ratelimit.NewModule(cfg.Redis, cfg.RateLimit, registry)
		app.Register(limiter)
		apiOpts = append(apiOpts, api.WithDeleteAccountLimiter(limiter.Name(), limiter.Middleware().IPRateLimit()))
	} else {
		log.Warn("REDIS_ADDR not set, account deletion is not rate limited")
	}

	// Order: service providers first, then consumers and the HTTP surface.
	app.Register(auth.NewModule(db, cfg.JWT))
	app.Register(task.NewModule(db))
	app.Register(activity.NewModule(registry))
	app.Register(api.NewModule(cfg.HTTP, registry, apiOpts...))

	if err := app.Start(context.Background()); err != nil {
		fatal("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Info("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Infof("Application exited with code: %d", exitCode)
	releaseResources(db, logFile)
	os.Exit(exitCode)
}

// releaseResources closes the database and then the log output. Errors are
// logged before the log file goes away.
func releaseResources(db *gorm.DB, logFile io.Closer) {
	if err := database.Close(db); err != nil {
		log.WithError(err).Error("Failed to close database")
	}
	if err := logFile.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
	}
}

func printStartupInfo(cfg *config.Config) {
	log.Info("Application started successfully!")
	log.Infof("REST API Endpoints (http://localhost%s):", cfg.HTTP.Addr())
	log.Info("  POST   /auth/register        - Register a new user")
	log.Info("  POST   /auth/login           - Login and get tokens")
	log.Info("  POST   /auth/refresh         - Refresh access token")
	log.Info("  GET    /tasks                - List your tasks (Bearer)")
	log.Info("  POST   /tasks                - Create a task (Bearer)")
	log.Info("  PATCH  /tasks/:id            - Update task status (Bearer)")
	log.Info("  DELETE /tasks/:id            - Delete a task (Bearer)")
	log.Info("  GET    /delete-account       - Account deletion page")
	log.Info("  POST   /delete-account       - Delete account with email and password")
	log.Info("  GET    /health               - Health check")
	log.Info("  GET    /metrics              - Prometheus metrics")
	log.Info("Press Ctrl+C to shutdown gracefully")
}
