package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"mlboard/internal/jobs"
	"mlboard/internal/notify"
	"mlboard/internal/schedule"
	"mlboard/internal/telemetry"
	"mlboard/pkg/config"
	"mlboard/pkg/logger"
	queue "mlboard/pkg/queue/asynq"
	mysqlstore "mlboard/pkg/store/mysql"
	redisstore "mlboard/pkg/store/redis"
)

// Application manages the lifecycle of the entire application
type Application struct {
	// Infrastructure components
	config      *config.Config
	mysqlRepo   *mysqlstore.Repository
	redisClient *redisstore.RedisClient
	unreadCache *redisstore.UnreadCache
	queueMgr    *queue.Manager

	// Telemetry engine
	hub          *telemetry.Hub
	orchestrator *telemetry.Orchestrator

	// Notification pipeline
	notifyEngine *notify.Engine
	dispatcher   *notify.Dispatcher

	// Scheduled starts
	scheduler *schedule.Scheduler

	// Background jobs
	jobsManager *jobs.Manager

	// HTTP server
	httpServer *http.Server
	ginEngine  *gin.Engine

	// Context management
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Background task cleanup functions
	cleanupFuncs []func()
}

// NewApplication creates a new Application instance
func NewApplication() *Application {
	ctx, cancel := context.WithCancel(context.Background())
	return &Application{
		ctx:          ctx,
		cancel:       cancel,
		cleanupFuncs: make([]func(), 0),
	}
}

// Initialize initializes all application components
func (app *Application) Initialize() error {
	var err error

	// Initialize components in order
	steps := []struct {
		name string
		fn   func() error
	}{
		{"Configuration", app.initConfig},
		{"Logging", app.initLogger},
		{"MySQL", app.initMySQL},
		{"Redis", app.initRedis},
		{"Queue", app.initQueue},
		{"Notification Pipeline", app.initNotifications},
		{"Telemetry Engine", app.initTelemetry},
		{"Scheduler", app.initScheduler},
		{"Background Jobs", app.initJobs},
		{"HTTP Server", app.initHTTPServer},
	}

	for _, step := range steps {
		logger.InfoCtx(app.ctx, "Initializing %s...", step.name)
		if err = step.fn(); err != nil {
			return fmt.Errorf("failed to initialize %s: %w", step.name, err)
		}
		logger.InfoCtx(app.ctx, "%s initialized successfully", step.name)
	}

	logger.InfoCtx(app.ctx, "Application initialization completed")
	return nil
}

// Start starts all application components
func (app *Application) Start() error {
	logger.InfoCtx(app.ctx, "Starting application components...")

	// 1. Start queue processor and re-arm scheduled trainings
	if app.queueMgr != nil {
		if err := app.queueMgr.Start(); err != nil {
			return fmt.Errorf("failed to start queue server: %w", err)
		}
		if err := app.scheduler.RearmScheduled(app.ctx); err != nil {
			logger.ErrorCtx(app.ctx, "Failed to re-arm scheduled trainings: %v", err)
		}
	}

	// 2. Start background jobs
	if app.jobsManager != nil {
		app.jobsManager.Start()
	}

	// 3. Start HTTP server
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		addr := fmt.Sprintf(":%d", app.config.Server.Port)
		logger.InfoCtx(app.ctx, "HTTP server listening on: %s", addr)
		if err := app.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalCtx(app.ctx, "HTTP server error: %v", err)
		}
	}()

	logger.InfoCtx(app.ctx, "All components started successfully")
	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown(timeout time.Duration) error {
	logger.InfoCtx(app.ctx, "Starting graceful shutdown (timeout: %v)...", timeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// 1. Stop accepting new work
	app.cancel()
	if app.queueMgr != nil {
		app.queueMgr.Stop()
	}
	if app.jobsManager != nil {
		app.jobsManager.Stop()
	}

	// 2. Stop HTTP server (stop accepting new requests)
	logger.InfoCtx(app.ctx, "Shutting down HTTP server...")
	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(app.ctx, "HTTP server shutdown error: %v", err)
	}

	// 3. Stop the epoch loops and drain pending notifications
	if app.orchestrator != nil {
		app.orchestrator.Shutdown()
	}
	if app.dispatcher != nil {
		app.dispatcher.Close()
	}
	if app.jobsManager != nil {
		app.jobsManager.Wait()
	}

	// 4. Wait for background goroutines
	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.InfoCtx(app.ctx, "All background tasks completed")
	case <-shutdownCtx.Done():
		logger.WarnCtx(app.ctx, "Shutdown timeout, some tasks may not have completed")
	}

	// 5. Execute all cleanup functions (in reverse registration order)
	logger.InfoCtx(app.ctx, "Executing cleanup functions...")
	for i := len(app.cleanupFuncs) - 1; i >= 0; i-- {
		app.cleanupFuncs[i]()
	}

	// 6. Sync logs
	logger.Sync()

	logger.InfoCtx(app.ctx, "Graceful shutdown completed")
	return nil
}

// registerCleanup registers cleanup function
func (app *Application) registerCleanup(cleanup func()) {
	app.cleanupFuncs = append(app.cleanupFuncs, cleanup)
}
