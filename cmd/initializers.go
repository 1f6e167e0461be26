package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"

	"mlboard/app/handler"
	"mlboard/app/router"
	"mlboard/internal/jobs"
	"mlboard/internal/notify"
	"mlboard/internal/schedule"
	"mlboard/internal/telemetry"
	"mlboard/pkg/config"
	"mlboard/pkg/logger"
	"mlboard/pkg/notification"
	queue "mlboard/pkg/queue/asynq"
	mysqlstore "mlboard/pkg/store/mysql"
	redisstore "mlboard/pkg/store/redis"
)

// initConfig initializes configuration
func (app *Application) initConfig() error {
	if err := config.Init(); err != nil {
		return err
	}
	app.config = config.GlobalConfig
	return nil
}

// initLogger initializes logging
func (app *Application) initLogger() error {
	if err := logger.Init(); err != nil {
		return err
	}
	app.registerCleanup(func() {
		logger.Sync()
	})
	return nil
}

// initMySQL initializes MySQL
func (app *Application) initMySQL() error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		app.config.MySQL.User,
		app.config.MySQL.Password,
		app.config.MySQL.Host,
		app.config.MySQL.Port,
		app.config.MySQL.Database,
	)

	repo, err := mysqlstore.NewRepository(dsn)
	if err != nil {
		return err
	}

	app.mysqlRepo = repo
	app.registerCleanup(func() {
		repo.Close()
		logger.InfoCtx(app.ctx, "MySQL connection has been closed")
	})

	return nil
}

// initRedis initializes Redis. The unread-count cache is best-effort: a
// missing Redis leaves the dashboard on direct MySQL counts.
func (app *Application) initRedis() error {
	client, err := redisstore.NewRedisClient(app.config)
	if err != nil {
		logger.WarnCtx(app.ctx, "Redis unavailable, unread counts will be uncached: %v", err)
		return nil
	}

	app.redisClient = client
	app.unreadCache = redisstore.NewUnreadCache(client.GetClient())
	app.registerCleanup(func() {
		client.Close()
		logger.InfoCtx(app.ctx, "Redis connection has been closed")
	})

	return nil
}

// initQueue initializes the delayed-start queue
func (app *Application) initQueue() error {
	mgr, err := queue.NewManager(app.config)
	if err != nil {
		return err
	}

	app.queueMgr = mgr
	app.registerCleanup(func() {
		mgr.Close()
		logger.InfoCtx(app.ctx, "Queue client has been closed")
	})

	return nil
}

// initNotifications wires the alert engine and its dispatch queue
func (app *Application) initNotifications() error {
	var cache notify.UnreadCache
	if app.unreadCache != nil {
		cache = app.unreadCache
	}

	app.notifyEngine = notify.NewEngine(
		app.mysqlRepo.Notification,
		app.mysqlRepo.AlertCondition,
		app.mysqlRepo.Training,
		cache,
	)
	app.notifyEngine.SetFailureAlerter(notification.NewFeishuNotifier())
	app.dispatcher = notify.NewDispatcher(app.notifyEngine, app.config.Telemetry.NotifyQueueSize)
	return nil
}

// initTelemetry wires the hub, session store and orchestrator
func (app *Application) initTelemetry() error {
	app.hub = telemetry.NewHub()
	app.orchestrator = telemetry.NewOrchestrator(
		telemetry.NewSessionStore(),
		app.hub,
		app.dispatcher,
		clock.New(),
		app.config.Telemetry.EpochInterval(),
		app.config.Telemetry.DefaultEpochs,
		app.config.Telemetry.DefaultTotalBatches,
	)
	return nil
}

// initScheduler wires scheduled training starts to the orchestrator
func (app *Application) initScheduler() error {
	app.scheduler = schedule.NewScheduler(app.queueMgr, app.mysqlRepo.Training, app.orchestrator)
	return nil
}

// initJobs registers periodic background jobs
func (app *Application) initJobs() error {
	app.jobsManager = jobs.NewManager(app.ctx)
	app.jobsManager.Register(jobs.NewStatusReconciler(app.mysqlRepo.Training, app.orchestrator, time.Minute))
	return nil
}

// initHTTPServer initializes HTTP server
func (app *Application) initHTTPServer() error {
	app.ginEngine = router.Setup(&router.Handlers{
		Telemetry:    handler.NewTelemetryHandler(app.hub, app.orchestrator),
		Notification: handler.NewNotificationHandler(app.mysqlRepo.Notification, app.unreadCache),
		Alert:        handler.NewAlertHandler(app.mysqlRepo.AlertCondition),
		Training:     handler.NewTrainingHandler(app.mysqlRepo.Training, app.scheduler),
		Catalog:      handler.NewCatalogHandler(app.mysqlRepo.Catalog),
	})

	app.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: app.ginEngine,
	}

	return nil
}
