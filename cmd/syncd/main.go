package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erp/amazon-sync/internal/application/ordersync"
	"github.com/erp/amazon-sync/internal/infrastructure/amazon"
	"github.com/erp/amazon-sync/internal/infrastructure/cache"
	"github.com/erp/amazon-sync/internal/infrastructure/config"
	"github.com/erp/amazon-sync/internal/infrastructure/logger"
	"github.com/erp/amazon-sync/internal/infrastructure/persistence"
	"github.com/erp/amazon-sync/internal/infrastructure/scheduler"
	"github.com/erp/amazon-sync/internal/interfaces/http/handler"
	"github.com/erp/amazon-sync/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Amazon order sync",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	repos := ordersync.Repositories{
		Settings:     persistence.NewGormSettingsRepository(db.DB),
		SalesOrders:  persistence.NewGormSalesOrderRepository(db.DB),
		Addresses:    persistence.NewGormAddressRepository(db.DB),
		ItemMappings: persistence.NewGormItemMappingRepository(db.DB),
		TaxTemplates: persistence.NewGormTaxTemplateRepository(db.DB),
		Defaults:     persistence.NewGormDefaultsRepository(db.DB),
		MissingItems: persistence.NewGormMissingItemRepository(db.DB),
	}

	// Vendor API client
	apiClient := amazon.NewClient(amazon.Config{
		TokenURL:       cfg.Amazon.TokenURL,
		TimeoutSeconds: cfg.Amazon.TimeoutSeconds,
	}, log)

	// Application service
	syncService := ordersync.NewService(repos, apiClient, log)

	// Tick lock keeps scheduled and manual passes from overlapping, across
	// instances when Redis is reachable
	lockFactory := cache.NewTickLockFactory(cfg.Redis, cache.WithLogger(log))
	tickLock, err := lockFactory.CreateLock()
	if err != nil {
		log.Fatal("Failed to create tick lock", zap.Error(err))
	}
	defer func() {
		if err := tickLock.Close(); err != nil {
			log.Error("Error closing tick lock", zap.Error(err))
		}
	}()

	// Scheduled trigger
	trigger, err := scheduler.NewSyncTrigger(scheduler.SyncTriggerConfig{
		Enabled:  cfg.Sync.Enabled,
		Interval: cfg.Sync.Interval,
		LockTTL:  cfg.Sync.LockTTL,
		RunLog:   cfg.Sync.RunLog,
	}, syncService, tickLock, log)
	if err != nil {
		log.Fatal("Failed to create sync trigger", zap.Error(err))
	}

	if err := trigger.Start(context.Background()); err != nil {
		log.Fatal("Failed to start sync trigger", zap.Error(err))
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer stopCancel()
		if err := trigger.Stop(stopCtx); err != nil {
			log.Error("Error stopping sync trigger", zap.Error(err))
		}
	}()

	// Setup Gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(logger.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	// Register routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewSyncHandler(trigger, log))
	r.Setup()

	healthHandler := handler.NewHealthHandler(db)
	engine.GET("/healthz", healthHandler.Check)

	// Create HTTP server with config
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
