package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	exportapp "github.com/commerce-ml/data-exporter/internal/application/export"
	"github.com/commerce-ml/data-exporter/internal/infrastructure/commercetools"
	"github.com/commerce-ml/data-exporter/internal/infrastructure/config"
	"github.com/commerce-ml/data-exporter/internal/infrastructure/logger"
	"github.com/commerce-ml/data-exporter/internal/infrastructure/scheduler"
	"github.com/commerce-ml/data-exporter/internal/infrastructure/storage"
	"github.com/commerce-ml/data-exporter/internal/interfaces/http/handler"
	"github.com/commerce-ml/data-exporter/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting data exporter",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Commerce platform client (orders, products, run log custom objects)
	platform, err := commercetools.NewClient(&commercetools.Config{
		ProjectKey:   cfg.Commercetools.ProjectKey,
		ClientID:     cfg.Commercetools.ClientID,
		ClientSecret: cfg.Commercetools.ClientSecret,
		AuthURL:      cfg.Commercetools.AuthURL,
		APIURL:       cfg.Commercetools.APIURL,
		Scopes:       cfg.Commercetools.Scopes,
		Timeout:      cfg.Commercetools.Timeout,
		PageLimit:    cfg.Commercetools.PageLimit,
	})
	if err != nil {
		log.Fatal("Failed to create commercetools client", zap.Error(err))
	}

	// S3 training data store
	store, err := storage.NewS3TrainingDataStore(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to create training data store", zap.Error(err))
	}
	log.Info("Training data store ready", zap.String("bucket", store.GetBucket()))

	// Export job service
	runLogger := exportapp.NewRunLogger(platform, log)
	jobService := exportapp.NewJobService(platform, platform, store, runLogger, log)

	// Optional daily cron trigger
	if cfg.Scheduler.Enabled {
		cron, err := scheduler.NewExportCronScheduler(scheduler.ExportCronConfig{
			Enabled:           cfg.Scheduler.Enabled,
			DailyCronSchedule: cfg.Scheduler.DailyCronSchedule,
			JobTimeout:        cfg.Scheduler.JobTimeout,
		}, jobService, log)
		if err != nil {
			log.Fatal("Failed to create export scheduler", zap.Error(err))
		}
		if err := cron.Start(context.Background()); err != nil {
			log.Fatal("Failed to start export scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := cron.Stop(stopCtx); err != nil {
				log.Warn("Export scheduler did not stop cleanly", zap.Error(err))
			}
		}()
	}

	// HTTP interface
	engine := router.New(cfg, log, router.Handlers{
		System: handler.NewSystemHandler(cfg.App.Name, cfg.App.Env),
		Job:    handler.NewJobHandler(jobService, log),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
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
