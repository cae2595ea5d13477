package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"project-planner-api/internal/client"
	"project-planner-api/internal/config"
	"project-planner-api/internal/database"
	"project-planner-api/internal/docstore"
	"project-planner-api/internal/job"
	"project-planner-api/internal/metrics"
	"project-planner-api/internal/notifier"
	"project-planner-api/internal/router"
	"project-planner-api/internal/service"
)

const dbStatsInterval = 15 * time.Second

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Project Planner",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("snapshot", cfg.Storage.SnapshotPath()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.NewWithLogger(logger)
	logger.Info("Metrics initialized")

	store, err := openStore(ctx, cfg, logger, m)
	if err != nil {
		return err
	}

	statsStop := database.StartDBStatsCollector(store.DB(), m, dbStatsInterval)
	collector := metrics.NewBusinessMetricsCollector(store.DB(), m, logger)
	collector.Start()

	hub := notifier.NewHub(logger, m, cfg.Server.AllowedOrigins)
	var changeNotifier service.ChangeNotifier = hub

	// Redis is optional; without it sync events stay inside this process
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = database.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Warn("Failed to connect to redis, sync events will not leave this process", zap.Error(err))
		} else {
			relay := notifier.NewRedisRelay(redisClient, cfg.Redis.Channel, hub, logger, m)
			if err := relay.Subscribe(ctx); err != nil {
				logger.Warn("Failed to subscribe to sync channel, sync events will not leave this process", zap.Error(err))
			} else {
				changeNotifier = relay
				logger.Info("Redis sync relay enabled", zap.String("channel", cfg.Redis.Channel))
			}
		}
	}

	scheduler := job.NewScheduler(logger)
	if err := scheduleJobs(ctx, scheduler, cfg, store, changeNotifier, m, logger); err != nil {
		logger.Warn("Scheduled jobs not fully configured", zap.Error(err))
	}
	scheduler.Start()

	r := router.Setup(router.Config{
		Store:          store,
		Hub:            hub,
		Redis:          redisClient,
		Logger:         logger,
		Notifier:       changeNotifier,
		Metrics:        m,
		BasePath:       cfg.Server.BasePath,
		JWTSecret:      cfg.JWT.Secret,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Project Planner started successfully",
			zap.String("address", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Server.Port)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	case err := <-serveErr:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	<-scheduler.Stop().Done()
	hub.Close()
	collector.Stop()
	close(statsStop)

	// the final flush must succeed for the last writes to survive
	closeErr := store.Close(shutdownCtx)
	if closeErr != nil {
		logger.Error("Failed to close document store", zap.Error(closeErr))
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}

	logger.Info("Server exited gracefully")
	return closeErr
}

// scheduleJobs registers the cleanup job and, when S3 is configured, the snapshot backup job
func scheduleJobs(
	ctx context.Context,
	c *cron.Cron,
	cfg *config.Config,
	store *docstore.Store,
	notify service.ChangeNotifier,
	m *metrics.Metrics,
	logger *zap.Logger,
) error {
	cleanup := job.NewCleanupJob(store, cfg.Jobs.RetentionDays, notify, m, logger)
	if err := job.Schedule(c, "cleanup", cfg.Jobs.CleanupSchedule, cleanup, logger); err != nil {
		return err
	}

	if !cfg.S3.Enabled() {
		logger.Info("S3 configuration incomplete, snapshot backups disabled")
		return nil
	}

	s3Client, err := client.NewS3Client(ctx, &cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	logger.Info("S3 client initialized",
		zap.String("bucket", cfg.S3.Bucket),
		zap.String("region", cfg.S3.Region),
	)

	backup := job.NewBackupJob(store, s3Client, cfg.Storage.SnapshotPath(), m, logger)
	return job.Schedule(c, "backup", cfg.Jobs.BackupSchedule, backup, logger)
}
