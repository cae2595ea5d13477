package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"project-planner-api/internal/config"
	"project-planner-api/internal/docstore"
	"project-planner-api/internal/metrics"
)

// bootstrap loads configuration and builds the logger shared by every command
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}

// openStore opens the document store described by cfg. m may be nil.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*docstore.Store, error) {
	opts := docstore.Options{
		SnapshotPath:  cfg.Storage.SnapshotPath(),
		LegacyPath:    cfg.Storage.LegacyPath(),
		FlushDebounce: cfg.Storage.FlushDebounce,
	}

	var rec docstore.Recorder
	if m != nil {
		rec = m
	}

	store, err := docstore.Open(ctx, opts, logger, rec)
	if err != nil {
		logger.Error("Failed to open document store", zap.Error(err))
		return nil, fmt.Errorf("failed to open document store: %w", err)
	}
	return store, nil
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
