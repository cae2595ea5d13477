package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runMigrate opens the store, which imports the legacy file into an empty store, then flushes and exits
func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Storage.LegacyPath() == "" {
		logger.Warn("No legacy file configured, nothing to migrate")
		return nil
	}

	store, err := openStore(cmd.Context(), cfg, logger, nil)
	if err != nil {
		return err
	}

	count, err := store.Repository().CountLive(cmd.Context())
	if err != nil {
		logger.Error("Failed to count projects", zap.Error(err))
	}
	logger.Info("Migration finished",
		zap.String("legacy", cfg.Storage.LegacyPath()),
		zap.Int64("projects", count),
	)

	return store.Close(context.Background())
}

// runFlush rewrites the snapshot from its own contents
func runFlush(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg.Storage.LegacyFile = ""
	store, err := openStore(cmd.Context(), cfg, logger, nil)
	if err != nil {
		return err
	}
	if err := store.Close(context.Background()); err != nil {
		return err
	}
	logger.Info("Snapshot rewritten", zap.String("path", cfg.Storage.SnapshotPath()))
	return nil
}
