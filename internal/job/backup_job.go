package job

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"project-planner-api/internal/client"
	"project-planner-api/internal/metrics"
)

const backupJobName = "backup"

// BackupJob flushes the snapshot and copies it to object storage
type BackupJob struct {
	store        DocumentStore
	uploader     client.SnapshotUploader
	snapshotPath string
	metrics      *metrics.Metrics
	logger       *zap.Logger
	now          func() time.Time
}

// NewBackupJob creates a new BackupJob instance
func NewBackupJob(store DocumentStore, uploader client.SnapshotUploader, snapshotPath string, m *metrics.Metrics, logger *zap.Logger) *BackupJob {
	return &BackupJob{
		store:        store,
		uploader:     uploader,
		snapshotPath: snapshotPath,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

// Run executes the backup job
func (j *BackupJob) Run() {
	_, err := j.RunContext(context.Background())
	j.metrics.RecordJobRun(backupJobName, err)
}

// RunContext uploads a fresh snapshot and returns the object key
func (j *BackupJob) RunContext(ctx context.Context) (string, error) {
	if err := j.store.FlushNow(ctx); err != nil {
		j.logger.Error("Failed to flush snapshot before backup", zap.Error(err))
		return "", fmt.Errorf("failed to flush snapshot: %w", err)
	}

	// the flush replaces the file by rename, so this handle stays on a complete snapshot
	f, err := os.Open(j.snapshotPath)
	if err != nil {
		j.logger.Error("Failed to open snapshot", zap.String("path", j.snapshotPath), zap.Error(err))
		return "", fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	key := j.uploader.SnapshotKey(j.now())
	start := time.Now()
	url, err := j.uploader.UploadSnapshot(ctx, key, f)
	j.metrics.RecordExternalCall("s3", "put_object", time.Since(start), err)
	if err != nil {
		j.logger.Error("Failed to upload snapshot backup",
			zap.String("key", key),
			zap.Error(err),
		)
		return "", err
	}

	j.logger.Info("Snapshot backup uploaded",
		zap.String("key", key),
		zap.String("url", url),
	)
	return key, nil
}
