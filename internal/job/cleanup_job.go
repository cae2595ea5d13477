package job

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"project-planner-api/internal/docstore"
	"project-planner-api/internal/metrics"
	"project-planner-api/internal/repository"
)

const cleanupJobName = "cleanup"

// DocumentStore is the part of the document store the jobs drive
type DocumentStore interface {
	Repository() repository.ProjectRepository
	Mutate(ctx context.Context, id string, fn docstore.MutateFunc) error
	FlushNow(ctx context.Context) error
}

// ChangeNotifier tells connected peers that state changed
type ChangeNotifier interface {
	NotifyChange(ctx context.Context)
}

// CleanupJob purges projects that have stayed soft-deleted longer than the retention period
type CleanupJob struct {
	store     DocumentStore
	notifier  ChangeNotifier
	retention time.Duration
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewCleanupJob creates a new CleanupJob instance. retentionDays of zero disables purging.
// notifier may be nil.
func NewCleanupJob(store DocumentStore, retentionDays int, notifier ChangeNotifier, m *metrics.Metrics, logger *zap.Logger) *CleanupJob {
	return &CleanupJob{
		store:     store,
		notifier:  notifier,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes the cleanup job
func (j *CleanupJob) Run() {
	_, err := j.RunContext(context.Background())
	j.metrics.RecordJobRun(cleanupJobName, err)
}

// RunContext purges expired projects and returns how many were removed.
// Each purge goes through the store so it is serialized with other writes to that project.
func (j *CleanupJob) RunContext(ctx context.Context) (int, error) {
	if j.retention <= 0 {
		j.logger.Debug("Cleanup job disabled, retention is zero")
		return 0, nil
	}

	cutoff := j.now().Add(-j.retention)
	j.logger.Info("Starting cleanup job for soft-deleted projects", zap.Time("cutoff", cutoff))

	expired, err := j.store.Repository().FindSoftDeletedBefore(ctx, cutoff)
	if err != nil {
		j.logger.Error("Failed to find soft-deleted projects", zap.Error(err))
		return 0, fmt.Errorf("failed to find soft-deleted projects: %w", err)
	}

	if len(expired) == 0 {
		j.logger.Info("No expired projects found")
		return 0, nil
	}

	purged := 0
	skipped := 0
	failed := 0
	for _, id := range expired {
		var removed bool
		// the row is re-checked under the project's lock; it may have been re-created since the scan
		err := j.store.Mutate(ctx, id, func(ctx context.Context, repo repository.ProjectRepository) error {
			var err error
			removed, err = repo.PurgeIfDeletedBefore(ctx, id, cutoff)
			return err
		})
		if err != nil {
			j.logger.Error("Failed to purge project",
				zap.String("project_id", id),
				zap.Error(err),
			)
			failed++
			continue
		}
		if !removed {
			j.logger.Info("Project no longer expired, skipped", zap.String("project_id", id))
			skipped++
			continue
		}
		purged++
	}

	if purged > 0 && j.notifier != nil {
		j.notifier.NotifyChange(ctx)
	}

	j.logger.Info("Cleanup job completed",
		zap.Int("total_expired", len(expired)),
		zap.Int("purged", purged),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)

	if failed > 0 {
		return purged, fmt.Errorf("failed to purge %d of %d projects", failed, len(expired))
	}
	return purged, nil
}
