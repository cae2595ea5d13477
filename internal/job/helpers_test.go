package job

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"project-planner-api/internal/docstore"
	"project-planner-api/internal/domain"
	"project-planner-api/internal/metrics"
	"project-planner-api/internal/repository"
)

func openStore(t *testing.T) (*docstore.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planner.db")
	s, err := docstore.Open(context.Background(), docstore.Options{
		SnapshotPath:  path,
		FlushDebounce: time.Hour,
	}, zap.NewNop(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s, path
}

func seedProject(t *testing.T, s *docstore.Store, id string, softDelete bool) {
	t.Helper()
	now := time.Now().UTC()
	err := s.Mutate(context.Background(), id, func(ctx context.Context, repo repository.ProjectRepository) error {
		if err := repo.Upsert(ctx, &domain.Project{
			ID:        id,
			Name:      "Project " + id,
			Status:    domain.ProjectStatusPlanning,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return err
		}
		if softDelete {
			return repo.SoftDelete(ctx, id)
		}
		return nil
	})
	require.NoError(t, err)
}

func newTestMetrics() *metrics.Metrics {
	return metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
}
