package docstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"project-planner-api/internal/domain"
	"project-planner-api/internal/migration"
	"project-planner-api/internal/repository"
)

func testOptions(t *testing.T) Options {
	dir := t.TempDir()
	return Options{
		SnapshotPath:  filepath.Join(dir, "planner.db"),
		LegacyPath:    filepath.Join(dir, "projects.json"),
		FlushDebounce: 20 * time.Millisecond,
	}
}

func openStore(t *testing.T, opts Options) *Store {
	t.Helper()
	s, err := Open(context.Background(), opts, zap.NewNop(), nil)
	require.NoError(t, err)
	return s
}

func createProject(t *testing.T, s *Store, id, name string) {
	t.Helper()
	now := time.Now().UTC()
	err := s.Mutate(context.Background(), id, func(ctx context.Context, repo repository.ProjectRepository) error {
		return repo.Upsert(ctx, &domain.Project{
			ID:        id,
			Name:      name,
			Status:    domain.ProjectStatusPlanning,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	require.NoError(t, err)
}

func TestStore_CloseFlushesAndReopenRestores(t *testing.T) {
	opts := testOptions(t)
	opts.FlushDebounce = time.Hour

	s := openStore(t, opts)
	createProject(t, s, "p1", "Alpha")
	_, err := s.Update(context.Background(), "p1", func(p *domain.Project) error {
		p.Description = "persisted"
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, s.Close(context.Background()))

	reopened := openStore(t, opts)
	defer reopened.Close(context.Background())

	got, err := reopened.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Name)
	assert.Equal(t, "persisted", got.Description)
}

func TestStore_DebouncedFlushWritesSnapshot(t *testing.T) {
	opts := testOptions(t)
	s := openStore(t, opts)
	defer s.Close(context.Background())

	createProject(t, s, "p1", "Alpha")

	require.Eventually(t, func() bool {
		_, err := os.Stat(opts.SnapshotPath)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStore_ConcurrentUpdatesAreNotLost(t *testing.T) {
	s := openStore(t, testOptions(t))
	defer s.Close(context.Background())
	createProject(t, s, "counter", "Counter")

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(context.Background(), "counter", func(p *domain.Project) error {
				p.SeedVersion++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Get(context.Background(), "counter")
	require.NoError(t, err)
	assert.Equal(t, n, got.SeedVersion)
	assert.Zero(t, s.PendingMutations())
}

func TestStore_MutationSurvivesCallerCancellation(t *testing.T) {
	s := openStore(t, testOptions(t))
	defer s.Close(context.Background())
	createProject(t, s, "p1", "Alpha")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Update(ctx, "p1", func(p *domain.Project) error {
		p.Description = "committed anyway"
		return nil
	})
	require.NoError(t, err)

	got, err := s.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "committed anyway", got.Description)
}

func TestStore_FailedMutationDoesNotWedgeOrPersist(t *testing.T) {
	s := openStore(t, testOptions(t))
	defer s.Close(context.Background())
	createProject(t, s, "p1", "Alpha")

	boom := errors.New("rejected")
	_, err := s.Update(context.Background(), "p1", func(p *domain.Project) error {
		p.Name = "half applied"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Update(context.Background(), "p1", func(p *domain.Project) error {
		p.Description = "next"
		return nil
	})
	require.NoError(t, err)

	got, err := s.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Name)
	assert.Equal(t, "next", got.Description)
}

func TestStore_ReplaceAllExcludesMutations(t *testing.T) {
	s := openStore(t, testOptions(t))
	defer s.Close(context.Background())
	createProject(t, s, "p1", "Alpha")

	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = s.Mutate(context.Background(), "p1", func(ctx context.Context, repo repository.ProjectRepository) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	replaced := make(chan error, 1)
	go func() {
		now := time.Now().UTC()
		replaced <- s.ReplaceAll(context.Background(), []*domain.Project{{
			ID: "p2", Name: "Beta", Status: domain.ProjectStatusPlanning, CreatedAt: now, UpdatedAt: now,
		}})
	}()

	select {
	case <-replaced:
		t.Fatal("ReplaceAll must wait for the in-flight mutation")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-replaced)

	summaries, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "p2", summaries[0].ID)
}

func TestStore_CorruptSnapshotAbortsOpen(t *testing.T) {
	opts := testOptions(t)
	require.NoError(t, os.WriteFile(opts.SnapshotPath, []byte("definitely not an engine image"), 0o600))

	_, err := Open(context.Background(), opts, zap.NewNop(), nil)
	require.Error(t, err)

	data, readErr := os.ReadFile(opts.SnapshotPath)
	require.NoError(t, readErr)
	assert.Equal(t, "definitely not an engine image", string(data), "the damaged snapshot is not overwritten")
}

func TestStore_ImportsLegacyFileOnFirstOpen(t *testing.T) {
	opts := testOptions(t)
	require.NoError(t, os.WriteFile(opts.LegacyPath, []byte(`[{"id":"legacy","name":"Legacy App"}]`), 0o600))

	s := openStore(t, opts)
	got, err := s.Get(context.Background(), "legacy")
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusPlanning, got.Status)

	// the import is on disk before the source is renamed away
	_, err = os.Stat(opts.SnapshotPath)
	require.NoError(t, err)
	_, err = os.Stat(opts.LegacyPath + migration.BackupSuffix)
	assert.NoError(t, err)
	require.NoError(t, s.Close(context.Background()))

	// a second open loads from the snapshot and does not import again
	reopened := openStore(t, opts)
	defer reopened.Close(context.Background())
	summaries, err := reopened.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}

func TestStore_ClosedStoreRejectsMutations(t *testing.T) {
	s := openStore(t, testOptions(t))
	require.NoError(t, s.Close(context.Background()))
	require.NoError(t, s.Close(context.Background()), "close is idempotent")

	err := s.Mutate(context.Background(), "p1", func(ctx context.Context, repo repository.ProjectRepository) error {
		return nil
	})
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.ReplaceAll(context.Background(), nil), ErrClosed)
}

func TestStore_CloseReturnsFinalFlushError(t *testing.T) {
	opts := testOptions(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	// the snapshot directory cannot be created beneath a regular file
	opts.SnapshotPath = filepath.Join(blocker, "sub", "planner.db")

	s := openStore(t, opts)
	createProject(t, s, "p1", "Alpha")

	err := s.Close(context.Background())
	var perr *domain.PersistenceError
	assert.True(t, errors.As(err, &perr))
}

func TestStore_MultipleStoresCoexist(t *testing.T) {
	a := openStore(t, testOptions(t))
	defer a.Close(context.Background())
	b := openStore(t, testOptions(t))
	defer b.Close(context.Background())

	createProject(t, a, "only-in-a", "A")

	_, err := b.Get(context.Background(), "only-in-a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
