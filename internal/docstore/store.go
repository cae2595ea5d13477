// Package docstore owns the project document engine: one private in-memory
// engine per Store, per-project write serialization, debounced snapshot
// persistence and the one-time legacy import.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-planner-api/internal/database"
	"project-planner-api/internal/domain"
	"project-planner-api/internal/migration"
	"project-planner-api/internal/persistence"
	"project-planner-api/internal/repository"
	"project-planner-api/internal/serializer"
)

// ErrClosed is returned by mutations attempted after Close
var ErrClosed = errors.New("document store is closed")

// Options configures a Store
type Options struct {
	SnapshotPath  string
	LegacyPath    string
	FlushDebounce time.Duration
}

// Recorder receives engine query timings and flush outcomes
type Recorder interface {
	database.MetricsRecorder
	persistence.MetricsRecorder
}

// MutateFunc performs one read-modify-write against the repository
type MutateFunc func(ctx context.Context, repo repository.ProjectRepository) error

// Store is the document store handle. Reads go straight to the repository;
// every write for a project id is serialized and followed by a debounced flush.
type Store struct {
	db        *gorm.DB
	repo      repository.ProjectRepository
	locks     *serializer.Serializer
	scheduler *persistence.Scheduler
	logger    *zap.Logger
	opts      Options

	// gate is held shared by per-project mutations and exclusively by ReplaceAll and Close
	gate   sync.RWMutex
	closed bool
}

// Open builds a Store: engine, schema, snapshot load, legacy import, scheduler.
// A snapshot that exists but cannot be read aborts Open. rec may be nil.
func Open(ctx context.Context, opts Options, logger *zap.Logger, rec Recorder) (*Store, error) {
	if opts.SnapshotPath == "" {
		return nil, errors.New("snapshot path is required")
	}
	if opts.FlushDebounce <= 0 {
		return nil, fmt.Errorf("flush debounce must be positive, got %s", opts.FlushDebounce)
	}

	db, err := database.NewMemory()
	if err != nil {
		return nil, err
	}

	if rec != nil {
		if err := database.RegisterMetricsCallbacks(db, rec); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("failed to register metrics callbacks: %w", err)
		}
	}

	if err := database.AutoMigrate(db, logger); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	loaded, err := database.LoadSnapshot(ctx, db, opts.SnapshotPath)
	if err != nil {
		_ = database.Close(db)
		logger.Error("Snapshot could not be loaded, refusing to start empty",
			zap.String("path", opts.SnapshotPath),
			zap.Error(err),
		)
		return nil, err
	}

	s := &Store{
		db:     db,
		repo:   repository.NewProjectRepository(db),
		locks:  serializer.New(),
		logger: logger,
		opts:   opts,
	}
	s.scheduler = persistence.NewScheduler(opts.FlushDebounce, s.export, logger, rec)

	logger.Info("Document store opened",
		zap.String("snapshot", opts.SnapshotPath),
		zap.Int("projects_loaded", loaded),
		zap.Duration("flush_debounce", opts.FlushDebounce),
	)

	if err := s.migrateLegacy(ctx); err != nil {
		// the store keeps running empty; the legacy file is left for inspection
		logger.Error("Legacy migration failed", zap.Error(err))
	}

	return s, nil
}

func (s *Store) migrateLegacy(ctx context.Context) error {
	result, err := migration.NewLegacyMigrator(s.repo, s.logger).
		WithFlush(s.scheduler.FlushNow).
		Run(ctx, s.opts.LegacyPath)
	if err != nil {
		return err
	}
	if result.Imported == 0 {
		s.logger.Debug("Legacy migration skipped", zap.String("reason", result.Skipped))
	}
	return nil
}

func (s *Store) export(ctx context.Context) error {
	return database.ExportSnapshot(ctx, s.db, s.opts.SnapshotPath)
}

// Repository exposes the repository for reads
func (s *Store) Repository() repository.ProjectRepository {
	return s.repo
}

// DB returns the engine handle for health checks and stats collection
func (s *Store) DB() *gorm.DB {
	return s.db
}

// List returns live project summaries
func (s *Store) List(ctx context.Context) ([]domain.ProjectSummary, error) {
	return s.repo.List(ctx)
}

// Get loads a live project document
func (s *Store) Get(ctx context.Context, id string) (*domain.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	s.logCorruption(err)
	return project, err
}

// Mutate runs fn with exclusive access to project id. Once enqueued the mutation runs to
// completion even if ctx is cancelled. A successful fn schedules a flush.
func (s *Store) Mutate(ctx context.Context, id string, fn MutateFunc) error {
	ctx = context.WithoutCancel(ctx)

	return s.locks.WithLock(id, func() error {
		s.gate.RLock()
		defer s.gate.RUnlock()

		if s.closed {
			return ErrClosed
		}
		if err := fn(ctx, s.repo); err != nil {
			s.logCorruption(err)
			return err
		}
		s.scheduler.Notify()
		return nil
	})
}

// Update is Mutate specialised to load, apply, stamp and write back one live project
func (s *Store) Update(ctx context.Context, id string, apply func(*domain.Project) error) (*domain.Project, error) {
	var updated *domain.Project
	err := s.Mutate(ctx, id, func(ctx context.Context, repo repository.ProjectRepository) error {
		project, err := repo.Update(ctx, id, apply)
		if err != nil {
			return err
		}
		updated = project
		return nil
	})
	return updated, err
}

// ReplaceAll swaps the whole collection. It excludes every per-project mutation while it runs.
func (s *Store) ReplaceAll(ctx context.Context, projects []*domain.Project) error {
	ctx = context.WithoutCancel(ctx)

	s.gate.Lock()
	defer s.gate.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := s.repo.ReplaceAll(ctx, projects); err != nil {
		return err
	}
	s.scheduler.Notify()
	return nil
}

// FlushNow writes the snapshot immediately, cancelling any pending debounce
func (s *Store) FlushNow(ctx context.Context) error {
	return s.scheduler.FlushNow(ctx)
}

// PendingMutations reports how many project ids currently have queued writers
func (s *Store) PendingMutations() int {
	return s.locks.Pending()
}

// Close waits for in-flight mutations, performs the final flush and releases the engine.
// A failed final flush is returned; the engine is closed regardless.
func (s *Store) Close(ctx context.Context) error {
	s.gate.Lock()
	defer s.gate.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	s.scheduler.Stop()
	flushErr := s.scheduler.FlushNow(ctx)
	if flushErr != nil {
		s.logger.Error("Final flush failed", zap.Error(flushErr))
	}

	if err := database.Close(s.db); err != nil {
		s.logger.Error("Failed to close engine", zap.Error(err))
		if flushErr == nil {
			return err
		}
	}

	s.logger.Info("Document store closed", zap.String("snapshot", s.opts.SnapshotPath))
	return flushErr
}

func (s *Store) logCorruption(err error) {
	var corrupt *domain.CorruptDocumentError
	if errors.As(err, &corrupt) {
		s.logger.Error("Corrupt project document",
			zap.String("project_id", corrupt.ID),
			zap.Error(corrupt.Err),
		)
	}
}
