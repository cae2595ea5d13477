package migration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"project-planner-api/internal/domain"
	"project-planner-api/internal/repository"
)

// BackupSuffix is appended to the legacy file once its contents are imported
const BackupSuffix = ".backup"

var keySequence = regexp.MustCompile(`-(\d+)$`)

// Result describes one migration attempt
type Result struct {
	Imported int
	Skipped  string
	// Renamed is false when the legacy file was left in place after an import
	Renamed bool
}

// LegacyMigrator imports the flat-file project collection into an empty store
type LegacyMigrator struct {
	repo   repository.ProjectRepository
	logger *zap.Logger
	now    func() time.Time
	flush  func(ctx context.Context) error
}

// NewLegacyMigrator creates a new LegacyMigrator
func NewLegacyMigrator(repo repository.ProjectRepository, logger *zap.Logger) *LegacyMigrator {
	return &LegacyMigrator{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithFlush makes Run persist the imported rows before the legacy file is renamed
func (m *LegacyMigrator) WithFlush(flush func(ctx context.Context) error) *LegacyMigrator {
	m.flush = flush
	return m
}

// Run imports path when the store is empty and the file exists.
// On success the file is renamed with BackupSuffix, after the flush hook (if any) succeeded.
// When the flush fails the rows stay in memory and the file keeps its name. On failure the file is left in place,
// nothing is written and a *domain.MigrationError is returned.
func (m *LegacyMigrator) Run(ctx context.Context, path string) (Result, error) {
	if path == "" {
		return Result{Skipped: "no legacy file configured"}, nil
	}

	count, err := m.repo.Count(ctx)
	if err != nil {
		return Result{}, &domain.MigrationError{Path: path, Err: err}
	}
	if count > 0 {
		return Result{Skipped: "store is not empty"}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{Skipped: "legacy file not found"}, nil
		}
		return Result{}, &domain.MigrationError{Path: path, Err: err}
	}

	projects, err := m.decode(data)
	if err != nil {
		return Result{}, &domain.MigrationError{Path: path, Err: err}
	}

	if err := m.repo.UpsertAll(ctx, projects); err != nil {
		return Result{}, &domain.MigrationError{Path: path, Err: err}
	}

	result := Result{Imported: len(projects)}
	if m.flush != nil {
		if err := m.flush(ctx); err != nil {
			// nothing durable yet; a restart finds an empty snapshot and imports again
			m.logger.Error("Legacy data imported but not flushed, file left in place",
				zap.String("path", path),
				zap.Error(err),
			)
			return result, nil
		}
	}

	if err := os.Rename(path, path+BackupSuffix); err != nil {
		// the store is no longer empty, so the next start will not import again
		m.logger.Warn("Legacy data imported but file could not be renamed",
			zap.String("path", path),
			zap.Error(err),
		)
	} else {
		result.Renamed = true
	}

	m.logger.Info("Legacy projects imported",
		zap.String("path", path),
		zap.Int("count", len(projects)),
	)
	return result, nil
}

type legacyProject struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      string        `json:"status"`
	CreatedAt   *time.Time    `json:"createdAt"`
	UpdatedAt   *time.Time    `json:"updatedAt"`
	DeletedAt   *time.Time    `json:"deletedAt"`
	IsSeed      bool          `json:"isSeed"`
	SeedVersion int           `json:"seedVersion"`
	Board       *legacyBoard  `json:"board"`
	Pages       []domain.Page `json:"pages"`
}

type legacyBoard struct {
	Issues          []domain.Issue  `json:"issues"`
	Sprints         []domain.Sprint `json:"sprints"`
	NextIssueNumber *int            `json:"nextIssueNumber"`
}

func (m *LegacyMigrator) decode(data []byte) ([]*domain.Project, error) {
	var records []legacyProject
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("legacy file is not a JSON array of projects: %w", err)
	}

	now := m.now()
	projects := make([]*domain.Project, 0, len(records))
	for i := range records {
		p, err := convert(&records[i], now)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func convert(rec *legacyProject, now time.Time) (*domain.Project, error) {
	p := &domain.Project{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		Status:      domain.ProjectStatusPlanning,
		CreatedAt:   now,
		UpdatedAt:   now,
		DeletedAt:   rec.DeletedAt,
		IsSeed:      rec.IsSeed,
		SeedVersion: rec.SeedVersion,
		Pages:       rec.Pages,
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Name == "" {
		p.Name = "Untitled project"
	}
	if rec.Status != "" {
		status, err := domain.ParseProjectStatus(rec.Status)
		if err != nil {
			return nil, err
		}
		p.Status = status
	}
	if rec.CreatedAt != nil {
		p.CreatedAt = rec.CreatedAt.UTC()
	}
	if rec.UpdatedAt != nil {
		p.UpdatedAt = rec.UpdatedAt.UTC()
	} else if rec.CreatedAt != nil {
		p.UpdatedAt = p.CreatedAt
	}

	if rec.Board != nil {
		p.Board.Issues = rec.Board.Issues
		p.Board.Sprints = rec.Board.Sprints
	}
	for i := range p.Board.Issues {
		issue := &p.Board.Issues[i]
		if issue.ID == "" {
			issue.ID = uuid.New().String()
		}
		if issue.Status == "" {
			issue.Status = domain.IssueStatusToDo
		} else {
			status, err := domain.ParseIssueStatus(string(issue.Status))
			if err != nil {
				return nil, fmt.Errorf("issue %s: %w", issue.ID, err)
			}
			issue.Status = status
		}
		if issue.Type == "" {
			issue.Type = domain.IssueTypeTask
		}
		if issue.CreatedAt.IsZero() {
			issue.CreatedAt = p.CreatedAt
		}
		if issue.UpdatedAt.IsZero() {
			issue.UpdatedAt = issue.CreatedAt
		}
	}
	for i := range p.Board.Sprints {
		if p.Board.Sprints[i].CreatedAt.IsZero() {
			p.Board.Sprints[i].CreatedAt = p.CreatedAt
		}
	}
	for i := range p.Pages {
		if p.Pages[i].CreatedAt.IsZero() {
			p.Pages[i].CreatedAt = p.CreatedAt
		}
		if p.Pages[i].UpdatedAt.IsZero() {
			p.Pages[i].UpdatedAt = p.Pages[i].CreatedAt
		}
	}

	if rec.Board != nil && rec.Board.NextIssueNumber != nil {
		p.Board.NextIssueNumber = *rec.Board.NextIssueNumber
	} else {
		p.Board.NextIssueNumber = nextNumberFromKeys(p.Board.Issues)
	}
	p.Normalize()
	return p, nil
}

// nextNumberFromKeys returns one past the highest sequence number found in the issue keys
func nextNumberFromKeys(issues []domain.Issue) int {
	highest := 0
	for _, issue := range issues {
		match := keySequence.FindStringSubmatch(issue.Key)
		if match == nil {
			continue
		}
		if n, err := strconv.Atoi(match[1]); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}
