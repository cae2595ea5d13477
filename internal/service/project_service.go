package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"project-planner-api/internal/domain"
	"project-planner-api/internal/dto"
	"project-planner-api/internal/metrics"
	"project-planner-api/internal/repository"
	"project-planner-api/internal/response"
)

// ProjectService defines the interface for project business logic
type ProjectService interface {
	ListProjects(ctx context.Context) ([]domain.ProjectSummary, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	CreateProject(ctx context.Context, req *dto.CreateProjectRequest) (*domain.Project, error)
	UpdateProject(ctx context.Context, id string, req *dto.UpdateProjectRequest) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string, hard bool) error
	SyncProjects(ctx context.Context, req *dto.SyncProjectsRequest) (*dto.SyncProjectsResponse, error)
	GetBoardSummary(ctx context.Context, id string) (*dto.BoardSummaryResponse, error)
}

// projectServiceImpl is the implementation of ProjectService
type projectServiceImpl struct {
	store    DocumentStore
	notifier ChangeNotifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewProjectService creates a new instance of ProjectService
func NewProjectService(store DocumentStore, notifier ChangeNotifier, m *metrics.Metrics, logger *zap.Logger) ProjectService {
	return &projectServiceImpl{
		store:    store,
		notifier: orNop(notifier),
		metrics:  m,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ListProjects returns live project summaries, most recently updated first
func (s *projectServiceImpl) ListProjects(ctx context.Context) ([]domain.ProjectSummary, error) {
	projects, err := s.store.List(ctx)
	if err != nil {
		return nil, toAppError(err, "")
	}
	return projects, nil
}

// GetProject returns the full project document
func (s *projectServiceImpl) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	project, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, toAppError(err, "Project not found")
	}
	return project, nil
}

// CreateProject creates a new project
func (s *projectServiceImpl) CreateProject(ctx context.Context, req *dto.CreateProjectRequest) (*domain.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, response.NewValidationError("name: name is required", "")
	}

	status := domain.ProjectStatusPlanning
	if req.Status != "" {
		parsed, err := domain.ParseProjectStatus(req.Status)
		if err != nil {
			return nil, toAppError(err, "")
		}
		status = parsed
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.New().String()
	}

	now := s.now()
	project := &domain.Project{
		ID:          id,
		Name:        name,
		Description: req.Description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
		IsSeed:      req.IsSeed,
		SeedVersion: req.SeedVersion,
	}
	project.Normalize()

	err := s.store.Mutate(ctx, id, func(ctx context.Context, repo repository.ProjectRepository) error {
		exists, err := repo.Exists(ctx, id)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrAlreadyExists
		}
		return repo.Upsert(ctx, project)
	})
	if err != nil {
		return nil, toAppError(err, "")
	}

	s.metrics.IncrementProjectCreated()
	s.logger.Info("Project created",
		zap.String("project_id", project.ID),
		zap.String("name", project.Name),
	)
	s.notifier.NotifyChange(ctx)
	return project, nil
}

// UpdateProject applies a typed patch to the project's scalar fields
func (s *projectServiceImpl) UpdateProject(ctx context.Context, id string, req *dto.UpdateProjectRequest) (*domain.Project, error) {
	var name *string
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return nil, response.NewValidationError("name: name must not be empty", "")
		}
		name = &trimmed
	}
	var status *domain.ProjectStatus
	if req.Status != nil {
		parsed, err := domain.ParseProjectStatus(*req.Status)
		if err != nil {
			return nil, toAppError(err, "")
		}
		status = &parsed
	}

	project, err := s.store.Update(ctx, id, func(p *domain.Project) error {
		if name != nil {
			p.Name = *name
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if status != nil {
			p.Status = *status
		}
		return nil
	})
	if err != nil {
		return nil, toAppError(err, "Project not found")
	}

	s.notifier.NotifyChange(ctx)
	return project, nil
}

// DeleteProject soft-deletes a project, or removes its row when hard is set
func (s *projectServiceImpl) DeleteProject(ctx context.Context, id string, hard bool) error {
	err := s.store.Mutate(ctx, id, func(ctx context.Context, repo repository.ProjectRepository) error {
		if hard {
			return repo.HardDelete(ctx, id)
		}
		return repo.SoftDelete(ctx, id)
	})
	if err != nil {
		return toAppError(err, "Project not found")
	}

	s.logger.Info("Project deleted",
		zap.String("project_id", id),
		zap.Bool("hard", hard),
	)
	s.notifier.NotifyChange(ctx)
	return nil
}

// SyncProjects replaces every stored project with the supplied documents.
// nextIssueNumber is taken as supplied, never recomputed.
func (s *projectServiceImpl) SyncProjects(ctx context.Context, req *dto.SyncProjectsRequest) (*dto.SyncProjectsResponse, error) {
	now := s.now()
	seen := make(map[string]struct{}, len(req.Projects))
	projects := make([]*domain.Project, 0, len(req.Projects))

	for i := range req.Projects {
		p := req.Projects[i]
		if err := prepareSyncedProject(&p, now); err != nil {
			return nil, toAppError(err, "")
		}
		if _, dup := seen[p.ID]; dup {
			return nil, response.NewValidationError("id: duplicate project id "+p.ID, "")
		}
		seen[p.ID] = struct{}{}
		projects = append(projects, &p)
	}

	if err := s.store.ReplaceAll(ctx, projects); err != nil {
		return nil, toAppError(err, "")
	}

	s.logger.Warn("Project collection replaced", zap.Int("count", len(projects)))
	s.notifier.NotifyChange(ctx)
	return &dto.SyncProjectsResponse{Count: len(projects)}, nil
}

// GetBoardSummary aggregates the project's board
func (s *projectServiceImpl) GetBoardSummary(ctx context.Context, id string) (*dto.BoardSummaryResponse, error) {
	project, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, toAppError(err, "Project not found")
	}
	return buildBoardSummary(project), nil
}

// prepareSyncedProject validates an incoming document and fills what a client may omit
func prepareSyncedProject(p *domain.Project, now time.Time) error {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.New().String()
	}
	if strings.TrimSpace(p.Name) == "" {
		return domain.NewValidationError("name", "project %s has no name", p.ID)
	}

	if p.Status == "" {
		p.Status = domain.ProjectStatusPlanning
	} else {
		status, err := domain.ParseProjectStatus(string(p.Status))
		if err != nil {
			return err
		}
		p.Status = status
	}

	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	for i := range p.Board.Issues {
		issue := &p.Board.Issues[i]
		if issue.ID == "" {
			issue.ID = uuid.New().String()
		}
		if issue.Status == "" {
			issue.Status = domain.IssueStatusToDo
			continue
		}
		status, err := domain.ParseIssueStatus(string(issue.Status))
		if err != nil {
			return err
		}
		issue.Status = status
	}
	p.Normalize()
	return nil
}
