package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"project-planner-api/internal/domain"
	"project-planner-api/internal/dto"
	"project-planner-api/internal/response"
)

const defaultSprintStatus = "planned"

// SprintService defines the interface for sprint business logic
type SprintService interface {
	ListSprints(ctx context.Context, projectID string) ([]domain.Sprint, error)
	CreateSprint(ctx context.Context, projectID string, req *dto.CreateSprintRequest) (*domain.Sprint, error)
	UpdateSprint(ctx context.Context, projectID, sprintID string, req *dto.UpdateSprintRequest) (*domain.Sprint, error)
	DeleteSprint(ctx context.Context, projectID, sprintID string) error
}

type sprintServiceImpl struct {
	store    DocumentStore
	notifier ChangeNotifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewSprintService creates a new instance of SprintService
func NewSprintService(store DocumentStore, notifier ChangeNotifier, logger *zap.Logger) SprintService {
	return &sprintServiceImpl{
		store:    store,
		notifier: orNop(notifier),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *sprintServiceImpl) ListSprints(ctx context.Context, projectID string) ([]domain.Sprint, error) {
	project, err := s.store.Get(ctx, projectID)
	if err != nil {
		return nil, toAppError(err, "Project not found")
	}
	return project.Board.Sprints, nil
}

func (s *sprintServiceImpl) CreateSprint(ctx context.Context, projectID string, req *dto.CreateSprintRequest) (*domain.Sprint, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, response.NewValidationError("name: name is required", "")
	}
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = defaultSprintStatus
	}

	sprint := domain.Sprint{
		ID:        uuid.New().String(),
		Name:      name,
		Goal:      req.Goal,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    status,
		CreatedAt: s.now(),
	}
	_, err := s.store.Update(ctx, projectID, func(p *domain.Project) error {
		p.Board.Sprints = append(p.Board.Sprints, sprint)
		return nil
	})
	if err != nil {
		return nil, toAppError(err, "Project not found")
	}

	s.notifier.NotifyChange(ctx)
	return &sprint, nil
}

func (s *sprintServiceImpl) UpdateSprint(ctx context.Context, projectID, sprintID string, req *dto.UpdateSprintRequest) (*domain.Sprint, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, response.NewValidationError("name: name must not be empty", "")
	}

	var updated domain.Sprint
	_, err := s.store.Update(ctx, projectID, func(p *domain.Project) error {
		idx := p.FindSprint(sprintID)
		if idx < 0 {
			return notFound("Sprint not found")
		}
		sprint := &p.Board.Sprints[idx]
		if req.Name != nil {
			sprint.Name = strings.TrimSpace(*req.Name)
		}
		if req.Goal != nil {
			sprint.Goal = *req.Goal
		}
		if req.StartDate != nil {
			sprint.StartDate = *req.StartDate
		}
		if req.EndDate != nil {
			sprint.EndDate = *req.EndDate
		}
		if req.Status != nil {
			sprint.Status = strings.TrimSpace(*req.Status)
		}
		updated = *sprint
		return nil
	})
	if err != nil {
		return nil, toAppError(err, "Project not found")
	}

	s.notifier.NotifyChange(ctx)
	return &updated, nil
}

// DeleteSprint removes a sprint and unassigns its issues
func (s *sprintServiceImpl) DeleteSprint(ctx context.Context, projectID, sprintID string) error {
	_, err := s.store.Update(ctx, projectID, func(p *domain.Project) error {
		idx := p.FindSprint(sprintID)
		if idx < 0 {
			return notFound("Sprint not found")
		}
		p.Board.Sprints = append(p.Board.Sprints[:idx], p.Board.Sprints[idx+1:]...)

		for i := range p.Board.Issues {
			if sid := p.Board.Issues[i].SprintID; sid != nil && *sid == sprintID {
				p.Board.Issues[i].SprintID = nil
			}
		}
		return nil
	})
	if err != nil {
		return toAppError(err, "Project not found")
	}

	s.notifier.NotifyChange(ctx)
	return nil
}
