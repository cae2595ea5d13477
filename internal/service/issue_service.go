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
	"project-planner-api/internal/response"
)

// IssueService defines the interface for issue business logic.
// ref is either the issue id or its human key, matched case-insensitively.
type IssueService interface {
	ListIssues(ctx context.Context, projectID string, query *dto.IssueListQuery) ([]domain.Issue, error)
	GetIssue(ctx context.Context, projectID, ref string) (*domain.Issue, error)
	CreateIssue(ctx context.Context, projectID string, req *dto.CreateIssueRequest) (*domain.Issue, error)
	UpdateIssue(ctx context.Context, projectID, ref string, req *dto.UpdateIssueRequest) (*domain.Issue, error)
	DeleteIssue(ctx context.Context, projectID, ref string) error
}

// issueServiceImpl is the implementation of IssueService
type issueServiceImpl struct {
	store    DocumentStore
	notifier ChangeNotifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewIssueService creates a new instance of IssueService
func NewIssueService(store DocumentStore, notifier ChangeNotifier, m *metrics.Metrics, logger *zap.Logger) IssueService {
	return &issueServiceImpl{
		store:    store,
		notifier: orNop(notifier),
		metrics:  m,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ListIssues returns the board's issues in order, narrowed by the optional filters
func (s *issueServiceImpl) ListIssues(ctx context.Context, projectID string, query *dto.IssueListQuery) ([]domain.Issue, error) {
	filter, err := buildIssueFilter(query)
	if err != nil {
		return nil, toAppError(err, "")
	}

	project, err := s.store.Get(ctx, projectID)
	if err != nil {
		return nil, toAppError(err, "Project not found")
	}

	issues := make([]domain.Issue, 0, len(project.Board.Issues))
	for i := range project.Board.Issues {
		if filter.Matches(&project.Board.Issues[i]) {
			issues = append(issues, project.Board.Issues[i])
		}
	}
	return issues, nil
}

// GetIssue finds an issue by id or key
func (s *issueServiceImpl) GetIssue(ctx context.Context, projectID, ref string) (*domain.Issue, error) {
	project, err := s.store.Get(ctx, projectID)
	if err != nil {
		return nil, toAppError(err, "Project not found")
	}
	idx := project.FindIssue(ref)
	if idx < 0 {
		return nil, notFound("Issue not found")
	}
	issue := project.Board.Issues[idx]
	return &issue, nil
}

// CreateIssue appends an issue, drawing its key from the project's counter
func (s *issueServiceImpl) CreateIssue(ctx context.Context, projectID string, req *dto.CreateIssueRequest) (*domain.Issue, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, response.NewValidationError("title: title is required", "")
	}
	issueType, err := domain.ParseIssueType(req.Type)
	if err != nil {
		return nil, toAppError(err, "")
	}
	status := domain.IssueStatusToDo
	if req.Status != "" {
		if status, err = domain.ParseIssueStatus(req.Status); err != nil {
			return nil, toAppError(err, "")
		}
	}

	var created domain.Issue
	var transitions []domain.ProjectStatus
	_, err = s.store.Update(ctx, projectID, func(p *domain.Project) error {
		if err := checkReferences(p, "", req.EpicID, req.SprintID); err != nil {
			return err
		}

		now := s.now()
		issue := domain.Issue{
			ID:          uuid.New().String(),
			Key:         issueKey(derivePrefix(p.Name), p.Board.NextIssueNumber),
			Title:       title,
			Type:        issueType,
			Status:      status,
			Priority:    req.Priority,
			Description: req.Description,
			StoryPoints: req.StoryPoints,
			EpicID:      req.EpicID,
			SprintID:    req.SprintID,
			Assignee:    req.Assignee,
			Labels:      req.Labels,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		stampLifecycle(&issue, now)

		p.Board.NextIssueNumber++
		p.Board.Issues = append(p.Board.Issues, issue)
		transitions = advancePhase(p)
		created = issue
		return nil
	})
	if err != nil {
		return nil, toAppError(err, "Project not found")
	}

	s.metrics.IncrementIssueCreated()
	s.recordTransitions(projectID, transitions)
	s.notifier.NotifyChange(ctx)
	return &created, nil
}

// UpdateIssue applies a typed patch; a status change re-evaluates the project phase in the same write
func (s *issueServiceImpl) UpdateIssue(ctx context.Context, projectID, ref string, req *dto.UpdateIssueRequest) (*domain.Issue, error) {
	var title *string
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			return nil, response.NewValidationError("title: title must not be empty", "")
		}
		title = &trimmed
	}
	var issueType *domain.IssueType
	if req.Type != nil {
		parsed, err := domain.ParseIssueType(*req.Type)
		if err != nil {
			return nil, toAppError(err, "")
		}
		issueType = &parsed
	}
	var status *domain.IssueStatus
	if req.Status != nil {
		parsed, err := domain.ParseIssueStatus(*req.Status)
		if err != nil {
			return nil, toAppError(err, "")
		}
		status = &parsed
	}

	var updated domain.Issue
	var transitions []domain.ProjectStatus
	_, err := s.store.Update(ctx, projectID, func(p *domain.Project) error {
		idx := p.FindIssue(ref)
		if idx < 0 {
			return notFound("Issue not found")
		}
		issue := &p.Board.Issues[idx]

		var epicID, sprintID *string
		if req.EpicID.Set {
			epicID = req.EpicID.Ptr()
		}
		if req.SprintID.Set {
			sprintID = req.SprintID.Ptr()
		}
		if err := checkReferences(p, issue.ID, epicID, sprintID); err != nil {
			return err
		}

		now := s.now()
		if title != nil {
			issue.Title = *title
		}
		if issueType != nil {
			issue.Type = *issueType
		}
		if req.Priority != nil {
			issue.Priority = *req.Priority
		}
		if req.Description != nil {
			issue.Description = *req.Description
		}
		if req.StoryPoints.Set {
			issue.StoryPoints = req.StoryPoints.Ptr()
		}
		if req.EpicID.Set {
			issue.EpicID = epicID
		}
		if req.SprintID.Set {
			issue.SprintID = sprintID
		}
		if req.Assignee.Set {
			issue.Assignee = req.Assignee.Ptr()
		}
		if req.Labels != nil {
			issue.Labels = *req.Labels
		}

		statusChanged := status != nil && *status != issue.Status
		if status != nil {
			issue.Status = *status
			stampLifecycle(issue, now)
		}
		issue.UpdatedAt = now

		if statusChanged {
			transitions = advancePhase(p)
		}
		updated = *issue
		return nil
	})
	if err != nil {
		return nil, toAppError(err, "Project not found")
	}

	s.recordTransitions(projectID, transitions)
	s.notifier.NotifyChange(ctx)
	return &updated, nil
}

// DeleteIssue removes an issue; children of a deleted epic lose their epic link
func (s *issueServiceImpl) DeleteIssue(ctx context.Context, projectID, ref string) error {
	_, err := s.store.Update(ctx, projectID, func(p *domain.Project) error {
		idx := p.FindIssue(ref)
		if idx < 0 {
			return notFound("Issue not found")
		}
		removedID := p.Board.Issues[idx].ID
		p.Board.Issues = append(p.Board.Issues[:idx], p.Board.Issues[idx+1:]...)

		for i := range p.Board.Issues {
			if epic := p.Board.Issues[i].EpicID; epic != nil && *epic == removedID {
				p.Board.Issues[i].EpicID = nil
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

func (s *issueServiceImpl) recordTransitions(projectID string, transitions []domain.ProjectStatus) {
	for _, to := range transitions {
		s.metrics.RecordPhaseTransition(string(to))
		s.logger.Info("Project phase advanced",
			zap.String("project_id", projectID),
			zap.String("status", string(to)),
		)
	}
}

// checkReferences verifies epic and sprint links point into the same project.
// selfID is the issue being edited, which may not be its own epic.
func checkReferences(p *domain.Project, selfID string, epicID, sprintID *string) error {
	if epicID != nil {
		if *epicID == selfID {
			return domain.NewValidationError("epicId", "an issue cannot be its own epic")
		}
		idx := p.FindIssue(*epicID)
		if idx < 0 || p.Board.Issues[idx].ID != *epicID {
			return domain.NewValidationError("epicId", "epic %q not found in project", *epicID)
		}
		if p.Board.Issues[idx].Type != domain.IssueTypeEpic {
			return domain.NewValidationError("epicId", "issue %q is not an epic", *epicID)
		}
	}
	if sprintID != nil && p.FindSprint(*sprintID) < 0 {
		return domain.NewValidationError("sprintId", "sprint %q not found in project", *sprintID)
	}
	return nil
}

func buildIssueFilter(query *dto.IssueListQuery) (domain.IssueFilter, error) {
	var filter domain.IssueFilter
	if query == nil {
		return filter, nil
	}
	if query.Status != "" {
		status, err := domain.ParseIssueStatus(query.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = status
	}
	if query.Type != "" {
		issueType, err := domain.ParseIssueType(query.Type)
		if err != nil {
			return filter, err
		}
		filter.Type = issueType
	}
	filter.EpicID = query.EpicID
	filter.SprintID = query.SprintID
	filter.Assignee = query.Assignee
	return filter, nil
}
