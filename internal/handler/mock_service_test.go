package handler

import (
	"context"

	"project-planner-api/internal/domain"
	"project-planner-api/internal/dto"
)

// MockProjectService is a mock implementation of service.ProjectService
type MockProjectService struct {
	ListProjectsFunc    func(ctx context.Context) ([]domain.ProjectSummary, error)
	GetProjectFunc      func(ctx context.Context, id string) (*domain.Project, error)
	CreateProjectFunc   func(ctx context.Context, req *dto.CreateProjectRequest) (*domain.Project, error)
	UpdateProjectFunc   func(ctx context.Context, id string, req *dto.UpdateProjectRequest) (*domain.Project, error)
	DeleteProjectFunc   func(ctx context.Context, id string, hard bool) error
	SyncProjectsFunc    func(ctx context.Context, req *dto.SyncProjectsRequest) (*dto.SyncProjectsResponse, error)
	GetBoardSummaryFunc func(ctx context.Context, id string) (*dto.BoardSummaryResponse, error)
}

func (m *MockProjectService) ListProjects(ctx context.Context) ([]domain.ProjectSummary, error) {
	if m.ListProjectsFunc != nil {
		return m.ListProjectsFunc(ctx)
	}
	return nil, nil
}

func (m *MockProjectService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	if m.GetProjectFunc != nil {
		return m.GetProjectFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProjectService) CreateProject(ctx context.Context, req *dto.CreateProjectRequest) (*domain.Project, error) {
	if m.CreateProjectFunc != nil {
		return m.CreateProjectFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockProjectService) UpdateProject(ctx context.Context, id string, req *dto.UpdateProjectRequest) (*domain.Project, error) {
	if m.UpdateProjectFunc != nil {
		return m.UpdateProjectFunc(ctx, id, req)
	}
	return nil, nil
}

func (m *MockProjectService) DeleteProject(ctx context.Context, id string, hard bool) error {
	if m.DeleteProjectFunc != nil {
		return m.DeleteProjectFunc(ctx, id, hard)
	}
	return nil
}

func (m *MockProjectService) SyncProjects(ctx context.Context, req *dto.SyncProjectsRequest) (*dto.SyncProjectsResponse, error) {
	if m.SyncProjectsFunc != nil {
		return m.SyncProjectsFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockProjectService) GetBoardSummary(ctx context.Context, id string) (*dto.BoardSummaryResponse, error) {
	if m.GetBoardSummaryFunc != nil {
		return m.GetBoardSummaryFunc(ctx, id)
	}
	return nil, nil
}

// MockIssueService is a mock implementation of service.IssueService
type MockIssueService struct {
	ListIssuesFunc  func(ctx context.Context, projectID string, query *dto.IssueListQuery) ([]domain.Issue, error)
	GetIssueFunc    func(ctx context.Context, projectID, ref string) (*domain.Issue, error)
	CreateIssueFunc func(ctx context.Context, projectID string, req *dto.CreateIssueRequest) (*domain.Issue, error)
	UpdateIssueFunc func(ctx context.Context, projectID, ref string, req *dto.UpdateIssueRequest) (*domain.Issue, error)
	DeleteIssueFunc func(ctx context.Context, projectID, ref string) error
}

func (m *MockIssueService) ListIssues(ctx context.Context, projectID string, query *dto.IssueListQuery) ([]domain.Issue, error) {
	if m.ListIssuesFunc != nil {
		return m.ListIssuesFunc(ctx, projectID, query)
	}
	return nil, nil
}

func (m *MockIssueService) GetIssue(ctx context.Context, projectID, ref string) (*domain.Issue, error) {
	if m.GetIssueFunc != nil {
		return m.GetIssueFunc(ctx, projectID, ref)
	}
	return nil, nil
}

func (m *MockIssueService) CreateIssue(ctx context.Context, projectID string, req *dto.CreateIssueRequest) (*domain.Issue, error) {
	if m.CreateIssueFunc != nil {
		return m.CreateIssueFunc(ctx, projectID, req)
	}
	return nil, nil
}

func (m *MockIssueService) UpdateIssue(ctx context.Context, projectID, ref string, req *dto.UpdateIssueRequest) (*domain.Issue, error) {
	if m.UpdateIssueFunc != nil {
		return m.UpdateIssueFunc(ctx, projectID, ref, req)
	}
	return nil, nil
}

func (m *MockIssueService) DeleteIssue(ctx context.Context, projectID, ref string) error {
	if m.DeleteIssueFunc != nil {
		return m.DeleteIssueFunc(ctx, projectID, ref)
	}
	return nil
}

// MockSprintService is a mock implementation of service.SprintService
type MockSprintService struct {
	ListSprintsFunc  func(ctx context.Context, projectID string) ([]domain.Sprint, error)
	CreateSprintFunc func(ctx context.Context, projectID string, req *dto.CreateSprintRequest) (*domain.Sprint, error)
	UpdateSprintFunc func(ctx context.Context, projectID, sprintID string, req *dto.UpdateSprintRequest) (*domain.Sprint, error)
	DeleteSprintFunc func(ctx context.Context, projectID, sprintID string) error
}

func (m *MockSprintService) ListSprints(ctx context.Context, projectID string) ([]domain.Sprint, error) {
	if m.ListSprintsFunc != nil {
		return m.ListSprintsFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *MockSprintService) CreateSprint(ctx context.Context, projectID string, req *dto.CreateSprintRequest) (*domain.Sprint, error) {
	if m.CreateSprintFunc != nil {
		return m.CreateSprintFunc(ctx, projectID, req)
	}
	return nil, nil
}

func (m *MockSprintService) UpdateSprint(ctx context.Context, projectID, sprintID string, req *dto.UpdateSprintRequest) (*domain.Sprint, error) {
	if m.UpdateSprintFunc != nil {
		return m.UpdateSprintFunc(ctx, projectID, sprintID, req)
	}
	return nil, nil
}

func (m *MockSprintService) DeleteSprint(ctx context.Context, projectID, sprintID string) error {
	if m.DeleteSprintFunc != nil {
		return m.DeleteSprintFunc(ctx, projectID, sprintID)
	}
	return nil
}

// MockPageService is a mock implementation of service.PageService
type MockPageService struct {
	ListPagesFunc  func(ctx context.Context, projectID string) ([]domain.Page, error)
	CreatePageFunc func(ctx context.Context, projectID string, req *dto.CreatePageRequest) (*domain.Page, error)
	UpdatePageFunc func(ctx context.Context, projectID, pageID string, req *dto.UpdatePageRequest) (*domain.Page, error)
	DeletePageFunc func(ctx context.Context, projectID, pageID string) error
}

func (m *MockPageService) ListPages(ctx context.Context, projectID string) ([]domain.Page, error) {
	if m.ListPagesFunc != nil {
		return m.ListPagesFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *MockPageService) CreatePage(ctx context.Context, projectID string, req *dto.CreatePageRequest) (*domain.Page, error) {
	if m.CreatePageFunc != nil {
		return m.CreatePageFunc(ctx, projectID, req)
	}
	return nil, nil
}

func (m *MockPageService) UpdatePage(ctx context.Context, projectID, pageID string, req *dto.UpdatePageRequest) (*domain.Page, error) {
	if m.UpdatePageFunc != nil {
		return m.UpdatePageFunc(ctx, projectID, pageID, req)
	}
	return nil, nil
}

func (m *MockPageService) DeletePage(ctx context.Context, projectID, pageID string) error {
	if m.DeletePageFunc != nil {
		return m.DeletePageFunc(ctx, projectID, pageID)
	}
	return nil
}
