package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"project-planner-api/internal/docstore"
	"project-planner-api/internal/domain"
	"project-planner-api/internal/dto"
	"project-planner-api/internal/response"
)

// countingNotifier records NotifyChange calls
type countingNotifier struct {
	mu    sync.Mutex
	calls int
}

func (n *countingNotifier) NotifyChange(context.Context) {
	n.mu.Lock()
	n.calls++
	n.mu.Unlock()
}

func (n *countingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

type testEnv struct {
	store    *docstore.Store
	notifier *countingNotifier
	projects ProjectService
	issues   IssueService
	sprints  SprintService
	pages    PageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	store, err := docstore.Open(context.Background(), docstore.Options{
		SnapshotPath:  filepath.Join(dir, "planner.db"),
		FlushDebounce: time.Hour,
	}, zap.NewNop(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	notifier := &countingNotifier{}
	logger := zap.NewNop()
	return &testEnv{
		store:    store,
		notifier: notifier,
		projects: NewProjectService(store, notifier, nil, logger),
		issues:   NewIssueService(store, notifier, nil, logger),
		sprints:  NewSprintService(store, notifier, logger),
		pages:    NewPageService(store, notifier, logger),
	}
}

func (e *testEnv) createProject(t *testing.T, name string) *domain.Project {
	t.Helper()
	p, err := e.projects.CreateProject(context.Background(), &dto.CreateProjectRequest{Name: name})
	require.NoError(t, err)
	return p
}

func (e *testEnv) createIssue(t *testing.T, projectID, title string, typ domain.IssueType, status domain.IssueStatus) *domain.Issue {
	t.Helper()
	issue, err := e.issues.CreateIssue(context.Background(), projectID, &dto.CreateIssueRequest{
		Title:  title,
		Type:   string(typ),
		Status: string(status),
	})
	require.NoError(t, err)
	return issue
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

// requireAppError asserts err is an AppError carrying code
func requireAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*response.AppError)
	require.True(t, ok, "expected *response.AppError, got %T", err)
	require.Equal(t, code, appErr.Code)
}
