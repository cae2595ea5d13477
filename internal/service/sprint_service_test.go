package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-planner-api/internal/dto"
	"project-planner-api/internal/response"
)

func TestSprintService_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.createProject(t, "Sprints")

	sprint, err := env.sprints.CreateSprint(ctx, p.ID, &dto.CreateSprintRequest{
		Name:      "Sprint 1",
		Goal:      "ship login",
		StartDate: "2026-01-05",
		EndDate:   "2026-01-19",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sprint.ID)
	assert.Equal(t, "planned", sprint.Status)

	updated, err := env.sprints.UpdateSprint(ctx, p.ID, sprint.ID, &dto.UpdateSprintRequest{Status: strPtr("active")})
	require.NoError(t, err)
	assert.Equal(t, "active", updated.Status)
	assert.Equal(t, "ship login", updated.Goal)

	sprints, err := env.sprints.ListSprints(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, sprints, 1)

	project, err := env.projects.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, project.SprintCount)

	summary, err := env.projects.GetBoardSummary(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, summary.ActiveSprint)
	assert.Equal(t, sprint.ID, summary.ActiveSprint.ID)
}

func TestSprintService_DeleteUnassignsIssues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.createProject(t, "Unassign")

	sprint, err := env.sprints.CreateSprint(ctx, p.ID, &dto.CreateSprintRequest{Name: "S"})
	require.NoError(t, err)
	issue, err := env.issues.CreateIssue(ctx, p.ID, &dto.CreateIssueRequest{Title: "x", Type: "task", SprintID: &sprint.ID})
	require.NoError(t, err)

	require.NoError(t, env.sprints.DeleteSprint(ctx, p.ID, sprint.ID))

	got, err := env.issues.GetIssue(ctx, p.ID, issue.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SprintID)

	project, err := env.projects.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, project.SprintCount)
}

func TestSprintService_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.createProject(t, "Errors")

	tests := []struct {
		name string
		fn   func() error
		code string
	}{
		{"빈 이름", func() error {
			_, err := env.sprints.CreateSprint(ctx, p.ID, &dto.CreateSprintRequest{Name: " "})
			return err
		}, response.ErrCodeValidation},
		{"존재하지 않는 프로젝트", func() error {
			_, err := env.sprints.CreateSprint(ctx, "missing", &dto.CreateSprintRequest{Name: "S"})
			return err
		}, response.ErrCodeNotFound},
		{"수정 시 존재하지 않는 스프린트", func() error {
			_, err := env.sprints.UpdateSprint(ctx, p.ID, "missing", &dto.UpdateSprintRequest{Goal: strPtr("g")})
			return err
		}, response.ErrCodeNotFound},
		{"삭제 시 존재하지 않는 스프린트", func() error {
			return env.sprints.DeleteSprint(ctx, p.ID, "missing")
		}, response.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireAppError(t, tt.fn(), tt.code)
		})
	}
}
