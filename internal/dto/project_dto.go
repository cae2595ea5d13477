package dto

import (
	"project-planner-api/internal/domain"
)

// CreateProjectRequest represents the request to create a new project
// @Description Request body for creating a project. id is generated when omitted.
type CreateProjectRequest struct {
	ID          string `json:"id,omitempty" binding:"omitempty,max=100" example:"6f1c2d3e-4b5a-6978-8a9b-0c1d2e3f4a5b"`
	Name        string `json:"name" binding:"required,max=200" example:"My App"`
	Description string `json:"description" binding:"max=2000" example:"Mobile client rewrite"`
	Status      string `json:"status,omitempty" example:"planning"`
	IsSeed      bool   `json:"isSeed,omitempty"`
	SeedVersion int    `json:"seedVersion,omitempty"`
}

// UpdateProjectRequest represents the request to update a project
// @Description All fields are optional. A manual status change is honored in every phase.
type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=200" example:"My App v2"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Status      *string `json:"status" example:"on-hold"`
}

// SyncProjectsRequest replaces the whole collection
// @Description Destructive. Every stored project is removed and the supplied documents are written as-is.
type SyncProjectsRequest struct {
	Projects []domain.Project `json:"projects" binding:"required"`
}

// SyncProjectsResponse reports the collection size after a sync
type SyncProjectsResponse struct {
	Count int `json:"count" example:"3"`
}

// BoardSummaryResponse aggregates a project's board
type BoardSummaryResponse struct {
	ProjectID    string               `json:"projectId"`
	ByStatus     map[string]int       `json:"byStatus"`
	ByType       map[string]int       `json:"byType"`
	TotalPoints  float64              `json:"totalPoints"`
	DonePoints   float64              `json:"donePoints"`
	SprintCount  int                  `json:"sprintCount"`
	ActiveSprint *domain.Sprint       `json:"activeSprint"`
	ProjectPhase domain.ProjectStatus `json:"projectStatus"`
}
