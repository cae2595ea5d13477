package domain

import (
	"strings"
	"time"
)

// ProjectStatus is the phase of a project
type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "planning"
	ProjectStatusInProgress ProjectStatus = "in-progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusOnHold     ProjectStatus = "on-hold"
)

// Project is the root document: everything embedded in it is stored and locked as one unit
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	DeletedAt   *time.Time    `json:"deletedAt,omitempty"`
	IsSeed      bool          `json:"isSeed,omitempty"`
	SeedVersion int           `json:"seedVersion,omitempty"`
	IssueCount  int           `json:"issueCount"`
	SprintCount int           `json:"sprintCount"`
	Board       Board         `json:"board"`
	Pages       []Page        `json:"pages"`
}

// Board holds the ordered issue and sprint lists of a project
type Board struct {
	Issues          []Issue  `json:"issues"`
	Sprints         []Sprint `json:"sprints"`
	NextIssueNumber int      `json:"nextIssueNumber"`
}

// ProjectSummary is the listing view of a project, built from denormalized columns only
type ProjectSummary struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	IssueCount  int           `json:"issueCount"`
	SprintCount int           `json:"sprintCount"`
}

// Normalize fills nil collections and a zero issue counter so the document serializes consistently
func (p *Project) Normalize() {
	if p.Board.Issues == nil {
		p.Board.Issues = []Issue{}
	}
	if p.Board.Sprints == nil {
		p.Board.Sprints = []Sprint{}
	}
	if p.Pages == nil {
		p.Pages = []Page{}
	}
	if p.Board.NextIssueNumber < 1 {
		p.Board.NextIssueNumber = 1
	}
}

// RecomputeCounters derives issueCount and sprintCount from the embedded lists
func (p *Project) RecomputeCounters() {
	p.IssueCount = len(p.Board.Issues)
	p.SprintCount = len(p.Board.Sprints)
}

// Touch stamps UpdatedAt without ever moving it backwards
func (p *Project) Touch(now time.Time) {
	if now.After(p.UpdatedAt) {
		p.UpdatedAt = now
	}
}

// FindIssue returns the index of the issue whose id matches ref, or whose key matches ref case-insensitively
func (p *Project) FindIssue(ref string) int {
	for i := range p.Board.Issues {
		if p.Board.Issues[i].ID == ref {
			return i
		}
	}
	for i := range p.Board.Issues {
		if strings.EqualFold(p.Board.Issues[i].Key, ref) {
			return i
		}
	}
	return -1
}

// FindSprint returns the index of the sprint with the given id
func (p *Project) FindSprint(id string) int {
	for i := range p.Board.Sprints {
		if p.Board.Sprints[i].ID == id {
			return i
		}
	}
	return -1
}

// FindPage returns the index of the page with the given id
func (p *Project) FindPage(id string) int {
	for i := range p.Pages {
		if p.Pages[i].ID == id {
			return i
		}
	}
	return -1
}

// Summary returns the listing view of the document
func (p *Project) Summary() ProjectSummary {
	return ProjectSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		IssueCount:  len(p.Board.Issues),
		SprintCount: len(p.Board.Sprints),
	}
}
