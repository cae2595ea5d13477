package domain

import "time"

// IssueStatus is one of the three canonical board columns
type IssueStatus string

const (
	IssueStatusToDo       IssueStatus = "To Do"
	IssueStatusInProgress IssueStatus = "In Progress"
	IssueStatusDone       IssueStatus = "Done"
)

// CanonicalIssueStatuses lists the statuses in board order
var CanonicalIssueStatuses = []IssueStatus{IssueStatusToDo, IssueStatusInProgress, IssueStatusDone}

// IssueType classifies an issue
type IssueType string

const (
	IssueTypeEpic  IssueType = "epic"
	IssueTypeStory IssueType = "story"
	IssueTypeTask  IssueType = "task"
	IssueTypeBug   IssueType = "bug"
)

// Issue is a work item on a project's board
type Issue struct {
	ID           string      `json:"id"`
	Key          string      `json:"key"`
	Title        string      `json:"title"`
	Type         IssueType   `json:"type"`
	Status       IssueStatus `json:"status"`
	Priority     string      `json:"priority,omitempty"`
	Description  string      `json:"description,omitempty"`
	StoryPoints  *float64    `json:"storyPoints,omitempty"`
	EpicID       *string     `json:"epicId,omitempty"`
	SprintID     *string     `json:"sprintId,omitempty"`
	Assignee     *string     `json:"assignee,omitempty"`
	Labels       []string    `json:"labels,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
	TodoAt       *time.Time  `json:"todoAt,omitempty"`
	InProgressAt *time.Time  `json:"inProgressAt,omitempty"`
	DoneAt       *time.Time  `json:"doneAt,omitempty"`
}

// IssueFilter narrows an issue listing. Empty fields match everything.
type IssueFilter struct {
	Status   IssueStatus
	Type     IssueType
	EpicID   string
	SprintID string
	Assignee string
}

// Matches reports whether the issue satisfies every set field of the filter
func (f IssueFilter) Matches(issue *Issue) bool {
	if f.Status != "" && issue.Status != f.Status {
		return false
	}
	if f.Type != "" && issue.Type != f.Type {
		return false
	}
	if f.EpicID != "" && (issue.EpicID == nil || *issue.EpicID != f.EpicID) {
		return false
	}
	if f.SprintID != "" && (issue.SprintID == nil || *issue.SprintID != f.SprintID) {
		return false
	}
	if f.Assignee != "" && (issue.Assignee == nil || *issue.Assignee != f.Assignee) {
		return false
	}
	return true
}
