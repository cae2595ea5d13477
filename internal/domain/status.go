package domain

import "strings"

var issueStatusAliases = map[string]IssueStatus{
	"to do":       IssueStatusToDo,
	"todo":        IssueStatusToDo,
	"to-do":       IssueStatusToDo,
	"backlog":     IssueStatusToDo,
	"in progress": IssueStatusInProgress,
	"in-progress": IssueStatusInProgress,
	"inprogress":  IssueStatusInProgress,
	"wip":         IssueStatusInProgress,
	"done":        IssueStatusDone,
	"completed":   IssueStatusDone,
	"closed":      IssueStatusDone,
}

// ParseIssueStatus maps a raw status or one of its case-insensitive aliases to the canonical value.
// Anything outside the alias table is rejected.
func ParseIssueStatus(raw string) (IssueStatus, error) {
	if status, ok := issueStatusAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return status, nil
	}
	return "", NewValidationError("status", "unknown status %q", raw)
}

// ParseProjectStatus accepts the four project phases, case-insensitively
func ParseProjectStatus(raw string) (ProjectStatus, error) {
	switch s := ProjectStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case ProjectStatusPlanning, ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusOnHold:
		return s, nil
	}
	return "", NewValidationError("status", "unknown project status %q", raw)
}

// ParseIssueType accepts epic, story, task and bug, case-insensitively
func ParseIssueType(raw string) (IssueType, error) {
	switch t := IssueType(strings.ToLower(strings.TrimSpace(raw))); t {
	case IssueTypeEpic, IssueTypeStory, IssueTypeTask, IssueTypeBug:
		return t, nil
	}
	return "", NewValidationError("type", "unknown issue type %q", raw)
}
