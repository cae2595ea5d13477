package service

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"project-planner-api/internal/domain"
	"project-planner-api/internal/dto"
)

const (
	defaultKeyPrefix = "IS"
	maxPrefixLength  = 3
)

// derivePrefix builds the issue key prefix from the uppercase initials of the project name
func derivePrefix(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-'
	})

	var b strings.Builder
	n := 0
	for _, word := range words {
		if n == maxPrefixLength {
			break
		}
		initial := []rune(word)[0]
		if !unicode.IsLetter(initial) && !unicode.IsDigit(initial) {
			continue
		}
		b.WriteRune(unicode.ToUpper(initial))
		n++
	}
	if n == 0 {
		return defaultKeyPrefix
	}
	return b.String()
}

func issueKey(prefix string, sequence int) string {
	return fmt.Sprintf("%s-%d", prefix, sequence)
}

// stampLifecycle records the first entry into the issue's current status; later re-entries keep the original time
func stampLifecycle(issue *domain.Issue, now time.Time) {
	var slot **time.Time
	switch issue.Status {
	case domain.IssueStatusToDo:
		slot = &issue.TodoAt
	case domain.IssueStatusInProgress:
		slot = &issue.InProgressAt
	case domain.IssueStatusDone:
		slot = &issue.DoneAt
	default:
		return
	}
	if *slot == nil {
		t := now
		*slot = &t
	}
}

// advancePhase moves the project forward through planning, in-progress and completed as far as the board allows.
// On-hold projects never move. The returned slice lists the phases entered, in order.
func advancePhase(project *domain.Project) []domain.ProjectStatus {
	if project.Status == domain.ProjectStatusOnHold {
		return nil
	}

	var entered []domain.ProjectStatus
	for {
		next, ok := nextPhase(project)
		if !ok {
			return entered
		}
		project.Status = next
		entered = append(entered, next)
	}
}

func nextPhase(project *domain.Project) (domain.ProjectStatus, bool) {
	issues := project.Board.Issues
	switch project.Status {
	case domain.ProjectStatusPlanning:
		for i := range issues {
			if issues[i].Status == domain.IssueStatusInProgress || issues[i].Status == domain.IssueStatusDone {
				return domain.ProjectStatusInProgress, true
			}
		}
	case domain.ProjectStatusInProgress:
		if len(issues) == 0 {
			return "", false
		}
		for i := range issues {
			if issues[i].Status != domain.IssueStatusDone {
				return "", false
			}
		}
		return domain.ProjectStatusCompleted, true
	}
	return "", false
}

// buildBoardSummary aggregates issue counts, story points and the active sprint
func buildBoardSummary(project *domain.Project) *dto.BoardSummaryResponse {
	summary := &dto.BoardSummaryResponse{
		ProjectID:    project.ID,
		ByStatus:     make(map[string]int, len(domain.CanonicalIssueStatuses)),
		ByType:       make(map[string]int),
		SprintCount:  len(project.Board.Sprints),
		ProjectPhase: project.Status,
	}
	for _, status := range domain.CanonicalIssueStatuses {
		summary.ByStatus[string(status)] = 0
	}

	for i := range project.Board.Issues {
		issue := &project.Board.Issues[i]
		summary.ByStatus[string(issue.Status)]++
		summary.ByType[string(issue.Type)]++
		if issue.StoryPoints == nil {
			continue
		}
		summary.TotalPoints += *issue.StoryPoints
		if issue.Status == domain.IssueStatusDone {
			summary.DonePoints += *issue.StoryPoints
		}
	}

	for i := range project.Board.Sprints {
		if project.Board.Sprints[i].Status == domain.SprintStatusActive {
			sprint := project.Board.Sprints[i]
			summary.ActiveSprint = &sprint
			break
		}
	}
	return summary
}
