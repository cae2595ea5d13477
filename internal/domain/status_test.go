package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIssueStatus_AliasTable(t *testing.T) {
	tests := map[string]IssueStatus{
		"To Do":       IssueStatusToDo,
		"to do":       IssueStatusToDo,
		"todo":        IssueStatusToDo,
		"TO-DO":       IssueStatusToDo,
		"Backlog":     IssueStatusToDo,
		"In Progress": IssueStatusInProgress,
		"in-progress": IssueStatusInProgress,
		"InProgress":  IssueStatusInProgress,
		"WIP":         IssueStatusInProgress,
		"Done":        IssueStatusDone,
		"completed":   IssueStatusDone,
		"Closed":      IssueStatusDone,
	}

	for raw, want := range tests {
		t.Run(raw, func(t *testing.T) {
			got, err := ParseIssueStatus(raw)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseIssueStatus_RejectsUnknown(t *testing.T) {
	for _, raw := range []string{"bogus", "", "doing", "in progres"} {
		_, err := ParseIssueStatus(raw)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), raw)
		assert.Equal(t, "status", verr.Field)
	}
}

func TestParseIssueStatus_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("result is always canonical or an error", prop.ForAll(
		func(raw string) bool {
			status, err := ParseIssueStatus(raw)
			if err != nil {
				return status == ""
			}
			for _, canonical := range CanonicalIssueStatuses {
				if status == canonical {
					return true
				}
			}
			return false
		},
		gen.AnyString(),
	))

	properties.Property("canonical values are fixed points", prop.ForAll(
		func(i int) bool {
			canonical := CanonicalIssueStatuses[i]
			got, err := ParseIssueStatus(string(canonical))
			return err == nil && got == canonical
		},
		gen.IntRange(0, len(CanonicalIssueStatuses)-1),
	))

	aliases := make([]string, 0, len(issueStatusAliases))
	for alias := range issueStatusAliases {
		aliases = append(aliases, alias)
	}
	properties.Property("matching ignores case", prop.ForAll(
		func(i int, upper bool) bool {
			alias := aliases[i]
			raw := alias
			if upper {
				raw = strings.ToUpper(alias)
			}
			got, err := ParseIssueStatus(raw)
			return err == nil && got == issueStatusAliases[alias]
		},
		gen.IntRange(0, len(aliases)-1),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestParseProjectStatus(t *testing.T) {
	got, err := ParseProjectStatus("On-Hold")
	require.NoError(t, err)
	assert.Equal(t, ProjectStatusOnHold, got)

	_, err = ParseProjectStatus("archived")
	assert.Error(t, err)
}

func TestParseIssueType(t *testing.T) {
	got, err := ParseIssueType("Bug")
	require.NoError(t, err)
	assert.Equal(t, IssueTypeBug, got)

	_, err = ParseIssueType("feature")
	assert.Error(t, err)
}
