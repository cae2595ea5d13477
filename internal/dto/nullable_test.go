package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullable_Unmarshal(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantSet   bool
		wantValid bool
		wantValue float64
	}{
		{name: "absent", body: `{}`, wantSet: false, wantValid: false},
		{name: "null", body: `{"storyPoints": null}`, wantSet: true, wantValid: false},
		{name: "value", body: `{"storyPoints": 5}`, wantSet: true, wantValid: true, wantValue: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateIssueRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.wantSet, req.StoryPoints.Set)
			assert.Equal(t, tt.wantValid, req.StoryPoints.Valid)
			assert.Equal(t, tt.wantValue, req.StoryPoints.Value)
		})
	}
}

func TestNullable_RejectsWrongType(t *testing.T) {
	var req UpdateIssueRequest
	err := json.Unmarshal([]byte(`{"storyPoints": "lots"}`), &req)
	assert.Error(t, err)
}

func TestNullable_PtrAndMarshal(t *testing.T) {
	assert.Nil(t, Null[string]().Ptr())
	assert.Equal(t, "x", *NewNullable("x").Ptr())

	data, err := json.Marshal(struct {
		A Nullable[string] `json:"a"`
		B Nullable[string] `json:"b"`
	}{A: NewNullable("x"), B: Null[string]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"x","b":null}`, string(data))
}
