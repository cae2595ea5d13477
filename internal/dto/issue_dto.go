package dto

// CreateIssueRequest represents the request to create an issue
// @Description status accepts aliases such as "todo", "wip" or "closed" and defaults to "To Do"
type CreateIssueRequest struct {
	Title       string   `json:"title" binding:"required,max=500" example:"Login screen"`
	Type        string   `json:"type" binding:"required" example:"story"`
	Status      string   `json:"status,omitempty" example:"To Do"`
	Priority    string   `json:"priority,omitempty" example:"high"`
	Description string   `json:"description,omitempty"`
	StoryPoints *float64 `json:"storyPoints,omitempty" example:"3"`
	EpicID      *string  `json:"epicId,omitempty"`
	SprintID    *string  `json:"sprintId,omitempty"`
	Assignee    *string  `json:"assignee,omitempty" example:"kim"`
	Labels      []string `json:"labels,omitempty"`
}

// UpdateIssueRequest represents the request to update an issue
// @Description All fields are optional. storyPoints, epicId, sprintId and assignee may be set to null to clear them.
type UpdateIssueRequest struct {
	Title       *string           `json:"title" binding:"omitempty,max=500"`
	Type        *string           `json:"type"`
	Status      *string           `json:"status" example:"Done"`
	Priority    *string           `json:"priority"`
	Description *string           `json:"description"`
	StoryPoints Nullable[float64] `json:"storyPoints" swaggertype:"number"`
	EpicID      Nullable[string]  `json:"epicId" swaggertype:"string"`
	SprintID    Nullable[string]  `json:"sprintId" swaggertype:"string"`
	Assignee    Nullable[string]  `json:"assignee" swaggertype:"string"`
	Labels      *[]string         `json:"labels"`
}

// IssueListQuery holds the optional listing filters
type IssueListQuery struct {
	Status   string `form:"status"`
	Type     string `form:"type"`
	EpicID   string `form:"epicId"`
	SprintID string `form:"sprintId"`
	Assignee string `form:"assignee"`
}
