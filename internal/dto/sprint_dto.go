package dto

// CreateSprintRequest represents the request to create a sprint
type CreateSprintRequest struct {
	Name      string `json:"name" binding:"required,max=200" example:"Sprint 1"`
	Goal      string `json:"goal,omitempty"`
	StartDate string `json:"startDate,omitempty" example:"2024-06-03"`
	EndDate   string `json:"endDate,omitempty" example:"2024-06-14"`
	Status    string `json:"status,omitempty" example:"active"`
}

// UpdateSprintRequest represents the request to update a sprint
type UpdateSprintRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=200"`
	Goal      *string `json:"goal"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Status    *string `json:"status"`
}
