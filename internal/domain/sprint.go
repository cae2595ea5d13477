package domain

import "time"

// SprintStatusActive marks the sprint currently being worked
const SprintStatusActive = "active"

// Sprint is a time box on a project's board
type Sprint struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Goal      string    `json:"goal,omitempty"`
	StartDate string    `json:"startDate,omitempty"`
	EndDate   string    `json:"endDate,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
