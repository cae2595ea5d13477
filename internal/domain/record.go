package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ProjectRecord is the stored row: the serialized document plus denormalized columns for listing
type ProjectRecord struct {
	ID          string         `gorm:"type:text;primaryKey"`
	Name        string         `gorm:"type:text;not null"`
	Description string         `gorm:"type:text"`
	Status      string         `gorm:"type:varchar(32);not null;index:idx_projects_status"`
	Document    datatypes.JSON `gorm:"type:json;not null"`
	IssueCount  int            `gorm:"not null"`
	SprintCount int            `gorm:"not null"`
	IsSeed      bool           `gorm:"not null"`
	SeedVersion int            `gorm:"not null"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime:false;index:idx_projects_updated_at"`
	DeletedAt   *time.Time     `gorm:"index:idx_projects_deleted_at"`
}

// TableName specifies the table name for ProjectRecord
func (ProjectRecord) TableName() string {
	return "projects"
}
