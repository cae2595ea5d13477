package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-planner-api/internal/domain"
)

// AutoMigrate creates the projects table and its listing indexes
func AutoMigrate(db *gorm.DB, logger *zap.Logger) error {
	migrator := db.Migrator()
	existed := migrator.HasTable(&domain.ProjectRecord{})

	if err := db.AutoMigrate(&domain.ProjectRecord{}); err != nil {
		logger.Error("Failed to migrate table",
			zap.String("table", "projects"),
			zap.Bool("table_existed", existed),
			zap.Error(err),
		)
		return fmt.Errorf("failed to migrate table projects: %w", err)
	}

	logger.Debug("Successfully migrated table",
		zap.String("table", "projects"),
		zap.Bool("was_existing", existed),
	)
	return nil
}
