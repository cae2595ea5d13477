package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"project-planner-api/internal/domain"
)

// ProjectRepository defines the interface for project document access
type ProjectRepository interface {
	List(ctx context.Context) ([]domain.ProjectSummary, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	Upsert(ctx context.Context, project *domain.Project) error
	UpsertAll(ctx context.Context, projects []*domain.Project) error
	Update(ctx context.Context, id string, apply func(*domain.Project) error) (*domain.Project, error)
	SoftDelete(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, projects []*domain.Project) error
	Exists(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountLive(ctx context.Context) (int64, error)
	FindSoftDeletedBefore(ctx context.Context, cutoff time.Time) ([]string, error)
	PurgeIfDeletedBefore(ctx context.Context, id string, cutoff time.Time) (bool, error)
}

// projectRepositoryImpl is the GORM implementation of ProjectRepository
type projectRepositoryImpl struct {
	db  *gorm.DB
	now func() time.Time
}

// NewProjectRepository creates a new instance of ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepositoryImpl{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// List returns live projects, most recently updated first, built from the denormalized columns
func (r *projectRepositoryImpl) List(ctx context.Context) ([]domain.ProjectSummary, error) {
	var records []domain.ProjectRecord
	if err := r.db.WithContext(ctx).
		Select("id", "name", "description", "status", "issue_count", "sprint_count", "created_at", "updated_at").
		Where("deleted_at IS NULL").
		Order("updated_at DESC").
		Order("id").
		Find(&records).Error; err != nil {
		return nil, err
	}

	summaries := make([]domain.ProjectSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, domain.ProjectSummary{
			ID:          rec.ID,
			Name:        rec.Name,
			Description: rec.Description,
			Status:      domain.ProjectStatus(rec.Status),
			CreatedAt:   rec.CreatedAt,
			UpdatedAt:   rec.UpdatedAt,
			IssueCount:  rec.IssueCount,
			SprintCount: rec.SprintCount,
		})
	}
	return summaries, nil
}

// FindByID loads the full document of a live project
func (r *projectRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	return findLive(r.db.WithContext(ctx), id)
}

// Upsert writes the document and recomputes every denormalized column from it
func (r *projectRepositoryImpl) Upsert(ctx context.Context, project *domain.Project) error {
	return upsert(r.db.WithContext(ctx), project)
}

// UpsertAll writes every project in one transaction
func (r *projectRepositoryImpl) UpsertAll(ctx context.Context, projects []*domain.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range projects {
			if err := upsert(tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// Update loads the live document, applies the mutation, stamps updatedAt and writes it back in one transaction.
// An error from apply leaves the stored row unchanged.
func (r *projectRepositoryImpl) Update(ctx context.Context, id string, apply func(*domain.Project) error) (*domain.Project, error) {
	var updated *domain.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project, err := findLive(tx, id)
		if err != nil {
			return err
		}
		if err := apply(project); err != nil {
			return err
		}
		project.Touch(r.now())
		if err := upsert(tx, project); err != nil {
			return err
		}
		updated = project
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SoftDelete marks a live project deleted
func (r *projectRepositoryImpl) SoftDelete(ctx context.Context, id string) error {
	now := r.now()
	result := r.db.WithContext(ctx).
		Model(&domain.ProjectRecord{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{"deleted_at": now, "updated_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// HardDelete removes the row, whether or not it was soft-deleted
func (r *projectRepositoryImpl) HardDelete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.ProjectRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceAll deletes every row and writes the supplied projects, all in one transaction
func (r *projectRepositoryImpl) ReplaceAll(ctx context.Context, projects []*domain.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.ProjectRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear projects: %w", err)
		}
		for _, p := range projects {
			if err := upsert(tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// Exists reports whether a live project has the given id
func (r *projectRepositoryImpl) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.ProjectRecord{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the number of rows, soft-deleted included
func (r *projectRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.ProjectRecord{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountLive returns the number of projects that are not soft-deleted
func (r *projectRepositoryImpl) CountLive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.ProjectRecord{}).
		Where("deleted_at IS NULL").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindSoftDeletedBefore returns ids of projects soft-deleted before cutoff
func (r *projectRepositoryImpl) FindSoftDeletedBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&domain.ProjectRecord{}).
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff.UTC()).
		Order("deleted_at").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// PurgeIfDeletedBefore removes the row only while it is still soft-deleted before cutoff.
// It reports false when the row is live again, was deleted later or no longer exists.
func (r *projectRepositoryImpl) PurgeIfDeletedBefore(ctx context.Context, id string, cutoff time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NOT NULL AND deleted_at < ?", id, cutoff.UTC()).
		Delete(&domain.ProjectRecord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func findLive(db *gorm.DB, id string) (*domain.Project, error) {
	var rec domain.ProjectRecord
	if err := db.Where("id = ? AND deleted_at IS NULL", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return decodeRecord(&rec)
}

func upsert(db *gorm.DB, project *domain.Project) error {
	rec, err := encodeRecord(project)
	if err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(rec).Error
}

// encodeRecord normalizes the document, recomputes its counters and builds the row
func encodeRecord(project *domain.Project) (*domain.ProjectRecord, error) {
	project.Normalize()
	project.RecomputeCounters()

	doc, err := json.Marshal(project)
	if err != nil {
		return nil, fmt.Errorf("failed to encode project %s: %w", project.ID, err)
	}

	rec := &domain.ProjectRecord{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Status:      string(project.Status),
		Document:    datatypes.JSON(doc),
		IssueCount:  project.IssueCount,
		SprintCount: project.SprintCount,
		IsSeed:      project.IsSeed,
		SeedVersion: project.SeedVersion,
		CreatedAt:   project.CreatedAt.UTC(),
		UpdatedAt:   project.UpdatedAt.UTC(),
	}
	if project.DeletedAt != nil {
		deletedAt := project.DeletedAt.UTC()
		rec.DeletedAt = &deletedAt
	}
	return rec, nil
}

// decodeRecord rebuilds the document; a blob that does not decode is corruption, never an empty project
func decodeRecord(rec *domain.ProjectRecord) (*domain.Project, error) {
	var project domain.Project
	if err := json.Unmarshal(rec.Document, &project); err != nil {
		return nil, &domain.CorruptDocumentError{ID: rec.ID, Err: err}
	}
	project.ID = rec.ID
	project.DeletedAt = rec.DeletedAt
	project.Normalize()
	return &project, nil
}
