package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"project-planner-api/internal/domain"
)

const loadBatchSize = 200

// ExportSnapshot writes the engine's current image to path.
// The image is produced next to the target and swapped in with a rename,
// so a crash mid-export leaves the previous snapshot intact.
func ExportSnapshot(ctx context.Context, db *gorm.DB, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp := path + ".tmp"
	// VACUUM INTO refuses to overwrite a non-empty file
	if err := os.Remove(tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear stale export: %w", err)
	}

	stmt := fmt.Sprintf("VACUUM INTO '%s'", strings.ReplaceAll(tmp, "'", "''"))
	if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to export image: %w", err)
	}

	if err := atomic.ReplaceFile(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot copies every project row from the snapshot at path into db.
// A missing snapshot loads nothing. A snapshot that cannot be read is an error:
// starting empty would overwrite it on the next flush.
func LoadSnapshot(ctx context.Context, db *gorm.DB, path string) (int, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to stat snapshot: %w", err)
	}

	dsn, err := readOnlyURI(path)
	if err != nil {
		return 0, err
	}
	src, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer func() { _ = Close(src) }()

	// HasTable swallows read errors, so probe the catalog directly
	var tables int64
	if err := src.WithContext(ctx).
		Raw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", domain.ProjectRecord{}.TableName()).
		Scan(&tables).Error; err != nil {
		return 0, fmt.Errorf("failed to read snapshot catalog: %w", err)
	}
	if tables == 0 {
		return 0, nil
	}

	var records []domain.ProjectRecord
	if err := src.WithContext(ctx).Find(&records).Error; err != nil {
		return 0, fmt.Errorf("failed to read snapshot rows: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	if err := db.WithContext(ctx).CreateInBatches(&records, loadBatchSize).Error; err != nil {
		return 0, fmt.Errorf("failed to load snapshot rows: %w", err)
	}
	return len(records), nil
}

// readOnlyURI builds a read-only SQLite URI for path. The path is made absolute
// and escaped so '?' and '#' in a file name are not taken as URI syntax.
func readOnlyURI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve snapshot path: %w", err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: "mode=ro"}
	return u.String(), nil
}
