package repository

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/somang-dev/church_service/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database and migrates the given
// models. A single connection keeps gorm's pool from opening a second,
// empty memory database behind the first one.
func newTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("migrate test db: %v", err)
		}
	}
	return db
}

// failingAudit refuses every append, standing in for a schema so broken
// that no fallback path can land a row.
type failingAudit struct{}

func (failingAudit) Record(tx *gorm.DB, entry *domain.AuditLog) error {
	return errors.New("audit log write failed on all paths")
}

func (failingAudit) ListRecent(limit int) ([]domain.AuditLog, error) {
	return nil, nil
}
