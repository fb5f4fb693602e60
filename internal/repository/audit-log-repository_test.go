package repository

import (
	"errors"
	"strings"
	"testing"

	"github.com/somang-dev/church_service/internal/domain"
	"gorm.io/gorm"
)

type fakeWriter struct {
	label  string
	err    error
	called *[]string
}

func (w fakeWriter) name() string { return w.label }

func (w fakeWriter) write(tx *gorm.DB, entry *domain.AuditLog) error {
	*w.called = append(*w.called, w.label)
	return w.err
}

func testEntry() *domain.AuditLog {
	return &domain.AuditLog{
		Action:      domain.AuditCreate,
		Entity:      "Transaction",
		EntityID:    domain.AuditEntityNew,
		Details:     "[INCOME] Tithe: 100,000",
		PerformedBy: "Administrator",
	}
}

func TestRecordUsesFirstWriterThatSucceeds(t *testing.T) {
	var called []string
	repo := &auditLogRepository{
		writers: []auditWriter{
			fakeWriter{label: "structured", err: errors.New("no such table"), called: &called},
			fakeWriter{label: "raw snake", err: nil, called: &called},
			fakeWriter{label: "raw cased", err: nil, called: &called},
		},
	}

	if err := repo.Record(nil, testEntry()); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(called) != 2 || called[0] != "structured" || called[1] != "raw snake" {
		t.Errorf("writer order = %v, want [structured, raw snake]", called)
	}
}

func TestRecordStructuredPathShortCircuits(t *testing.T) {
	var called []string
	repo := &auditLogRepository{
		writers: []auditWriter{
			fakeWriter{label: "structured", err: nil, called: &called},
			fakeWriter{label: "raw snake", err: nil, called: &called},
		},
	}

	if err := repo.Record(nil, testEntry()); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(called) != 1 {
		t.Errorf("fallback ran even though the structured path succeeded: %v", called)
	}
}

func TestRecordFailsLoudlyWhenAllPathsExhausted(t *testing.T) {
	var called []string
	repo := &auditLogRepository{
		writers: []auditWriter{
			fakeWriter{label: "structured", err: errors.New("model missing"), called: &called},
			fakeWriter{label: "raw snake", err: errors.New("relation does not exist"), called: &called},
			fakeWriter{label: "raw cased", err: errors.New("relation does not exist either"), called: &called},
		},
	}

	err := repo.Record(nil, testEntry())
	if err == nil {
		t.Fatal("Record succeeded with every writer failing")
	}
	if len(called) != 3 {
		t.Errorf("expected all 3 writers attempted, got %v", called)
	}
	// The error is a verbose internal diagnostic naming each failed path.
	for _, want := range []string{"structured", "raw snake", "raw cased", "model missing"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err.Error(), want)
		}
	}
}

func TestRecordRejectsNilEntry(t *testing.T) {
	repo := &auditLogRepository{}
	if err := repo.Record(nil, nil); err == nil {
		t.Error("Record accepted a nil entry")
	}
}

func TestRecordFallsBackInsideLiveTransaction(t *testing.T) {
	// Only the alternate-cased table exists. The structured write and the
	// snake_case raw insert both fail as real statements inside the
	// enclosing transaction; each failed attempt must be rolled back to
	// its savepoint so the last writer can still land the row and the
	// domain write commits with it.
	db := newTestDB(t, &domain.User{}, &domain.Transaction{})
	err := db.Exec(`CREATE TABLE "AuditLog" (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT, entity TEXT, entity_id TEXT,
		details TEXT, performed_by TEXT, created_at DATETIME
	)`).Error
	if err != nil {
		t.Fatalf("create alternate table: %v", err)
	}

	audit := NewAuditLogRepository(db)
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(testTransaction()).Error; err != nil {
			return err
		}
		return audit.Record(tx, testEntry())
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}

	var txnCount int64
	db.Model(&domain.Transaction{}).Count(&txnCount)
	if txnCount != 1 {
		t.Errorf("ledger rows = %d, want 1", txnCount)
	}
	var auditCount int64
	db.Raw(`SELECT COUNT(*) FROM "AuditLog"`).Scan(&auditCount)
	if auditCount != 1 {
		t.Errorf("audit rows in alternate table = %d, want 1", auditCount)
	}
}

func TestRecordExhaustionRollsBackEnclosingTransaction(t *testing.T) {
	// No audit table in any casing: every writer fails and the domain
	// write it was tracing must not survive.
	db := newTestDB(t, &domain.User{}, &domain.Transaction{})
	repo := NewTransactionRepository(db, NewAuditLogRepository(db))

	if err := repo.CreateWithAudit(testTransaction(), testEntry()); err == nil {
		t.Fatal("CreateWithAudit succeeded with no audit table anywhere")
	}

	var count int64
	db.Model(&domain.Transaction{}).Count(&count)
	if count != 0 {
		t.Errorf("ledger rows = %d, want 0 after rollback", count)
	}
}

func TestDefaultWriterChainOrder(t *testing.T) {
	repo := NewAuditLogRepository(nil).(*auditLogRepository)

	want := []string{"gorm model", "raw insert into audit_logs", `raw insert into "AuditLog"`}
	if len(repo.writers) != len(want) {
		t.Fatalf("writer count = %d, want %d", len(repo.writers), len(want))
	}
	for i, w := range repo.writers {
		if w.name() != want[i] {
			t.Errorf("writer[%d] = %q, want %q", i, w.name(), want[i])
		}
	}
}
