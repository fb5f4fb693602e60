package repository

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/somang-dev/church_service/internal/domain"
	"gorm.io/gorm"
)

// MaxAuditLogRead caps how many rows an audit listing may pull.
const MaxAuditLogRead = 1000

type AuditLogRepository interface {
	// Record appends one audit entry inside the caller's transaction. If it
	// returns an error the caller's whole transaction must roll back: a
	// mutation without a trace is worse than no mutation at all.
	Record(tx *gorm.DB, entry *domain.AuditLog) error
	ListRecent(limit int) ([]domain.AuditLog, error)
}

// auditWriter is one write strategy for an audit entry. Implementations
// target the same logical table through different schema assumptions.
type auditWriter interface {
	name() string
	write(tx *gorm.DB, entry *domain.AuditLog) error
}

// structuredWriter goes through the gorm model, the normal path.
type structuredWriter struct{}

func (structuredWriter) name() string { return "gorm model" }

func (structuredWriter) write(tx *gorm.DB, entry *domain.AuditLog) error {
	return tx.Create(entry).Error
}

// rawWriter inserts with a schema-qualified statement against a fixed
// table name. It exists for deployments where the migrated audit table
// does not line up with the model, e.g. a casing drift left behind by an
// older migration tool.
type rawWriter struct {
	table string
}

func (w rawWriter) name() string { return "raw insert into " + w.table }

func (w rawWriter) write(tx *gorm.DB, entry *domain.AuditLog) error {
	stmt := fmt.Sprintf(
		`INSERT INTO %s (action, entity, entity_id, details, performed_by, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		w.table,
	)
	return tx.Exec(stmt,
		entry.Action, entry.Entity, entry.EntityID,
		entry.Details, entry.PerformedBy, entry.CreatedAt,
	).Error
}

type auditLogRepository struct {
	db *gorm.DB
	// writers is the ordered fallback chain: structured first, then raw
	// inserts against the expected and the alternate-cased table name.
	writers []auditWriter
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{
		db: db,
		writers: []auditWriter{
			structuredWriter{},
			rawWriter{table: "audit_logs"},
			rawWriter{table: `"AuditLog"`},
		},
	}
}

func (r *auditLogRepository) Record(tx *gorm.DB, entry *domain.AuditLog) error {
	if entry == nil {
		return errors.New("nil audit entry")
	}

	// Each attempt runs under its own savepoint. Postgres marks the whole
	// transaction aborted after any failed statement, so without the
	// rollback-to the later writers (and the table diagnostic below) would
	// be rejected with SQLSTATE 25P02 no matter what.
	savepoints := tx != nil && tx.Dialector != nil

	var failures []string
	for i, w := range r.writers {
		sp := fmt.Sprintf("audit_write_%d", i)
		if savepoints {
			tx.SavePoint(sp)
		}
		err := w.write(tx, entry)
		if err == nil {
			return nil
		}
		if savepoints {
			tx.RollbackTo(sp)
		}
		failures = append(failures, fmt.Sprintf("%s: %v", w.name(), err))
	}

	// Every path is exhausted. Produce a deliberately verbose internal
	// error, including what the migrator can actually see, so an operator
	// can diagnose the schema drift. Handlers must not echo this to users.
	tables := []string{"(unavailable)"}
	if tx != nil && tx.Dialector != nil {
		if listed, tErr := tx.Migrator().GetTables(); tErr == nil {
			tables = listed
		} else {
			tables = []string{fmt.Sprintf("(table listing failed: %v)", tErr)}
		}
	}
	err := fmt.Errorf("audit log write failed on all paths [%s]; visible tables: %s",
		strings.Join(failures, "; "), strings.Join(tables, ", "))
	log.Printf("audit record error: %v", err)
	return err
}

func (r *auditLogRepository) ListRecent(limit int) ([]domain.AuditLog, error) {
	if limit <= 0 || limit > MaxAuditLogRead {
		limit = MaxAuditLogRead
	}

	var logs []domain.AuditLog
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		log.Printf("list audit logs error: %v", err)
		return nil, errors.New("failed to list audit logs")
	}
	return logs, nil
}
