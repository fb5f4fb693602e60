package domain

import "time"

const (
	AuditCreate     = "CREATE"
	AuditUpdate     = "UPDATE"
	AuditDelete     = "DELETE"
	AuditBulkCreate = "BULK_CREATE"
)

// Sentinels for EntityID when no single row id applies.
const (
	AuditEntityNew      = "new"
	AuditEntityMultiple = "multiple"
)

// AuditLog is append-only: application code never updates or deletes rows.
type AuditLog struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Action string `gorm:"type:varchar(100);not null" json:"action"`
	Entity string `gorm:"type:varchar(100);not null" json:"entity"`
	// EntityID keeps a loose reference; the target row may be gone by the
	// time anyone reads the log.
	EntityID    string    `gorm:"not null" json:"entity_id"`
	Details     string    `gorm:"type:text;not null" json:"details"`
	PerformedBy string    `gorm:"not null" json:"performed_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
