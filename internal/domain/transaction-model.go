package domain

import "time"

const (
	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"
)

type Transaction struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// Amount is in the smallest currency unit and must be positive.
	Amount   int    `gorm:"not null" json:"amount"`
	Type     string `gorm:"type:varchar(20);not null" json:"type"`
	Category string `gorm:"not null" json:"category"`
	// Description is free text shown alongside the entry.
	Description *string `json:"description,omitempty"`
	// Date is the effective calendar date, distinct from CreatedAt.
	Date time.Time `gorm:"not null;index" json:"date"`
	// UserID is nil for church-level entries. Deleting the owning user
	// nullifies this reference instead of removing the ledger row.
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
