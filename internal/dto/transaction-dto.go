package dto

import "github.com/somang-dev/church_service/internal/domain"

type TransactionRequest struct {
	Amount      int    `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	// Date is the effective date in "2006-01-02" form.
	Date   string `json:"date"`
	UserID *uint  `json:"user_id"`
}

type BulkTransactionItem struct {
	Amount      int    `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	UserID      *uint  `json:"user_id"`
}

type BulkTransactionRequest struct {
	Date  string                `json:"date"`
	Items []BulkTransactionItem `json:"items"`
}

type TransactionPage struct {
	Transactions []domain.Transaction `json:"transactions"`
	Total        int64                `json:"total"`
	TotalPages   int                  `json:"total_pages"`
}

// SummaryStats carries dashboard totals. For members, Income is this
// month's giving and Balance doubles as the lifetime total.
type SummaryStats struct {
	Income  int `json:"income"`
	Expense int `json:"expense"`
	Balance int `json:"balance"`
}

// TaxRow is the flat export shape consumed by the spreadsheet collaborator.
type TaxRow struct {
	// Date is formatted YYYYMMDD as the tax office expects.
	Date       string `json:"date"`
	Name       string `json:"name"`
	ResidentID string `json:"resident_id"`
	Address    string `json:"address"`
	Amount     int    `json:"amount"`
	Category   string `json:"category"`
	// Type is the donation type code; "41" marks a religious-organization
	// donation.
	Type string `json:"type"`
}

type ReceiptLine struct {
	Date     string `json:"date"`
	Category string `json:"category"`
	Amount   int    `json:"amount"`
}

type ReceiptData struct {
	Name        string        `json:"name"`
	ResidentID  string        `json:"resident_id"`
	Address     string        `json:"address"`
	Year        int           `json:"year"`
	Lines       []ReceiptLine `json:"transactions"`
	TotalAmount int           `json:"total_amount"`
}
