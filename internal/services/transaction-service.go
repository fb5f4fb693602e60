package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/somang-dev/church_service/internal/domain"
	"github.com/somang-dev/church_service/internal/dto"
	"github.com/somang-dev/church_service/internal/helper"
	"github.com/somang-dev/church_service/internal/interfaces"
	"github.com/somang-dev/church_service/internal/repository"
	"github.com/somang-dev/church_service/pkg/utils"
)

const transactionPageSize = 20

// donationTypeCode marks religious-organization donations on the yearly
// tax statement.
const donationTypeCode = "41"

type TransactionService interface {
	GetTransactions(session dto.AuthResponse, page int) (*dto.TransactionPage, error)
	AddTransaction(session dto.AuthResponse, input dto.TransactionRequest) error
	UpdateTransaction(session dto.AuthResponse, id uint, input dto.TransactionRequest) error
	DeleteTransaction(session dto.AuthResponse, id uint) error
	AddBulkTransactions(session dto.AuthResponse, input dto.BulkTransactionRequest) error

	GetSummaryStats(session dto.AuthResponse) (*dto.SummaryStats, error)
	GetTaxData(session dto.AuthResponse) ([]dto.TaxRow, error)
	GetDonationReceiptData(session dto.AuthResponse) (*dto.ReceiptData, error)
}

type transactionService struct {
	repo     repository.TransactionRepository
	userRepo repository.UserRepository
	crypto   helper.Crypto
	producer interfaces.ProducerHandler
}

func NewTransactionService(
	repo repository.TransactionRepository,
	userRepo repository.UserRepository,
	crypto helper.Crypto,
	producer interfaces.ProducerHandler,
) TransactionService {
	return &transactionService{
		repo:     repo,
		userRepo: userRepo,
		crypto:   crypto,
		producer: producer,
	}
}

func (s *transactionService) GetTransactions(session dto.AuthResponse, page int) (*dto.TransactionPage, error) {
	if session.UserID == 0 {
		// no session -> empty result, not an error
		return &dto.TransactionPage{Transactions: []domain.Transaction{}}, nil
	}

	if page < 1 {
		page = 1
	}

	scope := uint(0)
	if session.Role != domain.RoleAdmin {
		scope = session.UserID
	}

	txns, total, err := s.repo.ListTransactions(scope, (page-1)*transactionPageSize, transactionPageSize)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + transactionPageSize - 1) / transactionPageSize)
	return &dto.TransactionPage{
		Transactions: txns,
		Total:        total,
		TotalPages:   totalPages,
	}, nil
}

func validateTransactionInput(amount int, txType string) error {
	if amount <= 0 {
		return errors.New("invalid amount")
	}
	if txType != domain.TypeIncome && txType != domain.TypeExpense {
		return errors.New("invalid transaction type")
	}
	return nil
}

func parseEffectiveDate(raw string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, errors.New("invalid date")
	}
	return date, nil
}

func requireAdmin(session dto.AuthResponse) error {
	if session.UserID == 0 || session.Role != domain.RoleAdmin {
		return errors.New("permission denied")
	}
	return nil
}

// performedBy prefers the display name, falling back to the user id.
func performedBy(session dto.AuthResponse) string {
	if session.Name != "" {
		return session.Name
	}
	return fmt.Sprintf("%d", session.UserID)
}

func (s *transactionService) AddTransaction(session dto.AuthResponse, input dto.TransactionRequest) error {
	if err := requireAdmin(session); err != nil {
		return err
	}
	if err := validateTransactionInput(input.Amount, input.Type); err != nil {
		return err
	}
	if strings.TrimSpace(input.Category) == "" {
		return errors.New("category is required")
	}
	date, err := parseEffectiveDate(input.Date)
	if err != nil {
		return err
	}

	txn := &domain.Transaction{
		Amount:   input.Amount,
		Type:     input.Type,
		Category: strings.TrimSpace(input.Category),
		Date:     date,
		UserID:   input.UserID,
	}
	if d := strings.TrimSpace(input.Description); d != "" {
		txn.Description = &d
	}

	entry := &domain.AuditLog{
		Action:      domain.AuditCreate,
		Entity:      "Transaction",
		EntityID:    domain.AuditEntityNew,
		Details:     fmt.Sprintf("[%s] %s: %s", input.Type, txn.Category, utils.FormatAmount(input.Amount)),
		PerformedBy: performedBy(session),
		CreatedAt:   time.Now(),
	}

	if err := s.repo.CreateWithAudit(txn, entry); err != nil {
		return err
	}

	s.invalidateLedger(domain.AuditCreate)
	return nil
}

func (s *transactionService) UpdateTransaction(session dto.AuthResponse, id uint, input dto.TransactionRequest) error {
	if err := requireAdmin(session); err != nil {
		return err
	}
	if err := validateTransactionInput(input.Amount, input.Type); err != nil {
		return err
	}
	date, err := parseEffectiveDate(input.Date)
	if err != nil {
		return err
	}

	original, err := s.repo.FindTransactionById(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errors.New("transaction not found")
		}
		return err
	}

	// Describe an owner change by name, not id, so the log reads well
	// even after the member rows are gone.
	ownerChange := ""
	if !sameOwner(original.UserID, input.UserID) {
		before := "None"
		if original.User != nil {
			before = original.User.Name
		} else if original.UserID != nil {
			before = "Unknown"
		}
		after := "None"
		if input.UserID != nil {
			if u, uErr := s.userRepo.FindUserById(*input.UserID); uErr == nil {
				after = u.Name
			} else {
				after = "Unknown"
			}
		}
		ownerChange = fmt.Sprintf(" / User: %s -> %s", before, after)
	}

	updated := &domain.Transaction{
		ID:       id,
		Amount:   input.Amount,
		Type:     input.Type,
		Category: strings.TrimSpace(input.Category),
		Date:     date,
		UserID:   input.UserID,
	}
	if d := strings.TrimSpace(input.Description); d != "" {
		updated.Description = &d
	}

	entry := &domain.AuditLog{
		Action:   domain.AuditUpdate,
		Entity:   "Transaction",
		EntityID: fmt.Sprintf("%d", id),
		Details: fmt.Sprintf("[UPDATE] %s -> %s / %s -> %s%s",
			utils.FormatAmount(original.Amount), utils.FormatAmount(input.Amount),
			original.Category, updated.Category, ownerChange),
		PerformedBy: performedBy(session),
		CreatedAt:   time.Now(),
	}

	if err := s.repo.UpdateWithAudit(updated, entry); err != nil {
		return err
	}

	s.invalidateLedger(domain.AuditUpdate)
	return nil
}

func (s *transactionService) DeleteTransaction(session dto.AuthResponse, id uint) error {
	if err := requireAdmin(session); err != nil {
		return err
	}

	original, err := s.repo.FindTransactionById(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errors.New("transaction not found")
		}
		return err
	}

	entry := &domain.AuditLog{
		Action:      domain.AuditDelete,
		Entity:      "Transaction",
		EntityID:    fmt.Sprintf("%d", id),
		Details:     fmt.Sprintf("[DELETE] %s: %s", original.Category, utils.FormatAmount(original.Amount)),
		PerformedBy: performedBy(session),
		CreatedAt:   time.Now(),
	}

	if err := s.repo.DeleteWithAudit(id, entry); err != nil {
		return err
	}

	s.invalidateLedger(domain.AuditDelete)
	return nil
}

func (s *transactionService) AddBulkTransactions(session dto.AuthResponse, input dto.BulkTransactionRequest) error {
	if err := requireAdmin(session); err != nil {
		return err
	}

	date, err := parseEffectiveDate(input.Date)
	if err != nil {
		return err
	}

	txns := make([]domain.Transaction, 0, len(input.Items))
	for _, item := range input.Items {
		txType := item.Type
		if txType == "" {
			txType = domain.TypeIncome
		}
		if err := validateTransactionInput(item.Amount, txType); err != nil {
			return err
		}
		if strings.TrimSpace(item.Category) == "" {
			return errors.New("category is required")
		}

		txn := domain.Transaction{
			Amount:   item.Amount,
			Type:     txType,
			Category: strings.TrimSpace(item.Category),
			Date:     date,
			UserID:   item.UserID,
		}
		if d := strings.TrimSpace(item.Description); d != "" {
			txn.Description = &d
		}
		txns = append(txns, txn)
	}

	if len(txns) == 0 {
		return errors.New("no items to register")
	}

	entry := &domain.AuditLog{
		Action:      domain.AuditBulkCreate,
		Entity:      "Transaction",
		EntityID:    domain.AuditEntityMultiple,
		Details:     fmt.Sprintf("[BULK] %d entries registered", len(txns)),
		PerformedBy: performedBy(session),
		CreatedAt:   time.Now(),
	}

	if err := s.repo.CreateBatchWithAudit(txns, entry); err != nil {
		return err
	}

	s.invalidateLedger(domain.AuditBulkCreate)
	return nil
}

func (s *transactionService) GetSummaryStats(session dto.AuthResponse) (*dto.SummaryStats, error) {
	if session.UserID == 0 {
		return &dto.SummaryStats{}, nil
	}

	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	if session.Role == domain.RoleAdmin {
		txns, err := s.repo.ListSince(firstOfMonth)
		if err != nil {
			return nil, err
		}

		stats := &dto.SummaryStats{}
		for _, t := range txns {
			switch t.Type {
			case domain.TypeIncome:
				stats.Income += t.Amount
			case domain.TypeExpense:
				stats.Expense += t.Amount
			}
		}
		stats.Balance = stats.Income - stats.Expense
		return stats, nil
	}

	// Members: this month's giving plus lifetime total in Balance.
	monthTxns, err := s.repo.ListIncomeByUser(session.UserID, &firstOfMonth)
	if err != nil {
		return nil, err
	}
	allTxns, err := s.repo.ListIncomeByUser(session.UserID, nil)
	if err != nil {
		return nil, err
	}

	stats := &dto.SummaryStats{}
	for _, t := range monthTxns {
		stats.Income += t.Amount
	}
	for _, t := range allTxns {
		stats.Balance += t.Amount
	}
	return stats, nil
}

func (s *transactionService) GetTaxData(session dto.AuthResponse) ([]dto.TaxRow, error) {
	if session.UserID == 0 {
		return []dto.TaxRow{}, nil
	}

	scope := uint(0)
	if session.Role != domain.RoleAdmin {
		scope = session.UserID
	}

	donations, err := s.repo.ListIncomeWithOwner(scope)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.TaxRow, 0, len(donations))
	for _, d := range donations {
		name := "Unknown"
		residentID := ""
		address := ""
		if d.User != nil {
			name = d.User.Name
			if d.User.ResidentID != nil {
				residentID = s.crypto.Decrypt(*d.User.ResidentID)
			}
			if d.User.Address != nil {
				address = *d.User.Address
			}
		}
		rows = append(rows, dto.TaxRow{
			Date:       d.Date.Format("20060102"),
			Name:       name,
			ResidentID: residentID,
			Address:    address,
			Amount:     d.Amount,
			Category:   d.Category,
			Type:       donationTypeCode,
		})
	}
	return rows, nil
}

func (s *transactionService) GetDonationReceiptData(session dto.AuthResponse) (*dto.ReceiptData, error) {
	if session.UserID == 0 {
		return nil, errors.New("login required")
	}

	user, err := s.userRepo.FindUserById(session.UserID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	now := time.Now()
	from := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	to := time.Date(now.Year(), 12, 31, 23, 59, 59, 0, now.Location())

	txns, err := s.repo.ListIncomeByUserBetween(session.UserID, from, to)
	if err != nil {
		return nil, err
	}

	data := &dto.ReceiptData{
		Name: user.Name,
		Year: now.Year(),
	}
	if user.ResidentID != nil {
		data.ResidentID = s.crypto.Decrypt(*user.ResidentID)
	}
	if user.Address != nil {
		data.Address = *user.Address
	}
	for _, t := range txns {
		data.Lines = append(data.Lines, dto.ReceiptLine{
			Date:     t.Date.Format("2006-01-02"),
			Category: t.Category,
			Amount:   t.Amount,
		})
		data.TotalAmount += t.Amount
	}
	return data, nil
}

func sameOwner(a, b *uint) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// invalidateLedger tells rendering collaborators to refresh the ledger
// view. Dashboard, tax and audit views tolerate staleness and are left
// alone. Publish failures never fail the mutation.
func (s *transactionService) invalidateLedger(action string) {
	if s.producer == nil {
		return
	}
	payload := fmt.Sprintf(`{"view":"ledger","entity":"Transaction","action":"%s","at":"%s"}`,
		action, time.Now().Format(time.RFC3339))
	_ = s.producer.PublishMessage([]byte("ledger.invalidate"), []byte(payload))
}
