package repository

import (
	"errors"
	"log"
	"time"

	"github.com/somang-dev/church_service/internal/domain"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	FindTransactionById(id uint) (*domain.Transaction, error)
	// ListTransactions returns one page ordered by effective date then
	// creation time, newest first. userID == 0 means no owner scoping.
	ListTransactions(userID uint, offset, limit int) ([]domain.Transaction, int64, error)
	ListIncomeByUser(userID uint, since *time.Time) ([]domain.Transaction, error)
	ListIncomeWithOwner(userID uint) ([]domain.Transaction, error)
	ListSince(since time.Time) ([]domain.Transaction, error)
	ListIncomeByUserBetween(userID uint, from, to time.Time) ([]domain.Transaction, error)

	CreateWithAudit(txn *domain.Transaction, entry *domain.AuditLog) error
	UpdateWithAudit(txn *domain.Transaction, entry *domain.AuditLog) error
	DeleteWithAudit(id uint, entry *domain.AuditLog) error
	CreateBatchWithAudit(txns []domain.Transaction, entry *domain.AuditLog) error
}

type transactionRepository struct {
	db    *gorm.DB
	audit AuditLogRepository
}

func NewTransactionRepository(db *gorm.DB, audit AuditLogRepository) TransactionRepository {
	return &transactionRepository{db: db, audit: audit}
}

func (r *transactionRepository) FindTransactionById(id uint) (*domain.Transaction, error) {
	txn := &domain.Transaction{}

	if err := r.db.Preload("User").First(txn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("find transaction by id error: %v", err)
		return nil, errors.New("failed to find transaction")
	}

	return txn, nil
}

func (r *transactionRepository) ListTransactions(userID uint, offset, limit int) ([]domain.Transaction, int64, error) {
	q := r.db.Model(&domain.Transaction{})
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("count transactions error: %v", err)
		return nil, 0, errors.New("failed to count transactions")
	}

	var txns []domain.Transaction
	err := q.Preload("User").
		Order("date DESC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&txns).Error
	if err != nil {
		log.Printf("list transactions error: %v", err)
		return nil, 0, errors.New("failed to list transactions")
	}

	return txns, total, nil
}

func (r *transactionRepository) ListIncomeByUser(userID uint, since *time.Time) ([]domain.Transaction, error) {
	q := r.db.Where("user_id = ? AND type = ?", userID, domain.TypeIncome)
	if since != nil {
		q = q.Where("date >= ?", *since)
	}

	var txns []domain.Transaction
	if err := q.Find(&txns).Error; err != nil {
		log.Printf("list income by user error: %v", err)
		return nil, errors.New("failed to list income")
	}
	return txns, nil
}

// ListIncomeWithOwner returns income rows that have an owning member, for
// the tax export. userID == 0 means all members.
func (r *transactionRepository) ListIncomeWithOwner(userID uint) ([]domain.Transaction, error) {
	q := r.db.Where("type = ? AND user_id IS NOT NULL", domain.TypeIncome)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}

	var txns []domain.Transaction
	if err := q.Preload("User").Order("date ASC").Find(&txns).Error; err != nil {
		log.Printf("list income with owner error: %v", err)
		return nil, errors.New("failed to list donations")
	}
	return txns, nil
}

func (r *transactionRepository) ListSince(since time.Time) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	if err := r.db.Where("date >= ?", since).Find(&txns).Error; err != nil {
		log.Printf("list transactions since error: %v", err)
		return nil, errors.New("failed to list transactions")
	}
	return txns, nil
}

func (r *transactionRepository) ListIncomeByUserBetween(userID uint, from, to time.Time) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	err := r.db.
		Where("user_id = ? AND type = ? AND date >= ? AND date <= ?", userID, domain.TypeIncome, from, to).
		Order("date ASC").
		Find(&txns).Error
	if err != nil {
		log.Printf("list income between error: %v", err)
		return nil, errors.New("failed to list income")
	}
	return txns, nil
}

func (r *transactionRepository) CreateWithAudit(txn *domain.Transaction, entry *domain.AuditLog) error {
	if txn == nil {
		return errors.New("nil transaction")
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		return r.audit.Record(tx, entry)
	})
	if err != nil {
		log.Printf("create transaction error: %v", err)
		return errors.New("failed to create transaction")
	}
	return nil
}

func (r *transactionRepository) UpdateWithAudit(txn *domain.Transaction, entry *domain.AuditLog) error {
	if txn == nil || txn.ID == 0 {
		return errors.New("nil transaction")
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Update through a map so a cleared owner really becomes NULL;
		// struct updates skip zero values.
		if err := tx.Model(txn).
			Updates(map[string]interface{}{
				"amount":      txn.Amount,
				"type":        txn.Type,
				"category":    txn.Category,
				"description": txn.Description,
				"date":        txn.Date,
				"user_id":     txn.UserID,
			}).Error; err != nil {
			return err
		}
		return r.audit.Record(tx, entry)
	})
	if err != nil {
		log.Printf("update transaction error: %v", err)
		return errors.New("failed to update transaction")
	}
	return nil
}

func (r *transactionRepository) DeleteWithAudit(id uint, entry *domain.AuditLog) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.Transaction{}, id).Error; err != nil {
			return err
		}
		return r.audit.Record(tx, entry)
	})
	if err != nil {
		log.Printf("delete transaction error: %v", err)
		return errors.New("failed to delete transaction")
	}
	return nil
}

func (r *transactionRepository) CreateBatchWithAudit(txns []domain.Transaction, entry *domain.AuditLog) error {
	if len(txns) == 0 {
		return errors.New("no transactions to create")
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&txns).Error; err != nil {
			return err
		}
		return r.audit.Record(tx, entry)
	})
	if err != nil {
		log.Printf("bulk create transactions error: %v", err)
		return errors.New("failed to create transactions")
	}
	return nil
}
