package repository

import (
	"errors"
	"log"

	"github.com/somang-dev/church_service/internal/domain"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	FindUserByEmail(email string) (*domain.User, error)
	FindUserById(userID uint) (*domain.User, error)
	FindUserByNamePhone(name, phone string) (*domain.User, error)
	FindUsersByName(name string) ([]domain.User, error)
	FindUsersByNameEmail(name, email string) ([]domain.User, error)
	ListUsers() ([]domain.User, error)
	CountUsers() (int64, error)
	CreateUser(user *domain.User) (*domain.User, error)
	SaveUser(user *domain.User) error

	// Audited mutations: the domain write and the audit append share one
	// storage transaction and fail or succeed together.
	CreateUserWithAudit(user *domain.User, entry *domain.AuditLog) (*domain.User, error)
	DeleteUserWithAudit(userID uint, entry *domain.AuditLog) error
	DeleteUsersWithAudit(userIDs []uint, entry *domain.AuditLog) error
}

type userRepository struct {
	db    *gorm.DB
	audit AuditLogRepository
}

func NewUserRepository(db *gorm.DB, audit AuditLogRepository) UserRepository {
	return &userRepository{db: db, audit: audit}
}

func (r *userRepository) FindUserByEmail(email string) (*domain.User, error) {
	user := &domain.User{}

	if err := r.db.First(user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("find user by email error: %v", err)
		return nil, errors.New("failed to find user by email")
	}

	return user, nil
}

func (r *userRepository) FindUserById(userID uint) (*domain.User, error) {
	user := &domain.User{}

	if err := r.db.First(user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("find user by id error: %v", err)
		return nil, errors.New("failed to find user by ID")
	}

	return user, nil
}

func (r *userRepository) FindUserByNamePhone(name, phone string) (*domain.User, error) {
	user := &domain.User{}

	if err := r.db.Where("name = ? AND phone = ?", name, phone).First(user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("find user by name/phone error: %v", err)
		return nil, errors.New("failed to find user")
	}

	return user, nil
}

func (r *userRepository) FindUsersByName(name string) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.Where("name = ?", name).Find(&users).Error; err != nil {
		log.Printf("find users by name error: %v", err)
		return nil, errors.New("failed to find users by name")
	}
	return users, nil
}

func (r *userRepository) FindUsersByNameEmail(name, email string) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.Where("name = ? AND email = ?", name, email).Find(&users).Error; err != nil {
		log.Printf("find users by name/email error: %v", err)
		return nil, errors.New("failed to find users")
	}
	return users, nil
}

func (r *userRepository) ListUsers() ([]domain.User, error) {
	var users []domain.User
	if err := r.db.Order("name ASC").Find(&users).Error; err != nil {
		log.Printf("list users error: %v", err)
		return nil, errors.New("failed to list users")
	}
	return users, nil
}

func (r *userRepository) CountUsers() (int64, error) {
	var count int64
	if err := r.db.Model(&domain.User{}).Count(&count).Error; err != nil {
		log.Printf("count users error: %v", err)
		return 0, errors.New("failed to count users")
	}
	return count, nil
}

func (r *userRepository) CreateUser(user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("nil user")
	}

	if err := r.db.Create(user).Error; err != nil {
		log.Printf("create user error: %v", err)
		return nil, errors.New("failed to create user")
	}

	return user, nil
}

func (r *userRepository) SaveUser(user *domain.User) error {
	if user == nil {
		return errors.New("nil user")
	}

	if err := r.db.Save(user).Error; err != nil {
		log.Printf("save user error: %v", err)
		return errors.New("failed to save user")
	}
	return nil
}

func (r *userRepository) CreateUserWithAudit(user *domain.User, entry *domain.AuditLog) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("nil user")
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return r.audit.Record(tx, entry)
	})
	if err != nil {
		log.Printf("create user with audit error: %v", err)
		return nil, errors.New("failed to create user")
	}

	return user, nil
}

func (r *userRepository) DeleteUserWithAudit(userID uint, entry *domain.AuditLog) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Ledger rows keep existing; the FK nulls their owner.
		if err := tx.Delete(&domain.User{}, userID).Error; err != nil {
			return err
		}
		return r.audit.Record(tx, entry)
	})
	if err != nil {
		log.Printf("delete user error: %v", err)
		return errors.New("failed to delete user")
	}
	return nil
}

func (r *userRepository) DeleteUsersWithAudit(userIDs []uint, entry *domain.AuditLog) error {
	if len(userIDs) == 0 {
		return errors.New("no users selected")
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.User{}, userIDs).Error; err != nil {
			return err
		}
		return r.audit.Record(tx, entry)
	})
	if err != nil {
		log.Printf("delete users error: %v", err)
		return errors.New("failed to delete users")
	}
	return nil
}
