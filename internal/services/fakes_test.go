package services

import (
	"errors"
	"time"

	"github.com/somang-dev/church_service/internal/domain"
	"github.com/somang-dev/church_service/internal/repository"
)

// In-memory fakes for the repository interfaces. They record the audit
// entries handed to the *WithAudit methods so tests can assert that every
// mutation carries exactly one trace.

type fakeUserRepo struct {
	users  map[uint]*domain.User
	nextID uint
	audits []domain.AuditLog
	saved  []uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*domain.User), nextID: 1}
}

func (r *fakeUserRepo) add(u domain.User) *domain.User {
	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = &u
	return r.users[u.ID]
}

func (r *fakeUserRepo) FindUserByEmail(email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindUserById(userID uint) (*domain.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepo) FindUserByNamePhone(name, phone string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Name == name && u.Phone != nil && *u.Phone == phone {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindUsersByName(name string) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if u.Name == name {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) FindUsersByNameEmail(name, email string) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if u.Name == name && u.Email == email {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ListUsers() ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) CountUsers() (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) CreateUser(user *domain.User) (*domain.User, error) {
	created := r.add(*user)
	user.ID = created.ID
	return created, nil
}

func (r *fakeUserRepo) SaveUser(user *domain.User) error {
	if user == nil || user.ID == 0 {
		return errors.New("nil user")
	}
	c := *user
	r.users[user.ID] = &c
	r.saved = append(r.saved, user.ID)
	return nil
}

func (r *fakeUserRepo) CreateUserWithAudit(user *domain.User, entry *domain.AuditLog) (*domain.User, error) {
	created := r.add(*user)
	user.ID = created.ID
	r.audits = append(r.audits, *entry)
	return created, nil
}

func (r *fakeUserRepo) DeleteUserWithAudit(userID uint, entry *domain.AuditLog) error {
	delete(r.users, userID)
	r.audits = append(r.audits, *entry)
	return nil
}

func (r *fakeUserRepo) DeleteUsersWithAudit(userIDs []uint, entry *domain.AuditLog) error {
	for _, id := range userIDs {
		delete(r.users, id)
	}
	r.audits = append(r.audits, *entry)
	return nil
}

type fakeTxRepo struct {
	txns   map[uint]*domain.Transaction
	nextID uint
	audits []domain.AuditLog
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{txns: make(map[uint]*domain.Transaction), nextID: 1}
}

func (r *fakeTxRepo) add(t domain.Transaction) *domain.Transaction {
	t.ID = r.nextID
	r.nextID++
	r.txns[t.ID] = &t
	return r.txns[t.ID]
}

func (r *fakeTxRepo) FindTransactionById(id uint) (*domain.Transaction, error) {
	t, ok := r.txns[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *t
	return &c, nil
}

func (r *fakeTxRepo) ListTransactions(userID uint, offset, limit int) ([]domain.Transaction, int64, error) {
	var all []domain.Transaction
	for _, t := range r.txns {
		if userID != 0 && (t.UserID == nil || *t.UserID != userID) {
			continue
		}
		all = append(all, *t)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []domain.Transaction{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeTxRepo) ListIncomeByUser(userID uint, since *time.Time) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, t := range r.txns {
		if t.UserID == nil || *t.UserID != userID || t.Type != domain.TypeIncome {
			continue
		}
		if since != nil && t.Date.Before(*since) {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTxRepo) ListIncomeWithOwner(userID uint) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, t := range r.txns {
		if t.Type != domain.TypeIncome || t.UserID == nil {
			continue
		}
		if userID != 0 && *t.UserID != userID {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTxRepo) ListSince(since time.Time) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, t := range r.txns {
		if !t.Date.Before(since) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTxRepo) ListIncomeByUserBetween(userID uint, from, to time.Time) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, t := range r.txns {
		if t.UserID == nil || *t.UserID != userID || t.Type != domain.TypeIncome {
			continue
		}
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTxRepo) CreateWithAudit(txn *domain.Transaction, entry *domain.AuditLog) error {
	created := r.add(*txn)
	txn.ID = created.ID
	r.audits = append(r.audits, *entry)
	return nil
}

func (r *fakeTxRepo) UpdateWithAudit(txn *domain.Transaction, entry *domain.AuditLog) error {
	if _, ok := r.txns[txn.ID]; !ok {
		return errors.New("failed to update transaction")
	}
	c := *txn
	r.txns[txn.ID] = &c
	r.audits = append(r.audits, *entry)
	return nil
}

func (r *fakeTxRepo) DeleteWithAudit(id uint, entry *domain.AuditLog) error {
	delete(r.txns, id)
	r.audits = append(r.audits, *entry)
	return nil
}

func (r *fakeTxRepo) CreateBatchWithAudit(txns []domain.Transaction, entry *domain.AuditLog) error {
	for _, t := range txns {
		r.add(t)
	}
	r.audits = append(r.audits, *entry)
	return nil
}

type fakeProducer struct {
	keys []string
}

func (p *fakeProducer) PublishMessage(key, value []byte) error {
	p.keys = append(p.keys, string(key))
	return nil
}
