package repository

import (
	"testing"

	"github.com/somang-dev/church_service/internal/domain"
)

func userEntry() *domain.AuditLog {
	return &domain.AuditLog{
		Action:      domain.AuditCreate,
		Entity:      "User",
		EntityID:    domain.AuditEntityNew,
		Details:     "[MEMBER] Hong Gildong (hong@church.com)",
		PerformedBy: "Administrator",
	}
}

func TestCreateUserWithAuditPersistsRowAndTrace(t *testing.T) {
	db := newTestDB(t, ledgerModels()...)
	repo := NewUserRepository(db, NewAuditLogRepository(db))

	user := &domain.User{Name: "Hong Gildong", Email: "hong@church.com", Role: domain.RoleMember}
	if _, err := repo.CreateUserWithAudit(user, userEntry()); err != nil {
		t.Fatalf("CreateUserWithAudit: %v", err)
	}

	var userCount, auditCount int64
	db.Model(&domain.User{}).Count(&userCount)
	db.Model(&domain.AuditLog{}).Count(&auditCount)
	if userCount != 1 || auditCount != 1 {
		t.Errorf("rows = (%d user, %d audit), want (1, 1)", userCount, auditCount)
	}
}

func TestCreateUserWithAuditRollsBackWhenAuditFails(t *testing.T) {
	db := newTestDB(t, ledgerModels()...)
	repo := NewUserRepository(db, failingAudit{})

	user := &domain.User{Name: "Hong Gildong", Email: "hong@church.com", Role: domain.RoleMember}
	if _, err := repo.CreateUserWithAudit(user, userEntry()); err == nil {
		t.Fatal("CreateUserWithAudit succeeded with a failing audit append")
	}

	var count int64
	db.Model(&domain.User{}).Count(&count)
	if count != 0 {
		t.Errorf("user rows = %d, want 0 after rollback", count)
	}
}

func TestDeleteUserWithAuditRollsBackWhenAuditFails(t *testing.T) {
	db := newTestDB(t, ledgerModels()...)
	working := NewUserRepository(db, NewAuditLogRepository(db))

	user := &domain.User{Name: "Hong Gildong", Email: "hong@church.com", Role: domain.RoleMember}
	if _, err := working.CreateUserWithAudit(user, userEntry()); err != nil {
		t.Fatalf("CreateUserWithAudit: %v", err)
	}

	broken := NewUserRepository(db, failingAudit{})
	if err := broken.DeleteUserWithAudit(user.ID, userEntry()); err == nil {
		t.Fatal("DeleteUserWithAudit succeeded with a failing audit append")
	}

	if _, err := working.FindUserById(user.ID); err != nil {
		t.Errorf("user gone after a rolled-back delete: %v", err)
	}
}
