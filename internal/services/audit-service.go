package services

import (
	"github.com/somang-dev/church_service/internal/domain"
	"github.com/somang-dev/church_service/internal/dto"
	"github.com/somang-dev/church_service/internal/repository"
)

type AuditService interface {
	// GetAuditLogs returns the most recent entries, newest first. Anyone
	// without the ADMIN role gets an empty list, never an error.
	GetAuditLogs(session dto.AuthResponse) ([]domain.AuditLog, error)
}

type auditService struct {
	repo repository.AuditLogRepository
}

func NewAuditService(repo repository.AuditLogRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) GetAuditLogs(session dto.AuthResponse) ([]domain.AuditLog, error) {
	if session.UserID == 0 || session.Role != domain.RoleAdmin {
		return []domain.AuditLog{}, nil
	}
	return s.repo.ListRecent(repository.MaxAuditLogRead)
}
