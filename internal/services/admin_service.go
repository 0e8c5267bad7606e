// internal/services/admin_service.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/imob-backoffice/internal/models"
	"github.com/javajoker/imob-backoffice/internal/utils"
)

// AdminService holds the administrator-only views, currently the audit
// trail written by the request middleware.
type AdminService struct {
	db *gorm.DB
}

type AuditEntry struct {
	UserID       *uuid.UUID
	Action       string
	ResourceType string
	ResourceID   *uuid.UUID
	NewValues    map[string]interface{}
	StatusCode   int
	IPAddress    string
	UserAgent    string
}

var auditSortFields = []string{"created_at", "action", "resource_type"}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) RecordAudit(ctx context.Context, entry AuditEntry) error {
	auditLog := &models.AuditLog{
		UserID:       entry.UserID,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		NewValues:    entry.NewValues,
		StatusCode:   entry.StatusCode,
		IPAddress:    entry.IPAddress,
		UserAgent:    entry.UserAgent,
	}

	if err := s.db.WithContext(ctx).Create(auditLog).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

func (s *AdminService) ListAuditLogs(ctx context.Context, actor *models.User, q ListQuery) (*utils.PaginationResult, error) {
	if actor == nil || !actor.Role.IsAdmin() {
		return nil, fmt.Errorf("%w: audit logs are restricted to administrators", ErrForbidden)
	}

	db := s.db.WithContext(ctx).Model(&models.AuditLog{})
	db = whereUUID(db, "user_id", q.Filter("userId"))
	db = whereEqual(db, "action", q.Filter("action"))
	db = whereEqual(db, "resource_type", q.Filter("resourceType"))
	db = whereUUID(db, "resource_id", q.Filter("resourceId"))
	db = whereDateRange(db, "created_at", q.Filter("from"), q.Filter("to"))

	logs := []models.AuditLog{}
	result, err := paginate(db, q, auditSortFields, &logs, "User")
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return &result, nil
}
