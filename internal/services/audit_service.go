package services

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"sparkletidy/internal/logger"
	"sparkletidy/internal/models"
)

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer backed by the audit_logs table.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(ctx context.Context, actor, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	entry := &models.AuditLog{
		Actor:        actor,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      marshalChanges(action, changes),
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"actor", actor,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// logAuditService writes audit events to the application log. It serves
// deployments without a relational database.
type logAuditService struct{}

// NewLogAuditService creates an AuditServicer that only logs.
func NewLogAuditService() AuditServicer {
	return logAuditService{}
}

func (logAuditService) Log(_ context.Context, actor, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	logger.Named("audit").Infow(action,
		"actor", actor,
		"resource_type", resourceType,
		"resource_id", resourceID,
		"ip_address", ipAddress,
		"changes", marshalChanges(action, changes),
	)
}

func marshalChanges(action string, changes map[string]any) string {
	if changes == nil {
		return ""
	}
	data, err := json.Marshal(changes)
	if err != nil {
		logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
		return "{}"
	}
	return string(data)
}
