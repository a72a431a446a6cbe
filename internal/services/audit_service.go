package services

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/staffhousing/backoffice-api/internal/utils"
)

// Audit actions written to the activity log
const (
	AuditLogin             = "login"
	AuditLoginFailed       = "login_failed"
	AuditLogout            = "logout"
	AuditAssignmentCreate  = "assignment_create"
	AuditAssignmentDelete  = "assignment_delete"
	AuditDepositPaid       = "deposit_paid"
	AuditStaffImport       = "staff_import"
	AuditPurchaseOrderRecv = "purchase_order_receive"
)

// AuditStore persists activity log rows
type AuditStore interface {
	Insert(ctx context.Context, entry *models.AuditLogEntry) error
	ListRecent(ctx context.Context, limit int) ([]models.AuditLogEntry, error)
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

// AuditService writes the activity log. Failures are logged, never returned
// to the caller's request.
type AuditService struct {
	store   AuditStore
	logger  *logrus.Logger
	enabled bool
}

// NewAuditService creates a new audit service
func NewAuditService(store AuditStore, logger *logrus.Logger, enabled bool) *AuditService {
	return &AuditService{
		store:   store,
		logger:  logger,
		enabled: enabled,
	}
}

// AuditEvent represents one activity to be logged
type AuditEvent struct {
	UserID     *uuid.UUID // nil before authentication
	Action     string
	EntityType string
	EntityID   string
	IPAddress  string
	UserAgent  string
	Details    map[string]interface{}
}

// Log records event
func (s *AuditService) Log(ctx context.Context, event AuditEvent) {
	if !s.enabled {
		return
	}

	details := event.Details
	if details == nil {
		details = map[string]interface{}{}
	}
	details["device_info"] = utils.ParseUserAgent(event.UserAgent)

	encoded, err := json.Marshal(details)
	if err != nil {
		s.logger.WithError(err).WithField("action", event.Action).Warn("Failed to encode audit details")
		encoded = []byte("{}")
	}

	entry := &models.AuditLogEntry{
		UserID:     event.UserID,
		Action:     event.Action,
		EntityType: event.EntityType,
		IPAddress:  event.IPAddress,
		UserAgent:  event.UserAgent,
		Details:    types.JSONText(encoded),
	}
	if event.EntityID != "" {
		entry.EntityID = &event.EntityID
	}

	if err := s.store.Insert(ctx, entry); err != nil {
		s.logger.WithFields(logrus.Fields{
			"action": event.Action,
			"entity": event.EntityType,
			"error":  err.Error(),
		}).Error("Failed to write audit log")
	}
}

// LogLogin records a login attempt
func (s *AuditService) LogLogin(ctx context.Context, userID *uuid.UUID, email, ipAddress, userAgent string, success bool, reason string) {
	action := AuditLogin
	details := map[string]interface{}{"email": email}
	if !success {
		action = AuditLoginFailed
		details["reason"] = reason
	}

	entityID := ""
	if userID != nil {
		entityID = userID.String()
	}

	s.Log(ctx, AuditEvent{
		UserID:     userID,
		Action:     action,
		EntityType: "admin_user",
		EntityID:   entityID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// List returns the most recent activity, newest first
func (s *AuditService) List(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	entries, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return entries, nil
}

// Cleanup removes activity older than age
func (s *AuditService) Cleanup(ctx context.Context, age time.Duration) (int64, error) {
	return s.store.DeleteOlderThan(ctx, age)
}
