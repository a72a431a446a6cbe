package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/staffhousing/backoffice-api/internal/services"
	"github.com/staffhousing/backoffice-api/internal/utils"
)

// recordActivity writes an activity log entry for the current request.
// A nil audit service is a no-op.
func recordActivity(c *gin.Context, audit *services.AuditService, action, entityType, entityID string, details map[string]interface{}) {
	if audit == nil {
		return
	}
	audit.Log(c.Request.Context(), services.AuditEvent{
		UserID:     currentUserID(c),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  utils.GetRealIP(c),
		UserAgent:  utils.GetUserAgent(c),
		Details:    details,
	})
}
