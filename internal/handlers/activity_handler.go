package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/services"
)

// ActivityHandler exposes the activity log
type ActivityHandler struct {
	audit  *services.AuditService
	logger *logrus.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(audit *services.AuditService, logger *logrus.Logger) *ActivityHandler {
	return &ActivityHandler{audit: audit, logger: logger}
}

// List handles GET /api/v1/activity-log?limit=
func (h *ActivityHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := h.audit.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load activity log")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}
