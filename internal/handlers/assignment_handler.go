package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/staffhousing/backoffice-api/internal/services"
)

// AssignmentHandler handles the tenant/room assignment form and its follow-up edits
type AssignmentHandler struct {
	assignments *services.AssignmentService
	deposits    *services.SecurityDepositService
	audit       *services.AuditService
	logger      *logrus.Logger
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(
	assignments *services.AssignmentService,
	deposits *services.SecurityDepositService,
	audit *services.AuditService,
	logger *logrus.Logger,
) *AssignmentHandler {
	return &AssignmentHandler{
		assignments: assignments,
		deposits:    deposits,
		audit:       audit,
		logger:      logger,
	}
}

// PreviewDeductions handles POST /api/v1/assignments/deduction-preview
// Returns the four-installment deposit schedule without persisting anything.
func (h *AssignmentHandler) PreviewDeductions(c *gin.Context) {
	var req models.DeductionPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deduction_schedule": h.assignments.PreviewDeductions(req)})
}

// PreviewFlightDeductions handles POST /api/v1/assignments/flight-preview
func (h *AssignmentHandler) PreviewFlightDeductions(c *gin.Context) {
	var req models.FlightSchedulePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deductions": h.assignments.PreviewFlightDeductions(req)})
}

// Create handles POST /api/v1/assignments
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req models.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.assignments.Create(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to create assignment")
		return
	}

	recordActivity(c, h.audit, services.AuditAssignmentCreate, "assignment", resp.Assignment.ID.String(), map[string]interface{}{
		"tenant_id":   resp.Assignment.TenantID,
		"property_id": resp.Assignment.PropertyID,
		"deposits":    len(resp.Assignment.SecurityDeposits),
	})

	c.JSON(http.StatusCreated, resp)
}

// List handles GET /api/v1/assignments
func (h *AssignmentHandler) List(c *gin.Context) {
	var filter models.AssignmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}

	assignments, err := h.assignments.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load assignments")
		return
	}
	c.JSON(http.StatusOK, assignments)
}

// Get handles GET /api/v1/assignments/:id
func (h *AssignmentHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	assignment, err := h.assignments.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load assignment")
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// UpdateStartDate handles PATCH /api/v1/assignments/:id/start-date
func (h *AssignmentHandler) UpdateStartDate(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateStartDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	assignment, err := h.assignments.UpdateStartDate(c.Request.Context(), id, req.StartDate)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update start date")
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// UpdateStatus handles PATCH /api/v1/assignments/:id/status
func (h *AssignmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateAssignmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.assignments.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, h.logger, err, "Failed to update assignment status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Assignment status updated", "status": req.Status})
}

// Delete handles DELETE /api/v1/assignments/:id
func (h *AssignmentHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.assignments.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "Failed to delete assignment")
		return
	}

	recordActivity(c, h.audit, services.AuditAssignmentDelete, "assignment", id.String(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Assignment deleted"})
}

// ListDeposits handles GET /api/v1/assignments/:id/security-deposits
func (h *AssignmentHandler) ListDeposits(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	deposits, err := h.deposits.ListByAssignment(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load security deposits")
		return
	}
	c.JSON(http.StatusOK, deposits)
}
