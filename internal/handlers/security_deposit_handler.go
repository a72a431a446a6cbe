package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/staffhousing/backoffice-api/internal/services"
)

// SecurityDepositHandler handles edits to stored security deposits
type SecurityDepositHandler struct {
	deposits *services.SecurityDepositService
	audit    *services.AuditService
	logger   *logrus.Logger
}

// NewSecurityDepositHandler creates a new security deposit handler
func NewSecurityDepositHandler(deposits *services.SecurityDepositService, audit *services.AuditService, logger *logrus.Logger) *SecurityDepositHandler {
	return &SecurityDepositHandler{deposits: deposits, audit: audit, logger: logger}
}

// UpdateAmount handles PUT /api/v1/security-deposits/:id/amount
func (h *SecurityDepositHandler) UpdateAmount(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateDepositAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	deposit, err := h.deposits.UpdateAmount(c.Request.Context(), id, req.TotalAmount)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update security deposit")
		return
	}
	c.JSON(http.StatusOK, deposit)
}

// MarkPaid handles POST /api/v1/security-deposits/:id/mark-paid
func (h *SecurityDepositHandler) MarkPaid(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.MarkDepositPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.deposits.MarkPaid(c.Request.Context(), id, req); err != nil {
		respondError(c, h.logger, err, "Failed to mark deposit paid")
		return
	}

	recordActivity(c, h.audit, services.AuditDepositPaid, "security_deposit", id.String(), map[string]interface{}{
		"paid_date":      req.PaidDate,
		"payment_method": req.PaymentMethod,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Security deposit marked as paid"})
}

// UpdateDeductionStatus handles PATCH /api/v1/security-deposits/:id/deductions/:number
func (h *SecurityDepositHandler) UpdateDeductionStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "Invalid deduction number.", Field: "number"})
		return
	}

	var req models.UpdateDeductionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.deposits.UpdateDeductionStatus(c.Request.Context(), id, number, req.Status); err != nil {
		respondError(c, h.logger, err, "Failed to update deduction")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deduction updated", "status": req.Status})
}
