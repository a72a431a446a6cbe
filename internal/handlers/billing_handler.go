package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/staffhousing/backoffice-api/internal/services"
)

// BillingHandler serves staff bills
type BillingHandler struct {
	billing *services.BillingService
	logger  *logrus.Logger
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billing *services.BillingService, logger *logrus.Logger) *BillingHandler {
	return &BillingHandler{billing: billing, logger: logger}
}

// List handles GET /api/v1/bills
func (h *BillingHandler) List(c *gin.Context) {
	var filter models.BillFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}

	bills, err := h.billing.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load bills")
		return
	}
	c.JSON(http.StatusOK, bills)
}

// Create handles POST /api/v1/bills
func (h *BillingHandler) Create(c *gin.Context) {
	var req models.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	bill, err := h.billing.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create bill")
		return
	}
	c.JSON(http.StatusCreated, bill)
}

// MarkPaid handles POST /api/v1/bills/:id/pay
func (h *BillingHandler) MarkPaid(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.billing.MarkPaid(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "Failed to mark bill paid")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bill marked as paid"})
}

// Delete handles DELETE /api/v1/bills/:id
func (h *BillingHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.billing.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "Failed to delete bill")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bill deleted"})
}

// Stats handles GET /api/v1/bills/stats?month=YYYY-MM
func (h *BillingHandler) Stats(c *gin.Context) {
	stats, err := h.billing.Stats(c.Request.Context(), c.Query("month"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to load billing statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}
