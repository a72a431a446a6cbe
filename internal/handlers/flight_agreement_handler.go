package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/staffhousing/backoffice-api/internal/services"
)

// FlightAgreementHandler serves flight agreement repayment tracking
type FlightAgreementHandler struct {
	agreements *services.FlightAgreementService
	logger     *logrus.Logger
}

// NewFlightAgreementHandler creates a new flight agreement handler
func NewFlightAgreementHandler(agreements *services.FlightAgreementService, logger *logrus.Logger) *FlightAgreementHandler {
	return &FlightAgreementHandler{agreements: agreements, logger: logger}
}

// List handles GET /api/v1/flight-agreements?status=
func (h *FlightAgreementHandler) List(c *gin.Context) {
	summaries, err := h.agreements.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to load flight agreements")
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// Get handles GET /api/v1/flight-agreements/:id
func (h *FlightAgreementHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	agreement, err := h.agreements.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load flight agreement")
		return
	}
	c.JSON(http.StatusOK, agreement)
}

// UpdateDeduction handles PATCH /api/v1/flight-agreements/:id/deductions/:sequence
func (h *FlightAgreementHandler) UpdateDeduction(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	sequence, err := strconv.Atoi(c.Param("sequence"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "Invalid deduction sequence.", Field: "sequence"})
		return
	}

	var req models.UpdateFlightDeductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	deduction, err := h.agreements.UpdateDeduction(c.Request.Context(), id, sequence, req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to update flight deduction")
		return
	}
	c.JSON(http.StatusOK, deduction)
}

// Cancel handles POST /api/v1/flight-agreements/:id/cancel
func (h *FlightAgreementHandler) Cancel(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.CancelFlightAgreementRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	if err := h.agreements.Cancel(c.Request.Context(), id, req.Reason); err != nil {
		respondError(c, h.logger, err, "Failed to cancel flight agreement")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Flight agreement cancelled"})
}
