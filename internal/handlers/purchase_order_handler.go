package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/staffhousing/backoffice-api/internal/services"
)

// PurchaseOrderHandler serves purchase orders
type PurchaseOrderHandler struct {
	orders *services.PurchaseOrderService
	audit  *services.AuditService
	logger *logrus.Logger
}

// NewPurchaseOrderHandler creates a new purchase order handler
func NewPurchaseOrderHandler(orders *services.PurchaseOrderService, audit *services.AuditService, logger *logrus.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orders: orders, audit: audit, logger: logger}
}

// List handles GET /api/v1/purchase-orders?status=
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to load purchase orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Get handles GET /api/v1/purchase-orders/:id
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load purchase order")
		return
	}
	c.JSON(http.StatusOK, order)
}

// Create handles POST /api/v1/purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req models.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.orders.Create(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to create purchase order")
		return
	}
	c.JSON(http.StatusCreated, order)
}

// UpdateStatus handles PATCH /api/v1/purchase-orders/:id/status
func (h *PurchaseOrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdatePurchaseOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.orders.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, h.logger, err, "Failed to update purchase order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Purchase order updated", "status": req.Status})
}

// Receive handles POST /api/v1/purchase-orders/:id/receive
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.ReceivePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	status, err := h.orders.Receive(c.Request.Context(), id, req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to receive stock")
		return
	}

	recordActivity(c, h.audit, services.AuditPurchaseOrderRecv, "purchase_order", id.String(), map[string]interface{}{
		"item_id":  req.ItemID,
		"quantity": req.Quantity,
		"status":   status,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Stock received", "status": status})
}
