package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/staffhousing/backoffice-api/internal/services"
)

// InventoryHandler serves categories, items, stock movements and suppliers
type InventoryHandler struct {
	inventory *services.InventoryService
	logger    *logrus.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventory *services.InventoryService, logger *logrus.Logger) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, logger: logger}
}

// ListCategories handles GET /api/v1/inventory/categories
func (h *InventoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.inventory.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to load categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CreateCategory handles POST /api/v1/inventory/categories
func (h *InventoryHandler) CreateCategory(c *gin.Context) {
	var req models.InventoryCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	category, err := h.inventory.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles PUT /api/v1/inventory/categories/:id
func (h *InventoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.InventoryCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	category, err := h.inventory.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// ListItems handles GET /api/v1/inventory/items
func (h *InventoryHandler) ListItems(c *gin.Context) {
	var filter models.InventoryItemFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}

	items, err := h.inventory.ListItems(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load items")
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetItem handles GET /api/v1/inventory/items/:id
func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	item, err := h.inventory.GetItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load item")
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateItem handles POST /api/v1/inventory/items
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req models.InventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.inventory.CreateItem(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create item")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateItem handles PUT /api/v1/inventory/items/:id
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.InventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.inventory.UpdateItem(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update item")
		return
	}
	c.JSON(http.StatusOK, item)
}

// AdjustStock handles POST /api/v1/inventory/items/:id/adjust
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.StockAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.inventory.AdjustStock(c.Request.Context(), id, req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to adjust stock")
		return
	}
	c.JSON(http.StatusOK, item)
}

// IssueItem handles POST /api/v1/inventory/items/:id/issue
func (h *InventoryHandler) IssueItem(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.IssueItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	issuance, err := h.inventory.IssueItem(c.Request.Context(), id, req, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to issue item")
		return
	}
	c.JSON(http.StatusCreated, issuance)
}

// ListTransactions handles GET /api/v1/inventory/items/:id/transactions
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	transactions, err := h.inventory.ListTransactions(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load stock history")
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// ListSuppliers handles GET /api/v1/suppliers
func (h *InventoryHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.inventory.ListSuppliers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to load suppliers")
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

// CreateSupplier handles POST /api/v1/suppliers
func (h *InventoryHandler) CreateSupplier(c *gin.Context) {
	var req models.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	supplier, err := h.inventory.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create supplier")
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

// UpdateSupplier handles PUT /api/v1/suppliers/:id
func (h *InventoryHandler) UpdateSupplier(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	supplier, err := h.inventory.UpdateSupplier(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update supplier")
		return
	}
	c.JSON(http.StatusOK, supplier)
}
