package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/staffhousing/backoffice-api/pkg/validator"
)

// InventoryStore is the storage the inventory service needs
type InventoryStore interface {
	ListCategories(ctx context.Context) ([]models.InventoryCategory, error)
	CreateCategory(ctx context.Context, c *models.InventoryCategory) error
	UpdateCategory(ctx context.Context, c *models.InventoryCategory) error
	ListItems(ctx context.Context, filter models.InventoryItemFilter) ([]models.InventoryItem, error)
	GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	CreateItem(ctx context.Context, item *models.InventoryItem) error
	UpdateItem(ctx context.Context, item *models.InventoryItem) error
	AdjustStock(ctx context.Context, itemID uuid.UUID, delta int, reason string, userID *uuid.UUID) (*models.InventoryItem, error)
	IssueItem(ctx context.Context, itemID uuid.UUID, req models.IssueItemRequest, userID *uuid.UUID) (*models.InventoryIssuance, error)
	ListTransactions(ctx context.Context, itemID uuid.UUID) ([]models.InventoryTransaction, error)
}

// SupplierStore persists suppliers
type SupplierStore interface {
	List(ctx context.Context) ([]models.Supplier, error)
	Create(ctx context.Context, s *models.Supplier) error
	Update(ctx context.Context, s *models.Supplier) error
}

// InventoryService handles categories, items, stock movements and suppliers
type InventoryService struct {
	inventory InventoryStore
	suppliers SupplierStore
	phones    *validator.PhoneValidator
	logger    *logrus.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(inventory InventoryStore, suppliers SupplierStore, logger *logrus.Logger) *InventoryService {
	return &InventoryService{
		inventory: inventory,
		suppliers: suppliers,
		phones:    validator.NewPhoneValidator(),
		logger:    logger,
	}
}

// ListCategories returns every category in sort order
func (s *InventoryService) ListCategories(ctx context.Context) ([]models.InventoryCategory, error) {
	return s.inventory.ListCategories(ctx)
}

// CreateCategory adds a category
func (s *InventoryService) CreateCategory(ctx context.Context, req models.InventoryCategoryRequest) (*models.InventoryCategory, error) {
	category := categoryFromRequest(uuid.Nil, req)
	if category.Name == "" {
		return nil, models.ErrInvalidField("name", "Please enter a category name.")
	}
	if err := s.inventory.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory overwrites a category
func (s *InventoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req models.InventoryCategoryRequest) (*models.InventoryCategory, error) {
	category := categoryFromRequest(id, req)
	if category.Name == "" {
		return nil, models.ErrInvalidField("name", "Please enter a category name.")
	}
	if category.ParentCategoryID != nil && *category.ParentCategoryID == id {
		return nil, models.ErrInvalidField("parent_category_id", "A category cannot be its own parent.")
	}
	if err := s.inventory.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func categoryFromRequest(id uuid.UUID, req models.InventoryCategoryRequest) *models.InventoryCategory {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &models.InventoryCategory{
		ID:               id,
		Name:             strings.TrimSpace(req.Name),
		Description:      req.Description,
		ParentCategoryID: req.ParentCategoryID,
		ColorCode:        req.ColorCode,
		IconName:         req.IconName,
		IsActive:         active,
		SortOrder:        req.SortOrder,
	}
}

// ListItems returns active items matching the filter
func (s *InventoryService) ListItems(ctx context.Context, filter models.InventoryItemFilter) ([]models.InventoryItem, error) {
	return s.inventory.ListItems(ctx, filter)
}

// GetItem returns one item
func (s *InventoryService) GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	return s.inventory.GetItem(ctx, id)
}

// CreateItem adds an item with its opening stock available
func (s *InventoryService) CreateItem(ctx context.Context, req models.InventoryItemRequest) (*models.InventoryItem, error) {
	item := itemFromRequest(uuid.Nil, req)
	if item.Name == "" {
		return nil, models.ErrInvalidField("name", "Please enter an item name.")
	}
	if req.TotalQuantity < 0 {
		return nil, models.ErrInvalidField("total_quantity", "Quantity cannot be negative.")
	}
	item.TotalQuantity = req.TotalQuantity
	item.AvailableQuantity = req.TotalQuantity
	item.Status = models.InventoryAvailable

	if err := s.inventory.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem overwrites the descriptive fields of an item
func (s *InventoryService) UpdateItem(ctx context.Context, id uuid.UUID, req models.InventoryItemRequest) (*models.InventoryItem, error) {
	existing, err := s.inventory.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	item := itemFromRequest(id, req)
	if item.Name == "" {
		return nil, models.ErrInvalidField("name", "Please enter an item name.")
	}
	item.TotalQuantity = existing.TotalQuantity
	item.AvailableQuantity = existing.AvailableQuantity
	item.IssuedQuantity = existing.IssuedQuantity
	item.ReservedQuantity = existing.ReservedQuantity
	item.Status = existing.Status
	item.IsActive = existing.IsActive
	item.CreatedAt = existing.CreatedAt

	if err := s.inventory.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func itemFromRequest(id uuid.UUID, req models.InventoryItemRequest) *models.InventoryItem {
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}
	condition := req.Condition
	if condition == "" {
		condition = models.ConditionNew
	}
	return &models.InventoryItem{
		ID:                id,
		Name:              strings.TrimSpace(req.Name),
		Description:       req.Description,
		CategoryID:        req.CategoryID,
		SKU:               req.SKU,
		Brand:             req.Brand,
		Model:             req.Model,
		MinimumStockLevel: req.MinimumStockLevel,
		ReorderPoint:      req.ReorderPoint,
		UnitCost:          req.UnitCost,
		UnitPrice:         req.UnitPrice,
		Currency:          currency,
		Condition:         condition,
		SupplierID:        req.SupplierID,
		Location:          req.Location,
		Tags:              models.StringArray(req.Tags),
		Notes:             req.Notes,
	}
}

// AdjustStock changes an item's stock by delta
func (s *InventoryService) AdjustStock(ctx context.Context, id uuid.UUID, req models.StockAdjustmentRequest, userID *uuid.UUID) (*models.InventoryItem, error) {
	if req.Delta == 0 {
		return nil, models.ErrInvalidField("delta", "Adjustment must not be zero.")
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, models.ErrInvalidField("reason", "Please enter a reason for the adjustment.")
	}

	item, err := s.inventory.AdjustStock(ctx, id, req.Delta, reason, userID)
	if err != nil {
		return nil, err
	}

	s.logLowStock(item)
	return item, nil
}

// IssueItem hands stock out to a property
func (s *InventoryService) IssueItem(ctx context.Context, id uuid.UUID, req models.IssueItemRequest, userID *uuid.UUID) (*models.InventoryIssuance, error) {
	if req.Quantity <= 0 {
		return nil, models.ErrInvalidField("quantity", "Quantity must be greater than 0.")
	}
	if req.PropertyID == uuid.Nil {
		return nil, models.ErrInvalidField("property_id", "Please select a property.")
	}

	issuance, err := s.inventory.IssueItem(ctx, id, req, userID)
	if err != nil {
		return nil, err
	}

	if item, err := s.inventory.GetItem(ctx, id); err == nil {
		s.logLowStock(item)
	}
	return issuance, nil
}

// ListTransactions returns the stock movements of an item
func (s *InventoryService) ListTransactions(ctx context.Context, id uuid.UUID) ([]models.InventoryTransaction, error) {
	return s.inventory.ListTransactions(ctx, id)
}

func (s *InventoryService) logLowStock(item *models.InventoryItem) {
	if item == nil || !item.IsLowStock() {
		return
	}
	s.logger.WithFields(logrus.Fields{
		"item_id":       item.ID,
		"name":          item.Name,
		"available":     item.AvailableQuantity,
		"reorder_point": item.ReorderPoint,
	}).Warn("Inventory item at or below reorder point")
}

// ListSuppliers returns every supplier
func (s *InventoryService) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return s.suppliers.List(ctx)
}

// CreateSupplier adds a supplier
func (s *InventoryService) CreateSupplier(ctx context.Context, req models.SupplierRequest) (*models.Supplier, error) {
	supplier, err := s.supplierFromRequest(uuid.Nil, req)
	if err != nil {
		return nil, err
	}
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// UpdateSupplier overwrites a supplier
func (s *InventoryService) UpdateSupplier(ctx context.Context, id uuid.UUID, req models.SupplierRequest) (*models.Supplier, error) {
	supplier, err := s.supplierFromRequest(id, req)
	if err != nil {
		return nil, err
	}
	if err := s.suppliers.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *InventoryService) supplierFromRequest(id uuid.UUID, req models.SupplierRequest) (*models.Supplier, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, models.ErrInvalidField("name", "Please enter a supplier name.")
	}

	supplier := &models.Supplier{
		ID:            id,
		Name:          name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Address:       req.Address,
		Categories:    models.StringArray(req.Categories),
	}

	if req.Phone != nil && strings.TrimSpace(*req.Phone) != "" {
		formatted, err := s.phones.Format(*req.Phone)
		if err != nil {
			return nil, models.ErrInvalidField("phone", "Please enter a valid 10-digit phone number.")
		}
		supplier.Phone = &formatted
	}

	return supplier, nil
}
