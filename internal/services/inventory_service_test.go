package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInventoryStore struct {
	item         *models.InventoryItem
	created      *models.InventoryItem
	updated      *models.InventoryItem
	category     *models.InventoryCategory
	adjustCalled bool
	issueCalled  bool
}

func (f *fakeInventoryStore) ListCategories(context.Context) ([]models.InventoryCategory, error) {
	return nil, nil
}

func (f *fakeInventoryStore) CreateCategory(_ context.Context, c *models.InventoryCategory) error {
	c.ID = uuid.New()
	f.category = c
	return nil
}

func (f *fakeInventoryStore) UpdateCategory(_ context.Context, c *models.InventoryCategory) error {
	f.category = c
	return nil
}

func (f *fakeInventoryStore) ListItems(context.Context, models.InventoryItemFilter) ([]models.InventoryItem, error) {
	return nil, nil
}

func (f *fakeInventoryStore) GetItem(_ context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	if f.item == nil || f.item.ID != id {
		return nil, models.ErrNotFound
	}
	copied := *f.item
	return &copied, nil
}

func (f *fakeInventoryStore) CreateItem(_ context.Context, item *models.InventoryItem) error {
	item.ID = uuid.New()
	f.created = item
	return nil
}

func (f *fakeInventoryStore) UpdateItem(_ context.Context, item *models.InventoryItem) error {
	f.updated = item
	return nil
}

func (f *fakeInventoryStore) AdjustStock(_ context.Context, _ uuid.UUID, delta int, _ string, _ *uuid.UUID) (*models.InventoryItem, error) {
	f.adjustCalled = true
	f.item.TotalQuantity += delta
	f.item.AvailableQuantity += delta
	copied := *f.item
	return &copied, nil
}

func (f *fakeInventoryStore) IssueItem(_ context.Context, itemID uuid.UUID, req models.IssueItemRequest, _ *uuid.UUID) (*models.InventoryIssuance, error) {
	f.issueCalled = true
	if req.Quantity > f.item.AvailableQuantity {
		return nil, models.ErrInsufficientStock
	}
	f.item.AvailableQuantity -= req.Quantity
	return &models.InventoryIssuance{ItemID: itemID, QuantityIssued: req.Quantity}, nil
}

func (f *fakeInventoryStore) ListTransactions(context.Context, uuid.UUID) ([]models.InventoryTransaction, error) {
	return nil, nil
}

type fakeSupplierStore struct {
	created *models.Supplier
}

func (f *fakeSupplierStore) List(context.Context) ([]models.Supplier, error) { return nil, nil }

func (f *fakeSupplierStore) Create(_ context.Context, s *models.Supplier) error {
	f.created = s
	return nil
}

func (f *fakeSupplierStore) Update(_ context.Context, s *models.Supplier) error {
	f.created = s
	return nil
}

func newInventoryFixture() (*InventoryService, *fakeInventoryStore, *fakeSupplierStore) {
	store := &fakeInventoryStore{
		item: &models.InventoryItem{
			ID:                uuid.New(),
			Name:              "Bed sheet",
			TotalQuantity:     20,
			AvailableQuantity: 12,
			IssuedQuantity:    8,
			ReorderPoint:      5,
			Status:            models.InventoryAvailable,
			IsActive:          true,
		},
	}
	suppliers := &fakeSupplierStore{}
	return NewInventoryService(store, suppliers, quietLogger()), store, suppliers
}

func TestInventoryService_Categories(t *testing.T) {
	svc, store, _ := newInventoryFixture()

	category, err := svc.CreateCategory(context.Background(), models.InventoryCategoryRequest{Name: "  Linen "})
	require.NoError(t, err)
	assert.Equal(t, "Linen", category.Name)
	assert.True(t, category.IsActive)

	_, err = svc.CreateCategory(context.Background(), models.InventoryCategoryRequest{Name: " "})
	assert.Equal(t, "Please enter a category name.", validationMessage(t, err))

	_, err = svc.UpdateCategory(context.Background(), category.ID, models.InventoryCategoryRequest{
		Name:             "Linen",
		ParentCategoryID: &category.ID,
	})
	assert.Equal(t, "A category cannot be its own parent.", validationMessage(t, err))

	inactive := false
	updated, err := svc.UpdateCategory(context.Background(), category.ID, models.InventoryCategoryRequest{
		Name:     "Bedding",
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Same(t, updated, store.category)
}

func TestInventoryService_CreateItem(t *testing.T) {
	svc, store, _ := newInventoryFixture()

	item, err := svc.CreateItem(context.Background(), models.InventoryItemRequest{
		Name:          "Pillow",
		TotalQuantity: 30,
		Currency:      "usd",
	})
	require.NoError(t, err)
	assert.Same(t, item, store.created)
	assert.Equal(t, 30, item.AvailableQuantity)
	assert.Equal(t, models.InventoryAvailable, item.Status)
	assert.Equal(t, "USD", item.Currency)
	assert.Equal(t, models.ConditionNew, item.Condition)

	_, err = svc.CreateItem(context.Background(), models.InventoryItemRequest{Name: "Pillow", TotalQuantity: -1})
	assert.Equal(t, "Quantity cannot be negative.", validationMessage(t, err))
}

func TestInventoryService_UpdateItemKeepsQuantities(t *testing.T) {
	svc, store, _ := newInventoryFixture()

	item, err := svc.UpdateItem(context.Background(), store.item.ID, models.InventoryItemRequest{
		Name:          "Bed sheet (queen)",
		TotalQuantity: 999,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, item.TotalQuantity)
	assert.Equal(t, 12, item.AvailableQuantity)
	assert.Equal(t, 8, item.IssuedQuantity)
	assert.Equal(t, "Bed sheet (queen)", store.updated.Name)

	_, err = svc.UpdateItem(context.Background(), uuid.New(), models.InventoryItemRequest{Name: "x"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestInventoryService_AdjustStock(t *testing.T) {
	tests := []struct {
		name    string
		req     models.StockAdjustmentRequest
		wantErr string
	}{
		{"zero delta", models.StockAdjustmentRequest{Delta: 0, Reason: "count"}, "Adjustment must not be zero."},
		{"missing reason", models.StockAdjustmentRequest{Delta: 3, Reason: "  "}, "Please enter a reason for the adjustment."},
		{"restock", models.StockAdjustmentRequest{Delta: 3, Reason: "delivery"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newInventoryFixture()

			item, err := svc.AdjustStock(context.Background(), store.item.ID, tt.req, nil)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, validationMessage(t, err))
				assert.False(t, store.adjustCalled)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 15, item.AvailableQuantity)
			assert.Equal(t, 23, item.TotalQuantity)
		})
	}
}

func TestInventoryService_IssueItem(t *testing.T) {
	propertyID := uuid.New()

	t.Run("issues stock", func(t *testing.T) {
		svc, store, _ := newInventoryFixture()

		issuance, err := svc.IssueItem(context.Background(), store.item.ID, models.IssueItemRequest{
			PropertyID: propertyID,
			Quantity:   10,
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, 10, issuance.QuantityIssued)
		assert.Equal(t, 2, store.item.AvailableQuantity)
	})

	t.Run("insufficient stock", func(t *testing.T) {
		svc, store, _ := newInventoryFixture()

		_, err := svc.IssueItem(context.Background(), store.item.ID, models.IssueItemRequest{
			PropertyID: propertyID,
			Quantity:   13,
		}, nil)
		assert.ErrorIs(t, err, models.ErrInsufficientStock)
	})

	t.Run("requires quantity and property", func(t *testing.T) {
		svc, store, _ := newInventoryFixture()

		_, err := svc.IssueItem(context.Background(), store.item.ID, models.IssueItemRequest{PropertyID: propertyID}, nil)
		assert.Equal(t, "Quantity must be greater than 0.", validationMessage(t, err))

		_, err = svc.IssueItem(context.Background(), store.item.ID, models.IssueItemRequest{Quantity: 1}, nil)
		assert.Equal(t, "Please select a property.", validationMessage(t, err))
		assert.False(t, store.issueCalled)
	})
}

func TestInventoryService_Suppliers(t *testing.T) {
	svc, _, suppliers := newInventoryFixture()

	phone := "1-555-234-5678"
	supplier, err := svc.CreateSupplier(context.Background(), models.SupplierRequest{
		Name:  " Linen Co ",
		Phone: &phone,
	})
	require.NoError(t, err)
	assert.Same(t, supplier, suppliers.created)
	assert.Equal(t, "Linen Co", supplier.Name)
	require.NotNil(t, supplier.Phone)
	assert.Equal(t, "(555) 234-5678", *supplier.Phone)

	bad := "12345"
	_, err = svc.CreateSupplier(context.Background(), models.SupplierRequest{Name: "Linen Co", Phone: &bad})
	assert.Equal(t, "Please enter a valid 10-digit phone number.", validationMessage(t, err))

	_, err = svc.UpdateSupplier(context.Background(), uuid.New(), models.SupplierRequest{Name: ""})
	assert.Equal(t, "Please enter a supplier name.", validationMessage(t, err))
}
