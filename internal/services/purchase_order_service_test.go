package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurchaseOrders struct {
	created    *models.PurchaseOrder
	existing   *models.PurchaseOrder
	nextStatus models.PurchaseOrderStatus
	received   int
}

func (f *fakePurchaseOrders) Create(_ context.Context, po *models.PurchaseOrder) error {
	po.ID = uuid.New()
	f.created = po
	return nil
}

func (f *fakePurchaseOrders) List(context.Context, string) ([]models.PurchaseOrder, error) {
	return nil, nil
}

func (f *fakePurchaseOrders) GetByID(_ context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	if f.existing == nil || f.existing.ID != id {
		return nil, models.ErrNotFound
	}
	copied := *f.existing
	return &copied, nil
}

func (f *fakePurchaseOrders) UpdateStatus(_ context.Context, _ uuid.UUID, status models.PurchaseOrderStatus) error {
	f.nextStatus = status
	return nil
}

func (f *fakePurchaseOrders) Receive(_ context.Context, _, _ uuid.UUID, quantity int, _ *uuid.UUID) (models.PurchaseOrderStatus, error) {
	f.received += quantity
	if f.received >= 10 {
		return models.PurchaseOrderDelivered, nil
	}
	return models.PurchaseOrderPartial, nil
}

func TestPurchaseOrderService_Create(t *testing.T) {
	propertyID := uuid.New()
	line := func(qty int, price string) models.PurchaseOrderItemRequest {
		return models.PurchaseOrderItemRequest{
			ItemID:    uuid.New(),
			Quantity:  qty,
			UnitPrice: decimal.RequireFromString(price),
		}
	}

	t.Run("totals lines as a draft", func(t *testing.T) {
		store := &fakePurchaseOrders{}
		svc := NewPurchaseOrderService(store, quietLogger())

		po, err := svc.Create(context.Background(), models.CreatePurchaseOrderRequest{
			PropertyID:           propertyID,
			OrderDate:            "2024-05-01",
			ExpectedDeliveryDate: "2024-05-10",
			Items:                []models.PurchaseOrderItemRequest{line(4, "12.50"), line(2, "3.25")},
		}, nil)
		require.NoError(t, err)

		assert.Same(t, po, store.created)
		assert.Equal(t, models.PurchaseOrderDraft, po.Status)
		assert.Equal(t, "56.5", po.TotalAmount.String())
		assert.Equal(t, "2024-05-01", po.OrderDate.String())
		assert.Equal(t, "2024-05-10", po.ExpectedDeliveryDate.String())
		assert.Len(t, po.Items, 2)
	})

	t.Run("order date defaults to today", func(t *testing.T) {
		store := &fakePurchaseOrders{}
		svc := NewPurchaseOrderService(store, quietLogger())

		po, err := svc.Create(context.Background(), models.CreatePurchaseOrderRequest{
			PropertyID: propertyID,
			Items:      []models.PurchaseOrderItemRequest{line(1, "1")},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, models.Today().String(), po.OrderDate.String())
		assert.True(t, po.ExpectedDeliveryDate.IsZero())
	})

	tests := []struct {
		name    string
		req     models.CreatePurchaseOrderRequest
		wantErr string
	}{
		{
			name:    "missing property",
			req:     models.CreatePurchaseOrderRequest{Items: []models.PurchaseOrderItemRequest{line(1, "1")}},
			wantErr: "Please select a property.",
		},
		{
			name:    "no lines",
			req:     models.CreatePurchaseOrderRequest{PropertyID: propertyID},
			wantErr: "Please add at least one item.",
		},
		{
			name: "delivery before order",
			req: models.CreatePurchaseOrderRequest{
				PropertyID:           propertyID,
				OrderDate:            "2024-05-10",
				ExpectedDeliveryDate: "2024-05-01",
				Items:                []models.PurchaseOrderItemRequest{line(1, "1")},
			},
			wantErr: "Delivery date cannot be before the order date.",
		},
		{
			name: "zero quantity line",
			req: models.CreatePurchaseOrderRequest{
				PropertyID: propertyID,
				Items:      []models.PurchaseOrderItemRequest{line(1, "1"), line(0, "1")},
			},
			wantErr: "Line 2: quantity must be greater than 0.",
		},
		{
			name: "negative price",
			req: models.CreatePurchaseOrderRequest{
				PropertyID: propertyID,
				Items:      []models.PurchaseOrderItemRequest{line(1, "-1")},
			},
			wantErr: "Line 1: unit price cannot be negative.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakePurchaseOrders{}
			svc := NewPurchaseOrderService(store, quietLogger())

			_, err := svc.Create(context.Background(), tt.req, nil)
			assert.Equal(t, tt.wantErr, validationMessage(t, err))
			assert.Nil(t, store.created)
		})
	}
}

func TestPurchaseOrderService_UpdateStatus(t *testing.T) {
	tests := []struct {
		from    models.PurchaseOrderStatus
		to      models.PurchaseOrderStatus
		allowed bool
	}{
		{models.PurchaseOrderDraft, models.PurchaseOrderOrdered, true},
		{models.PurchaseOrderDraft, models.PurchaseOrderDelivered, false},
		{models.PurchaseOrderOrdered, models.PurchaseOrderCancelled, true},
		{models.PurchaseOrderPartial, models.PurchaseOrderCancelled, false},
		{models.PurchaseOrderDelivered, models.PurchaseOrderOrdered, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			store := &fakePurchaseOrders{existing: &models.PurchaseOrder{ID: uuid.New(), Status: tt.from}}
			svc := NewPurchaseOrderService(store, quietLogger())

			err := svc.UpdateStatus(context.Background(), store.existing.ID, tt.to)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, store.nextStatus)
				return
			}
			assert.True(t, errors.Is(err, models.ErrInvalidStatusTransition))
			assert.Empty(t, store.nextStatus)
		})
	}
}

func TestPurchaseOrderService_Receive(t *testing.T) {
	store := &fakePurchaseOrders{}
	svc := NewPurchaseOrderService(store, quietLogger())
	orderID := uuid.New()
	itemID := uuid.New()

	status, err := svc.Receive(context.Background(), orderID, models.ReceivePurchaseOrderRequest{ItemID: itemID, Quantity: 4}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseOrderPartial, status)

	status, err = svc.Receive(context.Background(), orderID, models.ReceivePurchaseOrderRequest{ItemID: itemID, Quantity: 6}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseOrderDelivered, status)

	_, err = svc.Receive(context.Background(), orderID, models.ReceivePurchaseOrderRequest{ItemID: itemID}, nil)
	assert.Equal(t, "Quantity must be greater than 0.", validationMessage(t, err))
}
