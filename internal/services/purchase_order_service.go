package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/models"
)

// PurchaseOrderStore persists purchase orders
type PurchaseOrderStore interface {
	Create(ctx context.Context, po *models.PurchaseOrder) error
	List(ctx context.Context, status string) ([]models.PurchaseOrder, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.PurchaseOrderStatus) error
	Receive(ctx context.Context, orderID, itemID uuid.UUID, quantity int, userID *uuid.UUID) (models.PurchaseOrderStatus, error)
}

// PurchaseOrderService handles ordering and receiving stock
type PurchaseOrderService struct {
	orders PurchaseOrderStore
	logger *logrus.Logger
}

// NewPurchaseOrderService creates a new purchase order service
func NewPurchaseOrderService(orders PurchaseOrderStore, logger *logrus.Logger) *PurchaseOrderService {
	return &PurchaseOrderService{orders: orders, logger: logger}
}

// Create validates and stores a draft order. The total is the sum of its lines.
func (s *PurchaseOrderService) Create(ctx context.Context, req models.CreatePurchaseOrderRequest, createdBy *uuid.UUID) (*models.PurchaseOrder, error) {
	if req.PropertyID == uuid.Nil {
		return nil, models.ErrInvalidField("property_id", "Please select a property.")
	}
	if len(req.Items) == 0 {
		return nil, models.ErrInvalidField("items", "Please add at least one item.")
	}

	orderDate := models.Today()
	if req.OrderDate != "" {
		d, err := models.ParseDate(req.OrderDate)
		if err != nil {
			return nil, models.ErrInvalidField("order_date", "Please enter a valid order date.")
		}
		orderDate = d
	}

	var expected models.Date
	if req.ExpectedDeliveryDate != "" {
		d, err := models.ParseDate(req.ExpectedDeliveryDate)
		if err != nil {
			return nil, models.ErrInvalidField("expected_delivery_date", "Please enter a valid delivery date.")
		}
		if d.Before(orderDate) {
			return nil, models.ErrInvalidField("expected_delivery_date", "Delivery date cannot be before the order date.")
		}
		expected = d
	}

	po := &models.PurchaseOrder{
		SupplierID:           req.SupplierID,
		PropertyID:           req.PropertyID,
		OrderDate:            orderDate,
		ExpectedDeliveryDate: expected,
		Status:               models.PurchaseOrderDraft,
		TotalAmount:          decimal.Zero,
		Notes:                req.Notes,
		CreatedBy:            createdBy,
		Items:                make([]models.PurchaseOrderItem, 0, len(req.Items)),
	}

	for i, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, models.ErrInvalidField("items", fmt.Sprintf("Line %d: quantity must be greater than 0.", i+1))
		}
		if line.UnitPrice.IsNegative() {
			return nil, models.ErrInvalidField("items", fmt.Sprintf("Line %d: unit price cannot be negative.", i+1))
		}
		item := models.PurchaseOrderItem{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
		po.TotalAmount = po.TotalAmount.Add(item.LineTotal())
		po.Items = append(po.Items, item)
	}

	if err := s.orders.Create(ctx, po); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"purchase_order_id": po.ID,
		"lines":             len(po.Items),
		"total":             po.TotalAmount.String(),
	}).Info("Purchase order created")

	return po, nil
}

// List returns orders, optionally for one status
func (s *PurchaseOrderService) List(ctx context.Context, status string) ([]models.PurchaseOrder, error) {
	return s.orders.List(ctx, status)
}

// Get returns an order with its lines
func (s *PurchaseOrderService) Get(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	return s.orders.GetByID(ctx, id)
}

// UpdateStatus moves an order along its lifecycle
func (s *PurchaseOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, next models.PurchaseOrderStatus) error {
	po, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !po.Status.CanTransitionTo(next) {
		return fmt.Errorf("cannot move purchase order from %s to %s: %w", po.Status, next, models.ErrInvalidStatusTransition)
	}
	return s.orders.UpdateStatus(ctx, id, next)
}

// Receive books delivered quantity for one line and returns the new status
func (s *PurchaseOrderService) Receive(ctx context.Context, orderID uuid.UUID, req models.ReceivePurchaseOrderRequest, userID *uuid.UUID) (models.PurchaseOrderStatus, error) {
	if req.Quantity <= 0 {
		return "", models.ErrInvalidField("quantity", "Quantity must be greater than 0.")
	}

	status, err := s.orders.Receive(ctx, orderID, req.ItemID, req.Quantity, userID)
	if err != nil {
		return "", err
	}

	s.logger.WithFields(logrus.Fields{
		"purchase_order_id": orderID,
		"item_id":           req.ItemID,
		"quantity":          req.Quantity,
		"status":            status,
	}).Info("Purchase order stock received")

	return status, nil
}
