package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus is the lifecycle state of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderOrdered   PurchaseOrderStatus = "ordered"
	PurchaseOrderPartial   PurchaseOrderStatus = "partial"
	PurchaseOrderDelivered PurchaseOrderStatus = "delivered"
	PurchaseOrderCancelled PurchaseOrderStatus = "cancelled"
)

var purchaseOrderTransitions = map[PurchaseOrderStatus][]PurchaseOrderStatus{
	PurchaseOrderDraft:   {PurchaseOrderOrdered, PurchaseOrderCancelled},
	PurchaseOrderOrdered: {PurchaseOrderPartial, PurchaseOrderDelivered, PurchaseOrderCancelled},
	PurchaseOrderPartial: {PurchaseOrderDelivered},
}

// CanTransitionTo reports whether s may move to next
func (s PurchaseOrderStatus) CanTransitionTo(next PurchaseOrderStatus) bool {
	for _, allowed := range purchaseOrderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PurchaseOrder is an order placed with a supplier for one property
type PurchaseOrder struct {
	ID                   uuid.UUID           `json:"id" db:"id"`
	SupplierID           *uuid.UUID          `json:"supplier_id,omitempty" db:"supplier_id"`
	PropertyID           uuid.UUID           `json:"property_id" db:"property_id"`
	OrderDate            Date                `json:"order_date" db:"order_date"`
	ExpectedDeliveryDate Date                `json:"expected_delivery_date" db:"expected_delivery_date"`
	Status               PurchaseOrderStatus `json:"status" db:"status"`
	TotalAmount          decimal.Decimal     `json:"total_amount" db:"total_amount"`
	Notes                *string             `json:"notes,omitempty" db:"notes"`
	CreatedBy            *uuid.UUID          `json:"created_by,omitempty" db:"created_by"`
	CreatedAt            time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt            *time.Time          `json:"updated_at,omitempty" db:"updated_at"`
	Items                []PurchaseOrderItem `json:"items,omitempty" db:"-"`
}

// PurchaseOrderItem is one line of a purchase order
type PurchaseOrderItem struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	PurchaseOrderID  uuid.UUID       `json:"purchase_order_id" db:"purchase_order_id"`
	ItemID           uuid.UUID       `json:"item_id" db:"item_id"`
	Quantity         int             `json:"quantity" db:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price" db:"unit_price"`
	ReceivedQuantity int             `json:"received_quantity" db:"received_quantity"`
}

// Outstanding is the quantity still to be received
func (i PurchaseOrderItem) Outstanding() int {
	return i.Quantity - i.ReceivedQuantity
}

// LineTotal is quantity times unit price
func (i PurchaseOrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CreatePurchaseOrderRequest is the payload for a new purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID           *uuid.UUID                 `json:"supplier_id"`
	PropertyID           uuid.UUID                  `json:"property_id" binding:"required"`
	OrderDate            string                     `json:"order_date" binding:"omitempty,iso_date"`
	ExpectedDeliveryDate string                     `json:"expected_delivery_date" binding:"omitempty,iso_date"`
	Notes                *string                    `json:"notes"`
	Items                []PurchaseOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// PurchaseOrderItemRequest is one requested line
type PurchaseOrderItemRequest struct {
	ItemID    uuid.UUID       `json:"item_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// UpdatePurchaseOrderStatusRequest changes a purchase order status
type UpdatePurchaseOrderStatusRequest struct {
	Status PurchaseOrderStatus `json:"status" binding:"required,oneof=draft ordered partial delivered cancelled"`
}

// ReceivePurchaseOrderRequest records delivered quantity for one line
type ReceivePurchaseOrderRequest struct {
	ItemID   uuid.UUID `json:"item_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,gt=0"`
}
