package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryCondition describes the physical state of an item
type InventoryCondition string

const (
	ConditionNew         InventoryCondition = "New"
	ConditionExcellent   InventoryCondition = "Excellent"
	ConditionGood        InventoryCondition = "Good"
	ConditionFair        InventoryCondition = "Fair"
	ConditionPoor        InventoryCondition = "Poor"
	ConditionNeedsRepair InventoryCondition = "Needs_Repair"
	ConditionDamaged     InventoryCondition = "Damaged"
)

// InventoryStatus is the stock status of an item
type InventoryStatus string

const (
	InventoryAvailable   InventoryStatus = "Available"
	InventoryIssued      InventoryStatus = "Issued"
	InventoryReserved    InventoryStatus = "Reserved"
	InventoryUnderRepair InventoryStatus = "Under_Repair"
	InventoryDisposed    InventoryStatus = "Disposed"
	InventoryLost        InventoryStatus = "Lost"
	InventoryStolen      InventoryStatus = "Stolen"
)

// InventoryTransactionType classifies a stock movement
type InventoryTransactionType string

const (
	TransactionReceived InventoryTransactionType = "received"
	TransactionIssued   InventoryTransactionType = "issued"
	TransactionAdjusted InventoryTransactionType = "adjusted"
)

// InventoryCategory groups items, optionally under a parent category
type InventoryCategory struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	Name             string     `json:"name" db:"name"`
	Description      *string    `json:"description,omitempty" db:"description"`
	ParentCategoryID *uuid.UUID `json:"parent_category_id,omitempty" db:"parent_category_id"`
	ColorCode        *string    `json:"color_code,omitempty" db:"color_code"`
	IconName         *string    `json:"icon_name,omitempty" db:"icon_name"`
	IsActive         bool       `json:"is_active" db:"is_active"`
	SortOrder        int        `json:"sort_order" db:"sort_order"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// InventoryCategoryRequest creates or updates a category
type InventoryCategoryRequest struct {
	Name             string     `json:"name" binding:"required,max=100"`
	Description      *string    `json:"description"`
	ParentCategoryID *uuid.UUID `json:"parent_category_id"`
	ColorCode        *string    `json:"color_code" binding:"omitempty,hexcolor"`
	IconName         *string    `json:"icon_name"`
	IsActive         *bool      `json:"is_active"`
	SortOrder        int        `json:"sort_order"`
}

// InventoryItem is a stock-keeping unit tracked globally across properties
type InventoryItem struct {
	ID                uuid.UUID           `json:"id" db:"id"`
	Name              string              `json:"name" db:"name"`
	Description       *string             `json:"description,omitempty" db:"description"`
	CategoryID        *uuid.UUID          `json:"category_id,omitempty" db:"category_id"`
	SKU               *string             `json:"sku,omitempty" db:"sku"`
	Brand             *string             `json:"brand,omitempty" db:"brand"`
	Model             *string             `json:"model,omitempty" db:"model"`
	TotalQuantity     int                 `json:"total_quantity" db:"total_quantity"`
	AvailableQuantity int                 `json:"available_quantity" db:"available_quantity"`
	IssuedQuantity    int                 `json:"issued_quantity" db:"issued_quantity"`
	ReservedQuantity  int                 `json:"reserved_quantity" db:"reserved_quantity"`
	MinimumStockLevel int                 `json:"minimum_stock_level" db:"minimum_stock_level"`
	ReorderPoint      int                 `json:"reorder_point" db:"reorder_point"`
	UnitCost          decimal.NullDecimal `json:"unit_cost" db:"unit_cost"`
	UnitPrice         decimal.NullDecimal `json:"unit_price" db:"unit_price"`
	Currency          string              `json:"currency" db:"currency"`
	Condition         InventoryCondition  `json:"condition" db:"condition"`
	Status            InventoryStatus     `json:"status" db:"status"`
	SupplierID        *uuid.UUID          `json:"supplier_id,omitempty" db:"supplier_id"`
	Location          *string             `json:"location,omitempty" db:"location"`
	Tags              StringArray         `json:"tags" db:"tags"`
	Notes             *string             `json:"notes,omitempty" db:"notes"`
	IsActive          bool                `json:"is_active" db:"is_active"`
	CreatedAt         time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt         *time.Time          `json:"updated_at,omitempty" db:"updated_at"`
}

// IsLowStock reports whether the available quantity has reached the reorder point
func (i InventoryItem) IsLowStock() bool {
	return i.AvailableQuantity <= i.ReorderPoint
}

// InventoryItemRequest creates or updates an item
type InventoryItemRequest struct {
	Name              string              `json:"name" binding:"required,max=200"`
	Description       *string             `json:"description"`
	CategoryID        *uuid.UUID          `json:"category_id"`
	SKU               *string             `json:"sku"`
	Brand             *string             `json:"brand"`
	Model             *string             `json:"model"`
	TotalQuantity     int                 `json:"total_quantity" binding:"gte=0"`
	MinimumStockLevel int                 `json:"minimum_stock_level" binding:"gte=0"`
	ReorderPoint      int                 `json:"reorder_point" binding:"gte=0"`
	UnitCost          decimal.NullDecimal `json:"unit_cost"`
	UnitPrice         decimal.NullDecimal `json:"unit_price"`
	Currency          string              `json:"currency" binding:"omitempty,len=3"`
	Condition         InventoryCondition  `json:"condition" binding:"omitempty,oneof=New Excellent Good Fair Poor Needs_Repair Damaged"`
	SupplierID        *uuid.UUID          `json:"supplier_id"`
	Location          *string             `json:"location"`
	Tags              []string            `json:"tags"`
	Notes             *string             `json:"notes"`
}

// InventoryItemFilter narrows an item listing
type InventoryItemFilter struct {
	CategoryID string `form:"category_id"`
	Status     string `form:"status"`
	LowStock   bool   `form:"low_stock"`
}

// StockAdjustmentRequest changes total and available quantity by delta
type StockAdjustmentRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// IssueItemRequest moves stock from available to issued for a property
type IssueItemRequest struct {
	PropertyID     uuid.UUID `json:"property_id" binding:"required"`
	Quantity       int       `json:"quantity" binding:"required,gt=0"`
	IssuedToPerson string    `json:"issued_to_person"`
	Purpose        string    `json:"purpose"`
}

// InventoryIssuance records stock handed out to a property
type InventoryIssuance struct {
	ID             uuid.UUID          `json:"id" db:"id"`
	ItemID         uuid.UUID          `json:"item_id" db:"item_id"`
	PropertyID     uuid.UUID          `json:"property_id" db:"property_id"`
	QuantityIssued int                `json:"quantity_issued" db:"quantity_issued"`
	Status         string             `json:"status" db:"status"`
	IssuedDate     Date               `json:"issued_date" db:"issued_date"`
	IssuedBy       *uuid.UUID         `json:"issued_by,omitempty" db:"issued_by"`
	IssuedToPerson *string            `json:"issued_to_person,omitempty" db:"issued_to_person"`
	Condition      InventoryCondition `json:"condition_at_issuance" db:"condition_at_issuance"`
	Purpose        *string            `json:"purpose,omitempty" db:"purpose"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
}

// InventoryTransaction is an append-only stock movement record
type InventoryTransaction struct {
	ID               uuid.UUID                `json:"id" db:"id"`
	ItemID           uuid.UUID                `json:"item_id" db:"item_id"`
	PropertyID       *uuid.UUID               `json:"property_id,omitempty" db:"property_id"`
	TransactionType  InventoryTransactionType `json:"transaction_type" db:"transaction_type"`
	Quantity         int                      `json:"quantity" db:"quantity"`
	PreviousQuantity int                      `json:"previous_quantity" db:"previous_quantity"`
	NewQuantity      int                      `json:"new_quantity" db:"new_quantity"`
	Notes            *string                  `json:"notes,omitempty" db:"notes"`
	CreatedBy        *uuid.UUID               `json:"created_by,omitempty" db:"created_by"`
	CreatedAt        time.Time                `json:"created_at" db:"created_at"`
}

// Supplier is a vendor inventory is purchased from
type Supplier struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	Name          string      `json:"name" db:"name"`
	ContactPerson *string     `json:"contact_person,omitempty" db:"contact_person"`
	Email         *string     `json:"email,omitempty" db:"email"`
	Phone         *string     `json:"phone,omitempty" db:"phone"`
	Address       *string     `json:"address,omitempty" db:"address"`
	Categories    StringArray `json:"categories" db:"categories"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     *time.Time  `json:"updated_at,omitempty" db:"updated_at"`
}

// SupplierRequest creates or updates a supplier
type SupplierRequest struct {
	Name          string   `json:"name" binding:"required,max=200"`
	ContactPerson *string  `json:"contact_person"`
	Email         *string  `json:"email" binding:"omitempty,email"`
	Phone         *string  `json:"phone" binding:"omitempty,us_phone"`
	Address       *string  `json:"address"`
	Categories    []string `json:"categories"`
}
