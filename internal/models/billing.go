package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillType classifies a bill
type BillType string

const (
	BillRent        BillType = "rent"
	BillUtilities   BillType = "utilities"
	BillTransport   BillType = "transport"
	BillMaintenance BillType = "maintenance"
)

// BillStatus is the payment state of a bill
type BillStatus string

const (
	BillPaid    BillStatus = "paid"
	BillPending BillStatus = "pending"
	BillOverdue BillStatus = "overdue"
)

// Bill is a charge raised against a staff member
type Bill struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	StaffID     string          `json:"staff_id" db:"staff_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Type        BillType        `json:"type" db:"type"`
	Status      BillStatus      `json:"status" db:"status"`
	DueDate     Date            `json:"due_date" db:"due_date"`
	Description *string         `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty" db:"updated_at"`
}

// CreateBillRequest is the payload for a new bill
type CreateBillRequest struct {
	StaffID     string          `json:"staff_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Type        BillType        `json:"type" binding:"required,oneof=rent utilities transport maintenance"`
	DueDate     string          `json:"due_date" binding:"required,iso_date"`
	Description *string         `json:"description"`
}

// BillFilter narrows a bill listing
type BillFilter struct {
	Status  string `form:"status"`
	Type    string `form:"type"`
	StaffID string `form:"staff_id"`
}

// BillingStats totals bills due in one month
type BillingStats struct {
	Month         string          `json:"month"`
	TotalAmount   decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount" db:"paid_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount" db:"pending_amount"`
	OverdueAmount decimal.Decimal `json:"overdue_amount" db:"overdue_amount"`
	BillCount     int             `json:"bill_count" db:"bill_count"`
}
