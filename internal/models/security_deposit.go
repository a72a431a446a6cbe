package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BenefitType identifies one of the optional fringe-benefit agreements
type BenefitType string

const (
	BenefitHousing         BenefitType = "housing"
	BenefitTransportation  BenefitType = "transportation"
	BenefitFlightAgreement BenefitType = "flight_agreement"
	BenefitBusCard         BenefitType = "bus_card"
)

// BenefitTypes lists every benefit in form order
var BenefitTypes = []BenefitType{BenefitHousing, BenefitTransportation, BenefitFlightAgreement, BenefitBusCard}

// Label returns the display name used in user-facing messages
func (b BenefitType) Label() string {
	switch b {
	case BenefitHousing:
		return "Housing"
	case BenefitTransportation:
		return "Transportation"
	case BenefitFlightAgreement:
		return "Flight Agreement"
	case BenefitBusCard:
		return "Bus Card"
	default:
		return string(b)
	}
}

// IsValid reports whether b is a known benefit type
func (b BenefitType) IsValid() bool {
	for _, known := range BenefitTypes {
		if b == known {
			return true
		}
	}
	return false
}

// DefaultDepositAmount is the amount a new deposit starts with for each benefit
func DefaultDepositAmount(b BenefitType) decimal.Decimal {
	switch b {
	case BenefitHousing:
		return decimal.NewFromInt(500)
	case BenefitBusCard:
		return decimal.NewFromInt(25)
	default:
		return decimal.Zero
	}
}

// PaymentMethod is how a deposit is collected
type PaymentMethod string

const (
	PaymentCash             PaymentMethod = "cash"
	PaymentCheck            PaymentMethod = "check"
	PaymentPayrollDeduction PaymentMethod = "payroll_deduction"
	PaymentCard             PaymentMethod = "card"
	PaymentMoneyOrder       PaymentMethod = "money_order"
)

// PaymentStatus tracks whether a deposit has been settled
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// DeductionStatus is the state of one installment
type DeductionStatus string

const (
	DeductionScheduled DeductionStatus = "scheduled"
	DeductionDeducted  DeductionStatus = "deducted"
	DeductionSkipped   DeductionStatus = "skipped"
)

// Deduction is one scheduled payroll installment of a security deposit
type Deduction struct {
	ID              uuid.UUID       `json:"id,omitempty" db:"id"`
	DepositID       uuid.UUID       `json:"deposit_id,omitempty" db:"deposit_id"`
	DeductionNumber int             `json:"deduction_number" db:"deduction_number"`
	ScheduledDate   Date            `json:"scheduled_date" db:"scheduled_date"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Status          DeductionStatus `json:"status" db:"status"`
}

// SecurityDeposit is a monetary holdback tied to one benefit agreement
type SecurityDeposit struct {
	ID                uuid.UUID       `json:"id,omitempty" db:"id"`
	AssignmentID      uuid.UUID       `json:"assignment_id,omitempty" db:"assignment_id"`
	BenefitType       BenefitType     `json:"benefit_type" db:"benefit_type"`
	TotalAmount       decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaymentMethod     PaymentMethod   `json:"payment_method" db:"payment_method"`
	PaymentStatus     PaymentStatus   `json:"payment_status" db:"payment_status"`
	PaidDate          Date            `json:"paid_date" db:"paid_date"`
	Notes             string          `json:"notes" db:"notes"`
	DeductionSchedule []Deduction     `json:"deduction_schedule" db:"-"`
	CreatedAt         time.Time       `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at,omitempty" db:"updated_at"`
}

// ScheduleTotal sums every installment amount
func (d SecurityDeposit) ScheduleTotal() decimal.Decimal {
	total := decimal.Zero
	for _, deduction := range d.DeductionSchedule {
		total = total.Add(deduction.Amount)
	}
	return total
}

// NewSecurityDeposit returns a deposit with the form defaults for a benefit
func NewSecurityDeposit(b BenefitType) SecurityDeposit {
	return SecurityDeposit{
		BenefitType:       b,
		TotalAmount:       DefaultDepositAmount(b),
		PaymentMethod:     PaymentCash,
		PaymentStatus:     PaymentPending,
		DeductionSchedule: []Deduction{},
	}
}

// DeductionPreviewRequest asks for a schedule without persisting anything
type DeductionPreviewRequest struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	StartDate   string          `json:"start_date" binding:"omitempty,iso_date"`
}

// UpdateDepositAmountRequest changes a deposit total and regenerates its schedule
type UpdateDepositAmountRequest struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// MarkDepositPaidRequest settles a deposit
type MarkDepositPaidRequest struct {
	PaidDate      string        `json:"paid_date" binding:"required,iso_date"`
	PaymentMethod PaymentMethod `json:"payment_method" binding:"required,oneof=cash check payroll_deduction card money_order"`
}

// UpdateDeductionStatusRequest records what happened to one installment
type UpdateDeductionStatusRequest struct {
	Status DeductionStatus `json:"status" binding:"required,oneof=scheduled deducted skipped"`
}

// DueDeduction is an upcoming installment joined with its tenant for reporting
type DueDeduction struct {
	DepositID       uuid.UUID       `db:"deposit_id"`
	AssignmentID    uuid.UUID       `db:"assignment_id"`
	TenantName      string          `db:"tenant_name"`
	BenefitType     BenefitType     `db:"benefit_type"`
	DeductionNumber int             `db:"deduction_number"`
	ScheduledDate   Date            `db:"scheduled_date"`
	Amount          decimal.Decimal `db:"amount"`
}
