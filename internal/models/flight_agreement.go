package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FlightAgreementStatus is the lifecycle state of a flight agreement
type FlightAgreementStatus string

const (
	FlightAgreementActive    FlightAgreementStatus = "Active"
	FlightAgreementCompleted FlightAgreementStatus = "Completed"
	FlightAgreementCancelled FlightAgreementStatus = "Cancelled"
	FlightAgreementSuspended FlightAgreementStatus = "Suspended"
)

// FlightDeductionStatus is the payroll state of one flight installment
type FlightDeductionStatus string

const (
	FlightDeductionPending   FlightDeductionStatus = "Pending"
	FlightDeductionProcessed FlightDeductionStatus = "Processed"
	FlightDeductionFailed    FlightDeductionStatus = "Failed"
	FlightDeductionCancelled FlightDeductionStatus = "Cancelled"
)

// FlightAgreement is a travel advance repaid through payroll deductions
type FlightAgreement struct {
	ID                  uuid.UUID              `json:"id" db:"id"`
	AssignmentID        *uuid.UUID             `json:"assignment_id,omitempty" db:"assignment_id"`
	StaffID             string                 `json:"staff_id" db:"staff_id"`
	StaffName           string                 `json:"staff_name" db:"staff_name"`
	Department          *string                `json:"department,omitempty" db:"department"`
	JobTitle            *string                `json:"job_title,omitempty" db:"job_title"`
	AgreementAmount     decimal.Decimal        `json:"agreement_amount" db:"agreement_amount"`
	DeductionAmount     decimal.Decimal        `json:"deduction_amount" db:"deduction_amount"`
	TotalDeductions     int                    `json:"total_deductions" db:"total_deductions"`
	ProcessedDeductions int                    `json:"processed_deductions" db:"processed_deductions"`
	StartDate           Date                   `json:"start_date" db:"start_date"`
	CompletionDate      Date                   `json:"completion_date" db:"completion_date"`
	Status              FlightAgreementStatus  `json:"status" db:"status"`
	Notes               *string                `json:"notes,omitempty" db:"notes"`
	CreatedBy           *uuid.UUID             `json:"created_by,omitempty" db:"created_by"`
	CreatedAt           time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at" db:"updated_at"`

	Deductions []FlightAgreementDeduction `json:"deductions,omitempty" db:"-"`
}

// FlightAgreementDeduction is one payroll installment of a flight agreement
type FlightAgreementDeduction struct {
	ID                uuid.UUID             `json:"id" db:"id"`
	AgreementID       uuid.UUID             `json:"agreement_id" db:"agreement_id"`
	DeductionSequence int                   `json:"deduction_sequence" db:"deduction_sequence"`
	PayrollPeriod     string                `json:"payroll_period" db:"payroll_period"`
	DeductionDate     Date                  `json:"deduction_date" db:"deduction_date"`
	ScheduledAmount   decimal.Decimal       `json:"scheduled_amount" db:"scheduled_amount"`
	ActualAmount      decimal.NullDecimal   `json:"actual_amount" db:"actual_amount"`
	Status            FlightDeductionStatus `json:"status" db:"status"`
	ProcessedAt       *time.Time            `json:"processed_at,omitempty" db:"processed_at"`
	ProcessedBy       *uuid.UUID            `json:"processed_by,omitempty" db:"processed_by"`
	PayrollReference  *string               `json:"payroll_reference,omitempty" db:"payroll_reference"`
	FailureReason     *string               `json:"failure_reason,omitempty" db:"failure_reason"`
	Notes             *string               `json:"notes,omitempty" db:"notes"`
	CreatedAt         time.Time             `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at" db:"updated_at"`
}

// FlightAgreementSummary adds repayment progress to an agreement
type FlightAgreementSummary struct {
	FlightAgreement
	TotalDeducted     decimal.Decimal `json:"total_deducted" db:"total_deducted"`
	RemainingBalance  decimal.Decimal `json:"remaining_balance" db:"remaining_balance"`
	PendingDeductions int             `json:"pending_deductions" db:"pending_deductions"`
	FailedDeductions  int             `json:"failed_deductions" db:"failed_deductions"`
	NextDeductionDate Date            `json:"next_deduction_date" db:"next_deduction_date"`
}

// FlightSchedulePreviewRequest asks for a flight schedule without persisting it
type FlightSchedulePreviewRequest struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	StartDate   string          `json:"start_date" binding:"omitempty,iso_date"`
}

// UpdateFlightDeductionRequest records a payroll outcome for one installment
type UpdateFlightDeductionRequest struct {
	Status           FlightDeductionStatus `json:"status" binding:"required,oneof=Pending Processed Failed Cancelled"`
	ActualAmount     *decimal.Decimal      `json:"actual_amount"`
	PayrollReference string                `json:"payroll_reference"`
	FailureReason    string                `json:"failure_reason"`
	Notes            string                `json:"notes"`
}

// CancelFlightAgreementRequest cancels an agreement and its pending installments
type CancelFlightAgreementRequest struct {
	Reason string `json:"reason"`
}
