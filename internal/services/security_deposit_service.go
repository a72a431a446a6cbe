package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/models"
)

// DepositStore persists security deposits and their installments
type DepositStore interface {
	ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]models.SecurityDeposit, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.SecurityDeposit, error)
	UpdateAmount(ctx context.Context, id uuid.UUID, total decimal.Decimal, schedule []models.Deduction) error
	MarkPaid(ctx context.Context, id uuid.UUID, paidDate models.Date, method models.PaymentMethod) error
	UpdateDeductionStatus(ctx context.Context, depositID uuid.UUID, number int, status models.DeductionStatus) error
	ListDueDeductions(ctx context.Context, from, to models.Date) ([]models.DueDeduction, error)
}

// AssignmentLookup loads an assignment by id
type AssignmentLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
}

// SecurityDepositService manages deposits after an assignment has been created
type SecurityDepositService struct {
	deposits    DepositStore
	assignments AssignmentLookup
	logger      *logrus.Logger
}

// NewSecurityDepositService creates a new security deposit service
func NewSecurityDepositService(deposits DepositStore, assignments AssignmentLookup, logger *logrus.Logger) *SecurityDepositService {
	return &SecurityDepositService{
		deposits:    deposits,
		assignments: assignments,
		logger:      logger,
	}
}

// ListByAssignment returns the deposits of an assignment
func (s *SecurityDepositService) ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]models.SecurityDeposit, error) {
	if _, err := s.assignments.GetByID(ctx, assignmentID); err != nil {
		return nil, err
	}
	return s.deposits.ListByAssignment(ctx, assignmentID)
}

// UpdateAmount changes a deposit total and regenerates its schedule from the
// assignment start date
func (s *SecurityDepositService) UpdateAmount(ctx context.Context, id uuid.UUID, total decimal.Decimal) (*models.SecurityDeposit, error) {
	if !total.IsPositive() {
		return nil, models.ErrInvalidField("total_amount", "Please enter a security deposit amount greater than 0.")
	}

	deposit, err := s.deposits.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignments.GetByID(ctx, deposit.AssignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignment for deposit: %w", err)
	}

	schedule := GenerateDeductionSchedule(total, assignment.StartDate.String())
	if err := s.deposits.UpdateAmount(ctx, id, total, schedule); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"deposit_id": id,
		"previous":   deposit.TotalAmount.String(),
		"total":      total.String(),
	}).Info("Security deposit amount updated")

	deposit.TotalAmount = total
	deposit.DeductionSchedule = schedule
	return deposit, nil
}

// MarkPaid settles a deposit
func (s *SecurityDepositService) MarkPaid(ctx context.Context, id uuid.UUID, req models.MarkDepositPaidRequest) error {
	paidDate, err := models.ParseDate(req.PaidDate)
	if err != nil {
		return models.ErrInvalidField("paid_date", "Please enter a valid paid date.")
	}
	return s.deposits.MarkPaid(ctx, id, paidDate, req.PaymentMethod)
}

// UpdateDeductionStatus records whether an installment was deducted or skipped
func (s *SecurityDepositService) UpdateDeductionStatus(ctx context.Context, depositID uuid.UUID, number int, status models.DeductionStatus) error {
	if number < 1 || number > DepositInstallments {
		return models.ErrInvalidField("deduction_number",
			fmt.Sprintf("Deduction number must be between 1 and %d.", DepositInstallments))
	}
	switch status {
	case models.DeductionScheduled, models.DeductionDeducted, models.DeductionSkipped:
	default:
		return models.ErrInvalidField("status", "Unknown deduction status.")
	}
	return s.deposits.UpdateDeductionStatus(ctx, depositID, number, status)
}

// DueDeductions lists scheduled installments from today through the next days
func (s *SecurityDepositService) DueDeductions(ctx context.Context, today models.Date, days int) ([]models.DueDeduction, error) {
	return s.deposits.ListDueDeductions(ctx, today, today.AddDays(days))
}
