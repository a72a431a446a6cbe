package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/models"
)

// FlightAgreementRepository is the storage the flight agreement service needs
type FlightAgreementRepository interface {
	ListSummaries(ctx context.Context, status string) ([]models.FlightAgreementSummary, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.FlightAgreement, error)
	UpdateDeduction(ctx context.Context, d *models.FlightAgreementDeduction) error
	Cancel(ctx context.Context, id uuid.UUID, reason string) error
}

// FlightAgreementService tracks payroll repayment of flight agreements
type FlightAgreementService struct {
	repo   FlightAgreementRepository
	logger *logrus.Logger
	now    func() time.Time
}

// NewFlightAgreementService creates a new flight agreement service
func NewFlightAgreementService(repo FlightAgreementRepository, logger *logrus.Logger) *FlightAgreementService {
	return &FlightAgreementService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// List returns agreement summaries, optionally for one status
func (s *FlightAgreementService) List(ctx context.Context, status string) ([]models.FlightAgreementSummary, error) {
	return s.repo.ListSummaries(ctx, strings.TrimSpace(status))
}

// Get returns an agreement with its deductions
func (s *FlightAgreementService) Get(ctx context.Context, id uuid.UUID) (*models.FlightAgreement, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateDeduction records the payroll outcome of one installment
func (s *FlightAgreementService) UpdateDeduction(
	ctx context.Context,
	agreementID uuid.UUID,
	sequence int,
	req models.UpdateFlightDeductionRequest,
	processedBy *uuid.UUID,
) (*models.FlightAgreementDeduction, error) {
	agreement, err := s.repo.GetByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}
	if agreement.Status == models.FlightAgreementCancelled {
		return nil, fmt.Errorf("%w: agreement is cancelled", models.ErrInvalidStatusTransition)
	}

	var deduction *models.FlightAgreementDeduction
	for i := range agreement.Deductions {
		if agreement.Deductions[i].DeductionSequence == sequence {
			deduction = &agreement.Deductions[i]
			break
		}
	}
	if deduction == nil {
		return nil, models.ErrNotFound
	}

	switch req.Status {
	case models.FlightDeductionProcessed:
		amount := deduction.ScheduledAmount
		if req.ActualAmount != nil {
			if req.ActualAmount.IsNegative() {
				return nil, models.ErrInvalidField("actual_amount", "Actual amount cannot be negative.")
			}
			amount = *req.ActualAmount
		}
		now := s.now()
		deduction.ActualAmount = decimal.NewNullDecimal(amount)
		deduction.ProcessedAt = &now
		deduction.ProcessedBy = processedBy
		deduction.PayrollReference = optionalString(req.PayrollReference)
		deduction.FailureReason = nil
	case models.FlightDeductionFailed:
		if strings.TrimSpace(req.FailureReason) == "" {
			return nil, models.ErrInvalidField("failure_reason", "Please enter a failure reason.")
		}
		deduction.ActualAmount = decimal.NullDecimal{}
		deduction.FailureReason = optionalString(req.FailureReason)
	case models.FlightDeductionPending, models.FlightDeductionCancelled:
		deduction.ActualAmount = decimal.NullDecimal{}
		deduction.ProcessedAt = nil
		deduction.ProcessedBy = nil
	default:
		return nil, models.ErrInvalidField("status", "Unknown deduction status.")
	}
	deduction.Status = req.Status
	if notes := optionalString(req.Notes); notes != nil {
		deduction.Notes = notes
	}

	if err := s.repo.UpdateDeduction(ctx, deduction); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"agreement_id": agreementID,
		"sequence":     sequence,
		"status":       req.Status,
	}).Info("Flight deduction updated")

	return deduction, nil
}

// Cancel cancels an agreement and all of its pending deductions
func (s *FlightAgreementService) Cancel(ctx context.Context, id uuid.UUID, reason string) error {
	agreement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if agreement.Status == models.FlightAgreementCompleted || agreement.Status == models.FlightAgreementCancelled {
		return fmt.Errorf("%w: agreement is %s", models.ErrInvalidStatusTransition, strings.ToLower(string(agreement.Status)))
	}

	note := strings.TrimSpace(reason)
	if note != "" {
		note = "Cancelled: " + note
	}
	return s.repo.Cancel(ctx, id, note)
}
