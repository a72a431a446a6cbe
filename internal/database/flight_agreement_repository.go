package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/staffhousing/backoffice-api/internal/models"
)

const flightAgreementColumns = `
	fa.id, fa.assignment_id, fa.staff_id, fa.staff_name, fa.department, fa.job_title,
	fa.agreement_amount, fa.deduction_amount, fa.total_deductions, fa.processed_deductions,
	fa.start_date, fa.completion_date, fa.status, fa.notes, fa.created_by,
	fa.created_at, fa.updated_at`

const flightDeductionColumns = `
	id, agreement_id, deduction_sequence, payroll_period, deduction_date, scheduled_amount,
	actual_amount, status, processed_at, processed_by, payroll_reference, failure_reason,
	notes, created_at, updated_at`

// FlightAgreementRepository handles flight agreements and their payroll deductions
type FlightAgreementRepository struct {
	db DB
}

// NewFlightAgreementRepository creates a new flight agreement repository
func NewFlightAgreementRepository(db DB) *FlightAgreementRepository {
	return &FlightAgreementRepository{db: db}
}

// CreateWithDeductions stores an agreement and its installment rows in one transaction
func (r *FlightAgreementRepository) CreateWithDeductions(ctx context.Context, fa *models.FlightAgreement) error {
	if fa.ID == uuid.Nil {
		fa.ID = uuid.New()
	}

	agreementQuery := `
		INSERT INTO flight_agreements (
			id, assignment_id, staff_id, staff_name, department, job_title,
			agreement_amount, deduction_amount, total_deductions, processed_deductions,
			start_date, completion_date, status, notes, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		RETURNING created_at, updated_at`

	deductionQuery := `
		INSERT INTO flight_agreement_deductions (
			id, agreement_id, deduction_sequence, payroll_period, deduction_date,
			scheduled_amount, status, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, agreementQuery,
			fa.ID, fa.AssignmentID, fa.StaffID, fa.StaffName, fa.Department, fa.JobTitle,
			fa.AgreementAmount, fa.DeductionAmount, fa.TotalDeductions, fa.ProcessedDeductions,
			fa.StartDate, fa.CompletionDate, fa.Status, fa.Notes, fa.CreatedBy,
		).Scan(&fa.CreatedAt, &fa.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create flight agreement: %w", err)
		}

		for i := range fa.Deductions {
			d := &fa.Deductions[i]
			if d.ID == uuid.Nil {
				d.ID = uuid.New()
			}
			d.AgreementID = fa.ID
			if _, err := tx.ExecContext(ctx, deductionQuery,
				d.ID, d.AgreementID, d.DeductionSequence, d.PayrollPeriod, d.DeductionDate,
				d.ScheduledAmount, d.Status, d.Notes,
			); err != nil {
				return fmt.Errorf("failed to create flight deduction %d: %w", d.DeductionSequence, err)
			}
		}
		return nil
	})
}

// ListSummaries returns agreements with their repayment progress, newest first.
// An empty status returns every agreement.
func (r *FlightAgreementRepository) ListSummaries(ctx context.Context, status string) ([]models.FlightAgreementSummary, error) {
	query := `
		SELECT ` + flightAgreementColumns + `,
		       COALESCE(SUM(COALESCE(d.actual_amount, d.scheduled_amount)) FILTER (WHERE d.status = 'Processed'), 0) AS total_deducted,
		       fa.agreement_amount - COALESCE(SUM(COALESCE(d.actual_amount, d.scheduled_amount)) FILTER (WHERE d.status = 'Processed'), 0) AS remaining_balance,
		       COUNT(d.id) FILTER (WHERE d.status = 'Pending') AS pending_deductions,
		       COUNT(d.id) FILTER (WHERE d.status = 'Failed') AS failed_deductions,
		       MIN(d.deduction_date) FILTER (WHERE d.status = 'Pending') AS next_deduction_date
		FROM flight_agreements fa
		LEFT JOIN flight_agreement_deductions d ON d.agreement_id = fa.id
		WHERE ($1::text = '' OR fa.status = $1::text)
		GROUP BY fa.id
		ORDER BY fa.created_at DESC`

	summaries := []models.FlightAgreementSummary{}
	if err := r.db.SelectContext(ctx, &summaries, query, status); err != nil {
		return nil, fmt.Errorf("failed to list flight agreements: %w", err)
	}
	return summaries, nil
}

// GetByID returns one agreement with its deductions in sequence order
func (r *FlightAgreementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FlightAgreement, error) {
	var fa models.FlightAgreement
	query := `SELECT ` + flightAgreementColumns + ` FROM flight_agreements fa WHERE fa.id = $1`
	if err := r.db.GetContext(ctx, &fa, query, id); err != nil {
		return nil, notFound(err, "get flight agreement")
	}

	fa.Deductions = []models.FlightAgreementDeduction{}
	deductionQuery := `SELECT ` + flightDeductionColumns + `
		FROM flight_agreement_deductions
		WHERE agreement_id = $1
		ORDER BY deduction_sequence`
	if err := r.db.SelectContext(ctx, &fa.Deductions, deductionQuery, id); err != nil {
		return nil, fmt.Errorf("failed to list flight deductions: %w", err)
	}

	return &fa, nil
}

// GetDeduction returns one installment
func (r *FlightAgreementRepository) GetDeduction(ctx context.Context, id uuid.UUID) (*models.FlightAgreementDeduction, error) {
	var d models.FlightAgreementDeduction
	query := `SELECT ` + flightDeductionColumns + ` FROM flight_agreement_deductions WHERE id = $1`
	if err := r.db.GetContext(ctx, &d, query, id); err != nil {
		return nil, notFound(err, "get flight deduction")
	}
	return &d, nil
}

// UpdateDeduction writes a payroll outcome and refreshes the agreement's
// processed count. The agreement becomes Completed once every installment
// is Processed.
func (r *FlightAgreementRepository) UpdateDeduction(ctx context.Context, d *models.FlightAgreementDeduction) error {
	deductionQuery := `
		UPDATE flight_agreement_deductions
		SET status = $2, actual_amount = $3, processed_at = $4, processed_by = $5,
		    payroll_reference = $6, failure_reason = $7, notes = $8, updated_at = NOW()
		WHERE id = $1`

	agreementQuery := `
		UPDATE flight_agreements fa
		SET processed_deductions = p.processed,
		    status = CASE WHEN p.processed >= fa.total_deductions THEN 'Completed' ELSE fa.status END,
		    updated_at = NOW()
		FROM (
			SELECT COUNT(*) FILTER (WHERE status = 'Processed') AS processed
			FROM flight_agreement_deductions
			WHERE agreement_id = $1
		) p
		WHERE fa.id = $1`

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, deductionQuery,
			d.ID, d.Status, d.ActualAmount, d.ProcessedAt, d.ProcessedBy,
			d.PayrollReference, d.FailureReason, d.Notes,
		)
		if err != nil {
			return fmt.Errorf("failed to update flight deduction: %w", err)
		}
		if err := requireAffected(result, "update flight deduction"); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, agreementQuery, d.AgreementID); err != nil {
			return fmt.Errorf("failed to refresh flight agreement progress: %w", err)
		}
		return nil
	})
}

// Cancel marks an agreement Cancelled and cancels every pending installment
func (r *FlightAgreementRepository) Cancel(ctx context.Context, id uuid.UUID, reason string) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE flight_agreements
			SET status = 'Cancelled',
			    notes = CASE WHEN $2::text = '' THEN notes ELSE CONCAT_WS(E'\n', notes, $2::text) END,
			    updated_at = NOW()
			WHERE id = $1`, id, reason)
		if err != nil {
			return fmt.Errorf("failed to cancel flight agreement: %w", err)
		}
		if err := requireAffected(result, "cancel flight agreement"); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE flight_agreement_deductions
			SET status = 'Cancelled', updated_at = NOW()
			WHERE agreement_id = $1 AND status = 'Pending'`, id); err != nil {
			return fmt.Errorf("failed to cancel pending flight deductions: %w", err)
		}
		return nil
	})
}
