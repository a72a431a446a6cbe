package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/staffhousing/backoffice-api/internal/models"
)

const depositColumns = `
	id, assignment_id, benefit_type, total_amount, payment_method, payment_status,
	paid_date, COALESCE(notes, '') AS notes, created_at, updated_at`

const deductionColumns = `id, deposit_id, deduction_number, scheduled_date, amount, status`

// SecurityDepositRepository handles security deposits and their deduction schedules
type SecurityDepositRepository struct {
	db DB
}

// NewSecurityDepositRepository creates a new security deposit repository
func NewSecurityDepositRepository(db DB) *SecurityDepositRepository {
	return &SecurityDepositRepository{db: db}
}

// ListByAssignment returns the deposits of an assignment with their schedules
func (r *SecurityDepositRepository) ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]models.SecurityDeposit, error) {
	query := `SELECT ` + depositColumns + `
		FROM security_deposits
		WHERE assignment_id = $1
		ORDER BY created_at, benefit_type`

	deposits := []models.SecurityDeposit{}
	if err := r.db.SelectContext(ctx, &deposits, query, assignmentID); err != nil {
		return nil, fmt.Errorf("failed to list security deposits: %w", err)
	}
	if len(deposits) == 0 {
		return deposits, nil
	}

	deductionQuery := `
		SELECT d.id, d.deposit_id, d.deduction_number, d.scheduled_date, d.amount, d.status
		FROM security_deposit_deductions d
		JOIN security_deposits s ON s.id = d.deposit_id
		WHERE s.assignment_id = $1
		ORDER BY d.deposit_id, d.deduction_number`

	deductions := []models.Deduction{}
	if err := r.db.SelectContext(ctx, &deductions, deductionQuery, assignmentID); err != nil {
		return nil, fmt.Errorf("failed to list deductions: %w", err)
	}

	byDeposit := make(map[uuid.UUID][]models.Deduction, len(deposits))
	for _, d := range deductions {
		byDeposit[d.DepositID] = append(byDeposit[d.DepositID], d)
	}
	for i := range deposits {
		schedule := byDeposit[deposits[i].ID]
		if schedule == nil {
			schedule = []models.Deduction{}
		}
		deposits[i].DeductionSchedule = schedule
	}

	return deposits, nil
}

// GetByID returns one deposit with its schedule
func (r *SecurityDepositRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SecurityDeposit, error) {
	var deposit models.SecurityDeposit
	if err := r.db.GetContext(ctx, &deposit, `SELECT `+depositColumns+` FROM security_deposits WHERE id = $1`, id); err != nil {
		return nil, notFound(err, "get security deposit")
	}

	deposit.DeductionSchedule = []models.Deduction{}
	query := `SELECT ` + deductionColumns + `
		FROM security_deposit_deductions
		WHERE deposit_id = $1
		ORDER BY deduction_number`
	if err := r.db.SelectContext(ctx, &deposit.DeductionSchedule, query, id); err != nil {
		return nil, fmt.Errorf("failed to list deductions: %w", err)
	}

	return &deposit, nil
}

// UpdateAmount sets a new total and replaces the whole schedule
func (r *SecurityDepositRepository) UpdateAmount(ctx context.Context, id uuid.UUID, total decimal.Decimal, schedule []models.Deduction) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE security_deposits SET total_amount = $2, updated_at = NOW() WHERE id = $1`,
			id, total,
		)
		if err != nil {
			return fmt.Errorf("failed to update security deposit amount: %w", err)
		}
		if err := requireAffected(result, "update security deposit amount"); err != nil {
			return err
		}
		return replaceDeductions(ctx, tx, id, schedule)
	})
}

// MarkPaid settles a deposit
func (r *SecurityDepositRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidDate models.Date, method models.PaymentMethod) error {
	query := `
		UPDATE security_deposits
		SET payment_status = $2, paid_date = $3, payment_method = $4, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, models.PaymentPaid, paidDate, method)
	if err != nil {
		return fmt.Errorf("failed to mark security deposit paid: %w", err)
	}
	return requireAffected(result, "mark security deposit paid")
}

// UpdateDeductionStatus records the outcome of one installment
func (r *SecurityDepositRepository) UpdateDeductionStatus(ctx context.Context, depositID uuid.UUID, number int, status models.DeductionStatus) error {
	query := `
		UPDATE security_deposit_deductions
		SET status = $3
		WHERE deposit_id = $1 AND deduction_number = $2`

	result, err := r.db.ExecContext(ctx, query, depositID, number, status)
	if err != nil {
		return fmt.Errorf("failed to update deduction status: %w", err)
	}
	return requireAffected(result, "update deduction status")
}

// ListDueDeductions returns scheduled installments falling within [from, to]
func (r *SecurityDepositRepository) ListDueDeductions(ctx context.Context, from, to models.Date) ([]models.DueDeduction, error) {
	query := `
		SELECT s.id AS deposit_id, s.assignment_id, a.tenant_name, s.benefit_type,
		       d.deduction_number, d.scheduled_date, d.amount
		FROM security_deposit_deductions d
		JOIN security_deposits s ON s.id = d.deposit_id
		JOIN assignments a ON a.id = s.assignment_id
		WHERE d.status = 'scheduled' AND d.scheduled_date BETWEEN $1 AND $2
		ORDER BY d.scheduled_date, a.tenant_name`

	due := []models.DueDeduction{}
	if err := r.db.SelectContext(ctx, &due, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list due deductions: %w", err)
	}
	return due, nil
}

// insertDeposit writes a deposit and its schedule inside tx
func insertDeposit(ctx context.Context, tx *sqlx.Tx, deposit *models.SecurityDeposit) error {
	if deposit.ID == uuid.Nil {
		deposit.ID = uuid.New()
	}

	query := `
		INSERT INTO security_deposits (id, assignment_id, benefit_type, total_amount, payment_method,
		                               payment_status, paid_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`

	if _, err := tx.ExecContext(ctx, query,
		deposit.ID, deposit.AssignmentID, deposit.BenefitType, deposit.TotalAmount,
		deposit.PaymentMethod, deposit.PaymentStatus, deposit.PaidDate, deposit.Notes,
	); err != nil {
		return fmt.Errorf("failed to create %s security deposit: %w", deposit.BenefitType, err)
	}

	return insertDeductions(ctx, tx, deposit.ID, deposit.DeductionSchedule)
}

// replaceDeductions discards a deposit's schedule and writes a new one
func replaceDeductions(ctx context.Context, tx *sqlx.Tx, depositID uuid.UUID, schedule []models.Deduction) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM security_deposit_deductions WHERE deposit_id = $1`, depositID); err != nil {
		return fmt.Errorf("failed to clear deductions: %w", err)
	}
	return insertDeductions(ctx, tx, depositID, schedule)
}

func insertDeductions(ctx context.Context, tx *sqlx.Tx, depositID uuid.UUID, schedule []models.Deduction) error {
	query := `
		INSERT INTO security_deposit_deductions (id, deposit_id, deduction_number, scheduled_date, amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for i := range schedule {
		d := &schedule[i]
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		d.DepositID = depositID
		if _, err := tx.ExecContext(ctx, query, d.ID, depositID, d.DeductionNumber, d.ScheduledDate, d.Amount, d.Status); err != nil {
			return fmt.Errorf("failed to create deduction %d: %w", d.DeductionNumber, err)
		}
	}
	return nil
}
