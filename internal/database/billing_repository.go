package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/staffhousing/backoffice-api/internal/models"
)

const billColumns = `id, staff_id, amount, type, status, due_date, description, created_at, updated_at`

// BillingRepository handles staff bills
type BillingRepository struct {
	db DB
}

// NewBillingRepository creates a new billing repository
func NewBillingRepository(db DB) *BillingRepository {
	return &BillingRepository{db: db}
}

// List returns bills matching the filter, soonest due first
func (r *BillingRepository) List(ctx context.Context, filter models.BillFilter) ([]models.Bill, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.StaffID != "" {
		args = append(args, filter.StaffID)
		conditions = append(conditions, fmt.Sprintf("staff_id = $%d", len(args)))
	}

	query := `SELECT ` + billColumns + ` FROM bills`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY due_date, created_at`

	bills := []models.Bill{}
	if err := r.db.SelectContext(ctx, &bills, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

// Create inserts a bill
func (r *BillingRepository) Create(ctx context.Context, b *models.Bill) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	query := `
		INSERT INTO bills (id, staff_id, amount, type, status, due_date, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		b.ID, b.StaffID, b.Amount, b.Type, b.Status, b.DueDate, b.Description,
	).Scan(&b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}
	return nil
}

// MarkPaid settles a bill
func (r *BillingRepository) MarkPaid(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE bills SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, models.BillPaid,
	)
	if err != nil {
		return fmt.Errorf("failed to mark bill paid: %w", err)
	}
	return requireAffected(result, "mark bill paid")
}

// Delete removes a bill
func (r *BillingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return requireAffected(result, "delete bill")
}

// Stats totals bills due within [from, to)
func (r *BillingRepository) Stats(ctx context.Context, from, to models.Date) (*models.BillingStats, error) {
	query := `
		SELECT
			COALESCE(SUM(amount), 0) AS total_amount,
			COALESCE(SUM(amount) FILTER (WHERE status = 'paid'), 0) AS paid_amount,
			COALESCE(SUM(amount) FILTER (WHERE status = 'pending'), 0) AS pending_amount,
			COALESCE(SUM(amount) FILTER (WHERE status = 'overdue'), 0) AS overdue_amount,
			COUNT(*) AS bill_count
		FROM bills
		WHERE due_date >= $1 AND due_date < $2`

	var stats models.BillingStats
	if err := r.db.GetContext(ctx, &stats, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to get billing stats: %w", err)
	}
	return &stats, nil
}

// MarkOverdue flips pending bills due before today to overdue and returns how many changed
func (r *BillingRepository) MarkOverdue(ctx context.Context, today models.Date) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE bills
		SET status = 'overdue', updated_at = NOW()
		WHERE status = 'pending' AND due_date < $1`, today)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue bills: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
