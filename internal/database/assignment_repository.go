package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/staffhousing/backoffice-api/internal/models"
)

const assignmentColumns = `
	id, tenant_name, tenant_id, staff_id, staff_name, property_id, property_name,
	room_id, room_name, status, start_date, end_date, rent_amount,
	housing_agreement, transportation_agreement, flight_agreement, bus_card_agreement,
	created_at, updated_at`

// AssignmentRepository handles tenant/room assignments
type AssignmentRepository struct {
	db DB
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// CreateWithDeposits stores an assignment and all of its deposits and
// deduction schedules in one transaction
func (r *AssignmentRepository) CreateWithDeposits(ctx context.Context, a *models.Assignment, deposits []models.SecurityDeposit) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	query := `
		INSERT INTO assignments (
			id, tenant_name, tenant_id, staff_id, staff_name, property_id, property_name,
			room_id, room_name, status, start_date, end_date, rent_amount,
			housing_agreement, transportation_agreement, flight_agreement, bus_card_agreement,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
		RETURNING created_at, updated_at`

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, query,
			a.ID, a.TenantName, a.TenantID, a.StaffID, a.StaffName, a.PropertyID, a.PropertyName,
			a.RoomID, a.RoomName, a.Status, a.StartDate, a.EndDate, a.RentAmount,
			a.HousingAgreement, a.TransportationAgreement, a.FlightAgreement, a.BusCardAgreement,
		).Scan(&a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create assignment: %w", err)
		}

		for i := range deposits {
			deposits[i].AssignmentID = a.ID
			if err := insertDeposit(ctx, tx, &deposits[i]); err != nil {
				return err
			}
		}
		a.SecurityDeposits = deposits
		return nil
	})
}

// GetByID returns one assignment without its deposits
func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	var a models.Assignment
	if err := r.db.GetContext(ctx, &a, `SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, id); err != nil {
		return nil, notFound(err, "get assignment")
	}
	return &a, nil
}

// List returns assignments matching the filter, newest first
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.PropertyID != "" {
		args = append(args, filter.PropertyID)
		conditions = append(conditions, fmt.Sprintf("property_id::text = $%d", len(args)))
	}
	if filter.TenantID != "" {
		args = append(args, filter.TenantID)
		conditions = append(conditions, fmt.Sprintf("tenant_id = $%d", len(args)))
	}

	query := `SELECT ` + assignmentColumns + ` FROM assignments`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	assignments := []models.Assignment{}
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

// UpdateStartDate moves the start date and replaces every given deposit's schedule
func (r *AssignmentRepository) UpdateStartDate(ctx context.Context, id uuid.UUID, startDate models.Date, deposits []models.SecurityDeposit) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE assignments SET start_date = $2, updated_at = NOW() WHERE id = $1`,
			id, startDate,
		)
		if err != nil {
			return fmt.Errorf("failed to update assignment start date: %w", err)
		}
		if err := requireAffected(result, "update assignment start date"); err != nil {
			return err
		}

		for i := range deposits {
			if err := replaceDeductions(ctx, tx, deposits[i].ID, deposits[i].DeductionSchedule); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateStatus changes an assignment status
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AssignmentStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE assignments SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update assignment status: %w", err)
	}
	return requireAffected(result, "update assignment status")
}

// Delete removes an assignment with its deposits and schedules
func (r *AssignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM security_deposit_deductions
			WHERE deposit_id IN (SELECT id FROM security_deposits WHERE assignment_id = $1)`, id); err != nil {
			return fmt.Errorf("failed to delete deductions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM security_deposits WHERE assignment_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete security deposits: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete assignment: %w", err)
		}
		return requireAffected(result, "delete assignment")
	})
}
