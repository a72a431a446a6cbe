package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/staffhousing/backoffice-api/internal/models"
)

// externalStaffColumns maps the payroll export's spreadsheet-style columns
// onto typed fields. NULL text becomes "".
const externalStaffColumns = `
	id::text AS id,
	COALESCE(business_key, '') AS business_key,
	COALESCE("PAYROLL FIRST NAME", '') AS first_name,
	COALESCE("PAYROLL LAST NAME", '') AS last_name,
	COALESCE("PAYROLL MIDDLE NAME", '') AS middle_name,
	COALESCE("JOB TITLE", '') AS job_title,
	COALESCE("HOME DEPARTMENT", '') AS department,
	COALESCE("LOCATION", '') AS location,
	COALESCE("REPORTS TO NAME", '') AS manager,
	COALESCE("WORK E-MAIL", '') AS work_email,
	COALESCE("PERSONAL E-MAIL", '') AS personal_email,
	COALESCE("ASSOCIATE ID", '') AS employee_id,
	COALESCE("FILE NUMBER", '') AS file_number,
	COALESCE("POSITION STATUS", '') AS position_status,
	COALESCE("HIRE DATE", '') AS hire_date,
	COALESCE("TERMINATION DATE", '') AS termination_date,
	created_at,
	updated_at`

// ExternalStaffRepository reads and writes the payroll directory table
type ExternalStaffRepository struct {
	db DB
}

// NewExternalStaffRepository creates a new external staff repository
func NewExternalStaffRepository(db DB) *ExternalStaffRepository {
	return &ExternalStaffRepository{db: db}
}

// ListPage returns one page of the directory ordered by id
func (r *ExternalStaffRepository) ListPage(ctx context.Context, offset, limit int) ([]models.ExternalStaff, error) {
	query := `SELECT ` + externalStaffColumns + `
		FROM external_staff
		ORDER BY id
		LIMIT $1 OFFSET $2`

	staff := []models.ExternalStaff{}
	if err := r.db.SelectContext(ctx, &staff, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list external staff page: %w", err)
	}
	return staff, nil
}

func statusClause(status string) string {
	switch strings.ToLower(status) {
	case "active":
		return `WHERE "POSITION STATUS" ILIKE 'active'`
	case "inactive", "terminated":
		return `WHERE "POSITION STATUS" IS NULL OR "POSITION STATUS" NOT ILIKE 'active'`
	default:
		return ""
	}
}

// List returns a filtered page of the directory plus the filtered total
func (r *ExternalStaffRepository) List(ctx context.Context, filter models.ExternalStaffFilter) ([]models.ExternalStaff, int, error) {
	filter.Normalize()
	where := statusClause(filter.Status)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM external_staff `+where); err != nil {
		return nil, 0, fmt.Errorf("failed to count external staff: %w", err)
	}

	query := `SELECT ` + externalStaffColumns + `
		FROM external_staff ` + where + `
		ORDER BY "PAYROLL LAST NAME", "PAYROLL FIRST NAME", id
		LIMIT $1 OFFSET $2`

	staff := []models.ExternalStaff{}
	offset := (filter.Page - 1) * filter.PageSize
	if err := r.db.SelectContext(ctx, &staff, query, filter.PageSize, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list external staff: %w", err)
	}
	return staff, total, nil
}

// GetByID returns one directory row
func (r *ExternalStaffRepository) GetByID(ctx context.Context, id string) (*models.ExternalStaff, error) {
	query := `SELECT ` + externalStaffColumns + ` FROM external_staff WHERE id::text = $1`

	var s models.ExternalStaff
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		return nil, notFound(err, "get external staff")
	}
	return &s, nil
}

// Stats counts the directory by position status
func (r *ExternalStaffRepository) Stats(ctx context.Context) (*models.ExternalStaffStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE "POSITION STATUS" ILIKE 'active') AS active,
			COUNT(*) FILTER (WHERE "POSITION STATUS" IS NULL OR "POSITION STATUS" NOT ILIKE 'active') AS inactive
		FROM external_staff`

	var stats models.ExternalStaffStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to get external staff stats: %w", err)
	}
	return &stats, nil
}

// UpsertBatch inserts or updates rows keyed by business_key, batchSize rows
// per transaction, and returns how many rows were written
func (r *ExternalStaffRepository) UpsertBatch(ctx context.Context, rows []models.ExternalStaff, batchSize int) (int, error) {
	query := `
		INSERT INTO external_staff (
			business_key, "PAYROLL FIRST NAME", "PAYROLL LAST NAME", "PAYROLL MIDDLE NAME",
			"JOB TITLE", "HOME DEPARTMENT", "LOCATION", "REPORTS TO NAME",
			"WORK E-MAIL", "PERSONAL E-MAIL", "ASSOCIATE ID", "FILE NUMBER",
			"POSITION STATUS", "HIRE DATE", "TERMINATION DATE", created_at, updated_at
		) VALUES (
			$1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''),
			NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''),
			NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''), NULLIF($12, ''),
			NULLIF($13, ''), NULLIF($14, ''), NULLIF($15, ''), NOW(), NOW()
		)
		ON CONFLICT (business_key) DO UPDATE SET
			"PAYROLL FIRST NAME" = EXCLUDED."PAYROLL FIRST NAME",
			"PAYROLL LAST NAME" = EXCLUDED."PAYROLL LAST NAME",
			"PAYROLL MIDDLE NAME" = EXCLUDED."PAYROLL MIDDLE NAME",
			"JOB TITLE" = EXCLUDED."JOB TITLE",
			"HOME DEPARTMENT" = EXCLUDED."HOME DEPARTMENT",
			"LOCATION" = EXCLUDED."LOCATION",
			"REPORTS TO NAME" = EXCLUDED."REPORTS TO NAME",
			"WORK E-MAIL" = EXCLUDED."WORK E-MAIL",
			"PERSONAL E-MAIL" = EXCLUDED."PERSONAL E-MAIL",
			"ASSOCIATE ID" = EXCLUDED."ASSOCIATE ID",
			"FILE NUMBER" = EXCLUDED."FILE NUMBER",
			"POSITION STATUS" = EXCLUDED."POSITION STATUS",
			"HIRE DATE" = EXCLUDED."HIRE DATE",
			"TERMINATION DATE" = EXCLUDED."TERMINATION DATE",
			updated_at = NOW()`

	if batchSize <= 0 {
		batchSize = len(rows)
	}

	written := 0
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		batch := rows[start:end]

		err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
			for _, s := range batch {
				if _, err := tx.ExecContext(ctx, query,
					s.BusinessKey, s.FirstName, s.LastName, s.MiddleName,
					s.JobTitle, s.Department, s.Location, s.Manager,
					s.WorkEmail, s.PersonalEmail, s.EmployeeID, s.FileNumber,
					s.PositionStatus, s.HireDate, s.TerminationDate,
				); err != nil {
					return fmt.Errorf("failed to upsert external staff %q: %w", s.BusinessKey, err)
				}
			}
			return nil
		})
		if err != nil {
			return written, err
		}
		written += len(batch)
	}

	return written, nil
}
