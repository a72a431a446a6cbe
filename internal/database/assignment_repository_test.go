package database

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func housingDeposit(t *testing.T) models.SecurityDeposit {
	t.Helper()
	start, err := models.ParseDate("2024-01-01")
	require.NoError(t, err)

	deposit := models.NewSecurityDeposit(models.BenefitHousing)
	for i := 0; i < 4; i++ {
		deposit.DeductionSchedule = append(deposit.DeductionSchedule, models.Deduction{
			DeductionNumber: i + 1,
			ScheduledDate:   start.AddDays(14 * i),
			Amount:          decimal.NewFromInt(125),
			Status:          models.DeductionScheduled,
		})
	}
	return deposit
}

func TestAssignmentRepository_CreateWithDeposits(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAssignmentRepository(db)
		now := time.Now()

		assignment := &models.Assignment{
			TenantName:       "Jane Doe",
			TenantID:         "42",
			StaffID:          "42",
			Status:           models.AssignmentActive,
			HousingAgreement: true,
		}
		deposits := []models.SecurityDeposit{housingDeposit(t)}

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO assignments`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectExec(`INSERT INTO security_deposits`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		for i := 0; i < 4; i++ {
			mock.ExpectExec(`INSERT INTO security_deposit_deductions`).
				WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), i+1, sqlmock.AnyArg(), "125", "scheduled").
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()

		err := repo.CreateWithDeposits(ctx, assignment, deposits)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, assignment.ID)
		require.Len(t, assignment.SecurityDeposits, 1)
		deposit := assignment.SecurityDeposits[0]
		assert.Equal(t, assignment.ID, deposit.AssignmentID)
		assert.NotEqual(t, uuid.Nil, deposit.ID)
		for _, d := range deposit.DeductionSchedule {
			assert.Equal(t, deposit.ID, d.DepositID)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rolls back when a deduction fails", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAssignmentRepository(db)
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO assignments`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectExec(`INSERT INTO security_deposits`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO security_deposit_deductions`).
			WillReturnError(fmt.Errorf("connection reset"))
		mock.ExpectRollback()

		err := repo.CreateWithDeposits(ctx, &models.Assignment{}, []models.SecurityDeposit{housingDeposit(t)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create deduction 1")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAssignmentRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	id := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM assignments WHERE id`).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(`FROM assignments WHERE status = \$1 AND tenant_id = \$2 ORDER BY created_at DESC`).
		WithArgs("Active", "42").
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_name", "status", "start_date"}).
			AddRow(uuid.New().String(), "Jane Doe", "Active", "2024-01-01"))

	assignments, err := repo.List(context.Background(), models.AssignmentFilter{Status: "Active", TenantID: "42"})
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "Jane Doe", assignments[0].TenantName)
	assert.Equal(t, "2024-01-01", assignments[0].StartDate.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAssignmentRepository(db)
		id := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM security_deposit_deductions`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 4))
		mock.ExpectExec(`DELETE FROM security_deposits`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM assignments`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Delete(ctx, id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAssignmentRepository(db)
		id := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM security_deposit_deductions`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM security_deposits`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM assignments`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Delete(ctx, id)
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAssignmentRepository_UpdateStartDate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	id := uuid.New()
	deposit := housingDeposit(t)
	deposit.ID = uuid.New()
	start, err := models.ParseDate("2024-03-01")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE assignments SET start_date`).
		WithArgs(id, "2024-03-01").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM security_deposit_deductions WHERE deposit_id`).
		WithArgs(deposit.ID).
		WillReturnResult(sqlmock.NewResult(0, 4))
	for i := 0; i < 4; i++ {
		mock.ExpectExec(`INSERT INTO security_deposit_deductions`).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateStartDate(context.Background(), id, start, []models.SecurityDeposit{deposit}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
