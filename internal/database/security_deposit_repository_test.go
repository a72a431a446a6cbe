package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityDepositRepository_ListByAssignment(t *testing.T) {
	ctx := context.Background()

	t.Run("Groups schedules by deposit", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSecurityDepositRepository(db)

		assignmentID := uuid.New()
		housingID := uuid.New()
		busCardID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`FROM security_deposits\s+WHERE assignment_id`).
			WithArgs(assignmentID).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "assignment_id", "benefit_type", "total_amount", "payment_method",
				"payment_status", "paid_date", "notes", "created_at", "updated_at",
			}).
				AddRow(housingID.String(), assignmentID.String(), "housing", "500", "cash", "pending", nil, "", now, now).
				AddRow(busCardID.String(), assignmentID.String(), "bus_card", "25", "cash", "pending", nil, "", now, now))

		rows := sqlmock.NewRows([]string{"id", "deposit_id", "deduction_number", "scheduled_date", "amount", "status"})
		for i := 1; i <= 4; i++ {
			rows.AddRow(uuid.New().String(), housingID.String(), i, "2024-01-01", "125", "scheduled")
		}
		mock.ExpectQuery(`FROM security_deposit_deductions d`).
			WithArgs(assignmentID).
			WillReturnRows(rows)

		deposits, err := repo.ListByAssignment(ctx, assignmentID)
		require.NoError(t, err)
		require.Len(t, deposits, 2)

		assert.Equal(t, models.BenefitHousing, deposits[0].BenefitType)
		assert.Len(t, deposits[0].DeductionSchedule, 4)
		assert.Equal(t, "500", deposits[0].ScheduleTotal().String())
		assert.True(t, deposits[0].PaidDate.IsZero())

		assert.Equal(t, models.BenefitBusCard, deposits[1].BenefitType)
		assert.NotNil(t, deposits[1].DeductionSchedule)
		assert.Empty(t, deposits[1].DeductionSchedule)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No deposits skips the schedule query", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSecurityDepositRepository(db)
		assignmentID := uuid.New()

		mock.ExpectQuery(`FROM security_deposits`).
			WithArgs(assignmentID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		deposits, err := repo.ListByAssignment(ctx, assignmentID)
		require.NoError(t, err)
		assert.Empty(t, deposits)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSecurityDepositRepository_MarkPaid(t *testing.T) {
	ctx := context.Background()
	paid := models.NewDate(2024, time.February, 1)

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSecurityDepositRepository(db)
		id := uuid.New()

		mock.ExpectExec(`UPDATE security_deposits`).
			WithArgs(id, "paid", "2024-02-01", "check").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.MarkPaid(ctx, id, paid, models.PaymentCheck))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown deposit", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSecurityDepositRepository(db)

		mock.ExpectExec(`UPDATE security_deposits`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkPaid(ctx, uuid.New(), paid, models.PaymentCash)
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSecurityDepositRepository_ListDueDeductions(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSecurityDepositRepository(db)

	from := models.NewDate(2024, time.January, 1)
	to := from.AddDays(7)

	mock.ExpectQuery(`WHERE d.status = 'scheduled' AND d.scheduled_date BETWEEN \$1 AND \$2`).
		WithArgs("2024-01-01", "2024-01-08").
		WillReturnRows(sqlmock.NewRows([]string{
			"deposit_id", "assignment_id", "tenant_name", "benefit_type",
			"deduction_number", "scheduled_date", "amount",
		}).AddRow(uuid.New().String(), uuid.New().String(), "Jane Doe", "housing", 1, "2024-01-01", "125"))

	due, err := repo.ListDueDeductions(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "Jane Doe", due[0].TenantName)
	assert.Equal(t, "125", due[0].Amount.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
