package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBills struct {
	created        *models.Bill
	from, to       models.Date
	overdueChanged int64
	overdueToday   models.Date
}

func (f *fakeBills) List(context.Context, models.BillFilter) ([]models.Bill, error) { return nil, nil }

func (f *fakeBills) Create(_ context.Context, b *models.Bill) error {
	b.ID = uuid.New()
	f.created = b
	return nil
}

func (f *fakeBills) MarkPaid(context.Context, uuid.UUID) error { return nil }

func (f *fakeBills) Delete(context.Context, uuid.UUID) error { return nil }

func (f *fakeBills) Stats(_ context.Context, from, to models.Date) (*models.BillingStats, error) {
	f.from, f.to = from, to
	return &models.BillingStats{TotalAmount: decimal.NewFromInt(100)}, nil
}

func (f *fakeBills) MarkOverdue(_ context.Context, today models.Date) (int64, error) {
	f.overdueToday = today
	return f.overdueChanged, nil
}

func newBillingFixture() (*BillingService, *fakeBills) {
	store := &fakeBills{}
	svc := NewBillingService(store, quietLogger())
	svc.today = func() models.Date { return models.NewDate(2024, time.June, 15) }
	return svc, store
}

func TestBillingService_Create(t *testing.T) {
	tests := []struct {
		name       string
		amount     string
		dueDate    string
		wantStatus models.BillStatus
		wantErr    string
	}{
		{"due in future", "250", "2024-07-01", models.BillPending, ""},
		{"due today", "250", "2024-06-15", models.BillPending, ""},
		{"already past due", "250", "2024-06-01", models.BillOverdue, ""},
		{"zero amount", "0", "2024-07-01", "", "Please enter an amount greater than 0."},
		{"bad due date", "250", "next week", "", "Please enter a valid due date."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newBillingFixture()

			bill, err := svc.Create(context.Background(), models.CreateBillRequest{
				StaffID: "A100",
				Amount:  decimal.RequireFromString(tt.amount),
				Type:    models.BillRent,
				DueDate: tt.dueDate,
			})
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, validationMessage(t, err))
				assert.Nil(t, store.created)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, bill.Status)
			assert.Equal(t, tt.dueDate, bill.DueDate.String())
		})
	}
}

func TestBillingService_Stats(t *testing.T) {
	t.Run("explicit month", func(t *testing.T) {
		svc, store := newBillingFixture()

		stats, err := svc.Stats(context.Background(), "2024-12")
		require.NoError(t, err)
		assert.Equal(t, "2024-12", stats.Month)
		assert.Equal(t, "2024-12-01", store.from.String())
		assert.Equal(t, "2025-01-01", store.to.String())
	})

	t.Run("defaults to current month", func(t *testing.T) {
		svc, store := newBillingFixture()

		stats, err := svc.Stats(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, "2024-06", stats.Month)
		assert.Equal(t, "2024-06-01", store.from.String())
		assert.Equal(t, "2024-07-01", store.to.String())
	})

	t.Run("invalid month", func(t *testing.T) {
		svc, _ := newBillingFixture()

		_, err := svc.Stats(context.Background(), "June")
		assert.Equal(t, "Month must be in YYYY-MM format.", validationMessage(t, err))
	})
}

func TestBillingService_MarkOverdue(t *testing.T) {
	svc, store := newBillingFixture()
	store.overdueChanged = 3

	changed, err := svc.MarkOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), changed)
	assert.Equal(t, "2024-06-15", store.overdueToday.String())
}
