package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseOrderRepository_Receive(t *testing.T) {
	ctx := context.Background()
	lineColumns := []string{"id", "purchase_order_id", "item_id", "quantity", "unit_price", "received_quantity"}

	expectLine := func(mock sqlmock.Sqlmock, orderID, itemID uuid.UUID, quantity, received int) {
		mock.ExpectQuery(`FROM purchase_order_items\s+WHERE purchase_order_id = \$1 AND item_id = \$2`).
			WithArgs(orderID, itemID).
			WillReturnRows(sqlmock.NewRows(lineColumns).
				AddRow(uuid.New().String(), orderID.String(), itemID.String(), quantity, "4.50", received))
	}

	t.Run("Final delivery completes the order", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPurchaseOrderRepository(db)
		orderID, itemID := uuid.New(), uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM purchase_orders`).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("ordered"))
		expectLine(mock, orderID, itemID, 10, 4)
		mock.ExpectExec(`UPDATE purchase_order_items SET received_quantity`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`FROM inventory_items WHERE id = \$1 FOR UPDATE`).
			WithArgs(itemID).
			WillReturnRows(itemRows(itemID, 20, 20, 5))
		mock.ExpectExec(`UPDATE inventory_items`).
			WithArgs(itemID, 6).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO inventory_transactions`).
			WithArgs(sqlmock.AnyArg(), itemID, nil, "received", 6, 20, 26, sqlmock.AnyArg(), nil).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity - received_quantity\), 0\)`).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
		mock.ExpectExec(`UPDATE purchase_orders SET status`).
			WithArgs(orderID, "delivered").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		status, err := repo.Receive(ctx, orderID, itemID, 6, nil)
		require.NoError(t, err)
		assert.Equal(t, models.PurchaseOrderDelivered, status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Over-receiving is rejected", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPurchaseOrderRepository(db)
		orderID, itemID := uuid.New(), uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM purchase_orders`).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("partial"))
		expectLine(mock, orderID, itemID, 10, 8)
		mock.ExpectRollback()

		_, err := repo.Receive(ctx, orderID, itemID, 3, nil)
		require.Error(t, err)
		assert.True(t, models.IsValidationError(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Draft orders cannot be received", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPurchaseOrderRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM purchase_orders`).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("draft"))
		mock.ExpectRollback()

		_, err := repo.Receive(ctx, uuid.New(), uuid.New(), 1, nil)
		assert.ErrorIs(t, err, models.ErrInvalidStatusTransition)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
