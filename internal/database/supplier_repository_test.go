package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplierRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSupplierRepository(db)

		mock.ExpectQuery(`INSERT INTO suppliers`).
			WithArgs(sqlmock.AnyArg(), "Acme Linen", nil, nil, nil, nil, "{}").
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

		supplier := &models.Supplier{Name: "Acme Linen"}
		require.NoError(t, repo.Create(ctx, supplier))
		assert.False(t, supplier.CreatedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate name", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSupplierRepository(db)

		mock.ExpectQuery(`INSERT INTO suppliers`).
			WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

		err := repo.Create(ctx, &models.Supplier{Name: "Acme Linen"})
		assert.ErrorIs(t, err, models.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
