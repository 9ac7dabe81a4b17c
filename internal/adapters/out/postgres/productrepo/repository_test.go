package productrepo_test

import (
	"errors"
	"testing"

	"marketplace/internal/adapters/out/postgres/productrepo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var productColumns = []string{
	"id", "company_id", "name", "unit_price", "unit", "stock_quantity", "active", "available", "order_count",
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func TestReserve(t *testing.T) {
	t.Run("returns the product after the decrement", func(t *testing.T) {
		// Given
		db, mock := newMockDB(t)
		id, companyID := kernel.NewUUID(), kernel.NewUUID()

		mock.ExpectQuery(`UPDATE "products" SET .+ WHERE \(?id = \$\d AND active AND available AND stock_quantity >= \$\d\)? RETURNING \*`).
			WillReturnRows(sqlmock.NewRows(productColumns).
				AddRow(id.String(), companyID.String(), "Miniket Rice", "100.00", "kg", 7, true, true, 4))

		// When
		p, err := productrepo.NewGormProductRepository(db, true).Reserve(t.Context(), id, 3)

		// Then
		require.NoError(t, err)
		assert.Equal(t, id, p.ID())
		assert.Equal(t, 7, p.StockQuantity())
		assert.Equal(t, 4, p.OrderCount())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	refusals := []struct {
		name      string
		stock     int
		active    bool
		available bool
		want      error
	}{
		{name: "short stock", stock: 2, active: true, available: true, want: errs.ErrInsufficientStock},
		{name: "inactive product", stock: 50, active: false, available: true, want: errs.ErrUnavailable},
		{name: "switched off by company", stock: 50, active: true, available: false, want: errs.ErrUnavailable},
	}
	for _, tt := range refusals {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			id := kernel.NewUUID()

			mock.ExpectQuery(`UPDATE "products" SET .+ RETURNING \*`).
				WillReturnRows(sqlmock.NewRows(productColumns))
			mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
				WillReturnRows(sqlmock.NewRows(productColumns).
					AddRow(id.String(), kernel.NewUUID().String(), "Sugar", "120.00", "kg", tt.stock, tt.active, tt.available, 0))

			_, err := productrepo.NewGormProductRepository(db, true).Reserve(t.Context(), id, 3)

			assert.ErrorIs(t, err, tt.want)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("unknown product", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`UPDATE "products" SET .+ RETURNING \*`).
			WillReturnRows(sqlmock.NewRows(productColumns))
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows(productColumns))

		_, err := productrepo.NewGormProductRepository(db, true).Reserve(t.Context(), kernel.NewUUID(), 1)

		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("rejects a non-positive quantity without touching the database", func(t *testing.T) {
		db, mock := newMockDB(t)

		_, err := productrepo.NewGormProductRepository(db, true).Reserve(t.Context(), kernel.NewUUID(), 0)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRelease(t *testing.T) {
	t.Run("adds stock back under a savepoint", func(t *testing.T) {
		db, mock := newMockDB(t)
		id := kernel.NewUUID()

		mock.ExpectExec(`SAVEPOINT stock_release`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`UPDATE "products" SET "stock_quantity"=stock_quantity \+ \$1 WHERE id = \$2`).
			WithArgs(4, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := productrepo.NewGormProductRepository(db, true).Release(t.Context(), id, 4)

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back to the savepoint when the product is gone", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectExec(`SAVEPOINT stock_release`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`UPDATE "products"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`ROLLBACK TO SAVEPOINT stock_release`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := productrepo.NewGormProductRepository(db, true).Release(t.Context(), kernel.NewUUID(), 4)

		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("outside a transaction no savepoint is taken", func(t *testing.T) {
		db, mock := newMockDB(t)
		failure := errors.New("connection reset by peer")

		mock.ExpectExec(`UPDATE "products"`).WillReturnError(failure)

		err := productrepo.NewGormProductRepository(db, false).Release(t.Context(), kernel.NewUUID(), 4)

		assert.ErrorIs(t, err, failure)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
