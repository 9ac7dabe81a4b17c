package sequencerepo_test

import (
	"testing"

	"marketplace/internal/adapters/out/postgres/sequencerepo"
	"marketplace/internal/pkg/errs"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestNumberSequence(t *testing.T) {
	t.Run("order numbers", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT nextval\(\$1::regclass\)`).
			WithArgs("order_number_seq").
			WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(int64(1042)))

		n, err := sequencerepo.NewGormNumberSequence(db).NextOrderNumber(t.Context())

		require.NoError(t, err)
		assert.Equal(t, "ORD-1042", n.String())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delivery numbers", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT nextval\(\$1::regclass\)`).
			WithArgs("delivery_number_seq").
			WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(int64(7)))

		n, err := sequencerepo.NewGormNumberSequence(db).NextDeliveryNumber(t.Context())

		require.NoError(t, err)
		assert.Equal(t, int64(7), n.Value())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a sequence below the first order number is refused", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT nextval`).
			WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(int64(5)))

		_, err := sequencerepo.NewGormNumberSequence(db).NextOrderNumber(t.Context())

		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}
