package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/minhle2104/shopcore-api/internal/entity"
)

func TestCartGetOrCreateReturnsExistingRowOnRace(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLCartRepo(db)

	now := time.Now()
	mock.ExpectExec(`INSERT INTO carts \(user_id, created_at, updated_at\)\s+VALUES \(\?, NOW\(\), NOW\(\)\)\s+ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID\(id\)`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery(`SELECT id, user_id, created_at, updated_at FROM carts WHERE id = \?`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at", "updated_at"}).
			AddRow(3, 7, now, now))
	mock.ExpectQuery(`FROM cart_items ci\s+JOIN products p`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "cart_id", "product_id", "quantity", "added_at",
			"pid", "name", "price", "stock", "track_stock", "low_stock_threshold", "p_updated_at",
		}).AddRow(101, 3, 1, 2, now, 1, "Mechanical Keyboard", "10.00", 5, true, 5, now))

	cart, err := repo.GetOrCreateByUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), cart.ID)
	require.Len(t, cart.Items, 1)
	require.NotNil(t, cart.Items[0].Product)
	assert.Equal(t, "Mechanical Keyboard", cart.Items[0].Product.Name)
	assert.True(t, cart.Items[0].Product.Price.Equal(mustDec("10.00")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartSetItemQuantityUpserts(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLCartRepo(db)

	mock.ExpectExec(`INSERT INTO cart_items \(cart_id, product_id, quantity, added_at\)\s+VALUES \(\?, \?, \?, NOW\(\)\)\s+ON DUPLICATE KEY UPDATE quantity = VALUES\(quantity\)`).
		WithArgs(int64(3), int64(1), 5).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE carts SET updated_at = NOW\(\) WHERE id = \?`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetItemQuantity(context.Background(), 3, 1, 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartUpdateItemQuantityMissingLine(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLCartRepo(db)

	mock.ExpectExec(`UPDATE cart_items SET quantity = \? WHERE id = \?`).
		WithArgs(2, int64(9999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateItemQuantity(context.Background(), 9999, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCartClearItemsTouchesCart(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMySQLCartRepo(db)

	mock.ExpectExec(`DELETE FROM cart_items WHERE cart_id = \?`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE carts SET updated_at = NOW\(\) WHERE id = \?`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ClearItems(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}
