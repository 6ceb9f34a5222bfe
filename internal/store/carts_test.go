package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateActiveCart(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO shopping_carts`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT cart_id FROM shopping_carts`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"cart_id"}).AddRow(7))

	cartID, err := store.GetOrCreateActiveCart(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cartID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetActiveCartIDNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT cart_id FROM shopping_carts`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"cart_id"}))

	_, err := store.GetActiveCartID(context.Background(), 42)
	require.ErrorIs(t, err, ErrDBCartNotFound)
}

func TestGetCartItemsComputesSubtotals(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT ci.cart_id, ci.isbn`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"cart_id", "isbn", "title", "quantity", "price", "quantity_in_stock"}).
			AddRow(7, "978-1", "First", 3, "10.00", 5).
			AddRow(7, "978-2", "Second", 1, "7.50", 2))

	items, err := store.GetCartItems(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "30.00", items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "7.50", items[1].Subtotal.StringFixed(2))
}

func TestUpdateCartItemNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE cart_items SET quantity`).
		WithArgs(2, int64(7), "978-9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateCartItem(context.Background(), 7, "978-9", 2)
	require.ErrorIs(t, err, ErrDBCartItemNotFound)
}

func TestRemoveCartItemNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM cart_items`).
		WithArgs(int64(7), "978-9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.RemoveCartItem(context.Background(), 7, "978-9")
	require.ErrorIs(t, err, ErrDBCartItemNotFound)
}

func TestAddCartItemUpserts(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO cart_items`).
		WithArgs(int64(7), "978-1", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.AddCartItem(context.Background(), 7, "978-1", 2)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
