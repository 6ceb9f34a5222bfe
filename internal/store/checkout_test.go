package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*DBStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDBStore(db), mock
}

func expectActiveCart(mock sqlmock.Sqlmock, cartID int64) {
	mock.ExpectQuery(`SELECT cart_id FROM shopping_carts`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"cart_id"}).AddRow(cartID))
}

func TestExecuteCheckoutTransactionSuccess(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	expectActiveCart(mock, 7)
	mock.ExpectQuery(`FOR UPDATE OF b`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"isbn", "title", "quantity", "price", "quantity_in_stock"}).
			AddRow("978-1", "The Go Programming Language", 3, "10.00", 5))
	mock.ExpectQuery(`INSERT INTO sales`).
		WithArgs(int64(42), sqlmock.AnyArg(), "1111", "12/2030").
		WillReturnRows(sqlmock.NewRows([]string{"sale_id"}).AddRow(99))
	mock.ExpectExec(`INSERT INTO sale_items`).
		WithArgs(int64(99), "978-1", 3, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE books SET quantity_in_stock = quantity_in_stock - `).
		WithArgs(3, "978-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM cart_items`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := store.ExecuteCheckoutTransaction(context.Background(), 42, "1111", "12/2030")
	require.NoError(t, err)
	assert.Equal(t, int64(99), result.SaleID)
	assert.Equal(t, "30.00", result.Total.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteCheckoutTransactionMultipleLines(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	expectActiveCart(mock, 7)
	mock.ExpectQuery(`FOR UPDATE OF b`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"isbn", "title", "quantity", "price", "quantity_in_stock"}).
			AddRow("978-1", "First", 2, "12.50", 4).
			AddRow("978-2", "Second", 1, "7.99", 1))
	mock.ExpectQuery(`INSERT INTO sales`).
		WillReturnRows(sqlmock.NewRows([]string{"sale_id"}).AddRow(100))
	mock.ExpectExec(`INSERT INTO sale_items`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE books SET quantity_in_stock`).
		WithArgs(2, "978-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO sale_items`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE books SET quantity_in_stock`).
		WithArgs(1, "978-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM cart_items`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := store.ExecuteCheckoutTransaction(context.Background(), 42, "4242", "01/2031")
	require.NoError(t, err)

	// 2*12.50 + 1*7.99
	assert.Equal(t, "32.99", result.Total.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteCheckoutTransactionInsufficientStock(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	expectActiveCart(mock, 7)
	mock.ExpectQuery(`FOR UPDATE OF b`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"isbn", "title", "quantity", "price", "quantity_in_stock"}).
			AddRow("978-1", "Scarce Book", 3, "10.00", 2))
	mock.ExpectRollback()

	_, err := store.ExecuteCheckoutTransaction(context.Background(), 42, "1111", "12/2030")

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Scarce Book", stockErr.Title)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteCheckoutTransactionConditionalUpdateGuard(t *testing.T) {
	store, mock := newMockStore(t)

	// Stock looks sufficient at read time, but the conditional decrement
	// matches no rows. The transaction must abort, not commit a partial sale.
	mock.ExpectBegin()
	expectActiveCart(mock, 7)
	mock.ExpectQuery(`FOR UPDATE OF b`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"isbn", "title", "quantity", "price", "quantity_in_stock"}).
			AddRow("978-1", "Contested Book", 2, "15.00", 2))
	mock.ExpectQuery(`INSERT INTO sales`).
		WillReturnRows(sqlmock.NewRows([]string{"sale_id"}).AddRow(101))
	mock.ExpectExec(`INSERT INTO sale_items`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE books SET quantity_in_stock`).
		WithArgs(2, "978-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := store.ExecuteCheckoutTransaction(context.Background(), 42, "1111", "12/2030")

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Contested Book", stockErr.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteCheckoutTransactionEmptyCart(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	expectActiveCart(mock, 7)
	mock.ExpectQuery(`FOR UPDATE OF b`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"isbn", "title", "quantity", "price", "quantity_in_stock"}))
	mock.ExpectRollback()

	_, err := store.ExecuteCheckoutTransaction(context.Background(), 42, "1111", "12/2030")
	require.ErrorIs(t, err, ErrDBCartEmpty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteCheckoutTransactionNoActiveCart(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT cart_id FROM shopping_carts`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"cart_id"}))
	mock.ExpectRollback()

	_, err := store.ExecuteCheckoutTransaction(context.Background(), 42, "1111", "12/2030")
	require.ErrorIs(t, err, ErrDBCartNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteCheckoutTransactionSaleInsertFailureRollsBack(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	expectActiveCart(mock, 7)
	mock.ExpectQuery(`FOR UPDATE OF b`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"isbn", "title", "quantity", "price", "quantity_in_stock"}).
			AddRow("978-1", "Any Book", 1, "5.00", 5))
	mock.ExpectQuery(`INSERT INTO sales`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := store.ExecuteCheckoutTransaction(context.Background(), 42, "1111", "12/2030")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert sale")
	assert.NoError(t, mock.ExpectationsWereMet())
}
