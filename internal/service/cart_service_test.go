package service

import (
	"context"
	"io"
	"log"
	"testing"

	"bookstore/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartService(t *testing.T) (*CartService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := log.New(io.Discard, "", 0)
	return NewCartService(logger, store.NewDBStore(db)), mock
}

func TestCheckoutRejectsInvalidPaymentBeforeTransaction(t *testing.T) {
	svc, mock := newCartService(t)
	identity := Identity{ID: 42, Role: RoleCustomer}

	// No database expectations: a malformed card must never reach the store.
	_, err := svc.Checkout(context.Background(), identity,
		PaymentDetails{CreditCardNumber: "123", CardExpiry: "12/2030"})
	require.ErrorIs(t, err, ErrInvalidCardNumber)

	_, err = svc.Checkout(context.Background(), identity,
		PaymentDetails{CreditCardNumber: "4111111111111111", CardExpiry: "2030/12"})
	require.ErrorIs(t, err, ErrInvalidCardExpiry)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutSuccessReturnsReceipt(t *testing.T) {
	svc, mock := newCartService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT cart_id FROM shopping_carts`).
		WillReturnRows(sqlmock.NewRows([]string{"cart_id"}).AddRow(7))
	mock.ExpectQuery(`FOR UPDATE OF b`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"isbn", "title", "quantity", "price", "quantity_in_stock"}).
			AddRow("978-1", "The Go Programming Language", 3, "10.00", 5))
	mock.ExpectQuery(`INSERT INTO sales`).
		WillReturnRows(sqlmock.NewRows([]string{"sale_id"}).AddRow(99))
	mock.ExpectExec(`INSERT INTO sale_items`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE books SET quantity_in_stock`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM cart_items`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	receipt, err := svc.Checkout(context.Background(), Identity{ID: 42, Role: RoleCustomer},
		PaymentDetails{CreditCardNumber: "4111111111111111", CardExpiry: "12/2030"})
	require.NoError(t, err)
	assert.Equal(t, int64(99), receipt.SaleID)
	assert.Equal(t, "30.00", receipt.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutMapsStockErrors(t *testing.T) {
	svc, mock := newCartService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT cart_id FROM shopping_carts`).
		WillReturnRows(sqlmock.NewRows([]string{"cart_id"}).AddRow(7))
	mock.ExpectQuery(`FOR UPDATE OF b`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"isbn", "title", "quantity", "price", "quantity_in_stock"}).
			AddRow("978-1", "Scarce Book", 3, "10.00", 2))
	mock.ExpectRollback()

	_, err := svc.Checkout(context.Background(), Identity{ID: 42, Role: RoleCustomer},
		PaymentDetails{CreditCardNumber: "4111111111111111", CardExpiry: "12/2030"})

	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Scarce Book", stockErr.Title)
	assert.Equal(t, 2, stockErr.Available)
	assert.Contains(t, err.Error(), "Scarce Book")
}

func TestCheckoutMapsEmptyCart(t *testing.T) {
	svc, mock := newCartService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT cart_id FROM shopping_carts`).
		WillReturnRows(sqlmock.NewRows([]string{"cart_id"}).AddRow(7))
	mock.ExpectQuery(`FOR UPDATE OF b`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"isbn", "title", "quantity", "price", "quantity_in_stock"}))
	mock.ExpectRollback()

	_, err := svc.Checkout(context.Background(), Identity{ID: 42, Role: RoleCustomer},
		PaymentDetails{CreditCardNumber: "4111111111111111", CardExpiry: "12/2030"})
	require.ErrorIs(t, err, ErrCartEmpty)
}

func TestAddItemRejectsOverStock(t *testing.T) {
	svc, mock := newCartService(t)

	mock.ExpectQuery(`FROM books b`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"isbn", "title", "publisher_id", "name", "publication_year",
				"price", "category", "quantity_in_stock", "threshold_quantity", "authors"}).
			AddRow("978-1", "Scarce Book", nil, nil, nil, "10.00", "Fiction", 2, 10, ""))
	mock.ExpectExec(`INSERT INTO shopping_carts`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT cart_id FROM shopping_carts`).
		WillReturnRows(sqlmock.NewRows([]string{"cart_id"}).AddRow(7))
	mock.ExpectQuery(`SELECT quantity FROM cart_items`).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(1))

	err := svc.AddItem(context.Background(), Identity{ID: 42, Role: RoleCustomer}, "978-1", 2)

	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)
}

func TestAddItemUnknownBook(t *testing.T) {
	svc, mock := newCartService(t)

	mock.ExpectQuery(`FROM books b`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"isbn", "title", "publisher_id", "name", "publication_year",
				"price", "category", "quantity_in_stock", "threshold_quantity", "authors"}))

	err := svc.AddItem(context.Background(), Identity{ID: 42, Role: RoleCustomer}, "missing", 1)
	require.ErrorIs(t, err, ErrBookNotFound)
}

func TestAddItemRejectsZeroQuantity(t *testing.T) {
	svc, _ := newCartService(t)

	err := svc.AddItem(context.Background(), Identity{ID: 42, Role: RoleCustomer}, "978-1", 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}
