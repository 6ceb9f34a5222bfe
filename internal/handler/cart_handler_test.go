package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookstore/internal/service"
	"bookstore/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartHandler(t *testing.T) (*CartHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := testLogger()
	return NewCartHandler(logger, service.NewCartService(logger, store.NewDBStore(db))), mock
}

func checkoutRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/cart/checkout", strings.NewReader(body))
	identity := service.Identity{ID: 42, Role: service.RoleCustomer}
	return r.WithContext(context.WithValue(r.Context(), identityKey, identity))
}

func TestCheckoutHandlerInvalidPayment(t *testing.T) {
	h, mock := newCartHandler(t)

	w := httptest.NewRecorder()
	h.Checkout(w, checkoutRequest(`{"credit_card_number":"123","card_expiry":"12/2030"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "credit card")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutHandlerInsufficientStockConflict(t *testing.T) {
	h, mock := newCartHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT cart_id FROM shopping_carts`).
		WillReturnRows(sqlmock.NewRows([]string{"cart_id"}).AddRow(7))
	mock.ExpectQuery(`FOR UPDATE OF b`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"isbn", "title", "quantity", "price", "quantity_in_stock"}).
			AddRow("978-1", "Scarce Book", 3, "10.00", 2))
	mock.ExpectRollback()

	w := httptest.NewRecorder()
	h.Checkout(w, checkoutRequest(`{"credit_card_number":"4111111111111111","card_expiry":"12/2030"}`))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Scarce Book")
}

func TestCheckoutHandlerSuccess(t *testing.T) {
	h, mock := newCartHandler(t)

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

	w := httptest.NewRecorder()
	h.Checkout(w, checkoutRequest(`{"credit_card_number":"4111111111111111","card_expiry":"12/2030"}`))

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SaleID int64  `json:"sale_id"`
		Total  string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(99), resp.SaleID)
	assert.Equal(t, "30.00", resp.Total)
}

func TestCheckoutHandlerEmptyCart(t *testing.T) {
	h, mock := newCartHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT cart_id FROM shopping_carts`).
		WillReturnRows(sqlmock.NewRows([]string{"cart_id"}).AddRow(7))
	mock.ExpectQuery(`FOR UPDATE OF b`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"isbn", "title", "quantity", "price", "quantity_in_stock"}))
	mock.ExpectRollback()

	w := httptest.NewRecorder()
	h.Checkout(w, checkoutRequest(`{"credit_card_number":"4111111111111111","card_expiry":"12/2030"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cart is empty")
}

func TestCheckoutHandlerMalformedBody(t *testing.T) {
	h, mock := newCartHandler(t)

	w := httptest.NewRecorder()
	h.Checkout(w, checkoutRequest(`not json`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
