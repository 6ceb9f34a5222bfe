package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bookstore/internal/models"
)

var (
	ErrDBCartNotFound     = errors.New("database: active cart not found")
	ErrDBCartItemNotFound = errors.New("database: item not in cart")
)

// GetOrCreateActiveCart relies on the partial unique index on
// (customer_id) WHERE is_active, so concurrent callers cannot create two
// active carts for the same customer.
func (s *DBStore) GetOrCreateActiveCart(ctx context.Context, customerID int64) (int64, error) {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO shopping_carts (customer_id, is_active) VALUES ($1, TRUE)
         ON CONFLICT (customer_id) WHERE is_active DO NOTHING`, customerID)
	if err != nil {
		return 0, fmt.Errorf("failed to ensure active cart: %w", err)
	}

	var cartID int64
	err = s.DB.QueryRowContext(ctx,
		`SELECT cart_id FROM shopping_carts WHERE customer_id = $1 AND is_active = TRUE`,
		customerID).Scan(&cartID)
	if err != nil {
		return 0, fmt.Errorf("failed to get active cart: %w", err)
	}
	return cartID, nil
}

func (s *DBStore) GetActiveCartID(ctx context.Context, customerID int64) (int64, error) {
	var cartID int64
	err := s.DB.QueryRowContext(ctx,
		`SELECT cart_id FROM shopping_carts WHERE customer_id = $1 AND is_active = TRUE`,
		customerID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrDBCartNotFound
		}
		return 0, fmt.Errorf("failed to get active cart: %w", err)
	}
	return cartID, nil
}

// GetCartItems returns the cart lines joined with current title, price and
// stock. Subtotals are computed from the current price at read time.
func (s *DBStore) GetCartItems(ctx context.Context, cartID int64) ([]models.CartItem, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT ci.cart_id, ci.isbn, b.title, ci.quantity, b.price, b.quantity_in_stock
         FROM cart_items ci
         JOIN books b ON ci.isbn = b.isbn
         WHERE ci.cart_id = $1
         ORDER BY ci.added_at`, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(&item.CartID, &item.ISBN, &item.Title,
			&item.Quantity, &item.Price, &item.QuantityInStock); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		item.Subtotal = item.Price.Mul(decimalFromInt(item.Quantity))
		items = append(items, item)
	}
	return items, rows.Err()
}

// AddCartItem upserts the line. The caller validates the resulting quantity
// against current stock before calling.
func (s *DBStore) AddCartItem(ctx context.Context, cartID int64, isbn string, quantity int) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO cart_items (cart_id, isbn, quantity) VALUES ($1, $2, $3)
         ON CONFLICT (cart_id, isbn)
         DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		cartID, isbn, quantity)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

func (s *DBStore) GetCartItemQuantity(ctx context.Context, cartID int64, isbn string) (int, error) {
	var quantity int
	err := s.DB.QueryRowContext(ctx,
		`SELECT quantity FROM cart_items WHERE cart_id = $1 AND isbn = $2`,
		cartID, isbn).Scan(&quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get cart item quantity: %w", err)
	}
	return quantity, nil
}

func (s *DBStore) UpdateCartItem(ctx context.Context, cartID int64, isbn string, quantity int) error {
	result, err := s.DB.ExecContext(ctx,
		`UPDATE cart_items SET quantity = $1 WHERE cart_id = $2 AND isbn = $3`,
		quantity, cartID, isbn)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrDBCartItemNotFound
	}
	return nil
}

func (s *DBStore) RemoveCartItem(ctx context.Context, cartID int64, isbn string) error {
	result, err := s.DB.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND isbn = $2`, cartID, isbn)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrDBCartItemNotFound
	}
	return nil
}

func (s *DBStore) ClearCart(ctx context.Context, cartID int64) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
