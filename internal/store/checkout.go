package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrDBCartEmpty = errors.New("database: cart is empty")

// InsufficientStockError reports the first cart line whose requested
// quantity exceeds what the locked book row has available.
type InsufficientStockError struct {
	Title     string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, only %d available",
		e.Title, e.Requested, e.Available)
}

type checkoutLine struct {
	isbn     string
	title    string
	quantity int
	price    decimal.Decimal
	inStock  int
}

// CheckoutResult is what a committed checkout transaction produced.
type CheckoutResult struct {
	SaleID int64
	Total  decimal.Decimal
}

// ExecuteCheckoutTransaction converts the customer's active cart into a sale
// as a single all-or-nothing unit:
//
//  1. re-reads the cart lines joined with current prices, taking FOR UPDATE
//     locks on the book rows so concurrent checkouts for the same ISBN
//     serialize here;
//  2. verifies availability for every line;
//  3. inserts the sale and its items with the price frozen at this moment;
//  4. decrements stock with a conditional update that re-checks
//     availability, treating zero affected rows as an abort;
//  5. empties the cart, leaving the cart row active and reusable.
//
// Any error rolls the whole transaction back.
func (s *DBStore) ExecuteCheckoutTransaction(ctx context.Context, customerID int64, cardLast4, cardExpiry string) (*CheckoutResult, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var cartID int64
	err = tx.QueryRowContext(ctx,
		`SELECT cart_id FROM shopping_carts WHERE customer_id = $1 AND is_active = TRUE`,
		customerID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDBCartNotFound
		}
		return nil, fmt.Errorf("failed to find active cart: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT ci.isbn, b.title, ci.quantity, b.price, b.quantity_in_stock
         FROM cart_items ci
         JOIN books b ON ci.isbn = b.isbn
         WHERE ci.cart_id = $1
         FOR UPDATE OF b`, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock cart items: %w", err)
	}

	var lines []checkoutLine
	for rows.Next() {
		var line checkoutLine
		if err := rows.Scan(&line.isbn, &line.title, &line.quantity,
			&line.price, &line.inStock); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read cart lines: %w", err)
	}
	rows.Close()

	if len(lines) == 0 {
		return nil, ErrDBCartEmpty
	}

	total := decimal.Zero
	for _, line := range lines {
		if line.quantity > line.inStock {
			return nil, &InsufficientStockError{
				Title:     line.title,
				Requested: line.quantity,
				Available: line.inStock,
			}
		}
		total = total.Add(line.price.Mul(decimalFromInt(line.quantity)))
	}
	total = total.Round(2)

	var saleID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO sales (customer_id, total_amount, credit_card_last4, card_expiry)
         VALUES ($1, $2, $3, $4)
         RETURNING sale_id`,
		customerID, total, cardLast4, cardExpiry).Scan(&saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert sale: %w", err)
	}

	for _, line := range lines {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO sale_items (sale_id, isbn, quantity, price_at_sale)
             VALUES ($1, $2, $3, $4)`,
			saleID, line.isbn, line.quantity, line.price)
		if err != nil {
			return nil, fmt.Errorf("failed to insert sale item %s: %w", line.isbn, err)
		}

		// Second guard on top of the row lock: the decrement only applies
		// when enough stock remains, so quantity_in_stock can never go
		// negative even if the lock is ever weakened.
		result, err := tx.ExecContext(ctx,
			`UPDATE books SET quantity_in_stock = quantity_in_stock - $1
             WHERE isbn = $2 AND quantity_in_stock >= $1`,
			line.quantity, line.isbn)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement stock for %s: %w", line.isbn, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to read affected rows: %w", err)
		}
		if affected == 0 {
			return nil, &InsufficientStockError{
				Title:     line.title,
				Requested: line.quantity,
				Available: line.inStock,
			}
		}
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &CheckoutResult{SaleID: saleID, Total: total}, nil
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
