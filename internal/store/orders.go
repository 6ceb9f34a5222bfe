package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bookstore/internal/models"
)

var ErrDBOrderNotPending = errors.New("database: order not found or already confirmed")

func (s *DBStore) GetPublisherOrders(ctx context.Context, status string) ([]models.PublisherOrder, error) {
	query := `
        SELECT po.order_id, po.isbn, b.title, po.publisher_id, p.name,
               po.quantity, po.status, po.order_date
        FROM publisher_orders po
        JOIN books b ON po.isbn = b.isbn
        JOIN publishers p ON po.publisher_id = p.publisher_id`

	var params []any
	if status != "" {
		query += ` WHERE po.status = $1`
		params = append(params, status)
	}
	query += ` ORDER BY po.order_date DESC`

	rows, err := s.DB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query publisher orders: %w", err)
	}
	defer rows.Close()

	var orders []models.PublisherOrder
	for rows.Next() {
		var o models.PublisherOrder
		if err := rows.Scan(&o.OrderID, &o.ISBN, &o.Title, &o.PublisherID,
			&o.PublisherName, &o.Quantity, &o.Status, &o.OrderDate); err != nil {
			return nil, fmt.Errorf("failed to scan publisher order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ConfirmPublisherOrder flips a pending order to Confirmed and adds its
// quantity to the book's stock in the same transaction. This is the only
// code path that increments quantity_in_stock.
func (s *DBStore) ConfirmPublisherOrder(ctx context.Context, orderID int64) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var isbn string
	var quantity int
	err = tx.QueryRowContext(ctx,
		`UPDATE publisher_orders SET status = 'Confirmed'
         WHERE order_id = $1 AND status = 'Pending'
         RETURNING isbn, quantity`, orderID).Scan(&isbn, &quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDBOrderNotPending
		}
		return fmt.Errorf("failed to confirm order: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE books SET quantity_in_stock = quantity_in_stock + $1 WHERE isbn = $2`,
		quantity, isbn)
	if err != nil {
		return fmt.Errorf("failed to replenish stock for %s: %w", isbn, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *DBStore) GetBookReplenishmentSummary(ctx context.Context, isbn string) (*models.ReplenishmentSummary, error) {
	summary := &models.ReplenishmentSummary{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT b.isbn, b.title,
                COUNT(po.order_id),
                COALESCE(SUM(po.quantity), 0),
                COALESCE(SUM(CASE WHEN po.status = 'Confirmed' THEN po.quantity ELSE 0 END), 0)
         FROM books b
         LEFT JOIN publisher_orders po ON b.isbn = po.isbn
         WHERE b.isbn = $1
         GROUP BY b.isbn, b.title`, isbn).Scan(
		&summary.ISBN, &summary.Title, &summary.OrderCount,
		&summary.TotalQuantity, &summary.ConfirmedQuantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDBBookNotFound
		}
		return nil, fmt.Errorf("failed to query replenishment summary: %w", err)
	}
	return summary, nil
}
