package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bookstore/internal/models"
)

var ErrDBSaleNotFound = errors.New("database: sale not found")

func (s *DBStore) GetCustomerSales(ctx context.Context, customerID int64) ([]models.Sale, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT s.sale_id, s.sale_date, s.total_amount, COUNT(si.isbn)
         FROM sales s
         LEFT JOIN sale_items si ON s.sale_id = si.sale_id
         WHERE s.customer_id = $1
         GROUP BY s.sale_id, s.sale_date, s.total_amount
         ORDER BY s.sale_date DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer sales: %w", err)
	}
	defer rows.Close()

	var sales []models.Sale
	for rows.Next() {
		var sale models.Sale
		if err := rows.Scan(&sale.SaleID, &sale.SaleDate, &sale.TotalAmount, &sale.ItemCount); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sale.CustomerID = customerID
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

// GetSaleDetails returns the sale header and its lines, scoped to the owning
// customer so one customer cannot read another's orders.
func (s *DBStore) GetSaleDetails(ctx context.Context, saleID, customerID int64) (*models.Sale, []models.SaleItem, error) {
	sale := &models.Sale{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT sale_id, customer_id, sale_date, total_amount, credit_card_last4, card_expiry
         FROM sales
         WHERE sale_id = $1 AND customer_id = $2`, saleID, customerID).Scan(
		&sale.SaleID, &sale.CustomerID, &sale.SaleDate,
		&sale.TotalAmount, &sale.CreditCardLast4, &sale.CardExpiry)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrDBSaleNotFound
		}
		return nil, nil, fmt.Errorf("failed to query sale: %w", err)
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT si.sale_id, si.isbn, b.title, b.category, si.quantity, si.price_at_sale
         FROM sale_items si
         JOIN books b ON si.isbn = b.isbn
         WHERE si.sale_id = $1`, saleID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query sale items: %w", err)
	}
	defer rows.Close()

	var items []models.SaleItem
	for rows.Next() {
		var item models.SaleItem
		if err := rows.Scan(&item.SaleID, &item.ISBN, &item.Title,
			&item.Category, &item.Quantity, &item.PriceAtSale); err != nil {
			return nil, nil, fmt.Errorf("failed to scan sale item: %w", err)
		}
		items = append(items, item)
	}
	return sale, items, rows.Err()
}

func (s *DBStore) GetSalesForPreviousMonth(ctx context.Context) (*models.SalesSummary, error) {
	summary := &models.SalesSummary{}
	var period sql.NullString
	err := s.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_amount), 0), COUNT(*),
                to_char(MIN(sale_date), 'YYYY-MM')
         FROM sales
         WHERE date_trunc('month', sale_date) = date_trunc('month', CURRENT_DATE - INTERVAL '1 month')`,
	).Scan(&summary.TotalSales, &summary.NumOrders, &period)
	if err != nil {
		return nil, fmt.Errorf("failed to query previous month sales: %w", err)
	}
	summary.Period = period.String
	return summary, nil
}

func (s *DBStore) GetSalesByDate(ctx context.Context, date string) (*models.SalesSummary, error) {
	summary := &models.SalesSummary{Period: date}
	err := s.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_amount), 0), COUNT(*)
         FROM sales
         WHERE sale_date::date = $1::date`, date,
	).Scan(&summary.TotalSales, &summary.NumOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales by date: %w", err)
	}
	return summary, nil
}

func (s *DBStore) GetTopCustomers(ctx context.Context, limit int) ([]models.TopCustomer, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT c.customer_id, c.first_name, c.last_name, c.email,
                SUM(s.total_amount), COUNT(s.sale_id)
         FROM customers c
         JOIN sales s ON c.customer_id = s.customer_id
         WHERE s.sale_date >= CURRENT_DATE - INTERVAL '3 months'
         GROUP BY c.customer_id, c.first_name, c.last_name, c.email
         ORDER BY SUM(s.total_amount) DESC
         LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top customers: %w", err)
	}
	defer rows.Close()

	var customers []models.TopCustomer
	for rows.Next() {
		var c models.TopCustomer
		if err := rows.Scan(&c.CustomerID, &c.FirstName, &c.LastName,
			&c.Email, &c.TotalSpent, &c.NumOrders); err != nil {
			return nil, fmt.Errorf("failed to scan top customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s *DBStore) GetTopBooks(ctx context.Context, limit int) ([]models.TopBook, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT b.isbn, b.title, b.category,
                SUM(si.quantity), SUM(si.quantity * si.price_at_sale)
         FROM books b
         JOIN sale_items si ON b.isbn = si.isbn
         JOIN sales s ON si.sale_id = s.sale_id
         WHERE s.sale_date >= CURRENT_DATE - INTERVAL '3 months'
         GROUP BY b.isbn, b.title, b.category
         ORDER BY SUM(si.quantity) DESC
         LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top books: %w", err)
	}
	defer rows.Close()

	var books []models.TopBook
	for rows.Next() {
		var b models.TopBook
		if err := rows.Scan(&b.ISBN, &b.Title, &b.Category,
			&b.TotalSold, &b.TotalRevenue); err != nil {
			return nil, fmt.Errorf("failed to scan top book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (s *DBStore) GetDashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{}

	err := s.DB.QueryRowContext(ctx,
		`SELECT
            (SELECT COUNT(*) FROM books WHERE is_deleted = FALSE),
            (SELECT COUNT(*) FROM customers),
            (SELECT COUNT(*) FROM publisher_orders WHERE status = 'Pending'),
            (SELECT COUNT(*) FROM books
             WHERE quantity_in_stock < threshold_quantity AND is_deleted = FALSE)`,
	).Scan(&summary.TotalBooks, &summary.TotalCustomers,
		&summary.PendingOrders, &summary.LowStockBooks)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard counts: %w", err)
	}

	periods := []struct {
		dest  *models.PeriodSales
		where string
	}{
		{&summary.SalesToday, `sale_date::date = CURRENT_DATE`},
		{&summary.SalesWeek, `sale_date >= CURRENT_DATE - INTERVAL '7 days'`},
		{&summary.SalesMonth, `date_trunc('month', sale_date) = date_trunc('month', CURRENT_DATE)`},
	}
	for _, p := range periods {
		err := s.DB.QueryRowContext(ctx,
			`SELECT COUNT(*), COALESCE(SUM(total_amount), 0) FROM sales WHERE `+p.where,
		).Scan(&p.dest.Count, &p.dest.Amount)
		if err != nil {
			return nil, fmt.Errorf("failed to query period sales: %w", err)
		}
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT s.sale_id, s.sale_date, s.total_amount,
                c.first_name, c.last_name, c.email
         FROM sales s
         JOIN customers c ON s.customer_id = c.customer_id
         ORDER BY s.sale_date DESC
         LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent sales: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r models.RecentSale
		if err := rows.Scan(&r.SaleID, &r.SaleDate, &r.TotalAmount,
			&r.FirstName, &r.LastName, &r.Email); err != nil {
			return nil, fmt.Errorf("failed to scan recent sale: %w", err)
		}
		summary.RecentSales = append(summary.RecentSales, r)
	}
	return summary, rows.Err()
}
