package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bookstore/internal/models"

	"github.com/lib/pq"
)

var (
	ErrDBCustomerNotFound = errors.New("database: customer not found")
	ErrDBAdminNotFound    = errors.New("database: admin not found")
	ErrDBDuplicateField   = errors.New("database: username or email already registered")
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// CreateCustomer registers the customer and their initial active cart in one
// transaction.
func (s *DBStore) CreateCustomer(ctx context.Context, c *models.Customer) (int64, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var customerID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO customers (username, password_hash, first_name, last_name,
                                email, phone, shipping_address)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
         RETURNING customer_id`,
		c.Username, c.PasswordHash, c.FirstName, c.LastName,
		c.Email, c.Phone, c.ShippingAddress).Scan(&customerID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDBDuplicateField
		}
		return 0, fmt.Errorf("failed to insert customer: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO shopping_carts (customer_id, is_active) VALUES ($1, TRUE)`, customerID)
	if err != nil {
		return 0, fmt.Errorf("failed to create initial cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return customerID, nil
}

func (s *DBStore) GetCustomerByUsername(ctx context.Context, username string) (*models.Customer, error) {
	c := &models.Customer{}
	var phone, address sql.NullString
	err := s.DB.QueryRowContext(ctx,
		`SELECT customer_id, username, password_hash, first_name, last_name,
                email, phone, shipping_address
         FROM customers WHERE username = $1`, username).Scan(
		&c.CustomerID, &c.Username, &c.PasswordHash, &c.FirstName,
		&c.LastName, &c.Email, &phone, &address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDBCustomerNotFound
		}
		return nil, fmt.Errorf("failed to query customer: %w", err)
	}
	c.Phone = phone.String
	c.ShippingAddress = address.String
	return c, nil
}

func (s *DBStore) GetCustomerByID(ctx context.Context, customerID int64) (*models.Customer, error) {
	c := &models.Customer{}
	var phone, address sql.NullString
	err := s.DB.QueryRowContext(ctx,
		`SELECT customer_id, username, password_hash, first_name, last_name,
                email, phone, shipping_address
         FROM customers WHERE customer_id = $1`, customerID).Scan(
		&c.CustomerID, &c.Username, &c.PasswordHash, &c.FirstName,
		&c.LastName, &c.Email, &phone, &address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDBCustomerNotFound
		}
		return nil, fmt.Errorf("failed to query customer: %w", err)
	}
	c.Phone = phone.String
	c.ShippingAddress = address.String
	return c, nil
}

func (s *DBStore) UpdateCustomerProfile(ctx context.Context, c *models.Customer) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE customers
         SET first_name = $1, last_name = $2, email = $3, phone = $4, shipping_address = $5
         WHERE customer_id = $6`,
		c.FirstName, c.LastName, c.Email, c.Phone, c.ShippingAddress, c.CustomerID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDBDuplicateField
		}
		return fmt.Errorf("failed to update customer profile: %w", err)
	}
	return nil
}

func (s *DBStore) UpdateCustomerPassword(ctx context.Context, customerID int64, passwordHash string) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE customers SET password_hash = $1 WHERE customer_id = $2`,
		passwordHash, customerID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *DBStore) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	a := &models.Admin{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT admin_id, username, password_hash, first_name, last_name, email, is_active, last_login
         FROM admins WHERE username = $1 AND is_active = TRUE`, username).Scan(
		&a.AdminID, &a.Username, &a.PasswordHash, &a.FirstName,
		&a.LastName, &a.Email, &a.IsActive, &a.LastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDBAdminNotFound
		}
		return nil, fmt.Errorf("failed to query admin: %w", err)
	}
	return a, nil
}

func (s *DBStore) TouchAdminLastLogin(ctx context.Context, adminID int64) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE admins SET last_login = CURRENT_TIMESTAMP WHERE admin_id = $1`, adminID)
	if err != nil {
		return fmt.Errorf("failed to update admin last login: %w", err)
	}
	return nil
}
