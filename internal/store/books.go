package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bookstore/internal/models"
)

var (
	ErrDBBookNotFound      = errors.New("database: book not found")
	ErrDBBookAlreadyExists = errors.New("database: book with this ISBN already exists")
)

const bookSelectColumns = `
        b.isbn, b.title, b.publisher_id, p.name, b.publication_year,
        b.price, b.category, b.quantity_in_stock, b.threshold_quantity,
        COALESCE(string_agg(DISTINCT a.author_name, ', '), '') AS authors`

const bookSelectJoins = `
    FROM books b
    LEFT JOIN publishers p ON b.publisher_id = p.publisher_id
    LEFT JOIN book_authors ba ON b.isbn = ba.isbn
    LEFT JOIN authors a ON ba.author_id = a.author_id`

const bookGroupBy = `
    GROUP BY b.isbn, b.title, b.publisher_id, p.name, b.publication_year,
             b.price, b.category, b.quantity_in_stock, b.threshold_quantity`

func scanBookRows(rows *sql.Rows) ([]models.Book, error) {
	var books []models.Book
	for rows.Next() {
		var b models.Book
		var publisherName sql.NullString
		if err := rows.Scan(
			&b.ISBN, &b.Title, &b.PublisherID, &publisherName, &b.PublicationYear,
			&b.Price, &b.Category, &b.QuantityInStock, &b.ThresholdQuantity, &b.Authors,
		); err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}
		b.PublisherName = publisherName.String
		books = append(books, b)
	}
	return books, rows.Err()
}

func (s *DBStore) GetAllBooks(ctx context.Context) ([]models.Book, error) {
	query := "SELECT" + bookSelectColumns + bookSelectJoins +
		" WHERE b.is_deleted = FALSE" + bookGroupBy + " ORDER BY b.title"

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	return scanBookRows(rows)
}

type BookSearch struct {
	ISBN      string
	Title     string
	Category  string
	Author    string
	Publisher string
}

func (s *DBStore) SearchBooks(ctx context.Context, search BookSearch) ([]models.Book, error) {
	var sb strings.Builder
	sb.WriteString("SELECT" + bookSelectColumns + bookSelectJoins)
	sb.WriteString(" WHERE b.is_deleted = FALSE")

	var params []any
	addFilter := func(clause string, value any) {
		params = append(params, value)
		sb.WriteString(fmt.Sprintf(clause, len(params)))
	}

	if search.ISBN != "" {
		addFilter(" AND b.isbn = $%d", search.ISBN)
	}
	if search.Title != "" {
		addFilter(" AND b.title ILIKE $%d", "%"+search.Title+"%")
	}
	if search.Category != "" {
		addFilter(" AND b.category = $%d", search.Category)
	}
	if search.Author != "" {
		addFilter(" AND a.author_name ILIKE $%d", "%"+search.Author+"%")
	}
	if search.Publisher != "" {
		addFilter(" AND p.name ILIKE $%d", "%"+search.Publisher+"%")
	}

	sb.WriteString(bookGroupBy + " ORDER BY b.title")

	rows, err := s.DB.QueryContext(ctx, sb.String(), params...)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	defer rows.Close()

	return scanBookRows(rows)
}

func (s *DBStore) GetBookByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	query := "SELECT" + bookSelectColumns + bookSelectJoins +
		" WHERE b.isbn = $1 AND b.is_deleted = FALSE" + bookGroupBy

	rows, err := s.DB.QueryContext(ctx, query, isbn)
	if err != nil {
		return nil, fmt.Errorf("failed to query book: %w", err)
	}
	defer rows.Close()

	books, err := scanBookRows(rows)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, nil
	}
	return &books[0], nil
}

func (s *DBStore) GetCategories(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT DISTINCT category FROM books WHERE is_deleted = FALSE ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *DBStore) GetPublishers(ctx context.Context) ([]models.Publisher, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT publisher_id, name, COALESCE(address, ''), COALESCE(phone, '')
         FROM publishers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query publishers: %w", err)
	}
	defer rows.Close()

	var publishers []models.Publisher
	for rows.Next() {
		var p models.Publisher
		if err := rows.Scan(&p.PublisherID, &p.Name, &p.Address, &p.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan publisher: %w", err)
		}
		publishers = append(publishers, p)
	}
	return publishers, rows.Err()
}

func (s *DBStore) GetAuthors(ctx context.Context) ([]models.Author, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT author_id, author_name FROM authors ORDER BY author_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	var authors []models.Author
	for rows.Next() {
		var a models.Author
		if err := rows.Scan(&a.AuthorID, &a.AuthorName); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// CreateBook inserts the book and its author links in one transaction.
// Authors are created on first use and reused by name afterwards.
func (s *DBStore) CreateBook(ctx context.Context, book *models.Book, authorNames []string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM books WHERE isbn = $1)`, book.ISBN).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check existing book: %w", err)
	}
	if exists {
		return ErrDBBookAlreadyExists
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO books (isbn, title, publisher_id, publication_year, price, category,
                            quantity_in_stock, threshold_quantity)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		book.ISBN, book.Title, book.PublisherID, book.PublicationYear,
		book.Price, book.Category, book.QuantityInStock, book.ThresholdQuantity)
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}

	for _, name := range authorNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		var authorID int64
		err = tx.QueryRowContext(ctx,
			`INSERT INTO authors (author_name) VALUES ($1)
             ON CONFLICT (author_name) DO UPDATE SET author_name = EXCLUDED.author_name
             RETURNING author_id`, name).Scan(&authorID)
		if err != nil {
			return fmt.Errorf("failed to upsert author %q: %w", name, err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO book_authors (isbn, author_id) VALUES ($1, $2)
             ON CONFLICT DO NOTHING`, book.ISBN, authorID)
		if err != nil {
			return fmt.Errorf("failed to link author %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *DBStore) UpdateBook(ctx context.Context, book *models.Book) error {
	result, err := s.DB.ExecContext(ctx,
		`UPDATE books
         SET title = $1, publisher_id = $2, publication_year = $3,
             price = $4, category = $5, quantity_in_stock = $6, threshold_quantity = $7
         WHERE isbn = $8 AND is_deleted = FALSE`,
		book.Title, book.PublisherID, book.PublicationYear,
		book.Price, book.Category, book.QuantityInStock, book.ThresholdQuantity, book.ISBN)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrDBBookNotFound
	}
	return nil
}

// DeleteBook soft-deletes so sale_items keep a valid ISBN reference.
func (s *DBStore) DeleteBook(ctx context.Context, isbn string) error {
	result, err := s.DB.ExecContext(ctx,
		`UPDATE books SET is_deleted = TRUE WHERE isbn = $1 AND is_deleted = FALSE`, isbn)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrDBBookNotFound
	}
	return nil
}

func (s *DBStore) GetLowStockBooks(ctx context.Context, limit int) ([]models.LowStockBook, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT b.isbn, b.title, b.quantity_in_stock, b.threshold_quantity,
                COALESCE(p.name, '')
         FROM books b
         LEFT JOIN publishers p ON b.publisher_id = p.publisher_id
         WHERE b.quantity_in_stock < b.threshold_quantity AND b.is_deleted = FALSE
         ORDER BY (b.threshold_quantity - b.quantity_in_stock) DESC
         LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock books: %w", err)
	}
	defer rows.Close()

	var books []models.LowStockBook
	for rows.Next() {
		var b models.LowStockBook
		if err := rows.Scan(&b.ISBN, &b.Title, &b.QuantityInStock,
			&b.ThresholdQuantity, &b.PublisherName); err != nil {
			return nil, fmt.Errorf("failed to scan low stock book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}
