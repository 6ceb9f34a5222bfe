package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"bookstore/internal/models"
	"bookstore/internal/store"

	"github.com/shopspring/decimal"
)

var (
	ErrBookAlreadyExists = errors.New("book with this ISBN already exists")
	ErrOrderNotPending   = errors.New("order not found or already confirmed")
)

type AdminService struct {
	dbStore *store.DBStore
	logger  *log.Logger
}

func NewAdminService(logger *log.Logger, db *store.DBStore) *AdminService {
	return &AdminService{dbStore: db, logger: logger}
}

type BookInput struct {
	ISBN              string          `json:"isbn"`
	Title             string          `json:"title"`
	PublisherID       *int64          `json:"publisher_id"`
	PublicationYear   *int            `json:"publication_year"`
	Price             decimal.Decimal `json:"price"`
	Category          string          `json:"category"`
	QuantityInStock   int             `json:"quantity_in_stock"`
	ThresholdQuantity int             `json:"threshold_quantity"`
	Authors           []string        `json:"authors"`
}

func (in *BookInput) validate() error {
	if strings.TrimSpace(in.ISBN) == "" || strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Category) == "" {
		return fmt.Errorf("%w: isbn, title and category are required", ErrInvalidInput)
	}
	if !in.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	if in.QuantityInStock < 0 {
		return fmt.Errorf("%w: quantity_in_stock must not be negative", ErrInvalidInput)
	}
	return nil
}

func (in *BookInput) toModel() *models.Book {
	threshold := in.ThresholdQuantity
	if threshold <= 0 {
		threshold = 10
	}
	return &models.Book{
		ISBN:              strings.TrimSpace(in.ISBN),
		Title:             strings.TrimSpace(in.Title),
		PublisherID:       in.PublisherID,
		PublicationYear:   in.PublicationYear,
		Price:             in.Price,
		Category:          strings.TrimSpace(in.Category),
		QuantityInStock:   in.QuantityInStock,
		ThresholdQuantity: threshold,
	}
}

func (s *AdminService) AddBook(ctx context.Context, in BookInput) error {
	if err := in.validate(); err != nil {
		return err
	}

	if err := s.dbStore.CreateBook(ctx, in.toModel(), in.Authors); err != nil {
		if errors.Is(err, store.ErrDBBookAlreadyExists) {
			return ErrBookAlreadyExists
		}
		s.logger.Printf("AddBook: %v", err)
		return fmt.Errorf("failed to add book: %w", err)
	}
	return nil
}

func (s *AdminService) UpdateBook(ctx context.Context, isbn string, in BookInput) error {
	in.ISBN = isbn
	if err := in.validate(); err != nil {
		return err
	}

	if err := s.dbStore.UpdateBook(ctx, in.toModel()); err != nil {
		if errors.Is(err, store.ErrDBBookNotFound) {
			return ErrBookNotFound
		}
		s.logger.Printf("UpdateBook: %v", err)
		return fmt.Errorf("failed to update book: %w", err)
	}
	return nil
}

func (s *AdminService) DeleteBook(ctx context.Context, isbn string) error {
	if err := s.dbStore.DeleteBook(ctx, isbn); err != nil {
		if errors.Is(err, store.ErrDBBookNotFound) {
			return ErrBookNotFound
		}
		s.logger.Printf("DeleteBook: %v", err)
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return nil
}

func (s *AdminService) ListPublisherOrders(ctx context.Context, status string) ([]models.PublisherOrder, error) {
	orders, err := s.dbStore.GetPublisherOrders(ctx, status)
	if err != nil {
		s.logger.Printf("ListPublisherOrders: %v", err)
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	if orders == nil {
		orders = []models.PublisherOrder{}
	}
	return orders, nil
}

func (s *AdminService) ConfirmPublisherOrder(ctx context.Context, orderID int64) error {
	if err := s.dbStore.ConfirmPublisherOrder(ctx, orderID); err != nil {
		if errors.Is(err, store.ErrDBOrderNotPending) {
			return ErrOrderNotPending
		}
		s.logger.Printf("ConfirmPublisherOrder: %v", err)
		return fmt.Errorf("failed to confirm order: %w", err)
	}
	return nil
}

func (s *AdminService) SalesPreviousMonth(ctx context.Context) (*models.SalesSummary, error) {
	summary, err := s.dbStore.GetSalesForPreviousMonth(ctx)
	if err != nil {
		s.logger.Printf("SalesPreviousMonth: %v", err)
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}
	return summary, nil
}

func (s *AdminService) SalesByDate(ctx context.Context, date string) (*models.SalesSummary, error) {
	summary, err := s.dbStore.GetSalesByDate(ctx, date)
	if err != nil {
		s.logger.Printf("SalesByDate: %v", err)
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}
	return summary, nil
}

func (s *AdminService) TopCustomers(ctx context.Context) ([]models.TopCustomer, error) {
	customers, err := s.dbStore.GetTopCustomers(ctx, 5)
	if err != nil {
		s.logger.Printf("TopCustomers: %v", err)
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}
	if customers == nil {
		customers = []models.TopCustomer{}
	}
	return customers, nil
}

func (s *AdminService) TopBooks(ctx context.Context) ([]models.TopBook, error) {
	books, err := s.dbStore.GetTopBooks(ctx, 10)
	if err != nil {
		s.logger.Printf("TopBooks: %v", err)
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}
	if books == nil {
		books = []models.TopBook{}
	}
	return books, nil
}

func (s *AdminService) BookReplenishmentSummary(ctx context.Context, isbn string) (*models.ReplenishmentSummary, error) {
	summary, err := s.dbStore.GetBookReplenishmentSummary(ctx, isbn)
	if err != nil {
		if errors.Is(err, store.ErrDBBookNotFound) {
			return nil, ErrBookNotFound
		}
		s.logger.Printf("BookReplenishmentSummary: %v", err)
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}
	return summary, nil
}

func (s *AdminService) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	summary, err := s.dbStore.GetDashboardSummary(ctx)
	if err != nil {
		s.logger.Printf("DashboardSummary: %v", err)
		return nil, fmt.Errorf("failed to fetch dashboard data: %w", err)
	}
	if summary.RecentSales == nil {
		summary.RecentSales = []models.RecentSale{}
	}
	return summary, nil
}

func (s *AdminService) LowStockBooks(ctx context.Context) ([]models.LowStockBook, error) {
	books, err := s.dbStore.GetLowStockBooks(ctx, 20)
	if err != nil {
		s.logger.Printf("LowStockBooks: %v", err)
		return nil, fmt.Errorf("failed to fetch low stock books: %w", err)
	}
	if books == nil {
		books = []models.LowStockBook{}
	}
	return books, nil
}
