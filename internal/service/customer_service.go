package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"bookstore/internal/models"
	"bookstore/internal/store"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrWrongPassword    = errors.New("current password is incorrect")
)

type CustomerService struct {
	dbStore    *store.DBStore
	logger     *log.Logger
	bcryptCost int
}

func NewCustomerService(logger *log.Logger, db *store.DBStore, bcryptCost int) *CustomerService {
	return &CustomerService{dbStore: db, logger: logger, bcryptCost: bcryptCost}
}

func (s *CustomerService) GetProfile(ctx context.Context, identity Identity) (*models.Customer, error) {
	customer, err := s.dbStore.GetCustomerByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, store.ErrDBCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		s.logger.Printf("GetProfile: %v", err)
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return customer, nil
}

type ProfileUpdateInput struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ShippingAddress string `json:"shipping_address"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (s *CustomerService) UpdateProfile(ctx context.Context, identity Identity, in ProfileUpdateInput) error {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return fmt.Errorf("%w: first_name and last_name are required", ErrInvalidInput)
	}
	if !emailPattern.MatchString(in.Email) {
		return fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}

	if in.NewPassword != "" {
		if in.CurrentPassword == "" {
			return fmt.Errorf("%w: current password is required to change password", ErrInvalidInput)
		}
		if len(in.NewPassword) < 8 {
			return fmt.Errorf("%w: new password must be at least 8 characters", ErrInvalidInput)
		}

		customer, err := s.dbStore.GetCustomerByID(ctx, identity.ID)
		if err != nil {
			s.logger.Printf("UpdateProfile: %v", err)
			return fmt.Errorf("failed to update profile: %w", err)
		}
		if bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(in.CurrentPassword)) != nil {
			return ErrWrongPassword
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), s.bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		if err := s.dbStore.UpdateCustomerPassword(ctx, identity.ID, string(hash)); err != nil {
			s.logger.Printf("UpdateProfile: %v", err)
			return fmt.Errorf("failed to update password: %w", err)
		}
	}

	err := s.dbStore.UpdateCustomerProfile(ctx, &models.Customer{
		CustomerID:      identity.ID,
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		Email:           strings.TrimSpace(in.Email),
		Phone:           in.Phone,
		ShippingAddress: in.ShippingAddress,
	})
	if err != nil {
		if errors.Is(err, store.ErrDBDuplicateField) {
			return ErrDuplicateUser
		}
		s.logger.Printf("UpdateProfile: %v", err)
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func (s *CustomerService) ListOrders(ctx context.Context, identity Identity) ([]models.Sale, error) {
	sales, err := s.dbStore.GetCustomerSales(ctx, identity.ID)
	if err != nil {
		s.logger.Printf("ListOrders: %v", err)
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	if sales == nil {
		sales = []models.Sale{}
	}
	return sales, nil
}

type OrderDetails struct {
	Order *models.Sale      `json:"order"`
	Items []models.SaleItem `json:"items"`
}

func (s *CustomerService) GetOrderDetails(ctx context.Context, identity Identity, saleID int64) (*OrderDetails, error) {
	sale, items, err := s.dbStore.GetSaleDetails(ctx, saleID, identity.ID)
	if err != nil {
		if errors.Is(err, store.ErrDBSaleNotFound) {
			return nil, ErrOrderNotFound
		}
		s.logger.Printf("GetOrderDetails: %v", err)
		return nil, fmt.Errorf("failed to fetch order details: %w", err)
	}
	if items == nil {
		items = []models.SaleItem{}
	}
	return &OrderDetails{Order: sale, Items: items}, nil
}
