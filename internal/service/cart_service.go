package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"bookstore/internal/metrics"
	"bookstore/internal/models"
	"bookstore/internal/store"

	"github.com/shopspring/decimal"
)

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrCartNotFound     = errors.New("no active cart found")
	ErrCartEmpty        = errors.New("cart is empty")
	ErrItemNotInCart    = errors.New("item not in cart")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrCheckoutFailed   = errors.New("checkout processing failed")
	ErrCartUpdateFailed = errors.New("failed to update cart")
)

// StockError carries the availability message shown to the customer.
type StockError struct {
	Title     string
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("only %d copies of %q available in stock", e.Available, e.Title)
}

type CartService struct {
	dbStore *store.DBStore
	logger  *log.Logger
}

func NewCartService(logger *log.Logger, db *store.DBStore) *CartService {
	return &CartService{dbStore: db, logger: logger}
}

// CartView is the cart aggregate as returned to the client: lines with
// current prices and a total derived at read time.
type CartView struct {
	CartID    int64             `json:"cart_id"`
	Items     []models.CartItem `json:"items"`
	Total     string            `json:"total"`
	ItemCount int               `json:"item_count"`
}

func (s *CartService) GetCart(ctx context.Context, identity Identity) (*CartView, error) {
	cartID, err := s.dbStore.GetOrCreateActiveCart(ctx, identity.ID)
	if err != nil {
		s.logger.Printf("GetCart: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
	}

	items, err := s.dbStore.GetCartItems(ctx, cartID)
	if err != nil {
		s.logger.Printf("GetCart: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}

	if items == nil {
		items = []models.CartItem{}
	}
	return &CartView{
		CartID:    cartID,
		Items:     items,
		Total:     total.StringFixed(2),
		ItemCount: len(items),
	}, nil
}

func (s *CartService) AddItem(ctx context.Context, identity Identity, isbn string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	book, err := s.dbStore.GetBookByISBN(ctx, isbn)
	if err != nil {
		s.logger.Printf("AddItem: %v", err)
		return fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
	}
	if book == nil {
		return ErrBookNotFound
	}

	cartID, err := s.dbStore.GetOrCreateActiveCart(ctx, identity.ID)
	if err != nil {
		s.logger.Printf("AddItem: %v", err)
		return fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
	}

	existing, err := s.dbStore.GetCartItemQuantity(ctx, cartID, isbn)
	if err != nil {
		s.logger.Printf("AddItem: %v", err)
		return fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
	}
	if existing+quantity > book.QuantityInStock {
		return &StockError{Title: book.Title, Available: book.QuantityInStock}
	}

	if err := s.dbStore.AddCartItem(ctx, cartID, isbn, quantity); err != nil {
		s.logger.Printf("AddItem: %v", err)
		return fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
	}
	return nil
}

func (s *CartService) UpdateItem(ctx context.Context, identity Identity, isbn string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	book, err := s.dbStore.GetBookByISBN(ctx, isbn)
	if err != nil {
		s.logger.Printf("UpdateItem: %v", err)
		return fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
	}
	if book == nil {
		return ErrBookNotFound
	}
	if quantity > book.QuantityInStock {
		return &StockError{Title: book.Title, Available: book.QuantityInStock}
	}

	cartID, err := s.dbStore.GetActiveCartID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, store.ErrDBCartNotFound) {
			return ErrCartNotFound
		}
		s.logger.Printf("UpdateItem: %v", err)
		return fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
	}

	if err := s.dbStore.UpdateCartItem(ctx, cartID, isbn, quantity); err != nil {
		if errors.Is(err, store.ErrDBCartItemNotFound) {
			return ErrItemNotInCart
		}
		s.logger.Printf("UpdateItem: %v", err)
		return fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
	}
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, identity Identity, isbn string) error {
	cartID, err := s.dbStore.GetActiveCartID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, store.ErrDBCartNotFound) {
			return ErrCartNotFound
		}
		s.logger.Printf("RemoveItem: %v", err)
		return fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
	}

	if err := s.dbStore.RemoveCartItem(ctx, cartID, isbn); err != nil {
		if errors.Is(err, store.ErrDBCartItemNotFound) {
			return ErrItemNotInCart
		}
		s.logger.Printf("RemoveItem: %v", err)
		return fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
	}
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, identity Identity) error {
	cartID, err := s.dbStore.GetActiveCartID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, store.ErrDBCartNotFound) {
			return nil
		}
		s.logger.Printf("ClearCart: %v", err)
		return fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
	}

	if err := s.dbStore.ClearCart(ctx, cartID); err != nil {
		s.logger.Printf("ClearCart: %v", err)
		return fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
	}
	return nil
}

// CheckoutReceipt is the success response of a checkout.
type CheckoutReceipt struct {
	SaleID int64  `json:"sale_id"`
	Total  string `json:"total"`
}

// Checkout validates the payment fields, then hands the all-or-nothing
// conversion of the cart into a sale to the store's transaction. The raw
// card number is dropped here; only the masked suffix travels further.
func (s *CartService) Checkout(ctx context.Context, identity Identity, payment PaymentDetails) (*CheckoutReceipt, error) {
	last4, err := payment.Validate()
	if err != nil {
		metrics.CheckoutsTotal.WithLabelValues(metrics.OutcomeInvalidPayment).Inc()
		return nil, err
	}

	result, err := s.dbStore.ExecuteCheckoutTransaction(ctx, identity.ID, last4, payment.CardExpiry)
	if err != nil {
		var stockErr *store.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			metrics.CheckoutsTotal.WithLabelValues(metrics.OutcomeInsufficientStock).Inc()
			return nil, &StockError{Title: stockErr.Title, Available: stockErr.Available}
		case errors.Is(err, store.ErrDBCartEmpty):
			metrics.CheckoutsTotal.WithLabelValues(metrics.OutcomeEmptyCart).Inc()
			return nil, ErrCartEmpty
		case errors.Is(err, store.ErrDBCartNotFound):
			metrics.CheckoutsTotal.WithLabelValues(metrics.OutcomeEmptyCart).Inc()
			return nil, ErrCartNotFound
		default:
			metrics.CheckoutsTotal.WithLabelValues(metrics.OutcomeError).Inc()
			s.logger.Printf("Checkout: transaction failed for customer %d: %v", identity.ID, err)
			return nil, ErrCheckoutFailed
		}
	}

	metrics.CheckoutsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	totalFloat, _ := result.Total.Float64()
	metrics.SaleAmountTotal.Add(totalFloat)

	s.logger.Printf("Checkout: customer %d completed sale %d for %s",
		identity.ID, result.SaleID, result.Total.StringFixed(2))

	return &CheckoutReceipt{
		SaleID: result.SaleID,
		Total:  result.Total.StringFixed(2),
	}, nil
}
