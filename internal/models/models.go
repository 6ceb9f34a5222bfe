package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Book struct {
	ISBN              string          `json:"isbn"`
	Title             string          `json:"title"`
	PublisherID       *int64          `json:"publisher_id,omitempty"`
	PublisherName     string          `json:"publisher_name,omitempty"`
	Authors           string          `json:"authors,omitempty"`
	PublicationYear   *int            `json:"publication_year,omitempty"`
	Price             decimal.Decimal `json:"price"`
	Category          string          `json:"category"`
	QuantityInStock   int             `json:"quantity_in_stock"`
	ThresholdQuantity int             `json:"threshold_quantity"`
}

type Publisher struct {
	PublisherID int64  `json:"publisher_id"`
	Name        string `json:"name"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

type Author struct {
	AuthorID   int64  `json:"author_id"`
	AuthorName string `json:"author_name"`
}

type Customer struct {
	CustomerID      int64  `json:"customer_id"`
	Username        string `json:"username"`
	PasswordHash    string `json:"-"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	ShippingAddress string `json:"shipping_address,omitempty"`
}

type Admin struct {
	AdminID      int64      `json:"admin_id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

type Cart struct {
	CartID     int64      `json:"cart_id"`
	CustomerID int64      `json:"customer_id"`
	IsActive   bool       `json:"is_active"`
	Items      []CartItem `json:"items"`
}

type CartItem struct {
	CartID          int64           `json:"cart_id"`
	ISBN            string          `json:"isbn"`
	Title           string          `json:"title"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	QuantityInStock int             `json:"quantity_in_stock"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// Sale is append-only: created once by the checkout transaction, never
// mutated afterwards.
type Sale struct {
	SaleID          int64           `json:"sale_id"`
	CustomerID      int64           `json:"customer_id"`
	SaleDate        time.Time       `json:"sale_date"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	CreditCardLast4 string          `json:"credit_card_last4"`
	CardExpiry      string          `json:"card_expiry"`
	ItemCount       int             `json:"item_count,omitempty"`
}

type SaleItem struct {
	SaleID      int64           `json:"sale_id"`
	ISBN        string          `json:"isbn"`
	Title       string          `json:"title,omitempty"`
	Category    string          `json:"category,omitempty"`
	Quantity    int             `json:"quantity"`
	PriceAtSale decimal.Decimal `json:"price_at_sale"`
}

type PublisherOrder struct {
	OrderID       int64     `json:"order_id"`
	ISBN          string    `json:"isbn"`
	Title         string    `json:"title,omitempty"`
	PublisherID   int64     `json:"publisher_id"`
	PublisherName string    `json:"publisher_name,omitempty"`
	Quantity      int       `json:"quantity"`
	Status        string    `json:"status"`
	OrderDate     time.Time `json:"order_date"`
}

type SalesSummary struct {
	TotalSales decimal.Decimal `json:"total_sales"`
	NumOrders  int             `json:"num_orders"`
	Period     string          `json:"period"`
}

type TopCustomer struct {
	CustomerID int64           `json:"customer_id"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Email      string          `json:"email"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	NumOrders  int             `json:"num_orders"`
}

type TopBook struct {
	ISBN         string          `json:"isbn"`
	Title        string          `json:"title"`
	Category     string          `json:"category"`
	TotalSold    int             `json:"total_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type ReplenishmentSummary struct {
	ISBN              string `json:"isbn"`
	Title             string `json:"title"`
	OrderCount        int    `json:"order_count"`
	TotalQuantity     int    `json:"total_quantity_ordered"`
	ConfirmedQuantity int    `json:"confirmed_quantity"`
}

type DashboardSummary struct {
	TotalBooks     int            `json:"total_books"`
	TotalCustomers int            `json:"total_customers"`
	PendingOrders  int            `json:"pending_orders"`
	LowStockBooks  int            `json:"low_stock_books"`
	SalesToday     PeriodSales    `json:"sales_today"`
	SalesWeek      PeriodSales    `json:"sales_week"`
	SalesMonth     PeriodSales    `json:"sales_month"`
	RecentSales    []RecentSale   `json:"recent_sales"`
}

type PeriodSales struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type RecentSale struct {
	SaleID      int64           `json:"sale_id"`
	SaleDate    time.Time       `json:"sale_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Email       string          `json:"email"`
}

type LowStockBook struct {
	ISBN              string `json:"isbn"`
	Title             string `json:"title"`
	QuantityInStock   int    `json:"quantity_in_stock"`
	ThresholdQuantity int    `json:"threshold_quantity"`
	PublisherName     string `json:"publisher_name,omitempty"`
}
