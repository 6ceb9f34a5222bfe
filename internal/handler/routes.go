package handler

import (
	"net/http"
)

type Handlers struct {
	Auth     *AuthHandler
	Books    *BookHandler
	Cart     *CartHandler
	Customer *CustomerHandler
	Admin    *AdminHandler
	Mw       *AuthMiddleware
}

// Routes wires every API endpoint onto a fresh mux. Method-qualified
// patterns reject wrong verbs with 405 automatically.
func Routes(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Mw.RequireAny(h.Auth.Logout))
	mux.HandleFunc("GET /api/auth/session", h.Auth.Session)

	mux.HandleFunc("GET /api/books", h.Books.ListBooks)
	mux.HandleFunc("GET /api/books/search", h.Books.SearchBooks)
	mux.HandleFunc("GET /api/books/categories", h.Books.ListCategories)
	mux.HandleFunc("GET /api/books/{isbn}", h.Books.GetBook)
	mux.HandleFunc("GET /api/publishers", h.Books.ListPublishers)
	mux.HandleFunc("GET /api/authors", h.Books.ListAuthors)

	mux.HandleFunc("GET /api/cart", h.Mw.RequireCustomer(h.Cart.GetCart))
	mux.HandleFunc("DELETE /api/cart", h.Mw.RequireCustomer(h.Cart.ClearCart))
	mux.HandleFunc("POST /api/cart/items", h.Mw.RequireCustomer(h.Cart.AddItem))
	mux.HandleFunc("PUT /api/cart/items/{isbn}", h.Mw.RequireCustomer(h.Cart.UpdateItem))
	mux.HandleFunc("DELETE /api/cart/items/{isbn}", h.Mw.RequireCustomer(h.Cart.RemoveItem))
	mux.HandleFunc("POST /api/cart/checkout", h.Mw.RequireCustomer(h.Cart.Checkout))

	mux.HandleFunc("GET /api/customer/profile", h.Mw.RequireCustomer(h.Customer.GetProfile))
	mux.HandleFunc("PUT /api/customer/profile", h.Mw.RequireCustomer(h.Customer.UpdateProfile))
	mux.HandleFunc("GET /api/customer/orders", h.Mw.RequireCustomer(h.Customer.ListOrders))
	mux.HandleFunc("GET /api/customer/orders/{orderId}", h.Mw.RequireCustomer(h.Customer.GetOrderDetails))

	mux.HandleFunc("POST /api/admin/books", h.Mw.RequireAdmin(h.Admin.AddBook))
	mux.HandleFunc("PUT /api/admin/books/{isbn}", h.Mw.RequireAdmin(h.Admin.UpdateBook))
	mux.HandleFunc("DELETE /api/admin/books/{isbn}", h.Mw.RequireAdmin(h.Admin.DeleteBook))
	mux.HandleFunc("GET /api/admin/orders", h.Mw.RequireAdmin(h.Admin.ListOrders))
	mux.HandleFunc("POST /api/admin/orders/{orderId}/confirm", h.Mw.RequireAdmin(h.Admin.ConfirmOrder))
	mux.HandleFunc("GET /api/admin/reports/sales/previous-month", h.Mw.RequireAdmin(h.Admin.SalesPreviousMonth))
	mux.HandleFunc("GET /api/admin/reports/sales/{date}", h.Mw.RequireAdmin(h.Admin.SalesByDate))
	mux.HandleFunc("GET /api/admin/reports/top-customers", h.Mw.RequireAdmin(h.Admin.TopCustomers))
	mux.HandleFunc("GET /api/admin/reports/top-books", h.Mw.RequireAdmin(h.Admin.TopBooks))
	mux.HandleFunc("GET /api/admin/reports/book-orders/{isbn}", h.Mw.RequireAdmin(h.Admin.BookOrderCount))
	mux.HandleFunc("GET /api/admin/dashboard", h.Mw.RequireAdmin(h.Admin.Dashboard))
	mux.HandleFunc("GET /api/admin/low-stock", h.Mw.RequireAdmin(h.Admin.LowStockBooks))

	return mux
}
