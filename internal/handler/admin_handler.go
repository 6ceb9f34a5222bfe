package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"bookstore/internal/service"
)

type AdminHandler struct {
	logger       *log.Logger
	adminService *service.AdminService
}

func NewAdminHandler(logger *log.Logger, adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{logger: logger, adminService: adminService}
}

func (h *AdminHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	var in service.BookInput
	if err := decodeBody(r, &in); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.adminService.AddBook(r.Context(), in); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			writeError(h.logger, w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrBookAlreadyExists):
			writeError(h.logger, w, http.StatusConflict, err.Error())
		default:
			writeError(h.logger, w, http.StatusInternalServerError, "failed to add book")
		}
		return
	}
	writeJSON(h.logger, w, http.StatusCreated, map[string]any{
		"message": "Book added successfully",
		"isbn":    in.ISBN,
	})
}

func (h *AdminHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	var in service.BookInput
	if err := decodeBody(r, &in); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.adminService.UpdateBook(r.Context(), r.PathValue("isbn"), in); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			writeError(h.logger, w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrBookNotFound):
			writeError(h.logger, w, http.StatusNotFound, err.Error())
		default:
			writeError(h.logger, w, http.StatusInternalServerError, "failed to update book")
		}
		return
	}
	writeJSON(h.logger, w, http.StatusOK, messageResponse{Message: "Book updated successfully"})
}

func (h *AdminHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := h.adminService.DeleteBook(r.Context(), r.PathValue("isbn")); err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			writeError(h.logger, w, http.StatusNotFound, err.Error())
			return
		}
		writeError(h.logger, w, http.StatusInternalServerError, "failed to delete book")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, messageResponse{Message: "Book deleted successfully"})
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.adminService.ListPublisherOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(h.logger, w, http.StatusInternalServerError, "failed to fetch orders")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, orders)
}

func (h *AdminHandler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(r.PathValue("orderId"), 10, 64)
	if err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.adminService.ConfirmPublisherOrder(r.Context(), orderID); err != nil {
		if errors.Is(err, service.ErrOrderNotPending) {
			writeError(h.logger, w, http.StatusNotFound, err.Error())
			return
		}
		writeError(h.logger, w, http.StatusInternalServerError, "failed to confirm order")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, messageResponse{Message: "Order confirmed successfully"})
}

func (h *AdminHandler) SalesPreviousMonth(w http.ResponseWriter, r *http.Request) {
	summary, err := h.adminService.SalesPreviousMonth(r.Context())
	if err != nil {
		writeError(h.logger, w, http.StatusInternalServerError, "failed to generate report")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, summary)
}

func (h *AdminHandler) SalesByDate(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if date == "" {
		writeError(h.logger, w, http.StatusBadRequest, "date is required")
		return
	}

	summary, err := h.adminService.SalesByDate(r.Context(), date)
	if err != nil {
		writeError(h.logger, w, http.StatusInternalServerError, "failed to generate report")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, summary)
}

func (h *AdminHandler) TopCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.adminService.TopCustomers(r.Context())
	if err != nil {
		writeError(h.logger, w, http.StatusInternalServerError, "failed to generate report")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, customers)
}

func (h *AdminHandler) TopBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.adminService.TopBooks(r.Context())
	if err != nil {
		writeError(h.logger, w, http.StatusInternalServerError, "failed to generate report")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, books)
}

func (h *AdminHandler) BookOrderCount(w http.ResponseWriter, r *http.Request) {
	summary, err := h.adminService.BookReplenishmentSummary(r.Context(), r.PathValue("isbn"))
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			writeError(h.logger, w, http.StatusNotFound, err.Error())
			return
		}
		writeError(h.logger, w, http.StatusInternalServerError, "failed to generate report")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, summary)
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.adminService.DashboardSummary(r.Context())
	if err != nil {
		writeError(h.logger, w, http.StatusInternalServerError, "failed to fetch dashboard data")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, summary)
}

func (h *AdminHandler) LowStockBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.adminService.LowStockBooks(r.Context())
	if err != nil {
		writeError(h.logger, w, http.StatusInternalServerError, "failed to fetch low stock books")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, books)
}
