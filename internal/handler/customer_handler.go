package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"bookstore/internal/service"
)

type CustomerHandler struct {
	logger          *log.Logger
	customerService *service.CustomerService
}

func NewCustomerHandler(logger *log.Logger, customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{logger: logger, customerService: customerService}
}

func (h *CustomerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.customerService.GetProfile(r.Context(), identityFrom(r))
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			writeError(h.logger, w, http.StatusNotFound, err.Error())
			return
		}
		writeError(h.logger, w, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, profile)
}

func (h *CustomerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in service.ProfileUpdateInput
	if err := decodeBody(r, &in); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.customerService.UpdateProfile(r.Context(), identityFrom(r), in); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			writeError(h.logger, w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrWrongPassword):
			writeError(h.logger, w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrDuplicateUser):
			writeError(h.logger, w, http.StatusBadRequest, err.Error())
		default:
			writeError(h.logger, w, http.StatusInternalServerError, "failed to update profile")
		}
		return
	}
	writeJSON(h.logger, w, http.StatusOK, messageResponse{Message: "Profile updated successfully"})
}

func (h *CustomerHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.customerService.ListOrders(r.Context(), identityFrom(r))
	if err != nil {
		writeError(h.logger, w, http.StatusInternalServerError, "failed to fetch orders")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, orders)
}

func (h *CustomerHandler) GetOrderDetails(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(r.PathValue("orderId"), 10, 64)
	if err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid order id")
		return
	}

	details, err := h.customerService.GetOrderDetails(r.Context(), identityFrom(r), orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			writeError(h.logger, w, http.StatusNotFound, err.Error())
			return
		}
		writeError(h.logger, w, http.StatusInternalServerError, "failed to fetch order details")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, details)
}
