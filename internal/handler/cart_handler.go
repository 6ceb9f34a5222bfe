package handler

import (
	"errors"
	"log"
	"net/http"

	"bookstore/internal/service"
)

type CartHandler struct {
	logger      *log.Logger
	cartService *service.CartService
}

func NewCartHandler(logger *log.Logger, cartService *service.CartService) *CartHandler {
	return &CartHandler{logger: logger, cartService: cartService}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartService.GetCart(r.Context(), identityFrom(r))
	if err != nil {
		writeError(h.logger, w, http.StatusInternalServerError, "failed to fetch cart")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, cart)
}

type addItemRequest struct {
	ISBN     string `json:"isbn"`
	Quantity int    `json:"quantity"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var in addItemRequest
	if err := decodeBody(r, &in); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.cartService.AddItem(r.Context(), identityFrom(r), in.ISBN, in.Quantity); err != nil {
		h.writeCartError(w, err, "failed to add item to cart")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, messageResponse{Message: "Item added to cart successfully"})
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var in updateItemRequest
	if err := decodeBody(r, &in); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.cartService.UpdateItem(r.Context(), identityFrom(r), r.PathValue("isbn"), in.Quantity)
	if err != nil {
		h.writeCartError(w, err, "failed to update cart")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, messageResponse{Message: "Cart updated successfully"})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	err := h.cartService.RemoveItem(r.Context(), identityFrom(r), r.PathValue("isbn"))
	if err != nil {
		h.writeCartError(w, err, "failed to remove item")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, messageResponse{Message: "Item removed from cart"})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cartService.ClearCart(r.Context(), identityFrom(r)); err != nil {
		writeError(h.logger, w, http.StatusInternalServerError, "failed to clear cart")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, messageResponse{Message: "Cart cleared successfully"})
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var payment service.PaymentDetails
	if err := decodeBody(r, &payment); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := h.cartService.Checkout(r.Context(), identityFrom(r), payment)
	if err != nil {
		var stockErr *service.StockError
		switch {
		case errors.Is(err, service.ErrInvalidCardNumber), errors.Is(err, service.ErrInvalidCardExpiry):
			writeError(h.logger, w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCartEmpty), errors.Is(err, service.ErrCartNotFound):
			writeError(h.logger, w, http.StatusBadRequest, err.Error())
		case errors.As(err, &stockErr):
			writeError(h.logger, w, http.StatusConflict, err.Error())
		default:
			writeError(h.logger, w, http.StatusInternalServerError, "checkout processing failed")
		}
		return
	}

	writeJSON(h.logger, w, http.StatusOK, receipt)
}

func (h *CartHandler) writeCartError(w http.ResponseWriter, err error, fallback string) {
	var stockErr *service.StockError
	switch {
	case errors.Is(err, service.ErrBookNotFound):
		writeError(h.logger, w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrCartNotFound), errors.Is(err, service.ErrItemNotInCart):
		writeError(h.logger, w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidQuantity):
		writeError(h.logger, w, http.StatusBadRequest, err.Error())
	case errors.As(err, &stockErr):
		writeError(h.logger, w, http.StatusBadRequest, err.Error())
	default:
		writeError(h.logger, w, http.StatusInternalServerError, fallback)
	}
}
