package handler

import (
	"errors"
	"log"
	"net/http"

	"bookstore/internal/service"
	"bookstore/internal/store"
)

type BookHandler struct {
	logger         *log.Logger
	catalogService *service.CatalogService
}

func NewBookHandler(logger *log.Logger, catalogService *service.CatalogService) *BookHandler {
	return &BookHandler{logger: logger, catalogService: catalogService}
}

func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.catalogService.ListBooks(r.Context())
	if err != nil {
		writeError(h.logger, w, http.StatusInternalServerError, "failed to fetch books")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, books)
}

func (h *BookHandler) SearchBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	books, err := h.catalogService.SearchBooks(r.Context(), store.BookSearch{
		ISBN:      q.Get("isbn"),
		Title:     q.Get("title"),
		Category:  q.Get("category"),
		Author:    q.Get("author"),
		Publisher: q.Get("publisher"),
	})
	if err != nil {
		writeError(h.logger, w, http.StatusInternalServerError, "search failed")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, books)
}

func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.catalogService.GetBook(r.Context(), r.PathValue("isbn"))
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			writeError(h.logger, w, http.StatusNotFound, err.Error())
			return
		}
		writeError(h.logger, w, http.StatusInternalServerError, "failed to fetch book")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, book)
}

func (h *BookHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		writeError(h.logger, w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, categories)
}

func (h *BookHandler) ListPublishers(w http.ResponseWriter, r *http.Request) {
	publishers, err := h.catalogService.ListPublishers(r.Context())
	if err != nil {
		writeError(h.logger, w, http.StatusInternalServerError, "failed to fetch publishers")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, publishers)
}

func (h *BookHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.catalogService.ListAuthors(r.Context())
	if err != nil {
		writeError(h.logger, w, http.StatusInternalServerError, "failed to fetch authors")
		return
	}
	writeJSON(h.logger, w, http.StatusOK, authors)
}
