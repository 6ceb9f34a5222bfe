package service

import (
	"context"
	"fmt"
	"log"

	"bookstore/internal/models"
	"bookstore/internal/store"
)

type CatalogService struct {
	dbStore *store.DBStore
	logger  *log.Logger
}

func NewCatalogService(logger *log.Logger, db *store.DBStore) *CatalogService {
	return &CatalogService{dbStore: db, logger: logger}
}

func (s *CatalogService) ListBooks(ctx context.Context) ([]models.Book, error) {
	books, err := s.dbStore.GetAllBooks(ctx)
	if err != nil {
		s.logger.Printf("ListBooks: %v", err)
		return nil, fmt.Errorf("failed to fetch books: %w", err)
	}
	if books == nil {
		books = []models.Book{}
	}
	return books, nil
}

func (s *CatalogService) SearchBooks(ctx context.Context, search store.BookSearch) ([]models.Book, error) {
	books, err := s.dbStore.SearchBooks(ctx, search)
	if err != nil {
		s.logger.Printf("SearchBooks: %v", err)
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if books == nil {
		books = []models.Book{}
	}
	return books, nil
}

func (s *CatalogService) GetBook(ctx context.Context, isbn string) (*models.Book, error) {
	book, err := s.dbStore.GetBookByISBN(ctx, isbn)
	if err != nil {
		s.logger.Printf("GetBook: %v", err)
		return nil, fmt.Errorf("failed to fetch book: %w", err)
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	return book, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.dbStore.GetCategories(ctx)
	if err != nil {
		s.logger.Printf("ListCategories: %v", err)
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

func (s *CatalogService) ListPublishers(ctx context.Context) ([]models.Publisher, error) {
	publishers, err := s.dbStore.GetPublishers(ctx)
	if err != nil {
		s.logger.Printf("ListPublishers: %v", err)
		return nil, fmt.Errorf("failed to fetch publishers: %w", err)
	}
	if publishers == nil {
		publishers = []models.Publisher{}
	}
	return publishers, nil
}

func (s *CatalogService) ListAuthors(ctx context.Context) ([]models.Author, error) {
	authors, err := s.dbStore.GetAuthors(ctx)
	if err != nil {
		s.logger.Printf("ListAuthors: %v", err)
		return nil, fmt.Errorf("failed to fetch authors: %w", err)
	}
	if authors == nil {
		authors = []models.Author{}
	}
	return authors, nil
}
