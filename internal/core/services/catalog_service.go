package services

import (
	"context"
	"errors"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/adapters/persistence/repositories"
	"shelfwise/internal/core/domain"

	"gorm.io/gorm"
)

// CatalogService handles book administration. It only ever touches
// metadata; the availability flag belongs to the lending protocol.
type CatalogService struct {
	bookRepo repositories.BookRepository
	loanRepo repositories.LoanRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(bookRepo repositories.BookRepository, loanRepo repositories.LoanRepository) *CatalogService {
	return &CatalogService{
		bookRepo: bookRepo,
		loanRepo: loanRepo,
	}
}

// BookInput represents book create/update input
type BookInput struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
	Genre  string `json:"genre" validate:"required"`
	Type   string `json:"type" validate:"required"`
}

// AddBook adds a new book to the catalog
func (s *CatalogService) AddBook(ctx context.Context, input *BookInput) (*models.Book, error) {
	book := &models.Book{
		Title:     input.Title,
		Author:    input.Author,
		Genre:     input.Genre,
		Type:      input.Type,
		Available: true,
	}
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, storeError(err)
	}
	return book, nil
}

// UpdateBook updates book metadata
func (s *CatalogService) UpdateBook(ctx context.Context, id uint, input *BookInput) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, storeError(err)
	}

	book.Title = input.Title
	book.Author = input.Author
	book.Genre = input.Genre
	book.Type = input.Type

	if err := s.bookRepo.UpdateMetadata(ctx, book); err != nil {
		return nil, storeError(err)
	}
	return book, nil
}

// DeleteBook removes a book. A book with an active loan cannot go.
func (s *CatalogService) DeleteBook(ctx context.Context, id uint) error {
	if _, err := s.bookRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrBookNotFound
		}
		return storeError(err)
	}

	onLoan, err := s.loanRepo.ExistsByBook(ctx, id)
	if err != nil {
		return storeError(err)
	}
	if onLoan {
		return domain.ErrBookOnLoan
	}

	return storeError(s.bookRepo.Delete(ctx, id))
}
