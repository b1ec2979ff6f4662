package repositories

import (
	"context"

	"shelfwise/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// bookRepository implements BookRepository interface
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// WithTx returns a book repository bound to the given transaction
func (r *bookRepository) WithTx(tx *gorm.DB) BookRepository {
	return &bookRepository{db: tx}
}

// Create creates a new book
func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// GetByID gets a book by ID
func (r *bookRepository) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateMetadata updates book metadata columns. The availability flag is
// excluded so catalog administration can never race the lending protocol.
func (r *bookRepository) UpdateMetadata(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", book.ID).
		Updates(map[string]interface{}{
			"title":  book.Title,
			"author": book.Author,
			"genre":  book.Genre,
			"type":   book.Type,
		}).Error
}

// Delete soft deletes a book
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Book{}, id).Error
}

// ListAvailable lists available books with pagination
func (r *bookRepository) ListAvailable(ctx context.Context, offset, limit int) ([]*models.Book, int64, error) {
	var books []*models.Book
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Book{}).Where("available = ?", true).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).Where("available = ?", true).Offset(offset).Limit(limit).Find(&books).Error; err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

// Count counts all books
func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&count).Error
	return count, err
}

// CountAvailable counts available books
func (r *bookRepository) CountAvailable(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Book{}).Where("available = ?", true).Count(&count).Error
	return count, err
}

// MarkUnavailable flips available true -> false with a guarded update.
// Two concurrent borrows both reach this statement, but only one row
// update can match available = true; the loser gets RowsAffected == 0.
func (r *bookRepository) MarkUnavailable(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ? AND available = ?", id, true).
		Update("available", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkAvailable flips available back to true
func (r *bookRepository) MarkAvailable(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		Update("available", true).Error
}
