package repositories

import (
	"context"
	"time"

	"shelfwise/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// WithTx returns a loan repository bound to the given transaction
func (r *loanRepository) WithTx(tx *gorm.DB) LoanRepository {
	return &loanRepository{db: tx}
}

// Create creates a new loan
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByMemberAndBook gets the active loan for a (member, book) pair
func (r *loanRepository) GetByMemberAndBook(ctx context.Context, username string, bookID uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Where("username = ? AND book_id = ?", username, bookID).
		First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// ListByUsername lists a member's active loans
func (r *loanRepository) ListByUsername(ctx context.Context, username string) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("username = ?", username).
		Order("due_date ASC").
		Find(&loans).Error
	return loans, err
}

// ListOverdue lists active loans past their due date
func (r *loanRepository) ListOverdue(ctx context.Context, now time.Time) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("due_date < ?", now).
		Order("due_date ASC").
		Find(&loans).Error
	return loans, err
}

// ExistsByBook checks if any active loan references the book
func (r *loanRepository) ExistsByBook(ctx context.Context, bookID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Loan{}).Where("book_id = ?", bookID).Count(&count).Error
	return count > 0, err
}

// Delete removes a loan (the book has come back)
func (r *loanRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Loan{}, id).Error
}

// Count counts active loans
func (r *loanRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Loan{}).Count(&count).Error
	return count, err
}
