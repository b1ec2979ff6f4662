package repositories

import (
	"context"

	"shelfwise/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// returnRepository implements ReturnRepository interface
type returnRepository struct {
	db *gorm.DB
}

// NewReturnRepository creates a new return repository
func NewReturnRepository(db *gorm.DB) ReturnRepository {
	return &returnRepository{db: db}
}

// WithTx returns a return repository bound to the given transaction
func (r *returnRepository) WithTx(tx *gorm.DB) ReturnRepository {
	return &returnRepository{db: tx}
}

// Create appends a return record
func (r *returnRepository) Create(ctx context.Context, record *models.ReturnRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// ListByUsername lists a member's return history
func (r *returnRepository) ListByUsername(ctx context.Context, username string) ([]*models.ReturnRecord, error) {
	var records []*models.ReturnRecord
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("username = ?", username).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

// Count counts return records
func (r *returnRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReturnRecord{}).Count(&count).Error
	return count, err
}

// SumFines sums all recorded fines
func (r *returnRepository) SumFines(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.ReturnRecord{}).
		Select("COALESCE(SUM(fine), 0)").
		Scan(&total).Error
	return total, err
}
