package repositories

import (
	"context"
	"time"

	"shelfwise/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	Count(ctx context.Context) (int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// BookRepository defines catalog repository interface.
// Availability is only ever flipped through MarkUnavailable/MarkAvailable
// so the lending protocol stays the single writer of that flag.
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	UpdateMetadata(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id uint) error
	ListAvailable(ctx context.Context, offset, limit int) ([]*models.Book, int64, error)
	Count(ctx context.Context) (int64, error)
	CountAvailable(ctx context.Context) (int64, error)

	// MarkUnavailable flips available from true to false as a guarded
	// update. It reports false when the book was already unavailable,
	// which is how concurrent borrows on the same book lose the race.
	MarkUnavailable(ctx context.Context, id uint) (bool, error)
	MarkAvailable(ctx context.Context, id uint) error

	WithTx(tx *gorm.DB) BookRepository
}

// LoanRepository defines active-loan repository interface
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByMemberAndBook(ctx context.Context, username string, bookID uint) (*models.Loan, error)
	ListByUsername(ctx context.Context, username string) ([]*models.Loan, error)
	ListOverdue(ctx context.Context, now time.Time) ([]*models.Loan, error)
	ExistsByBook(ctx context.Context, bookID uint) (bool, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)

	WithTx(tx *gorm.DB) LoanRepository
}

// ReturnRepository defines return-record repository interface.
// Records are append-only: no update or delete methods exist.
type ReturnRepository interface {
	Create(ctx context.Context, record *models.ReturnRecord) error
	ListByUsername(ctx context.Context, username string) ([]*models.ReturnRecord, error)
	Count(ctx context.Context) (int64, error)
	SumFines(ctx context.Context) (int64, error)

	WithTx(tx *gorm.DB) ReturnRepository
}
