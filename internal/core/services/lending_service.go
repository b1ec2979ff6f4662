package services

import (
	"context"
	"errors"
	"log"
	"time"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/adapters/persistence/repositories"
	"shelfwise/internal/core/domain"

	"gorm.io/gorm"
)

const (
	// LoanPeriodDays is the fixed loan period
	LoanPeriodDays = 15

	// OverdueFine is the flat penalty charged on late returns.
	// Deliberately not prorated by days late.
	OverdueFine int64 = 100
)

// CalculateFine computes the fine owed when a loan due at `due` is
// returned at `now`. Returning exactly at the due timestamp is free.
func CalculateFine(due, now time.Time) int64 {
	if now.After(due) {
		return OverdueFine
	}
	return 0
}

// LendingService handles the borrow/return lifecycle.
// Both operations run as a single transaction so a failed precondition
// never leaves the catalog and the ledger disagreeing.
type LendingService struct {
	db         *gorm.DB
	bookRepo   repositories.BookRepository
	loanRepo   repositories.LoanRepository
	returnRepo repositories.ReturnRepository
}

// NewLendingService creates a new lending service
func NewLendingService(
	db *gorm.DB,
	bookRepo repositories.BookRepository,
	loanRepo repositories.LoanRepository,
	returnRepo repositories.ReturnRepository,
) *LendingService {
	return &LendingService{
		db:         db,
		bookRepo:   bookRepo,
		loanRepo:   loanRepo,
		returnRepo: returnRepo,
	}
}

// Borrow lends a book to a member.
// Precondition order: book exists, book available, no duplicate loan.
// The availability flip is a guarded update (available must still be
// true inside the transaction), so concurrent borrows on the same book
// serialize with exactly one winner.
func (s *LendingService) Borrow(ctx context.Context, username string, bookID uint) (*models.Loan, error) {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, storeError(err)
	}
	if !book.Available {
		return nil, domain.ErrBookUnavailable
	}

	if _, err := s.loanRepo.GetByMemberAndBook(ctx, username, bookID); err == nil {
		return nil, domain.ErrAlreadyBorrowed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeError(err)
	}

	var loan *models.Loan
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		books := s.bookRepo.WithTx(tx)
		loans := s.loanRepo.WithTx(tx)

		reserved, err := books.MarkUnavailable(ctx, bookID)
		if err != nil {
			return err
		}
		if !reserved {
			return domain.ErrBookUnavailable
		}

		loan = &models.Loan{
			Username: username,
			BookID:   bookID,
			DueDate:  time.Now().AddDate(0, 0, LoanPeriodDays),
		}
		return loans.Create(ctx, loan)
	})
	if err != nil {
		if errors.Is(err, domain.ErrBookUnavailable) {
			return nil, domain.ErrBookUnavailable
		}
		return nil, storeError(err)
	}

	log.Printf("📚 Book %d borrowed by %s (due %s)", bookID, username, loan.DueDate.Format("2006-01-02"))
	return loan, nil
}

// Return takes a book back from a member, records the fine, and frees
// the book. Ledger append, loan delete, and availability flip commit
// together or not at all.
func (s *LendingService) Return(ctx context.Context, username string, bookID uint) (*models.ReturnRecord, error) {
	var record *models.ReturnRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		books := s.bookRepo.WithTx(tx)
		loans := s.loanRepo.WithTx(tx)
		returns := s.returnRepo.WithTx(tx)

		loan, err := loans.GetByMemberAndBook(ctx, username, bookID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrLoanNotFound
			}
			return err
		}

		record = &models.ReturnRecord{
			Username: username,
			BookID:   bookID,
			DueDate:  loan.DueDate,
			Fine:     CalculateFine(loan.DueDate, time.Now()),
		}
		if err := returns.Create(ctx, record); err != nil {
			return err
		}

		if err := books.MarkAvailable(ctx, bookID); err != nil {
			return err
		}

		return loans.Delete(ctx, loan.ID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, storeError(err)
	}

	log.Printf("📗 Book %d returned by %s (fine: %d)", bookID, username, record.Fine)
	return record, nil
}

// ListAvailable lists available books with pagination
func (s *LendingService) ListAvailable(ctx context.Context, offset, limit int) ([]*models.Book, int64, error) {
	books, total, err := s.bookRepo.ListAvailable(ctx, offset, limit)
	if err != nil {
		return nil, 0, storeError(err)
	}
	return books, total, nil
}

// MyLoans lists a member's active loans
func (s *LendingService) MyLoans(ctx context.Context, username string) ([]*models.Loan, error) {
	loans, err := s.loanRepo.ListByUsername(ctx, username)
	if err != nil {
		return nil, storeError(err)
	}
	return loans, nil
}

// MyReturns lists a member's return history, newest first
func (s *LendingService) MyReturns(ctx context.Context, username string) ([]*models.ReturnRecord, error) {
	records, err := s.returnRepo.ListByUsername(ctx, username)
	if err != nil {
		return nil, storeError(err)
	}
	return records, nil
}

// storeError classifies store failures. Timeouts and cancellations are
// surfaced as a transient error the caller may retry; everything else
// passes through.
func storeError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.ErrStoreUnavailable
	}
	return err
}
