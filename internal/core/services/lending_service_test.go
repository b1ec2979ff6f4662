package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/adapters/persistence/repositories"
	"shelfwise/internal/core/domain"
	"shelfwise/internal/core/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database. A single connection
// keeps :memory: stable and serializes concurrent access the way a
// real database would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))
	return db
}

func newLendingService(t *testing.T) (*services.LendingService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := services.NewLendingService(
		db,
		repositories.NewBookRepository(db),
		repositories.NewLoanRepository(db),
		repositories.NewReturnRepository(db),
	)
	return svc, db
}

func seedBook(t *testing.T, db *gorm.DB, title string, available bool) *models.Book {
	t.Helper()
	book := &models.Book{
		Title:     title,
		Author:    "Test Author",
		Genre:     "Fiction",
		Type:      "Paperback",
		Available: available,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

// assertLedgerInvariant checks that every book is available exactly
// when no active loan references it.
func assertLedgerInvariant(t *testing.T, db *gorm.DB) {
	t.Helper()

	var books []models.Book
	require.NoError(t, db.Find(&books).Error)

	for _, book := range books {
		var loanCount int64
		require.NoError(t, db.Model(&models.Loan{}).Where("book_id = ?", book.ID).Count(&loanCount).Error)

		if book.Available {
			assert.Zero(t, loanCount, "available book %d must have no active loan", book.ID)
		} else {
			assert.Equal(t, int64(1), loanCount, "unavailable book %d must have exactly one active loan", book.ID)
		}
	}
}

func TestBorrow_Success(t *testing.T) {
	svc, db := newLendingService(t)
	book := seedBook(t, db, "Dune", true)
	ctx := context.Background()

	loan, err := svc.Borrow(ctx, "alice", book.ID)
	require.NoError(t, err)
	require.NotNil(t, loan)

	assert.Equal(t, "alice", loan.Username)
	assert.Equal(t, book.ID, loan.BookID)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, services.LoanPeriodDays), loan.DueDate, time.Minute)

	var stored models.Book
	require.NoError(t, db.First(&stored, book.ID).Error)
	assert.False(t, stored.Available)

	assertLedgerInvariant(t, db)
}

func TestBorrow_BookNotFound(t *testing.T) {
	svc, db := newLendingService(t)
	ctx := context.Background()

	_, err := svc.Borrow(ctx, "alice", 999)
	assert.ErrorIs(t, err, domain.ErrBookNotFound)

	var loanCount int64
	require.NoError(t, db.Model(&models.Loan{}).Count(&loanCount).Error)
	assert.Zero(t, loanCount)
}

func TestBorrow_Unavailable(t *testing.T) {
	svc, db := newLendingService(t)
	book := seedBook(t, db, "Dune", true)
	ctx := context.Background()

	_, err := svc.Borrow(ctx, "alice", book.ID)
	require.NoError(t, err)

	// A different member cannot borrow the same physical book
	_, err = svc.Borrow(ctx, "bob", book.ID)
	assert.ErrorIs(t, err, domain.ErrBookUnavailable)

	// Neither can the holder borrow it twice
	_, err = svc.Borrow(ctx, "alice", book.ID)
	assert.ErrorIs(t, err, domain.ErrBookUnavailable)

	var loanCount int64
	require.NoError(t, db.Model(&models.Loan{}).Count(&loanCount).Error)
	assert.Equal(t, int64(1), loanCount)

	assertLedgerInvariant(t, db)
}

func TestBorrow_DuplicateLoanGuard(t *testing.T) {
	svc, db := newLendingService(t)
	book := seedBook(t, db, "Dune", true)
	ctx := context.Background()

	// Simulate a stale availability flag: loan exists but the book
	// still reads as available. The duplicate-loan check must win.
	loan := &models.Loan{Username: "alice", BookID: book.ID, DueDate: time.Now().AddDate(0, 0, 15)}
	require.NoError(t, db.Create(loan).Error)

	_, err := svc.Borrow(ctx, "alice", book.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyBorrowed)
}

func TestReturn_NoActiveLoan(t *testing.T) {
	svc, db := newLendingService(t)
	book := seedBook(t, db, "Dune", true)
	ctx := context.Background()

	_, err := svc.Return(ctx, "alice", book.ID)
	assert.ErrorIs(t, err, domain.ErrLoanNotFound)

	var returnCount int64
	require.NoError(t, db.Model(&models.ReturnRecord{}).Count(&returnCount).Error)
	assert.Zero(t, returnCount)
}

func TestReturn_OnTime(t *testing.T) {
	svc, db := newLendingService(t)
	book := seedBook(t, db, "Dune", true)
	ctx := context.Background()

	loan, err := svc.Borrow(ctx, "alice", book.ID)
	require.NoError(t, err)

	record, err := svc.Return(ctx, "alice", book.ID)
	require.NoError(t, err)

	assert.Zero(t, record.Fine)
	assert.Equal(t, loan.DueDate.Unix(), record.DueDate.Unix())

	var stored models.Book
	require.NoError(t, db.First(&stored, book.ID).Error)
	assert.True(t, stored.Available)

	var loanCount, returnCount int64
	require.NoError(t, db.Model(&models.Loan{}).Count(&loanCount).Error)
	require.NoError(t, db.Model(&models.ReturnRecord{}).Count(&returnCount).Error)
	assert.Zero(t, loanCount)
	assert.Equal(t, int64(1), returnCount)

	assertLedgerInvariant(t, db)
}

func TestReturn_Overdue_ChargesFlatFine(t *testing.T) {
	svc, db := newLendingService(t)
	book := seedBook(t, db, "Dune", false)
	ctx := context.Background()

	// Loan created 20 days ago, due 5 days ago
	created := time.Now().AddDate(0, 0, -20)
	due := created.AddDate(0, 0, services.LoanPeriodDays)
	loan := &models.Loan{Username: "alice", BookID: book.ID, DueDate: due, CreatedAt: created}
	require.NoError(t, db.Create(loan).Error)

	record, err := svc.Return(ctx, "alice", book.ID)
	require.NoError(t, err)

	assert.Equal(t, services.OverdueFine, record.Fine)
	assert.Equal(t, due.Unix(), record.DueDate.Unix())

	var stored models.Book
	require.NoError(t, db.First(&stored, book.ID).Error)
	assert.True(t, stored.Available)

	var loanCount int64
	require.NoError(t, db.Model(&models.Loan{}).Count(&loanCount).Error)
	assert.Zero(t, loanCount)

	assertLedgerInvariant(t, db)
}

func TestReturn_RecordIsImmutableHistory(t *testing.T) {
	svc, db := newLendingService(t)
	book := seedBook(t, db, "Dune", true)
	ctx := context.Background()

	_, err := svc.Borrow(ctx, "alice", book.ID)
	require.NoError(t, err)
	_, err = svc.Return(ctx, "alice", book.ID)
	require.NoError(t, err)

	// A second lend/return cycle appends, never rewrites
	_, err = svc.Borrow(ctx, "alice", book.ID)
	require.NoError(t, err)
	_, err = svc.Return(ctx, "alice", book.ID)
	require.NoError(t, err)

	var returnCount int64
	require.NoError(t, db.Model(&models.ReturnRecord{}).Count(&returnCount).Error)
	assert.Equal(t, int64(2), returnCount)
}

func TestCalculateFine(t *testing.T) {
	due := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int64
	}{
		{"five days early", due.AddDate(0, 0, -5), 0},
		{"exactly at due", due, 0},
		{"one second late", due.Add(time.Second), services.OverdueFine},
		{"five days late", due.AddDate(0, 0, 5), services.OverdueFine},
		{"a year late, still flat", due.AddDate(1, 0, 0), services.OverdueFine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.CalculateFine(due, tt.now))
		})
	}
}

func TestBorrow_ConcurrentAttempts_OneWinner(t *testing.T) {
	svc, db := newLendingService(t)
	book := seedBook(t, db, "Dune", true)
	ctx := context.Background()

	const attempts = 8
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			username := string(rune('a' + i))
			_, errs[i] = svc.Borrow(ctx, "member-"+username, book.ID)
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case err == domain.ErrBookUnavailable:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, wins, "exactly one borrow must win")
	assert.Equal(t, attempts-1, conflicts)

	var loanCount int64
	require.NoError(t, db.Model(&models.Loan{}).Count(&loanCount).Error)
	assert.Equal(t, int64(1), loanCount)

	assertLedgerInvariant(t, db)
}

func TestLending_EndToEnd(t *testing.T) {
	svc, db := newLendingService(t)
	b1 := seedBook(t, db, "B1", true)
	ctx := context.Background()

	// alice borrows B1 at T
	loan, err := svc.Borrow(ctx, "alice", b1.ID)
	require.NoError(t, err)

	// Shift the loan 20 days into the past: due = T+15d, now = T+20d
	created := time.Now().AddDate(0, 0, -20)
	due := created.AddDate(0, 0, services.LoanPeriodDays)
	require.NoError(t, db.Model(&models.Loan{}).Where("id = ?", loan.ID).
		Updates(map[string]interface{}{"created_at": created, "due_date": due}).Error)

	record, err := svc.Return(ctx, "alice", b1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), record.Fine)
	assert.Equal(t, due.Unix(), record.DueDate.Unix())

	var stored models.Book
	require.NoError(t, db.First(&stored, b1.ID).Error)
	assert.True(t, stored.Available)

	var loanCount int64
	require.NoError(t, db.Model(&models.Loan{}).Where("username = ? AND book_id = ?", "alice", b1.ID).Count(&loanCount).Error)
	assert.Zero(t, loanCount)

	var records []models.ReturnRecord
	require.NoError(t, db.Where("username = ?", "alice").Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, int64(100), records[0].Fine)
}

func TestListAvailable_OnlyAvailableBooks(t *testing.T) {
	svc, db := newLendingService(t)
	seedBook(t, db, "Available One", true)
	seedBook(t, db, "Available Two", true)
	out := seedBook(t, db, "On Loan", true)
	ctx := context.Background()

	_, err := svc.Borrow(ctx, "alice", out.ID)
	require.NoError(t, err)

	books, total, err := svc.ListAvailable(ctx, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, book := range books {
		assert.True(t, book.Available)
		assert.NotEqual(t, out.ID, book.ID)
	}
}

func TestMyLoans(t *testing.T) {
	svc, db := newLendingService(t)
	b1 := seedBook(t, db, "First", true)
	b2 := seedBook(t, db, "Second", true)
	other := seedBook(t, db, "Other", true)
	ctx := context.Background()

	_, err := svc.Borrow(ctx, "alice", b1.ID)
	require.NoError(t, err)
	_, err = svc.Borrow(ctx, "alice", b2.ID)
	require.NoError(t, err)
	_, err = svc.Borrow(ctx, "bob", other.ID)
	require.NoError(t, err)

	loans, err := svc.MyLoans(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, loans, 2)
	for _, loan := range loans {
		assert.Equal(t, "alice", loan.Username)
	}
}

func TestMyReturns(t *testing.T) {
	svc, db := newLendingService(t)
	b1 := seedBook(t, db, "First", true)
	b2 := seedBook(t, db, "Second", true)
	ctx := context.Background()

	_, err := svc.Borrow(ctx, "alice", b1.ID)
	require.NoError(t, err)
	_, err = svc.Return(ctx, "alice", b1.ID)
	require.NoError(t, err)
	_, err = svc.Borrow(ctx, "bob", b2.ID)
	require.NoError(t, err)
	_, err = svc.Return(ctx, "bob", b2.ID)
	require.NoError(t, err)

	records, err := svc.MyReturns(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, b1.ID, records[0].BookID)
	assert.Zero(t, records[0].Fine)
}
