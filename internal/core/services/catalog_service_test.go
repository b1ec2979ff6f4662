package services_test

import (
	"context"
	"testing"
	"time"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/adapters/persistence/repositories"
	"shelfwise/internal/core/domain"
	"shelfwise/internal/core/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCatalogService(t *testing.T) (*services.CatalogService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := services.NewCatalogService(
		repositories.NewBookRepository(db),
		repositories.NewLoanRepository(db),
	)
	return svc, db
}

func TestAddBook(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	book, err := svc.AddBook(ctx, &services.BookInput{
		Title:  "The Dispossessed",
		Author: "Ursula K. Le Guin",
		Genre:  "Science Fiction",
		Type:   "Paperback",
	})
	require.NoError(t, err)
	assert.True(t, book.Available, "new books start available")

	var count int64
	require.NoError(t, db.Model(&models.Book{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestBook_UnavailableFlagSurvivesInsert(t *testing.T) {
	_, db := newCatalogService(t)
	book := seedBook(t, db, "Held", false)

	var stored models.Book
	require.NoError(t, db.First(&stored, book.ID).Error)
	assert.False(t, stored.Available, "false availability must persist as written")
}

func TestUpdateBook_NeverTouchesAvailability(t *testing.T) {
	svc, db := newCatalogService(t)
	book := seedBook(t, db, "Old Title", false)
	ctx := context.Background()

	updated, err := svc.UpdateBook(ctx, book.ID, &services.BookInput{
		Title:  "New Title",
		Author: "New Author",
		Genre:  "History",
		Type:   "Hardcover",
	})
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)

	var stored models.Book
	require.NoError(t, db.First(&stored, book.ID).Error)
	assert.Equal(t, "New Title", stored.Title)
	assert.False(t, stored.Available, "metadata update must not free a borrowed book")
}

func TestUpdateBook_NotFound(t *testing.T) {
	svc, _ := newCatalogService(t)

	_, err := svc.UpdateBook(context.Background(), 42, &services.BookInput{
		Title:  "X",
		Author: "Y",
		Genre:  "Z",
		Type:   "W",
	})
	assert.ErrorIs(t, err, domain.ErrBookNotFound)
}

func TestDeleteBook_RejectedWhileOnLoan(t *testing.T) {
	svc, db := newCatalogService(t)
	book := seedBook(t, db, "Held", false)
	ctx := context.Background()

	loan := &models.Loan{Username: "alice", BookID: book.ID, DueDate: time.Now().AddDate(0, 0, 15)}
	require.NoError(t, db.Create(loan).Error)

	err := svc.DeleteBook(ctx, book.ID)
	assert.ErrorIs(t, err, domain.ErrBookOnLoan)

	var count int64
	require.NoError(t, db.Model(&models.Book{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeleteBook(t *testing.T) {
	svc, db := newCatalogService(t)
	book := seedBook(t, db, "Gone", true)

	require.NoError(t, svc.DeleteBook(context.Background(), book.ID))

	var count int64
	require.NoError(t, db.Model(&models.Book{}).Count(&count).Error)
	assert.Zero(t, count)
}
