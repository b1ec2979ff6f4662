package services

import (
	"context"
	"time"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/adapters/persistence/repositories"
)

// StatsService aggregates library figures for the admin dashboard
type StatsService struct {
	bookRepo   repositories.BookRepository
	loanRepo   repositories.LoanRepository
	returnRepo repositories.ReturnRepository
	userRepo   repositories.UserRepository
}

// NewStatsService creates a new stats service
func NewStatsService(
	bookRepo repositories.BookRepository,
	loanRepo repositories.LoanRepository,
	returnRepo repositories.ReturnRepository,
	userRepo repositories.UserRepository,
) *StatsService {
	return &StatsService{
		bookRepo:   bookRepo,
		loanRepo:   loanRepo,
		returnRepo: returnRepo,
		userRepo:   userRepo,
	}
}

// Overview represents library-wide counters
type Overview struct {
	Books          int64 `json:"books"`
	AvailableBooks int64 `json:"available_books"`
	ActiveLoans    int64 `json:"active_loans"`
	Returns        int64 `json:"returns"`
	FinesCollected int64 `json:"fines_collected"`
	Members        int64 `json:"members"`
}

// GetOverview collects library-wide counters
func (s *StatsService) GetOverview(ctx context.Context) (*Overview, error) {
	overview := &Overview{}
	var err error

	if overview.Books, err = s.bookRepo.Count(ctx); err != nil {
		return nil, storeError(err)
	}
	if overview.AvailableBooks, err = s.bookRepo.CountAvailable(ctx); err != nil {
		return nil, storeError(err)
	}
	if overview.ActiveLoans, err = s.loanRepo.Count(ctx); err != nil {
		return nil, storeError(err)
	}
	if overview.Returns, err = s.returnRepo.Count(ctx); err != nil {
		return nil, storeError(err)
	}
	if overview.FinesCollected, err = s.returnRepo.SumFines(ctx); err != nil {
		return nil, storeError(err)
	}
	if overview.Members, err = s.userRepo.Count(ctx); err != nil {
		return nil, storeError(err)
	}

	return overview, nil
}

// ListOverdue lists active loans past their due date
func (s *StatsService) ListOverdue(ctx context.Context) ([]*models.Loan, error) {
	loans, err := s.loanRepo.ListOverdue(ctx, time.Now())
	if err != nil {
		return nil, storeError(err)
	}
	return loans, nil
}
