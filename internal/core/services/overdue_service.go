package services

import (
	"context"
	"log"
	"time"

	"shelfwise/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// OverdueService runs the daily overdue scan (08:30) and logs every
// loan past its due date. It never mutates the ledger: fines are only
// computed and recorded at return time.
type OverdueService struct {
	loanRepo  repositories.LoanRepository
	tokenRepo repositories.RefreshTokenRepository
	cron      *cron.Cron
}

// NewOverdueService creates a new overdue service
func NewOverdueService(
	loanRepo repositories.LoanRepository,
	tokenRepo repositories.RefreshTokenRepository,
) *OverdueService {
	return &OverdueService{
		loanRepo:  loanRepo,
		tokenRepo: tokenRepo,
		cron:      cron.New(),
	}
}

// Start schedules the daily jobs
func (s *OverdueService) Start() {
	s.cron.AddFunc("30 8 * * *", s.ScanOverdue)
	s.cron.AddFunc("0 3 * * *", s.CleanupExpiredTokens)
	s.cron.Start()
	log.Println("⏰ Overdue scan scheduled daily at 08:30")
}

// Stop stops the scheduler
func (s *OverdueService) Stop() {
	s.cron.Stop()
}

// ScanOverdue logs all overdue loans
func (s *OverdueService) ScanOverdue() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	loans, err := s.loanRepo.ListOverdue(ctx, now)
	if err != nil {
		log.Printf("❌ Overdue scan failed: %v", err)
		return
	}

	if len(loans) == 0 {
		log.Println("✅ Overdue scan: no overdue loans")
		return
	}

	for _, loan := range loans {
		title := ""
		if loan.Book != nil {
			title = loan.Book.Title
		}
		log.Printf("⚠️ Overdue: %s holds book %d (%s), due %s (%d days late)",
			loan.Username,
			loan.BookID,
			title,
			loan.DueDate.Format("2006-01-02"),
			int(now.Sub(loan.DueDate).Hours()/24),
		)
	}
}

// CleanupExpiredTokens purges refresh tokens past their expiry
func (s *OverdueService) CleanupExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.tokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Refresh token cleanup failed: %v", err)
		return
	}
	log.Println("🧹 Expired refresh tokens cleaned up")
}
