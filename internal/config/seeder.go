package config

import (
	"log"

	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}
	if err := s.seedBooks(); err != nil {
		log.Printf("⚠️ Book seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds default admin user.
// Development/testing only; in production create the admin account
// through a secure process.
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("is_admin = ?", true).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     "Administrator",
		Username: "admin",
		Email:    "admin@shelfwise.io",
		Phone:    "0000000000",
		Password: hashedPassword,
		IsAdmin:  true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Println("🌱 Seeded default admin user")
	return nil
}

// seedBooks seeds a starter catalog when the books table is empty
func (s *Seeder) seedBooks() error {
	var count int64
	s.db.Model(&models.Book{}).Count(&count)
	if count > 0 {
		return nil
	}

	books := []models.Book{
		{Title: "The Go Programming Language", Author: "Donovan & Kernighan", Genre: "Technology", Type: "Paperback", Available: true},
		{Title: "A Wizard of Earthsea", Author: "Ursula K. Le Guin", Genre: "Fantasy", Type: "Hardcover", Available: true},
		{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Genre: "Science Fiction", Type: "Paperback", Available: true},
		{Title: "Thinking, Fast and Slow", Author: "Daniel Kahneman", Genre: "Psychology", Type: "Paperback", Available: true},
	}

	if err := s.db.Create(&books).Error; err != nil {
		return err
	}

	log.Printf("🌱 Seeded %d catalog books", len(books))
	return nil
}
