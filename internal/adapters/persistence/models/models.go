package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Catalog
// ============================================================

// Book represents books table
type Book struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"size:200;not null" json:"title"`
	Author    string         `gorm:"size:200;not null" json:"author"`
	Genre     string         `gorm:"size:100;not null" json:"genre"`
	Type      string         `gorm:"size:50;not null" json:"type"`
	// Writers set this explicitly. A gorm column default would override
	// a zero-value false on insert.
	Available bool           `gorm:"not null" json:"available"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Book) TableName() string {
	return "books"
}

// ============================================================
// Members
// ============================================================

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone     string         `gorm:"uniqueIndex;size:10;not null" json:"phone"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	IsAdmin   bool           `gorm:"default:false" json:"is_admin"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Lending Ledger
// ============================================================

// Loan represents loans table (active borrows).
// At most one loan may exist per (username, book) pair; the row is
// deleted when the book comes back.
type Loan struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:50;not null;uniqueIndex:idx_loans_member_book" json:"username"`
	BookID    uint      `gorm:"not null;uniqueIndex:idx_loans_member_book;index" json:"book_id"`
	DueDate   time.Time `gorm:"not null" json:"due_date"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Book *Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

func (l *Loan) IsOverdue(now time.Time) bool {
	return now.After(l.DueDate)
}

// LoanResponse DTO
type LoanResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	BookID    uint      `json:"book_id"`
	BookTitle string    `json:"book_title,omitempty"`
	DueDate   time.Time `json:"due_date"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *Loan) ToResponse() *LoanResponse {
	resp := &LoanResponse{
		ID:        l.ID,
		Username:  l.Username,
		BookID:    l.BookID,
		DueDate:   l.DueDate,
		CreatedAt: l.CreatedAt,
	}
	if l.Book != nil {
		resp.BookTitle = l.Book.Title
	}
	return resp
}

// ReturnRecord represents returns table (completed returns).
// Append-only history: rows are never updated or deleted.
type ReturnRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:50;not null;index" json:"username"`
	BookID    uint      `gorm:"not null;index" json:"book_id"`
	DueDate   time.Time `gorm:"not null" json:"due_date"`
	Fine      int64     `gorm:"not null" json:"fine"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Book *Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

func (ReturnRecord) TableName() string {
	return "returns"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Book{},
		&Loan{},
		&ReturnRecord{},
	)
}
