package domain

import "errors"

// Common domain errors
var (
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("token invalid")
	ErrStoreUnavailable = errors.New("store unavailable, retry later")
)

// Lending errors
var (
	ErrBookNotFound    = errors.New("book not found")
	ErrBookUnavailable = errors.New("book is not available")
	ErrAlreadyBorrowed = errors.New("book already borrowed by this member")
	ErrLoanNotFound    = errors.New("no active loan for this book")
	ErrBookOnLoan      = errors.New("book is currently on loan")
)

// Identity errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("username, email, or phone already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
