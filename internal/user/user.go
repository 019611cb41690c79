package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("user already exists")
	ErrMissingFields      = errors.New("all fields are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidGoogleToken = errors.New("invalid google token")
	ErrNoGoogleEmail      = errors.New("unable to retrieve google user email")
)

// User is an account holder.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile holds the optional contact details shown on the profile page.
type Profile struct {
	UserID    int64
	Phone     string
	Company   string
	Bio       string
	PhotoURL  string
	UpdatedAt *time.Time
}

// Account is a user together with its profile.
type Account struct {
	User    *User
	Profile *Profile
}
