package domain

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyName     = errors.New("name is required")
	ErrInvalidEmail  = errors.New("email is invalid")
	ErrEmptyPassword = errors.New("password is required")
	ErrWeakPassword  = errors.New("password must be at least 8 characters")
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// PasswordCost is the bcrypt work factor for stored hashes.
const PasswordCost = 10

// Provider names a way the user can authenticate.
type Provider string

const (
	ProviderPassword Provider = "password"
	ProviderGoogle   Provider = "google"
)

// User is a storefront customer account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Providers    []Provider
	Cart         Cart
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser builds a user ensuring required invariants. The email is lower-cased.
func NewUser(id, name, email string, now time.Time) (*User, error) {
	user := &User{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Cart:      Cart{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// NormalizeEmail trims and lower-cases an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword hashes and stores a new password and enables password login.
func (u *User) SetPassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return ErrEmptyPassword
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.LinkProvider(ProviderPassword)
	return nil
}

// CheckPassword compares the supplied password with the stored hash.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// LinkProvider records an additional login provider. It reports whether the set changed.
func (u *User) LinkProvider(p Provider) bool {
	if u.HasProvider(p) {
		return false
	}
	u.Providers = append(u.Providers, p)
	return true
}

func (u *User) HasProvider(p Provider) bool {
	for _, existing := range u.Providers {
		if existing == p {
			return true
		}
	}
	return false
}

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	at := strings.LastIndex(u.Email, "@")
	if at <= 0 || at == len(u.Email)-1 {
		return ErrInvalidEmail
	}
	return nil
}
