package types

import (
	"time"

	"github.com/onecart/storefront-api/internal/domains/users/domain"
)

// RegisterInput captures a password sign-up.
type RegisterInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

// LoginInput carries email/password credentials.
type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// GoogleLoginInput carries the identity asserted by the federated sign-in.
type GoogleLoginInput struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
}

// CartItemInput addresses one product variant in a user's cart.
type CartItemInput struct {
	UserID    string `validate:"required"`
	ProductID string `validate:"required"`
	Size      string `validate:"required"`
	Quantity  int    `validate:"gte=0"`
}

// AuthResult is returned by every login flow. User is nil for the admin login.
type AuthResult struct {
	User      *domain.User
	Role      string
	Token     string
	ExpiresAt time.Time
}
