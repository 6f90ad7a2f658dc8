package ports

import (
	"context"

	"github.com/onecart/storefront-api/internal/domains/users/application/types"
	"github.com/onecart/storefront-api/internal/domains/users/domain"
)

// Service exposes user, auth and cart use cases to adapters.
type Service interface {
	Register(ctx context.Context, input types.RegisterInput) (*types.AuthResult, error)
	Login(ctx context.Context, input types.LoginInput) (*types.AuthResult, error)
	GoogleLogin(ctx context.Context, input types.GoogleLoginInput) (*types.AuthResult, error)
	AdminLogin(ctx context.Context, input types.LoginInput) (*types.AuthResult, error)
	Logout(ctx context.Context, token string) error
	GetCurrentUser(ctx context.Context, userID string) (*domain.User, error)
	AddToCart(ctx context.Context, input types.CartItemInput) (domain.Cart, error)
	UpdateCart(ctx context.Context, input types.CartItemInput) (domain.Cart, error)
	GetCart(ctx context.Context, userID string) (domain.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}
