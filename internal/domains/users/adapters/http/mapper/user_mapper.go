package mapper

import (
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/onecart/storefront-api/internal/domains/users/application/types"
	userdomain "github.com/onecart/storefront-api/internal/domains/users/domain"
)

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Name     string              `json:"name"`
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
}

// LoginRequest is shared by the password and admin sign-in endpoints.
type LoginRequest struct {
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
}

// GoogleLoginRequest carries the federated identity asserted by the client.
type GoogleLoginRequest struct {
	Name  string              `json:"name"`
	Email openapi_types.Email `json:"email"`
}

// CartItemRequest addresses one product variant in the cart.
type CartItemRequest struct {
	ItemID   string `json:"itemId"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// User is the public profile; the password hash never leaves the service.
type User struct {
	ID        string                    `json:"id"`
	Name      string                    `json:"name"`
	Email     string                    `json:"email"`
	Providers []string                  `json:"providers"`
	CartData  map[string]map[string]int `json:"cartData"`
	CreatedAt int64                     `json:"createdAt"`
}

// AuthResponse is returned by every sign-in endpoint.
type AuthResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expiresAt"`
	User      *User  `json:"user,omitempty"`
}

func ToRegisterInput(req RegisterRequest) types.RegisterInput {
	return types.RegisterInput{Name: req.Name, Email: string(req.Email), Password: req.Password}
}

func ToLoginInput(req LoginRequest) types.LoginInput {
	return types.LoginInput{Email: string(req.Email), Password: req.Password}
}

func ToGoogleLoginInput(req GoogleLoginRequest) types.GoogleLoginInput {
	return types.GoogleLoginInput{Name: req.Name, Email: string(req.Email)}
}

// ToCartItemInput binds the cart payload to the signed-in user.
func ToCartItemInput(userID string, req CartItemRequest) types.CartItemInput {
	return types.CartItemInput{UserID: userID, ProductID: req.ItemID, Size: req.Size, Quantity: req.Quantity}
}

// FromDomainUser converts a domain user into its public representation.
func FromDomainUser(user *userdomain.User) *User {
	if user == nil {
		return nil
	}
	providers := make([]string, 0, len(user.Providers))
	for _, p := range user.Providers {
		providers = append(providers, string(p))
	}
	return &User{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Providers: providers,
		CartData:  FromDomainCart(user.Cart),
		CreatedAt: user.CreatedAt.UnixMilli(),
	}
}

// FromDomainCart returns a non-nil copy suitable for JSON encoding.
func FromDomainCart(cart userdomain.Cart) map[string]map[string]int {
	if cart == nil {
		return map[string]map[string]int{}
	}
	return cart.Clone()
}

func FromAuthResult(result *types.AuthResult) AuthResponse {
	if result == nil {
		return AuthResponse{}
	}
	return AuthResponse{
		Token:     result.Token,
		Role:      result.Role,
		ExpiresAt: result.ExpiresAt.UnixMilli(),
		User:      FromDomainUser(result.User),
	}
}
