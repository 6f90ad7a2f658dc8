package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/onecart/storefront-api/internal/domains/users/application/types"
	"github.com/onecart/storefront-api/internal/domains/users/domain"
	"github.com/onecart/storefront-api/internal/domains/users/ports"
)

// Service exposes user bounded context use cases.
type Service struct {
	repo       ports.Repository
	sessions   ports.SessionStore
	tokens     ports.TokenIssuer
	validate   *validator.Validate
	adminEmail string
	adminPass  string
	now        func() time.Time
	newID      func() string
}

// Option customises the service.
type Option func(*Service)

// WithAdminCredentials enables the admin login for the given pair.
func WithAdminCredentials(email, password string) Option {
	return func(s *Service) {
		s.adminEmail = domain.NormalizeEmail(email)
		s.adminPass = password
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides user id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewService(repo ports.Repository, sessions ports.SessionStore, tokens ports.TokenIssuer, opts ...Option) *Service {
	if sessions == nil {
		sessions = ports.NoopSessionStore
	}
	s := &Service{
		repo:     repo,
		sessions: sessions,
		tokens:   tokens,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a password account and signs it in.
func (s *Service) Register(ctx context.Context, input types.RegisterInput) (*types.AuthResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, mapError(err)
	}
	if _, err := s.repo.GetByEmail(ctx, input.Email); err == nil {
		return nil, fmt.Errorf("%w: %w", ErrConflict, ports.ErrDuplicateEmail)
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, persistenceError(err)
	}
	user, err := domain.NewUser(s.newID(), input.Name, input.Email, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, persistenceError(err)
	}
	return s.signIn(ctx, saved)
}

// Login checks email/password credentials.
func (s *Service) Login(ctx context.Context, input types.LoginInput) (*types.AuthResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, mapError(err)
	}
	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, persistenceError(err)
	}
	if !user.CheckPassword(input.Password) {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, ports.ErrInvalidCredentials)
	}
	return s.signIn(ctx, user)
}

// GoogleLogin signs in the federated identity, creating the account on first use.
func (s *Service) GoogleLogin(ctx context.Context, input types.GoogleLoginInput) (*types.AuthResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, mapError(err)
	}
	user, err := s.repo.GetByEmail(ctx, input.Email)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		user, err = domain.NewUser(s.newID(), input.Name, input.Email, s.now())
		if err != nil {
			return nil, mapError(err)
		}
		user.LinkProvider(domain.ProviderGoogle)
		if user, err = s.repo.Create(ctx, user); err != nil {
			return nil, persistenceError(err)
		}
	case err != nil:
		return nil, persistenceError(err)
	default:
		if user.LinkProvider(domain.ProviderGoogle) {
			user.UpdatedAt = s.now()
			if user, err = s.repo.Update(ctx, user); err != nil {
				return nil, persistenceError(err)
			}
		}
	}
	return s.signIn(ctx, user)
}

// AdminLogin compares the credentials against the configured admin pair.
func (s *Service) AdminLogin(ctx context.Context, input types.LoginInput) (*types.AuthResult, error) {
	if s.adminEmail == "" || s.adminPass == "" {
		return nil, fmt.Errorf("%w: admin login disabled", ErrAuthentication)
	}
	emailOK := subtle.ConstantTimeCompare([]byte(domain.NormalizeEmail(input.Email)), []byte(s.adminEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(input.Password), []byte(s.adminPass)) == 1
	if !emailOK || !passOK {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, ports.ErrInvalidCredentials)
	}
	return s.issue(ctx, nil, s.adminEmail, ports.RoleAdmin)
}

// Logout revokes the session bound to token.
func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return persistenceError(err)
	}
	return nil
}

// GetCurrentUser loads the profile of the signed-in user.
func (s *Service) GetCurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, persistenceError(err)
	}
	return user, nil
}

// AddToCart increments one product variant.
func (s *Service) AddToCart(ctx context.Context, input types.CartItemInput) (domain.Cart, error) {
	return s.mutateCart(ctx, input, func(cart domain.Cart) error {
		return cart.Add(input.ProductID, input.Size)
	})
}

// UpdateCart sets the quantity of one product variant; zero removes it.
func (s *Service) UpdateCart(ctx context.Context, input types.CartItemInput) (domain.Cart, error) {
	return s.mutateCart(ctx, input, func(cart domain.Cart) error {
		return cart.Set(input.ProductID, input.Size, input.Quantity)
	})
}

// GetCart returns the user's cart.
func (s *Service) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, persistenceError(err)
	}
	if user.Cart == nil {
		return domain.Cart{}, nil
	}
	return user.Cart, nil
}

// ClearCart empties the user's cart.
func (s *Service) ClearCart(ctx context.Context, userID string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return persistenceError(err)
	}
	if len(user.Cart) == 0 {
		return nil
	}
	user.Cart = domain.Cart{}
	user.UpdatedAt = s.now()
	if _, err := s.repo.Update(ctx, user); err != nil {
		return persistenceError(err)
	}
	return nil
}

func (s *Service) mutateCart(ctx context.Context, input types.CartItemInput, apply func(domain.Cart) error) (domain.Cart, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, mapError(err)
	}
	user, err := s.repo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, persistenceError(err)
	}
	if user.Cart == nil {
		user.Cart = domain.Cart{}
	}
	if err := apply(user.Cart); err != nil {
		return nil, mapError(err)
	}
	user.UpdatedAt = s.now()
	saved, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, persistenceError(err)
	}
	return saved.Cart, nil
}

func (s *Service) signIn(ctx context.Context, user *domain.User) (*types.AuthResult, error) {
	return s.issue(ctx, user, user.ID, ports.RoleUser)
}

func (s *Service) issue(ctx context.Context, user *domain.User, subject, role string) (*types.AuthResult, error) {
	if s.tokens == nil {
		return nil, errors.New("token issuer not configured")
	}
	token, expiresAt, err := s.tokens.Issue(subject, role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	session := ports.Session{Token: token, UserID: subject, Role: role, ExpiresAt: expiresAt}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, persistenceError(err)
	}
	return &types.AuthResult{User: user, Role: role, Token: token, ExpiresAt: expiresAt}, nil
}

var _ ports.Service = (*Service)(nil)
