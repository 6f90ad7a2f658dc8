// Package auth issues signed access tokens and guards gin routes with them.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	userports "github.com/onecart/storefront-api/internal/domains/users/ports"
)

const (
	// DefaultUserTTL bounds customer sessions.
	DefaultUserTTL = 7 * 24 * time.Hour
	// DefaultAdminTTL bounds admin sessions.
	DefaultAdminTTL = 24 * time.Hour
)

var (
	ErrMissingSecret = errors.New("jwt secret is required")
	ErrInvalidToken  = errors.New("invalid or expired token")
)

// Claims is the JWT payload carried by every access token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens.
type Issuer struct {
	secret   []byte
	userTTL  time.Duration
	adminTTL time.Duration
	now      func() time.Time
}

type IssuerOption func(*Issuer)

// WithTTL overrides the customer and admin token lifetimes. Non-positive values keep the defaults.
func WithTTL(user, admin time.Duration) IssuerOption {
	return func(i *Issuer) {
		if user > 0 {
			i.userTTL = user
		}
		if admin > 0 {
			i.adminTTL = admin
		}
	}
}

// WithIssuerClock overrides the time source.
func WithIssuerClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

func NewIssuer(secret string, opts ...IssuerOption) (*Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	i := &Issuer{
		secret:   []byte(secret),
		userTTL:  DefaultUserTTL,
		adminTTL: DefaultAdminTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue mints a token for subject. Each token carries a random id so two
// sign-ins in the same second still yield distinct sessions.
func (i *Issuer) Issue(subject, role string) (string, time.Time, error) {
	now := i.now()
	ttl := i.userTTL
	if role == userports.RoleAdmin {
		ttl = i.adminTTL
	}
	expiresAt := now.Add(ttl)
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies signature and expiry and returns the claims.
func (i *Issuer) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

var _ userports.TokenIssuer = (*Issuer)(nil)
