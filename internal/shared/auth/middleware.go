package auth

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	userports "github.com/onecart/storefront-api/internal/domains/users/ports"
	apierrors "github.com/onecart/storefront-api/internal/shared/errors"
)

// CookieName is the httpOnly cookie carrying the access token.
const CookieName = "token"

const (
	ctxUserID = "auth.user_id"
	ctxRole   = "auth.role"
	ctxToken  = "auth.token"
)

// TokenParser verifies raw tokens.
type TokenParser interface {
	Parse(token string) (*Claims, error)
}

// Middleware authenticates requests from the token cookie or a Bearer header
// and rejects tokens that are no longer in the session store.
func Middleware(parser TokenParser, sessions userports.SessionStore, logger *slog.Logger) gin.HandlerFunc {
	if sessions == nil {
		sessions = userports.NoopSessionStore
	}
	return func(c *gin.Context) {
		raw := TokenFromRequest(c)
		if raw == "" {
			abort(c, apierrors.ErrUnauthorized.WithDetail("not authorized, login again"))
			return
		}
		claims, err := parser.Parse(raw)
		if err != nil {
			abort(c, apierrors.ErrUnauthorized.WithDetail("invalid or expired token"))
			return
		}
		live, err := sessions.Exists(c.Request.Context(), raw)
		if err != nil {
			if logger != nil {
				logger.ErrorContext(c.Request.Context(), "session lookup failed", slog.String("error", err.Error()))
			}
			abort(c, apierrors.ErrInternal.WithDetail("session lookup failed"))
			return
		}
		if !live {
			abort(c, apierrors.ErrUnauthorized.WithDetail("session revoked, login again"))
			return
		}
		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxToken, raw)
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role differs from role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) != role {
			abort(c, apierrors.ErrForbidden.WithDetail("insufficient role"))
			return
		}
		c.Next()
	}
}

// TokenFromRequest returns the cookie token, falling back to the Authorization header.
func TokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// UserID returns the authenticated subject.
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// Role returns the authenticated role.
func Role(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// Token returns the raw token the request was authenticated with.
func Token(c *gin.Context) string {
	return c.GetString(ctxToken)
}

func abort(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
	c.Abort()
}
