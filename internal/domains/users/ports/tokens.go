package ports

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// TokenIssuer mints signed access tokens.
type TokenIssuer interface {
	Issue(subject, role string) (token string, expiresAt time.Time, err error)
}
