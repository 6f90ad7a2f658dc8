package ports

import (
	"context"
	"time"
)

// Session is an issued token tracked server side so it can be revoked.
type Session struct {
	Token     string
	UserID    string
	Role      string
	ExpiresAt time.Time
}

// SessionStore abstracts session/token persistence.
type SessionStore interface {
	Save(ctx context.Context, session Session) error
	// Exists reports whether token is stored and not yet expired.
	Exists(ctx context.Context, token string) (bool, error)
	Delete(ctx context.Context, token string) error
}

// NoopSessionStore is a safe default when callers do not need session persistence.
// Every token is reported as live.
var NoopSessionStore SessionStore = noopSessionStore{}

type noopSessionStore struct{}

func (noopSessionStore) Save(context.Context, Session) error          { return nil }
func (noopSessionStore) Exists(context.Context, string) (bool, error) { return true, nil }
func (noopSessionStore) Delete(context.Context, string) error         { return nil }
