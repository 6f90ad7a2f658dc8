package memory

import (
	"context"
	"sync"
	"time"

	"github.com/onecart/storefront-api/internal/domains/users/ports"
)

// SessionStore is an in-memory SessionStore implementation keyed by token.
type SessionStore struct {
	sessions sync.Map
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, session ports.Session) error {
	s.sessions.Store(session.Token, session)
	return nil
}

func (s *SessionStore) Exists(_ context.Context, token string) (bool, error) {
	value, ok := s.sessions.Load(token)
	if !ok {
		return false, nil
	}
	session := value.(ports.Session)
	if !session.ExpiresAt.After(s.now()) {
		s.sessions.Delete(token)
		return false, nil
	}
	return true, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.sessions.Delete(token)
	return nil
}

// PurgeExpired drops every expired session.
func (s *SessionStore) PurgeExpired(_ context.Context) (int64, error) {
	var purged int64
	now := s.now()
	s.sessions.Range(func(key, value any) bool {
		if !value.(ports.Session).ExpiresAt.After(now) {
			s.sessions.Delete(key)
			purged++
		}
		return true
	})
	return purged, nil
}

var _ ports.SessionStore = (*SessionStore)(nil)
