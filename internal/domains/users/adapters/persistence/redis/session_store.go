package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/onecart/storefront-api/internal/domains/users/ports"
)

const keyPrefix = "session:"

// SessionStore keeps sessions in Redis and lets key expiry enforce the TTL.
type SessionStore struct {
	client *goredis.Client
	now    func() time.Time
}

// NewSessionStore wires a Redis-backed session store. Caller owns the client.
func NewSessionStore(client *goredis.Client) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

type sessionData struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

func key(token string) string {
	return keyPrefix + strings.TrimSpace(token)
}

// Save stores the session until it expires. Already expired sessions are dropped.
func (s *SessionStore) Save(ctx context.Context, session ports.Session) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	if strings.TrimSpace(session.Token) == "" || session.UserID == "" {
		return errors.New("token and user id are required")
	}
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(sessionData{UserID: session.UserID, Role: session.Role, ExpiresAt: session.ExpiresAt})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, key(session.Token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Exists reports whether the session key is still present.
func (s *SessionStore) Exists(ctx context.Context, token string) (bool, error) {
	if err := s.ensureClient(); err != nil {
		return false, err
	}
	n, err := s.client.Exists(ctx, key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("lookup session: %w", err)
	}
	return n > 0, nil
}

// Delete removes the session key.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	if strings.TrimSpace(token) == "" {
		return nil
	}
	if err := s.client.Del(ctx, key(token)).Err(); err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpired is a no-op: Redis evicts expired keys itself.
func (s *SessionStore) PurgeExpired(context.Context) (int64, error) {
	return 0, nil
}

func (s *SessionStore) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("redis session store not configured")
	}
	return nil
}

var _ ports.SessionStore = (*SessionStore)(nil)
