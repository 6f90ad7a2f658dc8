package memory

import (
	"context"
	"sync"

	"github.com/onecart/storefront-api/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps checkout keys in memory for development and tests.
type IdempotencyStore struct {
	mu      sync.RWMutex
	records map[string]ports.CheckoutKey
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{records: map[string]ports.CheckoutKey{}}
}

func scopedKey(ownerID, key string) string {
	return ownerID + "\x00" + key
}

func (s *IdempotencyStore) Get(_ context.Context, ownerID, key string) (*ports.CheckoutKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[scopedKey(ownerID, key)]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (s *IdempotencyStore) Save(_ context.Context, record ports.CheckoutKey) (*ports.CheckoutKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := scopedKey(record.OwnerID, record.Key)
	if existing, ok := s.records[id]; ok {
		if existing.RequestHash != record.RequestHash || existing.OrderID != record.OrderID {
			return &existing, ports.ErrIdempotencyConflict
		}
		return &existing, nil
	}
	s.records[id] = record
	return &record, nil
}
