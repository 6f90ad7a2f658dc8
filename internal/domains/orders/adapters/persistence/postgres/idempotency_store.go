package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/onecart/storefront-api/internal/domains/orders/ports"
)

const uniqueViolation = "23505"

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore persists checkout keys in PostgreSQL.
type IdempotencyStore struct {
	db *gorm.DB
}

func NewIdempotencyStore(db *gorm.DB) *IdempotencyStore {
	return &IdempotencyStore{db: db}
}

type checkoutKeyRecord struct {
	OwnerID     string    `gorm:"primaryKey;column:owner_id;type:varchar(36)"`
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;type:varchar(36)"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (checkoutKeyRecord) TableName() string { return "order_idempotency_keys" }

// Get loads a key, returning nil when absent.
func (s *IdempotencyStore) Get(ctx context.Context, ownerID, key string) (*ports.CheckoutKey, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record checkoutKeyRecord
	err := s.db.WithContext(ctx).First(&record, "owner_id = ? AND key = ?", ownerID, key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record.toPort(), nil
}

// Save inserts the key; a concurrent insert of the same key is resolved against the stored row.
func (s *IdempotencyStore) Save(ctx context.Context, record ports.CheckoutKey) (*ports.CheckoutKey, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	row := checkoutKeyRecord(record)
	err := s.db.WithContext(ctx).Create(&row).Error
	if err == nil {
		return row.toPort(), nil
	}
	if !isUniqueViolation(err) {
		return nil, err
	}
	existing, getErr := s.Get(ctx, record.OwnerID, record.Key)
	if getErr != nil {
		return nil, getErr
	}
	if existing == nil {
		return nil, err
	}
	if existing.RequestHash != record.RequestHash || existing.OrderID != record.OrderID {
		return existing, ports.ErrIdempotencyConflict
	}
	return existing, nil
}

func (s *IdempotencyStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres idempotency store not configured")
	}
	return nil
}

func (r checkoutKeyRecord) toPort() *ports.CheckoutKey {
	key := ports.CheckoutKey(r)
	return &key
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
