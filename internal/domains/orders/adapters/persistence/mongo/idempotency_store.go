package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/onecart/storefront-api/internal/domains/orders/ports"
)

// IdempotencyCollection holds checkout keys.
const IdempotencyCollection = "order_idempotency_keys"

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore persists checkout keys as MongoDB documents keyed by owner and key.
type IdempotencyStore struct {
	coll *mongo.Collection
}

func NewIdempotencyStore(db *mongo.Database) *IdempotencyStore {
	if db == nil {
		return &IdempotencyStore{}
	}
	return &IdempotencyStore{coll: db.Collection(IdempotencyCollection)}
}

type checkoutKeyID struct {
	OwnerID string `bson:"ownerId"`
	Key     string `bson:"key"`
}

type checkoutKeyDocument struct {
	ID          checkoutKeyID `bson:"_id"`
	RequestHash string        `bson:"requestHash"`
	OrderID     string        `bson:"orderId"`
	CreatedAt   time.Time     `bson:"createdAt"`
}

func (s *IdempotencyStore) Get(ctx context.Context, ownerID, key string) (*ports.CheckoutKey, error) {
	if s == nil || s.coll == nil {
		return nil, errors.New("mongo idempotency store not configured")
	}
	var doc checkoutKeyDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": checkoutKeyID{OwnerID: ownerID, Key: key}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toPort(), nil
}

func (s *IdempotencyStore) Save(ctx context.Context, record ports.CheckoutKey) (*ports.CheckoutKey, error) {
	if s == nil || s.coll == nil {
		return nil, errors.New("mongo idempotency store not configured")
	}
	doc := checkoutKeyDocument{
		ID:          checkoutKeyID{OwnerID: record.OwnerID, Key: record.Key},
		RequestHash: record.RequestHash,
		OrderID:     record.OrderID,
		CreatedAt:   record.CreatedAt.UTC(),
	}
	_, err := s.coll.InsertOne(ctx, doc)
	if err == nil {
		return doc.toPort(), nil
	}
	if !mongo.IsDuplicateKeyError(err) {
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

func (d checkoutKeyDocument) toPort() *ports.CheckoutKey {
	return &ports.CheckoutKey{
		OwnerID:     d.ID.OwnerID,
		Key:         d.ID.Key,
		RequestHash: d.RequestHash,
		OrderID:     d.OrderID,
		CreatedAt:   d.CreatedAt,
	}
}
