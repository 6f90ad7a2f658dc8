package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/onecart/storefront-api/internal/domains/orders/application/types"
	"github.com/onecart/storefront-api/internal/domains/orders/domain"
	"github.com/onecart/storefront-api/internal/domains/orders/ports"
)

type checkoutFingerprint struct {
	Method  string             `json:"method"`
	Amount  string             `json:"amount"`
	Items   []fingerprintItem  `json:"items"`
	Address types.AddressInput `json:"address"`
}

type fingerprintItem struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

// FingerprintCheckout hashes the checkout payload, ignoring the idempotency key
// and the order of line items.
func FingerprintCheckout(input types.PlaceOrderInput) (string, error) {
	items := make([]fingerprintItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, fingerprintItem{
			ProductID: strings.TrimSpace(item.ProductID),
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     item.Price.String(),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].ProductID != items[j].ProductID {
			return items[i].ProductID < items[j].ProductID
		}
		return items[i].Size < items[j].Size
	})
	payload, err := json.Marshal(checkoutFingerprint{
		Method:  string(input.Method),
		Amount:  input.Amount.String(),
		Items:   items,
		Address: input.Address,
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// checkoutNamespace seeds the deterministic order ids of keyed checkouts.
var checkoutNamespace = uuid.MustParse("8f14e45f-ceea-467a-9b36-7d2d2b8b1c1e")

// checkoutOrderID derives the order id from the owner and key so that every
// attempt of one keyed checkout races on the same repository row.
func checkoutOrderID(ownerID, key string) string {
	return uuid.NewSHA1(checkoutNamespace, []byte(ownerID+"\x00"+key)).String()
}

// placeOnce stores order, or for a keyed checkout the order a concurrent or
// earlier attempt already stored. The key is claimed before the order is
// written; created reports whether this call wrote it.
func (s *Service) placeOnce(ctx context.Context, input types.PlaceOrderInput, order *domain.Order) (saved *domain.Order, created bool, err error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	if s.idempotency == nil || key == "" {
		saved, err = s.repo.Create(ctx, order)
		if err != nil {
			return nil, false, persistenceError(err)
		}
		return saved, true, nil
	}

	hash, err := FingerprintCheckout(input)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	order.ID = checkoutOrderID(order.OwnerID, key)
	claimed, err := s.idempotency.Save(ctx, ports.CheckoutKey{
		OwnerID:     order.OwnerID,
		Key:         key,
		RequestHash: hash,
		OrderID:     order.ID,
		CreatedAt:   s.now(),
	})
	switch {
	case errors.Is(err, ports.ErrIdempotencyConflict):
		if claimed == nil || claimed.RequestHash != hash {
			return nil, false, fmt.Errorf("%w: %w", ErrIdempotencyConflict, err)
		}
		order.ID = claimed.OrderID
	case err != nil:
		return nil, false, persistenceError(err)
	}

	saved, err = s.repo.Create(ctx, order)
	if err == nil {
		return saved, true, nil
	}
	if !errors.Is(err, ports.ErrAlreadyExists) {
		return nil, false, persistenceError(err)
	}
	saved, err = s.repo.GetByID(ctx, order.ID)
	if err != nil {
		return nil, false, persistenceError(err)
	}
	return saved, false, nil
}
