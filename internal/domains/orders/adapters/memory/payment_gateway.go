package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/onecart/storefront-api/internal/domains/orders/ports"
)

var _ ports.PaymentGateway = (*PaymentGateway)(nil)

// PaymentGateway is a sandbox gateway for local runs and tests. Intents are
// created unpaid; MarkPaid simulates the customer completing checkout.
type PaymentGateway struct {
	mu      sync.RWMutex
	intents map[string]ports.PaymentIntent
}

func NewPaymentGateway() *PaymentGateway {
	return &PaymentGateway{intents: map[string]ports.PaymentIntent{}}
}

func (g *PaymentGateway) CreatePaymentIntent(_ context.Context, amountMinorUnits int64, currency, receipt string) (*ports.PaymentIntent, error) {
	if amountMinorUnits < 0 {
		return nil, fmt.Errorf("sandbox gateway: negative amount %d", amountMinorUnits)
	}
	intent := ports.PaymentIntent{
		ID:               "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14],
		AmountMinorUnits: amountMinorUnits,
		Currency:         currency,
		Receipt:          receipt,
		Status:           "created",
	}
	g.mu.Lock()
	g.intents[intent.ID] = intent
	g.mu.Unlock()
	return &intent, nil
}

func (g *PaymentGateway) FetchPaymentIntent(_ context.Context, intentID string) (*ports.PaymentIntent, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	intent, ok := g.intents[intentID]
	if !ok {
		return nil, ports.ErrIntentNotFound
	}
	return &intent, nil
}

// MarkPaid flips an intent to the paid status.
func (g *PaymentGateway) MarkPaid(intentID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	intent, ok := g.intents[intentID]
	if !ok {
		return ports.ErrIntentNotFound
	}
	intent.Status = ports.IntentStatusPaid
	g.intents[intentID] = intent
	return nil
}
