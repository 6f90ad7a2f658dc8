package ports

import (
	"context"
	"errors"
)

// IntentStatusPaid is the gateway status for a fully captured intent.
const IntentStatusPaid = "paid"

// ErrIntentNotFound indicates the gateway does not know the reference.
var ErrIntentNotFound = errors.New("payment intent not found")

// PaymentIntent is the gateway-side view of a requested payment.
type PaymentIntent struct {
	ID               string
	AmountMinorUnits int64
	Currency         string
	Receipt          string
	Status           string
}

// Paid reports whether the gateway considers the intent settled.
func (p PaymentIntent) Paid() bool {
	return p.Status == IntentStatusPaid
}

// PaymentGateway abstracts the remote payment processor.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amountMinorUnits int64, currency, receipt string) (*PaymentIntent, error)
	FetchPaymentIntent(ctx context.Context, intentID string) (*PaymentIntent, error)
}
