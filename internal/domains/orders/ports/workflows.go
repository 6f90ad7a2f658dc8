package ports

import (
	"context"

	"github.com/onecart/storefront-api/internal/domains/orders/application/types"
)

// PaymentWorkflows runs payment confirmation either inline or durably.
type PaymentWorkflows interface {
	ConfirmPayment(ctx context.Context, input types.ConfirmPaymentInput) (*types.PaymentConfirmation, error)
}
