package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/onecart/storefront-api/internal/domains/orders/domain"
)

// LineItemInput is the caller-supplied description of a purchased variant.
type LineItemInput struct {
	ProductID string `validate:"required"`
	Name      string
	Image     string
	Size      string
	Quantity  int `validate:"gt=0"`
	Price     decimal.Decimal
}

// AddressInput carries the delivery address as entered at checkout.
type AddressInput struct {
	FirstName string
	LastName  string
	Email     string `validate:"omitempty,email"`
	Street    string
	City      string
	State     string
	PinCode   string
	Country   string
	Phone     string
}

// PlaceOrderInput captures a checkout request. Amount is trusted as given.
type PlaceOrderInput struct {
	OwnerID string          `validate:"required"`
	Items   []LineItemInput `validate:"required,min=1,dive"`
	Amount  decimal.Decimal
	Address AddressInput
	// Method is ignored by PlaceGatewayOrder; empty defaults to cash on delivery.
	Method domain.PaymentMethod
	// IdempotencyKey, when set, makes retries of the same checkout return the first order.
	IdempotencyKey string
}

// GatewayCheckout pairs a freshly placed order with its payment intent.
type GatewayCheckout struct {
	Order  *domain.Order
	Intent IntentView
}

// IntentView is what the client needs to open the provider checkout.
type IntentView struct {
	ID               string
	AmountMinorUnits int64
	Currency         string
	Receipt          string
}

// ConfirmPaymentInput identifies a gateway intent to reconcile.
type ConfirmPaymentInput struct {
	OwnerID          string
	GatewayReference string
}

// PaymentConfirmation reports the reconciled order.
type PaymentConfirmation struct {
	OrderID string
	Paid    bool
	// AlreadyPaid is set when the order had been confirmed by an earlier call.
	AlreadyPaid bool
}

// UpdateStatusInput is the administrative status override.
type UpdateStatusInput struct {
	OrderID string
	Status  string
}

// CancelOrderInput identifies the order to cancel. OwnerID, when set, must match.
type CancelOrderInput struct {
	OrderID string
	OwnerID string
}

// UnpaidOrdersQuery selects gateway orders left unpaid for longer than OlderThan.
type UnpaidOrdersQuery struct {
	OlderThan time.Duration
}
