package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how an order is settled. It is fixed at creation.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "COD"
	PaymentGateway        PaymentMethod = "Razorpay"
)

// Valid reports whether the method is one of the supported settlement options.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCashOnDelivery || m == PaymentGateway
}

var (
	ErrEmptyOwner           = errors.New("order owner is required")
	ErrEmptyItems           = errors.New("order must contain at least one item")
	ErrInvalidItem          = errors.New("order item requires a product id")
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrInvalidPrice         = errors.New("item price must not be negative")
	ErrNegativeAmount       = errors.New("order amount must not be negative")
	ErrInvalidPaymentMethod = errors.New("payment method is invalid")
	ErrInvalidStatus        = errors.New("order status is invalid")
	ErrDeliveredOrder       = errors.New("delivered orders cannot be cancelled")
	ErrOrderInTransit       = errors.New("order already being shipped")
)

// LineItem is one purchased product variant.
type LineItem struct {
	ProductID string
	Name      string
	Image     string
	Size      string
	Quantity  int
	Price     decimal.Decimal
}

// Address is the delivery address captured at checkout.
type Address struct {
	FirstName string
	LastName  string
	Email     string
	Street    string
	City      string
	State     string
	PinCode   string
	Country   string
	Phone     string
}

// Order models the purchase aggregate and its lifecycle.
type Order struct {
	ID            string
	OwnerID       string
	Items         []LineItem
	Amount        decimal.Decimal
	Address       Address
	PaymentMethod PaymentMethod
	Paid          bool
	Status        Status
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOrder validates and constructs a freshly placed order.
func NewOrder(id, ownerID string, items []LineItem, amount decimal.Decimal, address Address, method PaymentMethod, now time.Time) (*Order, error) {
	order := &Order{
		ID:            id,
		OwnerID:       strings.TrimSpace(ownerID),
		Items:         append([]LineItem(nil), items...),
		Amount:        amount,
		Address:       address,
		PaymentMethod: method,
		Status:        StatusPlaced,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.OwnerID == "" {
		return ErrEmptyOwner
	}
	if len(o.Items) == 0 {
		return ErrEmptyItems
	}
	for _, item := range o.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return ErrInvalidItem
		}
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if item.Price.IsNegative() {
			return ErrInvalidPrice
		}
	}
	if o.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if !o.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// UpdateStatus is the administrative override: any enum member is accepted,
// adjacency is deliberately not checked.
func (o *Order) UpdateStatus(status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	o.Status = status
	return nil
}

// Cancel applies the customer cancellation policy. It reports whether the
// status changed; orders already on the cancel branch are left untouched.
func (o *Order) Cancel() (bool, error) {
	switch {
	case o.Status == StatusDelivered:
		return false, ErrDeliveredOrder
	case o.Status.InTransit():
		return false, ErrOrderInTransit
	case o.Status.CancellationBranch():
		return false, nil
	}
	if o.PaymentMethod == PaymentGateway {
		o.Status = StatusRefundProcessing
	} else {
		o.Status = StatusCancelled
	}
	return true, nil
}

// MarkPaid records a confirmed gateway payment. Repeated calls are harmless.
func (o *Order) MarkPaid() bool {
	if o.Paid {
		return false
	}
	o.Paid = true
	return true
}

// ItemCount sums the quantities across all line items.
func (o *Order) ItemCount() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// MinorUnits converts a major-unit amount into the smallest currency unit
// (paise, cents), rounding half away from zero.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
