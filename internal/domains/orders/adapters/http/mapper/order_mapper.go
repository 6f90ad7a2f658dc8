package mapper

import (
	"github.com/shopspring/decimal"

	"github.com/onecart/storefront-api/internal/domains/orders/application/types"
	"github.com/onecart/storefront-api/internal/domains/orders/domain"
)

// LineItem is the wire shape of an order item.
type LineItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name,omitempty"`
	Image     string  `json:"image,omitempty"`
	Size      string  `json:"size,omitempty"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Address is the wire shape of the delivery address.
type Address struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Street    string `json:"street,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	PinCode   string `json:"pinCode,omitempty"`
	Country   string `json:"country,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Order is the wire shape returned to storefront and admin clients.
type Order struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Items         []LineItem `json:"items"`
	Amount        float64    `json:"amount"`
	Address       Address    `json:"address"`
	PaymentMethod string     `json:"paymentMethod"`
	Payment       bool       `json:"payment"`
	Status        string     `json:"status"`
	NextStatuses  []string   `json:"nextStatuses"`
	Date          int64      `json:"date"`
	Version       int64      `json:"version"`
}

// PlaceOrderRequest is the checkout payload shared by the cash and gateway flows.
type PlaceOrderRequest struct {
	Items   []LineItem `json:"items"`
	Amount  float64    `json:"amount"`
	Address Address    `json:"address"`
}

// ToPlaceOrderInput converts a checkout payload into the application input.
func ToPlaceOrderInput(ownerID string, req PlaceOrderRequest) types.PlaceOrderInput {
	items := make([]types.LineItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, types.LineItemInput{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     decimal.NewFromFloat(item.Price),
		})
	}
	return types.PlaceOrderInput{
		OwnerID: ownerID,
		Items:   items,
		Amount:  decimal.NewFromFloat(req.Amount),
		Address: types.AddressInput(req.Address),
	}
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *domain.Order) Order {
	if order == nil {
		return Order{}
	}
	items := make([]LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     item.Price.InexactFloat64(),
		})
	}
	next := order.Status.AllowedTransitions()
	nextStatuses := make([]string, 0, len(next))
	for _, status := range next {
		nextStatuses = append(nextStatuses, string(status))
	}
	return Order{
		ID:            order.ID,
		UserID:        order.OwnerID,
		Items:         items,
		Amount:        order.Amount.InexactFloat64(),
		Address:       Address(order.Address),
		PaymentMethod: string(order.PaymentMethod),
		Payment:       order.Paid,
		Status:        string(order.Status),
		NextStatuses:  nextStatuses,
		Date:          order.CreatedAt.UnixMilli(),
		Version:       order.Version,
	}
}

// FromDomainOrders converts a list of domain orders.
func FromDomainOrders(orders []*domain.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, FromDomainOrder(order))
	}
	return result
}

// VerifyPaymentRequest carries the provider order id returned by checkout.
type VerifyPaymentRequest struct {
	RazorpayOrderID string `json:"razorpay_order_id"`
}

// CancelOrderRequest identifies the order a customer wants to cancel.
type CancelOrderRequest struct {
	OrderID string `json:"orderId"`
}

// UpdateStatusRequest is the admin status override payload.
type UpdateStatusRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// Checkout is returned by the gateway checkout endpoint.
type Checkout struct {
	Order  Order  `json:"order"`
	Intent Intent `json:"intent"`
}

// Intent is what the client passes to the provider checkout widget.
type Intent struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// PaymentResult reports the outcome of a payment confirmation.
type PaymentResult struct {
	OrderID     string `json:"orderId"`
	Paid        bool   `json:"paid"`
	AlreadyPaid bool   `json:"alreadyPaid,omitempty"`
}

// ToConfirmPaymentInput binds the verification payload to the signed-in owner.
func ToConfirmPaymentInput(ownerID string, req VerifyPaymentRequest) types.ConfirmPaymentInput {
	return types.ConfirmPaymentInput{OwnerID: ownerID, GatewayReference: req.RazorpayOrderID}
}

// FromGatewayCheckout converts a placed gateway order and its intent.
func FromGatewayCheckout(checkout *types.GatewayCheckout) Checkout {
	if checkout == nil {
		return Checkout{}
	}
	return Checkout{
		Order: FromDomainOrder(checkout.Order),
		Intent: Intent{
			ID:       checkout.Intent.ID,
			Amount:   checkout.Intent.AmountMinorUnits,
			Currency: checkout.Intent.Currency,
			Receipt:  checkout.Intent.Receipt,
		},
	}
}

func FromPaymentConfirmation(result *types.PaymentConfirmation) PaymentResult {
	if result == nil {
		return PaymentResult{}
	}
	return PaymentResult{OrderID: result.OrderID, Paid: result.Paid, AlreadyPaid: result.AlreadyPaid}
}
