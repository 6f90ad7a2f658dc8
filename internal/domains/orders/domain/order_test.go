package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []LineItem {
	return []LineItem{
		{ProductID: "p-1", Name: "Shirt", Size: "M", Quantity: 1, Price: decimal.NewFromInt(200)},
		{ProductID: "p-2", Name: "Jeans", Size: "32", Quantity: 1, Price: decimal.NewFromInt(300)},
	}
}

func newTestOrder(t *testing.T, method PaymentMethod) *Order {
	t.Helper()
	order, err := NewOrder("o-1", "u-1", sampleItems(), decimal.NewFromInt(500), Address{City: "Pune"}, method, time.Now())
	require.NoError(t, err)
	return order
}

func TestNewOrder_Defaults(t *testing.T) {
	order := newTestOrder(t, PaymentCashOnDelivery)

	assert.Equal(t, StatusPlaced, order.Status)
	assert.False(t, order.Paid)
	assert.Equal(t, int64(1), order.Version)
	assert.Equal(t, 2, order.ItemCount())
}

func TestNewOrder_Validation(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name    string
		owner   string
		items   []LineItem
		amount  decimal.Decimal
		method  PaymentMethod
		wantErr error
	}{
		{"empty items", "u-1", nil, decimal.NewFromInt(1), PaymentCashOnDelivery, ErrEmptyItems},
		{"missing owner", " ", sampleItems(), decimal.NewFromInt(1), PaymentCashOnDelivery, ErrEmptyOwner},
		{"zero quantity", "u-1", []LineItem{{ProductID: "p", Quantity: 0}}, decimal.NewFromInt(1), PaymentCashOnDelivery, ErrInvalidQuantity},
		{"missing product", "u-1", []LineItem{{Quantity: 1}}, decimal.NewFromInt(1), PaymentCashOnDelivery, ErrInvalidItem},
		{"negative amount", "u-1", sampleItems(), decimal.NewFromInt(-1), PaymentCashOnDelivery, ErrNegativeAmount},
		{"unknown method", "u-1", sampleItems(), decimal.NewFromInt(1), PaymentMethod("Bitcoin"), ErrInvalidPaymentMethod},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOrder("o", tc.owner, tc.items, tc.amount, Address{}, tc.method, now)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUpdateStatus_RejectsUnknownValues(t *testing.T) {
	order := newTestOrder(t, PaymentCashOnDelivery)

	for _, raw := range []string{"", "shipped", "Lost", "ORDER PLACED"} {
		err := order.UpdateStatus(Status(raw))
		require.ErrorIs(t, err, ErrInvalidStatus, raw)
		assert.Equal(t, StatusPlaced, order.Status)
	}
}

func TestUpdateStatus_AllowsAnyMember(t *testing.T) {
	order := newTestOrder(t, PaymentCashOnDelivery)

	require.NoError(t, order.UpdateStatus(StatusDelivered))
	require.NoError(t, order.UpdateStatus(StatusPlaced))
	assert.Equal(t, StatusPlaced, order.Status)
}

func TestCancel_Policy(t *testing.T) {
	cases := []struct {
		name        string
		from        Status
		method      PaymentMethod
		wantStatus  Status
		wantChanged bool
		wantErr     error
	}{
		{"placed cash", StatusPlaced, PaymentCashOnDelivery, StatusCancelled, true, nil},
		{"placed gateway", StatusPlaced, PaymentGateway, StatusRefundProcessing, true, nil},
		{"delivered", StatusDelivered, PaymentCashOnDelivery, StatusDelivered, false, ErrDeliveredOrder},
		{"shipped", StatusShipped, PaymentGateway, StatusShipped, false, ErrOrderInTransit},
		{"out for delivery", StatusOutForDelivery, PaymentCashOnDelivery, StatusOutForDelivery, false, ErrOrderInTransit},
		{"already cancelled", StatusCancelled, PaymentCashOnDelivery, StatusCancelled, false, nil},
		{"already refunded", StatusRefunded, PaymentGateway, StatusRefunded, false, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := newTestOrder(t, tc.method)
			order.Status = tc.from

			changed, err := order.Cancel()
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.wantChanged, changed)
			assert.Equal(t, tc.wantStatus, order.Status)
		})
	}
}

func TestMarkPaid_Idempotent(t *testing.T) {
	order := newTestOrder(t, PaymentGateway)

	assert.True(t, order.MarkPaid())
	assert.False(t, order.MarkPaid())
	assert.True(t, order.Paid)
}

func TestStatusTable(t *testing.T) {
	assert.True(t, StatusPlaced.CanTransition(StatusShipped))
	assert.False(t, StatusPlaced.CanTransition(StatusDelivered))
	assert.True(t, StatusRefundProcessing.CanTransition(StatusRefunded))
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusRefunded.Terminal())
	assert.False(t, StatusRefundProcessing.Terminal())
	assert.Empty(t, StatusDelivered.AllowedTransitions())

	for _, status := range Statuses {
		parsed, err := ParseStatus(string(status))
		require.NoError(t, err)
		assert.Equal(t, status, parsed)
	}
	_, err := ParseStatus("Teleported")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseStatus_RequiresExactMatch(t *testing.T) {
	for _, raw := range []string{" Shipped ", "Shipped\n", "shipped", "SHIPPED", ""} {
		_, err := ParseStatus(raw)
		require.ErrorIs(t, err, ErrInvalidStatus, "status %q", raw)
	}
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(50000), MinorUnits(decimal.NewFromInt(500)))
	assert.Equal(t, int64(1999), MinorUnits(decimal.RequireFromString("19.99")))
	assert.Equal(t, int64(1000), MinorUnits(decimal.RequireFromString("9.995")))
}
