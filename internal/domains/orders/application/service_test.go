package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onecart/storefront-api/internal/domains/orders/application/types"
	"github.com/onecart/storefront-api/internal/domains/orders/domain"
	"github.com/onecart/storefront-api/internal/domains/orders/ports"
)

type fakeOrderRepo struct {
	mu      sync.Mutex
	orders  map[string]*domain.Order
	updates int
	failOn  string
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*domain.Order{}}
}

func cloneOrder(o *domain.Order) *domain.Order {
	copy := *o
	copy.Items = append([]domain.LineItem(nil), o.Items...)
	return &copy
}

func (f *fakeOrderRepo) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "create" {
		return nil, errors.New("connection refused")
	}
	if _, ok := f.orders[order.ID]; ok {
		return nil, ports.ErrAlreadyExists
	}
	f.orders[order.ID] = cloneOrder(order)
	return cloneOrder(order), nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[id]; ok {
		return cloneOrder(o), nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeOrderRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*domain.Order
	for _, o := range f.orders {
		if o.OwnerID == ownerID {
			list = append(list, cloneOrder(o))
		}
	}
	return list, nil
}

func (f *fakeOrderRepo) List(_ context.Context) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*domain.Order
	for _, o := range f.orders {
		list = append(list, cloneOrder(o))
	}
	return list, nil
}

func (f *fakeOrderRepo) Update(_ context.Context, order *domain.Order) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.orders[order.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if stored.Version != order.Version {
		return nil, ports.ErrVersionConflict
	}
	next := cloneOrder(order)
	next.Version++
	f.orders[order.ID] = next
	f.updates++
	return cloneOrder(next), nil
}

func (f *fakeOrderRepo) ListUnpaid(_ context.Context, method domain.PaymentMethod, cutoff time.Time) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*domain.Order
	for _, o := range f.orders {
		if o.PaymentMethod == method && !o.Paid && o.CreatedAt.Before(cutoff) {
			list = append(list, cloneOrder(o))
		}
	}
	return list, nil
}

type fakeGateway struct {
	intents   map[string]*ports.PaymentIntent
	createErr error
	created   []ports.PaymentIntent
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{intents: map[string]*ports.PaymentIntent{}}
}

func (g *fakeGateway) CreatePaymentIntent(_ context.Context, amount int64, currency, receipt string) (*ports.PaymentIntent, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	intent := ports.PaymentIntent{
		ID:               fmt.Sprintf("order_%d", len(g.created)+1),
		AmountMinorUnits: amount,
		Currency:         currency,
		Receipt:          receipt,
		Status:           "created",
	}
	g.created = append(g.created, intent)
	g.intents[intent.ID] = &intent
	return &intent, nil
}

func (g *fakeGateway) FetchPaymentIntent(_ context.Context, id string) (*ports.PaymentIntent, error) {
	intent, ok := g.intents[id]
	if !ok {
		return nil, ports.ErrIntentNotFound
	}
	copy := *intent
	return &copy, nil
}

type fakeCarts struct {
	cleared []string
	err     error
}

func (c *fakeCarts) ClearCart(_ context.Context, ownerID string) error {
	if c.err != nil {
		return c.err
	}
	c.cleared = append(c.cleared, ownerID)
	return nil
}

type fixture struct {
	svc     *Service
	repo    *fakeOrderRepo
	gateway *fakeGateway
	carts   *fakeCarts
	clock   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:    newFakeOrderRepo(),
		gateway: newFakeGateway(),
		carts:   &fakeCarts{},
		clock:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	seq := 0
	f.svc = NewService(f.repo, f.gateway,
		WithCartClearer(f.carts),
		WithClock(func() time.Time { return f.clock }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("order-%d", seq)
		}),
	)
	return f
}

func (f *fixture) advance(d time.Duration) { f.clock = f.clock.Add(d) }

func checkoutInput(owner string) types.PlaceOrderInput {
	return types.PlaceOrderInput{
		OwnerID: owner,
		Items: []types.LineItemInput{
			{ProductID: "p-1", Name: "Shirt", Size: "M", Quantity: 1, Price: decimal.NewFromInt(200)},
			{ProductID: "p-2", Name: "Jeans", Size: "L", Quantity: 1, Price: decimal.NewFromInt(300)},
		},
		Amount:  decimal.NewFromInt(500),
		Address: types.AddressInput{FirstName: "Asha", City: "Pune", Email: "asha@example.com"},
	}
}

func TestPlaceOrder_CashClearsCart(t *testing.T) {
	f := newFixture(t)

	order, err := f.svc.PlaceOrder(context.Background(), checkoutInput("u-1"))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPlaced, order.Status)
	assert.Equal(t, domain.PaymentCashOnDelivery, order.PaymentMethod)
	assert.False(t, order.Paid)
	assert.Equal(t, "Pune", order.Address.City)
	assert.Equal(t, []string{"u-1"}, f.carts.cleared)
}

func TestPlaceOrder_EmptyItems(t *testing.T) {
	f := newFixture(t)
	input := checkoutInput("u-1")
	input.Items = nil

	_, err := f.svc.PlaceOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, f.repo.orders)
	assert.Empty(t, f.carts.cleared)
}

func TestPlaceOrder_InvalidItemQuantity(t *testing.T) {
	f := newFixture(t)
	input := checkoutInput("u-1")
	input.Items[0].Quantity = 0

	_, err := f.svc.PlaceOrder(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestPlaceOrder_PersistenceFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.failOn = "create"

	_, err := f.svc.PlaceOrder(context.Background(), checkoutInput("u-1"))
	require.ErrorIs(t, err, ErrPersistence)
	assert.Empty(t, f.carts.cleared)
}

func TestPlaceGatewayOrder_CreatesIntentAndKeepsCart(t *testing.T) {
	f := newFixture(t)

	checkout, err := f.svc.PlaceGatewayOrder(context.Background(), checkoutInput("u-1"))
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentGateway, checkout.Order.PaymentMethod)
	assert.False(t, checkout.Order.Paid)
	assert.Equal(t, int64(50000), checkout.Intent.AmountMinorUnits)
	assert.Equal(t, "INR", checkout.Intent.Currency)
	assert.Equal(t, checkout.Order.ID, checkout.Intent.Receipt)
	assert.Empty(t, f.carts.cleared)
}

func TestPlaceGatewayOrder_GatewayFailureLeavesOrder(t *testing.T) {
	f := newFixture(t)
	f.gateway.createErr = errors.New("gateway timeout")

	_, err := f.svc.PlaceGatewayOrder(context.Background(), checkoutInput("u-1"))
	require.ErrorIs(t, err, ErrPaymentGateway)

	require.Len(t, f.repo.orders, 1)
	for _, order := range f.repo.orders {
		assert.Equal(t, domain.StatusPlaced, order.Status)
		assert.False(t, order.Paid)
	}
}

func TestConfirmGatewayPayment_PaidMarksOrderAndClearsCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	checkout, err := f.svc.PlaceGatewayOrder(ctx, checkoutInput("u-1"))
	require.NoError(t, err)
	f.gateway.intents[checkout.Intent.ID].Status = ports.IntentStatusPaid

	result, err := f.svc.ConfirmGatewayPayment(ctx, types.ConfirmPaymentInput{OwnerID: "u-1", GatewayReference: checkout.Intent.ID})
	require.NoError(t, err)
	assert.True(t, result.Paid)
	assert.False(t, result.AlreadyPaid)
	assert.Equal(t, checkout.Order.ID, result.OrderID)

	stored, err := f.svc.GetOrder(ctx, checkout.Order.ID)
	require.NoError(t, err)
	assert.True(t, stored.Paid)
	assert.Equal(t, []string{"u-1"}, f.carts.cleared)
}

func TestConfirmGatewayPayment_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	checkout, err := f.svc.PlaceGatewayOrder(ctx, checkoutInput("u-1"))
	require.NoError(t, err)
	f.gateway.intents[checkout.Intent.ID].Status = ports.IntentStatusPaid
	input := types.ConfirmPaymentInput{OwnerID: "u-1", GatewayReference: checkout.Intent.ID}

	_, err = f.svc.ConfirmGatewayPayment(ctx, input)
	require.NoError(t, err)
	again, err := f.svc.ConfirmGatewayPayment(ctx, input)
	require.NoError(t, err)

	assert.True(t, again.Paid)
	assert.True(t, again.AlreadyPaid)
	assert.Equal(t, 1, f.repo.updates)
	assert.Len(t, f.carts.cleared, 1)
}

func TestConfirmGatewayPayment_NotPaidDoesNotMutate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	checkout, err := f.svc.PlaceGatewayOrder(ctx, checkoutInput("u-1"))
	require.NoError(t, err)

	_, err = f.svc.ConfirmGatewayPayment(ctx, types.ConfirmPaymentInput{OwnerID: "u-1", GatewayReference: checkout.Intent.ID})
	require.ErrorIs(t, err, ErrPaymentIncomplete)

	stored, err := f.svc.GetOrder(ctx, checkout.Order.ID)
	require.NoError(t, err)
	assert.False(t, stored.Paid)
	assert.Empty(t, f.carts.cleared)
}

func TestConfirmGatewayPayment_MissingReference(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ConfirmGatewayPayment(context.Background(), types.ConfirmPaymentInput{OwnerID: "u-1", GatewayReference: "  "})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestConfirmGatewayPayment_UnknownReference(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ConfirmGatewayPayment(context.Background(), types.ConfirmPaymentInput{OwnerID: "u-1", GatewayReference: "order_missing"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestConfirmGatewayPayment_OtherOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	checkout, err := f.svc.PlaceGatewayOrder(ctx, checkoutInput("u-1"))
	require.NoError(t, err)
	f.gateway.intents[checkout.Intent.ID].Status = ports.IntentStatusPaid

	_, err = f.svc.ConfirmGatewayPayment(ctx, types.ConfirmPaymentInput{OwnerID: "u-2", GatewayReference: checkout.Intent.ID})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, f.repo.updates)
}

func TestListOwnerOrders_NewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.svc.PlaceOrder(ctx, checkoutInput("u-1"))
	require.NoError(t, err)
	f.advance(time.Minute)
	second, err := f.svc.PlaceOrder(ctx, checkoutInput("u-1"))
	require.NoError(t, err)
	f.advance(time.Minute)
	_, err = f.svc.PlaceOrder(ctx, checkoutInput("u-2"))
	require.NoError(t, err)

	orders, err := f.svc.ListOwnerOrders(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)

	all, err := f.svc.ListAllOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "u-2", all[0].OwnerID)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order, err := f.svc.PlaceOrder(ctx, checkoutInput("u-1"))
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(ctx, types.UpdateStatusInput{OrderID: order.ID, Status: "Shipped"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, updated.Status)
	assert.Equal(t, int64(2), updated.Version)

	_, err = f.svc.UpdateStatus(ctx, types.UpdateStatusInput{OrderID: order.ID, Status: "Lost in space"})
	require.ErrorIs(t, err, ErrInvalidStatus)
	_, err = f.svc.UpdateStatus(ctx, types.UpdateStatusInput{OrderID: order.ID, Status: " Delivered "})
	require.ErrorIs(t, err, ErrInvalidStatus)

	stored, err := f.repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, stored.Status)
	assert.Equal(t, int64(2), stored.Version)

	_, err = f.svc.UpdateStatus(ctx, types.UpdateStatusInput{OrderID: "nope", Status: "Shipped"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCancelOrder_Policy(t *testing.T) {
	cases := []struct {
		name       string
		gateway    bool
		from       domain.Status
		wantStatus domain.Status
		wantErr    error
	}{
		{"cash placed", false, domain.StatusPlaced, domain.StatusCancelled, nil},
		{"gateway placed", true, domain.StatusPlaced, domain.StatusRefundProcessing, nil},
		{"delivered", false, domain.StatusDelivered, domain.StatusDelivered, ErrTerminalState},
		{"shipped", true, domain.StatusShipped, domain.StatusShipped, ErrConflict},
		{"out for delivery", false, domain.StatusOutForDelivery, domain.StatusOutForDelivery, ErrConflict},
		{"refunded stays refunded", true, domain.StatusRefunded, domain.StatusRefunded, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			var orderID string
			if tc.gateway {
				checkout, err := f.svc.PlaceGatewayOrder(ctx, checkoutInput("u-1"))
				require.NoError(t, err)
				orderID = checkout.Order.ID
			} else {
				order, err := f.svc.PlaceOrder(ctx, checkoutInput("u-1"))
				require.NoError(t, err)
				orderID = order.ID
			}
			if tc.from != domain.StatusPlaced {
				_, err := f.svc.UpdateStatus(ctx, types.UpdateStatusInput{OrderID: orderID, Status: string(tc.from)})
				require.NoError(t, err)
			}

			_, err := f.svc.CancelOrder(ctx, types.CancelOrderInput{OrderID: orderID, OwnerID: "u-1"})
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}

			stored, err := f.svc.GetOrder(ctx, orderID)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, stored.Status)
		})
	}
}

func TestCancelOrder_NotFoundAndForeignOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order, err := f.svc.PlaceOrder(ctx, checkoutInput("u-1"))
	require.NoError(t, err)

	_, err = f.svc.CancelOrder(ctx, types.CancelOrderInput{OrderID: "missing", OwnerID: "u-1"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.CancelOrder(ctx, types.CancelOrderInput{OrderID: order.ID, OwnerID: "u-2"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCancelOrder_StaleVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order, err := f.svc.PlaceOrder(ctx, checkoutInput("u-1"))
	require.NoError(t, err)

	stale, err := f.repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, types.UpdateStatusInput{OrderID: order.ID, Status: "Shipped"})
	require.NoError(t, err)

	_, err = stale.Cancel()
	require.NoError(t, err)
	_, err = f.repo.Update(ctx, stale)
	require.ErrorIs(t, mapError(err), ErrConcurrentModification)
}

func TestListUnpaidGatewayOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	old, err := f.svc.PlaceGatewayOrder(ctx, checkoutInput("u-1"))
	require.NoError(t, err)
	_, err = f.svc.PlaceOrder(ctx, checkoutInput("u-1"))
	require.NoError(t, err)
	f.advance(2 * time.Hour)
	_, err = f.svc.PlaceGatewayOrder(ctx, checkoutInput("u-2"))
	require.NoError(t, err)

	orders, err := f.svc.ListUnpaidGatewayOrders(ctx, types.UnpaidOrdersQuery{OlderThan: time.Hour})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, old.Order.ID, orders[0].ID)

	_, err = f.svc.ListUnpaidGatewayOrders(ctx, types.UnpaidOrdersQuery{OlderThan: -time.Minute})
	require.ErrorIs(t, err, ErrInvalidInput)
}
