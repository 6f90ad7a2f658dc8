package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/onecart/storefront-api/internal/domains/orders/application/types"
	"github.com/onecart/storefront-api/internal/domains/orders/domain"
	"github.com/onecart/storefront-api/internal/domains/orders/ports"
)

// DefaultCurrency is used for payment intents when none is configured.
const DefaultCurrency = "INR"

type noopCartClearer struct{}

func (noopCartClearer) ClearCart(context.Context, string) error { return nil }

// Service orchestrates the order lifecycle use cases.
type Service struct {
	repo        ports.Repository
	gateway     ports.PaymentGateway
	carts       ports.CartClearer
	idempotency ports.IdempotencyStore
	validate    *validator.Validate
	currency    string
	now         func() time.Time
	newID       func() string
}

// Option customises the service.
type Option func(*Service)

// WithCartClearer wires the users cart so orders can empty it.
func WithCartClearer(carts ports.CartClearer) Option {
	return func(s *Service) {
		if carts != nil {
			s.carts = carts
		}
	}
}

// WithIdempotencyStore enables replay of checkouts carrying an idempotency key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) { s.idempotency = store }
}

// WithCurrency overrides the payment intent currency code.
func WithCurrency(code string) Option {
	return func(s *Service) {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			s.currency = code
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides order id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewService wires the orders service with its dependencies.
func NewService(repo ports.Repository, gateway ports.PaymentGateway, opts ...Option) *Service {
	svc := &Service{
		repo:     repo,
		gateway:  gateway,
		carts:    noopCartClearer{},
		validate: validator.New(validator.WithRequiredStructEnabled()),
		currency: DefaultCurrency,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// PlaceOrder records a cash-on-delivery order and empties the owner's cart. A
// replayed keyed checkout returns the stored order without touching the cart.
func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error) {
	if input.Method == "" {
		input.Method = domain.PaymentCashOnDelivery
	}
	order, err := s.newOrder(input)
	if err != nil {
		return nil, err
	}
	saved, created, err := s.placeOnce(ctx, input, order)
	if err != nil {
		return nil, err
	}
	if !created {
		return saved, nil
	}
	if err := s.carts.ClearCart(ctx, saved.OwnerID); err != nil {
		return nil, persistenceError(fmt.Errorf("clear cart: %w", err))
	}
	return saved, nil
}

// PlaceGatewayOrder records an unpaid gateway order and opens a payment intent
// for it. The cart is kept until the payment is confirmed. A failed gateway call
// leaves the order in place. A replayed checkout opens a fresh intent for the
// order it produced first, unless that order is already paid.
func (s *Service) PlaceGatewayOrder(ctx context.Context, input types.PlaceOrderInput) (*types.GatewayCheckout, error) {
	input.Method = domain.PaymentGateway
	order, err := s.newOrder(input)
	if err != nil {
		return nil, err
	}
	saved, _, err := s.placeOnce(ctx, input, order)
	if err != nil {
		return nil, err
	}
	if saved.Paid {
		return nil, fmt.Errorf("%w: order %s is already paid", ErrIdempotencyConflict, saved.ID)
	}
	intent, err := s.gateway.CreatePaymentIntent(ctx, domain.MinorUnits(saved.Amount), s.currency, saved.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPaymentGateway, err)
	}
	return &types.GatewayCheckout{
		Order: saved,
		Intent: types.IntentView{
			ID:               intent.ID,
			AmountMinorUnits: intent.AmountMinorUnits,
			Currency:         intent.Currency,
			Receipt:          intent.Receipt,
		},
	}, nil
}

// ConfirmGatewayPayment reconciles a gateway intent with its order. Only a paid
// intent mutates state; repeating the call for a paid order is a no-op.
func (s *Service) ConfirmGatewayPayment(ctx context.Context, input types.ConfirmPaymentInput) (*types.PaymentConfirmation, error) {
	reference := strings.TrimSpace(input.GatewayReference)
	if reference == "" {
		return nil, fmt.Errorf("%w: gateway reference is required", ErrNotFound)
	}
	intent, err := s.gateway.FetchPaymentIntent(ctx, reference)
	if err != nil {
		return nil, gatewayError(err)
	}
	if !intent.Paid() {
		return nil, fmt.Errorf("%w: intent %s is %q", ErrPaymentIncomplete, reference, intent.Status)
	}
	if strings.TrimSpace(intent.Receipt) == "" {
		return nil, fmt.Errorf("%w: intent %s carries no receipt", ErrNotFound, reference)
	}
	order, err := s.repo.GetByID(ctx, intent.Receipt)
	if err != nil {
		return nil, persistenceError(err)
	}
	if input.OwnerID != "" && order.OwnerID != input.OwnerID {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, ports.ErrNotFound)
	}
	if !order.MarkPaid() {
		return &types.PaymentConfirmation{OrderID: order.ID, Paid: true, AlreadyPaid: true}, nil
	}
	order.UpdatedAt = s.now()
	saved, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, persistenceError(err)
	}
	if err := s.carts.ClearCart(ctx, saved.OwnerID); err != nil {
		return nil, persistenceError(fmt.Errorf("clear cart: %w", err))
	}
	return &types.PaymentConfirmation{OrderID: saved.ID, Paid: true}, nil
}

// ListOwnerOrders returns the owner's orders, newest first.
func (s *Service) ListOwnerOrders(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrEmptyOwner)
	}
	orders, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, persistenceError(err)
	}
	newestFirst(orders)
	return orders, nil
}

// ListAllOrders returns every order, newest first.
func (s *Service) ListAllOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, persistenceError(err)
	}
	newestFirst(orders)
	return orders, nil
}

// GetOrder loads a single order.
func (s *Service) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, persistenceError(err)
	}
	return order, nil
}

// UpdateStatus applies an administrative status override. Any enum member is
// accepted regardless of the current status.
func (s *Service) UpdateStatus(ctx context.Context, input types.UpdateStatusInput) (*domain.Order, error) {
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, mapError(err)
	}
	order, err := s.repo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, persistenceError(err)
	}
	if err := order.UpdateStatus(status); err != nil {
		return nil, mapError(err)
	}
	order.UpdatedAt = s.now()
	saved, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, persistenceError(err)
	}
	return saved, nil
}

// CancelOrder applies the customer cancellation policy. Orders owned by someone
// else are reported as missing.
func (s *Service) CancelOrder(ctx context.Context, input types.CancelOrderInput) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, persistenceError(err)
	}
	if input.OwnerID != "" && order.OwnerID != input.OwnerID {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, ports.ErrNotFound)
	}
	changed, err := order.Cancel()
	if err != nil {
		return nil, mapError(err)
	}
	if !changed {
		return order, nil
	}
	order.UpdatedAt = s.now()
	saved, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, persistenceError(err)
	}
	return saved, nil
}

// ListUnpaidGatewayOrders reports gateway orders still unpaid after OlderThan.
func (s *Service) ListUnpaidGatewayOrders(ctx context.Context, input types.UnpaidOrdersQuery) ([]*domain.Order, error) {
	if input.OlderThan < 0 {
		return nil, fmt.Errorf("%w: negative age", ErrInvalidInput)
	}
	orders, err := s.repo.ListUnpaid(ctx, domain.PaymentGateway, s.now().Add(-input.OlderThan))
	if err != nil {
		return nil, persistenceError(err)
	}
	newestFirst(orders)
	return orders, nil
}

func (s *Service) newOrder(input types.PlaceOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrEmptyItems)
	}
	if err := s.validate.Struct(input); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil, err
		}
		return nil, mapError(err)
	}
	items := make([]domain.LineItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, domain.LineItem{
			ProductID: strings.TrimSpace(item.ProductID),
			Name:      item.Name,
			Image:     item.Image,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	order, err := domain.NewOrder(s.newID(), input.OwnerID, items, input.Amount, domain.Address(input.Address), input.Method, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

func newestFirst(orders []*domain.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

var _ ports.Service = (*Service)(nil)
