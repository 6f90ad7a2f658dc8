package razorpay

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	sdk "github.com/razorpay/razorpay-go"
)

// ErrOrderNotFound is returned when Razorpay does not know the order id.
var ErrOrderNotFound = errors.New("razorpay order not found")

// orderResource is the subset of the SDK's order resource the client calls.
type orderResource interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
	Fetch(orderID string, queryParams map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Client wraps the Razorpay SDK with typed order helpers.
type Client struct {
	orders orderResource
}

// OrderRequest describes a Razorpay order to create. Amount is in minor units.
type OrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// Order is the typed view of a Razorpay order entity.
type Order struct {
	ID         string
	Amount     int64
	AmountPaid int64
	Currency   string
	Receipt    string
	Status     string
	Attempts   int64
}

// NewClient instantiates the Razorpay client for the given key pair.
func NewClient(keyID, keySecret string) (*Client, error) {
	keyID = strings.TrimSpace(keyID)
	keySecret = strings.TrimSpace(keySecret)
	if keyID == "" || keySecret == "" {
		return nil, errors.New("razorpay key id and secret are required")
	}
	return &Client{orders: sdk.NewClient(keyID, keySecret).Order}, nil
}

// CreateOrder registers a new order with Razorpay.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if c == nil || c.orders == nil {
		return nil, errors.New("razorpay client not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Amount < 0 {
		return nil, fmt.Errorf("razorpay amount must not be negative: %d", req.Amount)
	}
	payload := map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}
	if len(req.Notes) > 0 {
		payload["notes"] = req.Notes
	}
	body, err := c.orders.Create(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("create razorpay order: %w", err)
	}
	return decodeOrder(body)
}

// FetchOrder loads an order by its Razorpay id.
func (c *Client) FetchOrder(ctx context.Context, orderID string) (*Order, error) {
	if c == nil || c.orders == nil {
		return nil, errors.New("razorpay client not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrOrderNotFound
	}
	body, err := c.orders.Fetch(orderID, nil, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}
		return nil, fmt.Errorf("fetch razorpay order: %w", err)
	}
	return decodeOrder(body)
}

func isNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "does not exist") || strings.Contains(msg, "not found")
}

func decodeOrder(body map[string]interface{}) (*Order, error) {
	if body == nil {
		return nil, errors.New("razorpay returned an empty response")
	}
	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("razorpay response missing order id: %v", body)
	}
	return &Order{
		ID:         id,
		Amount:     asInt64(body["amount"]),
		AmountPaid: asInt64(body["amount_paid"]),
		Currency:   asString(body["currency"]),
		Receipt:    asString(body["receipt"]),
		Status:     asString(body["status"]),
		Attempts:   asInt64(body["attempts"]),
	}, nil
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(math.Round(n))
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}
