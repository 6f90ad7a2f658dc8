package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/onecart/storefront-api/internal/domains/orders/adapters/http/mapper"
	"github.com/onecart/storefront-api/internal/domains/orders/application/types"
	"github.com/onecart/storefront-api/internal/domains/orders/domain"
	ordersports "github.com/onecart/storefront-api/internal/domains/orders/ports"
	"github.com/onecart/storefront-api/internal/shared/auth"
)

// OrderAPI wires HTTP transport with the orders service and payment workflows.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.PaymentWorkflows
}

// idempotencyHeader lets clients retry a checkout without placing a second order.
const idempotencyHeader = "Idempotency-Key"

// NewOrderAPI creates an OrderAPI. A nil workflows confirms payments inline.
func NewOrderAPI(service ordersports.Service, workflows ordersports.PaymentWorkflows) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /api/order/placeorder
// Cash on delivery checkout.
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	var payload orderhttpmapper.PlaceOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	input := orderhttpmapper.ToPlaceOrderInput(auth.UserID(c), payload)
	input.Method = domain.PaymentCashOnDelivery
	input.IdempotencyKey = c.GetHeader(idempotencyHeader)
	order, err := api.service.PlaceOrder(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.FromDomainOrder(order))
}

// Post /api/order/razorpay
func (api *OrderAPI) PlaceGatewayOrder(c *gin.Context) {
	var payload orderhttpmapper.PlaceOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	input := orderhttpmapper.ToPlaceOrderInput(auth.UserID(c), payload)
	input.IdempotencyKey = c.GetHeader(idempotencyHeader)
	checkout, err := api.service.PlaceGatewayOrder(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromGatewayCheckout(checkout))
}

// Post /api/order/verifyrazorpay
func (api *OrderAPI) VerifyGatewayPayment(c *gin.Context) {
	var payload orderhttpmapper.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	input := orderhttpmapper.ToConfirmPaymentInput(auth.UserID(c), payload)
	var (
		result *types.PaymentConfirmation
		err    error
	)
	if api.workflows != nil {
		result, err = api.workflows.ConfirmPayment(c.Request.Context(), input)
	} else {
		result, err = api.service.ConfirmGatewayPayment(c.Request.Context(), input)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromPaymentConfirmation(result))
}

// Post /api/order/userorder
func (api *OrderAPI) ListOwnerOrders(c *gin.Context) {
	orders, err := api.service.ListOwnerOrders(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrders(orders))
}

// Post /api/order/cancel
func (api *OrderAPI) CancelOrder(c *gin.Context) {
	var payload orderhttpmapper.CancelOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := api.service.CancelOrder(c.Request.Context(), types.CancelOrderInput{
		OrderID: payload.OrderID,
		OwnerID: auth.UserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Post /api/order/list
func (api *OrderAPI) ListAllOrders(c *gin.Context) {
	orders, err := api.service.ListAllOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrders(orders))
}

// Post /api/order/status
func (api *OrderAPI) UpdateStatus(c *gin.Context) {
	var payload orderhttpmapper.UpdateStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := api.service.UpdateStatus(c.Request.Context(), types.UpdateStatusInput{
		OrderID: payload.OrderID,
		Status:  payload.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}
