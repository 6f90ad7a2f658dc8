package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Access selects which middleware guards a route.
type Access int

const (
	Public Access = iota
	Customer
	Admin
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	Access      Access
}

// ApiHandleFunctions groups the handlers and the guards protecting them.
type ApiHandleFunctions struct {
	AuthAPI  AuthAPI
	UserAPI  UserAPI
	CartAPI  CartAPI
	OrderAPI OrderAPI

	// Authenticate resolves the caller from the token cookie or Bearer header.
	Authenticate gin.HandlerFunc
	// RequireAdmin rejects authenticated callers without the admin role.
	RequireAdmin gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the API routes and /healthz to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := guards(handleFunctions, route.Access)
		handlers = append(handlers, route.HandlerFunc)
		router.Handle(route.Method, route.Pattern, handlers...)
	}
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

// DefaultHandleFunc is the default handler for unimplemented routes.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func guards(handleFunctions ApiHandleFunctions, access Access) []gin.HandlerFunc {
	var chain []gin.HandlerFunc
	if access == Public {
		return chain
	}
	if handleFunctions.Authenticate != nil {
		chain = append(chain, handleFunctions.Authenticate)
	}
	if access == Admin && handleFunctions.RequireAdmin != nil {
		chain = append(chain, handleFunctions.RequireAdmin)
	}
	return chain
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Register", http.MethodPost, "/api/auth/registration", handleFunctions.AuthAPI.Register, Public},
		{"Login", http.MethodPost, "/api/auth/login", handleFunctions.AuthAPI.Login, Public},
		{"Logout", http.MethodGet, "/api/auth/logout", handleFunctions.AuthAPI.Logout, Public},
		{"GoogleLogin", http.MethodPost, "/api/auth/googlelogin", handleFunctions.AuthAPI.GoogleLogin, Public},
		{"AdminLogin", http.MethodPost, "/api/auth/adminlogin", handleFunctions.AuthAPI.AdminLogin, Public},
		{"GetCurrentUser", http.MethodGet, "/api/user/getcurrentuser", handleFunctions.UserAPI.GetCurrentUser, Customer},
		{"GetAdmin", http.MethodGet, "/api/user/getadmin", handleFunctions.UserAPI.GetAdmin, Admin},
		{"AddToCart", http.MethodPost, "/api/cart/add", handleFunctions.CartAPI.AddToCart, Customer},
		{"UpdateCart", http.MethodPost, "/api/cart/update", handleFunctions.CartAPI.UpdateCart, Customer},
		{"GetCart", http.MethodPost, "/api/cart/get", handleFunctions.CartAPI.GetCart, Customer},
		{"PlaceOrder", http.MethodPost, "/api/order/placeorder", handleFunctions.OrderAPI.PlaceOrder, Customer},
		{"PlaceGatewayOrder", http.MethodPost, "/api/order/razorpay", handleFunctions.OrderAPI.PlaceGatewayOrder, Customer},
		{"VerifyGatewayPayment", http.MethodPost, "/api/order/verifyrazorpay", handleFunctions.OrderAPI.VerifyGatewayPayment, Customer},
		{"ListOwnerOrders", http.MethodPost, "/api/order/userorder", handleFunctions.OrderAPI.ListOwnerOrders, Customer},
		{"CancelOrder", http.MethodPost, "/api/order/cancel", handleFunctions.OrderAPI.CancelOrder, Customer},
		{"ListAllOrders", http.MethodPost, "/api/order/list", handleFunctions.OrderAPI.ListAllOrders, Admin},
		{"UpdateStatus", http.MethodPost, "/api/order/status", handleFunctions.OrderAPI.UpdateStatus, Admin},
	}
}
