package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/onecart/storefront-api/internal/domains/users/adapters/http/mapper"
	userports "github.com/onecart/storefront-api/internal/domains/users/ports"
	"github.com/onecart/storefront-api/internal/shared/auth"
)

// CartAPI serves the signed-in user's cart.
type CartAPI struct {
	service userports.Service
}

// NewCartAPI wires dependencies.
func NewCartAPI(service userports.Service) CartAPI {
	return CartAPI{service: service}
}

// Post /api/cart/add
func (api *CartAPI) AddToCart(c *gin.Context) {
	var payload userhttpmapper.CartItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	cart, err := api.service.AddToCart(c.Request.Context(), userhttpmapper.ToCartItemInput(auth.UserID(c), payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cartData": userhttpmapper.FromDomainCart(cart)})
}

// Post /api/cart/update
// A zero quantity removes the variant.
func (api *CartAPI) UpdateCart(c *gin.Context) {
	var payload userhttpmapper.CartItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	cart, err := api.service.UpdateCart(c.Request.Context(), userhttpmapper.ToCartItemInput(auth.UserID(c), payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cartData": userhttpmapper.FromDomainCart(cart)})
}

// Post /api/cart/get
func (api *CartAPI) GetCart(c *gin.Context) {
	cart, err := api.service.GetCart(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cartData": userhttpmapper.FromDomainCart(cart)})
}
