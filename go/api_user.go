package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/onecart/storefront-api/internal/domains/users/adapters/http/mapper"
	userports "github.com/onecart/storefront-api/internal/domains/users/ports"
	"github.com/onecart/storefront-api/internal/shared/auth"
)

// UserAPI exposes the signed-in identity.
type UserAPI struct {
	service    userports.Service
	adminEmail string
}

// NewUserAPI wires dependencies.
func NewUserAPI(service userports.Service, adminEmail string) UserAPI {
	return UserAPI{service: service, adminEmail: adminEmail}
}

// Get /api/user/getcurrentuser
func (api *UserAPI) GetCurrentUser(c *gin.Context) {
	user, err := api.service.GetCurrentUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUser(user))
}

// Get /api/user/getadmin
// Admin tokens carry the configured admin email as their subject.
func (api *UserAPI) GetAdmin(c *gin.Context) {
	email := auth.UserID(c)
	if email == "" {
		email = api.adminEmail
	}
	c.JSON(http.StatusOK, gin.H{"email": email, "role": auth.Role(c)})
}
