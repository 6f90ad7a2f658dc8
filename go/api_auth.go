package storefrontserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/onecart/storefront-api/internal/domains/users/adapters/http/mapper"
	"github.com/onecart/storefront-api/internal/domains/users/application/types"
	userports "github.com/onecart/storefront-api/internal/domains/users/ports"
	"github.com/onecart/storefront-api/internal/shared/auth"
)

// AuthAPI serves sign-up, sign-in and sign-out.
type AuthAPI struct {
	service      userports.Service
	secureCookie bool
	now          func() time.Time
}

// NewAuthAPI wires dependencies. secureCookie marks the token cookie HTTPS-only.
func NewAuthAPI(service userports.Service, secureCookie bool) AuthAPI {
	return AuthAPI{service: service, secureCookie: secureCookie, now: time.Now}
}

// Post /api/auth/registration
func (api *AuthAPI) Register(c *gin.Context) {
	var payload userhttpmapper.RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := api.service.Register(c.Request.Context(), userhttpmapper.ToRegisterInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	api.writeSession(c, http.StatusCreated, result)
}

// Post /api/auth/login
func (api *AuthAPI) Login(c *gin.Context) {
	var payload userhttpmapper.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := api.service.Login(c.Request.Context(), userhttpmapper.ToLoginInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	api.writeSession(c, http.StatusOK, result)
}

// Post /api/auth/googlelogin
// The caller-asserted identity is trusted; verification happens client side.
func (api *AuthAPI) GoogleLogin(c *gin.Context) {
	var payload userhttpmapper.GoogleLoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := api.service.GoogleLogin(c.Request.Context(), userhttpmapper.ToGoogleLoginInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	api.writeSession(c, http.StatusOK, result)
}

// Post /api/auth/adminlogin
func (api *AuthAPI) AdminLogin(c *gin.Context) {
	var payload userhttpmapper.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := api.service.AdminLogin(c.Request.Context(), userhttpmapper.ToLoginInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	api.writeSession(c, http.StatusOK, result)
}

// Get /api/auth/logout
// Revokes the presented token, if any, and always clears the cookie.
func (api *AuthAPI) Logout(c *gin.Context) {
	if token := auth.TokenFromRequest(c); token != "" {
		if err := api.service.Logout(c.Request.Context(), token); err != nil {
			respondError(c, err)
			return
		}
	}
	api.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}

func (api *AuthAPI) writeSession(c *gin.Context, status int, result *types.AuthResult) {
	maxAge := int(result.ExpiresAt.Sub(api.now()).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	api.setCookie(c, result.Token, maxAge)
	c.JSON(status, userhttpmapper.FromAuthResult(result))
}

func (api *AuthAPI) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, value, maxAge, "/", "", api.secureCookie, true)
}
