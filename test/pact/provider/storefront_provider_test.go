//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"

	storefrontserver "github.com/onecart/storefront-api/go"
	ordersmemory "github.com/onecart/storefront-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/onecart/storefront-api/internal/domains/orders/adapters/observability"
	ordersapp "github.com/onecart/storefront-api/internal/domains/orders/application"
	usersmemory "github.com/onecart/storefront-api/internal/domains/users/adapters/memory"
	userobs "github.com/onecart/storefront-api/internal/domains/users/adapters/observability"
	userapp "github.com/onecart/storefront-api/internal/domains/users/application"
	userstypes "github.com/onecart/storefront-api/internal/domains/users/application/types"
	userports "github.com/onecart/storefront-api/internal/domains/users/ports"
	"github.com/onecart/storefront-api/internal/shared/auth"
	pacttest "github.com/onecart/storefront-api/test/pact"
)

func TestStorefrontProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCustomerExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedCustomer(t)
			}
			return nil, nil
		},
		pacttest.StateCustomerLive: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedCustomer(t)
				app.seedSession(t)
			}
			return nil, nil
		},
		pacttest.StateOrderMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedCustomer(t)
				app.seedSession(t)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
	})
	require.NoError(t, err)
}

// contractTokens accepts the fixed pact token and defers everything else to
// the real issuer.
type contractTokens struct {
	issuer *auth.Issuer
}

func (c contractTokens) Parse(token string) (*auth.Claims, error) {
	if token == pacttest.CustomerToken {
		claims := &auth.Claims{Role: userports.RoleUser}
		claims.Subject = pacttest.CustomerID
		return claims, nil
	}
	return c.issuer.Parse(token)
}

type contractProviderApp struct {
	mu       sync.RWMutex
	router   *gin.Engine
	users    userports.Service
	sessions *usersmemory.SessionStore
	server   *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

// reset swaps in fresh in-memory stores so every state starts empty.
func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	issuer, err := auth.NewIssuer("pact-secret")
	require.NoError(t, err)
	sessions := usersmemory.NewSessionStore()
	users := userobs.New(userapp.NewService(usersmemory.NewRepository(), sessions, issuer,
		userapp.WithIDGenerator(func() string { return pacttest.CustomerID })))
	orders := ordersobs.New(ordersapp.NewService(ordersmemory.NewRepository(), ordersmemory.NewPaymentGateway(),
		ordersapp.WithCartClearer(users)))

	router := gin.New()
	router.Use(gin.Recovery())
	storefrontserver.NewRouterWithGinEngine(router, storefrontserver.ApiHandleFunctions{
		AuthAPI:      storefrontserver.NewAuthAPI(users, false),
		UserAPI:      storefrontserver.NewUserAPI(users, ""),
		CartAPI:      storefrontserver.NewCartAPI(users),
		OrderAPI:     storefrontserver.NewOrderAPI(orders, nil),
		Authenticate: auth.Middleware(contractTokens{issuer: issuer}, sessions, nil),
		RequireAdmin: auth.RequireRole(userports.RoleAdmin),
	})

	a.mu.Lock()
	defer a.mu.Unlock()
	a.router = router
	a.users = users
	a.sessions = sessions
}

func (a *contractProviderApp) seedCustomer(t testing.TB) {
	t.Helper()
	_, err := a.users.Register(context.Background(), userstypes.RegisterInput{
		Name:     pacttest.CustomerName,
		Email:    pacttest.CustomerEmail,
		Password: pacttest.CustomerPassword,
	})
	require.NoError(t, err)
}

func (a *contractProviderApp) seedSession(t testing.TB) {
	t.Helper()
	require.NoError(t, a.sessions.Save(context.Background(), userports.Session{
		Token:     pacttest.CustomerToken,
		UserID:    pacttest.CustomerID,
		Role:      userports.RoleUser,
		ExpiresAt: time.Now().Add(time.Hour),
	}))
}
