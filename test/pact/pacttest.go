//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "storefront-api"
	ConsumerName = "storefront-web"

	StateCustomerExists = "customer pact.customer@example.com exists"
	StateCustomerLive   = "customer session is live"
	StateOrderMissing   = "no order with id missing-order"
)

const (
	CustomerID       = "pact-customer"
	CustomerName     = "Pact Customer"
	CustomerEmail    = "pact.customer@example.com"
	CustomerPassword = "pact-pass-123"
	// CustomerToken is accepted by the provider's contract token parser.
	CustomerToken = "pact-customer-token"

	MissingOrderID = "missing-order"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleCheckoutPayload is a two-item cash checkout.
func ExampleCheckoutPayload() map[string]any {
	return map[string]any{
		"items": []map[string]any{
			{"productId": "p-100", "name": "Linen Shirt", "size": "M", "quantity": 2, "price": 150},
			{"productId": "p-200", "name": "Canvas Tote", "size": "L", "quantity": 1, "price": 200},
		},
		"amount": 500,
		"address": map[string]any{
			"firstName": "Pact",
			"lastName":  "Customer",
			"street":    "1 Contract Lane",
			"city":      "Pune",
			"pinCode":   "411001",
			"country":   "India",
		},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
