package ln

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestAlbyClient(t *testing.T, handler http.Handler) *AlbyClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewAlbyClient(&Config{
		AlbyAPIURL:         srv.URL,
		AlbyAPIKey:         "test-key",
		AlbyTimeoutSeconds: 5,
	})
	assert.NoError(t, err)
	return client
}

func TestAlbyCreateInvoice(t *testing.T) {
	client := newTestAlbyClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/invoices", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body albyCreateInvoiceRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(21000), body.Amount)
		assert.Equal(t, "file1.pdf", body.Memo)

		json.NewEncoder(w).Encode(&Invoice{
			PaymentHash:    "abc123",
			PaymentRequest: "lnbc21u1...",
			ExpirySeconds:  600,
		})
	}))

	invoice, err := client.CreateInvoice(context.Background(), 21000, "file1.pdf")
	assert.NoError(t, err)
	assert.Equal(t, "abc123", invoice.PaymentHash)
	assert.Equal(t, "lnbc21u1...", invoice.PaymentRequest)
	assert.Equal(t, int64(600), invoice.ExpirySeconds)
}

func TestAlbyCreateInvoiceIncompleteResponse(t *testing.T) {
	client := newTestAlbyClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(&Invoice{PaymentHash: "abc123"})
	}))

	_, err := client.CreateInvoice(context.Background(), 21000, "file1.pdf")
	assert.Error(t, err)
}

func TestAlbyCreateInvoiceErrorStatus(t *testing.T) {
	client := newTestAlbyClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))

	_, err := client.CreateInvoice(context.Background(), 21000, "file1.pdf")
	assert.Error(t, err)
}

func TestAlbyCheckSettlement(t *testing.T) {
	client := newTestAlbyClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/invoices/abc123", r.URL.Path)
		json.NewEncoder(w).Encode(&Settlement{Settled: true, State: StateSettled})
	}))

	settlement, err := client.CheckSettlement(context.Background(), "abc123")
	assert.NoError(t, err)
	assert.True(t, settlement.IsSettled())
}

func TestNewAlbyClientRequiresKey(t *testing.T) {
	_, err := NewAlbyClient(&Config{AlbyAPIURL: "https://api.getalby.com"})
	assert.Error(t, err)
}

func TestSettlementIsSettled(t *testing.T) {
	assert.True(t, (&Settlement{Settled: true, State: StateSettled}).IsSettled())
	assert.False(t, (&Settlement{Settled: true, State: "OPEN"}).IsSettled())
	assert.False(t, (&Settlement{Settled: false, State: StateSettled}).IsSettled())
	assert.False(t, (&Settlement{}).IsSettled())
}
