package payment

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateIntent_Success(t *testing.T) {
	var gotReq createIntentRequest
	var gotAuthUser, gotAuthPass string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)
		gotAuthUser, gotAuthPass, _ = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(Intent{
			ID:       "order_abc123",
			Amount:   gotReq.Amount,
			Currency: gotReq.Currency,
			Receipt:  gotReq.Receipt,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-id", "key-secret", testLogger())

	intent, err := client.CreateIntent(context.Background(), 250.00, "INR")
	require.NoError(t, err)

	assert.Equal(t, "order_abc123", intent.ID)
	assert.Equal(t, int64(25000), intent.Amount, "amount sent in minor units")
	assert.Equal(t, "INR", intent.Currency)
	assert.Equal(t, "key-id", gotAuthUser)
	assert.Equal(t, "key-secret", gotAuthPass)
	assert.NotEmpty(t, gotReq.Receipt)
}

func TestCreateIntent_DefaultsCurrency(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req createIntentRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(Intent{ID: "order_1", Amount: req.Amount, Currency: req.Currency})
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", "s", testLogger())

	intent, err := client.CreateIntent(context.Background(), 10, "")
	require.NoError(t, err)
	assert.Equal(t, "INR", intent.Currency)
}

func TestCreateIntent_NonPositiveAmount(t *testing.T) {
	client := NewClient("http://unused", "k", "s", testLogger())

	_, err := client.CreateIntent(context.Background(), 0, "INR")
	assert.ErrorIs(t, err, ErrIntentRejected)

	_, err = client.CreateIntent(context.Background(), -5, "INR")
	assert.ErrorIs(t, err, ErrIntentRejected)
}

func TestCreateIntent_GatewayRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", "s", testLogger())

	_, err := client.CreateIntent(context.Background(), 100, "INR")
	assert.ErrorIs(t, err, ErrIntentRejected)
}

func TestCreateIntent_GatewayDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", "s", testLogger())

	_, err := client.CreateIntent(context.Background(), 100, "INR")
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestCreateIntent_MissingOrderID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(Intent{Amount: 100})
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", "s", testLogger())

	_, err := client.CreateIntent(context.Background(), 100, "INR")
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestCreateIntent_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", "s", testLogger())

	for i := 0; i < 5; i++ {
		_, err := client.CreateIntent(context.Background(), 100, "INR")
		assert.ErrorIs(t, err, ErrGatewayUnavailable)
	}
	require.Equal(t, 5, hits)

	// Breaker is open now: the gateway is no longer called.
	_, err := client.CreateIntent(context.Background(), 100, "INR")
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	assert.Equal(t, 5, hits)
}
