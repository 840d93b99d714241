package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

var (
	// ErrGatewayUnavailable covers network failures, gateway 5xx and
	// an open circuit breaker. Retryable from the shopper's side; no
	// order or payment state exists yet.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrIntentRejected is a gateway 4xx: the request itself was bad.
	ErrIntentRejected = errors.New("payment intent rejected")
)

// Intent is the gateway order handle the hosted checkout widget is
// opened with. Amount is in minor units, as the gateway keeps it.
type Intent struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createIntentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// Client talks to the hosted-checkout gateway's order API. Calls run
// through a circuit breaker so a struggling gateway fails fast
// instead of tying up request handlers.
type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker[*Intent]
	logger    *slog.Logger
}

func NewClient(baseURL, keyID, keySecret string, logger *slog.Logger) *Client {
	settings := gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &Client{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		http:      &http.Client{Timeout: 10 * time.Second},
		breaker:   gobreaker.NewCircuitBreaker[*Intent](settings),
		logger:    logger,
	}
}

// CreateIntent registers an order with the gateway for the given
// amount and returns the handle the client opens the widget with.
func (c *Client) CreateIntent(ctx context.Context, amount float64, currency string) (*Intent, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrIntentRejected)
	}
	if currency == "" {
		currency = "INR"
	}

	intent, err := c.breaker.Execute(func() (*Intent, error) {
		return c.createIntent(ctx, amount, currency)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn("payment gateway breaker open")
			return nil, ErrGatewayUnavailable
		}
		return nil, err
	}

	return intent, nil
}

func (c *Client) createIntent(ctx context.Context, amount float64, currency string) (*Intent, error) {
	body := createIntentRequest{
		Amount:   int64(math.Round(amount * 100)), // minor units
		Currency: currency,
		Receipt:  "rcpt_" + uuid.New().String(),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal intent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build intent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: gateway returned %d", ErrGatewayUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: gateway returned %d", ErrIntentRejected, resp.StatusCode)
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("failed to decode intent response: %w", err)
	}
	if intent.ID == "" {
		return nil, fmt.Errorf("%w: gateway returned no order id", ErrGatewayUnavailable)
	}

	return &intent, nil
}
