package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/YashRajNegi/Uttranjali/internal/payment"
)

type intentCreator interface {
	CreateIntent(ctx context.Context, amount float64, currency string) (*payment.Intent, error)
}

type PaymentHandler struct {
	gateway intentCreator
}

func NewPaymentHandler(gateway intentCreator) *PaymentHandler {
	return &PaymentHandler{gateway: gateway}
}

type createIntentRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// POST /api/payments/intent
//
// Thin pass-through to the gateway: the client opens the hosted
// widget with the returned handle. Nothing is persisted here; a
// failure leaves no state behind.
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	if _, ok := identityFromContext(r.Context()); !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req createIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_amount", "amount must be positive")
		return
	}

	intent, err := h.gateway.CreateIntent(r.Context(), req.Amount, req.Currency)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, intent)
}
