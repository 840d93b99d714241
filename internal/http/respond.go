package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/YashRajNegi/Uttranjali/internal/payment"
	"github.com/YashRajNegi/Uttranjali/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, details string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Details: details,
	})
}

// handleServiceError maps the workflow's closed error taxonomy to
// HTTP status codes. Anything untyped is a server error and the
// details stay out of the response body.
func handleServiceError(w http.ResponseWriter, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Kind {
		case service.KindValidation:
			respondError(w, http.StatusBadRequest, svcErr.Field, svcErr.Message)
			return
		case service.KindAuthorization:
			respondError(w, http.StatusForbidden, "not_authorized", svcErr.Message)
			return
		case service.KindNotFound:
			respondError(w, http.StatusNotFound, "not_found", svcErr.Message)
			return
		case service.KindUpstream:
			respondError(w, http.StatusBadGateway, "upstream_error", svcErr.Message)
			return
		}
	}

	if errors.Is(err, payment.ErrGatewayUnavailable) {
		respondError(w, http.StatusBadGateway, "gateway_unavailable", "payment gateway unavailable, try again")
		return
	}
	if errors.Is(err, payment.ErrIntentRejected) {
		respondError(w, http.StatusBadRequest, "intent_rejected", "payment intent rejected")
		return
	}

	respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
