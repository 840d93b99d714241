package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/YashRajNegi/Uttranjali/internal/domain"
	"github.com/YashRajNegi/Uttranjali/internal/repository"
	"github.com/go-chi/chi/v5"
)

type AddressHandler struct {
	addresses repository.AddressRepository
}

func NewAddressHandler(addresses repository.AddressRepository) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

type addressRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	Unit       string `json:"unit"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (r addressRequest) validate() (string, bool) {
	switch {
	case r.Name == "":
		return "name", false
	case r.Street == "":
		return "street", false
	case r.City == "":
		return "city", false
	case r.PostalCode == "":
		return "postalCode", false
	}
	return "", true
}

// GET /api/addresses
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	addresses, err := h.addresses.ListByUser(r.Context(), identity.ShopperID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	if addresses == nil {
		addresses = []domain.Address{}
	}

	respondJSON(w, http.StatusOK, addresses)
}

// POST /api/addresses
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req addressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if field, valid := req.validate(); !valid {
		respondError(w, http.StatusBadRequest, field, field+" is required")
		return
	}

	address := &domain.Address{
		UserID:     identity.ShopperID,
		Name:       req.Name,
		Phone:      req.Phone,
		Street:     req.Street,
		Unit:       req.Unit,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}

	created, err := h.addresses.Insert(r.Context(), address)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// PUT /api/addresses/{id}
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	id := chi.URLParam(r, "id")

	var req addressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if field, valid := req.validate(); !valid {
		respondError(w, http.StatusBadRequest, field, field+" is required")
		return
	}

	updated, err := h.addresses.Update(r.Context(), identity.ShopperID, id, domain.Address{
		Name:       req.Name,
		Phone:      req.Phone,
		Street:     req.Street,
		Unit:       req.Unit,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "address not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// DELETE /api/addresses/{id}
func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.addresses.Delete(r.Context(), identity.ShopperID, id); err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "address not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// PUT /api/addresses/{id}/default
func (h *AddressHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.addresses.SetDefault(r.Context(), identity.ShopperID, id); err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "address not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
