package http

import (
	"errors"
	"net/http"

	"github.com/YashRajNegi/Uttranjali/internal/domain"
	"github.com/YashRajNegi/Uttranjali/internal/repository"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	catalog repository.ProductRepository
}

func NewProductHandler(catalog repository.ProductRepository) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// GET /api/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	respondJSON(w, http.StatusOK, products)
}

// GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, product)
}
