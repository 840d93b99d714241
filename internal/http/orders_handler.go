package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/YashRajNegi/Uttranjali/internal/domain"
	"github.com/go-chi/chi/v5"
)

// orderWorkflow is the slice of the order service these handlers
// consume; tests substitute it.
type orderWorkflow interface {
	Create(ctx context.Context, shopperID string, items []domain.OrderItem, address domain.ShippingAddress, paymentMethod string, pricing domain.OrderPricing) (*domain.Order, error)
	Get(ctx context.Context, caller domain.Identity, id string) (*domain.Order, error)
	ListForShopper(ctx context.Context, shopperID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	TransitionStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	ConfirmPayment(ctx context.Context, caller domain.Identity, id, gatewayPaymentID, payerEmail string) (*domain.Order, error)
}

type checkoutFlow interface {
	Quote(ctx context.Context, shopperID string) (*domain.OrderPricing, error)
	Checkout(ctx context.Context, shopperID, addressID, paymentMethod string) (*domain.Order, error)
}

type OrdersHandler struct {
	orders   orderWorkflow
	checkout checkoutFlow
}

func NewOrdersHandler(orders orderWorkflow, checkout checkoutFlow) *OrdersHandler {
	return &OrdersHandler{
		orders:   orders,
		checkout: checkout,
	}
}

type createOrderRequest struct {
	OrderItems      []domain.OrderItem     `json:"orderItems"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	ItemsPrice      float64                `json:"itemsPrice"`
	TaxPrice        float64                `json:"taxPrice"`
	ShippingPrice   float64                `json:"shippingPrice"`
	TotalPrice      float64                `json:"totalPrice"`
}

// POST /api/orders
func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	pricing := domain.OrderPricing{
		ItemsPrice:    req.ItemsPrice,
		TaxPrice:      req.TaxPrice,
		ShippingPrice: req.ShippingPrice,
		TotalPrice:    req.TotalPrice,
	}

	order, err := h.orders.Create(r.Context(), identity.ShopperID, req.OrderItems, req.ShippingAddress, req.PaymentMethod, pricing)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

type checkoutRequest struct {
	AddressID     string `json:"addressId"`
	PaymentMethod string `json:"paymentMethod"`
}

// POST /api/orders/checkout
func (h *OrdersHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "card"
	}

	order, err := h.checkout.Checkout(r.Context(), identity.ShopperID, req.AddressID, req.PaymentMethod)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// GET /api/orders/quote
func (h *OrdersHandler) Quote(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	pricing, err := h.checkout.Quote(r.Context(), identity.ShopperID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pricing)
}

// GET /api/orders/myorders
func (h *OrdersHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orders, err := h.orders.ListForShopper(r.Context(), identity.ShopperID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}

// GET /api/orders/{id}
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order id is required")
		return
	}

	order, err := h.orders.Get(r.Context(), identity, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

type confirmPaymentRequest struct {
	GatewayPaymentID string `json:"id"`
	EmailAddress     string `json:"email_address"`
}

// PUT /api/orders/{id}/pay
func (h *OrdersHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order id is required")
		return
	}

	var req confirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.orders.ConfirmPayment(r.Context(), identity, orderID, req.GatewayPaymentID, req.EmailAddress)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// GET /api/orders [staff]
func (h *OrdersHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// PUT /api/orders/{id}/status [staff]
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order id is required")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.orders.TransitionStatus(r.Context(), orderID, req.Status)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// PUT /api/orders/{id}/deliver [staff]
func (h *OrdersHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order id is required")
		return
	}

	order, err := h.orders.TransitionStatus(r.Context(), orderID, domain.OrderStatusDelivered)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}
