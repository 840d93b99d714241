package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/YashRajNegi/Uttranjali/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterDeps struct {
	Orders    *OrdersHandler
	Cart      *CartHandler
	Addresses *AddressHandler
	Payments  *PaymentHandler
	Products  *ProductHandler
	Auth      auth.Provider
	Logger    *slog.Logger
	Timeout   time.Duration
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(deps.Timeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		// Catalog reads are public
		r.Get("/products", deps.Products.List)
		r.Get("/products/{id}", deps.Products.Get)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(deps.Auth, deps.Logger))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", deps.Cart.GetCart)
				r.Post("/items", deps.Cart.AddItem)
				r.Put("/items/{productId}", deps.Cart.UpdateQuantity)
				r.Delete("/items/{productId}", deps.Cart.RemoveItem)
				r.Delete("/", deps.Cart.Clear)
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", deps.Addresses.List)
				r.Post("/", deps.Addresses.Create)
				r.Put("/{id}", deps.Addresses.Update)
				r.Delete("/{id}", deps.Addresses.Delete)
				r.Put("/{id}/default", deps.Addresses.SetDefault)
			})

			r.Post("/payments/intent", deps.Payments.CreateIntent)

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", deps.Orders.Create)
				r.Post("/checkout", deps.Orders.Checkout)
				r.Get("/quote", deps.Orders.Quote)
				r.Get("/myorders", deps.Orders.ListMine)
				r.Get("/{id}", deps.Orders.Get)
				r.Put("/{id}/pay", deps.Orders.ConfirmPayment)

				r.Group(func(r chi.Router) {
					r.Use(RequireStaff)
					r.Get("/", deps.Orders.ListAll)
					r.Put("/{id}/status", deps.Orders.UpdateStatus)
					r.Put("/{id}/deliver", deps.Orders.MarkDelivered)
				})
			})
		})
	})

	return r
}
