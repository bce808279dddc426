package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Catalog  *CatalogHandler
	Orders   *OrdersHandler
	Wishlist *WishlistHandler
}

// NewRouter builds the session API router with the shared middleware stack.
func NewRouter(h Handlers, requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.Cart.GetCart)
		r.Delete("/", h.Cart.ClearCart)
		r.Get("/quote", h.Cart.Quote)
		r.Post("/items", h.Cart.AddItem)
		r.Put("/items/{product_id}", h.Cart.UpdateQuantity)
		r.Delete("/items/{product_id}", h.Cart.RemoveItem)
	})

	r.Route("/checkout", func(r chi.Router) {
		r.Post("/cod", h.Checkout.PlaceCOD)
		r.Post("/prepaid", h.Checkout.BeginPrepaid)
		r.Post("/prepaid/confirm", h.Checkout.ConfirmPrepaid)
	})

	r.Get("/products", h.Catalog.List)
	r.Get("/products/{slug}", h.Catalog.BySlug)

	r.Get("/orders", h.Orders.List)
	r.Get("/orders/{id}", h.Orders.ByID)

	r.Post("/wishlist/{product_id}", h.Wishlist.Toggle)

	return r
}
