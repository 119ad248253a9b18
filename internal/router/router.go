package router

import (
	"net/http"

	"shopfront/internal/auth"
	"shopfront/internal/handler"
	"shopfront/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates the HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	wishlistHandler *handler.WishlistHandler,
	verifier *auth.Verifier,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.Identify(verifier, logger))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		// Catalogue browsing needs no identity.
		r.Get("/products", productHandler.GetAll)
		r.Get("/products/{id}", productHandler.GetByID)

		// Cart routes work for both anonymous sessions and accounts.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireIdentity)
			r.Get("/cart", cartHandler.Get)
			r.Delete("/cart", cartHandler.Clear)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Put("/cart/items/{productID}", cartHandler.SetQuantity)
			r.Delete("/cart/items/{productID}", cartHandler.RemoveItem)
		})

		// Checkout, order history, wishlist and merging need an account.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAccount)
			r.Post("/cart/merge", cartHandler.Merge)
			r.Post("/orders", orderHandler.Create)
			r.Get("/orders", orderHandler.List)
			r.Get("/orders/{id}", orderHandler.GetByID)
			r.Get("/wishlist", wishlistHandler.Get)
			r.Post("/wishlist/{productID}/toggle", wishlistHandler.Toggle)
		})

		// Back-office status management.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole("admin"))
			r.Patch("/orders/{id}/status", orderHandler.UpdateStatus)
		})
	})

	return r
}
