// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"stampmarket/internal/api/handler"
)

// Handlers bundles the HTTP handlers the router wires up.
type Handlers struct {
	Wallet  *handler.WalletHandler
	Order   *handler.OrderHandler
	Catalog *handler.CatalogHandler
	Payment *handler.PaymentHandler
	Forum   *handler.ForumHandler
	Event   *handler.EventHandler
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(h Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Everything below requires an authenticated identity from the
	// upstream auth gateway.
	r.Group(func(r chi.Router) {
		r.Use(RequireIdentity)

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/balance", h.Wallet.GetBalance)
			r.Get("/transactions", h.Wallet.ListTransactions)
			r.Post("/topup", h.Wallet.TopUp)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.Order.PlaceOrder)
			r.Get("/", h.Order.ListMyOrders)
			r.Get("/{orderNumber}", h.Order.GetOrder)
			r.Post("/{orderNumber}/cancel", h.Order.CancelOrder)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Catalog.ListProducts)
			r.Get("/{id}", h.Catalog.GetProduct)
		})

		r.Route("/interests", func(r chi.Router) {
			r.Post("/", h.Catalog.RegisterInterest)
			r.Get("/", h.Catalog.ListInterests)
			r.Delete("/{productID}", h.Catalog.RemoveInterest)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/status", h.Payment.Status)
			r.Post("/charges", h.Payment.CreateCharge)
			r.Post("/confirm", h.Payment.ConfirmCharge)
		})

		r.Route("/forum", func(r chi.Router) {
			r.Route("/threads", func(r chi.Router) {
				r.Post("/", h.Forum.CreateThread)
				r.Get("/", h.Forum.ListThreads)
				r.Get("/{id}", h.Forum.GetThread)
				r.Delete("/{id}", h.Forum.DeleteThread)
				r.Post("/{id}/replies", h.Forum.AddReply)
				r.Get("/{id}/replies", h.Forum.ListReplies)
			})
			r.Delete("/replies/{id}", h.Forum.DeleteReply)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.Event.ListEvents)
			r.Get("/{id}", h.Event.GetEvent)
			r.Post("/{id}/rsvp", h.Event.RSVP)
			r.Get("/{id}/attendees", h.Event.ListAttendees)
		})

		// Admin-only surface
		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin)

			r.Route("/products", func(r chi.Router) {
				r.Post("/", h.Catalog.CreateProduct)
				r.Put("/{id}", h.Catalog.UpdateProduct)
				r.Delete("/{id}", h.Catalog.DeleteProduct)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.Order.ListAll)
				r.Put("/{orderNumber}/status", h.Order.UpdateStatus)
			})

			r.Route("/events", func(r chi.Router) {
				r.Post("/", h.Event.CreateEvent)
				r.Put("/{id}", h.Event.UpdateEvent)
				r.Delete("/{id}", h.Event.DeleteEvent)
			})
		})
	})

	return r
}
