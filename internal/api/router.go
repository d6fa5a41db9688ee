package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/bizdesk/backend/docs" // swagger docs
)

func NewRouter(h *Handler, mw *Middleware) http.Handler {
	mux := chi.NewRouter()
	mux.Use(mw.Log, mw.Recover, mw.Cors)

	collections := h.s.Collections()

	mux.Route("/api", func(r chi.Router) {
		r.HandleFunc("/health", h.Health)
		r.HandleFunc("/swagger/*", httpSwagger.Handler())

		// Arrives from Google without our bearer token.
		r.Get("/drive/callback", h.DriveCallback)

		r.Route("/private", func(r chi.Router) {
			r.Use(mw.APIKeyAuth)
			r.Post("/jobs/low-stock", h.TriggerLowStockScan)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.BearerAuth)

			r.Route("/clients", func(r chi.Router) { mountResource(r, collections.Clients) })
			r.Route("/projects", func(r chi.Router) { mountResource(r, collections.Projects) })
			r.Route("/deals", func(r chi.Router) { mountResource(r, collections.Deals) })
			r.Route("/tasks", func(r chi.Router) { mountResource(r, collections.Tasks) })
			r.Route("/transactions", func(r chi.Router) { mountResource(r, collections.Transactions) })
			r.Route("/events", func(r chi.Router) { mountResource(r, collections.Events) })
			r.Route("/notes", func(r chi.Router) { mountResource(r, collections.Notes) })
			r.Route("/interactions", func(r chi.Router) { mountResource(r, collections.Interactions) })

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/low-stock", h.LowStock)
				mountResource(r, collections.Inventory)
			})

			r.Route("/documents", func(r chi.Router) {
				r.Post("/upload", h.UploadDocument)
				mountResource(r, collections.Documents)
			})

			r.Get("/dashboard", h.Dashboard)
			r.Get("/dashboard/cashflow", h.CashFlow)

			r.Get("/drive/auth-url", h.DriveAuthURL)
			r.Get("/drive/status", h.DriveStatus)
		})
	})

	return mux
}
