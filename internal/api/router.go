package api

import (
	"log/slog"

	"github.com/dieptv1999/trustkeys-connector/internal/api/handlers"
	"github.com/dieptv1999/trustkeys-connector/internal/api/middleware"
	"github.com/dieptv1999/trustkeys-connector/internal/config"
	"github.com/dieptv1999/trustkeys-connector/internal/connector"
	"github.com/dieptv1999/trustkeys-connector/internal/journal"
	"github.com/dieptv1999/trustkeys-connector/internal/relay"
	"github.com/go-chi/chi/v5"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(c *connector.Connector, hub *relay.SSEHub, store *journal.Store, cfg *config.Config) chi.Router {
	r := chi.NewRouter()

	// Middleware stack (order matters)
	r.Use(middleware.RequestLogging)
	r.Use(middleware.HostCheck)
	r.Use(middleware.CORS)

	slog.Info("router initialized",
		"middleware", []string{"requestLogging", "hostCheck", "cors"},
	)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.HealthHandler(cfg, Version))

		r.Route("/session", func(r chi.Router) {
			r.Post("/activate", handlers.Activate(c))
			r.Delete("/", handlers.Deactivate(c))
			r.Get("/chain-id", handlers.ChainID(c))
			r.Get("/account", handlers.Account(c))
			r.Get("/authorized", handlers.Authorized(c))
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", handlers.StreamEvents(hub))
			r.Get("/history", handlers.EventHistory(store))
		})
	})

	return r
}
