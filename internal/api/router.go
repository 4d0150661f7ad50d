package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"walletscan/internal/api/handlers"
	"walletscan/internal/api/middleware"
	"walletscan/internal/scanner"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewRouter creates and configures the Chi router with all middleware and
// routes.
func NewRouter(client scanner.AssetClient) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogging)

	slog.Info("router initialized", "middleware", []string{"requestLogging"})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.HealthHandler(Version))
		r.Get("/networks", handlers.NetworksHandler())
		r.Get("/scan", handlers.ScanHandler(client))
		r.Get("/scan/csv", handlers.ScanCSVHandler(client))
	})

	return r
}
