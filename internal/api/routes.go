package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes registers the API routes under /api/v1.
func SetupRoutes(
	router chi.Router,
	catalog Catalog,
	matrices Matrices,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(catalog, matrices, logger)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/sdks", handlers.SDKs)
		r.Route("/sdk-compmatrix", func(r chi.Router) {
			r.Get("/numbers", handlers.Numbers)
			r.Get("/apps", handlers.Apps)
		})
	})

	return nil
}
