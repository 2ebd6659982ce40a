package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/mgearon/tag-arena-backend/internal/coord"
	"github.com/mgearon/tag-arena-backend/internal/ws"
)

// SetupRoutes builds the router with the coordinator injected. staticDir, when
// non-empty, serves the client bundle at the root.
func SetupRoutes(co *coord.Coordinator, log *zap.Logger, staticDir string) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(co, log))
	if staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	}

	// Allow any origin; clients connect straight from the game page.
	return cors.AllowAll().Handler(r)
}
