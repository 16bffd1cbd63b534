package router

import (
	"net/http"

	"linkbot/internal/handler"
	"linkbot/internal/middleware"

	"github.com/rs/zerolog"
)

// healthPath is served without an API key.
const healthPath = "/health"

// New builds the admin API: Recovery, Logging, RequestID and APIKeyAuth wrap
// the routes, outermost first.
func New(
	promoHandler *handler.PromoHandler,
	linkHandler *handler.LinkHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(healthPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.Handle("/api/promo", promoHandler)
	mux.HandleFunc("/api/links", linkHandler.List)

	return middleware.Chain(mux,
		middleware.Recovery(logger),
		middleware.Logging(logger),
		middleware.RequestID,
		middleware.APIKeyAuth(apiKey, logger, healthPath),
	)
}
