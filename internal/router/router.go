package router

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/contactrelay/contact-api/internal/middleware"
	"github.com/contactrelay/contact-api/internal/middleware/metrics"
	"github.com/contactrelay/contact-api/internal/setup"
)

// New creates and configures the mux router with all routes.
// The rate limiter guards only the submission endpoint.
func New(deps *setup.Dependencies) *mux.Router {
	cfg := deps.Config
	h := deps.Handler
	secure := mw.SecurityHeaders(cfg.Public.SecureTransport)

	r := mux.NewRouter()

	r.Use(mw.RequestID)
	r.Use(handlers.CompressHandler)
	r.Use(handlers.CORS(
		handlers.AllowedOrigins(cfg.Public.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	))
	r.Use(secure)
	r.Use(metrics.Middleware)
	r.Use(mw.Recover)

	// Wildcard OPTIONS handler so preflight requests never 404
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// mux invokes these outside the middleware chain, so apply the
	// header middleware by hand.
	r.NotFoundHandler = secure(http.HandlerFunc(h.NotFound))
	r.MethodNotAllowedHandler = secure(http.HandlerFunc(h.NotFound))

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	api.HandleFunc("/ready", h.Ready).Methods(http.MethodGet)

	contact := api.NewRoute().Subrouter()
	contact.Use(mw.MaxBodySize(cfg.Public.MaxBodyBytes))
	contact.Use(mw.RateLimit(deps.Limiter, mw.ClientIP))
	contact.HandleFunc("/contact", h.Contact).Methods(http.MethodPost)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}
