// Package rest wires the HTTP surface: routing, middleware and handlers.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nodal-backend/infrastructure/di"
	"nodal-backend/interfaces/http/rest/handlers"
	"nodal-backend/interfaces/http/rest/middleware"
	"nodal-backend/pkg/common"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{container: container}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	c := rt.container
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logging(c.Logger))
	router.Use(middleware.Instrument(c.Metrics))

	if c.Config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   c.Config.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Operational endpoints, no auth
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(c.Metrics.Registry(), promhttp.HandlerOpts{}))

	authenticator := middleware.NewAuthenticator(c.Supabase, c.Logger)
	questionHandler := handlers.NewQuestionHandler(c.Service, c.Logger)
	explorationHandler := handlers.NewExplorationHandler(c.Service, c.Logger)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticator.Middleware)

		r.Route("/questions", func(r chi.Router) {
			r.With(middleware.RateLimit(c.RateLimiter)).Post("/validate", questionHandler.Validate)
		})

		r.Route("/graphs", func(r chi.Router) {
			r.Get("/", explorationHandler.List)
			r.With(middleware.RateLimit(c.RateLimiter)).Post("/", explorationHandler.Create)

			r.Route("/{slug}", func(r chi.Router) {
				r.Get("/", explorationHandler.Get)
				r.Delete("/", explorationHandler.Delete)
				r.With(middleware.RateLimit(c.RateLimiter)).Post("/nodes", explorationHandler.Expand)
				r.Post("/nodes/{nodeID}/delete", explorationHandler.DeleteNode)
			})
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (rt *Router) readinessCheck(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
