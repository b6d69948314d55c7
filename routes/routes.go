package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sumeet-singh-parmar/aws-commander/app"
	"github.com/sumeet-singh-parmar/aws-commander/handlers"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoints
	r.Get("/healthz", handlers.HealthHandler(deps))
	r.Get("/readyz", handlers.ReadinessHandler(deps))

	// API v1 routes (all require a gateway-minted caller token)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireAuth)

		r.Route("/actions", func(r chi.Router) {
			r.Post("/execute", handlers.ExecuteActionHandler(deps))
		})

		r.Route("/credentials", func(r chi.Router) {
			r.Put("/", handlers.SaveCredentialHandler(deps))
			r.Get("/", handlers.GetCredentialHandler(deps))
			r.Delete("/", handlers.DeleteCredentialHandler(deps))
		})

		r.Route("/consents", func(r chi.Router) {
			r.Get("/", handlers.ListConsentsHandler(deps))
			r.Post("/{category}", handlers.GrantConsentHandler(deps))
			r.Delete("/{category}", handlers.RevokeConsentHandler(deps))
			r.Delete("/", handlers.RevokeAllConsentsHandler(deps))
		})

		r.Route("/preferences", func(r chi.Router) {
			r.Get("/", handlers.ListPreferencesHandler(deps))
			r.Get("/legacy", handlers.GetLegacyPreferenceHandler(deps))
			r.Put("/legacy", handlers.SaveLegacyPreferenceHandler(deps))
			r.Put("/{type}", handlers.SavePreferenceHandler(deps))
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
