package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors" // Import CORS middleware if needed
	"github.com/go-chi/httprate"

	"github.com/sathi-travel/sathi-api/internal/api/explore"
	"github.com/sathi-travel/sathi-api/internal/api/planner"
	"github.com/sathi-travel/sathi-api/internal/api/translate"
)

// Config contains dependencies needed for the router setup
type Config struct {
	ExploreHandler   *explore.ExploreHandler
	PlannerHandler   *planner.PlannerHandler
	TranslateHandler *translate.TranslateHandler
	AllowedOrigins   []string
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (like logger, requestID, recoverer) are expected
// to be applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	// Heartbeat/Health check endpoints (public)
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// The explore cascade fans out to metered upstream APIs; keep
		// clients honest before the per-provider limiters kick in.
		r.Use(httprate.LimitByIP(60, time.Minute))

		r.Get("/explore", cfg.ExploreHandler.Explore)
		r.Post("/planner/itinerary", cfg.PlannerHandler.PlanItinerary)
		r.Post("/translate", cfg.TranslateHandler.Translate)
		r.Post("/tts", cfg.TranslateHandler.Speak)
	})

	return r
}
