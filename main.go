package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appLogger "github.com/sathi-travel/sathi-api/app/logger"
	"github.com/sathi-travel/sathi-api/app/observability/metrics"
	"github.com/sathi-travel/sathi-api/app/tracer"
	"github.com/sathi-travel/sathi-api/internal/ai"
	"github.com/sathi-travel/sathi-api/internal/api/explore"
	"github.com/sathi-travel/sathi-api/internal/api/planner"
	"github.com/sathi-travel/sathi-api/internal/api/translate"
	api "github.com/sathi-travel/sathi-api/internal/router"
	"github.com/sathi-travel/sathi-api/internal/sources"

	"github.com/sathi-travel/sathi-api/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/patrickmn/go-cache"
)

func main() {
	// --- Initial Loading ---
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	// --- Logger Setup ---
	logger := setupLogger()
	slog.SetDefault(logger) // Set globally after initialization

	// --- Application Context & Shutdown ---
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability Setup ---
	tracer.InitTracingAndMetrics(cfg.Server.MetricsPort)
	metrics.InitAppMetrics()

	// --- AI Client (optional) ---
	// Itinerary, translation, and the last-resort explore fallback all need
	// Gemini; everything else keeps working without a key.
	var aiClient *ai.Client
	if cfg.Keys.Gemini != "" {
		aiClient, err = ai.NewClient(ctx, cfg.Keys.Gemini, cfg.AI.Model)
		if err != nil {
			logger.Error("Failed to initialize AI client", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		logger.Warn("GOOGLE_GEMINI_API_KEY not set, AI features disabled")
	}

	// --- Place Sources ---
	// Ordered by trust: curated vectors first, community data last.
	// Unconfigured providers are skipped rather than registered broken.
	var placeSources []sources.Source
	if cfg.Providers.Qdrant.URL != "" {
		placeSources = append(placeSources, sources.NewQdrant(cfg.Providers.Qdrant.URL, cfg.Keys.Qdrant, cfg.Providers.Qdrant.Collection, logger))
	}
	if cfg.Keys.RapidAPI != "" {
		placeSources = append(placeSources, sources.NewRapidAPI(cfg.Providers.RapidAPI.BaseURL, cfg.Keys.RapidAPI, logger))
	}
	var geocoder explore.Geocoder
	if cfg.Keys.Geoapify != "" {
		geoapify := sources.NewGeoapify(cfg.Providers.Geoapify.BaseURL, cfg.Keys.Geoapify, logger)
		placeSources = append(placeSources, geoapify)
		geocoder = geoapify
	}
	placeSources = append(placeSources, sources.NewOverpass(cfg.Providers.Overpass.Endpoints, logger))
	if cfg.Keys.OpenTripMap != "" {
		placeSources = append(placeSources, sources.NewOpenTripMap(cfg.Providers.OpenTripMap.BaseURL, cfg.Keys.OpenTripMap, logger))
	}
	logger.Info("Registered place sources", slog.Int("count", len(placeSources)))

	// --- Dependency Injection ---
	exploreCache := cache.New(cfg.Explore.CacheTTL, cfg.Explore.CacheSweepEvery)
	var generator ai.Generator
	if aiClient != nil {
		generator = aiClient
	}
	exploreService := explore.NewServiceImpl(placeSources, explore.NewAIFallback(generator, logger), geocoder, exploreCache, logger)
	exploreHandler := explore.NewExploreHandler(exploreService, logger)

	plannerService := planner.NewServiceImpl(generator, logger)
	plannerHandler := planner.NewPlannerHandler(plannerService, logger)

	translateService := translate.NewServiceImpl(generator, logger)
	translateHandler := translate.NewTranslateHandler(translateService, logger)

	// --- Router Setup ---
	routerConfig := &api.Config{
		ExploreHandler:   exploreHandler,
		PlannerHandler:   plannerHandler,
		TranslateHandler: translateHandler,
	}
	mainRouter := api.SetupRouter(routerConfig)

	router := chi.NewMux() // Use NewMux for Chi v5
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger)) // Use your slog middleware
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(cfg.Server.Timeout))
	router.Use(middleware.Compress(5, "application/json")) // Compress JSON responses
	router.Mount("/", mainRouter)

	// --- HTTP Server Setup ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router, // Use your Chi router
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second, // AI-backed endpoints are slow
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError), // Pipe server errors to slog
	}

	// --- Start Server Goroutine ---
	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel() // Trigger shutdown if server fails unexpectedly
		}
	}()

	// --- Wait for Shutdown Signal ---
	<-ctx.Done() // Block until context is cancelled (Ctrl+C, SIGTERM)

	// --- Graceful Shutdown ---
	logger.Info("Shutdown signal received, starting graceful shutdown...")

	// Create a context with timeout for shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second) // 10 seconds to shutdown
	defer shutdownCancel()

	// Attempt to gracefully shut down the HTTP server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" { // Default to development if not set
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug, // More verbose in dev
			TimeFormat: time.Kitchen,
			AddSource:  true, // Show file:line
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)") // Use standard log before slog default is set
	} else {
		// JSON logs for production or other environments
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false, // Don't add source in prod unless needed for specific errors
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
