package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/sathi-travel/sathi-api/config"
)

// seed_places loads a curated JSON file of places into the Qdrant
// collection the explore cascade scrolls. Points are payload-only, the
// collection needs no vectors, just a geo index on "location".
//
//	go run scripts/seed_places.go -file data/places.json

type seedPlace struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Vicinity    string   `json:"vicinity"`
	Rating      float64  `json:"rating"`
	PhotoURL    string   `json:"photo_url"`
	Category    string   `json:"category"`
	Types       []string `json:"types"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
}

func main() {
	file := flag.String("file", "data/places.json", "JSON file with places to seed")
	batchSize := flag.Int("batch", 100, "points per upsert request")
	flag.Parse()

	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *file, err)
	}
	var places []seedPlace
	if err := json.Unmarshal(raw, &places); err != nil {
		log.Fatalf("Failed to parse %s: %v", *file, err)
	}
	logger.Info("Loaded places", slog.Int("count", len(places)))

	seeder := &qdrantSeeder{
		baseURL:    cfg.Providers.Qdrant.URL,
		apiKey:     cfg.Keys.Qdrant,
		collection: cfg.Providers.Qdrant.Collection,
		client:     &http.Client{Timeout: 30 * time.Second},
	}

	if err := seeder.ensureCollection(ctx); err != nil {
		log.Fatalf("Failed to prepare collection: %v", err)
	}

	for start := 0; start < len(places); start += *batchSize {
		end := start + *batchSize
		if end > len(places) {
			end = len(places)
		}
		if err := seeder.upsert(ctx, start, places[start:end]); err != nil {
			log.Fatalf("Failed to upsert batch at %d: %v", start, err)
		}
		logger.Info("Upserted batch", slog.Int("from", start), slog.Int("to", end))
	}

	logger.Info("Seeding complete", slog.String("collection", seeder.collection))
}

type qdrantSeeder struct {
	baseURL    string
	apiKey     string
	collection string
	client     *http.Client
}

// ensureCollection creates a vectorless collection and a geo index on
// the "location" payload field. Both calls are idempotent enough for a
// seed script, an already-exists response is ignored.
func (s *qdrantSeeder) ensureCollection(ctx context.Context) error {
	create := map[string]any{"vectors": map[string]any{}}
	if err := s.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s", s.collection), create, true); err != nil {
		return err
	}
	index := map[string]any{"field_name": "location", "field_schema": "geo"}
	return s.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s/index", s.collection), index, true)
}

func (s *qdrantSeeder) upsert(ctx context.Context, offset int, batch []seedPlace) error {
	points := make([]map[string]any, 0, len(batch))
	for i, p := range batch {
		points = append(points, map[string]any{
			"id": offset + i + 1,
			"payload": map[string]any{
				"name":        p.Name,
				"description": p.Description,
				"vicinity":    p.Vicinity,
				"rating":      p.Rating,
				"photo_url":   p.PhotoURL,
				"category":    p.Category,
				"types":       p.Types,
				"location": map[string]float64{
					"lat": p.Latitude,
					"lon": p.Longitude,
				},
			},
		})
	}
	body := map[string]any{"points": points}
	return s.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s/points?wait=true", s.collection), body, false)
}

func (s *qdrantSeeder) do(ctx context.Context, method, path string, body any, allowConflict bool) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if allowConflict && resp.StatusCode == http.StatusConflict {
		return nil
	}
	return fmt.Errorf("%s %s returned status %d", method, path, resp.StatusCode)
}
