package explore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"

	"github.com/sathi-travel/sathi-api/internal/ai"
	"github.com/sathi-travel/sathi-api/internal/sources"
	"github.com/sathi-travel/sathi-api/internal/types"
)

// AIFallback invents plausible fictional content for areas where every real
// source came up empty. Generated records are clearly marked with the "ai"
// source so clients can badge them.
type AIFallback struct {
	gen    ai.Generator
	logger *slog.Logger
}

func NewAIFallback(gen ai.Generator, logger *slog.Logger) *AIFallback {
	if gen == nil {
		return nil
	}
	return &AIFallback{gen: gen, logger: logger}
}

type generatedPlace struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Vicinity    string  `json:"vicinity"`
	Category    string  `json:"category"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	PhotoHint   string  `json:"photo_hint"`
}

// Generate asks the model for fictional places around the query point.
// Returns nil on any failure; the caller degrades to the placeholder.
func (f *AIFallback) Generate(ctx context.Context, req types.ExploreRequest, area string) *types.ExploreResult {
	ctx, span := otel.Tracer("ExploreService").Start(ctx, "GenerateFallbackPlaces")
	defer span.End()

	prompt := fallbackPlacesPrompt(req.Lat, req.Lon, area)
	span.SetAttributes(attribute.Int("prompt.length", len(prompt)))

	raw, err := f.gen.GenerateContent(ctx, prompt, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](ai.DefaultTemperature),
	})
	if err != nil {
		f.logger.WarnContext(ctx, "AI fallback generation failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		return nil
	}

	var parsed struct {
		Places []generatedPlace `json:"places"`
	}
	if err := json.Unmarshal([]byte(ai.CleanJSONResponse(raw)), &parsed); err != nil {
		f.logger.WarnContext(ctx, "AI fallback returned unparseable JSON", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unparseable response")
		return nil
	}
	if len(parsed.Places) == 0 {
		span.SetStatus(codes.Error, "Empty generation")
		return nil
	}

	result := &types.ExploreResult{
		Places:      []types.Place{},
		Hotels:      []types.Place{},
		Restaurants: []types.Place{},
		Source:      sources.SourceAI,
		Area:        area,
	}
	for _, gp := range parsed.Places {
		if gp.Name == "" {
			continue
		}
		lat, lon := gp.Latitude, gp.Longitude
		if lat == 0 && lon == 0 {
			lat, lon = req.Lat, req.Lon
		}
		place := types.Place{
			PlaceID:     fmt.Sprintf("ai-%s", uuid.New().String()),
			Name:        gp.Name,
			Description: gp.Description,
			Vicinity:    gp.Vicinity,
			PhotoHint:   gp.PhotoHint,
			Types:       []string{"ai_generated", gp.Category},
			Point:       types.GeoPoint{Lat: lat, Lon: lon},
			Source:      sources.SourceAI,
		}
		switch gp.Category {
		case "hotel":
			result.Hotels = append(result.Hotels, place)
		case "restaurant":
			result.Restaurants = append(result.Restaurants, place)
		default:
			result.Places = append(result.Places, place)
		}
	}
	if result.Total() == 0 {
		return nil
	}

	span.SetAttributes(attribute.Int("generated.count", result.Total()))
	span.SetStatus(codes.Ok, "Fallback content generated")
	return result
}

func fallbackPlacesPrompt(lat, lon float64, area string) string {
	location := fmt.Sprintf("latitude %.4f and longitude %.4f", lat, lon)
	if area != "" {
		location = fmt.Sprintf("%s (near %s)", location, area)
	}
	return fmt.Sprintf(`
            Invent a list of 6 to 9 plausible travel spots around %s.
            Mix sightseeing places, one or two hotels, and one or two restaurants.
            Return the response STRICTLY as a JSON object with:
            {
            "places": [
                {
                "name": "Name of the spot",
                "description": "A 2-3 sentence traveler-facing description.",
                "vicinity": "Street or neighbourhood",
                "category": "place | hotel | restaurant",
                "latitude": <float close to the given point>,
                "longitude": <float close to the given point>,
                "photo_hint": "Two or three words describing a stock photo for it"
                }
            ]
            }`, location)
}
