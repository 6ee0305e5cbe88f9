package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/sathi-travel/sathi-api/app/observability/metrics"
	"github.com/sathi-travel/sathi-api/internal/ai"
	"github.com/sathi-travel/sathi-api/internal/types"
)

const maxItineraryDays = 14

var _ Service = (*ServiceImpl)(nil)

// Service defines the itinerary planning contract.
type Service interface {
	PlanItinerary(ctx context.Context, req types.ItineraryRequest) (*types.Itinerary, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	gen    ai.Generator
}

func NewServiceImpl(gen ai.Generator, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		gen:    gen,
	}
}

func (s *ServiceImpl) PlanItinerary(ctx context.Context, req types.ItineraryRequest) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "PlanItinerary", trace.WithAttributes(
		attribute.String("destination", req.Destination),
		attribute.Int("days", req.Days),
	))
	defer span.End()

	if req.Destination == "" {
		return nil, fmt.Errorf("destination is required")
	}
	if req.Days <= 0 || req.Days > maxItineraryDays {
		return nil, fmt.Errorf("days must be between 1 and %d, got %d", maxItineraryDays, req.Days)
	}

	m := metrics.Get()
	startTime := time.Now()

	prompt := itineraryPrompt(req)
	span.SetAttributes(attribute.Int("prompt.length", len(prompt)))

	m.AIRequestsTotal.Add(ctx, 1)
	raw, err := s.gen.GenerateContent(ctx, prompt, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](ai.DefaultTemperature),
	})
	m.AILatencySeconds.Record(ctx, time.Since(startTime).Seconds())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		return nil, fmt.Errorf("failed to generate itinerary: %w", err)
	}

	var parsed struct {
		Summary string               `json:"summary"`
		Days    []types.ItineraryDay `json:"days"`
		Tips    []string             `json:"tips"`
	}
	if err := json.Unmarshal([]byte(ai.CleanJSONResponse(raw)), &parsed); err != nil {
		s.logger.ErrorContext(ctx, "Failed to parse itinerary JSON", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unparseable response")
		return nil, fmt.Errorf("failed to parse itinerary JSON: %w", err)
	}
	if len(parsed.Days) == 0 {
		err := fmt.Errorf("no itinerary days returned from AI")
		span.RecordError(err)
		span.SetStatus(codes.Error, "Empty itinerary")
		return nil, err
	}

	// Models occasionally drift on day numbering; renumber sequentially.
	for i := range parsed.Days {
		parsed.Days[i].Day = i + 1
	}

	itinerary := &types.Itinerary{
		ID:          uuid.New(),
		Destination: req.Destination,
		Summary:     parsed.Summary,
		Days:        parsed.Days,
		Tips:        parsed.Tips,
	}

	span.SetAttributes(attribute.Int("itinerary.days", len(itinerary.Days)))
	span.SetStatus(codes.Ok, "Itinerary generated")
	return itinerary, nil
}
