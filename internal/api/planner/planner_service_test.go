package planner

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/sathi-travel/sathi-api/internal/types"
)

type stubGenerator struct {
	response string
	err      error
	prompt   string
}

func (g *stubGenerator) GenerateContent(_ context.Context, prompt string, _ *genai.GenerateContentConfig) (string, error) {
	g.prompt = prompt
	return g.response, g.err
}

const itineraryJSON = `{
	"summary": "Three relaxed days around the Kathmandu valley.",
	"days": [
		{"day": 5, "title": "Old Town", "morning": "Durbar Square walk.", "afternoon": "Museum visit.", "evening": "Rooftop dinner.", "highlights": ["Durbar Square"]},
		{"day": 9, "title": "Boudha", "morning": "Kora at the stupa.", "afternoon": "Monastery visit.", "evening": "Cafe by the stupa.", "highlights": ["Boudhanath"]}
	],
	"tips": ["Carry small bills."]
}`

func TestPlanItinerary(t *testing.T) {
	gen := &stubGenerator{response: "```json\n" + itineraryJSON + "\n```"}
	svc := NewServiceImpl(gen, slog.Default())

	itinerary, err := svc.PlanItinerary(context.Background(), types.ItineraryRequest{
		Destination: "Kathmandu",
		Days:        2,
		Interests:   []string{"history", "food"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Kathmandu", itinerary.Destination)
	assert.NotEmpty(t, itinerary.Summary)
	require.Len(t, itinerary.Days, 2)
	// Day numbering from the model is normalized to be sequential.
	assert.Equal(t, 1, itinerary.Days[0].Day)
	assert.Equal(t, 2, itinerary.Days[1].Day)
	assert.NotEqual(t, itinerary.ID.String(), "00000000-0000-0000-0000-000000000000")

	assert.Contains(t, gen.prompt, "Kathmandu")
	assert.Contains(t, gen.prompt, "history, food")
}

func TestPlanItineraryValidation(t *testing.T) {
	svc := NewServiceImpl(&stubGenerator{}, slog.Default())

	_, err := svc.PlanItinerary(context.Background(), types.ItineraryRequest{Days: 3})
	assert.Error(t, err, "destination is required")

	_, err = svc.PlanItinerary(context.Background(), types.ItineraryRequest{Destination: "Pokhara", Days: 0})
	assert.Error(t, err)

	_, err = svc.PlanItinerary(context.Background(), types.ItineraryRequest{Destination: "Pokhara", Days: 99})
	assert.Error(t, err, "day count is capped")
}

func TestPlanItineraryGenerationFailures(t *testing.T) {
	svc := NewServiceImpl(&stubGenerator{err: errors.New("model unavailable")}, slog.Default())
	_, err := svc.PlanItinerary(context.Background(), types.ItineraryRequest{Destination: "Lisbon", Days: 3})
	assert.Error(t, err)

	svc = NewServiceImpl(&stubGenerator{response: "not json at all"}, slog.Default())
	_, err = svc.PlanItinerary(context.Background(), types.ItineraryRequest{Destination: "Lisbon", Days: 3})
	assert.Error(t, err)

	svc = NewServiceImpl(&stubGenerator{response: `{"summary":"x","days":[]}`}, slog.Default())
	_, err = svc.PlanItinerary(context.Background(), types.ItineraryRequest{Destination: "Lisbon", Days: 3})
	assert.Error(t, err, "empty day list is an error")
}
