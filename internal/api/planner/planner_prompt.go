package planner

import (
	"fmt"
	"strings"

	"github.com/sathi-travel/sathi-api/internal/types"
)

func itineraryPrompt(req types.ItineraryRequest) string {
	interests := "general sightseeing"
	if len(req.Interests) > 0 {
		interests = strings.Join(req.Interests, ", ")
	}
	budget := req.Budget
	if budget == "" {
		budget = "mid-range"
	}
	return fmt.Sprintf(`
            Plan a %d-day trip to %s for a traveler interested in %s on a %s budget.
            Keep each day realistic: nearby activities grouped together, with travel time in mind.
            Return the response STRICTLY as a JSON object with:
            {
            "summary": "A 2-3 sentence overview of the trip.",
            "days": [
                {
                "day": <int>,
                "title": "Short theme of the day",
                "morning": "Morning plan in 1-2 sentences",
                "afternoon": "Afternoon plan in 1-2 sentences",
                "evening": "Evening plan in 1-2 sentences",
                "highlights": ["Name of a key spot", "..."]
                }
            ],
            "tips": ["Practical tip for this destination", "..."]
            }`, req.Days, req.Destination, interests, budget)
}
