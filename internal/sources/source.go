// Package sources contains one client per third-party geographic data
// provider. Each client wraps a single HTTP API behind the shared Source
// interface and its own rate limiter, retry policy, and circuit breaker,
// and returns records already normalized into the common Place shape.
package sources

import (
	"context"

	"github.com/sathi-travel/sathi-api/internal/types"
)

// Source names, in cascade priority order.
const (
	SourceQdrant        = "qdrant"
	SourceRapidAPI      = "rapidapi"
	SourceGeoapify      = "geoapify"
	SourceOpenStreetMap = "openstreetmap"
	SourceOpenTripMap   = "opentripmap"
	SourceAI            = "ai"
)

// SearchRequest asks a source for places of one category around a point.
type SearchRequest struct {
	Lat      float64
	Lon      float64
	RadiusM  int
	Category types.PlaceCategory
	Limit    int
}

// Source is the contract every provider client implements.
type Source interface {
	// Name returns the cascade identifier of the provider.
	Name() string
	// Search returns normalized places for one category around a point.
	// Implementations must respect ctx and their own rate limits.
	Search(ctx context.Context, req SearchRequest) ([]types.Place, error)
}
