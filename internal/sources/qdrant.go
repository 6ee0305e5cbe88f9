package sources

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sathi-travel/sathi-api/internal/normalize"
	"github.com/sathi-travel/sathi-api/internal/types"
)

// Qdrant reads the pre-indexed places collection over the Qdrant REST API.
// It is the first tier of the cascade: cheap, already curated, but only
// covers areas that have been indexed.
type Qdrant struct {
	caller     *caller
	baseURL    string
	apiKey     string
	collection string
	logger     *slog.Logger
}

func NewQdrant(baseURL, apiKey, collection string, logger *slog.Logger) *Qdrant {
	return &Qdrant{
		caller:     newCaller(SourceQdrant, 10, 5, 10*time.Second, logger),
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		collection: collection,
		logger:     logger,
	}
}

func (q *Qdrant) Name() string { return SourceQdrant }

type qdrantScrollRequest struct {
	Filter      qdrantFilter `json:"filter"`
	Limit       int          `json:"limit"`
	WithPayload bool         `json:"with_payload"`
}

type qdrantFilter struct {
	Must []qdrantCondition `json:"must"`
}

type qdrantCondition struct {
	Key       string           `json:"key,omitempty"`
	GeoRadius *qdrantGeoRadius `json:"geo_radius,omitempty"`
	Match     *qdrantMatch     `json:"match,omitempty"`
}

type qdrantGeoRadius struct {
	Center types.GeoPoint `json:"center"`
	Radius float64        `json:"radius"` // meters
}

type qdrantMatch struct {
	Value string `json:"value"`
}

type qdrantScrollResponse struct {
	Result struct {
		Points []struct {
			ID      any           `json:"id"`
			Payload qdrantPayload `json:"payload"`
		} `json:"points"`
	} `json:"result"`
}

type qdrantPayload struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Vicinity    string         `json:"vicinity"`
	Rating      float64        `json:"rating"`
	PhotoURL    string         `json:"photo_url"`
	PhotoHint   string         `json:"photo_hint"`
	Types       []string       `json:"types"`
	Category    string         `json:"category"`
	Location    types.GeoPoint `json:"location"`
}

// Search scrolls the collection with a geo_radius filter. There is no query
// embedding on this path; the index payload is trusted and similarity
// ordering is unnecessary for a radius lookup.
func (q *Qdrant) Search(ctx context.Context, req SearchRequest) ([]types.Place, error) {
	body := qdrantScrollRequest{
		Filter: qdrantFilter{
			Must: []qdrantCondition{
				{Key: "location", GeoRadius: &qdrantGeoRadius{
					Center: types.GeoPoint{Lat: req.Lat, Lon: req.Lon},
					Radius: float64(req.RadiusM),
				}},
				{Key: "category", Match: &qdrantMatch{Value: string(req.Category)}},
			},
		},
		Limit:       req.Limit,
		WithPayload: true,
	}

	headers := map[string]string{}
	if q.apiKey != "" {
		headers["api-key"] = q.apiKey
	}

	var resp qdrantScrollResponse
	endpoint := fmt.Sprintf("%s/collections/%s/points/scroll", q.baseURL, q.collection)
	if err := q.caller.postJSON(ctx, endpoint, headers, body, &resp); err != nil {
		return nil, err
	}

	places := make([]types.Place, 0, len(resp.Result.Points))
	for _, pt := range resp.Result.Points {
		p := pt.Payload
		if p.Name == "" {
			continue
		}
		place := types.Place{
			PlaceID:     normalize.PlaceID(SourceQdrant, fmt.Sprint(pt.ID)),
			Name:        normalize.CleanName(p.Name),
			Description: p.Description,
			Vicinity:    p.Vicinity,
			Rating:      p.Rating,
			PhotoURL:    p.PhotoURL,
			PhotoHint:   p.PhotoHint,
			Types:       p.Types,
			Point:       p.Location,
			Source:      SourceQdrant,
			Category:    req.Category,
		}
		if p.Category != "" {
			place.Category = types.PlaceCategory(p.Category)
		}
		places = append(places, place)
	}
	return places, nil
}
