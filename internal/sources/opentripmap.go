package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sathi-travel/sathi-api/internal/normalize"
	"github.com/sathi-travel/sathi-api/internal/types"
)

// OpenTripMap wraps the OpenTripMap radius endpoint. The free key allows
// 5 requests per second.
type OpenTripMap struct {
	caller  *caller
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

func NewOpenTripMap(baseURL, apiKey string, logger *slog.Logger) *OpenTripMap {
	return &OpenTripMap{
		caller:  newCaller(SourceOpenTripMap, 5, 2, 10*time.Second, logger),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logger,
	}
}

func (o *OpenTripMap) Name() string { return SourceOpenTripMap }

// OpenTripMap kind groups per category. "accomodations" is the provider's
// own spelling.
var openTripMapKinds = map[types.PlaceCategory]string{
	types.CategoryPlace:      "interesting_places,cultural,natural,architecture",
	types.CategoryHotel:      "accomodations",
	types.CategoryRestaurant: "foods",
}

type openTripMapObject struct {
	XID   string  `json:"xid"`
	Name  string  `json:"name"`
	Rate  float64 `json:"rate"`
	Kinds string  `json:"kinds"`
	Point struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"point"`
}

func (o *OpenTripMap) Search(ctx context.Context, req SearchRequest) ([]types.Place, error) {
	kinds, ok := openTripMapKinds[req.Category]
	if !ok {
		kinds = openTripMapKinds[types.CategoryPlace]
	}

	params := url.Values{}
	params.Set("radius", strconv.Itoa(req.RadiusM))
	params.Set("lat", strconv.FormatFloat(req.Lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(req.Lon, 'f', 6, 64))
	params.Set("kinds", kinds)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(req.Limit))
	params.Set("apikey", o.apiKey)

	var objects []openTripMapObject
	endpoint := fmt.Sprintf("%s/0.1/en/places/radius?%s", o.baseURL, params.Encode())
	if err := o.caller.getJSON(ctx, endpoint, nil, &objects); err != nil {
		return nil, err
	}

	places := make([]types.Place, 0, len(objects))
	for _, obj := range objects {
		if obj.Name == "" || obj.XID == "" {
			continue
		}
		tags := strings.Split(obj.Kinds, ",")
		for i := range tags {
			tags[i] = strings.TrimSpace(tags[i])
		}
		places = append(places, types.Place{
			PlaceID: normalize.PlaceID(SourceOpenTripMap, obj.XID),
			Name:    normalize.CleanName(obj.Name),
			// OpenTripMap rates 0-3 (plus 3h for heritage); scale onto the
			// 5-point range the other providers use.
			Rating:   minRate(obj.Rate/3.0*5.0, 5.0),
			Types:    tags,
			Point:    types.GeoPoint{Lat: obj.Point.Lat, Lon: obj.Point.Lon},
			Source:   SourceOpenTripMap,
			Category: req.Category,
		})
	}
	return places, nil
}

func minRate(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
