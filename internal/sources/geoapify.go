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

// Geoapify wraps the Geoapify Places API (circle search) and its reverse
// geocoder. The free tier allows 5 requests per second.
type Geoapify struct {
	caller  *caller
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

func NewGeoapify(baseURL, apiKey string, logger *slog.Logger) *Geoapify {
	return &Geoapify{
		caller:  newCaller(SourceGeoapify, 5, 3, 10*time.Second, logger),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logger,
	}
}

func (g *Geoapify) Name() string { return SourceGeoapify }

var geoapifyCategories = map[types.PlaceCategory]string{
	types.CategoryPlace:      "tourism.sights,tourism.attraction,entertainment.museum,leisure.park,natural",
	types.CategoryHotel:      "accommodation.hotel,accommodation.hostel,accommodation.guest_house",
	types.CategoryRestaurant: "catering.restaurant,catering.cafe,catering.fast_food",
}

type geoapifyPlacesResponse struct {
	Features []geoapifyFeature `json:"features"`
}

type geoapifyFeature struct {
	Properties struct {
		PlaceID    string   `json:"place_id"`
		Name       string   `json:"name"`
		Street     string   `json:"street"`
		Suburb     string   `json:"suburb"`
		City       string   `json:"city"`
		County     string   `json:"county"`
		Formatted  string   `json:"formatted"`
		Categories []string `json:"categories"`
	} `json:"properties"`
	Geometry struct {
		Coordinates []float64 `json:"coordinates"` // [lon, lat]
	} `json:"geometry"`
}

func (g *Geoapify) Search(ctx context.Context, req SearchRequest) ([]types.Place, error) {
	categories, ok := geoapifyCategories[req.Category]
	if !ok {
		categories = geoapifyCategories[types.CategoryPlace]
	}

	params := url.Values{}
	params.Set("categories", categories)
	params.Set("filter", fmt.Sprintf("circle:%f,%f,%d", req.Lon, req.Lat, req.RadiusM))
	params.Set("bias", fmt.Sprintf("proximity:%f,%f", req.Lon, req.Lat))
	params.Set("limit", strconv.Itoa(req.Limit))
	params.Set("apiKey", g.apiKey)

	var resp geoapifyPlacesResponse
	endpoint := fmt.Sprintf("%s/v2/places?%s", g.baseURL, params.Encode())
	if err := g.caller.getJSON(ctx, endpoint, nil, &resp); err != nil {
		return nil, err
	}

	places := make([]types.Place, 0, len(resp.Features))
	for _, f := range resp.Features {
		props := f.Properties
		if props.Name == "" || len(f.Geometry.Coordinates) < 2 {
			continue
		}

		vicinity := props.Street
		if props.Suburb != "" {
			if vicinity != "" {
				vicinity += ", "
			}
			vicinity += props.Suburb
		}
		if vicinity == "" {
			vicinity = props.City
		}

		// Keep only the leaf category segments; "catering.restaurant"
		// carries the same signal as "restaurant" for classification.
		tags := make([]string, 0, len(props.Categories))
		for _, c := range props.Categories {
			tags = append(tags, c)
			if idx := strings.LastIndex(c, "."); idx >= 0 {
				tags = append(tags, c[idx+1:])
			}
		}

		places = append(places, types.Place{
			PlaceID:  normalize.PlaceID(SourceGeoapify, props.PlaceID),
			Name:     normalize.CleanName(props.Name),
			Vicinity: vicinity,
			Types:    tags,
			Point:    types.GeoPoint{Lat: f.Geometry.Coordinates[1], Lon: f.Geometry.Coordinates[0]},
			Source:   SourceGeoapify,
			Category: req.Category,
		})
	}
	return places, nil
}

type geoapifyReverseResponse struct {
	Features []struct {
		Properties struct {
			City      string `json:"city"`
			County    string `json:"county"`
			State     string `json:"state"`
			Country   string `json:"country"`
			Formatted string `json:"formatted"`
		} `json:"properties"`
	} `json:"features"`
}

// ReverseGeocode names the area around a coordinate, used to label AI
// placeholder results ("Explore <area>").
func (g *Geoapify) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	params.Set("apiKey", g.apiKey)

	var resp geoapifyReverseResponse
	endpoint := fmt.Sprintf("%s/v1/geocode/reverse?%s", g.baseURL, params.Encode())
	if err := g.caller.getJSON(ctx, endpoint, nil, &resp); err != nil {
		return "", err
	}
	if len(resp.Features) == 0 {
		return "", fmt.Errorf("no reverse geocode result for %f,%f", lat, lon)
	}

	props := resp.Features[0].Properties
	for _, candidate := range []string{props.City, props.County, props.State, props.Country} {
		if candidate != "" {
			return candidate, nil
		}
	}
	return props.Formatted, nil
}
