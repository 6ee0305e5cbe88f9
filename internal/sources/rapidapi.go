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

// RapidAPI wraps the travel-advisor API on the RapidAPI marketplace. It has
// the richest records (ratings, photos, descriptions) but a metered quota,
// so it sits behind Qdrant in the cascade and under a tight rate limit.
type RapidAPI struct {
	caller  *caller
	baseURL string
	apiKey  string
	host    string
	logger  *slog.Logger
}

func NewRapidAPI(baseURL, apiKey string, logger *slog.Logger) *RapidAPI {
	base := strings.TrimRight(baseURL, "/")
	host := base
	if u, err := url.Parse(base); err == nil && u.Host != "" {
		host = u.Host
	}
	return &RapidAPI{
		caller:  newCaller(SourceRapidAPI, 1, 2, 15*time.Second, logger),
		baseURL: base,
		apiKey:  apiKey,
		host:    host,
		logger:  logger,
	}
}

func (r *RapidAPI) Name() string { return SourceRapidAPI }

var rapidAPIPaths = map[types.PlaceCategory]string{
	types.CategoryPlace:      "/attractions/list-by-latlng",
	types.CategoryHotel:      "/hotels/list-by-latlng",
	types.CategoryRestaurant: "/restaurants/list-by-latlng",
}

type rapidAPIResponse struct {
	Data []rapidAPIItem `json:"data"`
}

type rapidAPIItem struct {
	LocationID  string `json:"location_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
	Rating      string `json:"rating"`
	Photo       *struct {
		Images struct {
			Medium struct {
				URL string `json:"url"`
			} `json:"medium"`
		} `json:"images"`
	} `json:"photo"`
	Subcategory []struct {
		Name string `json:"name"`
	} `json:"subcategory"`
}

func (r *RapidAPI) Search(ctx context.Context, req SearchRequest) ([]types.Place, error) {
	path, ok := rapidAPIPaths[req.Category]
	if !ok {
		path = rapidAPIPaths[types.CategoryPlace]
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(req.Lat, 'f', 6, 64))
	params.Set("longitude", strconv.FormatFloat(req.Lon, 'f', 6, 64))
	// travel-advisor wants the distance in miles.
	params.Set("distance", strconv.FormatFloat(float64(req.RadiusM)/1609.34, 'f', 1, 64))
	params.Set("limit", strconv.Itoa(req.Limit))
	params.Set("lang", "en_US")

	headers := map[string]string{
		"X-RapidAPI-Key":  r.apiKey,
		"X-RapidAPI-Host": r.host,
	}

	var resp rapidAPIResponse
	endpoint := fmt.Sprintf("%s%s?%s", r.baseURL, path, params.Encode())
	if err := r.caller.getJSON(ctx, endpoint, headers, &resp); err != nil {
		return nil, err
	}

	places := make([]types.Place, 0, len(resp.Data))
	for _, item := range resp.Data {
		if item.Name == "" || item.LocationID == "" {
			continue
		}
		lat, errLat := strconv.ParseFloat(item.Latitude, 64)
		lon, errLon := strconv.ParseFloat(item.Longitude, 64)
		if errLat != nil || errLon != nil {
			continue
		}
		rating, _ := strconv.ParseFloat(item.Rating, 64)

		tags := make([]string, 0, len(item.Subcategory)+1)
		for _, sub := range item.Subcategory {
			if sub.Name != "" {
				tags = append(tags, strings.ToLower(sub.Name))
			}
		}
		tags = append(tags, string(req.Category))

		place := types.Place{
			PlaceID:     normalize.PlaceID(SourceRapidAPI, item.LocationID),
			Name:        normalize.CleanName(item.Name),
			Description: item.Description,
			Vicinity:    item.Address,
			Rating:      rating,
			Types:       tags,
			Point:       types.GeoPoint{Lat: lat, Lon: lon},
			Source:      SourceRapidAPI,
			Category:    req.Category,
		}
		if item.Photo != nil {
			place.PhotoURL = item.Photo.Images.Medium.URL
		}
		places = append(places, place)
	}
	return places, nil
}
