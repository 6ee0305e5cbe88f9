package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/sathi-travel/sathi-api/internal/normalize"
	"github.com/sathi-travel/sathi-api/internal/types"
)

// DefaultOverpassEndpoints are the public Overpass API mirrors, rotated per
// request so one saturated mirror does not starve the source.
var DefaultOverpassEndpoints = []string{
	"https://overpass-api.de/api/interpreter",
	"https://overpass.kumi.systems/api/interpreter",
	"https://overpass.openstreetmap.ru/api/interpreter",
}

// Overpass queries OpenStreetMap through the Overpass API. Free and global,
// but slow and completely uncurated, so it sits late in the cascade and its
// output leans hardest on the quality filter.
type Overpass struct {
	caller    *caller
	endpoints []string
	next      atomic.Uint32
	logger    *slog.Logger
}

func NewOverpass(endpoints []string, logger *slog.Logger) *Overpass {
	if len(endpoints) == 0 {
		endpoints = DefaultOverpassEndpoints
	}
	return &Overpass{
		// Public mirrors ask for at most ~1 request per second per client.
		caller:    newCaller(SourceOpenStreetMap, 1, 1, 30*time.Second, logger),
		endpoints: endpoints,
		logger:    logger,
	}
}

func (o *Overpass) Name() string { return SourceOpenStreetMap }

var overpassSelectors = map[types.PlaceCategory][]string{
	types.CategoryPlace: {
		`node["tourism"~"attraction|museum|viewpoint|artwork|gallery"]`,
		`node["historic"]["name"]`,
		`node["leisure"="park"]["name"]`,
		`way["tourism"~"attraction|museum"]["name"]`,
		`way["historic"]["name"]`,
	},
	types.CategoryHotel: {
		`node["tourism"~"hotel|hostel|guest_house|motel"]`,
		`way["tourism"~"hotel|hostel|guest_house"]["name"]`,
	},
	types.CategoryRestaurant: {
		`node["amenity"~"restaurant|cafe|fast_food"]`,
		`way["amenity"~"restaurant|cafe"]["name"]`,
	},
}

type overpassResponse struct {
	Elements []struct {
		Type   string  `json:"type"`
		ID     int64   `json:"id"`
		Lat    float64 `json:"lat"`
		Lon    float64 `json:"lon"`
		Center *struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"center"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

func (o *Overpass) buildQuery(req SearchRequest) string {
	selectors, ok := overpassSelectors[req.Category]
	if !ok {
		selectors = overpassSelectors[types.CategoryPlace]
	}
	body := ""
	for _, sel := range selectors {
		body += fmt.Sprintf("%s(around:%d,%f,%f);", sel, req.RadiusM, req.Lat, req.Lon)
	}
	return fmt.Sprintf("[out:json][timeout:25];(%s);out center %d;", body, req.Limit)
}

func (o *Overpass) Search(ctx context.Context, req SearchRequest) ([]types.Place, error) {
	endpoint := o.endpoints[int(o.next.Add(1))%len(o.endpoints)]

	form := url.Values{}
	form.Set("data", o.buildQuery(req))

	var resp overpassResponse
	if err := o.caller.postForm(ctx, endpoint, form, &resp); err != nil {
		return nil, err
	}

	places := make([]types.Place, 0, len(resp.Elements))
	for _, el := range resp.Elements {
		lat, lon := el.Lat, el.Lon
		if el.Center != nil {
			lat, lon = el.Center.Lat, el.Center.Lon
		}
		if lat == 0 && lon == 0 {
			continue
		}
		nativeID := fmt.Sprintf("%s/%d", el.Type, el.ID)
		place, ok := normalize.FromOSMTags(SourceOpenStreetMap, nativeID, lat, lon, el.Tags)
		if !ok {
			continue
		}
		if place.Category == types.CategoryPlace {
			place.Category = req.Category
		}
		places = append(places, place)
	}
	return places, nil
}
