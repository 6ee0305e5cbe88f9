package types

import (
	"fmt"
	"math"
)

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PlaceCategory partitions normalized records into the three arrays the
// explore endpoint returns.
type PlaceCategory string

const (
	CategoryPlace      PlaceCategory = "place"
	CategoryHotel      PlaceCategory = "hotel"
	CategoryRestaurant PlaceCategory = "restaurant"
)

// Place is the normalized record every data source is mapped into.
type Place struct {
	PlaceID     string   `json:"place_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Vicinity    string   `json:"vicinity,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	PhotoURL    string   `json:"photoUrl,omitempty"`
	PhotoHint   string   `json:"photoHint,omitempty"`
	Types       []string `json:"types"`
	Point       GeoPoint `json:"point"`
	Source      string   `json:"source"`

	Category     PlaceCategory `json:"-"`
	QualityScore float64       `json:"-"`
	DistanceKm   float64       `json:"distance_km,omitempty"`
}

// ExploreRequest carries the validated query parameters of the explore
// endpoint.
type ExploreRequest struct {
	Lat        float64       `json:"lat"`
	Lon        float64       `json:"lon"`
	RadiusM    int           `json:"radius_m"`
	Category   PlaceCategory `json:"category,omitempty"`
	MinQuality string        `json:"min_quality,omitempty"`
	Offset     int           `json:"offset"`
	Limit      int           `json:"limit"`
}

func (r ExploreRequest) Validate() error {
	// NaN fails every range comparison, so check finiteness first.
	if math.IsNaN(r.Lat) || math.IsInf(r.Lat, 0) || math.IsNaN(r.Lon) || math.IsInf(r.Lon, 0) {
		return fmt.Errorf("coordinates must be finite")
	}
	if r.Lat < -90 || r.Lat > 90 {
		return fmt.Errorf("latitude %f out of range", r.Lat)
	}
	if r.Lon < -180 || r.Lon > 180 {
		return fmt.Errorf("longitude %f out of range", r.Lon)
	}
	if r.Lat == 0 && r.Lon == 0 {
		return fmt.Errorf("null island coordinates rejected")
	}
	if r.RadiusM <= 0 {
		return fmt.Errorf("radius must be positive, got %d", r.RadiusM)
	}
	switch r.Category {
	case "", CategoryPlace, CategoryHotel, CategoryRestaurant:
	default:
		return fmt.Errorf("unknown category %q", r.Category)
	}
	if r.Offset < 0 {
		return fmt.Errorf("offset must not be negative, got %d", r.Offset)
	}
	if r.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", r.Limit)
	}
	return nil
}

// ExploreResult is the aggregated output of the source cascade.
type ExploreResult struct {
	Places      []Place `json:"places"`
	Hotels      []Place `json:"hotels"`
	Restaurants []Place `json:"restaurants"`
	Source      string  `json:"source"`
	Cached      bool    `json:"cached"`
	Area        string  `json:"area,omitempty"`
}

// Total counts the results across all three categories.
func (r *ExploreResult) Total() int {
	return len(r.Places) + len(r.Hotels) + len(r.Restaurants)
}
