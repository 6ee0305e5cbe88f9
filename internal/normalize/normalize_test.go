package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sathi-travel/sathi-api/internal/types"
)

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		name     string
		tags     []string
		expected types.PlaceCategory
	}{
		{"Plain attraction", []string{"tourist_attraction"}, types.CategoryPlace},
		{"Hotel tag", []string{"hotel"}, types.CategoryHotel},
		{"Geoapify hotel category", []string{"accommodation.hotel"}, types.CategoryHotel},
		{"Restaurant tag", []string{"restaurant"}, types.CategoryRestaurant},
		{"Cafe", []string{"cafe"}, types.CategoryRestaurant},
		{"Hotel wins over restaurant when both present", []string{"restaurant", "hotel"}, types.CategoryHotel},
		{"Empty tags", nil, types.CategoryPlace},
		{"Mixed case", []string{"Hostel"}, types.CategoryHotel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CategoryFor(tt.tags))
		})
	}
}

func TestDedupe(t *testing.T) {
	places := []types.Place{
		{PlaceID: "osm-1", Name: "Boudhanath Stupa", Vicinity: "Boudha"},
		{PlaceID: "otm-9", Name: "boudhanath stupa", Vicinity: "Boudha"},
		{PlaceID: "osm-2", Name: "Boudhanath Stupa", Vicinity: "Another Street"},
		{PlaceID: "osm-3", Name: "  Boudhanath   Stupa ", Vicinity: "boudha"},
	}

	out := Dedupe(places)
	assert.Len(t, out, 2)
	// First occurrence wins.
	assert.Equal(t, "osm-1", out[0].PlaceID)
	assert.Equal(t, "osm-2", out[1].PlaceID)
}

func TestSplitByCategory(t *testing.T) {
	places := []types.Place{
		{Name: "Durbar Square", Types: []string{"tourist_attraction"}},
		{Name: "Hotel Shanker", Types: []string{"hotel"}, Category: types.CategoryHotel},
		{Name: "Thakali Kitchen", Types: []string{"restaurant"}},
	}
	pois, hotels, restaurants := SplitByCategory(places)
	assert.Len(t, pois, 1)
	assert.Len(t, hotels, 1)
	assert.Len(t, restaurants, 1)
	assert.Equal(t, "Durbar Square", pois[0].Name)
}

func TestFromOSMTags(t *testing.T) {
	p, ok := FromOSMTags("openstreetmap", "node/123", 27.7215, 85.3620, map[string]string{
		"name":        "Boudhanath Stupa",
		"tourism":     "attraction",
		"historic":    "monument",
		"addr:street": "Boudha Road",
		"addr:suburb": "Boudha",
	})
	assert.True(t, ok)
	assert.Equal(t, "openstreetmap-node/123", p.PlaceID)
	assert.Equal(t, "Boudhanath Stupa", p.Name)
	assert.Equal(t, []string{"attraction", "monument"}, p.Types)
	assert.Equal(t, "Boudha Road, Boudha", p.Vicinity)
	assert.Equal(t, types.CategoryPlace, p.Category)
	assert.Equal(t, "openstreetmap", p.Source)

	// Unnamed elements are rejected.
	_, ok = FromOSMTags("openstreetmap", "node/456", 27.7, 85.3, map[string]string{"amenity": "restaurant"})
	assert.False(t, ok)

	// name:en fallback.
	p, ok = FromOSMTags("openstreetmap", "way/7", 27.7, 85.3, map[string]string{
		"name:en": "Golden Temple",
		"amenity": "place_of_worship",
	})
	assert.True(t, ok)
	assert.Equal(t, "Golden Temple", p.Name)
}
