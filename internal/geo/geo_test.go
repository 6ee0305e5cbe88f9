package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		expectedKm             float64
		tolerance              float64
	}{
		{
			name: "Same point",
			lat1: 27.7172, lon1: 85.3240,
			lat2: 27.7172, lon2: 85.3240,
			expectedKm: 0, tolerance: 0.001,
		},
		{
			name: "Kathmandu to Pokhara",
			lat1: 27.7172, lon1: 85.3240,
			lat2: 28.2096, lon2: 83.9856,
			expectedKm: 143, tolerance: 5,
		},
		{
			name: "Lisbon to Porto",
			lat1: 38.7223, lon1: -9.1393,
			lat2: 41.1579, lon2: -8.6291,
			expectedKm: 274, tolerance: 5,
		},
		{
			name: "Across the antimeridian",
			lat1: 0, lon1: 179.5,
			lat2: 0, lon2: -179.5,
			expectedKm: 111.2, tolerance: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.expectedKm, got, tt.tolerance)
		})
	}
}

func TestRadiusTiers(t *testing.T) {
	assert.Equal(t, []int{5000, 10000, 25000}, RadiusTiers(5000))
	assert.Equal(t, []int{20000, 40000, 50000}, RadiusTiers(20000))
	// Tiers collapsing onto the cap are deduplicated.
	assert.Equal(t, []int{50000}, RadiusTiers(60000))
	// Zero falls back to the default base radius.
	assert.Equal(t, []int{5000, 10000, 25000}, RadiusTiers(0))
}

func TestCacheKey(t *testing.T) {
	// Nearby coordinates round onto the same key.
	k1 := CacheKey(27.71721, 85.32401, 5000, "", "fair")
	k2 := CacheKey(27.71719, 85.32399, 5000, "", "fair")
	assert.Equal(t, k1, k2)

	// Different radius, category, or quality produce different keys.
	assert.NotEqual(t, k1, CacheKey(27.71721, 85.32401, 10000, "", "fair"))
	assert.NotEqual(t, k1, CacheKey(27.71721, 85.32401, 5000, "hotel", "fair"))
	assert.NotEqual(t, k1, CacheKey(27.71721, 85.32401, 5000, "", "good"))
}
