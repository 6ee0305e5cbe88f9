// Package geo holds the small amount of spherical geometry the explore
// cascade needs: haversine distances, radius tier expansion, and coordinate
// rounding for cache keys.
package geo

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// MaxRelevantDistanceKm is the hard cut for geographic relevance. A record
// further out than this from the query point is never returned, no matter
// which radius tier produced it.
const MaxRelevantDistanceKm = 50.0

// MaxRadiusM caps the widest radius tier.
const MaxRadiusM = 50_000

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// RadiusTiers expands a base radius (meters) into the progressively larger
// radii a source is retried with when it returns too few results. Tiers are
// deduplicated and capped at MaxRadiusM.
func RadiusTiers(baseM int) []int {
	if baseM <= 0 {
		baseM = 5000
	}
	multipliers := []int{1, 2, 5}
	tiers := make([]int, 0, len(multipliers))
	for _, m := range multipliers {
		r := baseM * m
		if r > MaxRadiusM {
			r = MaxRadiusM
		}
		if n := len(tiers); n > 0 && tiers[n-1] == r {
			continue
		}
		tiers = append(tiers, r)
	}
	return tiers
}

// RoundCoord rounds a coordinate to two decimals (~1.1 km at the equator) so
// that nearby queries share a cache entry.
func RoundCoord(v float64) float64 {
	return math.Round(v*100) / 100
}

// CacheKey builds the memoization key for an explore query. An empty
// category means all three.
func CacheKey(lat, lon float64, radiusM int, category, minQuality string) string {
	return fmt.Sprintf("explore:%.2f:%.2f:%d:%s:%s", RoundCoord(lat), RoundCoord(lon), radiusM, category, minQuality)
}
