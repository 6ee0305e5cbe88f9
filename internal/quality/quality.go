// Package quality scores normalized places for tourist relevance. Geocoding
// APIs return a lot of noise (parking lots, substations, bus stops) and the
// score is what keeps that noise out of the explore response.
package quality

import (
	"strings"

	"github.com/sathi-travel/sathi-api/internal/types"
)

// Bucket labels, ordered from best to worst.
const (
	BucketExcellent  = "excellent"
	BucketGood       = "good"
	BucketFair       = "fair"
	BucketPoor       = "poor"
	BucketIrrelevant = "irrelevant"
)

var bucketRank = map[string]int{
	BucketExcellent:  4,
	BucketGood:       3,
	BucketFair:       2,
	BucketPoor:       1,
	BucketIrrelevant: 0,
}

// boostKeywords mark names/descriptions that read like real attractions.
var boostKeywords = []string{
	"temple", "monastery", "stupa", "pagoda", "shrine", "cathedral", "church",
	"mosque", "palace", "castle", "fort", "museum", "gallery", "heritage",
	"monument", "memorial", "viewpoint", "waterfall", "lake", "garden",
	"park", "square", "market", "bazaar", "historic", "ancient", "royal",
	"national", "sanctuary", "trail", "peak",
}

// noiseKeywords mark records tourists never want.
var noiseKeywords = []string{
	"parking", "atm", "bank", "warehouse", "substation", "depot", "garage",
	"storage", "construction", "industrial", "office", "bus stop",
	"gas station", "petrol", "pharmacy", "hospital", "clinic", "school",
	"kindergarten", "cemetery", "toilet", "workshop",
}

// typeWeights rank the provider type tags by how interesting the category
// is to a traveler. Unknown tags contribute the neutral default.
var typeWeights = map[string]float64{
	"tourist_attraction": 1.0,
	"attraction":         1.0,
	"tourism":            0.95,
	"museum":             0.95,
	"historic":           0.9,
	"viewpoint":          0.9,
	"natural":            0.85,
	"religion":           0.8,
	"park":               0.8,
	"hotel":              0.75,
	"guest_house":        0.7,
	"hostel":             0.65,
	"restaurant":         0.75,
	"cafe":               0.65,
	"fast_food":          0.45,
	"shop":               0.35,
	"amenity":            0.3,
	"building":           0.2,
	"parking":            0.0,
	"fuel":               0.0,
}

const defaultTypeWeight = 0.5

// Score rates a place in [0,1] from keyword heuristics, category weight,
// provider rating, and text completeness.
func Score(p types.Place) float64 {
	text := strings.ToLower(p.Name + " " + p.Description)

	keyword := 0.5
	for _, kw := range boostKeywords {
		if strings.Contains(text, kw) {
			keyword += 0.15
		}
	}
	for _, kw := range noiseKeywords {
		if strings.Contains(text, kw) {
			keyword -= 0.3
		}
	}
	keyword = clamp01(keyword)

	category := defaultTypeWeight
	if len(p.Types) > 0 {
		best := -1.0
		for _, t := range p.Types {
			w, ok := typeWeights[strings.ToLower(t)]
			if !ok {
				w = defaultTypeWeight
			}
			if w > best {
				best = w
			}
		}
		category = best
	}

	rating := 0.5
	if p.Rating > 0 {
		rating = clamp01(p.Rating / 5.0)
	}

	completeness := 0.0
	if p.Name != "" {
		completeness += 0.3
	}
	if len(p.Description) >= 20 {
		completeness += 0.3
	}
	if p.Vicinity != "" {
		completeness += 0.2
	}
	if p.PhotoURL != "" {
		completeness += 0.2
	}

	// Weighted blend; keyword and category dominate because they are the
	// only signals present on every provider.
	score := 0.35*keyword + 0.3*category + 0.15*rating + 0.2*completeness

	// A record whose text is dominated by noise keywords is capped
	// regardless of metadata.
	if keyword < 0.3 {
		score = minF(score, 0.15)
	}
	return clamp01(score)
}

// BucketFor maps a score onto its label.
func BucketFor(score float64) string {
	switch {
	case score >= 0.80:
		return BucketExcellent
	case score >= 0.60:
		return BucketGood
	case score >= 0.40:
		return BucketFair
	case score >= 0.20:
		return BucketPoor
	default:
		return BucketIrrelevant
	}
}

// MeetsMinimum reports whether a bucket satisfies the requested floor.
// Irrelevant records never pass.
func MeetsMinimum(bucket, minimum string) bool {
	if bucket == BucketIrrelevant {
		return false
	}
	minRank, ok := bucketRank[minimum]
	if !ok {
		minRank = bucketRank[BucketFair]
	}
	return bucketRank[bucket] >= minRank
}

// Filter scores every place, stores the score on the record, and keeps only
// those meeting the minimum bucket.
func Filter(places []types.Place, minimum string) []types.Place {
	kept := make([]types.Place, 0, len(places))
	for _, p := range places {
		p.QualityScore = Score(p)
		if MeetsMinimum(BucketFor(p.QualityScore), minimum) {
			kept = append(kept, p)
		}
	}
	return kept
}

// ValidBucket reports whether the string names a known bucket.
func ValidBucket(b string) bool {
	_, ok := bucketRank[b]
	return ok
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
