package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sathi-travel/sathi-api/internal/types"
)

func TestScoreRanksAttractionsAboveNoise(t *testing.T) {
	temple := types.Place{
		Name:        "Pashupatinath Temple",
		Description: "Sacred Hindu temple complex beside the Bagmati river, a UNESCO heritage site.",
		Vicinity:    "Kathmandu",
		Rating:      4.8,
		PhotoURL:    "https://example.com/pashupatinath.jpg",
		Types:       []string{"tourist_attraction", "religion"},
	}
	parking := types.Place{
		Name:  "Airport Parking Lot B",
		Types: []string{"parking"},
	}

	templeScore := Score(temple)
	parkingScore := Score(parking)

	assert.Greater(t, templeScore, 0.8, "complete attraction record should be excellent")
	assert.Less(t, parkingScore, 0.2, "parking noise should be irrelevant")
	assert.Greater(t, templeScore, parkingScore)
}

func TestScoreCompletenessMatters(t *testing.T) {
	full := types.Place{
		Name:        "Garden of Dreams",
		Description: "Restored neo-classical garden with pavilions, fountains and a quiet cafe.",
		Vicinity:    "Thamel, Kathmandu",
		Rating:      4.4,
		PhotoURL:    "https://example.com/god.jpg",
		Types:       []string{"park"},
	}
	bare := types.Place{
		Name:  "Garden of Dreams",
		Types: []string{"park"},
	}
	assert.Greater(t, Score(full), Score(bare))
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		score  float64
		bucket string
	}{
		{0.95, BucketExcellent},
		{0.80, BucketExcellent},
		{0.79, BucketGood},
		{0.60, BucketGood},
		{0.45, BucketFair},
		{0.25, BucketPoor},
		{0.10, BucketIrrelevant},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.bucket, BucketFor(tt.score), "score %.2f", tt.score)
	}
}

func TestMeetsMinimum(t *testing.T) {
	assert.True(t, MeetsMinimum(BucketExcellent, BucketFair))
	assert.True(t, MeetsMinimum(BucketFair, BucketFair))
	assert.False(t, MeetsMinimum(BucketPoor, BucketFair))
	// Irrelevant never passes, even with a poor minimum.
	assert.False(t, MeetsMinimum(BucketIrrelevant, BucketPoor))
	// Unknown minimum falls back to fair.
	assert.True(t, MeetsMinimum(BucketGood, "bogus"))
	assert.False(t, MeetsMinimum(BucketPoor, "bogus"))
}

func TestFilterDropsBelowMinimum(t *testing.T) {
	places := []types.Place{
		{
			Name:        "Swayambhunath Stupa",
			Description: "Ancient religious complex atop a hill west of Kathmandu, also known as the Monkey Temple.",
			Vicinity:    "Kathmandu",
			Rating:      4.7,
			PhotoURL:    "https://example.com/swayambhu.jpg",
			Types:       []string{"tourist_attraction"},
		},
		{Name: "Electric Substation 12", Types: []string{"building"}},
	}

	kept := Filter(places, BucketFair)
	assert.Len(t, kept, 1)
	assert.Equal(t, "Swayambhunath Stupa", kept[0].Name)
	assert.Greater(t, kept[0].QualityScore, 0.0, "score should be stored on kept records")
}
