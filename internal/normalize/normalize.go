// Package normalize converts the heterogeneous provider records into the
// shared Place shape and deduplicates the merged output. Each source client
// maps its own JSON, but the categorization, ID synthesis, and dedupe rules
// live here so every provider agrees on them.
package normalize

import (
	"fmt"
	"strings"

	"github.com/sathi-travel/sathi-api/internal/types"
)

// hotelTags and restaurantTags decide which of the three response arrays a
// record lands in. Anything else is a generic place.
var hotelTags = map[string]struct{}{
	"hotel": {}, "hostel": {}, "guest_house": {}, "motel": {},
	"apartment": {}, "resort": {}, "accommodation": {}, "lodging": {},
	"accommodation.hotel": {}, "accommodation.hostel": {},
}

var restaurantTags = map[string]struct{}{
	"restaurant": {}, "cafe": {}, "fast_food": {}, "bar": {}, "pub": {},
	"food": {}, "food_court": {}, "catering": {}, "catering.restaurant": {},
	"catering.cafe": {}, "biergarten": {},
}

// CategoryFor classifies a record by its provider type tags.
func CategoryFor(tags []string) types.PlaceCategory {
	for _, t := range tags {
		lt := strings.ToLower(strings.TrimSpace(t))
		if _, ok := hotelTags[lt]; ok {
			return types.CategoryHotel
		}
	}
	for _, t := range tags {
		lt := strings.ToLower(strings.TrimSpace(t))
		if _, ok := restaurantTags[lt]; ok {
			return types.CategoryRestaurant
		}
	}
	return types.CategoryPlace
}

// PlaceID synthesizes a stable identifier from the source name and the
// provider's native ID.
func PlaceID(source, nativeID string) string {
	return fmt.Sprintf("%s-%s", source, nativeID)
}

// CleanName trims provider noise from a display name.
func CleanName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Trim(name, `"'`)
	return strings.Join(strings.Fields(name), " ")
}

func dedupeKey(p types.Place) string {
	return strings.ToLower(CleanName(p.Name)) + "|" + strings.ToLower(strings.TrimSpace(p.Vicinity))
}

// Dedupe removes records sharing name+vicinity, keeping the first
// occurrence. Order is preserved.
func Dedupe(places []types.Place) []types.Place {
	seen := make(map[string]struct{}, len(places))
	out := make([]types.Place, 0, len(places))
	for _, p := range places {
		key := dedupeKey(p)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// SplitByCategory partitions a merged slice into the three response arrays.
func SplitByCategory(places []types.Place) (pois, hotels, restaurants []types.Place) {
	for _, p := range places {
		cat := p.Category
		if cat == "" {
			cat = CategoryFor(p.Types)
		}
		switch cat {
		case types.CategoryHotel:
			hotels = append(hotels, p)
		case types.CategoryRestaurant:
			restaurants = append(restaurants, p)
		default:
			pois = append(pois, p)
		}
	}
	return pois, hotels, restaurants
}

// FromOSMTags maps an OpenStreetMap tag set onto a Place. Returns false for
// unnamed elements, which are useless in a discovery feed.
func FromOSMTags(source, nativeID string, lat, lon float64, tags map[string]string) (types.Place, bool) {
	name := CleanName(tags["name"])
	if name == "" {
		name = CleanName(tags["name:en"])
	}
	if name == "" {
		return types.Place{}, false
	}

	var typeTags []string
	for _, key := range []string{"tourism", "historic", "amenity", "leisure", "natural"} {
		if v, ok := tags[key]; ok && v != "" && v != "yes" {
			typeTags = append(typeTags, v)
		}
	}
	if len(typeTags) == 0 {
		typeTags = []string{"place"}
	}

	vicinity := tags["addr:street"]
	if suburb := tags["addr:suburb"]; suburb != "" {
		if vicinity != "" {
			vicinity += ", "
		}
		vicinity += suburb
	}
	if vicinity == "" {
		vicinity = tags["addr:city"]
	}

	p := types.Place{
		PlaceID:     PlaceID(source, nativeID),
		Name:        name,
		Description: tags["description"],
		Vicinity:    vicinity,
		Types:       typeTags,
		Point:       types.GeoPoint{Lat: lat, Lon: lon},
		Source:      source,
	}
	p.Category = CategoryFor(typeTags)
	return p, true
}
