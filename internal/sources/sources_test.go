package sources

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sathi-travel/sathi-api/internal/types"
)

var testReq = SearchRequest{
	Lat:      27.7172,
	Lon:      85.3240,
	RadiusM:  5000,
	Category: types.CategoryPlace,
	Limit:    20,
}

func TestQdrantSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/places/points/scroll", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("api-key"))
		w.Write([]byte(`{"result":{"points":[
			{"id":17,"payload":{"name":"Patan Durbar Square","description":"Royal palace complex of the former Patan kingdom.","vicinity":"Lalitpur","rating":4.7,"types":["tourist_attraction"],"category":"place","location":{"lat":27.6727,"lon":85.3250}}},
			{"id":18,"payload":{"name":"","location":{"lat":27.6,"lon":85.3}}}
		]}}`))
	}))
	defer srv.Close()

	q := NewQdrant(srv.URL, "secret", "places", slog.Default())
	places, err := q.Search(context.Background(), testReq)
	require.NoError(t, err)
	require.Len(t, places, 1, "payloads without a name are skipped")

	p := places[0]
	assert.Equal(t, "qdrant-17", p.PlaceID)
	assert.Equal(t, "Patan Durbar Square", p.Name)
	assert.Equal(t, SourceQdrant, p.Source)
	assert.Equal(t, types.CategoryPlace, p.Category)
	assert.InDelta(t, 27.6727, p.Point.Lat, 0.0001)
}

func TestRapidAPISearchPerCategory(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "rapid-key", r.Header.Get("X-RapidAPI-Key"))
		assert.NotEmpty(t, r.URL.Query().Get("distance"), "radius must be forwarded in miles")
		w.Write([]byte(`{"data":[
			{"location_id":"3571","name":"Hotel Yak & Yeti","address":"Durbar Marg","latitude":"27.7121","longitude":"85.3190","rating":"4.5","subcategory":[{"name":"Hotel"}],"photo":{"images":{"medium":{"url":"https://img.example/yak.jpg"}}}},
			{"location_id":"","name":"broken"},
			{"location_id":"9","name":"No Coordinates","latitude":"","longitude":""}
		]}`))
	}))
	defer srv.Close()

	ra := NewRapidAPI(srv.URL, "rapid-key", slog.Default())
	req := testReq
	req.Category = types.CategoryHotel

	places, err := ra.Search(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "/hotels/list-by-latlng", gotPath)
	require.Len(t, places, 1, "items without id or coordinates are skipped")

	p := places[0]
	assert.Equal(t, "rapidapi-3571", p.PlaceID)
	assert.Equal(t, "Hotel Yak & Yeti", p.Name)
	assert.Equal(t, 4.5, p.Rating)
	assert.Equal(t, "https://img.example/yak.jpg", p.PhotoURL)
	assert.Equal(t, types.CategoryHotel, p.Category)
}

func TestGeoapifySearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/places", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "api-key", q.Get("apiKey"))
		assert.Contains(t, q.Get("filter"), "circle:")
		w.Write([]byte(`{"features":[
			{"properties":{"place_id":"51f0","name":"Kathmandu Durbar Square","street":"Ganga Path","suburb":"Basantapur","categories":["tourism.sights"]},"geometry":{"coordinates":[85.3062,27.7043]}},
			{"properties":{"place_id":"xx","name":""},"geometry":{"coordinates":[85.3,27.7]}}
		]}`))
	}))
	defer srv.Close()

	g := NewGeoapify(srv.URL, "api-key", slog.Default())
	places, err := g.Search(context.Background(), testReq)
	require.NoError(t, err)
	require.Len(t, places, 1)

	p := places[0]
	assert.Equal(t, "geoapify-51f0", p.PlaceID)
	assert.Equal(t, "Ganga Path, Basantapur", p.Vicinity)
	assert.Contains(t, p.Types, "tourism.sights")
	assert.Contains(t, p.Types, "sights", "leaf segment should be added")
	assert.InDelta(t, 27.7043, p.Point.Lat, 0.0001)
}

func TestGeoapifyReverseGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/geocode/reverse", r.URL.Path)
		w.Write([]byte(`{"features":[{"properties":{"city":"Kathmandu","country":"Nepal"}}]}`))
	}))
	defer srv.Close()

	g := NewGeoapify(srv.URL, "api-key", slog.Default())
	area, err := g.ReverseGeocode(context.Background(), 27.7172, 85.3240)
	require.NoError(t, err)
	assert.Equal(t, "Kathmandu", area)
}

func TestOverpassSearchAndMirrorRotation(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		queries = append(queries, r.Form.Get("data"))
		w.Write([]byte(`{"elements":[
			{"type":"node","id":101,"lat":27.7215,"lon":85.3620,"tags":{"name":"Boudhanath Stupa","tourism":"attraction"}},
			{"type":"way","id":202,"center":{"lat":27.7100,"lon":85.3200},"tags":{"name":"Narayanhiti Palace","historic":"palace"}},
			{"type":"node","id":303,"lat":27.70,"lon":85.32,"tags":{"amenity":"restaurant"}}
		]}`))
	}))
	defer srv.Close()

	o := NewOverpass([]string{srv.URL, srv.URL}, slog.Default())
	places, err := o.Search(context.Background(), testReq)
	require.NoError(t, err)
	require.Len(t, places, 2, "unnamed elements are dropped")

	assert.Equal(t, "openstreetmap-node/101", places[0].PlaceID)
	assert.Equal(t, "openstreetmap-way/202", places[1].PlaceID)
	assert.InDelta(t, 27.7100, places[1].Point.Lat, 0.0001, "ways use their center coordinate")

	require.Len(t, queries, 1)
	assert.Contains(t, queries[0], "around:5000")
	assert.Contains(t, queries[0], "[out:json]")
}

func TestOpenTripMapSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/0.1/en/places/radius", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "otm-key", q.Get("apikey"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "interesting_places,cultural,natural,architecture", q.Get("kinds"))
		w.Write([]byte(`[
			{"xid":"W123","name":"Swayambhunath","rate":3,"kinds":"religion,interesting_places","point":{"lat":27.7149,"lon":85.2904}},
			{"xid":"","name":"anonymous","point":{"lat":1,"lon":1}}
		]`))
	}))
	defer srv.Close()

	o := NewOpenTripMap(srv.URL, "otm-key", slog.Default())
	places, err := o.Search(context.Background(), testReq)
	require.NoError(t, err)
	require.Len(t, places, 1)

	p := places[0]
	assert.Equal(t, "opentripmap-W123", p.PlaceID)
	assert.Equal(t, []string{"religion", "interesting_places"}, p.Types)
	assert.InDelta(t, 5.0, p.Rating, 0.001, "rate 3 maps onto the top of the 5-point scale")
}
