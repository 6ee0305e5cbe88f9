package explore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/sathi-travel/sathi-api/app/observability/metrics"
	"github.com/sathi-travel/sathi-api/internal/geo"
	"github.com/sathi-travel/sathi-api/internal/normalize"
	"github.com/sathi-travel/sathi-api/internal/quality"
	"github.com/sathi-travel/sathi-api/internal/sources"
	"github.com/sathi-travel/sathi-api/internal/types"
)

const (
	defaultRadiusM = 5000
	defaultLimit   = 20
	// A source tier is accepted once it yields this many geographically
	// relevant results across all categories.
	minRelevantResults = 3
	// How many records to ask a provider for per category; pagination is
	// applied after filtering, so fetch generously.
	perCategoryFetchLimit = 30
	// AI-generated results are kept briefly so recovered providers take
	// over on the next request instead of after the full cache TTL.
	aiResultTTL = time.Minute
)

var _ Service = (*ServiceImpl)(nil)

// Service is the explore orchestrator contract.
type Service interface {
	Explore(ctx context.Context, req types.ExploreRequest) (*types.ExploreResult, error)
}

// Geocoder names the area around a coordinate. Satisfied by the Geoapify
// client; optional.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// ServiceImpl runs the cascading source pipeline: try each provider in
// priority order over expanding radius tiers, keep the first one that
// clears the relevance threshold, and fall back to AI-generated content
// when every real source comes up empty.
type ServiceImpl struct {
	logger   *slog.Logger
	sources  []sources.Source
	fallback *AIFallback
	geocoder Geocoder
	cache    *cache.Cache
}

func NewServiceImpl(srcs []sources.Source, fallback *AIFallback, geocoder Geocoder, resultCache *cache.Cache, logger *slog.Logger) *ServiceImpl {
	if resultCache == nil {
		resultCache = cache.New(10*time.Minute, 30*time.Minute)
	}
	return &ServiceImpl{
		logger:   logger,
		sources:  srcs,
		fallback: fallback,
		geocoder: geocoder,
		cache:    resultCache,
	}
}

func (s *ServiceImpl) Explore(ctx context.Context, req types.ExploreRequest) (*types.ExploreResult, error) {
	ctx, span := otel.Tracer("ExploreService").Start(ctx, "Explore", trace.WithAttributes(
		attribute.Float64("query.lat", req.Lat),
		attribute.Float64("query.lon", req.Lon),
		attribute.Int("query.radius_m", req.RadiusM),
	))
	defer span.End()

	applyDefaults(&req)
	if err := req.Validate(); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		return nil, fmt.Errorf("invalid explore request: %w", err)
	}

	m := metrics.Get()
	m.ExploreRequestsTotal.Add(ctx, 1)

	cacheKey := geo.CacheKey(req.Lat, req.Lon, req.RadiusM, string(req.Category), req.MinQuality)
	span.SetAttributes(attribute.String("cache.key", cacheKey))

	if cached, found := s.cache.Get(cacheKey); found {
		if result, ok := cached.(*types.ExploreResult); ok {
			s.logger.InfoContext(ctx, "Cache hit for explore query", slog.String("cache_key", cacheKey))
			m.ExploreCacheHitsTotal.Add(ctx, 1)
			span.AddEvent("Cache hit")
			span.SetStatus(codes.Ok, "Served from cache")
			out := paginate(result, req.Offset, req.Limit)
			out.Cached = true
			return out, nil
		}
	}

	result := s.runCascade(ctx, req, m)
	if req.Category != "" {
		result = restrictToCategory(result, req.Category)
	}

	expiration := cache.DefaultExpiration
	if result.Source == sources.SourceAI {
		expiration = aiResultTTL
	}
	s.cache.Set(cacheKey, result, expiration)
	span.SetAttributes(
		attribute.String("result.source", result.Source),
		attribute.Int("result.total", result.Total()),
	)
	span.SetStatus(codes.Ok, "Explore completed")
	return paginate(result, req.Offset, req.Limit), nil
}

// runCascade walks the prioritized source list. Upstream failures never
// escape: the worst case is a single synthetic placeholder.
func (s *ServiceImpl) runCascade(ctx context.Context, req types.ExploreRequest, m *metrics.AppMetrics) *types.ExploreResult {
	for _, src := range s.sources {
		result := s.trySource(ctx, src, req, m)
		if result != nil {
			s.logger.InfoContext(ctx, "Source accepted",
				slog.String("source", src.Name()),
				slog.Int("results", result.Total()))
			return result
		}
		s.logger.InfoContext(ctx, "Source yielded too few relevant results, cascading",
			slog.String("source", src.Name()))
	}

	m.AIFallbacksTotal.Add(ctx, 1)
	area := s.resolveArea(ctx, req)
	if s.fallback != nil {
		if result := s.fallback.Generate(ctx, req, area); result != nil {
			return result
		}
	}
	return placeholderResult(req, area)
}

// restrictToCategory empties the arrays a category-filtered request did not
// ask for. Covers the AI fallback, which always invents all three, and any
// provider record a search filed under a neighboring category. The
// placeholder puts its synthetic record in the requested array, so it
// survives this cut.
func restrictToCategory(result *types.ExploreResult, category types.PlaceCategory) *types.ExploreResult {
	switch category {
	case types.CategoryPlace:
		result.Hotels, result.Restaurants = []types.Place{}, []types.Place{}
	case types.CategoryHotel:
		result.Places, result.Restaurants = []types.Place{}, []types.Place{}
	case types.CategoryRestaurant:
		result.Places, result.Hotels = []types.Place{}, []types.Place{}
	}
	return result
}

// trySource walks the radius tiers for one provider and returns a result
// once the relevance threshold is met, or nil to cascade on.
func (s *ServiceImpl) trySource(ctx context.Context, src sources.Source, req types.ExploreRequest, m *metrics.AppMetrics) *types.ExploreResult {
	for _, radiusM := range geo.RadiusTiers(req.RadiusM) {
		merged := s.fetchAllCategories(ctx, src, req, radiusM, m)

		merged = normalize.Dedupe(merged)
		merged = quality.Filter(merged, req.MinQuality)
		merged = s.keepGeographicallyRelevant(merged, req.Lat, req.Lon)

		if len(merged) >= minRelevantResults {
			pois, hotels, restaurants := normalize.SplitByCategory(merged)
			return &types.ExploreResult{
				Places:      pois,
				Hotels:      hotels,
				Restaurants: restaurants,
				Source:      src.Name(),
			}
		}
		s.logger.DebugContext(ctx, "Radius tier below threshold, expanding",
			slog.String("source", src.Name()),
			slog.Int("radius_m", radiusM),
			slog.Int("relevant", len(merged)))
	}
	return nil
}

// fetchAllCategories fans out the three category searches concurrently.
// A failing category is logged and contributes nothing; it never aborts the
// other two.
func (s *ServiceImpl) fetchAllCategories(ctx context.Context, src sources.Source, req types.ExploreRequest, radiusM int, m *metrics.AppMetrics) []types.Place {
	categories := requestedCategories(req.Category)
	results := make([][]types.Place, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	for i, category := range categories {
		g.Go(func() error {
			start := time.Now()
			attrs := metrics.SourceAttrs(src.Name())
			m.SourceRequestsTotal.Add(gctx, 1, attrs)

			places, err := src.Search(gctx, sources.SearchRequest{
				Lat:      req.Lat,
				Lon:      req.Lon,
				RadiusM:  radiusM,
				Category: category,
				Limit:    perCategoryFetchLimit,
			})
			m.SourceLatencySeconds.Record(gctx, time.Since(start).Seconds(), attrs)
			if err != nil {
				m.SourceErrorsTotal.Add(gctx, 1, attrs)
				s.logger.WarnContext(gctx, "Source search failed, treating as empty",
					slog.String("source", src.Name()),
					slog.String("category", string(category)),
					slog.Any("error", err))
				return nil
			}
			mu.Lock()
			results[i] = places
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // goroutines swallow their own errors

	var merged []types.Place
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged
}

// keepGeographicallyRelevant drops results outside the hard 50 km cut and
// annotates the rest with their distance from the query point.
func (s *ServiceImpl) keepGeographicallyRelevant(places []types.Place, lat, lon float64) []types.Place {
	kept := make([]types.Place, 0, len(places))
	for _, p := range places {
		d := geo.HaversineKm(lat, lon, p.Point.Lat, p.Point.Lon)
		if d > geo.MaxRelevantDistanceKm {
			continue
		}
		p.DistanceKm = d
		kept = append(kept, p)
	}
	return kept
}

func (s *ServiceImpl) resolveArea(ctx context.Context, req types.ExploreRequest) string {
	if s.geocoder == nil {
		return ""
	}
	area, err := s.geocoder.ReverseGeocode(ctx, req.Lat, req.Lon)
	if err != nil {
		s.logger.WarnContext(ctx, "Reverse geocode failed", slog.Any("error", err))
		return ""
	}
	return area
}

// requestedCategories expands an empty category filter to all three.
func requestedCategories(category types.PlaceCategory) []types.PlaceCategory {
	if category == "" {
		return []types.PlaceCategory{types.CategoryPlace, types.CategoryHotel, types.CategoryRestaurant}
	}
	return []types.PlaceCategory{category}
}

func applyDefaults(req *types.ExploreRequest) {
	if req.RadiusM == 0 {
		req.RadiusM = defaultRadiusM
	}
	if req.Limit == 0 {
		req.Limit = defaultLimit
	}
	if req.MinQuality == "" || !quality.ValidBucket(req.MinQuality) {
		req.MinQuality = quality.BucketFair
	}
}

// paginate applies offset/limit per category on a copy of the cached result.
// An offset past the end yields empty arrays, not an error.
func paginate(full *types.ExploreResult, offset, limit int) *types.ExploreResult {
	return &types.ExploreResult{
		Places:      pageOf(full.Places, offset, limit),
		Hotels:      pageOf(full.Hotels, offset, limit),
		Restaurants: pageOf(full.Restaurants, offset, limit),
		Source:      full.Source,
		Area:        full.Area,
	}
}

func pageOf(places []types.Place, offset, limit int) []types.Place {
	if offset >= len(places) {
		return []types.Place{}
	}
	end := offset + limit
	if end > len(places) {
		end = len(places)
	}
	out := make([]types.Place, end-offset)
	copy(out, places[offset:end])
	return out
}

// placeholderResult is the terminal fallback: one synthetic record so the
// response is never empty-handed.
func placeholderResult(req types.ExploreRequest, area string) *types.ExploreResult {
	label := area
	if label == "" {
		label = fmt.Sprintf("%.4f, %.4f", req.Lat, req.Lon)
	}
	synthetic := types.Place{
		PlaceID:     fmt.Sprintf("ai-placeholder-%.2f-%.2f", geo.RoundCoord(req.Lat), geo.RoundCoord(req.Lon)),
		Name:        fmt.Sprintf("Explore %s", label),
		Description: fmt.Sprintf("We could not find indexed places around %s yet. Wander around and tell us what you discover.", label),
		Types:       []string{"placeholder"},
		Point:       types.GeoPoint{Lat: req.Lat, Lon: req.Lon},
		Source:      sources.SourceAI,
	}
	result := &types.ExploreResult{
		Places:      []types.Place{},
		Hotels:      []types.Place{},
		Restaurants: []types.Place{},
		Source:      sources.SourceAI,
		Area:        area,
	}
	// The synthetic record lands in the array the client asked for.
	switch req.Category {
	case types.CategoryHotel:
		result.Hotels = []types.Place{synthetic}
	case types.CategoryRestaurant:
		result.Restaurants = []types.Place{synthetic}
	default:
		result.Places = []types.Place{synthetic}
	}
	return result
}
