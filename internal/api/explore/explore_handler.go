package explore

import (
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/sathi-travel/sathi-api/internal/api"
	"github.com/sathi-travel/sathi-api/internal/types"
)

type ExploreHandler struct {
	exploreService Service
	logger         *slog.Logger
}

func NewExploreHandler(exploreService Service, logger *slog.Logger) *ExploreHandler {
	return &ExploreHandler{
		exploreService: exploreService,
		logger:         logger,
	}
}

// Explore handles GET /api/v1/explore. Upstream failures degrade inside the
// service; the only client errors here are malformed query parameters.
func (h *ExploreHandler) Explore(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ExploreHandler").Start(r.Context(), "Explore", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/explore"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Explore"))
	l.DebugContext(ctx, "Explore handler invoked")

	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		l.ErrorContext(ctx, "Invalid or missing lat parameter", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Query parameter 'lat' must be a valid latitude")
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		l.ErrorContext(ctx, "Invalid or missing lon parameter", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Query parameter 'lon' must be a valid longitude")
		return
	}

	req := types.ExploreRequest{
		Lat:        lat,
		Lon:        lon,
		Category:   types.PlaceCategory(q.Get("category")),
		MinQuality: q.Get("quality"),
	}
	if v := q.Get("radius"); v != "" {
		req.RadiusM, err = strconv.Atoi(v)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Query parameter 'radius' must be an integer number of meters")
			return
		}
	}
	if v := q.Get("offset"); v != "" {
		req.Offset, err = strconv.Atoi(v)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Query parameter 'offset' must be an integer")
			return
		}
	}
	if v := q.Get("limit"); v != "" {
		req.Limit, err = strconv.Atoi(v)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Query parameter 'limit' must be an integer")
			return
		}
	}

	result, err := h.exploreService.Explore(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Explore request rejected", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	l.InfoContext(ctx, "Explore completed",
		slog.String("source", result.Source),
		slog.Int("total", result.Total()),
		slog.Bool("cached", result.Cached))
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}
