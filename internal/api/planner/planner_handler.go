package planner

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/sathi-travel/sathi-api/internal/api"
	"github.com/sathi-travel/sathi-api/internal/types"
)

type PlannerHandler struct {
	plannerService Service
	logger         *slog.Logger
}

func NewPlannerHandler(plannerService Service, logger *slog.Logger) *PlannerHandler {
	return &PlannerHandler{
		plannerService: plannerService,
		logger:         logger,
	}
}

// PlanItinerary handles POST /api/v1/planner/itinerary.
func (h *PlannerHandler) PlanItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "PlanItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/planner/itinerary"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "PlanItinerary"))
	l.DebugContext(ctx, "Plan itinerary handler invoked")

	var req types.ItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Destination == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Destination is required")
		return
	}
	if req.Days <= 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Days must be a positive number")
		return
	}

	itinerary, err := h.plannerService.PlanItinerary(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to plan itinerary", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "Failed to generate itinerary")
		return
	}

	l.InfoContext(ctx, "Itinerary generated",
		slog.String("destination", req.Destination),
		slog.Int("days", len(itinerary.Days)))
	api.WriteJSONResponse(w, r, http.StatusOK, itinerary)
}
