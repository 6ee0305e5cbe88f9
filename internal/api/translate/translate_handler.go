package translate

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/sathi-travel/sathi-api/internal/api"
	"github.com/sathi-travel/sathi-api/internal/types"
)

type TranslateHandler struct {
	translateService Service
	logger           *slog.Logger
}

func NewTranslateHandler(translateService Service, logger *slog.Logger) *TranslateHandler {
	return &TranslateHandler{
		translateService: translateService,
		logger:           logger,
	}
}

// Translate handles POST /api/v1/translate.
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TranslateHandler").Start(r.Context(), "Translate", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/translate"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Translate"))

	var req types.TranslateRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Text == "" || req.TargetLang == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Both 'text' and 'target_lang' are required")
		return
	}

	resp, err := h.translateService.Translate(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to translate", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "Failed to translate text")
		return
	}

	l.InfoContext(ctx, "Text translated", slog.String("target_lang", req.TargetLang))
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// Speak handles POST /api/v1/tts.
func (h *TranslateHandler) Speak(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TranslateHandler").Start(r.Context(), "Speak", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/tts"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Speak"))

	var req types.TTSRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Text == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "'text' is required")
		return
	}

	resp, err := h.translateService.Speak(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to build audio descriptor", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to build audio descriptor")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}
