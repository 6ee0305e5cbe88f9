package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/sathi-travel/sathi-api/app/observability/metrics"
	"github.com/sathi-travel/sathi-api/internal/ai"
	"github.com/sathi-travel/sathi-api/internal/types"
)

const maxTranslateChars = 4000

var _ Service = (*ServiceImpl)(nil)

// Service defines the translation and TTS contract.
type Service interface {
	Translate(ctx context.Context, req types.TranslateRequest) (*types.TranslateResponse, error)
	Speak(ctx context.Context, req types.TTSRequest) (*types.TTSResponse, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	gen    ai.Generator
}

func NewServiceImpl(gen ai.Generator, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		gen:    gen,
	}
}

func (s *ServiceImpl) Translate(ctx context.Context, req types.TranslateRequest) (*types.TranslateResponse, error) {
	ctx, span := otel.Tracer("TranslateService").Start(ctx, "Translate", trace.WithAttributes(
		attribute.String("target_lang", req.TargetLang),
		attribute.Int("text.length", len(req.Text)),
	))
	defer span.End()

	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("text is required")
	}
	if len(req.Text) > maxTranslateChars {
		return nil, fmt.Errorf("text exceeds %d characters", maxTranslateChars)
	}
	if req.TargetLang == "" {
		return nil, fmt.Errorf("target language is required")
	}

	m := metrics.Get()
	startTime := time.Now()

	prompt := translatePrompt(req)
	m.AIRequestsTotal.Add(ctx, 1)
	raw, err := s.gen.GenerateContent(ctx, prompt, &genai.GenerateContentConfig{
		// Translation wants faithfulness, not creativity.
		Temperature: genai.Ptr[float32](0.2),
	})
	m.AILatencySeconds.Record(ctx, time.Since(startTime).Seconds())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to translate text", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		return nil, fmt.Errorf("failed to translate text: %w", err)
	}

	var parsed struct {
		TranslatedText string `json:"translated_text"`
		DetectedLang   string `json:"detected_lang"`
	}
	if err := json.Unmarshal([]byte(ai.CleanJSONResponse(raw)), &parsed); err != nil {
		s.logger.ErrorContext(ctx, "Failed to parse translation JSON", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unparseable response")
		return nil, fmt.Errorf("failed to parse translation JSON: %w", err)
	}
	if parsed.TranslatedText == "" {
		err := fmt.Errorf("empty translation returned from AI")
		span.RecordError(err)
		span.SetStatus(codes.Error, "Empty translation")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Text translated")
	return &types.TranslateResponse{
		TranslatedText: parsed.TranslatedText,
		DetectedLang:   parsed.DetectedLang,
		TargetLang:     req.TargetLang,
	}, nil
}

// Speak returns a deterministic mock audio descriptor. Real synthesis is not
// wired up; clients use the descriptor to render a playback placeholder.
func (s *ServiceImpl) Speak(ctx context.Context, req types.TTSRequest) (*types.TTSResponse, error) {
	_, span := otel.Tracer("TranslateService").Start(ctx, "Speak")
	defer span.End()

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	lang := req.Lang
	if lang == "" {
		lang = "en"
	}

	words := len(strings.Fields(text))
	resp := &types.TTSResponse{
		AudioURI: fmt.Sprintf("data:audio/mock;lang=%s;words=%d", lang, words),
		Mock:     true,
		// Roughly 150 spoken words per minute.
		DurationS:  float64(words) / 2.5,
		VoiceHint:  lang + "-standard",
		SourceText: text,
	}
	span.SetStatus(codes.Ok, "Mock audio descriptor returned")
	return resp, nil
}
