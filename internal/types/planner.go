package types

import "github.com/google/uuid"

// ItineraryRequest asks the planner flow for a day-by-day travel plan.
type ItineraryRequest struct {
	Destination string   `json:"destination"`
	Days        int      `json:"days"`
	Interests   []string `json:"interests,omitempty"`
	Budget      string   `json:"budget,omitempty"`
}

type ItineraryDay struct {
	Day        int      `json:"day"`
	Title      string   `json:"title"`
	Morning    string   `json:"morning"`
	Afternoon  string   `json:"afternoon"`
	Evening    string   `json:"evening"`
	Highlights []string `json:"highlights,omitempty"`
}

type Itinerary struct {
	ID          uuid.UUID      `json:"id"`
	Destination string         `json:"destination"`
	Summary     string         `json:"summary"`
	Days        []ItineraryDay `json:"days"`
	Tips        []string       `json:"tips,omitempty"`
}

// TranslateRequest asks the translation flow for a single text translation.
type TranslateRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang"`
	SourceLang string `json:"source_lang,omitempty"`
}

type TranslateResponse struct {
	TranslatedText string `json:"translated_text"`
	DetectedLang   string `json:"detected_lang,omitempty"`
	TargetLang     string `json:"target_lang"`
}

// TTSRequest asks for a spoken rendition of a short text. The current
// implementation returns a mock descriptor instead of real audio.
type TTSRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang,omitempty"`
}

type TTSResponse struct {
	AudioURI   string  `json:"audio_uri"`
	Mock       bool    `json:"mock"`
	DurationS  float64 `json:"duration_s"`
	VoiceHint  string  `json:"voice_hint,omitempty"`
	SourceText string  `json:"source_text"`
}
