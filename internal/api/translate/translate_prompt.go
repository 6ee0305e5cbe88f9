package translate

import (
	"fmt"

	"github.com/sathi-travel/sathi-api/internal/types"
)

func translatePrompt(req types.TranslateRequest) string {
	source := "the source language (detect it)"
	if req.SourceLang != "" {
		source = req.SourceLang
	}
	return fmt.Sprintf(`
            Translate the following text from %s to %s.
            Preserve tone and any place names; do not add commentary.
            Return the response STRICTLY as a JSON object with:
            {
            "translated_text": "The translation",
            "detected_lang": "ISO 639-1 code of the source language"
            }

            Text:
            %s`, source, req.TargetLang, req.Text)
}
