package inference

import (
	"context"
	"fmt"
	"time"

	"github.com/codebuildervaibhav/meeting-pipeline/internal/types"
)

// Translator calls the machine translation sidecar. The target language is
// fixed at construction time.
type Translator struct {
	c          *client
	targetLang string
}

// NewTranslator creates a translation client for the given sidecar URL.
func NewTranslator(baseURL, targetLang string, timeout time.Duration) *Translator {
	return &Translator{
		c:          newClient(baseURL, timeout),
		targetLang: targetLang,
	}
}

type translateRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang"`
}

type translateResponse struct {
	TranslatedText string `json:"translated_text"`
}

// Translate returns the text translated into the configured target language.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	var out translateResponse
	if err := t.c.postJSON(ctx, "/translate", translateRequest{
		Text:       text,
		TargetLang: t.targetLang,
	}, &out); err != nil {
		return "", err
	}
	if out.TranslatedText == "" && text != "" {
		return "", fmt.Errorf("%w: translation returned empty text", types.ErrExternalService)
	}
	return out.TranslatedText, nil
}
