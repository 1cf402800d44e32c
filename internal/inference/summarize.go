package inference

import (
	"context"
	"fmt"
	"time"

	"github.com/codebuildervaibhav/meeting-pipeline/internal/types"
)

// Summarizer calls the summarization sidecar with explicit length bounds.
type Summarizer struct {
	c *client
}

// NewSummarizer creates a summarization client for the given sidecar URL.
func NewSummarizer(baseURL string, timeout time.Duration) *Summarizer {
	return &Summarizer{c: newClient(baseURL, timeout)}
}

type summarizeRequest struct {
	Text      string `json:"text"`
	MaxLength int    `json:"max_length"`
	MinLength int    `json:"min_length"`
}

type summarizeResponse struct {
	SummaryText string `json:"summary_text"`
}

// Summarize returns a summary of the text, bounded to [minLength, maxLength]
// tokens by the backend model.
func (s *Summarizer) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	var out summarizeResponse
	if err := s.c.postJSON(ctx, "/summarize", summarizeRequest{
		Text:      text,
		MaxLength: maxLength,
		MinLength: minLength,
	}, &out); err != nil {
		return "", err
	}
	if out.SummaryText == "" {
		return "", fmt.Errorf("%w: summarization returned empty text", types.ErrExternalService)
	}
	return out.SummaryText, nil
}
