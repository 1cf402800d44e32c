package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/codebuildervaibhav/meeting-pipeline/internal/audio"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/diarize"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/types"
)

// Embedder calls the voice-embedding sidecar with one window of audio and
// returns the speaker embedding vector. It implements diarize.Embedder.
type Embedder struct {
	c         *client
	dimension int
}

// NewEmbedder creates an embedding client. dimension is the vector length
// the sidecar model produces; responses of any other length are rejected.
func NewEmbedder(baseURL string, dimension int, timeout time.Duration) *Embedder {
	return &Embedder{
		c:         newClient(baseURL, timeout),
		dimension: dimension,
	}
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed ships the window as a 16-bit PCM WAV over multipart and returns the
// embedding vector. The window is encoded at its own sample rate; pipeline
// audio is already normalized to the rate the sidecar expects.
func (e *Embedder) Embed(ctx context.Context, w diarize.Window) ([]float64, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", fmt.Sprintf("window_%d.wav", w.Index))
	if err != nil {
		return nil, fmt.Errorf("%w: create form file: %v", types.ErrEmbeddingService, err)
	}
	if _, err := fw.Write(audio.EncodeWAV(w.Samples, w.SampleRate)); err != nil {
		return nil, fmt.Errorf("%w: write window payload: %v", types.ErrEmbeddingService, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%w: close multipart: %v", types.ErrEmbeddingService, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.c.baseURL+"/embed", &body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrEmbeddingService, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := e.c.http.Do(req)
	if err != nil {
		if terr := wrapTransportError("/embed", err); errors.Is(terr, types.ErrTimeout) {
			return nil, terr
		}
		return nil, fmt.Errorf("%w: /embed: %v", types.ErrEmbeddingService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		const maxErr = 4096
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErr))
		return nil, fmt.Errorf("%w: /embed %s: %s", types.ErrEmbeddingService,
			resp.Status, strings.TrimSpace(string(b)))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode /embed response: %v", types.ErrEmbeddingService, err)
	}
	if len(out.Embedding) != e.dimension {
		return nil, fmt.Errorf("%w: embedding has dimension %d, expected %d",
			types.ErrEmbeddingService, len(out.Embedding), e.dimension)
	}
	return out.Embedding, nil
}
