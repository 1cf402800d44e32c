package diarize

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/codebuildervaibhav/meeting-pipeline/internal/audio"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/types"
)

// MinWindowSeconds is the minimum viable window duration for embedding
// extraction. Shorter windows are rejected rather than zero-padded, since
// the embedding service cannot produce a reliable voice print from them.
const MinWindowSeconds = 0.2

// Embedder maps one audio window to a fixed-dimensionality speaker
// embedding vector.
type Embedder interface {
	Embed(ctx context.Context, w Window) ([]float64, error)
}

// Config holds per-request diarization parameters.
type Config struct {
	WindowSeconds float64 // chunk window duration
	MaxSpeakers   int     // upper bound on distinct speakers
	Parallelism   int     // concurrent embedding calls (default 4)
}

// Diarizer runs the chunk -> embed -> cluster -> align sub-pipeline.
type Diarizer struct {
	embedder Embedder
	chunker  *Chunker
	cfg      Config
}

// NewDiarizer creates a diarizer. It fails if the window duration is not
// positive.
func NewDiarizer(embedder Embedder, cfg Config) (*Diarizer, error) {
	chunker, err := NewChunker(cfg.WindowSeconds)
	if err != nil {
		return nil, err
	}
	if cfg.MaxSpeakers < 1 {
		cfg.MaxSpeakers = 1
	}
	if cfg.Parallelism < 1 {
		cfg.Parallelism = 4
	}
	return &Diarizer{embedder: embedder, chunker: chunker, cfg: cfg}, nil
}

// Diarize assigns a speaker label to every transcript segment. It returns
// the speaker-attributed lines along with the per-window labels, one per
// window in stream order.
func (d *Diarizer) Diarize(ctx context.Context, stream *audio.Stream, segments []types.TranscriptSegment) ([]types.SpeakerLine, []int, error) {
	windows := d.chunker.Windows(stream).Collect()
	if len(windows) == 0 {
		return nil, nil, fmt.Errorf("%w: empty audio stream", types.ErrInsufficientData)
	}

	embeddings, err := d.embedAll(ctx, windows)
	if err != nil {
		return nil, nil, err
	}

	labels, err := ClusterSpeakers(embeddings, d.cfg.MaxSpeakers)
	if err != nil {
		return nil, nil, err
	}

	log.Printf("Diarization: %d windows, %d speakers", len(windows), distinctCount(labels))

	lines := AlignSegments(segments, labels, d.cfg.WindowSeconds)
	return lines, labels, nil
}

// embedAll extracts one embedding per window. Windows are independent, so
// extraction runs on a bounded worker group; results are written into a
// slice indexed by window position so window order is preserved for the
// clustering step.
func (d *Diarizer) embedAll(ctx context.Context, windows []Window) ([][]float64, error) {
	embeddings := make([][]float64, len(windows))
	errs := make([]error, len(windows))

	sem := make(chan struct{}, d.cfg.Parallelism)
	var wg sync.WaitGroup
	for i, w := range windows {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, w Window) {
			defer wg.Done()
			defer func() { <-sem }()

			if w.Seconds() < MinWindowSeconds {
				errs[i] = fmt.Errorf("%w: window %d is %.3fs, below %.3fs minimum",
					types.ErrEmbeddingService, w.Index, w.Seconds(), MinWindowSeconds)
				return
			}
			embeddings[i], errs[i] = d.embedder.Embed(ctx, w)
		}(i, w)
	}
	wg.Wait()

	// Report the lowest-index failure so errors are reproducible.
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("embed window %d: %w", i, err)
		}
	}
	return embeddings, nil
}

func distinctCount(labels []int) int {
	seen := make(map[int]struct{}, len(labels))
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	return len(seen)
}
