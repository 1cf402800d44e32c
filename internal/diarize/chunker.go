// Package diarize implements the speaker diarization core: fixed-duration
// audio windowing, per-window speaker embeddings, agglomerative clustering
// of embeddings into speaker identities, and temporal alignment of the
// resulting labels with transcript segments.
package diarize

import (
	"fmt"

	"github.com/codebuildervaibhav/meeting-pipeline/internal/audio"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/types"
)

// Window is a contiguous sub-range of an audio stream. Windows are
// contiguous, non-overlapping, and cover the whole stream except that the
// final window may be shorter than the configured duration.
type Window struct {
	Index      int
	Start      float64 // seconds from stream start
	Samples    []float64
	SampleRate int
}

// Seconds returns the window's duration.
func (w Window) Seconds() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// Chunker splits a decoded audio stream into fixed-duration windows.
type Chunker struct {
	windowSec float64
}

// NewChunker creates a chunker with the given window duration in seconds.
func NewChunker(windowSec float64) (*Chunker, error) {
	if windowSec <= 0 {
		return nil, fmt.Errorf("%w: %v seconds", types.ErrInvalidDuration, windowSec)
	}
	return &Chunker{windowSec: windowSec}, nil
}

// Windows returns a restartable iterator over the stream's windows.
// Window slices alias the stream's sample buffer; no audio is copied.
func (c *Chunker) Windows(stream *audio.Stream) *WindowIter {
	windowSamples := int(c.windowSec * float64(stream.SampleRate))
	if windowSamples < 1 {
		windowSamples = 1
	}
	return &WindowIter{stream: stream, windowSamples: windowSamples}
}

// WindowIter iterates over a stream's windows in order. Reset rewinds it to
// the first window.
type WindowIter struct {
	stream        *audio.Stream
	windowSamples int
	pos           int
	index         int
}

// Next returns the next window. The second return value is false once the
// stream is exhausted.
func (it *WindowIter) Next() (Window, bool) {
	if it.pos >= len(it.stream.Samples) {
		return Window{}, false
	}
	end := it.pos + it.windowSamples
	if end > len(it.stream.Samples) {
		end = len(it.stream.Samples)
	}
	w := Window{
		Index:      it.index,
		Start:      float64(it.pos) / float64(it.stream.SampleRate),
		Samples:    it.stream.Samples[it.pos:end],
		SampleRate: it.stream.SampleRate,
	}
	it.pos = end
	it.index++
	return w, true
}

// Reset rewinds the iterator to the first window.
func (it *WindowIter) Reset() {
	it.pos = 0
	it.index = 0
}

// Len returns the total number of windows the iterator will produce.
func (it *WindowIter) Len() int {
	n := len(it.stream.Samples)
	if n == 0 {
		return 0
	}
	return (n + it.windowSamples - 1) / it.windowSamples
}

// Collect drains the iterator into a slice, resetting it first so the
// result is independent of prior Next calls.
func (it *WindowIter) Collect() []Window {
	it.Reset()
	out := make([]Window, 0, it.Len())
	for {
		w, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, w)
	}
}
