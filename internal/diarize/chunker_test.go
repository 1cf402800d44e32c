package diarize

import (
	"errors"
	"math"
	"testing"

	"github.com/codebuildervaibhav/meeting-pipeline/internal/audio"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/types"
)

func makeStream(seconds float64, sampleRate int) *audio.Stream {
	n := int(seconds * float64(sampleRate))
	return &audio.Stream{
		Samples:    make([]float64, n),
		SampleRate: sampleRate,
	}
}

func TestNewChunkerInvalidDuration(t *testing.T) {
	for _, d := range []float64{0, -1, -0.5} {
		if _, err := NewChunker(d); !errors.Is(err, types.ErrInvalidDuration) {
			t.Errorf("NewChunker(%v) error = %v, want ErrInvalidDuration", d, err)
		}
	}
}

func TestChunkerCoverage(t *testing.T) {
	tests := []struct {
		name      string
		seconds   float64
		windowSec float64
		wantCount int
	}{
		{"exact multiple", 10, 5, 2},
		{"truncated tail", 12, 5, 3},
		{"single window", 5, 5, 1},
		{"shorter than window", 3, 5, 1},
		{"tiny tail", 10.5, 5, 3},
		{"one second windows", 7, 1, 7},
	}

	const sampleRate = 16000
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewChunker(tt.windowSec)
			if err != nil {
				t.Fatalf("NewChunker: %v", err)
			}
			stream := makeStream(tt.seconds, sampleRate)
			windows := c.Windows(stream).Collect()

			if len(windows) != tt.wantCount {
				t.Fatalf("got %d windows, want %d", len(windows), tt.wantCount)
			}

			// Windows are contiguous, non-overlapping, and sum to the stream.
			var totalSamples int
			pos := 0.0
			for i, w := range windows {
				if w.Index != i {
					t.Errorf("window %d has index %d", i, w.Index)
				}
				if math.Abs(w.Start-pos) > 1e-9 {
					t.Errorf("window %d starts at %v, want %v (gap or overlap)", i, w.Start, pos)
				}
				if i < len(windows)-1 && math.Abs(w.Seconds()-tt.windowSec) > 1e-9 {
					t.Errorf("window %d duration %v, want %v", i, w.Seconds(), tt.windowSec)
				}
				pos += w.Seconds()
				totalSamples += len(w.Samples)
			}
			if totalSamples != len(stream.Samples) {
				t.Errorf("windows cover %d samples, stream has %d", totalSamples, len(stream.Samples))
			}
		})
	}
}

func TestChunkerScenario12s5s(t *testing.T) {
	// 12s of audio with 5s windows: [0,5), [5,10), [10,12).
	c, _ := NewChunker(5)
	windows := c.Windows(makeStream(12, 16000)).Collect()

	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(windows))
	}
	wantStarts := []float64{0, 5, 10}
	wantDurs := []float64{5, 5, 2}
	for i, w := range windows {
		if math.Abs(w.Start-wantStarts[i]) > 1e-9 {
			t.Errorf("window %d start = %v, want %v", i, w.Start, wantStarts[i])
		}
		if math.Abs(w.Seconds()-wantDurs[i]) > 1e-9 {
			t.Errorf("window %d duration = %v, want %v", i, w.Seconds(), wantDurs[i])
		}
	}
}

func TestChunkerRestartable(t *testing.T) {
	c, _ := NewChunker(5)
	it := c.Windows(makeStream(12, 16000))

	first, ok := it.Next()
	if !ok {
		t.Fatal("expected a first window")
	}
	it.Next()
	it.Reset()
	again, ok := it.Next()
	if !ok {
		t.Fatal("expected a window after Reset")
	}
	if again.Index != first.Index || again.Start != first.Start || len(again.Samples) != len(first.Samples) {
		t.Errorf("after Reset got window %+v, want same as first %+v", again.Index, first.Index)
	}
}

func TestChunkerEmptyStream(t *testing.T) {
	c, _ := NewChunker(5)
	it := c.Windows(&audio.Stream{SampleRate: 16000})
	if it.Len() != 0 {
		t.Errorf("Len() = %d, want 0", it.Len())
	}
	if _, ok := it.Next(); ok {
		t.Error("expected no windows from an empty stream")
	}
}
