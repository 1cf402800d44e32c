package diarize

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/codebuildervaibhav/meeting-pipeline/internal/audio"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/types"
)

// fakeEmbedder derives a deterministic vector from each window's dominant
// sample value, so streams built from constant-valued regions cluster
// predictably regardless of extraction order.
type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, w Window) ([]float64, error) {
	f.calls++
	var sum float64
	for _, s := range w.Samples {
		sum += s
	}
	mean := sum / float64(len(w.Samples))
	return []float64{1 - mean, mean, 0.1}, nil
}

// twoSpeakerStream alternates 5s regions of low and high amplitude,
// mimicking two voices taking turns.
func twoSpeakerStream(regions int, sampleRate int) *audio.Stream {
	perRegion := 5 * sampleRate
	samples := make([]float64, 0, regions*perRegion)
	for r := 0; r < regions; r++ {
		level := 0.1
		if r%2 == 1 {
			level = 0.9
		}
		for i := 0; i < perRegion; i++ {
			samples = append(samples, level)
		}
	}
	return &audio.Stream{Samples: samples, SampleRate: sampleRate}
}

func TestDiarizeEndToEnd(t *testing.T) {
	d, err := NewDiarizer(&fakeEmbedder{}, Config{
		WindowSeconds: 5,
		MaxSpeakers:   2,
	})
	if err != nil {
		t.Fatalf("NewDiarizer: %v", err)
	}

	stream := twoSpeakerStream(3, 8000) // 15s: speaker A, B, A
	segments := []types.TranscriptSegment{
		{Start: 1.0, End: 4.0, Text: "hello there"},
		{Start: 6.0, End: 9.0, Text: "hi yourself"},
		{Start: 11.0, End: 14.0, Text: "good to see you"},
	}

	lines, labels, err := d.Diarize(context.Background(), stream, segments)
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}

	if want := []int{0, 1, 0}; !reflect.DeepEqual(labels, want) {
		t.Errorf("labels = %v, want %v", labels, want)
	}
	wantLines := []types.SpeakerLine{
		{Speaker: 0, Text: "hello there"},
		{Speaker: 1, Text: "hi yourself"},
		{Speaker: 0, Text: "good to see you"},
	}
	if !reflect.DeepEqual(lines, wantLines) {
		t.Errorf("lines = %v, want %v", lines, wantLines)
	}
}

func TestDiarizeDeterministicWithParallelism(t *testing.T) {
	stream := twoSpeakerStream(6, 8000)
	segments := []types.TranscriptSegment{
		{Start: 2.0, End: 3.0, Text: "a"},
		{Start: 12.0, End: 13.0, Text: "b"},
		{Start: 27.0, End: 28.0, Text: "c"},
	}

	var first []int
	for _, parallelism := range []int{1, 4, 8} {
		d, err := NewDiarizer(&fakeEmbedder{}, Config{
			WindowSeconds: 5,
			MaxSpeakers:   2,
			Parallelism:   parallelism,
		})
		if err != nil {
			t.Fatalf("NewDiarizer: %v", err)
		}
		_, labels, err := d.Diarize(context.Background(), stream, segments)
		if err != nil {
			t.Fatalf("Diarize (parallelism %d): %v", parallelism, err)
		}
		if first == nil {
			first = labels
			continue
		}
		if !reflect.DeepEqual(labels, first) {
			t.Errorf("parallelism %d labels = %v, want %v", parallelism, labels, first)
		}
	}
}

func TestDiarizeEmptyStream(t *testing.T) {
	d, _ := NewDiarizer(&fakeEmbedder{}, Config{WindowSeconds: 5, MaxSpeakers: 2})
	_, _, err := d.Diarize(context.Background(), &audio.Stream{SampleRate: 8000}, nil)
	if !errors.Is(err, types.ErrInsufficientData) {
		t.Errorf("error = %v, want ErrInsufficientData", err)
	}
}

func TestDiarizeRejectsSubMinimumWindow(t *testing.T) {
	d, _ := NewDiarizer(&fakeEmbedder{}, Config{WindowSeconds: 5, MaxSpeakers: 2})

	// 5.1s of audio: the 0.1s tail window is below the minimum viable
	// duration and must be rejected, not zero-padded.
	n := int(5.1 * 8000)
	stream := &audio.Stream{Samples: make([]float64, n), SampleRate: 8000}

	_, _, err := d.Diarize(context.Background(), stream, nil)
	if !errors.Is(err, types.ErrEmbeddingService) {
		t.Errorf("error = %v, want ErrEmbeddingService", err)
	}
}

func TestDiarizeInvalidWindowDuration(t *testing.T) {
	_, err := NewDiarizer(&fakeEmbedder{}, Config{WindowSeconds: 0, MaxSpeakers: 2})
	if !errors.Is(err, types.ErrInvalidDuration) {
		t.Errorf("error = %v, want ErrInvalidDuration", err)
	}
}

func TestDiarizeEmbedderFailurePropagates(t *testing.T) {
	d, _ := NewDiarizer(failEmbedder{}, Config{WindowSeconds: 5, MaxSpeakers: 2})
	stream := twoSpeakerStream(2, 8000)

	_, _, err := d.Diarize(context.Background(), stream, nil)
	if !errors.Is(err, types.ErrEmbeddingService) {
		t.Errorf("error = %v, want ErrEmbeddingService", err)
	}
}

type failEmbedder struct{}

func (failEmbedder) Embed(context.Context, Window) ([]float64, error) {
	return nil, types.ErrEmbeddingService
}
