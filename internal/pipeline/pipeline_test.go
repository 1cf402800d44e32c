package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codebuildervaibhav/meeting-pipeline/internal/audio"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/storage"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/types"
)

type fakeTranscriber struct{}

func (fakeTranscriber) Transcribe(_ context.Context, _ string) (*types.TranscriptionResult, error) {
	return &types.TranscriptionResult{
		Text:     "hello everyone let us begin",
		Language: "en",
		Duration: 12,
		Segments: []types.TranscriptSegment{
			{Start: 0, End: 4, Text: "hello everyone"},
			{Start: 6, End: 10, Text: "let us begin"},
		},
	}, nil
}

type fakeTranslator struct{}

func (fakeTranslator) Translate(_ context.Context, text string) (string, error) {
	return "TRANSLATED: " + text, nil
}

type fakeSummarizer struct {
	gotPrompt string
	fail      bool
}

func (f *fakeSummarizer) Summarize(_ context.Context, text string, _, _ int) (string, error) {
	if f.fail {
		return "", types.ErrExternalService
	}
	f.gotPrompt = text
	return "key decisions and action items", nil
}

type fakeDiarizer struct{}

func (fakeDiarizer) Diarize(_ context.Context, _ *audio.Stream, segments []types.TranscriptSegment) ([]types.SpeakerLine, []int, error) {
	lines := make([]types.SpeakerLine, len(segments))
	for i, s := range segments {
		lines[i] = types.SpeakerLine{Speaker: i % 2, Text: s.Text}
	}
	return lines, []int{0, 1, 0}, nil
}

func writeTestWAV(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "meeting.wav")
	data := audio.EncodeWAV(make([]float64, 16000), 16000) // 1s of silence
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write test WAV: %v", err)
	}
	return path
}

func newTestOrchestrator(dir string, summarizer Summarizer) (*Orchestrator, *storage.ArtifactStore) {
	store := storage.NewArtifactStore(filepath.Join(dir, "output"))
	o := NewOrchestrator(fakeTranscriber{}, fakeTranslator{}, summarizer, fakeDiarizer{}, store, Config{})
	return o, store
}

func TestProcessCompletes(t *testing.T) {
	dir := t.TempDir()
	summarizer := &fakeSummarizer{}
	o, store := newTestOrchestrator(dir, summarizer)

	result, err := o.Process(context.Background(), "job-1", writeTestWAV(t, dir))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if result.Transcript != "hello everyone let us begin" {
		t.Errorf("Transcript = %q", result.Transcript)
	}
	if result.Translated != "TRANSLATED: hello everyone let us begin" {
		t.Errorf("Translated = %q", result.Translated)
	}
	if result.Summary != "key decisions and action items" {
		t.Errorf("Summary = %q", result.Summary)
	}
	if result.SpeakerCount != 2 {
		t.Errorf("SpeakerCount = %d, want 2", result.SpeakerCount)
	}
	if result.WordCount != 5 {
		t.Errorf("WordCount = %d, want 5", result.WordCount)
	}

	// Summarization sees the action-item prompt, not the raw transcript.
	if !strings.HasPrefix(summarizer.gotPrompt, "Summarize the following meeting") {
		t.Errorf("summary prompt = %q", summarizer.gotPrompt)
	}
	if !strings.Contains(summarizer.gotPrompt, result.Translated) {
		t.Error("summary prompt does not include the translated transcript")
	}

	// All four artifacts are persisted.
	for _, kind := range []string{
		types.ArtifactTranscript, types.ArtifactTranslated,
		types.ArtifactSummary, types.ArtifactSpeakers,
	} {
		if _, err := store.ReadArtifact(kind); err != nil {
			t.Errorf("artifact %s not persisted: %v", kind, err)
		}
	}

	speakers, _ := store.ReadArtifact(types.ArtifactSpeakers)
	want := "Speaker 1: hello everyone\nSpeaker 2: let us begin"
	if speakers != want {
		t.Errorf("speaker transcript = %q, want %q", speakers, want)
	}
}

func TestProcessStageFailureKeepsEarlierArtifacts(t *testing.T) {
	dir := t.TempDir()
	o, store := newTestOrchestrator(dir, &fakeSummarizer{fail: true})

	_, err := o.Process(context.Background(), "job-2", writeTestWAV(t, dir))
	if err == nil {
		t.Fatal("expected a stage error")
	}

	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("error = %T, want *StageError", err)
	}
	if stageErr.Stage != types.StageSummarizing {
		t.Errorf("failing stage = %s, want %s", stageErr.Stage, types.StageSummarizing)
	}
	if stageErr.Completed != types.StageTranslating {
		t.Errorf("completed stage = %s, want %s", stageErr.Completed, types.StageTranslating)
	}
	if !errors.Is(err, types.ErrExternalService) {
		t.Errorf("error kind = %v, want ErrExternalService", err)
	}

	// Completed stages stay persisted; later stages never wrote.
	if _, err := store.ReadArtifact(types.ArtifactTranscript); err != nil {
		t.Errorf("transcript artifact missing: %v", err)
	}
	if _, err := store.ReadArtifact(types.ArtifactTranslated); err != nil {
		t.Errorf("translated artifact missing: %v", err)
	}
	if _, err := store.ReadArtifact(types.ArtifactSummary); err == nil {
		t.Error("summary artifact exists after summarization failure")
	}
}

func TestFormatSpeakerTranscript(t *testing.T) {
	got := FormatSpeakerTranscript([]types.SpeakerLine{
		{Speaker: 0, Text: "hi"},
		{Speaker: 1, Text: "hey"},
	})
	if got != "Speaker 1: hi\nSpeaker 2: hey" {
		t.Errorf("FormatSpeakerTranscript = %q", got)
	}
	if FormatSpeakerTranscript(nil) != "" {
		t.Error("empty input should produce empty output")
	}
}
