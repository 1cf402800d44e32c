// Package pipeline sequences the meeting-processing workflow:
// transcription, translation, summarization, and speaker diarization.
// Each stage's textual output is persisted as soon as the stage completes,
// so partial progress survives a later-stage failure.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/codebuildervaibhav/meeting-pipeline/internal/audio"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/storage"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/types"
)

// summaryPrompt prefixes the translated transcript before summarization so
// the model extracts action items alongside the summary.
const summaryPrompt = "Summarize the following meeting and extract key action items:\n\n"

// Transcriber is the speech-to-text capability consumed by the pipeline.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*types.TranscriptionResult, error)
}

// Translator is the machine translation capability consumed by the pipeline.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Summarizer is the summarization capability consumed by the pipeline.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error)
}

// Diarizer is the speaker attribution capability consumed by the pipeline.
type Diarizer interface {
	Diarize(ctx context.Context, stream *audio.Stream, segments []types.TranscriptSegment) ([]types.SpeakerLine, []int, error)
}

// Config holds per-request pipeline parameters. These are passed in at
// call time rather than held as process-wide state so concurrent requests
// stay independent.
type Config struct {
	SummaryMaxLength int           // summarization upper bound (tokens)
	SummaryMinLength int           // summarization lower bound (tokens)
	StageTimeout     time.Duration // deadline per external-service stage
}

func (c Config) withDefaults() Config {
	if c.SummaryMaxLength <= 0 {
		c.SummaryMaxLength = 200
	}
	if c.SummaryMinLength <= 0 {
		c.SummaryMinLength = 80
	}
	if c.StageTimeout <= 0 {
		c.StageTimeout = 10 * time.Minute
	}
	return c
}

// StageError reports which stage failed and the furthest stage that
// completed before it, so callers can recover partial artifacts from disk.
type StageError struct {
	Stage     string // the stage that failed
	Completed string // furthest completed stage
	Err       error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed (completed through %s): %v", e.Stage, e.Completed, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Orchestrator runs the full pipeline for one meeting at a time.
type Orchestrator struct {
	transcriber Transcriber
	translator  Translator
	summarizer  Summarizer
	diarizer    Diarizer
	store       *storage.ArtifactStore
	cfg         Config
}

// NewOrchestrator wires the pipeline's collaborators together.
func NewOrchestrator(
	transcriber Transcriber,
	translator Translator,
	summarizer Summarizer,
	diarizer Diarizer,
	store *storage.ArtifactStore,
	cfg Config,
) *Orchestrator {
	return &Orchestrator{
		transcriber: transcriber,
		translator:  translator,
		summarizer:  summarizer,
		diarizer:    diarizer,
		store:       store,
		cfg:         cfg.withDefaults(),
	}
}

// Process runs the pipeline end to end over a normalized WAV file. On
// success it returns the assembled MeetingResult; on failure it returns a
// StageError and leaves already-persisted artifacts in place.
func (o *Orchestrator) Process(ctx context.Context, jobID, wavPath string) (*types.MeetingResult, error) {
	completed := types.StageReceived

	// Transcribing
	log.Printf("Job %s: transcribing audio...", jobID)
	var tr *types.TranscriptionResult
	err := o.stage(ctx, func(ctx context.Context) error {
		var err error
		tr, err = o.transcriber.Transcribe(ctx, wavPath)
		return err
	})
	if err != nil {
		return nil, &StageError{Stage: types.StageTranscribing, Completed: completed, Err: err}
	}
	if _, err := o.store.SaveArtifact(types.ArtifactTranscript, tr.Text); err != nil {
		return nil, &StageError{Stage: types.StageTranscribing, Completed: completed, Err: err}
	}
	completed = types.StageTranscribing

	// Translating
	log.Printf("Job %s: translating transcript...", jobID)
	var translated string
	err = o.stage(ctx, func(ctx context.Context) error {
		var err error
		translated, err = o.translator.Translate(ctx, tr.Text)
		return err
	})
	if err != nil {
		return nil, &StageError{Stage: types.StageTranslating, Completed: completed, Err: err}
	}
	if _, err := o.store.SaveArtifact(types.ArtifactTranslated, translated); err != nil {
		return nil, &StageError{Stage: types.StageTranslating, Completed: completed, Err: err}
	}
	completed = types.StageTranslating

	// Summarizing
	log.Printf("Job %s: generating summary...", jobID)
	var summary string
	err = o.stage(ctx, func(ctx context.Context) error {
		var err error
		summary, err = o.summarizer.Summarize(ctx, summaryPrompt+translated,
			o.cfg.SummaryMaxLength, o.cfg.SummaryMinLength)
		return err
	})
	if err != nil {
		return nil, &StageError{Stage: types.StageSummarizing, Completed: completed, Err: err}
	}
	if _, err := o.store.SaveArtifact(types.ArtifactSummary, summary); err != nil {
		return nil, &StageError{Stage: types.StageSummarizing, Completed: completed, Err: err}
	}
	completed = types.StageSummarizing

	// Diarizing
	log.Printf("Job %s: performing speaker diarization...", jobID)
	var (
		lines  []types.SpeakerLine
		labels []int
	)
	err = o.stage(ctx, func(ctx context.Context) error {
		stream, err := audio.DecodeWAVFile(wavPath)
		if err != nil {
			return fmt.Errorf("decode audio: %w", err)
		}
		lines, labels, err = o.diarizer.Diarize(ctx, stream, tr.Segments)
		return err
	})
	if err != nil {
		return nil, &StageError{Stage: types.StageDiarizing, Completed: completed, Err: err}
	}
	if _, err := o.store.SaveArtifact(types.ArtifactSpeakers, FormatSpeakerTranscript(lines)); err != nil {
		return nil, &StageError{Stage: types.StageDiarizing, Completed: completed, Err: err}
	}
	completed = types.StageDiarizing

	result := &types.MeetingResult{
		JobID:        jobID,
		Transcript:   tr.Text,
		Translated:   translated,
		Summary:      summary,
		SpeakerLines: lines,
		Language:     tr.Language,
		Duration:     tr.Duration,
		SpeakerCount: distinctLabels(labels),
		WordCount:    len(strings.Fields(tr.Text)),
		ProcessedAt:  time.Now(),
		OutputDir:    o.store.OutputDir(),
	}

	if _, err := o.store.SaveMetadata(result); err != nil {
		return nil, &StageError{Stage: types.StageCompleted, Completed: completed, Err: err}
	}

	log.Printf("Job %s: processing complete (%d speakers, %d words)",
		jobID, result.SpeakerCount, result.WordCount)
	return result, nil
}

// stage runs one pipeline stage under the configured deadline.
func (o *Orchestrator) stage(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.StageTimeout)
	defer cancel()
	return fn(ctx)
}

// FormatSpeakerTranscript renders speaker-attributed lines as the plain
// text artifact, one "Speaker N: text" line per segment. Labels are
// zero-based internally but displayed one-based.
func FormatSpeakerTranscript(lines []types.SpeakerLine) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "Speaker %d: %s", l.Speaker+1, l.Text)
	}
	return b.String()
}

func distinctLabels(labels []int) int {
	seen := make(map[int]struct{}, len(labels))
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	return len(seen)
}
