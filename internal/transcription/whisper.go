// Package transcription wraps the external ASR backend. Whisper runs as a
// Python subprocess; its JSON output is parsed into the pipeline's
// transcript types.
package transcription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/codebuildervaibhav/meeting-pipeline/internal/types"
)

// Transcriber is the capability interface for speech-to-text backends.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*types.TranscriptionResult, error)
}

// WhisperTranscriber wraps Python's OpenAI Whisper for transcription
type WhisperTranscriber struct {
	modelName string
	language  string
	tempDir   string
	mu        sync.Mutex // Thread-safe transcription
}

// NewWhisperTranscriber creates a new transcriber using Python Whisper
func NewWhisperTranscriber(modelName, language, tempDir string) (*WhisperTranscriber, error) {
	switch modelName {
	case "tiny", "base", "small", "medium", "large":
	case "":
		modelName = "base"
	default:
		return nil, fmt.Errorf("unknown whisper model %q", modelName)
	}
	if language == "" {
		language = "en"
	}

	log.Printf("Initializing Python Whisper with model: %s", modelName)
	log.Printf("Note: Whisper availability will be verified on first transcription")

	return &WhisperTranscriber{
		modelName: modelName,
		language:  language,
		tempDir:   tempDir,
	}, nil
}

// Transcribe processes an audio file and returns the transcript
func (wt *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (*types.TranscriptionResult, error) {
	wt.mu.Lock()
	defer wt.mu.Unlock()

	log.Printf("Transcribing with Python Whisper: %s", audioPath)

	// Create temp directory for Whisper output
	outDir := filepath.Join(wt.tempDir, "whisper_output")
	os.MkdirAll(outDir, 0755)
	defer os.RemoveAll(outDir) // Clean up after

	// Get absolute path for audio file
	absAudioPath, err := filepath.Abs(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %v", err)
	}

	cmd := exec.CommandContext(ctx, "python", "-m", "whisper",
		absAudioPath,
		"--model", wt.modelName,
		"--output_dir", outDir,
		"--output_format", "json", // Get JSON for segments
		"--language", wt.language,
		"--fp16", "False", // Disable fp16 for CPU compatibility
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: whisper transcription: %v", types.ErrTimeout, ctx.Err())
		}
		return nil, fmt.Errorf("%w: whisper transcription failed: %v\nOutput: %s",
			types.ErrExternalService, err, string(output))
	}

	// Read the JSON output file
	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(outDir, baseName+".json")

	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read whisper output: %v", types.ErrExternalService, err)
	}

	var whisperOutput whisperOutput
	if err := json.Unmarshal(jsonData, &whisperOutput); err != nil {
		return nil, fmt.Errorf("%w: failed to parse whisper JSON: %v", types.ErrExternalService, err)
	}

	segments := make([]types.TranscriptSegment, len(whisperOutput.Segments))
	for i, seg := range whisperOutput.Segments {
		segments[i] = types.TranscriptSegment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		}
	}

	// Calculate duration (last segment end time)
	var duration float64
	if len(segments) > 0 {
		duration = segments[len(segments)-1].End
	}

	result := &types.TranscriptionResult{
		Text:     strings.TrimSpace(whisperOutput.Text),
		Language: whisperOutput.Language,
		Duration: duration,
		Segments: segments,
	}

	log.Printf("Transcription completed: %d segments, %.2fs duration", len(segments), duration)
	return result, nil
}

// whisperOutput matches Python Whisper's JSON output format
type whisperOutput struct {
	Text     string           `json:"text"`
	Language string           `json:"language"`
	Segments []whisperSegment `json:"segments"`
}

// whisperSegment represents a timestamped segment from Whisper
type whisperSegment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
