package types

import "time"

// Job status constants
const (
	StatusQueued     = "QUEUED"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// Source type constants
const (
	SourceUpload = "upload"
	SourceGDrive = "gdrive"
	SourceStream = "stream"
)

// Pipeline stage constants. The pipeline moves through these strictly in
// order; there is no branching and no retry.
const (
	StageReceived     = "RECEIVED"
	StageTranscribing = "TRANSCRIBING"
	StageTranslating  = "TRANSLATING"
	StageSummarizing  = "SUMMARIZING"
	StageDiarizing    = "DIARIZING"
	StageCompleted    = "COMPLETED"
	StageFailed       = "FAILED"
)

// Artifact kind constants, matching the fixed filenames on disk.
const (
	ArtifactTranscript = "transcript"
	ArtifactTranslated = "translated"
	ArtifactSummary    = "summary"
	ArtifactSpeakers   = "speakers"
)

// TranscriptSegment is a timestamped segment of transcription from the
// ASR backend. Segments are ordered by start time.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TranscriptionResult represents the output of the ASR backend.
type TranscriptionResult struct {
	Text     string
	Language string
	Duration float64
	Segments []TranscriptSegment
}

// SpeakerLine binds one transcript segment to one speaker label.
type SpeakerLine struct {
	Speaker int    `json:"speaker"`
	Text    string `json:"text"`
}

// MeetingResult aggregates all artifacts of one completed processing run.
type MeetingResult struct {
	JobID        string        `json:"job_id"`
	Transcript   string        `json:"transcript"`
	Translated   string        `json:"translated"`
	Summary      string        `json:"summary"`
	SpeakerLines []SpeakerLine `json:"speaker_lines"`
	Language     string        `json:"language"`
	Duration     float64       `json:"duration"`
	SpeakerCount int           `json:"speaker_count"`
	WordCount    int           `json:"word_count"`
	ProcessedAt  time.Time     `json:"processed_at"`
	OutputDir    string        `json:"output_dir"`
	GDriveURL    string        `json:"gdrive_url,omitempty"`
}
