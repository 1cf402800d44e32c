package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/codebuildervaibhav/meeting-pipeline/internal/types"
)

// Fixed artifact filenames, overwritten on each processing run.
var artifactFiles = map[string]string{
	types.ArtifactTranscript: "transcript_raw.txt",
	types.ArtifactTranslated: "translated.txt",
	types.ArtifactSummary:    "summary.txt",
	types.ArtifactSpeakers:   "speaker_transcript.txt",
}

const metadataFile = "meeting_meta.json"

// ArtifactStore persists each pipeline stage's textual output to the local
// filesystem. Artifacts live at fixed well-known paths so partial progress
// from a failed run can still be recovered.
type ArtifactStore struct {
	outputDir string
}

// NewArtifactStore creates a store rooted at outputDir.
func NewArtifactStore(outputDir string) *ArtifactStore {
	return &ArtifactStore{outputDir: outputDir}
}

// Path returns the on-disk path for an artifact kind.
func (as *ArtifactStore) Path(kind string) (string, error) {
	name, ok := artifactFiles[kind]
	if !ok {
		return "", fmt.Errorf("unknown artifact kind %q", kind)
	}
	return filepath.Join(as.outputDir, name), nil
}

// SaveArtifact writes one stage's output as plain UTF-8 text. The writer is
// flushed and closed on every exit path so a failed write never leaves a
// dangling handle.
func (as *ArtifactStore) SaveArtifact(kind, text string) (string, error) {
	path, err := as.Path(kind)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(as.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %v", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %v", path, err)
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %v", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to flush %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %v", path, err)
	}

	return path, nil
}

// ReadArtifact returns an artifact's current content.
func (as *ArtifactStore) ReadArtifact(kind string) (string, error) {
	path, err := as.Path(kind)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SaveMetadata writes the run's metadata JSON next to the artifacts.
func (as *ArtifactStore) SaveMetadata(result *types.MeetingResult) (string, error) {
	if err := os.MkdirAll(as.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %v", err)
	}

	metaJSON, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %v", err)
	}

	path := filepath.Join(as.outputDir, metadataFile)
	if err := os.WriteFile(path, metaJSON, 0644); err != nil {
		return "", fmt.Errorf("failed to save metadata: %v", err)
	}
	return path, nil
}

// OutputDir returns the store's root directory.
func (as *ArtifactStore) OutputDir() string {
	return as.outputDir
}

// sanitizeFilename removes path separators and truncates overlong names.
func sanitizeFilename(name string) string {
	result := filepath.Base(name)
	if len(result) > 100 {
		result = result[:100]
	}
	return result
}
