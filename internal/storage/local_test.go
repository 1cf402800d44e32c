package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/codebuildervaibhav/meeting-pipeline/internal/types"
)

func TestSaveArtifactFixedPaths(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStore(dir)

	path, err := store.SaveArtifact(types.ArtifactTranscript, "hello world")
	if err != nil {
		t.Fatalf("SaveArtifact: %v", err)
	}
	if filepath.Base(path) != "transcript_raw.txt" {
		t.Errorf("path = %s, want transcript_raw.txt", path)
	}

	got, err := store.ReadArtifact(types.ArtifactTranscript)
	if err != nil {
		t.Fatalf("ReadArtifact: %v", err)
	}
	if got != "hello world" {
		t.Errorf("content = %q", got)
	}
}

func TestSaveArtifactOverwrites(t *testing.T) {
	store := NewArtifactStore(t.TempDir())

	if _, err := store.SaveArtifact(types.ArtifactSummary, "first run"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveArtifact(types.ArtifactSummary, "second run"); err != nil {
		t.Fatal(err)
	}

	got, _ := store.ReadArtifact(types.ArtifactSummary)
	if got != "second run" {
		t.Errorf("content = %q, want %q", got, "second run")
	}
}

func TestSaveArtifactUnknownKind(t *testing.T) {
	store := NewArtifactStore(t.TempDir())
	if _, err := store.SaveArtifact("bogus", "x"); err == nil {
		t.Error("expected an error for unknown artifact kind")
	}
}

func TestSaveMetadata(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStore(dir)

	path, err := store.SaveMetadata(&types.MeetingResult{
		JobID:        "job-1",
		SpeakerCount: 2,
	})
	if err != nil {
		t.Fatalf("SaveMetadata: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	if len(data) == 0 {
		t.Error("metadata file is empty")
	}
}

func TestSanitizeFilename(t *testing.T) {
	if got := sanitizeFilename("../../etc/passwd"); got != "passwd" {
		t.Errorf("sanitizeFilename = %q", got)
	}
}
