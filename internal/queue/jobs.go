package queue

import (
	"time"

	"github.com/codebuildervaibhav/meeting-pipeline/internal/types"
)

// Job represents one meeting-processing request
type Job struct {
	ID          string
	RequestName string
	SourceType  string
	FilePath    string
	Status      string
	Stage       string // furthest pipeline stage reached
	Error       error
	Result      *types.MeetingResult
	CreatedAt   time.Time
}

// NewJob creates a new job with default values
func NewJob(id, requestName, sourceType, filePath string) *Job {
	return &Job{
		ID:          id,
		RequestName: requestName,
		SourceType:  sourceType,
		FilePath:    filePath,
		Status:      types.StatusQueued,
		Stage:       types.StageReceived,
		CreatedAt:   time.Now(),
	}
}
