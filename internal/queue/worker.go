package queue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/codebuildervaibhav/meeting-pipeline/internal/audio"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/pipeline"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/storage"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/types"
)

// WorkerPool manages a pool of workers processing meeting jobs
type WorkerPool struct {
	jobQueue     chan *Job
	workerCount  int
	orchestrator *pipeline.Orchestrator
	driveClient  *storage.DriveClient
	db           *storage.MetadataDB
	tempDir      string

	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(
	workerCount int,
	orchestrator *pipeline.Orchestrator,
	driveClient *storage.DriveClient,
	db *storage.MetadataDB,
	tempDir string,
) *WorkerPool {
	return &WorkerPool{
		jobQueue:     make(chan *Job, 100), // Buffer of 100 jobs
		workerCount:  workerCount,
		orchestrator: orchestrator,
		driveClient:  driveClient,
		db:           db,
		tempDir:      tempDir,
		jobs:         make(map[string]*Job),
	}
}

// Start initializes all workers
func (wp *WorkerPool) Start() {
	log.Printf("Starting worker pool with %d workers", wp.workerCount)
	for i := 0; i < wp.workerCount; i++ {
		go wp.worker(i)
	}
}

// EnqueueJob adds a job to the queue
func (wp *WorkerPool) EnqueueJob(job *Job) {
	job.Status = types.StatusQueued
	job.Stage = types.StageReceived
	job.CreatedAt = time.Now()

	wp.mu.Lock()
	wp.jobs[job.ID] = job
	wp.mu.Unlock()

	wp.jobQueue <- job
	log.Printf("Job %s enqueued (source: %s, name: %s)", job.ID, job.SourceType, job.RequestName)
}

// GetJob returns a tracked job by ID
func (wp *WorkerPool) GetJob(jobID string) (*Job, bool) {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	job, ok := wp.jobs[jobID]
	return job, ok
}

// worker processes jobs from the queue
func (wp *WorkerPool) worker(id int) {
	log.Printf("Worker %d started", id)

	for job := range wp.jobQueue {
		// Panic recovery
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Worker %d: PANIC processing job %s: %v\n%s",
						id, job.ID, r, string(debug.Stack()))
					job.Status = types.StatusFailed
					job.Error = fmt.Errorf("worker panic: %v", r)
					wp.cleanupTempFile(job.FilePath)
				}
			}()

			wp.processJob(id, job)
		}()
	}
}

// processJob handles one complete meeting-processing run
func (wp *WorkerPool) processJob(workerID int, job *Job) {
	log.Printf("Worker %d: Processing job %s", workerID, job.ID)
	job.Status = types.StatusProcessing

	// Step 1: Normalize audio to 16kHz mono WAV
	normalizedPath, err := audio.Normalize(job.FilePath, wp.tempDir)
	if err != nil {
		log.Printf("Worker %d: Audio normalization failed for job %s: %v", workerID, job.ID, err)
		wp.failJob(job, types.StageReceived, fmt.Errorf("audio normalization failed: %v", err))
		wp.cleanupTempFile(job.FilePath)
		return
	}
	defer wp.cleanupTempFile(normalizedPath)

	// Step 2: Run the pipeline
	result, err := wp.orchestrator.Process(context.Background(), job.ID, normalizedPath)
	if err != nil {
		log.Printf("Worker %d: Pipeline failed for job %s: %v", workerID, job.ID, err)

		// Report the furthest completed stage so partial artifacts on disk
		// stay recoverable.
		completed := types.StageReceived
		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) {
			completed = stageErr.Completed
		}
		wp.failJob(job, completed, err)
		wp.cleanupTempFile(job.FilePath)
		return
	}
	job.Result = result
	job.Stage = types.StageCompleted

	// Step 3: Upload artifact bundle to Google Drive (with retry)
	if wp.driveClient != nil {
		var driveURL string
		for attempt := 1; attempt <= 3; attempt++ {
			driveURL, err = wp.driveClient.Upload(job.RequestName, result)
			if err == nil {
				result.GDriveURL = driveURL
				break
			}
			log.Printf("Worker %d: Google Drive upload attempt %d/3 failed: %v", workerID, attempt, err)
			if attempt < 3 {
				time.Sleep(time.Duration(attempt*attempt) * time.Second) // Exponential backoff
			}
		}
		if err != nil {
			log.Printf("Worker %d: WARNING - Google Drive upload failed after 3 attempts, continuing with local save only", workerID)
		}
	}

	// Step 4: Save metadata to database
	if wp.db != nil {
		err = wp.db.SaveMeeting(job.ID, job.RequestName, job.SourceType, types.StageCompleted,
			"", result.OutputDir, result.GDriveURL, result.Language,
			result.Duration, result.WordCount, result.SpeakerCount)
		if err != nil {
			log.Printf("Worker %d: Database save failed: %v", workerID, err)
		}
	}

	// Step 5: Cleanup
	wp.cleanupTempFile(job.FilePath)

	job.Status = types.StatusCompleted
	log.Printf("Worker %d: Job %s completed successfully (%d speakers, output: %s)",
		workerID, job.ID, result.SpeakerCount, result.OutputDir)
}

// failJob marks the job failed and records the outcome in the database
func (wp *WorkerPool) failJob(job *Job, completedStage string, err error) {
	job.Status = types.StatusFailed
	job.Stage = completedStage
	job.Error = err

	if wp.db != nil {
		if dbErr := wp.db.SaveMeeting(job.ID, job.RequestName, job.SourceType,
			completedStage, err.Error(), "", "", "", 0, 0, 0); dbErr != nil {
			log.Printf("Database save failed for job %s: %v", job.ID, dbErr)
		}
	}
}

// cleanupTempFile removes a temporary file
func (wp *WorkerPool) cleanupTempFile(filePath string) {
	if filePath == "" {
		return
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to cleanup temp file %s: %v", filePath, err)
	}
}
