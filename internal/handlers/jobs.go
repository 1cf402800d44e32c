package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/codebuildervaibhav/meeting-pipeline/internal/queue"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/types"
)

// JobsHandler reports job status including the furthest pipeline stage
// reached and the failing stage's error kind, so callers can recover
// partial artifacts after a mid-pipeline failure.
type JobsHandler struct {
	workerPool *queue.WorkerPool
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(workerPool *queue.WorkerPool) *JobsHandler {
	return &JobsHandler{workerPool: workerPool}
}

// Handle returns the status of one job
func (h *JobsHandler) Handle(c *fiber.Ctx) error {
	jobID := c.Params("id")

	job, ok := h.workerPool.GetJob(jobID)
	if !ok {
		return c.Status(404).JSON(fiber.Map{
			"error": "Job not found",
			"code":  "ERR_JOB_NOT_FOUND",
		})
	}

	resp := fiber.Map{
		"job_id":     job.ID,
		"name":       job.RequestName,
		"source":     job.SourceType,
		"status":     job.Status,
		"stage":      job.Stage,
		"created_at": job.CreatedAt,
	}

	if job.Error != nil {
		resp["error"] = job.Error.Error()
		resp["error_kind"] = types.ErrorKind(job.Error)
	}
	if job.Status == types.StatusCompleted && job.Result != nil {
		resp["result"] = job.Result
	}

	return c.JSON(resp)
}
