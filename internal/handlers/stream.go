package handlers

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/codebuildervaibhav/meeting-pipeline/internal/queue"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/types"
)

// StreamHandler handles WebSocket audio streaming ingest
type StreamHandler struct {
	workerPool *queue.WorkerPool
	tempDir    string
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(workerPool *queue.WorkerPool, tempDir string) *StreamHandler {
	return &StreamHandler{
		workerPool: workerPool,
		tempDir:    tempDir,
	}
}

// Handle processes WebSocket connections. The client pushes binary audio
// frames, optionally a text message naming the meeting, and a final "END"
// text message to start processing.
func (h *StreamHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	var (
		buffer      bytes.Buffer
		requestName string
		jobID       = uuid.New().String()
	)

	log.Printf("WebSocket connection established: %s", jobID)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Printf("WebSocket read error: %v", err)
			break
		}

		// Handle text messages (control)
		if messageType == websocket.TextMessage {
			msgStr := string(message)

			if msgStr == "END" {
				log.Printf("Received END signal, processing stream...")
				break
			}

			// Set request name
			if len(msgStr) > 0 && len(msgStr) < 200 {
				requestName = msgStr
				log.Printf("Stream name set to: %s", requestName)
			}
			continue
		}

		// Accumulate binary audio data
		if messageType == websocket.BinaryMessage {
			buffer.Write(message)
		}
	}

	if buffer.Len() == 0 {
		log.Printf("Stream %s closed with no audio data", jobID)
		c.WriteJSON(map[string]string{
			"error": "No audio data received",
			"code":  "ERR_NO_AUDIO",
		})
		return
	}

	if requestName == "" {
		requestName = "streamed_meeting"
	}

	// Save buffered audio to a temp file
	tempPath := filepath.Join(h.tempDir, fmt.Sprintf("%s.webm", jobID))
	if err := os.WriteFile(tempPath, buffer.Bytes(), 0644); err != nil {
		log.Printf("Failed to save streamed audio: %v", err)
		c.WriteJSON(map[string]string{
			"error": "Failed to save streamed audio",
			"code":  "ERR_SAVE_FAILED",
		})
		return
	}

	// Create and enqueue job
	job := queue.NewJob(jobID, requestName, types.SourceStream, tempPath)
	h.workerPool.EnqueueJob(job)

	c.WriteJSON(map[string]string{
		"job_id":  jobID,
		"status":  "queued",
		"message": "Stream received, processing started",
	})
}
