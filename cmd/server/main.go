package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/codebuildervaibhav/meeting-pipeline/internal/cleanup"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/config"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/diarize"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/handlers"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/inference"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/pipeline"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/queue"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/storage"
	"github.com/codebuildervaibhav/meeting-pipeline/internal/transcription"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ensure directories exist
	if err := cleanup.EnsureTempDirExists(cfg.Storage.TempDir); err != nil {
		log.Fatalf("Failed to create temp directory: %v", err)
	}
	if err := os.MkdirAll(cfg.Storage.OutputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Custom logger setup
	logBuffer := &LogBuffer{
		lines: make([]string, 0, 1000),
	}
	multiWriter := io.MultiWriter(os.Stdout, logBuffer)
	log.SetOutput(multiWriter)

	// Initialize components
	log.Println("Initializing components...")

	// Whisper transcriber
	transcriber, err := transcription.NewWhisperTranscriber(
		cfg.Whisper.Model,
		cfg.Whisper.Language,
		cfg.Storage.TempDir,
	)
	if err != nil {
		log.Fatalf("Failed to initialize Whisper: %v", err)
	}

	// Model sidecar clients
	serviceTimeout := time.Duration(cfg.Services.TimeoutSeconds) * time.Second
	translator := inference.NewTranslator(cfg.Services.Translation.URL,
		cfg.Services.Translation.TargetLang, serviceTimeout)
	summarizer := inference.NewSummarizer(cfg.Services.Summarization.URL, serviceTimeout)
	embedder := inference.NewEmbedder(cfg.Services.Embedding.URL,
		cfg.Services.Embedding.Dimension, serviceTimeout)

	// Diarizer
	diarizer, err := diarize.NewDiarizer(embedder, diarize.Config{
		WindowSeconds: cfg.Pipeline.WindowSeconds,
		MaxSpeakers:   cfg.Pipeline.MaxSpeakers,
		Parallelism:   cfg.Pipeline.EmbeddingParallelism,
	})
	if err != nil {
		log.Fatalf("Failed to initialize diarizer: %v", err)
	}

	// Artifact store
	artifactStore := storage.NewArtifactStore(cfg.Storage.OutputDir)

	// Pipeline orchestrator
	orchestrator := pipeline.NewOrchestrator(
		transcriber, translator, summarizer, diarizer, artifactStore,
		pipeline.Config{
			SummaryMaxLength: cfg.Pipeline.SummaryMaxLength,
			SummaryMinLength: cfg.Pipeline.SummaryMinLength,
			StageTimeout:     time.Duration(cfg.Pipeline.StageTimeoutMinutes) * time.Minute,
		},
	)

	// Google Drive client (optional - may fail if credentials not set up)
	var driveClient *storage.DriveClient
	if _, err := os.Stat(cfg.GoogleDrive.CredentialsFile); err == nil {
		driveClient, err = storage.NewDriveClient(
			cfg.GoogleDrive.CredentialsFile,
			cfg.GoogleDrive.TokenFile,
			cfg.GoogleDrive.FolderName,
		)
		if err != nil {
			log.Printf("WARNING: Google Drive not available: %v", err)
			log.Println("Artifacts will only be saved locally")
			driveClient = nil
		} else {
			log.Println("Google Drive integration enabled")
		}
	} else {
		log.Println("Google Drive credentials not found - saving locally only")
	}

	// Database
	db, err := storage.NewMetadataDB(cfg.Storage.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Worker pool
	workerPool := queue.NewWorkerPool(
		cfg.Workers.Count,
		orchestrator,
		driveClient,
		db,
		cfg.Storage.TempDir,
	)
	workerPool.Start()

	// Cleanup scheduler
	cleanupScheduler := cleanup.NewScheduler(
		cfg.Storage.TempDir,
		cfg.Cleanup.IntervalMinutes,
		cfg.Cleanup.MaxAgeHours,
	)
	cleanupScheduler.Start()
	defer cleanupScheduler.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: cfg.Limits.MaxFileSizeMB * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Initialize handlers
	uploadHandler := handlers.NewUploadHandler(workerPool, cfg.Storage.TempDir, cfg.Limits.MaxFileSizeMB)
	gdriveHandler := handlers.NewGDriveHandler(workerPool, cfg.Storage.TempDir)
	streamHandler := handlers.NewStreamHandler(workerPool, cfg.Storage.TempDir)
	jobsHandler := handlers.NewJobsHandler(workerPool)

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	app.Post("/process", uploadHandler.Handle)
	app.Post("/link", gdriveHandler.Handle)
	app.Get("/jobs/:id", jobsHandler.Handle)

	// WebSocket route
	app.Get("/ws/stream", websocket.New(streamHandler.Handle))

	// Get meeting metadata
	app.Get("/meetings", func(c *fiber.Ctx) error {
		limit := 50 // Default limit
		meetings, err := db.ListMeetings(limit)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(meetings)
	})

	// Get one artifact's text
	app.Get("/meetings/:id/artifacts/:kind", func(c *fiber.Ctx) error {
		jobID := c.Params("id")
		kind := c.Params("kind")

		if _, err := db.GetMeeting(jobID); err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Meeting not found"})
		}

		content, err := artifactStore.ReadArtifact(kind)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Artifact not found"})
		}

		return c.SendString(content)
	})

	// Get server logs
	app.Get("/logs", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"logs": logBuffer.GetLogs(),
		})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	log.Println("Endpoints:")
	log.Println("   POST /process     - Upload meeting audio")
	log.Println("   POST /link        - Process Google Drive link")
	log.Println("   GET  /ws/stream   - WebSocket audio streaming")
	log.Println("   GET  /jobs/:id    - Job status")
	log.Println("   GET  /meetings    - List processed meetings")
	log.Println("   GET  /meetings/:id/artifacts/:kind - Get artifact text")
	log.Println("   GET  /logs        - View server logs")
	log.Println("   GET  /health      - Health check")

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down gracefully...")
		app.Shutdown()
	}()

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// LogBuffer captures logs in memory
type LogBuffer struct {
	lines []string
	mu    sync.Mutex
}

func (lb *LogBuffer) Write(p []byte) (n int, err error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	// Append new line
	lb.lines = append(lb.lines, string(p))

	// Keep last 1000 lines
	if len(lb.lines) > 1000 {
		lb.lines = lb.lines[len(lb.lines)-1000:]
	}

	return len(p), nil
}

func (lb *LogBuffer) GetLogs() []string {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	// Return copy of slice
	logs := make([]string, len(lb.lines))
	copy(logs, lb.lines)
	return logs
}
