package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	Whisper struct {
		Model    string `yaml:"model"`
		Language string `yaml:"language"`
	} `yaml:"whisper"`

	Pipeline struct {
		WindowSeconds        float64 `yaml:"window_seconds"`
		MaxSpeakers          int     `yaml:"max_speakers"`
		EmbeddingParallelism int     `yaml:"embedding_parallelism"`
		SummaryMaxLength     int     `yaml:"summary_max_length"`
		SummaryMinLength     int     `yaml:"summary_min_length"`
		StageTimeoutMinutes  int     `yaml:"stage_timeout_minutes"`
	} `yaml:"pipeline"`

	Services struct {
		Translation struct {
			URL        string `yaml:"url"`
			TargetLang string `yaml:"target_lang"`
		} `yaml:"translation"`
		Summarization struct {
			URL string `yaml:"url"`
		} `yaml:"summarization"`
		Embedding struct {
			URL       string `yaml:"url"`
			Dimension int    `yaml:"dimension"`
		} `yaml:"embedding"`
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"services"`

	Workers struct {
		Count int `yaml:"count"`
	} `yaml:"workers"`

	Storage struct {
		TempDir   string `yaml:"temp_dir"`
		OutputDir string `yaml:"output_dir"`
		Database  string `yaml:"database"`
	} `yaml:"storage"`

	Cleanup struct {
		IntervalMinutes int `yaml:"interval_minutes"`
		MaxAgeHours     int `yaml:"max_age_hours"`
	} `yaml:"cleanup"`

	GoogleDrive struct {
		CredentialsFile string `yaml:"credentials_file"`
		TokenFile       string `yaml:"token_file"`
		FolderName      string `yaml:"folder_name"`
	} `yaml:"google_drive"`

	Limits struct {
		MaxFileSizeMB int `yaml:"max_file_size_mb"`
	} `yaml:"limits"`
}

// Load reads and validates configuration from a YAML file
func Load(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Whisper.Model == "" {
		c.Whisper.Model = "base"
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "en"
	}
	if c.Pipeline.WindowSeconds == 0 {
		c.Pipeline.WindowSeconds = 5
	}
	if c.Pipeline.MaxSpeakers == 0 {
		c.Pipeline.MaxSpeakers = 2
	}
	if c.Pipeline.EmbeddingParallelism == 0 {
		c.Pipeline.EmbeddingParallelism = 4
	}
	if c.Pipeline.SummaryMaxLength == 0 {
		c.Pipeline.SummaryMaxLength = 200
	}
	if c.Pipeline.SummaryMinLength == 0 {
		c.Pipeline.SummaryMinLength = 80
	}
	if c.Pipeline.StageTimeoutMinutes == 0 {
		c.Pipeline.StageTimeoutMinutes = 10
	}
	if c.Services.Translation.TargetLang == "" {
		c.Services.Translation.TargetLang = "en"
	}
	if c.Services.Embedding.Dimension == 0 {
		c.Services.Embedding.Dimension = 256
	}
	if c.Services.TimeoutSeconds == 0 {
		c.Services.TimeoutSeconds = 120
	}
	if c.Workers.Count == 0 {
		c.Workers.Count = 2
	}
	if c.Storage.TempDir == "" {
		c.Storage.TempDir = "temp"
	}
	if c.Storage.OutputDir == "" {
		c.Storage.OutputDir = "output"
	}
	if c.Storage.Database == "" {
		c.Storage.Database = "meetings.db"
	}
	if c.Cleanup.IntervalMinutes == 0 {
		c.Cleanup.IntervalMinutes = 30
	}
	if c.Cleanup.MaxAgeHours == 0 {
		c.Cleanup.MaxAgeHours = 24
	}
	if c.Limits.MaxFileSizeMB == 0 {
		c.Limits.MaxFileSizeMB = 500
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Pipeline.WindowSeconds <= 0 {
		return fmt.Errorf("pipeline.window_seconds must be positive, got %v", c.Pipeline.WindowSeconds)
	}
	if c.Pipeline.MaxSpeakers < 1 {
		return fmt.Errorf("pipeline.max_speakers must be at least 1, got %d", c.Pipeline.MaxSpeakers)
	}
	if c.Pipeline.SummaryMinLength > c.Pipeline.SummaryMaxLength {
		return fmt.Errorf("pipeline.summary_min_length (%d) exceeds summary_max_length (%d)",
			c.Pipeline.SummaryMinLength, c.Pipeline.SummaryMaxLength)
	}
	if c.Services.Translation.URL == "" {
		return fmt.Errorf("services.translation.url is required")
	}
	if c.Services.Summarization.URL == "" {
		return fmt.Errorf("services.summarization.url is required")
	}
	if c.Services.Embedding.URL == "" {
		return fmt.Errorf("services.embedding.url is required")
	}
	if c.Services.Embedding.Dimension < 1 {
		return fmt.Errorf("services.embedding.dimension must be positive, got %d", c.Services.Embedding.Dimension)
	}
	if c.Workers.Count < 1 {
		return fmt.Errorf("workers.count must be at least 1, got %d", c.Workers.Count)
	}
	return nil
}
