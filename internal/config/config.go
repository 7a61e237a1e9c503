package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Heading detection
	MinHeadingLength    int
	MaxHeadingLength    int
	MinFontSize         float64
	PunctRatioThreshold float64
	ConfidenceThreshold float64
	MaxOutlineDepth     int
	FontSizeH1          float64
	FontSizeH2          float64
	FontSizeH3          float64

	// Retry policy for transient extraction failures
	MaxRetries         int
	RetryBackoffBase   time.Duration
	RetryBackoffFactor float64

	// Result cache
	ResultCacheSize uint64
	ResultCacheTTL  time.Duration

	// Artifact persistence
	ArtifactDir string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("DOCOUTLINE_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		MinHeadingLength:    envInt("MIN_HEADING_LENGTH", 5),
		MaxHeadingLength:    envInt("MAX_HEADING_LENGTH", 200),
		MinFontSize:         envFloat("MIN_FONT_SIZE", 10),
		PunctRatioThreshold: envFloat("PUNCT_RATIO_THRESHOLD", 0.3),
		ConfidenceThreshold: envFloat("CONFIDENCE_THRESHOLD", 0.7),
		MaxOutlineDepth:     envInt("MAX_OUTLINE_DEPTH", 6),
		FontSizeH1:          envFloat("FONT_SIZE_H1", 18),
		FontSizeH2:          envFloat("FONT_SIZE_H2", 16),
		FontSizeH3:          envFloat("FONT_SIZE_H3", 14),

		MaxRetries:         envInt("MAX_RETRIES", 3),
		RetryBackoffBase:   envDuration("RETRY_BACKOFF_BASE", 1*time.Second),
		RetryBackoffFactor: envFloat("RETRY_BACKOFF_FACTOR", 2),

		ResultCacheSize: uint64(envInt64("RESULT_CACHE_SIZE", 1000)),
		ResultCacheTTL:  envDuration("RESULT_CACHE_TTL", 1*time.Hour),

		ArtifactDir: envOr("ARTIFACT_DIR", "./artifacts"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.MinHeadingLength <= 0 {
		cfg.MinHeadingLength = 5
	}
	if cfg.MaxHeadingLength <= cfg.MinHeadingLength {
		cfg.MaxHeadingLength = 200
	}
	if cfg.ConfidenceThreshold <= 0 || cfg.ConfidenceThreshold > 1 {
		cfg.ConfidenceThreshold = 0.7
	}
	if cfg.PunctRatioThreshold <= 0 || cfg.PunctRatioThreshold > 1 {
		cfg.PunctRatioThreshold = 0.3
	}
	if cfg.MaxOutlineDepth <= 0 || cfg.MaxOutlineDepth > 6 {
		cfg.MaxOutlineDepth = 6
	}
	if cfg.FontSizeH1 <= cfg.FontSizeH2 {
		cfg.FontSizeH1, cfg.FontSizeH2, cfg.FontSizeH3 = 18, 16, 14
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoffBase <= 0 {
		cfg.RetryBackoffBase = 1 * time.Second
	}
	if cfg.RetryBackoffFactor < 1 {
		cfg.RetryBackoffFactor = 2
	}
	if cfg.ResultCacheSize == 0 {
		cfg.ResultCacheSize = 1000
	}
	if cfg.ResultCacheTTL <= 0 {
		cfg.ResultCacheTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCOUTLINE_API_KEY is required")
	}
	if c.ArtifactDir == "" {
		return fmt.Errorf("ARTIFACT_DIR must not be empty")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
