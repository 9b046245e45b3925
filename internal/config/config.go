package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Batch directories
	InputDir    string
	OutputDir   string
	PersonaFile string // defaults to <InputDir>/persona.json when empty

	// Embedding service
	EmbedBaseURL    string
	EmbedModel      string
	EmbedTimeout    time.Duration
	EmbedDimensions int

	// Heuristic heading extraction
	HeuristicMinLineLen int
	HeuristicMaxPerPage int

	// Batch concurrency
	WorkerCount int

	// Serve mode
	Port           string
	APIKey         string // empty disables auth
	MaxUploadBytes int64
	JobTTL         time.Duration
}

func Load() Config {
	cfg := Config{
		InputDir:    envOr("DOCRANK_INPUT_DIR", "input"),
		OutputDir:   envOr("DOCRANK_OUTPUT_DIR", "output"),
		PersonaFile: os.Getenv("DOCRANK_PERSONA_FILE"),

		EmbedBaseURL:    envOr("EMBED_BASE_URL", "http://localhost:11434"),
		EmbedModel:      envOr("EMBED_MODEL", "nomic-embed-text"),
		EmbedTimeout:    envDuration("EMBED_TIMEOUT", 30*time.Second),
		EmbedDimensions: envInt("EMBED_DIMENSIONS", 768),

		HeuristicMinLineLen: envInt("HEURISTIC_MIN_LINE_LEN", 5),
		HeuristicMaxPerPage: envInt("HEURISTIC_MAX_PER_PAGE", 5),

		WorkerCount: envInt("WORKER_COUNT", 1),

		Port:           envOr("PORT", "8091"),
		APIKey:         os.Getenv("DOCRANK_API_KEY"),
		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
		JobTTL:         envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	if cfg.HeuristicMinLineLen <= 0 {
		cfg.HeuristicMinLineLen = 5
	}
	if cfg.HeuristicMaxPerPage <= 0 {
		cfg.HeuristicMaxPerPage = 5
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
