package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/tripgest/internal/chunker"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Storage
	DataDir        string
	VectorInMemory bool

	// Embedding provider
	EmbeddingProvider string // openai | ollama
	EmbeddingBaseURL  string
	EmbeddingAPIKey   string
	EmbeddingModel    string

	// Worker pool
	WorkerCount        int
	MaxQueueSize       int
	EmbedBatchSize     int
	MaxConcurrentEmbed int

	// Upload limits
	MaxUploadBytes int64

	// Chunking
	ChildTargetTokens  int
	ChildMaxTokens     int
	ChildMinTokens     int
	ParentTargetTokens int
	ParentMaxTokens    int
	ParentMinTokens    int
	OverlapSentences   int
	MaxHeadingDepth    int

	// Retrieval defaults
	TopK              int
	PerParentChildren int
	MinSimilarity     float64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("TRIPGEST_API_KEY"),

		DataDir:        envOr("DATA_DIR", "./data"),
		VectorInMemory: envBool("VECTOR_IN_MEMORY", false),

		EmbeddingProvider: envOr("EMBEDDING_PROVIDER", "ollama"),
		EmbeddingBaseURL:  envOr("EMBEDDING_BASE_URL", "http://localhost:11434"),
		EmbeddingAPIKey:   os.Getenv("EMBEDDING_API_KEY"),
		EmbeddingModel:    envOr("EMBEDDING_MODEL", "nomic-embed-text"),

		WorkerCount:        envInt("WORKER_COUNT", 4),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 100),
		EmbedBatchSize:     envInt("EMBED_BATCH_SIZE", 32),
		MaxConcurrentEmbed: envInt("MAX_CONCURRENT_EMBED", 2),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		ChildTargetTokens:  envInt("CHILD_TARGET_TOKENS", 360),
		ChildMaxTokens:     envInt("CHILD_MAX_TOKENS", 550),
		ChildMinTokens:     envInt("CHILD_MIN_TOKENS", 140),
		ParentTargetTokens: envInt("PARENT_TARGET_TOKENS", 1200),
		ParentMaxTokens:    envInt("PARENT_MAX_TOKENS", 1600),
		ParentMinTokens:    envInt("PARENT_MIN_TOKENS", 500),
		OverlapSentences:   envInt("OVERLAP_SENTENCES", 2),
		MaxHeadingDepth:    envInt("MAX_HEADING_DEPTH", 3),

		TopK:              envInt("TOP_K", 12),
		PerParentChildren: envInt("PER_PARENT_CHILDREN", 3),
		MinSimilarity:     envFloat("MIN_SIMILARITY", 0.20),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.EmbedBatchSize <= 0 {
		cfg.EmbedBatchSize = 32
	}
	if cfg.MaxConcurrentEmbed <= 0 {
		cfg.MaxConcurrentEmbed = 2
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 12
	}
	if cfg.PerParentChildren <= 0 {
		cfg.PerParentChildren = 3
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// ChunkConfig assembles the chunker configuration from the loaded
// environment values.
func (c Config) ChunkConfig() chunker.Config {
	return chunker.Config{
		ChildTargetTokens:  c.ChildTargetTokens,
		ChildMaxTokens:     c.ChildMaxTokens,
		ChildMinTokens:     c.ChildMinTokens,
		ParentTargetTokens: c.ParentTargetTokens,
		ParentMaxTokens:    c.ParentMaxTokens,
		ParentMinTokens:    c.ParentMinTokens,
		OverlapSentences:   c.OverlapSentences,
		MaxHeadingDepth:    c.MaxHeadingDepth,
	}
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("TRIPGEST_API_KEY is required")
	}
	switch c.EmbeddingProvider {
	case "openai":
		if c.EmbeddingAPIKey == "" {
			return fmt.Errorf("EMBEDDING_API_KEY is required for the openai provider")
		}
	case "ollama":
	default:
		return fmt.Errorf("unknown EMBEDDING_PROVIDER: %q", c.EmbeddingProvider)
	}
	if err := c.ChunkConfig().Validate(); err != nil {
		return fmt.Errorf("chunking config: %w", err)
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

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
