package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration, resolved once at process start.
// The routing knobs (threshold, timeout, top-k) are operational parameters and
// deliberately live here rather than in code.
type Config struct {
	Port string

	// Routing policy
	SimilarityThreshold float32       // cache hit cutoff, cosine in [0,1]
	GenerationTimeout   time.Duration // hard cap per generation call
	RetrievalTopK       int           // passages fed to the generator

	// Models
	EmbeddingModel  string
	GenerationModel string
	FallbackModel   string

	// Vertex AI
	GoogleProject  string
	GoogleLocation string

	// Backing services
	QdrantHost       string
	QdrantPort       int
	QdrantCollection string
	RedisAddr        string
	ElasticAddr      string
	ElasticIndex     string

	// Per-user daily query quota; 0 disables limiting.
	UserDailyQueryLimit int
}

// Load reads configuration from the environment. A .env file is honored in
// development but its absence is not an error.
func Load() (*Config, error) {
	// A missing .env just means the system environment is authoritative.
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		SimilarityThreshold: float32(getEnvFloat("SIMILARITY_THRESHOLD", 0.85)),
		GenerationTimeout:   time.Duration(getEnvInt("GENERATION_TIMEOUT_SECONDS", 120)) * time.Second,
		RetrievalTopK:       getEnvInt("RETRIEVAL_TOP_K", 3),
		EmbeddingModel:      getEnv("EMBEDDING_MODEL", "text-embedding-004"),
		GenerationModel:     getEnv("GENERATION_MODEL", "gemini-2.5-flash"),
		FallbackModel:       getEnv("FALLBACK_MODEL", "gemini-1.5-flash"),
		GoogleProject:       os.Getenv("GOOGLE_CLOUD_PROJECT"),
		GoogleLocation:      getEnv("GOOGLE_CLOUD_LOCATION", "us-central1"),
		QdrantHost:          getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:          getEnvInt("QDRANT_PORT", 6334),
		QdrantCollection:    getEnv("QDRANT_COLLECTION", "qa_cache"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		ElasticAddr:         getEnv("ELASTICSEARCH_ADDR", "http://localhost:9200"),
		ElasticIndex:        getEnv("ELASTICSEARCH_INDEX", "customs-docs-v1"),
		UserDailyQueryLimit: getEnvInt("USER_DAILY_QUERY_LIMIT", 0),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("invalid SIMILARITY_THRESHOLD %.2f: must be in [0, 1]", c.SimilarityThreshold)
	}
	if c.GenerationTimeout <= 0 {
		return fmt.Errorf("invalid GENERATION_TIMEOUT_SECONDS: must be positive")
	}
	if c.RetrievalTopK <= 0 {
		return fmt.Errorf("invalid RETRIEVAL_TOP_K %d: must be positive", c.RetrievalTopK)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
