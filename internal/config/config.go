// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// History backend names accepted by HISTORY_BACKEND.
const (
	BackendFS     = "fs"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
)

// Config contains all runtime settings for the chat service.
type Config struct {
	BindAddr string

	OpenAIAPIKey string
	OpenAIModel  string
	EmbedModel   string

	GoogleAPIKey string
	GoogleModel  string

	PineconeAPIKey    string
	PineconeHost      string
	PineconeNamespace string
	SourceMetadataKey string

	RetrievalK     int
	ScoreThreshold float64

	HistoryBackend string
	HistoryRoot    string
	HistoryDBPath  string
	Collection     string

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:          envOrDefault("APP_BIND_ADDR", ":8100"),
		OpenAIAPIKey:      strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:       envOrDefault("OPENAI_MODEL", "gpt-4o"),
		EmbedModel:        envOrDefault("OPENAI_EMBED_MODEL", "text-embedding-3-small"),
		GoogleAPIKey:      strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")),
		GoogleModel:       envOrDefault("GOOGLE_MODEL", "gemini-1.5-pro-latest"),
		PineconeAPIKey:    strings.TrimSpace(os.Getenv("PINECONE_API_KEY")),
		PineconeHost:      strings.TrimSpace(os.Getenv("PINECONE_HOST")),
		PineconeNamespace: envOrDefault("PINECONE_NAMESPACE", ""),
		SourceMetadataKey: envOrDefault("SOURCE_METADATA_KEY", "Title"),
		RetrievalK:        5,
		ScoreThreshold:    0.4,
		HistoryBackend:    envOrDefault("HISTORY_BACKEND", BackendFS),
		HistoryRoot:       envOrDefault("HISTORY_ROOT", "."),
		HistoryDBPath:     envOrDefault("HISTORY_DB_PATH", "botcare.db"),
		Collection:        envOrDefault("HISTORY_COLLECTION", "History"),
		S3Endpoint:        strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		S3AccessKey:       strings.TrimSpace(os.Getenv("S3_ACCESS_KEY")),
		S3SecretKey:       strings.TrimSpace(os.Getenv("S3_SECRET_KEY")),
		S3Bucket:          strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3UseSSL:          true,
	}

	var err error
	cfg.RetrievalK, err = intFromEnv("RETRIEVAL_K", cfg.RetrievalK)
	if err != nil {
		return Config{}, err
	}
	cfg.ScoreThreshold, err = floatFromEnv("RETRIEVAL_SCORE_THRESHOLD", cfg.ScoreThreshold)
	if err != nil {
		return Config{}, err
	}
	cfg.S3UseSSL, err = boolFromEnv("S3_USE_SSL", cfg.S3UseSSL)
	if err != nil {
		return Config{}, err
	}

	if cfg.RetrievalK <= 0 {
		return Config{}, fmt.Errorf("RETRIEVAL_K must be positive")
	}
	if cfg.ScoreThreshold < 0 || cfg.ScoreThreshold > 1 {
		return Config{}, fmt.Errorf("RETRIEVAL_SCORE_THRESHOLD must be within [0, 1]")
	}
	switch cfg.HistoryBackend {
	case BackendFS, BackendSQLite:
	case BackendS3:
		if cfg.S3Endpoint == "" || cfg.S3Bucket == "" {
			return Config{}, fmt.Errorf("S3_ENDPOINT and S3_BUCKET are required for the s3 history backend")
		}
	default:
		return Config{}, fmt.Errorf("HISTORY_BACKEND must be one of fs, sqlite, s3")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func intFromEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
