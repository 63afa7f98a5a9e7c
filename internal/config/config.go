// Package config loads runtime configuration from the environment and an
// optional .env file.
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server      ServerConfig
	Store       StoreConfig
	Blob        BlobConfig
	Models      ModelsConfig
	RateLimit   RateLimitConfig
	RecentLimit int
}

type ServerConfig struct {
	Port     string
	LogLevel string
}

type StoreConfig struct {
	Backend        string // firestore, mongo or memory
	ProjectID      string
	DocsCollection string
	HOAsCollection string
	MongoURI       string
	MongoDatabase  string
	MongoTimeout   time.Duration
}

type BlobConfig struct {
	Backend        string // gcs, minio or memory
	UploadsBucket  string
	SignedURLTTL   time.Duration
	MemoryBaseURL  string
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOUseSSL    bool
	MinIOBucket    string
}

type ModelsConfig struct {
	ProjectID          string
	VertexAIRegion     string
	Transcriber        string // vertex or gemini
	OCRModel           string
	TranscribeDelay    time.Duration
	GeminiAPIKey       string
	GeminiModel        string
	SummaryModel       string
	SummaryTemperature float32
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	ChatModel          string
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	Window        time.Duration
	RedisAddr     string
	RedisPassword string
}

// Load reads configuration. Values in the process environment win over
// values from .env.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	projectID := v.GetString("PROJECT_ID")
	cfg := &Config{
		Server: ServerConfig{
			Port:     v.GetString("PORT"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Store: StoreConfig{
			Backend:        strings.ToLower(v.GetString("STORE_BACKEND")),
			ProjectID:      projectID,
			DocsCollection: v.GetString("DOCS_COLLECTION"),
			HOAsCollection: v.GetString("HOAS_COLLECTION"),
			MongoURI:       v.GetString("MONGODB_URI"),
			MongoDatabase:  v.GetString("MONGODB_DATABASE"),
			MongoTimeout:   v.GetDuration("MONGODB_TIMEOUT"),
		},
		Blob: BlobConfig{
			Backend:        strings.ToLower(v.GetString("BLOB_BACKEND")),
			UploadsBucket:  v.GetString("UPLOADS_BUCKET"),
			SignedURLTTL:   v.GetDuration("SIGNED_URL_TTL"),
			MemoryBaseURL:  v.GetString("BLOB_BASE_URL"),
			MinIOEndpoint:  v.GetString("MINIO_ENDPOINT"),
			MinIOAccessKey: v.GetString("MINIO_ACCESS_KEY"),
			MinIOSecretKey: v.GetString("MINIO_SECRET_KEY"),
			MinIOUseSSL:    v.GetBool("MINIO_USE_SSL"),
			MinIOBucket:    v.GetString("MINIO_BUCKET"),
		},
		Models: ModelsConfig{
			ProjectID:          projectID,
			VertexAIRegion:     v.GetString("VERTEX_AI_REGION"),
			Transcriber:        strings.ToLower(v.GetString("TRANSCRIBER")),
			OCRModel:           v.GetString("OCR_MODEL"),
			TranscribeDelay:    v.GetDuration("TRANSCRIBE_DELAY"),
			GeminiAPIKey:       v.GetString("GEMINI_API_KEY"),
			GeminiModel:        v.GetString("GEMINI_MODEL"),
			SummaryModel:       v.GetString("SUMMARY_MODEL"),
			SummaryTemperature: float32(v.GetFloat64("SUMMARY_TEMPERATURE")),
			OpenAIAPIKey:       v.GetString("OPENAI_API_KEY"),
			OpenAIBaseURL:      v.GetString("OPENAI_BASE_URL"),
			ChatModel:          v.GetString("CHAT_MODEL"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			Window:        v.GetDuration("RATE_LIMIT_WINDOW"),
			RedisAddr:     v.GetString("REDIS_ADDR"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
		},
		RecentLimit: v.GetInt("RECENT_LIMIT"),
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_BACKEND", "firestore")
	v.SetDefault("DOCS_COLLECTION", "docs")
	v.SetDefault("HOAS_COLLECTION", "hoas")
	v.SetDefault("MONGODB_DATABASE", "hoalens")
	v.SetDefault("MONGODB_TIMEOUT", "10s")
	v.SetDefault("BLOB_BACKEND", "gcs")
	v.SetDefault("SIGNED_URL_TTL", "15m")
	v.SetDefault("BLOB_BASE_URL", "http://localhost:8080/api/blobs")
	v.SetDefault("MINIO_BUCKET", "hoalens")
	v.SetDefault("VERTEX_AI_REGION", "us-central1")
	v.SetDefault("TRANSCRIBER", "vertex")
	v.SetDefault("OCR_MODEL", "gemini-1.5-pro")
	v.SetDefault("TRANSCRIBE_DELAY", "500ms")
	v.SetDefault("GEMINI_MODEL", "gemini-exp-1114")
	v.SetDefault("SUMMARY_MODEL", "gemini-1.5-pro")
	v.SetDefault("SUMMARY_TEMPERATURE", 0.3)
	v.SetDefault("CHAT_MODEL", "gpt-4o-mini")
	v.SetDefault("RECENT_LIMIT", 10)
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 1.0)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Server.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
