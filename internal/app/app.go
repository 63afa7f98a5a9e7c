// Package app assembles stores, model clients and services from Config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/Lllllllleong/hoalens/internal/api"
	"github.com/Lllllllleong/hoalens/internal/blob"
	"github.com/Lllllllleong/hoalens/internal/config"
	"github.com/Lllllllleong/hoalens/internal/gcp"
	"github.com/Lllllllleong/hoalens/internal/metrics"
	"github.com/Lllllllleong/hoalens/internal/services"
	"github.com/Lllllllleong/hoalens/internal/store"
)

// maxUploadBytes bounds how much of a multipart upload gin keeps in memory.
const maxUploadBytes = 32 << 20

// App holds the wired services and everything that must be closed on exit.
type App struct {
	Config      *config.Config
	Store       store.Store
	Blobs       blob.Store
	Transcriber services.Transcriber
	Summarizer  *services.SummarizerFunction
	Chat        *services.ChatFunction
	Handler     *api.Handler
	Registry    *prometheus.Registry

	redis   *redis.Client
	closers []func() error
}

// New validates cfg and builds every backend it selects.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, e := range errs {
			joined[i] = e
		}
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(joined...))
	}

	a := &App{Config: cfg}
	if err := a.build(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg := a.Config
	var err error

	var closeStore func() error
	a.Store, closeStore, err = NewStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, closeStore)

	var closeBlobs func() error
	a.Blobs, closeBlobs, err = NewBlobStore(ctx, cfg.Blob)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, closeBlobs)

	vertex, err := gcp.NewVertexClient(ctx, gcp.VertexConfig{
		ProjectID:          cfg.Models.ProjectID,
		Region:             cfg.Models.VertexAIRegion,
		OCRModel:           cfg.Models.OCRModel,
		SummaryModel:       cfg.Models.SummaryModel,
		SummaryTemperature: cfg.Models.SummaryTemperature,
	})
	if err != nil {
		return fmt.Errorf("failed to create vertex client: %w", err)
	}
	a.closers = append(a.closers, vertex.Close)

	var closeTranscriber func() error
	a.Transcriber, closeTranscriber, err = NewTranscriber(ctx, cfg.Models, a.Blobs, vertex, nil)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, closeTranscriber)

	a.Summarizer = services.NewSummarizer(vertex, a.Store)
	a.Chat = services.NewChat(services.NewOpenAIChatModel(cfg.Models.OpenAIAPIKey, cfg.Models.OpenAIBaseURL, cfg.Models.ChatModel), a.Store)
	a.Handler = &api.Handler{
		Uploads:    services.NewUploadService(a.Blobs, a.Store, a.Transcriber),
		Documents:  services.NewDocumentService(a.Store, a.Blobs, cfg.RecentLimit),
		Summarizer: a.Summarizer,
		Chat:       a.Chat,
	}

	a.Registry = NewRegistry()
	a.redis = newRedisClient(ctx, cfg.RateLimit)
	if a.redis != nil {
		a.closers = append(a.closers, a.redis.Close)
	}
	return nil
}

// Router builds the HTTP engine for the wired services.
func (a *App) Router() *gin.Engine {
	opts := api.Options{
		RateLimit:      RateLimiter(a.Config.RateLimit, a.redis),
		Gatherer:       a.Registry,
		MaxUploadBytes: maxUploadBytes,
	}
	if mem, ok := a.Blobs.(*blob.MemoryStore); ok {
		opts.MemoryBlobs = mem
	}
	return api.NewRouter(a.Handler, opts)
}

// Close releases clients in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// NewStore opens the document store selected by cfg.Backend.
func NewStore(ctx context.Context, cfg config.StoreConfig) (store.Store, func() error, error) {
	switch cfg.Backend {
	case "firestore":
		client, err := gcp.NewFirestoreClient(ctx, cfg.ProjectID)
		if err != nil {
			return nil, nil, err
		}
		s := gcp.NewFirestoreStore(client, cfg.HOAsCollection, cfg.DocsCollection)
		return s, s.Close, nil
	case "mongo":
		s, err := store.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.HOAsCollection, cfg.DocsCollection, cfg.MongoTimeout)
		if err != nil {
			return nil, nil, err
		}
		return s, func() error {
			cctx, cancel := context.WithTimeout(context.Background(), cfg.MongoTimeout)
			defer cancel()
			return s.Close(cctx)
		}, nil
	case "memory":
		slog.Warn("Using in-memory document store; data is lost on restart.")
		return store.NewMemoryStore(), noopClose, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// NewBlobStore opens the PDF store selected by cfg.Backend.
func NewBlobStore(ctx context.Context, cfg config.BlobConfig) (blob.Store, func() error, error) {
	switch cfg.Backend {
	case "gcs":
		s, err := gcp.NewGCSStore(ctx, cfg.UploadsBucket, cfg.SignedURLTTL)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "minio":
		s, err := blob.NewMinIOStore(ctx, blob.MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			UseSSL:    cfg.MinIOUseSSL,
			Bucket:    cfg.MinIOBucket,
			URLExpiry: cfg.SignedURLTTL,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, noopClose, nil
	case "memory":
		slog.Warn("Using in-memory blob store; uploads are lost on restart.", "baseUrl", cfg.MemoryBaseURL)
		return blob.NewMemoryStore(cfg.MemoryBaseURL), noopClose, nil
	default:
		return nil, nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}
}

// NewTranscriber builds the transcriber selected by cfg.Transcriber. reader
// backs the page-by-page vertex transcriber and may be nil for gemini.
func NewTranscriber(ctx context.Context, cfg config.ModelsConfig, blobs blob.Store, reader services.PageReader, onPage func(done, total int)) (services.Transcriber, func() error, error) {
	httpClient := &http.Client{Timeout: 2 * time.Minute}
	switch cfg.Transcriber {
	case "vertex":
		if reader == nil {
			return nil, nil, errors.New("vertex transcriber needs a page reader")
		}
		t := services.NewTranscriber(blobs, reader, httpClient, services.TranscriberConfig{
			Delay:  cfg.TranscribeDelay,
			OnPage: onPage,
		})
		return t, noopClose, nil
	case "gemini":
		t, err := services.NewGeminiFileTranscriber(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, blobs, httpClient)
		if err != nil {
			return nil, nil, err
		}
		return t, t.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown transcriber %q", cfg.Transcriber)
	}
}

// NewRegistry returns a registry with the process, Go and app collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.RegisterCollectors(reg)
	return reg
}

// RateLimiter returns the middleware for cfg, or nil when limiting is off.
// A reachable Redis makes the limit shared across instances.
func RateLimiter(cfg config.RateLimitConfig, client *redis.Client) gin.HandlerFunc {
	if !cfg.Enabled {
		return nil
	}
	if client != nil {
		return api.RedisRateLimitMiddleware(client, cfg.RPS, cfg.Burst, cfg.Window)
	}
	return api.RateLimitMiddleware(cfg.RPS, cfg.Burst)
}

func newRedisClient(ctx context.Context, cfg config.RateLimitConfig) *redis.Client {
	if !cfg.Enabled || cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		slog.Warn("Redis unreachable; falling back to in-memory rate limiting.", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

func noopClose() error { return nil }
