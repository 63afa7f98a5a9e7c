package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	cloudevents "github.com/cloudevents/sdk-go/v2"

	"github.com/Lllllllleong/hoalens/internal/config"
	"github.com/Lllllllleong/hoalens/internal/gcp"
	"github.com/Lllllllleong/hoalens/internal/services"
)

var (
	guardInstance *services.UploadGuardFunction
	once          sync.Once
	initErr       error
)

func init() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Triggered by object finalize events on the uploads bucket.
	functions.CloudEvent("GuardUpload", guardUpload)
}

// main is required by the Go Functions Framework.
func main() {}

func newGuard(ctx context.Context) (*services.UploadGuardFunction, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Blob.UploadsBucket == "" {
		return nil, fmt.Errorf("UPLOADS_BUCKET must be set")
	}
	blobs, err := gcp.NewGCSStore(ctx, cfg.Blob.UploadsBucket, cfg.Blob.SignedURLTTL)
	if err != nil {
		return nil, err
	}
	return services.NewUploadGuard(blobs, cfg.Blob.UploadsBucket), nil
}

// guardUpload deletes uploads that are not readable PDFs.
func guardUpload(ctx context.Context, e cloudevents.Event) error {
	once.Do(func() {
		guardInstance, initErr = newGuard(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return initErr
	}

	var gcsEvent services.GCSEvent
	if err := json.Unmarshal(e.Data(), &gcsEvent); err != nil {
		slog.Error("Failed to unmarshal event data", "error", err, "data", string(e.Data()))
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	// The error is already logged with context within Process.
	_, err := guardInstance.Process(ctx, gcsEvent)
	return err
}
