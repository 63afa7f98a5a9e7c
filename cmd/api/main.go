package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/gin-gonic/gin"

	"github.com/Lllllllleong/hoalens/internal/app"
	"github.com/Lllllllleong/hoalens/internal/config"
)

var (
	router  *gin.Engine
	once    sync.Once
	initErr error
)

func init() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// "HandleAPI" is the entry point name we'll see in GCP.
	functions.HTTP("HandleAPI", handleAPI)
}

// main runs the function locally. Deployed functions are started by the runtime.
func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := funcframework.Start(port); err != nil {
		log.Fatalf("funcframework.Start: %v", err)
	}
}

func initRouter() (*gin.Engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	gin.SetMode(gin.ReleaseMode)

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return a.Router(), nil
}

// handleAPI serves every HOA Lens route through the gin router.
func handleAPI(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		router, initErr = initRouter()
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}
	router.ServeHTTP(w, r)
}
