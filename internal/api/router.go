// Package api exposes the HOA Lens operations as a JSON HTTP API.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Lllllllleong/hoalens/internal/blob"
	"github.com/Lllllllleong/hoalens/internal/services"
)

// defaultMaxUploadBytes bounds uploads when Options.MaxUploadBytes is unset.
const defaultMaxUploadBytes = 32 << 20

// Options configure optional parts of the router.
type Options struct {
	// RateLimit guards the model-backed routes when set.
	RateLimit gin.HandlerFunc
	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
	// MemoryBlobs, when set, is served under /api/blobs so its URLs resolve.
	MemoryBlobs *blob.MemoryStore
	// MaxUploadBytes bounds multipart uploads held in memory and blob PUT bodies.
	MaxUploadBytes int64
}

// NewRouter builds the gin engine.
func NewRouter(h *Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	r.MaxMultipartMemory = maxUpload
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	limit := opts.RateLimit
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}

	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		api.POST("/uploads/url", h.uploadURL)
		api.POST("/uploads", limit, h.upload)
		api.POST("/documents", limit, h.registerDocument)
		api.GET("/documents", h.listDocuments)
		api.GET("/documents/:id", h.getDocument)
		api.GET("/documents/:id/meta", h.documentMeta)
		api.POST("/documents/:id/summary", limit, h.summarize)
		api.POST("/documents/:id/chat", limit, h.chat)
		api.GET("/documents/:id/search", h.search)
		api.POST("/hoas", h.createHOA)
		api.GET("/hoas/:id", h.getHOA)
		api.GET("/hoas/:id/documents", h.hoaDocuments)
		api.GET("/storage/:storageId/url", h.storageURL)
		api.GET("/sample-questions", h.sampleQuestions)
	}

	if opts.MemoryBlobs != nil {
		mb := &memoryBlobHandler{blobs: opts.MemoryBlobs, maxBytes: maxUpload}
		api.GET("/blobs/:storageId", mb.get)
		api.PUT("/blobs/:storageId", mb.put)
	}
	return r
}

// memoryBlobHandler stands in for signed URLs when blobs live in process.
type memoryBlobHandler struct {
	blobs    *blob.MemoryStore
	maxBytes int64
}

func (m *memoryBlobHandler) get(c *gin.Context) {
	id := c.Param("storageId")
	info, err := m.blobs.Stat(c.Request.Context(), id)
	if errors.Is(err, blob.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	rc, err := m.blobs.Open(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	defer rc.Close()
	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, rc, nil)
}

// put accepts one PDF for a storage id reserved by UploadURL, like a signed
// upload URL would.
func (m *memoryBlobHandler) put(c *gin.Context) {
	if !services.IsPDF(c.GetHeader("Content-Type")) {
		writeError(c, services.ErrNotPDF)
		return
	}
	body := http.MaxBytesReader(c.Writer, c.Request.Body, m.maxBytes)
	if err := m.blobs.Fulfill(c.Request.Context(), c.Param("storageId"), body, services.PDFContentType); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
