package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lllllllleong/hoalens/internal/blob"
	"github.com/Lllllllleong/hoalens/internal/services"
	"github.com/Lllllllleong/hoalens/internal/store"
)

// writeError maps service errors onto status codes and a {"error": ...} body.
func writeError(c *gin.Context, err error) {
	var verrs services.ValidationErrors
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form", "fields": verrs})
	case errors.Is(err, services.ErrEmptyConversation),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrMissingStorageID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound), errors.Is(err, blob.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, blob.ErrAlreadyWritten):
		c.JSON(http.StatusConflict, gin.H{"error": "already uploaded"})
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
	case errors.Is(err, services.ErrNotPDF):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "Please upload a PDF file"})
	case errors.Is(err, services.ErrModelResponse):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to get AI response"})
	case errors.Is(err, services.ErrSummaryGeneration):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate summary"})
	default:
		slog.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
