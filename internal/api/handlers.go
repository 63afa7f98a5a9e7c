package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Lllllllleong/hoalens/internal/metrics"
	"github.com/Lllllllleong/hoalens/internal/models"
	"github.com/Lllllllleong/hoalens/internal/search"
	"github.com/Lllllllleong/hoalens/internal/services"
)

// Handler serves the JSON API over the services.
type Handler struct {
	Uploads    *services.UploadService
	Documents  *services.DocumentService
	Summarizer *services.SummarizerFunction
	Chat       *services.ChatFunction
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) uploadURL(c *gin.Context) {
	res, err := h.Uploads.UploadURL(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// upload accepts a multipart form with a "file" part and the form fields.
func (h *Handler) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	var form models.UploadForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !services.IsPDF(contentType) {
		writeError(c, services.ErrNotPDF)
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer f.Close()

	start := time.Now()
	res, err := h.Uploads.Upload(c.Request.Context(), services.UploadInput{
		Body:        f,
		Size:        fh.Size,
		ContentType: contentType,
		Form:        form,
	})
	metrics.ObserveUpload(start, err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) registerDocument(c *gin.Context) {
	var req models.RegisterDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	start := time.Now()
	res, err := h.Uploads.Register(c.Request.Context(), req.StorageID, req.Form)
	metrics.ObserveUpload(start, err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) listDocuments(c *gin.Context) {
	docs, err := h.Documents.Recent(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (h *Handler) getDocument(c *gin.Context) {
	view, err := h.Documents.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) documentMeta(c *gin.Context) {
	meta, err := h.Documents.Meta(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (h *Handler) summarize(c *gin.Context) {
	start := time.Now()
	summary, err := h.Summarizer.SummarizeDocument(c.Request.Context(), c.Param("id"))
	metrics.ObserveModelCall("summary", start, err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SummaryResponse{Summary: summary})
}

func (h *Handler) chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	start := time.Now()
	reply, err := h.Chat.Reply(c.Request.Context(), c.Param("id"), req.Messages)
	metrics.ObserveModelCall("chat", start, err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ChatResponse{Reply: reply})
}

type searchResponse struct {
	Query      string           `json:"query"`
	MatchCount int              `json:"matchCount"`
	Current    *int             `json:"current"`
	Segments   []search.Segment `json:"segments"`
	HTML       string           `json:"html"`
}

// search highlights q in the transcript. current selects the focused match
// and wraps around the match count.
func (h *Handler) search(c *gin.Context) {
	transcript, err := h.Documents.Transcript(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	current := 0
	if raw := c.Query("current"); raw != "" {
		if current, err = strconv.Atoi(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "current must be an integer"})
			return
		}
	}

	s := search.NewSession(transcript)
	s.SetQuery(c.Query("q"))
	s.Focus(current)

	res := searchResponse{Query: s.Query(), MatchCount: s.MatchCount(), Segments: s.Segments()}
	if idx, ok := s.Current(); ok {
		res.Current = &idx
	}
	res.HTML = search.HTML(res.Segments)
	c.JSON(http.StatusOK, res)
}

func (h *Handler) createHOA(c *gin.Context) {
	var req models.CreateHOARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	id, err := h.Documents.CreateHOA(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) getHOA(c *gin.Context) {
	hoa, err := h.Documents.GetHOA(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, hoa)
}

func (h *Handler) hoaDocuments(c *gin.Context) {
	res, err := h.Documents.HOADocuments(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) storageURL(c *gin.Context) {
	u, err := h.Documents.StorageURL(c.Request.Context(), c.Param("storageId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.URLResponse{URL: u})
}

func (h *Handler) sampleQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"questions": services.SampleQuestions})
}
