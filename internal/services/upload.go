package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"strings"

	"github.com/Lllllllleong/hoalens/internal/blob"
	"github.com/Lllllllleong/hoalens/internal/models"
	"github.com/Lllllllleong/hoalens/internal/store"
)

// PDFContentType is the only accepted upload type.
const PDFContentType = "application/pdf"

var (
	ErrNotPDF           = errors.New("please upload a PDF file")
	ErrMissingStorageID = errors.New("missing storage id")
)

// ValidationErrors is returned when a submitted form is incomplete.
type ValidationErrors []models.ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "invalid form: " + strings.Join(msgs, "; ")
}

// IsPDF reports whether contentType names a PDF, ignoring parameters.
func IsPDF(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && strings.EqualFold(mediaType, PDFContentType)
}

// UploadInput is a PDF upload with its form.
type UploadInput struct {
	Body        io.Reader
	Size        int64
	ContentType string
	Form        models.UploadForm
}

// UploadService stores uploaded PDFs and creates their HOA and Document records.
type UploadService struct {
	blobs       blob.Store
	docs        store.Store
	transcriber Transcriber
}

func NewUploadService(blobs blob.Store, docs store.Store, transcriber Transcriber) *UploadService {
	return &UploadService{blobs: blobs, docs: docs, transcriber: transcriber}
}

// UploadURL reserves a storage id the client can upload a PDF to directly.
func (s *UploadService) UploadURL(ctx context.Context) (*models.UploadURLResponse, error) {
	u, id, err := s.blobs.UploadURL(ctx, PDFContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to generate upload url: %w", err)
	}
	return &models.UploadURLResponse{UploadURL: u, StorageID: id}, nil
}

// Upload rejects non-PDF input before anything is written, then stores the
// blob and registers it.
func (s *UploadService) Upload(ctx context.Context, in UploadInput) (*models.CreatedDocumentResponse, error) {
	if !IsPDF(in.ContentType) {
		return nil, ErrNotPDF
	}
	if errs := in.Form.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	storageID, err := s.blobs.Put(ctx, in.Body, in.Size, PDFContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	return s.create(ctx, storageID, in.Form)
}

// Register creates the records for a blob the client already uploaded.
func (s *UploadService) Register(ctx context.Context, storageID string, form models.UploadForm) (*models.CreatedDocumentResponse, error) {
	if storageID == "" {
		return nil, ErrMissingStorageID
	}
	if errs := form.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	info, err := s.blobs.Stat(ctx, storageID)
	if err != nil {
		return nil, fmt.Errorf("failed to stat upload %s: %w", storageID, err)
	}
	if info.ContentType != "" && !IsPDF(info.ContentType) {
		return nil, ErrNotPDF
	}
	return s.create(ctx, storageID, form)
}

// create transcribes the blob and inserts the HOA and Document. A failed
// transcription still creates the Document, with an empty transcript.
func (s *UploadService) create(ctx context.Context, storageID string, form models.UploadForm) (*models.CreatedDocumentResponse, error) {
	logCtx := slog.With("storageId", storageID)

	var transcribeErr string
	transcript, err := s.transcriber.Transcribe(ctx, storageID)
	if err != nil {
		logCtx.Error("Transcription failed; saving document with empty transcript.", "error", err)
		transcript = ""
		transcribeErr = err.Error()
	}

	hoaID, err := s.docs.InsertHOA(ctx, &models.HOA{
		Name:     strings.TrimSpace(form.HOAName),
		Location: form.Location(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create hoa: %w", err)
	}

	docID, err := s.docs.InsertDocument(ctx, &models.Document{
		StorageID:  storageID,
		HOAID:      hoaID,
		DocName:    form.DocName(),
		Transcript: transcript,
		Status:     models.StatusPending,
		Error:      transcribeErr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	logCtx.Info("Document created.", "documentId", docID, "hoaId", hoaID, "characters", len(transcript))
	return &models.CreatedDocumentResponse{DocID: docID, HOAID: hoaID}, nil
}
