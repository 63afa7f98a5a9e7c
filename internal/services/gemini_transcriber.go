package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Lllllllleong/hoalens/internal/blob"
)

// GeminiFilePrompt asks for a verbatim transcript of a whole uploaded file.
const GeminiFilePrompt = "Extract and output all text from all pages of the PDF VERBATIM. Do not summarize, do not truncate, do not add any explanatory text, and do not add any '[Continues...]' or similar notations. Output the exact text, improving formatting and layout if necessary."

// DefaultGeminiFileModel is the model used for whole-file transcription.
const DefaultGeminiFileModel = "gemini-exp-1114"

// GeminiFileTranscriber sends the whole PDF through the Gemini File API and
// transcribes it in a single call. It does not chunk.
type GeminiFileTranscriber struct {
	client     *genai.Client
	model      *genai.GenerativeModel
	blobs      blob.Store
	httpClient *http.Client
}

var _ Transcriber = (*GeminiFileTranscriber)(nil)

// NewGeminiFileTranscriber creates a transcriber authenticated with an API key.
func NewGeminiFileTranscriber(ctx context.Context, apiKey, modelName string, blobs blob.Store, httpClient *http.Client) (*GeminiFileTranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY must be set")
	}
	if modelName == "" {
		modelName = DefaultGeminiFileModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GeminiFileTranscriber{
		client:     client,
		model:      client.GenerativeModel(modelName),
		blobs:      blobs,
		httpClient: httpClient,
	}, nil
}

func (g *GeminiFileTranscriber) Close() error {
	return g.client.Close()
}

func (g *GeminiFileTranscriber) Transcribe(ctx context.Context, storageID string) (string, error) {
	logCtx := slog.With("storageId", storageID, "transcriber", "gemini-file")

	pdf, ok, err := fetchPDF(ctx, g.blobs, g.httpClient, storageID)
	if err != nil {
		return "", err
	}
	if !ok {
		logCtx.Warn("No retrieval URL for blob; no transcript produced.")
		return "", nil
	}
	return g.TranscribeBytes(ctx, pdf)
}

// TranscribeBytes uploads pdf, waits for the file to become active and asks
// the model for its text. The uploaded file is deleted afterwards.
func (g *GeminiFileTranscriber) TranscribeBytes(ctx context.Context, pdf []byte) (string, error) {
	file, err := g.client.UploadFile(ctx, "", bytes.NewReader(pdf), &genai.UploadFileOptions{
		DisplayName: "HOA document",
		MIMEType:    "application/pdf",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to gemini: %w", err)
	}
	defer func() {
		if err := g.client.DeleteFile(context.WithoutCancel(ctx), file.Name); err != nil {
			slog.Warn("Failed to delete gemini file", "file", file.Name, "error", err)
		}
	}()

	for file.State == genai.FileStateProcessing {
		if err := wait(ctx, time.Second); err != nil {
			return "", err
		}
		if file, err = g.client.GetFile(ctx, file.Name); err != nil {
			return "", fmt.Errorf("failed to poll gemini file: %w", err)
		}
	}
	if file.State == genai.FileStateFailed {
		return "", fmt.Errorf("gemini could not process file %s", file.Name)
	}

	resp, err := g.model.GenerateContent(ctx,
		genai.FileData{MIMEType: file.MIMEType, URI: file.URI},
		genai.Text(GeminiFilePrompt),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate transcript from gemini: %w", err)
	}
	if resp.UsageMetadata != nil {
		slog.Debug("model usage", "model", "gemini-file", "totalTokens", resp.UsageMetadata.TotalTokenCount)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}
