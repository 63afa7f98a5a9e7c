package gcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

// --- OCR Model Prompts ---
const OCRSystemPrompt = "You are an expert at extracting and structuring text from PDFs."
const OCRUserPrompt = "Extract and output all text from all pages of the PDF VERBATIM. Do not summarize, do not truncate, do not add any explanatory text, and do not add any '[Continues...]' or similar notations. For images and diagrams, do not provide detailed descriptions - a simple [Diagram] or [Image] tag will suffice. Output the exact text as it appears, maintaining all formatting and punctuation."

// Default sampling settings for the summary model.
const (
	DefaultSummaryTemperature float32 = 0.3
	DefaultSummaryMaxTokens   int32   = 8190
)

// VertexConfig names the models the VertexClient configures.
type VertexConfig struct {
	ProjectID          string
	Region             string
	OCRModel           string
	SummaryModel       string
	SummaryTemperature float32
}

// VertexClient holds all pre-configured generative models for our app.
type VertexClient struct {
	OCRModel     *genai.GenerativeModel
	SummaryModel *genai.GenerativeModel
	baseClient   *genai.Client
}

// NewVertexClient creates a new client holding the OCR and summary models.
func NewVertexClient(ctx context.Context, cfg VertexConfig) (*VertexClient, error) {
	if cfg.ProjectID == "" || cfg.Region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	// --- Configure the OCR model ---
	ocrModel := baseClient.GenerativeModel(cfg.OCRModel)
	ocrModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(OCRSystemPrompt)},
	}
	ocrModel.SetTemperature(0)

	// --- Configure the summary model ---
	summaryModel := baseClient.GenerativeModel(cfg.SummaryModel)
	summaryModel.SetTemperature(cfg.SummaryTemperature)
	summaryModel.SetMaxOutputTokens(DefaultSummaryMaxTokens)

	return &VertexClient{
		OCRModel:     ocrModel,
		SummaryModel: summaryModel,
		baseClient:   baseClient,
	}, nil
}

// ReadPage sends one PDF page to the OCR model and returns its verbatim text.
func (c *VertexClient) ReadPage(ctx context.Context, pdf []byte) (string, error) {
	resp, err := c.OCRModel.GenerateContent(ctx,
		genai.Blob{MIMEType: "application/pdf", Data: pdf},
		genai.Text(OCRUserPrompt),
	)
	if err != nil {
		return "", fmt.Errorf("ocr GenerateContent: %w", err)
	}
	logUsage("ocr", resp)
	return ResponseText(resp), nil
}

// Generate runs a single-prompt completion on the summary model.
func (c *VertexClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.SummaryModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("summary GenerateContent: %w", err)
	}
	logUsage("summary", resp)
	return ResponseText(resp), nil
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}

// ResponseText concatenates the text parts of the first candidate.
func ResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		slog.Warn("model response contained no content parts")
		return ""
	}
	var sb strings.Builder
	var textParts int
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
			textParts++
		}
	}
	if textParts > 1 {
		slog.Debug("model response text parts concatenated", "parts", textParts)
	}
	return sb.String()
}

func logUsage(model string, resp *genai.GenerateContentResponse) {
	if resp == nil || resp.UsageMetadata == nil {
		return
	}
	slog.Debug("model usage",
		"model", model,
		"promptTokens", resp.UsageMetadata.PromptTokenCount,
		"candidateTokens", resp.UsageMetadata.CandidatesTokenCount,
		"totalTokens", resp.UsageMetadata.TotalTokenCount,
	)
}
