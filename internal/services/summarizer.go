package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Lllllllleong/hoalens/internal/store"
)

// SummaryPrompt is followed directly by the transcript.
const SummaryPrompt = `You are an expert in analyzing HOA and legal documents. Please provide a clear, concise summary of the key points from this HOA document. Focus on:
- Important rules and regulations
- Homeowner rights and responsibilities
- Critical restrictions or requirements
- Notable policies that affect daily life
- Financial obligations
- Enforcement mechanisms

Please present this information in clear, simple language that homeowners can easily understand without any conversation. Here's the document:
`

// ErrSummaryGeneration wraps failures of the summary model call.
var ErrSummaryGeneration = errors.New("failed to generate summary")

// TextGenerator runs a single-prompt completion.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SummarizerFunction holds dependencies for summary generation.
type SummarizerFunction struct {
	generator TextGenerator
	docs      store.Store
}

func NewSummarizer(generator TextGenerator, docs store.Store) *SummarizerFunction {
	return &SummarizerFunction{generator: generator, docs: docs}
}

// BuildSummaryPrompt embeds transcript in SummaryPrompt.
func BuildSummaryPrompt(transcript string) string {
	return SummaryPrompt + transcript
}

// Summarize makes one model call over transcript. Model errors wrap ErrSummaryGeneration.
func (f *SummarizerFunction) Summarize(ctx context.Context, transcript string) (string, error) {
	summary, err := f.generator.Generate(ctx, BuildSummaryPrompt(transcript))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSummaryGeneration, err)
	}
	return summary, nil
}

// SummarizeDocument summarizes a stored document's transcript and saves the
// result on the document.
func (f *SummarizerFunction) SummarizeDocument(ctx context.Context, docID string) (string, error) {
	logCtx := slog.With("documentId", docID)
	logCtx.Info("Starting summary generation.")

	doc, err := f.docs.GetDocument(ctx, docID)
	if err != nil {
		return "", fmt.Errorf("failed to load document %s: %w", docID, err)
	}

	summary, err := f.Summarize(ctx, doc.Transcript)
	if err != nil {
		logCtx.Error("Summary generation failed", "error", err)
		return "", err
	}

	if err := f.docs.SaveSummary(ctx, docID, summary); err != nil {
		logCtx.Error("Failed to save summary", "error", err)
		return "", fmt.Errorf("failed to save summary: %w", err)
	}
	logCtx.Info("Summary saved.", "characters", len(summary))
	return summary, nil
}
