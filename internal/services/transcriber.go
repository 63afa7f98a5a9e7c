package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Lllllllleong/hoalens/internal/blob"
	"github.com/Lllllllleong/hoalens/internal/pdfchunk"
)

// PageSeparator is written before every page's text in a transcript.
const PageSeparator = "\n-\n"

// DefaultTranscribeDelay is the pause between consecutive OCR calls.
const DefaultTranscribeDelay = 500 * time.Millisecond

// PageReader turns a single-page PDF into its verbatim text.
type PageReader interface {
	ReadPage(ctx context.Context, pdf []byte) (string, error)
}

// Transcriber produces the transcript of a stored PDF. An empty transcript
// with a nil error means the blob had no retrievable URL.
type Transcriber interface {
	Transcribe(ctx context.Context, storageID string) (string, error)
}

// TranscriberConfig holds configuration for the page-by-page transcriber.
type TranscriberConfig struct {
	Delay time.Duration
	// OnPage, when set, is called after each page is read.
	OnPage func(done, total int)
}

// TranscriberFunction reads a PDF one page at a time, strictly in sequence.
type TranscriberFunction struct {
	blobs      blob.Store
	reader     PageReader
	httpClient *http.Client
	config     TranscriberConfig
}

var _ Transcriber = (*TranscriberFunction)(nil)

// NewTranscriber creates a TranscriberFunction. A nil httpClient uses http.DefaultClient.
func NewTranscriber(blobs blob.Store, reader PageReader, httpClient *http.Client, config TranscriberConfig) *TranscriberFunction {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TranscriberFunction{blobs: blobs, reader: reader, httpClient: httpClient, config: config}
}

// Transcribe fetches the blob through its retrieval URL and transcribes it.
func (f *TranscriberFunction) Transcribe(ctx context.Context, storageID string) (string, error) {
	logCtx := slog.With("storageId", storageID)

	pdf, ok, err := fetchPDF(ctx, f.blobs, f.httpClient, storageID)
	if err != nil {
		return "", err
	}
	if !ok {
		logCtx.Warn("No retrieval URL for blob; no transcript produced.")
		return "", nil
	}

	transcript, err := f.TranscribeBytes(ctx, pdf)
	if err != nil {
		logCtx.Error("Transcription failed", "error", err)
		return "", err
	}
	logCtx.Info("Transcription complete.", "characters", len(transcript))
	return transcript, nil
}

// TranscribeBytes splits pdf into pages and reads each one in order. Any
// page failure aborts the whole run.
func (f *TranscriberFunction) TranscribeBytes(ctx context.Context, pdf []byte) (string, error) {
	pages, err := pdfchunk.Split(pdf)
	if err != nil {
		return "", fmt.Errorf("failed to split pdf: %w", err)
	}
	slog.Debug("Transcribing pages.", "pages", len(pages))

	var sb strings.Builder
	for i, page := range pages {
		if i > 0 {
			if err := wait(ctx, f.config.Delay); err != nil {
				return "", err
			}
		}
		text, err := f.reader.ReadPage(ctx, page)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d of %d: %w", i+1, len(pages), err)
		}
		sb.WriteString(PageSeparator)
		sb.WriteString(text)
		if f.config.OnPage != nil {
			f.config.OnPage(i+1, len(pages))
		}
	}
	return sb.String(), nil
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// fetchPDF downloads a blob through its retrieval URL. ok is false when the
// store has no URL for storageID.
func fetchPDF(ctx context.Context, blobs blob.Store, client *http.Client, storageID string) ([]byte, bool, error) {
	url, err := blobs.URL(ctx, storageID)
	if errors.Is(err, blob.ErrNotFound) || (err == nil && url == "") {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get url for %s: %w", storageID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch %s: %w", storageID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false, fmt.Errorf("failed to fetch %s: unexpected status %s", storageID, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", storageID, err)
	}
	return data, true, nil
}
