package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/hoalens/internal/blob"
	"github.com/Lllllllleong/hoalens/internal/models"
)

func readFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "three_pages.pdf"))
	require.NoError(t, err)
	return data
}

// newBlobServer returns a memory blob store whose URLs are served by an
// httptest server.
func newBlobServer(t *testing.T) *blob.MemoryStore {
	t.Helper()
	var blobs *blob.MemoryStore
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := url.PathUnescape(strings.TrimPrefix(r.URL.Path, "/"))
		rc, err := blobs.Open(r.Context(), id)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", PDFContentType)
		_, _ = io.Copy(w, rc)
	}))
	t.Cleanup(srv.Close)
	blobs = blob.NewMemoryStore(srv.URL)
	return blobs
}

var pageMarker = regexp.MustCompile(`\(Page (\d+)\)`)

// fakePageReader answers with the page label found in the chunk.
type fakePageReader struct {
	mu     sync.Mutex
	calls  int
	failOn int
}

func (f *fakePageReader) ReadPage(_ context.Context, pdf []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	m := pageMarker.FindSubmatch(pdf)
	if m == nil {
		return "", errors.New("no page marker")
	}
	if f.failOn == f.calls {
		return "", fmt.Errorf("model unavailable")
	}
	return "text of page " + string(m[1]), nil
}

type fakeGenerator struct {
	prompt string
	reply  string
	err    error
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

type fakeChatModel struct {
	turns []models.Turn
	reply string
	err   error
}

func (f *fakeChatModel) Complete(_ context.Context, turns []models.Turn) (string, error) {
	f.turns = turns
	return f.reply, f.err
}

type fakeTranscriber struct {
	transcript string
	err        error
	calls      []string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, storageID string) (string, error) {
	f.calls = append(f.calls, storageID)
	return f.transcript, f.err
}
