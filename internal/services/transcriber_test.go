package services

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/hoalens/internal/blob"
	"github.com/Lllllllleong/hoalens/internal/pdfchunk"
)

func TestTranscribeJoinsPagesInOrder(t *testing.T) {
	ctx := context.Background()
	blobs := newBlobServer(t)
	id, err := blobs.Put(ctx, bytes.NewReader(readFixture(t)), 0, PDFContentType)
	require.NoError(t, err)

	reader := &fakePageReader{}
	var progress [][2]int
	f := NewTranscriber(blobs, reader, nil, TranscriberConfig{
		OnPage: func(done, total int) { progress = append(progress, [2]int{done, total}) },
	})

	transcript, err := f.Transcribe(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "\n-\ntext of page 1\n-\ntext of page 2\n-\ntext of page 3", transcript)
	assert.Equal(t, 3, reader.calls)
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, progress)
}

func TestTranscribeMissingBlobProducesNothing(t *testing.T) {
	reader := &fakePageReader{}
	f := NewTranscriber(newBlobServer(t), reader, nil, TranscriberConfig{})

	transcript, err := f.Transcribe(context.Background(), "missing.pdf")
	require.NoError(t, err)
	assert.Equal(t, "", transcript)
	assert.Zero(t, reader.calls)
}

func TestTranscribePageFailureAborts(t *testing.T) {
	reader := &fakePageReader{failOn: 2}
	f := NewTranscriber(blob.NewMemoryStore("http://unused"), reader, nil, TranscriberConfig{})

	transcript, err := f.TranscribeBytes(context.Background(), readFixture(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2 of 3")
	assert.Equal(t, "", transcript)
	assert.Equal(t, 2, reader.calls, "no calls after the failing page")
}

func TestTranscribeWaitsBetweenCalls(t *testing.T) {
	reader := &fakePageReader{}
	f := NewTranscriber(blob.NewMemoryStore("http://unused"), reader, nil, TranscriberConfig{Delay: 30 * time.Millisecond})

	start := time.Now()
	_, err := f.TranscribeBytes(context.Background(), readFixture(t))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond, "two pauses for three pages")
}

func TestTranscribeStopsOnCancel(t *testing.T) {
	reader := &fakePageReader{}
	f := NewTranscriber(blob.NewMemoryStore("http://unused"), reader, nil, TranscriberConfig{Delay: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := f.TranscribeBytes(ctx, readFixture(t))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, reader.calls)
}

func TestTranscribeInvalidPDF(t *testing.T) {
	f := NewTranscriber(blob.NewMemoryStore("http://unused"), &fakePageReader{}, nil, TranscriberConfig{})
	_, err := f.TranscribeBytes(context.Background(), []byte("not a pdf"))
	assert.ErrorIs(t, err, pdfchunk.ErrInvalidPDF)
}

func TestTranscribeFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	ctx := context.Background()
	blobs := blob.NewMemoryStore(srv.URL)
	id, err := blobs.Put(ctx, bytes.NewReader(readFixture(t)), 0, PDFContentType)
	require.NoError(t, err)

	reader := &fakePageReader{}
	f := NewTranscriber(blobs, reader, srv.Client(), TranscriberConfig{})
	_, err = f.Transcribe(ctx, id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Zero(t, reader.calls)
}
