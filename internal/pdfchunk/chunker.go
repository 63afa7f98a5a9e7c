// Package pdfchunk splits a PDF into single-page PDFs so each page can be
// sent to an OCR model on its own.
package pdfchunk

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrInvalidPDF is matched by every error caused by input that cannot be
// parsed as a PDF.
var ErrInvalidPDF = errors.New("invalid pdf")

// InvalidPDFError carries the parser failure behind ErrInvalidPDF.
type InvalidPDFError struct {
	Op  string
	Err error
}

func (e *InvalidPDFError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrInvalidPDF, e.Err)
}

func (e *InvalidPDFError) Unwrap() []error {
	return []error{ErrInvalidPDF, e.Err}
}

// newConfig returns a fresh relaxed configuration. pdfcpu records the
// current command on the configuration, so one is built per call.
func newConfig() *model.Configuration {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}

// Validate checks that data parses as a PDF.
func Validate(data []byte) error {
	if len(data) == 0 {
		return &InvalidPDFError{Op: "validate", Err: errors.New("empty input")}
	}
	if err := api.Validate(bytes.NewReader(data), newConfig()); err != nil {
		return &InvalidPDFError{Op: "validate", Err: err}
	}
	return nil
}

// PageCount returns the number of pages in data.
func PageCount(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, &InvalidPDFError{Op: "page count", Err: errors.New("empty input")}
	}
	n, err := api.PageCount(bytes.NewReader(data), newConfig())
	if err != nil {
		return 0, &InvalidPDFError{Op: "page count", Err: err}
	}
	return n, nil
}

// Page extracts the 1-based page number from data as a standalone PDF.
func Page(data []byte, page int) ([]byte, error) {
	var buf bytes.Buffer
	if err := api.Trim(bytes.NewReader(data), &buf, []string{strconv.Itoa(page)}, newConfig()); err != nil {
		return nil, &InvalidPDFError{Op: fmt.Sprintf("extract page %d", page), Err: err}
	}
	return buf.Bytes(), nil
}

// Split returns one single-page PDF per page of data, in page order.
func Split(data []byte) ([][]byte, error) {
	n, err := PageCount(data)
	if err != nil {
		return nil, err
	}
	chunks := make([][]byte, 0, n)
	for i := 1; i <= n; i++ {
		chunk, err := Page(data, i)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}
