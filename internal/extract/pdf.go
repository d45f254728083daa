package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/mpetrenko/docsort/internal/model"
)

// PDFExtractor extracts plain text from PDF files
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDF extractor
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract reads the PDF at path page by page. Pages that yield no text
// are skipped; a document with zero extractable text is still returned
// with empty Text.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (doc *model.Document, err error) {
	// The pdf package panics on some malformed files; a corrupt input
	// must surface as a per-document ExtractionError, not a crash.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &model.ExtractionError{Path: path, Err: fmt.Errorf("malformed pdf: %v", r)}
		}
	}()

	meta, err := statMeta(path)
	if err != nil {
		return nil, &model.ExtractionError{Path: path, Err: err}
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, &model.ExtractionError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	pages := reader.NumPage()
	meta.PageCount = pages

	var buf strings.Builder
	for i := 1; i <= pages; i++ {
		select {
		case <-ctx.Done():
			return nil, &model.ExtractionError{Path: path, Err: ctx.Err()}
		default:
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not fail the document
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	return &model.Document{
		Path: path,
		Text: strings.TrimSpace(buf.String()),
		Meta: meta,
	}, nil
}
