package extract

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mpetrenko/docsort/internal/model"
)

// PlainExtractor reads UTF-8 text files (.txt, .md) verbatim
type PlainExtractor struct{}

// NewPlainExtractor creates a new plain text extractor
func NewPlainExtractor() *PlainExtractor {
	return &PlainExtractor{}
}

func (e *PlainExtractor) Extract(ctx context.Context, path string) (*model.Document, error) {
	meta, err := statMeta(path)
	if err != nil {
		return nil, &model.ExtractionError{Path: path, Err: err}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &model.ExtractionError{Path: path, Err: err}
	}

	if !utf8.Valid(raw) {
		return nil, &model.ExtractionError{Path: path, Err: fmt.Errorf("not valid UTF-8 text")}
	}

	return &model.Document{
		Path: path,
		Text: strings.TrimSpace(string(raw)),
		Meta: meta,
	}, nil
}
