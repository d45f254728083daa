// Package extract turns source files into Documents: plain text plus
// lightweight metadata. Extraction failures are per-document and never
// abort the batch.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mpetrenko/docsort/internal/model"
)

// Extractor produces a Document from a source file
type Extractor interface {
	// Extract reads path and returns the extracted document.
	// An empty Text is a valid result, not an error.
	Extract(ctx context.Context, path string) (*model.Document, error)
}

// Registry selects an extractor by file extension
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry returns a registry with the default adapters wired
func NewRegistry() *Registry {
	pdf := NewPDFExtractor()
	plain := NewPlainExtractor()
	html := NewHTMLExtractor()

	return &Registry{
		byExt: map[string]Extractor{
			".pdf":  pdf,
			".txt":  plain,
			".md":   plain,
			".html": html,
			".htm":  html,
		},
	}
}

// Extensions returns the supported extensions, sorted
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supports reports whether path has a supported extension
func (r *Registry) Supports(path string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extract dispatches to the adapter for the path's extension
func (r *Registry) Extract(ctx context.Context, path string) (*model.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	e, ok := r.byExt[ext]
	if !ok {
		return nil, &model.ExtractionError{Path: path, Err: fmt.Errorf("unsupported extension %q", ext)}
	}
	return e.Extract(ctx, path)
}

// statMeta fills the metadata shared by all adapters
func statMeta(path string) (model.Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.Metadata{}, err
	}
	return model.Metadata{
		Filename:  filepath.Base(path),
		SizeBytes: info.Size(),
		ModTime:   info.ModTime().UTC(),
	}, nil
}
