package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Document is an immutable snapshot of an ingested file.
// It is created once by the extractor and consumed read-only downstream.
type Document struct {
	Path string   `json:"path"` // Source path (identity)
	Text string   `json:"-"`    // Extracted plain text (may be empty)
	Meta Metadata `json:"meta"`
}

// Metadata holds lightweight file attributes captured at extraction time
type Metadata struct {
	Filename  string    `json:"filename"`
	SizeBytes int64     `json:"size_bytes"`
	ModTime   time.Time `json:"mod_time"`
	PageCount int       `json:"page_count,omitempty"` // 0 for non-paginated formats
}

// MetaString renders metadata as a flat matchable string for rules
// targeting the metadata field.
func (d *Document) MetaString() string {
	ext := strings.TrimPrefix(filepath.Ext(d.Meta.Filename), ".")
	return fmt.Sprintf("%s ext=%s pages=%d year=%d",
		d.Meta.Filename, ext, d.Meta.PageCount, d.Meta.ModTime.Year())
}
