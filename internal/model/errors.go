package model

import "fmt"

// ExtractionError marks a document whose text could not be obtained.
// Recorded per-document; never aborts the batch.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// EmbeddingError marks a document whose semantic scoring failed.
// The resolver falls back to rule evidence when any exists.
type EmbeddingError struct {
	Path string
	Err  error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embed %s: %v", e.Path, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// ConfigurationError is fatal at startup, before any document is processed
type ConfigurationError struct {
	Detail string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("configuration: %s", e.Detail)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ValidationError marks an internal invariant breach (a decision that
// names a category outside the configured set). It is a defect signal,
// caught and reported rather than propagated as a crash.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s", e.Detail)
}
