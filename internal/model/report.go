package model

import "time"

// Report is the JSON audit record for a complete run.
// Run-specific metadata (run ID, timestamp) is confined to Meta so that
// Entries can be compared byte-for-byte across identical runs.
type Report struct {
	Meta    ReportMeta `json:"meta"`
	Entries []Decision `json:"entries"` // sorted by source path, never null
}

// ReportMeta describes the run that produced the report
type ReportMeta struct {
	RunID       string    `json:"run_id"`
	Source      string    `json:"source"`
	Destination string    `json:"destination,omitempty"`
	Catalog     string    `json:"catalog"`             // catalog file path
	Fingerprint string    `json:"catalog_fingerprint"` // digest of the catalog file
	GeneratedAt time.Time `json:"generated_at"`
	Totals      Totals    `json:"totals"`
}

// Totals is the triage breakdown across all processed documents
type Totals struct {
	Documents    int `json:"documents"`
	Classified   int `json:"classified"`
	Unclassified int `json:"unclassified"`
	Failed       int `json:"failed"`
}
