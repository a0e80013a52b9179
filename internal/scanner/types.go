package scanner

import (
	"github.com/a3tai/pdf-spec-scanner/internal/report"
	"github.com/a3tai/pdf-spec-scanner/internal/specsheet"
)

// FileInfo describes a discovered document
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// SearchRequest asks for documents in a directory
type SearchRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
	Recursive bool   `json:"recursive"`
}

// SearchResult lists the documents found by a search
type SearchResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// DocumentResult is the outcome of processing one document
type DocumentResult struct {
	RunID       string            `json:"run_id"`
	Path        string            `json:"path"`
	Backend     string            `json:"backend,omitempty"`
	Record      *specsheet.Record `json:"record,omitempty"`
	Pairs       []specsheet.Pair  `json:"pairs,omitempty"`
	Output      *report.Output    `json:"output,omitempty"`
	SchemaError string            `json:"schema_error,omitempty"`
	Error       string            `json:"error,omitempty"`
	DurationMS  int64             `json:"duration_ms"`

	raw string
}

// Raw returns the converter output the record was extracted from
func (r *DocumentResult) Raw() string {
	return r.raw
}

// BatchResult collects the outcome of every document of one run
type BatchResult struct {
	Documents []DocumentResult `json:"documents"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
}

// HasFailures reports whether any document failed
func (b *BatchResult) HasFailures() bool {
	return b.Failed > 0
}
