// Package report persists pipeline output next to the source document.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/a3tai/pdf-spec-scanner/internal/specsheet"
)

// File name parts and console markers
const (
	TimestampLayout = "2006-01-02T15-04"
	RawSuffix       = "_raw_content.md"
	JSONSuffix      = "_product_data.json"

	EchoStart = "===== JSON CONTENT START ====="
	EchoEnd   = "===== JSON CONTENT END ====="
)

// Document is the persistable output of one pipeline run
type Document struct {
	SourcePath string
	Raw        string
	Record     *specsheet.Record
}

// Output names the files written for a document
type Output struct {
	RawPath  string `json:"raw_path"`
	JSONPath string `json:"json_path"`
	Prefix   string `json:"prefix"`
}

// Writer writes raw dumps and JSON records and echoes the JSON
type Writer struct {
	mu       sync.Mutex
	echo     io.Writer
	now      func() time.Time
	reserved map[string]struct{}
}

// Option customizes a Writer
type Option func(*Writer)

// WithClock replaces the wall clock used for timestamp prefixes
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// NewWriter creates a writer echoing JSON to echo; nil disables the echo
func NewWriter(echo io.Writer, opts ...Option) *Writer {
	if echo == nil {
		echo = io.Discard
	}
	w := &Writer{
		echo:     echo,
		now:      time.Now,
		reserved: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Persist writes {ts}_raw_content.md and {ts}_product_data.json into the
// source document's directory and echoes the JSON
func (w *Writer) Persist(doc Document) (*Output, error) {
	if doc.SourcePath == "" {
		return nil, fmt.Errorf("source path cannot be empty")
	}
	rec := doc.Record
	if rec == nil {
		rec = &specsheet.Record{}
	}

	data, err := MarshalRecord(rec)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(doc.SourcePath)
	prefix, err := w.reserve(dir)
	if err != nil {
		return nil, err
	}

	out := &Output{
		RawPath:  filepath.Join(dir, prefix+RawSuffix),
		JSONPath: filepath.Join(dir, prefix+JSONSuffix),
		Prefix:   prefix,
	}

	if err := os.WriteFile(out.RawPath, []byte(doc.Raw), 0o644); err != nil {
		return nil, fmt.Errorf("write raw content: %w", err)
	}
	if err := os.WriteFile(out.JSONPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write product data: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := fmt.Fprintf(w.echo, "%s\n%s\n%s\n", EchoStart, data, EchoEnd); err != nil {
		return nil, fmt.Errorf("echo product data: %w", err)
	}

	return out, nil
}

// reserve picks a timestamp prefix that no earlier document of this process
// used in dir and that has no files on disk yet
func (w *Writer) reserve(dir string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	base := w.now().Format(TimestampLayout)
	for n := 1; ; n++ {
		prefix := base
		if n > 1 {
			prefix = fmt.Sprintf("%s-%d", base, n)
		}

		key := filepath.Join(dir, prefix)
		if _, taken := w.reserved[key]; taken {
			continue
		}

		exists, err := anyExists(
			filepath.Join(dir, prefix+RawSuffix),
			filepath.Join(dir, prefix+JSONSuffix),
		)
		if err != nil {
			return "", err
		}
		if exists {
			continue
		}

		w.reserved[key] = struct{}{}
		return prefix, nil
	}
}

func anyExists(paths ...string) (bool, error) {
	for _, p := range paths {
		_, err := os.Stat(p)
		if err == nil {
			return true, nil
		}
		if !os.IsNotExist(err) {
			return false, fmt.Errorf("cannot access %s: %w", p, err)
		}
	}
	return false, nil
}

// MarshalRecord encodes a record as 4-space indented UTF-8 JSON without
// HTML escaping
func MarshalRecord(rec *specsheet.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
