package convert

import (
	"context"
	"fmt"
	"os"
)

// MarkdownConverter reads already converted text verbatim, e.g. a raw
// content dump written by an earlier run
type MarkdownConverter struct {
	maxFileSize int64
}

// NewMarkdownConverter creates a passthrough converter
func NewMarkdownConverter(maxFileSize int64) *MarkdownConverter {
	return &MarkdownConverter{maxFileSize: maxFileSize}
}

// Name returns the backend name
func (c *MarkdownConverter) Name() string { return BackendMarkdown }

// Convert returns the file content unchanged
func (c *MarkdownConverter) Convert(ctx context.Context, path string) (string, error) {
	if _, err := checkFile(path, c.maxFileSize); err != nil {
		return "", &ConversionError{Backend: BackendMarkdown, Path: path, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return "", &ConversionError{Backend: BackendMarkdown, Path: path, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ConversionError{Backend: BackendMarkdown, Path: path, Err: fmt.Errorf("failed to read file: %w", err)}
	}
	return string(data), nil
}
