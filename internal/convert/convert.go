// Package convert turns source documents into the raw markdown-ish text the
// specsheet pipeline consumes.
package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Backend names
const (
	BackendLayout   = "layout"
	BackendText     = "text"
	BackendHTML     = "html"
	BackendXLSX     = "xlsx"
	BackendMarkdown = "markdown"
)

// DefaultMaxFileSize is used when no size limit is configured
const DefaultMaxFileSize int64 = 100 * 1024 * 1024

// Converter turns one document into raw text
type Converter interface {
	Name() string
	Convert(ctx context.Context, path string) (string, error)
}

// ConversionError reports a document that could not be converted
type ConversionError struct {
	Backend string `json:"backend"`
	Path    string `json:"path"`
	Err     error  `json:"error"`
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s conversion of %s failed: %v", e.Backend, e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Common conversion failures
var (
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrEncrypted       = errors.New("document is encrypted")
	ErrNoText          = errors.New("no text content could be extracted")
)

// Options configures the converter factory
type Options struct {
	// PDFBackend selects the PDF converter: layout or text
	PDFBackend  string
	MaxFileSize int64
	// Logger receives per-page warnings of the PDF backends
	Logger *slog.Logger
}

// Factory selects a converter by file extension
type Factory struct {
	byExt map[string]Converter
}

// NewFactory creates a factory with every built-in backend registered
func NewFactory(opts Options) (*Factory, error) {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}

	var pdfConverter Converter
	switch strings.ToLower(opts.PDFBackend) {
	case "", BackendLayout:
		layout := NewLayoutConverter(opts.MaxFileSize, DefaultLayoutOptions())
		layout.Logger = opts.Logger
		pdfConverter = layout
	case BackendText:
		text := NewTextConverter(opts.MaxFileSize)
		text.Logger = opts.Logger
		pdfConverter = text
	default:
		return nil, fmt.Errorf("unknown PDF backend %q (valid: %s, %s)", opts.PDFBackend, BackendLayout, BackendText)
	}

	html := NewHTMLConverter(opts.MaxFileSize)
	markdown := NewMarkdownConverter(opts.MaxFileSize)

	return &Factory{
		byExt: map[string]Converter{
			".pdf":      pdfConverter,
			".html":     html,
			".htm":      html,
			".xlsx":     NewXLSXConverter(opts.MaxFileSize),
			".md":       markdown,
			".markdown": markdown,
			".txt":      markdown,
		},
	}, nil
}

// ForPath returns the converter registered for the file's extension
func (f *Factory) ForPath(path string) (Converter, error) {
	ext := strings.ToLower(filepath.Ext(path))
	c, ok := f.byExt[ext]
	if !ok {
		return nil, &ConversionError{Backend: "factory", Path: path, Err: fmt.Errorf("%w: %q", ErrUnsupportedType, ext)}
	}
	return c, nil
}

// Convert selects a converter for the path and runs it
func (f *Factory) Convert(ctx context.Context, path string) (string, error) {
	c, err := f.ForPath(path)
	if err != nil {
		return "", err
	}
	return c.Convert(ctx, path)
}

// Supports reports whether a converter is registered for the path's extension
func (f *Factory) Supports(path string) bool {
	_, ok := f.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extensions lists the registered extensions in sorted order
func (f *Factory) Extensions() []string {
	exts := make([]string, 0, len(f.byExt))
	for ext := range f.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// checkFile performs the size and type checks shared by every backend
func checkFile(path string, maxFileSize int64) (os.FileInfo, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	if maxFileSize > 0 && info.Size() > maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max: %d bytes)", ErrFileTooLarge, info.Size(), maxFileSize)
	}

	return info, nil
}
