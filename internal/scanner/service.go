// Package scanner orchestrates conversion, extraction and persistence of
// product specification documents.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/a3tai/pdf-spec-scanner/internal/convert"
	"github.com/a3tai/pdf-spec-scanner/internal/report"
	"github.com/a3tai/pdf-spec-scanner/internal/specsheet"
)

// Options configures a Service
type Options struct {
	PDFBackend     string
	MaxFileSize    int64
	Extensions     []string
	Workers        int
	PreserveLines  bool
	ValidateSchema bool
	// Echo receives the JSON console echo; nil disables it
	Echo          io.Writer
	Logger        *slog.Logger
	ReportOptions []report.Option
}

// DefaultExtensions are processed when no extensions are configured
var DefaultExtensions = []string{".pdf"}

// Service runs documents through the conversion and extraction pipeline
type Service struct {
	opts       Options
	factory    *convert.Factory
	pipeline   *specsheet.Pipeline
	schema     *specsheet.SchemaValidator
	writer     *report.Writer
	logger     *slog.Logger
	extensions map[string]struct{}
}

// NewService creates a service with all components
func NewService(opts Options) (*Service, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	factory, err := convert.NewFactory(convert.Options{
		PDFBackend:  opts.PDFBackend,
		MaxFileSize: opts.MaxFileSize,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create converter factory: %w", err)
	}

	var schema *specsheet.SchemaValidator
	if opts.ValidateSchema {
		schema, err = specsheet.NewSchemaValidator()
		if err != nil {
			return nil, fmt.Errorf("failed to create schema validator: %w", err)
		}
	}

	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}

	return &Service{
		opts:       opts,
		factory:    factory,
		pipeline:   specsheet.NewPipeline(specsheet.Options{Normalize: specsheet.NormalizeOptions{PreserveLines: opts.PreserveLines}}),
		schema:     schema,
		writer:     report.NewWriter(opts.Echo, opts.ReportOptions...),
		logger:     logger,
		extensions: normalizeExtensions(opts.Extensions),
	}, nil
}

// ExtractText runs the pipeline over already converted text
func (s *Service) ExtractText(raw string) *specsheet.Result {
	return s.pipeline.Process(raw)
}

// ExtractFile converts one document and maps it into a record without
// writing any files
func (s *Service) ExtractFile(ctx context.Context, path string) (*DocumentResult, error) {
	return s.run(ctx, path, false)
}

// ProcessFile converts, maps and persists one document
func (s *Service) ProcessFile(ctx context.Context, path string) (*DocumentResult, error) {
	return s.run(ctx, path, true)
}

func (s *Service) run(ctx context.Context, path string, persist bool) (*DocumentResult, error) {
	start := time.Now()
	result := &DocumentResult{RunID: uuid.NewString(), Path: path}
	logger := s.logger.With("run_id", result.RunID, "document", filepath.Base(path))

	finish := func(err error) (*DocumentResult, error) {
		result.DurationMS = time.Since(start).Milliseconds()
		if err != nil {
			result.Error = err.Error()
			msg := "document failed"
			if IsConversionError(err) {
				msg = "conversion failed"
			}
			logger.Error(msg, "error", err)
			return result, err
		}
		logger.Info("document processed", "pairs", len(result.Pairs), "duration_ms", result.DurationMS)
		return result, nil
	}

	converter, err := s.factory.ForPath(path)
	if err != nil {
		return finish(err)
	}
	result.Backend = converter.Name()
	logger.Debug("converting document", "backend", result.Backend)

	raw, err := converter.Convert(ctx, path)
	if err != nil {
		return finish(err)
	}
	result.raw = raw

	extracted := s.pipeline.Process(raw)
	result.Record = extracted.Record
	result.Pairs = extracted.Pairs

	if s.schema != nil {
		if err := s.schema.Validate(extracted.Record); err != nil {
			result.SchemaError = err.Error()
			logger.Warn("record does not match schema", "error", err)
		}
	}

	if persist {
		out, err := s.writer.Persist(report.Document{
			SourcePath: path,
			Raw:        raw,
			Record:     extracted.Record,
		})
		if err != nil {
			return finish(fmt.Errorf("persist %s: %w", filepath.Base(path), err))
		}
		result.Output = out
	}

	return finish(nil)
}

// ProcessPath processes a single document or every document of a directory.
// A failing document is recorded and the remaining documents still run; only
// cancellation or an unreadable input path aborts the batch.
func (s *Service) ProcessPath(ctx context.Context, path string) (*BatchResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", path, err)
	}

	paths := []string{path}
	if info.IsDir() {
		found, err := s.FindDocuments(SearchRequest{Directory: path})
		if err != nil {
			return nil, err
		}
		paths = paths[:0]
		for _, f := range found.Files {
			paths = append(paths, f.Path)
		}
		s.logger.Info("processing directory", "directory", found.Directory, "documents", len(paths), "workers", s.opts.Workers)
	}

	batch := &BatchResult{Documents: make([]DocumentResult, len(paths))}

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(s.opts.Workers)

	for i, p := range paths {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			doc, err := s.ProcessFile(ctx, p)

			mu.Lock()
			defer mu.Unlock()
			batch.Documents[i] = *doc
			if err != nil {
				batch.Failed++
			} else {
				batch.Succeeded++
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		started := batch.Documents[:0]
		for _, doc := range batch.Documents {
			if doc.RunID != "" {
				started = append(started, doc)
			}
		}
		batch.Documents = started
		return batch, fmt.Errorf("batch interrupted: %w", err)
	}
	return batch, nil
}

// IsConversionError reports whether err is a document conversion failure
func IsConversionError(err error) bool {
	var convErr *convert.ConversionError
	return errors.As(err, &convErr)
}

// Extensions returns the configured document extensions
func (s *Service) Extensions() []string {
	exts := make([]string, 0, len(s.extensions))
	for _, ext := range s.factory.Extensions() {
		if _, ok := s.extensions[ext]; ok {
			exts = append(exts, ext)
		}
	}
	return exts
}

// Factory returns the converter factory
func (s *Service) Factory() *convert.Factory {
	return s.factory
}
