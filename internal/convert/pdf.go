package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const pageSeparator = "\n\n"

// Preflight checks a PDF with pdfcpu before text extraction and returns its
// page count. Encrypted documents are refused.
func Preflight(path string, maxFileSize int64) (int, error) {
	info, err := checkFile(path, maxFileSize)
	if err != nil {
		return 0, err
	}
	if info.Size() == 0 {
		return 0, fmt.Errorf("file is empty: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("failed to ensure page count: %w", err)
	}

	if ctx.Encrypt != nil {
		return 0, ErrEncrypted
	}

	return ctx.PageCount, nil
}

// pageFunc renders one page; blank output skips the page
type pageFunc func(page pdf.Page) (string, error)

// readPages runs the pre-flight, opens the PDF with ledongthuc/pdf and
// renders every page, honouring cancellation between pages
func readPages(ctx context.Context, backend, path string, maxFileSize int64, logger *slog.Logger,
	render pageFunc,
) (string, error) {
	fail := func(err error) (string, error) {
		return "", &ConversionError{Backend: backend, Path: path, Err: err}
	}

	if _, err := Preflight(path, maxFileSize); err != nil {
		return fail(err)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return fail(fmt.Errorf("failed to open PDF: %w", err))
	}
	defer f.Close()

	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("backend", backend, "path", path)

	pages, err := collectPages(ctx, reader.NumPage(), func(pageNum int) (string, error) {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			return "", nil
		}
		return render(page)
	}, logger)
	if err != nil {
		return fail(err)
	}
	if len(pages) == 0 {
		return fail(ErrNoText)
	}

	return strings.Join(pages, pageSeparator), nil
}

// collectPages renders pages 1..count in order. A page that fails or panics
// is logged and skipped so the rest of the document is still read.
func collectPages(ctx context.Context, count int, render func(pageNum int) (string, error),
	logger *slog.Logger,
) ([]string, error) {
	pages := make([]string, 0, count)
	skipped := 0
	for pageNum := 1; pageNum <= count; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := renderSafely(render, pageNum)
		if err != nil {
			skipped++
			logger.Warn("page skipped", "page", pageNum, "pages", count, "error", err)
			continue
		}
		if strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}

	if skipped > 0 {
		logger.Warn("document partially read", "skipped_pages", skipped, "pages", count)
	}
	return pages, nil
}

// renderSafely recovers from panics raised by malformed content streams
func renderSafely(render func(pageNum int) (string, error), pageNum int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page render panic: %v", r)
		}
	}()
	return render(pageNum)
}

// TextConverter extracts the plain text stream of every page
type TextConverter struct {
	maxFileSize int64
	// Logger receives per-page warnings; nil uses slog.Default
	Logger *slog.Logger
}

// NewTextConverter creates a plain text PDF converter
func NewTextConverter(maxFileSize int64) *TextConverter {
	return &TextConverter{maxFileSize: maxFileSize}
}

// Name returns the backend name
func (c *TextConverter) Name() string { return BackendText }

// Convert extracts plain text, pages separated by a blank line
func (c *TextConverter) Convert(ctx context.Context, path string) (string, error) {
	return readPages(ctx, BackendText, path, c.maxFileSize, c.Logger, func(page pdf.Page) (string, error) {
		return page.GetPlainText(nil)
	})
}

// LayoutConverter rebuilds table rows from glyph positions
type LayoutConverter struct {
	maxFileSize int64
	layout      LayoutOptions
	// Logger receives per-page warnings; nil uses slog.Default
	Logger *slog.Logger
}

// NewLayoutConverter creates a layout-aware PDF converter
func NewLayoutConverter(maxFileSize int64, opts LayoutOptions) *LayoutConverter {
	return &LayoutConverter{maxFileSize: maxFileSize, layout: opts}
}

// Name returns the backend name
func (c *LayoutConverter) Name() string { return BackendLayout }

// Convert renders each page as lines, emitting multi-cell rows as markdown
// table rows
func (c *LayoutConverter) Convert(ctx context.Context, path string) (string, error) {
	return readPages(ctx, BackendLayout, path, c.maxFileSize, c.Logger, func(page pdf.Page) (string, error) {
		return RenderRows(GroupRows(page.Content().Text, c.layout)), nil
	})
}
