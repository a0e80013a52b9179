package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXConverter renders spreadsheet spec sheets as markdown tables
type XLSXConverter struct {
	maxFileSize int64
}

// NewXLSXConverter creates a spreadsheet converter
func NewXLSXConverter(maxFileSize int64) *XLSXConverter {
	return &XLSXConverter{maxFileSize: maxFileSize}
}

// Name returns the backend name
func (c *XLSXConverter) Name() string { return BackendXLSX }

// Convert writes every sheet as "## <sheet>" followed by one table row per
// non-empty spreadsheet row
func (c *XLSXConverter) Convert(ctx context.Context, path string) (string, error) {
	fail := func(err error) (string, error) {
		return "", &ConversionError{Backend: BackendXLSX, Path: path, Err: err}
	}

	if _, err := checkFile(path, c.maxFileSize); err != nil {
		return fail(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return fail(fmt.Errorf("open xlsx: %w", err))
	}
	defer f.Close()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			return fail(fmt.Errorf("get rows of %s: %w", sheet, err))
		}

		lines := renderSheetRows(rows)
		if len(lines) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## %s\n\n", sheet)
		for _, line := range lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if b.Len() == 0 {
		return fail(ErrNoText)
	}
	return b.String(), nil
}

func renderSheetRows(rows [][]string) []string {
	var lines []string
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			if cell = strings.TrimSpace(strings.ReplaceAll(cell, "\n", " ")); cell != "" {
				cells = append(cells, cell)
			}
		}
		switch len(cells) {
		case 0:
		case 1:
			lines = append(lines, cells[0])
		default:
			lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
		}
	}
	return lines
}
