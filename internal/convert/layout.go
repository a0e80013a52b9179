package convert

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// LayoutOptions tunes how glyphs are grouped into rows and cells
type LayoutOptions struct {
	// RowTolerance is the max Y distance for glyphs on the same row
	RowTolerance float64
	// CellGapFactor times the font size is the horizontal gap that starts a new cell
	CellGapFactor float64
	// WordGapFactor times the font size is the horizontal gap that inserts a space
	WordGapFactor float64
}

// DefaultLayoutOptions returns tolerances that suit typical spec sheets
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		RowTolerance:  2.0,
		CellGapFactor: 1.5,
		WordGapFactor: 0.2,
	}
}

const defaultFontSize = 10.0

// Row is one visual line of a page split into cells
type Row struct {
	Y     float64
	Cells []string
}

type rowBucket struct {
	yMin, yMax float64
	glyphs     []pdf.Text
}

// GroupRows buckets glyphs by Y, orders rows top to bottom and splits each
// row into cells on wide horizontal gaps
func GroupRows(texts []pdf.Text, opts LayoutOptions) []Row {
	var buckets []rowBucket
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		placed := false
		for i := range buckets {
			b := &buckets[i]
			if t.Y >= b.yMin-opts.RowTolerance && t.Y <= b.yMax+opts.RowTolerance {
				b.glyphs = append(b.glyphs, t)
				b.yMin = math.Min(b.yMin, t.Y)
				b.yMax = math.Max(b.yMax, t.Y)
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, rowBucket{yMin: t.Y, yMax: t.Y, glyphs: []pdf.Text{t}})
		}
	}

	// Higher Y is higher on the page
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].yMax > buckets[j].yMax
	})

	rows := make([]Row, 0, len(buckets))
	for _, b := range buckets {
		if cells := splitCells(b.glyphs, opts); len(cells) > 0 {
			rows = append(rows, Row{Y: b.yMax, Cells: cells})
		}
	}
	return rows
}

func splitCells(glyphs []pdf.Text, opts LayoutOptions) []string {
	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].X < glyphs[j].X
	})

	var cells []string
	var cell strings.Builder
	prevEnd := 0.0
	for i, g := range glyphs {
		size := g.FontSize
		if size <= 0 {
			size = defaultFontSize
		}
		if i > 0 {
			gap := g.X - prevEnd
			switch {
			case gap > size*opts.CellGapFactor:
				cells = append(cells, strings.TrimSpace(cell.String()))
				cell.Reset()
			case gap > size*opts.WordGapFactor:
				cell.WriteByte(' ')
			}
		}
		cell.WriteString(g.S)
		prevEnd = math.Max(prevEnd, g.X+g.W)
	}
	cells = append(cells, strings.TrimSpace(cell.String()))

	kept := cells[:0]
	for _, c := range cells {
		if c != "" {
			kept = append(kept, c)
		}
	}
	return kept
}

// RenderRows writes single-cell rows as plain lines and multi-cell rows as
// markdown table rows
func RenderRows(rows []Row) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		if len(r.Cells) == 1 {
			lines = append(lines, r.Cells[0])
			continue
		}
		lines = append(lines, "| "+strings.Join(r.Cells, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}
