package specsheet

import (
	"regexp"
	"strings"
)

// Transform is a single named text cleaning step
type Transform struct {
	Name  string
	Apply func(string) string
}

// NormalizeOptions controls optional normalizer behaviour
type NormalizeOptions struct {
	// PreserveLines keeps line breaks intact and only collapses horizontal
	// whitespace, so the segmenter can see one label per line.
	PreserveLines bool
}

// Normalizer cleans raw converter output into canonical text by running an
// ordered list of transforms. Table folding must run before whitespace
// collapse, and entity decoding before digit repair.
type Normalizer struct {
	steps []Transform
}

var (
	malformedCommentRe = regexp.MustCompile(`<!,-.*?-->`)
	commentRe          = regexp.MustCompile(`<!-- .*? -->`)
	tagRe              = regexp.MustCompile(`<.*?>`)
	tableSeparatorRe   = regexp.MustCompile(`\|(?:[ \t]*:?-+:?[ \t]*\|)+`)
	pipeSpacingRe      = regexp.MustCompile(`[ \t]*\|[ \t]*`)
	twoCellRowRe       = regexp.MustCompile(`(?m)^[ \t]*\|[ \t]*([^|\n]+?)[ \t]*\|[ \t]*([^|\n]*?)[ \t]*\|[ \t]*$`)
	dashRunRe          = regexp.MustCompile(`[|\-]{2,}`)
	anyWhitespaceRe    = regexp.MustCompile(`\s+`)
	hWhitespaceRe      = regexp.MustCompile(`[ \t\f\v\r]+`)
	splitDigitsRe      = regexp.MustCompile(`(\d)\s+(\d)`)
	splitDigitsLineRe  = regexp.MustCompile(`(\d)[ \t]+(\d)`)
	boundedDigitsRe    = regexp.MustCompile(`<(\d+)\s+(\d+)`)
	boundedDigitsLnRe  = regexp.MustCompile(`<(\d+)[ \t]+(\d+)`)

	entityReplacer      = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")
	lineEndingsReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// NewNormalizer builds the default transform chain
func NewNormalizer(opts NormalizeOptions) *Normalizer {
	collapse := collapseWhitespace
	digits, bounded := splitDigitsRe, boundedDigitsRe
	if opts.PreserveLines {
		collapse = collapseLineWhitespace
		digits, bounded = splitDigitsLineRe, boundedDigitsLnRe
	}

	return &Normalizer{
		steps: []Transform{
			{Name: "normalize_line_endings", Apply: lineEndingsReplacer.Replace},
			{Name: "strip_markup", Apply: stripMarkup},
			{Name: "strip_table_separators", Apply: replaceAll(tableSeparatorRe, "")},
			{Name: "normalize_pipes", Apply: replaceAll(pipeSpacingRe, " | ")},
			{Name: "fold_two_cell_rows", Apply: replaceAll(twoCellRowRe, "${1}: ${2}")},
			{Name: "strip_dash_runs", Apply: replaceAll(dashRunRe, "")},
			{Name: "collapse_whitespace", Apply: collapse},
			{Name: "decode_entities", Apply: entityReplacer.Replace},
			{Name: "repair_comma_dash", Apply: func(s string) string { return strings.ReplaceAll(s, ",-", "-") }},
			{Name: "join_split_digits", Apply: untilStable(replaceAll(digits, "${1}${2}"))},
			{Name: "join_bounded_digits", Apply: replaceAll(bounded, "<${1}${2}")},
			{Name: "trim", Apply: strings.TrimSpace},
		},
	}
}

// Normalize runs every transform in order
func (n *Normalizer) Normalize(raw string) string {
	text := raw
	for _, step := range n.steps {
		text = step.Apply(text)
	}
	return text
}

// Steps returns the transform chain in execution order
func (n *Normalizer) Steps() []Transform {
	steps := make([]Transform, len(n.steps))
	copy(steps, n.steps)
	return steps
}

// StepNames returns the names of the transform chain in execution order
func (n *Normalizer) StepNames() []string {
	names := make([]string, 0, len(n.steps))
	for _, step := range n.steps {
		names = append(names, step.Name)
	}
	return names
}

func stripMarkup(s string) string {
	s = malformedCommentRe.ReplaceAllString(s, "")
	s = commentRe.ReplaceAllString(s, "")
	return tagRe.ReplaceAllString(s, "")
}

func collapseWhitespace(s string) string {
	return anyWhitespaceRe.ReplaceAllString(s, " ")
}

func collapseLineWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(hWhitespaceRe.ReplaceAllString(line, " "))
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func replaceAll(re *regexp.Regexp, repl string) func(string) string {
	return func(s string) string {
		return re.ReplaceAllString(s, repl)
	}
}

// untilStable reapplies fn until the text stops changing. Regex replacement
// scans left to right without overlap, so "1 2 3" needs two passes.
func untilStable(fn func(string) string) func(string) string {
	return func(s string) string {
		for {
			next := fn(s)
			if next == s {
				return next
			}
			s = next
		}
	}
}
