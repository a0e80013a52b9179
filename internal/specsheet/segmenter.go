package specsheet

import (
	"regexp"
	"strings"
)

// ProductNameKey is the label of the pair synthesized from the document header
const ProductNameKey = "Product Name"

var (
	productHeaderRe = regexp.MustCompile(`## Organic ([^\n]+)`)
	edgeNoiseRe     = regexp.MustCompile(`^[|\s-]+|[|\s-]+$`)
)

// SplitPart extracts one packaging variant out of a combined value
type SplitPart struct {
	Pattern *regexp.Regexp
	Value   string
}

// PackagingSplit describes how a combined packaging value is divided into
// its kilo-pack and bulk-pack variants. The split only happens when the
// value contains every required phrase.
type PackagingSplit struct {
	Label    string
	Requires []string
	Kilo     SplitPart
	Bulk     SplitPart
}

// Segmenter groups normalized text into an ordered sequence of pairs
type Segmenter struct {
	splits []PackagingSplit
}

// NewSegmenter creates a segmenter with the default packaging splits
func NewSegmenter() *Segmenter {
	return NewSegmenterWithSplits(DefaultPackagingSplits())
}

// NewSegmenterWithSplits creates a segmenter with custom packaging splits
func NewSegmenterWithSplits(splits []PackagingSplit) *Segmenter {
	return &Segmenter{splits: splits}
}

// Segment walks the text line by line and returns pairs in discovery order.
// The header product name comes first, synthesized packaging pairs last.
func (s *Segmenter) Segment(normalized string) []Pair {
	var pairs []Pair

	if m := productHeaderRe.FindStringSubmatch(normalized); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			pairs = append(pairs, Pair{Key: ProductNameKey, Value: name})
		}
	}

	var st lineState
	for _, line := range strings.Split(normalized, "\n") {
		pairs = st.step(strings.TrimSpace(line), pairs)
	}
	pairs = st.flush(pairs)

	pairs = append(pairs, s.splitPackaging(pairs)...)
	return cleanPairs(pairs)
}

// lineState is the accumulator of the line walk. It is Idle when key is
// empty and AccumulatingValue(key, parts) otherwise.
type lineState struct {
	key   string
	parts []string
	// section is the latest "## " heading; not attached to pairs yet
	section string
}

func (st *lineState) step(line string, out []Pair) []Pair {
	switch {
	case line == "":
		return out
	case strings.HasPrefix(line, "## "):
		st.section = strings.TrimSpace(strings.ReplaceAll(line, "#", ""))
		return out
	case strings.Contains(line, ":"):
		out = st.flush(out)
		key, value, _ := strings.Cut(line, ":")
		st.key = strings.TrimSpace(key)
		if st.key != "" {
			st.parts = []string{strings.TrimSpace(value)}
		}
		return out
	case st.key != "" && !strings.HasSuffix(line, ":"):
		st.parts = append(st.parts, line)
	}
	return out
}

// flush emits the open pair, if any, and returns to Idle
func (st *lineState) flush(out []Pair) []Pair {
	if st.key != "" && len(st.parts) > 0 {
		out = append(out, Pair{Key: st.key, Value: strings.Join(st.parts, " ")})
	}
	st.key = ""
	st.parts = nil
	return out
}

// splitPackaging synthesizes Kilo/Bulk pairs from combined packaging values.
// The originals are kept; synthesized keys are unique, last write wins.
func (s *Segmenter) splitPackaging(pairs []Pair) []Pair {
	var out []Pair
	index := make(map[string]int)
	put := func(key, value string) {
		if i, ok := index[key]; ok {
			out[i].Value = value
			return
		}
		index[key] = len(out)
		out = append(out, Pair{Key: key, Value: value})
	}

	for _, p := range pairs {
		for _, split := range s.splits {
			if p.Key != split.Label || !containsAll(p.Value, split.Requires) {
				continue
			}
			if split.Kilo.Pattern.MatchString(p.Value) {
				put("Kilo "+split.Label, split.Kilo.Value)
			}
			if split.Bulk.Pattern.MatchString(p.Value) {
				put("Bulk "+split.Label, split.Bulk.Value)
			}
			break
		}
	}
	return out
}

func cleanPairs(pairs []Pair) []Pair {
	cleaned := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		key := strings.TrimSpace(p.Key)
		value := strings.TrimSpace(p.Value)
		if key == "" || value == "" || key == value {
			continue
		}

		key = edgeNoiseRe.ReplaceAllString(key, "")
		value = edgeNoiseRe.ReplaceAllString(value, "")

		if key == ProductNameKey && !strings.HasPrefix(value, `"`) {
			value = `"` + value + `"`
		}

		if key != "" && value != "" {
			cleaned = append(cleaned, Pair{Key: key, Value: value})
		}
	}
	return cleaned
}

func containsAll(s string, phrases []string) bool {
	for _, phrase := range phrases {
		if !strings.Contains(s, phrase) {
			return false
		}
	}
	return true
}
