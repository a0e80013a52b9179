package specsheet

// Options configures a pipeline
type Options struct {
	Normalize NormalizeOptions
}

// Pipeline composes the normalizer, segmenter and mapper. It holds no
// per-document state and is safe for concurrent use.
type Pipeline struct {
	normalizer *Normalizer
	segmenter  *Segmenter
	mapper     *Mapper
}

// NewPipeline creates a pipeline with the default rule tables
func NewPipeline(opts Options) *Pipeline {
	return &Pipeline{
		normalizer: NewNormalizer(opts.Normalize),
		segmenter:  NewSegmenter(),
		mapper:     NewMapper(),
	}
}

// Process runs every stage over raw converter output
func (p *Pipeline) Process(raw string) *Result {
	normalized := p.normalizer.Normalize(raw)
	pairs := p.segmenter.Segment(normalized)
	return &Result{
		Raw:        raw,
		Normalized: normalized,
		Pairs:      pairs,
		Record:     p.mapper.Map(pairs),
	}
}

// Normalizer returns the pipeline's normalizer
func (p *Pipeline) Normalizer() *Normalizer {
	return p.normalizer
}
