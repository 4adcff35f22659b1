package sedeval

import (
	"fmt"
	"log/slog"
	"math"
)

// gridEpsilon absorbs float error when a timestamp divided by the time
// resolution lands next to an integer, e.g. 0.3/0.1 = 2.9999999999999996.
const gridEpsilon = 1e-9

// maxSegments bounds the segment grid of one recording. At the default
// resolution this is about 19 days of audio.
const maxSegments = 1 << 24

// SegmentLabelCounts is the per-label confusion tally over grid segments.
type SegmentLabelCounts struct {
	TP int
	FP int
	FN int
	TN int
}

// Nref returns the number of reference-active segments (TP+FN).
func (c SegmentLabelCounts) Nref() int { return c.TP + c.FN }

// Nsys returns the number of estimate-active segments (TP+FP).
func (c SegmentLabelCounts) Nsys() int { return c.TP + c.FP }

// SegmentCounts is the segment-based accumulator. Labels is indexed by
// vocabulary index.
type SegmentCounts struct {
	Labels        []SegmentLabelCounts
	Segments      int
	Nref          int
	Nsys          int
	Substitutions int
	Deletions     int
	Insertions    int
}

func newSegmentCounts(labels int) SegmentCounts {
	return SegmentCounts{Labels: make([]SegmentLabelCounts, labels)}
}

// Add adds o to c counter by counter. An empty c adopts the label layout of o.
// Adding counts built over vocabularies of different sizes panics.
func (c *SegmentCounts) Add(o SegmentCounts) {
	if len(c.Labels) == 0 && len(o.Labels) > 0 {
		c.Labels = make([]SegmentLabelCounts, len(o.Labels))
	}
	if len(o.Labels) > 0 && len(o.Labels) != len(c.Labels) {
		panic(fmt.Sprintf("sedeval: adding segment counts over %d labels to %d labels", len(o.Labels), len(c.Labels)))
	}
	for i, l := range o.Labels {
		c.Labels[i].TP += l.TP
		c.Labels[i].FP += l.FP
		c.Labels[i].FN += l.FN
		c.Labels[i].TN += l.TN
	}
	c.Segments += o.Segments
	c.Nref += o.Nref
	c.Nsys += o.Nsys
	c.Substitutions += o.Substitutions
	c.Deletions += o.Deletions
	c.Insertions += o.Insertions
}

// Totals sums the per-label tallies.
func (c SegmentCounts) Totals() SegmentLabelCounts {
	var t SegmentLabelCounts
	for _, l := range c.Labels {
		t.TP += l.TP
		t.FP += l.FP
		t.FN += l.FN
		t.TN += l.TN
	}
	return t
}

// SegmentScorer accumulates segment-based statistics across recordings.
// It is not safe for concurrent use; see Merge.
type SegmentScorer struct {
	vocab      *Vocabulary
	resolution float64
	counts     SegmentCounts
	logger     *slog.Logger
}

// NewSegmentScorer creates a scorer over vocab. Only WithTimeResolution and
// WithLogger affect it.
func NewSegmentScorer(vocab *Vocabulary, opts ...Option) (*SegmentScorer, error) {
	cfg := newConfig(opts)
	if vocab == nil {
		return nil, fmt.Errorf("%w: nil vocabulary", ErrInvalidConfig)
	}
	if !(cfg.timeResolution > 0) || math.IsInf(cfg.timeResolution, 0) {
		return nil, fmt.Errorf("%w: time resolution %v", ErrInvalidConfig, cfg.timeResolution)
	}
	return &SegmentScorer{
		vocab:      vocab,
		resolution: cfg.timeResolution,
		counts:     newSegmentCounts(vocab.Len()),
		logger:     cfg.logger,
	}, nil
}

// Resolution returns the segment length in seconds.
func (s *SegmentScorer) Resolution() float64 {
	return s.resolution
}

// Vocabulary returns the scorer's label vocabulary.
func (s *SegmentScorer) Vocabulary() *Vocabulary {
	return s.vocab
}

// Evaluate scores one recording and adds the result to the accumulator.
// Nothing is added when it returns an error.
func (s *SegmentScorer) Evaluate(ref, est EventList) error {
	c, err := s.Score(ref, est)
	if err != nil {
		return err
	}
	s.counts.Add(c)
	s.logger.Debug("segment-based evaluate",
		"recording", ref.RecordingID,
		"segments", c.Segments,
		"nref", c.Nref,
		"nsys", c.Nsys)
	return nil
}

// Score computes the counts of one recording without touching the
// accumulator.
func (s *SegmentScorer) Score(ref, est EventList) (SegmentCounts, error) {
	if err := validateList(s.vocab, ref); err != nil {
		return SegmentCounts{}, err
	}
	if err := validateList(s.vocab, est); err != nil {
		return SegmentCounts{}, err
	}

	c := newSegmentCounts(s.vocab.Len())
	n, err := segmentCount(math.Max(ref.MaxOffset(), est.MaxOffset()), s.resolution)
	if err != nil {
		return SegmentCounts{}, fmt.Errorf("recording %s: %w", ref.RecordingID, err)
	}
	if n == 0 {
		return c, nil
	}
	c.Segments = n

	refRoll := s.activity(ref, n)
	estRoll := s.activity(est, n)

	for i := 0; i < n; i++ {
		var nfp, nfn int
		for l := range c.Labels {
			r, e := refRoll[l][i], estRoll[l][i]
			switch {
			case r && e:
				c.Labels[l].TP++
			case r:
				c.Labels[l].FN++
				nfn++
			case e:
				c.Labels[l].FP++
				nfp++
			default:
				c.Labels[l].TN++
			}
			if r {
				c.Nref++
			}
			if e {
				c.Nsys++
			}
		}
		c.Substitutions += min(nfp, nfn)
		c.Deletions += max(0, nfn-nfp)
		c.Insertions += max(0, nfp-nfn)
	}

	return c, nil
}

// activity returns, per label index, which of the n segments the list covers.
func (s *SegmentScorer) activity(list EventList, n int) [][]bool {
	roll := make([][]bool, s.vocab.Len())
	for i := range roll {
		roll[i] = make([]bool, n)
	}
	for _, e := range list.Events {
		l, ok := s.vocab.Index(e.Label)
		if !ok {
			panic("sedeval: label passed validation but is not in vocabulary: " + e.Label)
		}
		first, end := segmentSpan(e, s.resolution)
		if end > n {
			end = n
		}
		for i := first; i < end; i++ {
			roll[l][i] = true
		}
	}
	return roll
}

// Counts returns a copy of the accumulated counts.
func (s *SegmentScorer) Counts() SegmentCounts {
	var c SegmentCounts
	c.Add(s.counts)
	if c.Labels == nil {
		c.Labels = make([]SegmentLabelCounts, s.vocab.Len())
	}
	return c
}

// Merge adds the counts of other into s. Both scorers must share a
// vocabulary and time resolution.
func (s *SegmentScorer) Merge(other *SegmentScorer) error {
	if !sameVocabulary(s.vocab, other.vocab) {
		return fmt.Errorf("%w: merging segment scorers with different vocabularies", ErrInvalidConfig)
	}
	if s.resolution != other.resolution {
		return fmt.Errorf("%w: merging segment scorers with resolutions %v and %v", ErrInvalidConfig, s.resolution, other.resolution)
	}
	s.counts.Add(other.counts)
	return nil
}

// Reset clears the accumulator.
func (s *SegmentScorer) Reset() {
	s.counts = newSegmentCounts(s.vocab.Len())
}

// snapGrid returns t divided by res, snapped to an integer when within
// gridEpsilon of one.
func snapGrid(t, res float64) float64 {
	q := t / res
	if r := math.Round(q); math.Abs(q-r) < gridEpsilon {
		return r
	}
	return q
}

// segmentCount returns the number of segments of length res needed to cover
// [0, end). Grids longer than maxSegments are rejected before any
// conversion to int.
func segmentCount(end, res float64) (int, error) {
	if end <= 0 {
		return 0, nil
	}
	q := math.Ceil(snapGrid(end, res))
	if q > maxSegments {
		return 0, fmt.Errorf("%w: offset %g s needs %g segments of %g s, limit %d",
			ErrMalformedEvent, end, q, res, maxSegments)
	}
	return int(q), nil
}

// segmentSpan returns the half-open range of segment indices an event
// overlaps by nonzero duration.
func segmentSpan(e Event, res float64) (first, end int) {
	first = int(math.Floor(snapGrid(e.Onset, res)))
	end = int(math.Ceil(snapGrid(e.Offset, res)))
	return first, end
}

func validateList(vocab *Vocabulary, list EventList) error {
	for i, e := range list.Events {
		if err := e.Validate(); err != nil {
			return &ParseError{Recording: list.RecordingID, Err: fmt.Errorf("event %d: %w", i, err)}
		}
	}
	return vocab.check(list)
}

func sameVocabulary(a, b *Vocabulary) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Len() != b.Len() {
		return false
	}
	for i := range a.labels {
		if a.labels[i] != b.labels[i] {
			return false
		}
	}
	return true
}
