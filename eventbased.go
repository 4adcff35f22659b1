package sedeval

import (
	"fmt"
	"log/slog"
	"math"
)

// EventLabelCounts is the per-label tally of event matching.
type EventLabelCounts struct {
	Nref     int
	Nsys     int
	Correct  int
	Deleted  int
	Inserted int
}

// EventCounts is the event-based accumulator. Labels is indexed by
// vocabulary index and always holds strict within-label counts. The global
// counters equal the per-label sums unless lenient substitution moved
// deletion/insertion pairs into Substituted.
type EventCounts struct {
	Labels      []EventLabelCounts
	Nref        int
	Nsys        int
	Correct     int
	Deleted     int
	Inserted    int
	Substituted int
}

func newEventCounts(labels int) EventCounts {
	return EventCounts{Labels: make([]EventLabelCounts, labels)}
}

// Add adds o to c counter by counter. An empty c adopts the label layout of o.
// Adding counts built over vocabularies of different sizes panics.
func (c *EventCounts) Add(o EventCounts) {
	if len(c.Labels) == 0 && len(o.Labels) > 0 {
		c.Labels = make([]EventLabelCounts, len(o.Labels))
	}
	if len(o.Labels) > 0 && len(o.Labels) != len(c.Labels) {
		panic(fmt.Sprintf("sedeval: adding event counts over %d labels to %d labels", len(o.Labels), len(c.Labels)))
	}
	for i, l := range o.Labels {
		c.Labels[i].Nref += l.Nref
		c.Labels[i].Nsys += l.Nsys
		c.Labels[i].Correct += l.Correct
		c.Labels[i].Deleted += l.Deleted
		c.Labels[i].Inserted += l.Inserted
	}
	c.Nref += o.Nref
	c.Nsys += o.Nsys
	c.Correct += o.Correct
	c.Deleted += o.Deleted
	c.Inserted += o.Inserted
	c.Substituted += o.Substituted
}

// EventScorer accumulates event-based statistics across recordings.
// It is not safe for concurrent use; see Merge.
type EventScorer struct {
	vocab   *Vocabulary
	rule    matchRule
	method  MatchMethod
	lenient bool
	counts  EventCounts
	logger  *slog.Logger
}

// NewEventScorer creates a scorer over vocab. WithCollar,
// WithOffsetPercentage, WithOnsetCheck, WithOffsetCheck, WithMatchMethod,
// WithLenientSubstitution and WithLogger affect it.
func NewEventScorer(vocab *Vocabulary, opts ...Option) (*EventScorer, error) {
	cfg := newConfig(opts)
	if vocab == nil {
		return nil, fmt.Errorf("%w: nil vocabulary", ErrInvalidConfig)
	}
	if cfg.collar < 0 || math.IsNaN(cfg.collar) || math.IsInf(cfg.collar, 0) {
		return nil, fmt.Errorf("%w: collar %v", ErrInvalidConfig, cfg.collar)
	}
	if cfg.offsetPct < 0 || math.IsNaN(cfg.offsetPct) || math.IsInf(cfg.offsetPct, 0) {
		return nil, fmt.Errorf("%w: offset percentage %v", ErrInvalidConfig, cfg.offsetPct)
	}
	if cfg.match != MatchGreedy && cfg.match != MatchOptimal {
		return nil, fmt.Errorf("%w: match method %d", ErrInvalidConfig, cfg.match)
	}
	return &EventScorer{
		vocab:   vocab,
		rule:    newMatchRule(cfg),
		method:  cfg.match,
		lenient: cfg.lenient,
		counts:  newEventCounts(vocab.Len()),
		logger:  cfg.logger,
	}, nil
}

// Collar returns the onset/offset tolerance in seconds.
func (s *EventScorer) Collar() float64 {
	return s.rule.collar
}

// OffsetPercentage returns the proportional offset tolerance.
func (s *EventScorer) OffsetPercentage() float64 {
	return s.rule.offsetPct
}

// Vocabulary returns the scorer's label vocabulary.
func (s *EventScorer) Vocabulary() *Vocabulary {
	return s.vocab
}

// Evaluate scores one recording and adds the result to the accumulator.
// Nothing is added when it returns an error.
func (s *EventScorer) Evaluate(ref, est EventList) error {
	c, err := s.Score(ref, est)
	if err != nil {
		return err
	}
	s.counts.Add(c)
	s.logger.Debug("event-based evaluate",
		"recording", ref.RecordingID,
		"correct", c.Correct,
		"deleted", c.Deleted,
		"inserted", c.Inserted,
		"substituted", c.Substituted)
	return nil
}

// Score computes the counts of one recording without touching the
// accumulator.
func (s *EventScorer) Score(ref, est EventList) (EventCounts, error) {
	if err := validateList(s.vocab, ref); err != nil {
		return EventCounts{}, err
	}
	if err := validateList(s.vocab, est); err != nil {
		return EventCounts{}, err
	}

	c := newEventCounts(s.vocab.Len())
	var leftRef, leftEst []Event

	for li := range c.Labels {
		label := s.vocab.Label(li)
		refs := ref.WithLabel(label)
		ests := est.WithLabel(label)
		sortEvents(refs)
		sortEvents(ests)

		assigned := s.match(refs, ests)
		checkAssignment(assigned, len(ests))

		lc := EventLabelCounts{Nref: len(refs), Nsys: len(ests)}
		used := make([]bool, len(ests))
		for i, j := range assigned {
			if j < 0 {
				lc.Deleted++
				leftRef = append(leftRef, refs[i])
				continue
			}
			used[j] = true
			lc.Correct++
		}
		for j, u := range used {
			if !u {
				lc.Inserted++
				leftEst = append(leftEst, ests[j])
			}
		}
		c.Labels[li] = lc

		c.Nref += lc.Nref
		c.Nsys += lc.Nsys
		c.Correct += lc.Correct
		c.Deleted += lc.Deleted
		c.Inserted += lc.Inserted
	}

	if s.lenient {
		sub := s.substitutions(leftRef, leftEst)
		c.Substituted = sub
		c.Deleted -= sub
		c.Inserted -= sub
	}

	return c, nil
}

func (s *EventScorer) match(refs, ests []Event) []int {
	if s.method == MatchOptimal {
		return optimalMatch(s.rule, refs, ests)
	}
	return greedyMatch(s.rule, refs, ests)
}

// substitutions pairs leftover references with leftover estimates of a
// different label that satisfy the collar, using the same preference as
// within-label matching.
func (s *EventScorer) substitutions(refs, ests []Event) int {
	sortEvents(refs)
	sortEvents(ests)
	used := make([]bool, len(ests))
	n := 0
	for _, r := range refs {
		best := -1
		for j, e := range ests {
			if used[j] || e.Label == r.Label || !s.rule.feasible(r, e) {
				continue
			}
			if best < 0 || s.rule.prefer(r, e, ests[best]) {
				best = j
			}
		}
		if best >= 0 {
			used[best] = true
			n++
		}
	}
	return n
}

// Counts returns a copy of the accumulated counts.
func (s *EventScorer) Counts() EventCounts {
	var c EventCounts
	c.Add(s.counts)
	if c.Labels == nil {
		c.Labels = make([]EventLabelCounts, s.vocab.Len())
	}
	return c
}

// Merge adds the counts of other into s. Both scorers must share a
// vocabulary and matching configuration.
func (s *EventScorer) Merge(other *EventScorer) error {
	if !sameVocabulary(s.vocab, other.vocab) {
		return fmt.Errorf("%w: merging event scorers with different vocabularies", ErrInvalidConfig)
	}
	if s.rule != other.rule || s.method != other.method || s.lenient != other.lenient {
		return fmt.Errorf("%w: merging event scorers with different matching settings", ErrInvalidConfig)
	}
	s.counts.Add(other.counts)
	return nil
}

// Reset clears the accumulator.
func (s *EventScorer) Reset() {
	s.counts = newEventCounts(s.vocab.Len())
}
