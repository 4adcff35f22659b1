package sedeval

import (
	"log/slog"
)

// MatchMethod selects how the event-based scorer pairs reference and
// estimated events of the same label.
type MatchMethod int

const (
	// MatchGreedy visits references in onset order and takes the nearest
	// onset candidate within the collar.
	MatchGreedy MatchMethod = iota

	// MatchOptimal finds a maximum-cardinality one-to-one matching over the
	// collar-feasible candidate pairs.
	MatchOptimal
)

func (m MatchMethod) String() string {
	switch m {
	case MatchGreedy:
		return "greedy"
	case MatchOptimal:
		return "optimal"
	default:
		return "unknown"
	}
}

// Option configures a scorer or a corpus evaluation.
type Option func(*config)

type config struct {
	timeResolution float64
	collar         float64
	offsetPct      float64
	evaluateOnset  bool
	evaluateOffset bool
	match          MatchMethod
	lenient        bool
	workers        int
	onRecording    func(recordingID string)
	logger         *slog.Logger
}

func defaultConfig() config {
	return config{
		timeResolution: 0.1,
		collar:         0.1,
		evaluateOnset:  true,
		evaluateOffset: true,
		match:          MatchGreedy,
		workers:        1,
		logger:         slog.Default(),
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithTimeResolution sets the segment length in seconds (default: 0.1).
func WithTimeResolution(seconds float64) Option {
	return func(c *config) {
		c.timeResolution = seconds
	}
}

// WithCollar sets the onset/offset matching tolerance in seconds (default: 0.1).
func WithCollar(seconds float64) Option {
	return func(c *config) {
		c.collar = seconds
	}
}

// WithOffsetPercentage widens the offset tolerance to pct times the reference
// event duration when that exceeds the collar (default: 0, collar only).
func WithOffsetPercentage(pct float64) Option {
	return func(c *config) {
		c.offsetPct = pct
	}
}

// WithOnsetCheck toggles the onset condition of event matching (default: true).
func WithOnsetCheck(enabled bool) Option {
	return func(c *config) {
		c.evaluateOnset = enabled
	}
}

// WithOffsetCheck toggles the offset condition of event matching (default: true).
func WithOffsetCheck(enabled bool) Option {
	return func(c *config) {
		c.evaluateOffset = enabled
	}
}

// WithMatchMethod selects the event matching method (default: MatchGreedy).
func WithMatchMethod(m MatchMethod) Option {
	return func(c *config) {
		c.match = m
	}
}

// WithLenientSubstitution counts time matches between events of different
// labels as substitutions instead of a deletion plus an insertion
// (default: false).
func WithLenientSubstitution(enabled bool) Option {
	return func(c *config) {
		c.lenient = enabled
	}
}

// WithWorkers sets the number of parallel workers used by EvaluateCorpus
// (default: 1).
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithRecordingHook registers fn to be called after each recording is scored
// by EvaluateCorpus. With more than one worker fn is called concurrently.
func WithRecordingHook(fn func(recordingID string)) Option {
	return func(c *config) {
		c.onRecording = fn
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
