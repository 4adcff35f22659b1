package sedeval

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// Event is a labeled time interval in seconds.
type Event struct {
	Onset  float64
	Offset float64
	Label  string
}

// Duration returns Offset - Onset.
func (e Event) Duration() float64 {
	return e.Offset - e.Onset
}

// Validate reports ErrMalformedEvent for non-finite timestamps, a negative
// onset, or an offset that does not come after the onset.
func (e Event) Validate() error {
	switch {
	case math.IsNaN(e.Onset) || math.IsInf(e.Onset, 0):
		return fmt.Errorf("%w: onset %v is not a finite number", ErrMalformedEvent, e.Onset)
	case math.IsNaN(e.Offset) || math.IsInf(e.Offset, 0):
		return fmt.Errorf("%w: offset %v is not a finite number", ErrMalformedEvent, e.Offset)
	case e.Onset < 0:
		return fmt.Errorf("%w: negative onset %v", ErrMalformedEvent, e.Onset)
	case e.Offset <= e.Onset:
		return fmt.Errorf("%w: offset %v <= onset %v", ErrMalformedEvent, e.Offset, e.Onset)
	case e.Label == "":
		return fmt.Errorf("%w: empty label", ErrMalformedEvent)
	}
	return nil
}

// EventList holds the events of one recording sorted by (onset, offset).
// Events may overlap, including events of the same label.
type EventList struct {
	RecordingID string
	Events      []Event
}

// NewEventList validates events and returns them as a sorted list. The
// input slice is not modified.
func NewEventList(recordingID string, events []Event) (EventList, error) {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	for i, e := range sorted {
		if err := e.Validate(); err != nil {
			return EventList{}, &ParseError{Recording: recordingID, Err: fmt.Errorf("event %d: %w", i, err)}
		}
	}
	sortEvents(sorted)
	return EventList{RecordingID: recordingID, Events: sorted}, nil
}

// sortEvents orders by onset then offset, keeping input order for ties.
func sortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Onset != events[j].Onset {
			return events[i].Onset < events[j].Onset
		}
		return events[i].Offset < events[j].Offset
	})
}

// Len returns the number of events.
func (l EventList) Len() int {
	return len(l.Events)
}

// MaxOffset returns the latest offset in the list, or 0 if it is empty.
func (l EventList) MaxOffset() float64 {
	var maxOffset float64
	for _, e := range l.Events {
		if e.Offset > maxOffset {
			maxOffset = e.Offset
		}
	}
	return maxOffset
}

// Labels returns the distinct labels in the list, sorted.
func (l EventList) Labels() []string {
	seen := make(map[string]struct{}, len(l.Events))
	var labels []string
	for _, e := range l.Events {
		if _, ok := seen[e.Label]; ok {
			continue
		}
		seen[e.Label] = struct{}{}
		labels = append(labels, e.Label)
	}
	slices.Sort(labels)
	return labels
}

// WithLabel returns the events carrying label, in list order.
func (l EventList) WithLabel(label string) []Event {
	var out []Event
	for _, e := range l.Events {
		if e.Label == label {
			out = append(out, e)
		}
	}
	return out
}

// Vocabulary is an immutable sorted set of event labels. Each label has a
// stable index used to address per-label counters.
type Vocabulary struct {
	labels []string
	index  map[string]int
}

// NewVocabulary builds a vocabulary from labels, dropping duplicates and
// empty strings.
func NewVocabulary(labels ...string) *Vocabulary {
	uniq := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != "" {
			uniq = append(uniq, l)
		}
	}
	slices.Sort(uniq)
	uniq = slices.Compact(uniq)

	index := make(map[string]int, len(uniq))
	for i, l := range uniq {
		index[l] = i
	}
	return &Vocabulary{labels: uniq, index: index}
}

// Len returns the number of labels.
func (v *Vocabulary) Len() int {
	return len(v.labels)
}

// Labels returns a copy of the labels in index order.
func (v *Vocabulary) Labels() []string {
	return slices.Clone(v.labels)
}

// Label returns the label at index i.
func (v *Vocabulary) Label(i int) string {
	return v.labels[i]
}

// Index returns the index of label and whether it is in the vocabulary.
func (v *Vocabulary) Index(label string) (int, bool) {
	i, ok := v.index[label]
	return i, ok
}

// Contains reports whether label is in the vocabulary.
func (v *Vocabulary) Contains(label string) bool {
	_, ok := v.index[label]
	return ok
}

// check returns ErrUnknownLabel for the first event whose label is not in v.
func (v *Vocabulary) check(list EventList) error {
	for _, e := range list.Events {
		if !v.Contains(e.Label) {
			return fmt.Errorf("%w: %q in recording %s", ErrUnknownLabel, e.Label, list.RecordingID)
		}
	}
	return nil
}
