package sedeval

import (
	"math"
	"testing"
)

func ev(onset, offset float64, label string) Event {
	return Event{Onset: onset, Offset: offset, Label: label}
}

func mustList(t *testing.T, id string, events ...Event) EventList {
	t.Helper()
	l, err := NewEventList(id, events)
	if err != nil {
		t.Fatalf("NewEventList(%s) error = %v", id, err)
	}
	return l
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
