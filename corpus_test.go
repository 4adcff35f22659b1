package sedeval

import (
	"errors"
	"slices"
	"testing"
)

func TestBuildCorpus(t *testing.T) {
	pairs := []RecordingPair{
		{
			RecordingID: "ep1",
			Reference:   EventList{Events: []Event{ev(2, 3, "um"), ev(0, 1, "uh")}},
			Estimated:   EventList{Events: []Event{ev(0, 1, "uh")}},
		},
		{
			RecordingID: "ep2",
			Reference:   EventList{Events: []Event{ev(0, 1, "laugh")}},
		},
	}

	c, err := BuildCorpus(pairs)
	if err != nil {
		t.Fatalf("BuildCorpus() error = %v", err)
	}
	if got := c.Vocabulary().Labels(); !slices.Equal(got, []string{"laugh", "uh", "um"}) {
		t.Errorf("vocabulary = %v", got)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	first := c.Pairs()[0]
	if first.Reference.RecordingID != "ep1" || first.Reference.Events[0] != ev(0, 1, "uh") {
		t.Errorf("reference not normalised: %+v", first.Reference)
	}
}

func TestBuildCorpusErrors(t *testing.T) {
	tests := []struct {
		name  string
		pairs []RecordingPair
		want  error
	}{
		{
			name: "estimate label missing from references",
			pairs: []RecordingPair{{
				RecordingID: "ep1",
				Reference:   EventList{Events: []Event{ev(0, 1, "uh")}},
				Estimated:   EventList{Events: []Event{ev(0, 1, "breath")}},
			}},
			want: ErrUnknownLabel,
		},
		{
			name: "malformed reference",
			pairs: []RecordingPair{{
				RecordingID: "ep1",
				Reference:   EventList{Events: []Event{ev(1, 0.5, "uh")}},
			}},
			want: ErrMalformedEvent,
		},
		{
			name: "duplicate recording",
			pairs: []RecordingPair{
				{RecordingID: "ep1", Reference: EventList{Events: []Event{ev(0, 1, "uh")}}},
				{RecordingID: "ep1", Reference: EventList{Events: []Event{ev(0, 1, "uh")}}},
			},
			want: ErrDuplicateRecording,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildCorpus(tt.pairs)
			if !errors.Is(err, tt.want) {
				t.Errorf("BuildCorpus() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildCorpusWithVocabulary(t *testing.T) {
	v := NewVocabulary("uh", "um")
	_, err := BuildCorpusWithVocabulary(v, []RecordingPair{{
		RecordingID: "ep1",
		Reference:   EventList{Events: []Event{ev(0, 1, "uh")}},
		Estimated:   EventList{Events: []Event{ev(0, 1, "um")}},
	}})
	if err != nil {
		t.Fatalf("BuildCorpusWithVocabulary() error = %v", err)
	}

	_, err = BuildCorpusWithVocabulary(v, []RecordingPair{{
		RecordingID: "ep1",
		Reference:   EventList{Events: []Event{ev(0, 1, "laugh")}},
	}})
	if !errors.Is(err, ErrUnknownLabel) {
		t.Errorf("error = %v, want ErrUnknownLabel", err)
	}
}
