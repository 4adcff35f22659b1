package sedeval

import (
	"fmt"
)

// RecordingPair matches the reference and estimated events of one recording.
type RecordingPair struct {
	RecordingID string
	Reference   EventList
	Estimated   EventList
}

// Corpus is a validated set of recording pairs sharing one vocabulary.
type Corpus struct {
	vocab *Vocabulary
	pairs []RecordingPair
}

// BuildCorpus validates pairs and fixes the vocabulary to the union of the
// labels seen on the reference side. An estimated event whose label never
// occurs in any reference yields ErrUnknownLabel.
func BuildCorpus(pairs []RecordingPair) (*Corpus, error) {
	var labels []string
	for _, p := range pairs {
		for _, e := range p.Reference.Events {
			labels = append(labels, e.Label)
		}
	}
	return BuildCorpusWithVocabulary(NewVocabulary(labels...), pairs)
}

// BuildCorpusWithVocabulary validates pairs against an explicit vocabulary.
func BuildCorpusWithVocabulary(vocab *Vocabulary, pairs []RecordingPair) (*Corpus, error) {
	seen := make(map[string]struct{}, len(pairs))
	out := make([]RecordingPair, 0, len(pairs))

	for _, p := range pairs {
		if _, dup := seen[p.RecordingID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRecording, p.RecordingID)
		}
		seen[p.RecordingID] = struct{}{}

		ref, err := NewEventList(p.RecordingID, p.Reference.Events)
		if err != nil {
			return nil, fmt.Errorf("reference: %w", err)
		}
		est, err := NewEventList(p.RecordingID, p.Estimated.Events)
		if err != nil {
			return nil, fmt.Errorf("estimate: %w", err)
		}
		if err := vocab.check(ref); err != nil {
			return nil, fmt.Errorf("reference: %w", err)
		}
		if err := vocab.check(est); err != nil {
			return nil, fmt.Errorf("estimate: %w", err)
		}

		out = append(out, RecordingPair{
			RecordingID: p.RecordingID,
			Reference:   ref,
			Estimated:   est,
		})
	}

	return &Corpus{vocab: vocab, pairs: out}, nil
}

// Vocabulary returns the label vocabulary fixed at construction.
func (c *Corpus) Vocabulary() *Vocabulary {
	return c.vocab
}

// Pairs returns the recording pairs in construction order.
func (c *Corpus) Pairs() []RecordingPair {
	return c.pairs
}

// Len returns the number of recordings.
func (c *Corpus) Len() int {
	return len(c.pairs)
}
