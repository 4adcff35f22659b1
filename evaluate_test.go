package sedeval

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

func testCorpus(t *testing.T, n int) *Corpus {
	t.Helper()
	pairs := make([]RecordingPair, n)
	for i := range pairs {
		base := float64(i % 4)
		pairs[i] = RecordingPair{
			RecordingID: fmt.Sprintf("ep%02d", i),
			Reference: EventList{Events: []Event{
				ev(base, base+0.5, "uh"),
				ev(base+2, base+2.4, "um"),
				ev(base+4, base+4.3, "uh"),
			}},
			Estimated: EventList{Events: []Event{
				ev(base+0.05, base+0.55, "uh"),
				ev(base+2.3, base+2.6, "um"),
				ev(base+6, base+6.2, "uh"),
			}},
		}
	}
	c, err := BuildCorpus(pairs)
	if err != nil {
		t.Fatalf("BuildCorpus() error = %v", err)
	}
	return c
}

func TestEvaluateCorpusParallelMatchesSequential(t *testing.T) {
	corpus := testCorpus(t, 11)
	ctx := context.Background()

	seq, err := EvaluateCorpus(ctx, corpus)
	if err != nil {
		t.Fatalf("sequential EvaluateCorpus() error = %v", err)
	}

	for _, workers := range []int{2, 3, 8, 32} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			var seen atomic.Int64
			par, err := EvaluateCorpus(ctx, corpus,
				WithWorkers(workers),
				WithRecordingHook(func(string) { seen.Add(1) }))
			if err != nil {
				t.Fatalf("EvaluateCorpus() error = %v", err)
			}
			if got := seen.Load(); got != int64(corpus.Len()) {
				t.Errorf("hook called %d times, want %d", got, corpus.Len())
			}

			want := seq.Report.Values()
			got := par.Report.Values()
			if len(got) != len(want) {
				t.Fatalf("got %d metrics, want %d", len(got), len(want))
			}
			for k, v := range want {
				if got[k] != v {
					t.Errorf("%s = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestEvaluateCorpusCounts(t *testing.T) {
	res, err := EvaluateCorpus(context.Background(), testCorpus(t, 4))
	if err != nil {
		t.Fatalf("EvaluateCorpus() error = %v", err)
	}
	if res.Recordings != 4 {
		t.Errorf("Recordings = %d, want 4", res.Recordings)
	}
	c := res.Event.Counts()
	// per recording: uh onset match, um onset off by 0.3, one spurious uh
	if c.Correct != 4 || c.Deleted != 8 || c.Inserted != 8 {
		t.Errorf("C/D/I = %d/%d/%d, want 4/8/8", c.Correct, c.Deleted, c.Inserted)
	}
}

func TestEvaluateCorpusCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		_, err := EvaluateCorpus(ctx, testCorpus(t, 6), WithWorkers(workers))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: error = %v, want context.Canceled", workers, err)
		}
	}
}

func TestEvaluateCorpusInvalidOptions(t *testing.T) {
	_, err := EvaluateCorpus(context.Background(), testCorpus(t, 2), WithTimeResolution(0))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}
