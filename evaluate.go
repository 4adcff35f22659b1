package sedeval

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/panjf2000/ants/v2"
)

// Result is the outcome of scoring a whole corpus.
type Result struct {
	Segment    *SegmentScorer
	Event      *EventScorer
	Report     Report
	Recordings int
}

// EvaluateCorpus streams every recording pair of corpus through a segment
// scorer and an event scorer and builds the final report. With WithWorkers(n)
// and n > 1 the pairs are split into contiguous shards, each scored by a
// private pair of scorers on a worker pool, and the shards are merged in
// order.
func EvaluateCorpus(ctx context.Context, corpus *Corpus, opts ...Option) (*Result, error) {
	cfg := newConfig(opts)
	seg, ev, err := newScorers(corpus.Vocabulary(), opts)
	if err != nil {
		return nil, err
	}

	pairs := corpus.Pairs()
	shards := min(cfg.workers, len(pairs))
	if shards <= 1 {
		err = evaluatePairs(ctx, seg, ev, pairs, cfg.onRecording)
	} else {
		err = evaluateParallel(ctx, seg, ev, pairs, shards, opts, cfg.onRecording)
	}
	if err != nil {
		return nil, err
	}

	cfg.logger.Info("corpus evaluated",
		"recordings", len(pairs),
		"labels", corpus.Vocabulary().Len(),
		"workers", max(shards, 1))

	return &Result{
		Segment:    seg,
		Event:      ev,
		Report:     BuildReport(seg, ev),
		Recordings: len(pairs),
	}, nil
}

func newScorers(vocab *Vocabulary, opts []Option) (*SegmentScorer, *EventScorer, error) {
	seg, err := NewSegmentScorer(vocab, opts...)
	if err != nil {
		return nil, nil, err
	}
	ev, err := NewEventScorer(vocab, opts...)
	if err != nil {
		return nil, nil, err
	}
	return seg, ev, nil
}

func evaluatePairs(ctx context.Context, seg *SegmentScorer, ev *EventScorer, pairs []RecordingPair, hook func(string)) error {
	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := seg.Evaluate(p.Reference, p.Estimated); err != nil {
			return fmt.Errorf("segment-based %s: %w", p.RecordingID, err)
		}
		if err := ev.Evaluate(p.Reference, p.Estimated); err != nil {
			return fmt.Errorf("event-based %s: %w", p.RecordingID, err)
		}
		if hook != nil {
			hook(p.RecordingID)
		}
	}
	return nil
}

type shardResult struct {
	seg *SegmentScorer
	ev  *EventScorer
}

func evaluateParallel(ctx context.Context, seg *SegmentScorer, ev *EventScorer, pairs []RecordingPair, shards int, opts []Option, hook func(string)) error {
	pool, err := ants.NewPool(shards)
	if err != nil {
		return fmt.Errorf("create evaluation pool: %w", err)
	}
	defer pool.Release()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		errs    *multierror.Error
		results = make([]shardResult, shards)
	)
	addErr := func(err error) {
		mu.Lock()
		errs = multierror.Append(errs, err)
		mu.Unlock()
	}

	for i := 0; i < shards; i++ {
		if err := ctx.Err(); err != nil {
			addErr(err)
			break
		}
		lo := i * len(pairs) / shards
		hi := (i + 1) * len(pairs) / shards
		idx := i

		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			s, e, err := newScorers(seg.Vocabulary(), opts)
			if err != nil {
				addErr(err)
				return
			}
			if err := evaluatePairs(ctx, s, e, pairs[lo:hi], hook); err != nil {
				addErr(fmt.Errorf("shard %d: %w", idx, err))
				return
			}
			results[idx] = shardResult{seg: s, ev: e}
		})
		if err != nil {
			wg.Done()
			addErr(fmt.Errorf("submit shard %d: %w", idx, err))
		}
	}
	wg.Wait()

	if err := errs.ErrorOrNil(); err != nil {
		return err
	}

	for _, r := range results {
		if err := seg.Merge(r.seg); err != nil {
			return err
		}
		if err := ev.Merge(r.ev); err != nil {
			return err
		}
	}
	return nil
}
