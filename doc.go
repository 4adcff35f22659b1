// Package sedeval computes sound event detection metrics for labeled time
// intervals: segment-based scores on a fixed time grid and event-based scores
// with collar-tolerant one-to-one matching.
//
// # Quick Start
//
//	corpus, err := sedeval.BuildCorpus(pairs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := sedeval.EvaluateCorpus(ctx, corpus, sedeval.WithCollar(0.1))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("event F1: %.2f\n", res.Report.Event.Overall.F1)
//
// # Accumulators
//
// SegmentScorer and EventScorer accumulate counts across calls to Evaluate,
// one call per recording. They are not safe for concurrent use. To score
// recordings in parallel give each worker its own scorer and combine them with
// Merge; counter addition is associative and commutative, so the result does
// not depend on worker count or merge order. EvaluateCorpus does this with
// WithWorkers.
//
// # Event List Files
//
// ReadEventList parses one event per line as onset, offset and label separated
// by tabs, commas or whitespace, with no header line. This is the format of
// the sed_eval reference and prediction text files.
package sedeval
