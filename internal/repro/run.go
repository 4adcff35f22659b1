package repro

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	sedeval "github.com/jamesainslie/go-sedeval"
)

// Params describes one reproduction run.
type Params struct {
	// Root is the evaluation root holding the target directories.
	Root string
	// Target is a target name such as "Table1" or "1".
	Target string
	Config Config
	Logger *slog.Logger
	// Progress receives a progress bar when non-nil.
	Progress io.Writer
}

// Outcome is the result of a reproduction run.
type Outcome struct {
	Target  Target
	Result  *sedeval.Result
	Skipped []string
}

// Run loads the target's event lists, builds the corpus and scores it.
func Run(ctx context.Context, p Params) (*Outcome, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	target, corpus, pairing, err := loadCorpus(p, logger)
	if err != nil {
		return nil, err
	}

	opts := p.Config.Options(logger)

	var (
		progress *mpb.Progress
		bar      *mpb.Bar
	)
	if p.Progress != nil && corpus.Len() > 0 {
		progress = mpb.New(mpb.WithOutput(p.Progress), mpb.WithWidth(64))
		bar = progress.AddBar(int64(corpus.Len()),
			mpb.PrependDecorators(
				decor.Name("Scoring: "),
				decor.CountersNoUnit("%d / %d"),
			),
			mpb.AppendDecorators(
				decor.Percentage(),
			),
		)
		opts = append(opts, sedeval.WithRecordingHook(func(string) { bar.Increment() }))
	}

	res, err := sedeval.EvaluateCorpus(ctx, corpus, opts...)
	if progress != nil {
		if err != nil {
			bar.Abort(false)
		}
		progress.Wait()
	}
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", target.Name, err)
	}

	return &Outcome{
		Target:  target,
		Result:  res,
		Skipped: pairing.Skipped,
	}, nil
}

func loadCorpus(p Params, logger *slog.Logger) (Target, *sedeval.Corpus, *Pairing, error) {
	if err := p.Config.Validate(); err != nil {
		return Target{}, nil, nil, err
	}

	target, err := p.Config.Target(p.Target)
	if err != nil {
		return Target{}, nil, nil, err
	}

	pairing, err := LoadPairs(
		resolve(p.Root, target.GroundTruth),
		resolve(p.Root, target.Estimated),
		p.Config.MissingEstimate,
		logger,
	)
	if err != nil {
		return Target{}, nil, nil, err
	}

	corpus, err := sedeval.BuildCorpus(pairing.Pairs)
	if err != nil {
		return Target{}, nil, nil, fmt.Errorf("build corpus: %w", err)
	}
	logger.Info("corpus loaded",
		"target", target.Name,
		"recordings", corpus.Len(),
		"labels", corpus.Vocabulary().Labels(),
		"skipped", len(pairing.Skipped))
	return target, corpus, pairing, nil
}
