package repro

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	sedeval "github.com/jamesainslie/go-sedeval"
)

// SweepPoint holds the event-based scores for one collar value.
type SweepPoint struct {
	Collar  float64
	Overall sedeval.Scores
	Counts  sedeval.EventCounts
}

// SweepCollars generates collar values from min up to and including max.
// Values are computed as min+i*step so rounding does not accumulate.
func SweepCollars(min, max, step float64) []float64 {
	if step <= 0 || max < min {
		return nil
	}
	n := int(math.Floor((max-min)/step+1e-9)) + 1
	collars := make([]float64, n)
	for i := range collars {
		collars[i] = min + float64(i)*step
	}
	return collars
}

// Sweep scores the target once per collar and returns the points sorted by
// event-based F1, best first. Points with equal F1 keep collar order.
func Sweep(ctx context.Context, p Params, collars []float64) ([]SweepPoint, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(collars) == 0 {
		return nil, fmt.Errorf("%w: no collar values", sedeval.ErrInvalidConfig)
	}

	target, corpus, _, err := loadCorpus(p, logger)
	if err != nil {
		return nil, err
	}

	points := make([]SweepPoint, 0, len(collars))
	for _, collar := range collars {
		opts := append(p.Config.Options(logger), sedeval.WithCollar(collar))
		res, err := sedeval.EvaluateCorpus(ctx, corpus, opts...)
		if err != nil {
			return nil, fmt.Errorf("sweep %s at collar %g: %w", target.Name, collar, err)
		}
		ev := res.Report.Event
		points = append(points, SweepPoint{
			Collar:  collar,
			Overall: ev.Overall,
			Counts:  ev.Counts,
		})
		logger.Debug("sweep point", "collar", collar, "f_measure", ev.Overall.F1)
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Overall.F1 > points[j].Overall.F1
	})
	return points, nil
}
