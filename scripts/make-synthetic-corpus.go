//go:build ignore

// Generate a synthetic filler-detection corpus in the reproduction layout.
// Reference events are drawn per episode; predictions jitter their
// boundaries, drop some events and add false alarms.
// Usage: go run ./scripts/make-synthetic-corpus.go
package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	sedeval "github.com/jamesainslie/go-sedeval"
)

const (
	episodes   = 40
	seed       = 2024
	label      = "filler"
	minGap     = 1.5 // seconds between reference fillers
	maxGap     = 8.0
	minLength  = 0.2
	maxLength  = 0.9
	jitter     = 0.12 // max boundary shift in predictions
	missRate   = 0.15
	falseAlarm = 0.2 // false alarms per reference event
)

func main() {
	root := filepath.Join("testdata", "synthetic")
	gtDir := filepath.Join(root, "ground_truth", "Table1")
	estDir := filepath.Join(root, "AVCFillerNet_predictions", "Table1")

	for _, dir := range []string{gtDir, estDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", dir, err)
			os.Exit(1)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	var nref, nest int
	for i := range episodes {
		id := fmt.Sprintf("episode%03d", i+1)
		ref, est := makeEpisode(rng)
		nref += len(ref)
		nest += len(est)

		if err := write(filepath.Join(gtDir, id+".txt"), id, ref); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", id, err)
			os.Exit(1)
		}
		if err := write(filepath.Join(estDir, id+".txt"), id, est); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", id, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Done! %d episodes, %d reference and %d estimated events in %s/\n", episodes, nref, nest, root)
}

func makeEpisode(rng *rand.Rand) (ref, est []sedeval.Event) {
	t := uniform(rng, 0, maxGap)
	n := 5 + rng.Intn(20)
	for range n {
		length := uniform(rng, minLength, maxLength)
		ref = append(ref, sedeval.Event{Onset: round(t), Offset: round(t + length), Label: label})
		t += length + uniform(rng, minGap, maxGap)
	}

	for _, r := range ref {
		if rng.Float64() < missRate {
			continue
		}
		onset := math.Max(0, r.Onset+uniform(rng, -jitter, jitter))
		offset := r.Offset + uniform(rng, -jitter, jitter)
		if offset-onset < 0.05 {
			offset = onset + 0.05
		}
		est = append(est, sedeval.Event{Onset: round(onset), Offset: round(offset), Label: label})
	}

	alarms := int(math.Round(falseAlarm * float64(len(ref))))
	for range alarms {
		onset := uniform(rng, 0, t)
		est = append(est, sedeval.Event{Onset: round(onset), Offset: round(onset + uniform(rng, minLength, maxLength)), Label: label})
	}
	return ref, est
}

func write(path, id string, events []sedeval.Event) error {
	list, err := sedeval.NewEventList(id, events)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := sedeval.WriteEventList(f, list); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// round keeps timestamps at millisecond precision like annotation tools do.
func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}
