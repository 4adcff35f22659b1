package repro

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	sedeval "github.com/jamesainslie/go-sedeval"
)

func TestSweepCollars(t *testing.T) {
	collars := SweepCollars(0.05, 0.25, 0.05)

	want := []float64{0.05, 0.10, 0.15, 0.20, 0.25}
	if len(collars) != len(want) {
		t.Fatalf("got %d collars, want %d: %v", len(collars), len(want), collars)
	}
	for i := range want {
		diff := collars[i] - want[i]
		if diff < -1e-9 || diff > 1e-9 {
			t.Errorf("collar[%d] = %v, want %v", i, collars[i], want[i])
		}
	}

	if got := SweepCollars(0.2, 0.1, 0.05); got != nil {
		t.Errorf("SweepCollars(max < min) = %v, want nil", got)
	}
	if got := SweepCollars(0.1, 0.2, 0); got != nil {
		t.Errorf("SweepCollars(step 0) = %v, want nil", got)
	}
}

func TestSweep(t *testing.T) {
	// ep1 onset differs by 0.05 s and offset by 0.1 s, so it only matches
	// from a collar of 0.1 upwards.
	root := scenarioRoot(t)
	points, err := Sweep(context.Background(), Params{
		Root:   root,
		Target: "Table1",
		Config: DefaultConfig(),
	}, []float64{0.01, 0.1, 0.2})
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("got %d points, want 3", len(points))
	}

	// 0.1 and 0.2 tie at C=2 and keep collar order; 0.01 is last.
	wantCollars := []float64{0.1, 0.2, 0.01}
	for i, p := range points {
		if p.Collar != wantCollars[i] {
			t.Errorf("points[%d].Collar = %v, want %v", i, p.Collar, wantCollars[i])
		}
	}
	if c := points[2].Counts; c.Correct != 1 || c.Deleted != 1 || c.Inserted != 2 {
		t.Errorf("collar 0.01 C/D/I = %d/%d/%d, want 1/1/2", c.Correct, c.Deleted, c.Inserted)
	}
	if c := points[0].Counts; c.Correct != 2 || c.Deleted != 0 || c.Inserted != 1 {
		t.Errorf("collar 0.1 C/D/I = %d/%d/%d, want 2/0/1", c.Correct, c.Deleted, c.Inserted)
	}

	var out bytes.Buffer
	if err := WriteSweep(&out, points); err != nil {
		t.Fatalf("WriteSweep() error = %v", err)
	}
	if lines := strings.Count(out.String(), "\n"); lines != 4 {
		t.Errorf("WriteSweep wrote %d lines, want 4:\n%s", lines, out.String())
	}
}

func TestSweep_Errors(t *testing.T) {
	root := scenarioRoot(t)
	p := Params{Root: root, Target: "1", Config: DefaultConfig()}

	if _, err := Sweep(context.Background(), p, nil); !errors.Is(err, sedeval.ErrInvalidConfig) {
		t.Errorf("no collars: error = %v, want ErrInvalidConfig", err)
	}
	if _, err := Sweep(context.Background(), p, []float64{-1}); !errors.Is(err, sedeval.ErrInvalidConfig) {
		t.Errorf("negative collar: error = %v, want ErrInvalidConfig", err)
	}
}
