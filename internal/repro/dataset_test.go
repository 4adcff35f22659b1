package repro

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	sedeval "github.com/jamesainslie/go-sedeval"
)

func TestLoadPairs(t *testing.T) {
	root := tableRoot(t,
		map[string]string{
			"ep1.txt":   "2.0\t2.5\tfiller\n",
			"ep2.txt":   "0.0\t1.0\tfiller\n",
			"README.md": "not an event list",
		},
		map[string]string{
			"ep1.txt": "2.05\t2.6\tfiller\n",
			"ep2.txt": "0.0\t1.0\tfiller\n5.0\t5.5\tfiller\n",
		})

	p, err := LoadPairs(
		filepath.Join(root, "ground_truth", "Table1"),
		filepath.Join(root, "AVCFillerNet_predictions", "Table1"),
		MissingAbort, nil)
	if err != nil {
		t.Fatalf("LoadPairs() error = %v", err)
	}
	if len(p.Pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(p.Pairs))
	}
	if p.Pairs[0].RecordingID != "ep1" || p.Pairs[1].Estimated.Len() != 2 {
		t.Errorf("pairs = %+v", p.Pairs)
	}
}

func TestLoadPairsMissingEstimate(t *testing.T) {
	gt := map[string]string{
		"ep1.txt": "0\t1\tfiller\n",
		"ep2.txt": "0\t1\tfiller\n",
		"ep3.txt": "0\t1\tfiller\n",
	}
	est := map[string]string{"ep2.txt": "0\t1\tfiller\n"}
	root := tableRoot(t, gt, est)
	gtDir := filepath.Join(root, "ground_truth", "Table1")
	estDir := filepath.Join(root, "AVCFillerNet_predictions", "Table1")

	_, err := LoadPairs(gtDir, estDir, MissingAbort, nil)
	if !errors.Is(err, ErrMissingEstimate) {
		t.Fatalf("abort policy error = %v, want ErrMissingEstimate", err)
	}

	p, err := LoadPairs(gtDir, estDir, MissingSkip, nil)
	if err != nil {
		t.Fatalf("skip policy error = %v", err)
	}
	if len(p.Pairs) != 1 || p.Pairs[0].RecordingID != "ep2" {
		t.Errorf("pairs = %+v, want ep2 only", p.Pairs)
	}
	if !slices.Equal(p.Skipped, []string{"ep1", "ep3"}) {
		t.Errorf("Skipped = %v, want [ep1 ep3]", p.Skipped)
	}
}

func TestLoadPairsMalformed(t *testing.T) {
	root := tableRoot(t,
		map[string]string{"ep1.txt": "0\t1\tfiller\n1.5\tx\tfiller\n"},
		map[string]string{"ep1.txt": "0\t1\tfiller\n"})

	_, err := LoadPairs(
		filepath.Join(root, "ground_truth", "Table1"),
		filepath.Join(root, "AVCFillerNet_predictions", "Table1"),
		MissingAbort, nil)
	if !errors.Is(err, sedeval.ErrMalformedEvent) {
		t.Fatalf("error = %v, want ErrMalformedEvent", err)
	}
	var pe *sedeval.ParseError
	if !errors.As(err, &pe) || pe.Recording != "ep1" || pe.Line != 2 {
		t.Errorf("error = %v, want ParseError at ep1:2", err)
	}
}

func TestLoadPairsEmptyDir(t *testing.T) {
	root := tableRoot(t, map[string]string{}, map[string]string{})
	_, err := LoadPairs(
		filepath.Join(root, "ground_truth", "Table1"),
		filepath.Join(root, "AVCFillerNet_predictions", "Table1"),
		MissingAbort, nil)
	if err == nil {
		t.Error("LoadPairs() on an empty dir succeeded")
	}
}
