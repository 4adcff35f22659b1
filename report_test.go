package sedeval

import (
	"testing"
)

func TestEventReportMacroSkipsLabelsWithoutReferences(t *testing.T) {
	vocab := NewVocabulary("uh", "um")
	s := newEventScorer(t, vocab)

	ref := mustList(t, "r", ev(0, 1, "uh"), ev(2, 3, "uh"))
	est := mustList(t, "r", ev(0, 1, "uh"), ev(5, 6, "um"))
	if err := s.Evaluate(ref, est); err != nil {
		t.Fatal(err)
	}

	r := s.Report()
	if len(r.ClassWise) != 2 {
		t.Fatalf("got %d class results, want 2", len(r.ClassWise))
	}
	uh := r.ClassWise[0]
	if uh.Label != "uh" || uh.Hits != 1 || uh.Misses != 1 || uh.FalseAlarms != 0 {
		t.Errorf("uh = %+v", uh)
	}
	if !approx(uh.Precision, 1) || !approx(uh.Recall, 0.5) || !approx(uh.ErrorRate, 0.5) {
		t.Errorf("uh P/R/ER = %v/%v/%v, want 1/0.5/0.5", uh.Precision, uh.Recall, uh.ErrorRate)
	}

	// um has no references: excluded from macro, counted in micro
	if r.Macro.Precision != uh.Precision || r.Macro.Recall != uh.Recall || r.Macro.F1 != uh.F1 || r.Macro.ErrorRate != uh.ErrorRate {
		t.Errorf("Macro = %+v, want scores of uh only", r.Macro)
	}
	if !approx(r.Overall.Precision, 0.5) || !approx(r.Overall.Recall, 0.5) {
		t.Errorf("Overall P/R = %v/%v, want 0.5/0.5", r.Overall.Precision, r.Overall.Recall)
	}
	if !approx(r.Overall.ErrorRate, 1.0) {
		t.Errorf("Overall ER = %v, want 1.0", r.Overall.ErrorRate)
	}
}

func TestReportZeroDenominators(t *testing.T) {
	vocab := NewVocabulary("a")
	seg, _ := NewSegmentScorer(vocab)
	evs := newEventScorer(t, vocab)

	r := BuildReport(seg, evs)
	for name, v := range r.Values() {
		if v != 0 {
			t.Errorf("%s = %v on an empty corpus, want 0", name, v)
		}
	}
}

func TestSegmentReport(t *testing.T) {
	seg, _ := NewSegmentScorer(NewVocabulary("filler"))
	ref := mustList(t, "r", ev(0.5, 1.0, "filler"))
	est := mustList(t, "r", ev(0.6, 1.0, "filler"))
	if err := seg.Evaluate(ref, est); err != nil {
		t.Fatal(err)
	}

	r := seg.Report()
	if !approx(r.Overall.Precision, 1) || !approx(r.Overall.Recall, 0.8) {
		t.Errorf("P/R = %v/%v, want 1/0.8", r.Overall.Precision, r.Overall.Recall)
	}
	if !approx(r.Overall.F1, 2*0.8/1.8) {
		t.Errorf("F1 = %v", r.Overall.F1)
	}
	if !approx(r.Overall.ErrorRate, 0.2) || !approx(r.Overall.DeletionRate, 0.2) {
		t.Errorf("ER = %v, deletion rate = %v; want 0.2", r.Overall.ErrorRate, r.Overall.DeletionRate)
	}
	if !approx(r.Accuracy.Specificity, 1) || !approx(r.Accuracy.Sensitivity, 0.8) || !approx(r.Accuracy.Accuracy, 0.9) {
		t.Errorf("Accuracy = %+v", r.Accuracy)
	}
	if !approx(r.Macro.F1, r.ClassWise[0].F1) {
		t.Errorf("Macro F1 = %v, want %v", r.Macro.F1, r.ClassWise[0].F1)
	}
}

func TestReportValues(t *testing.T) {
	vocab := NewVocabulary("filler")
	seg, _ := NewSegmentScorer(vocab)
	evs := newEventScorer(t, vocab)
	ref := mustList(t, "r", ev(0, 1, "filler"))
	est := mustList(t, "r", ev(0, 1, "filler"), ev(5, 5.5, "filler"))
	if err := seg.Evaluate(ref, est); err != nil {
		t.Fatal(err)
	}
	if err := evs.Evaluate(ref, est); err != nil {
		t.Fatal(err)
	}

	v := BuildReport(seg, evs).Values()
	want := map[string]float64{
		"event_based.overall.precision":           0.5,
		"event_based.overall.recall":              1,
		"event_based.overall.inserted":            1,
		"event_based.class_wise.filler.nref":      1,
		"event_based.macro.recall":                1,
		"segment_based.overall.recall":            1,
		"segment_based.class_wise.filler.nsys":    15,
		"segment_based.overall.segments":          55,
		"segment_based.class_wise.filler.recall":  1,
		"segment_based.overall.balanced_accuracy": (1 + 40.0/45.0) / 2,
	}
	for k, w := range want {
		got, ok := v[k]
		if !ok {
			t.Errorf("missing %s", k)
			continue
		}
		if !approx(got, w) {
			t.Errorf("%s = %v, want %v", k, got, w)
		}
	}
}
