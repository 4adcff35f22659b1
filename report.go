package sedeval

// Scores are the ratios derived from one set of counts. Every ratio with a
// zero denominator is 0.
type Scores struct {
	Precision        float64
	Recall           float64
	F1               float64
	ErrorRate        float64
	SubstitutionRate float64
	DeletionRate     float64
	InsertionRate    float64
}

// ClassResult holds the counts and scores of one label. For segment-based
// results Hits, Misses and FalseAlarms are TP, FN and FP; for event-based
// results they are Correct, Deleted and Inserted.
type ClassResult struct {
	Label       string
	Nref        int
	Nsys        int
	Hits        int
	Misses      int
	FalseAlarms int
	Scores
}

// AccuracyScores are the segment-based binary classification ratios
// computed from the TP/FP/FN/TN sums over all labels.
type AccuracyScores struct {
	Sensitivity      float64
	Specificity      float64
	BalancedAccuracy float64
	Accuracy         float64
}

// SegmentReport is the final segment-based result.
type SegmentReport struct {
	Resolution float64
	Counts     SegmentCounts
	Overall    Scores
	Accuracy   AccuracyScores
	ClassWise  []ClassResult
	Macro      Scores
}

// EventReport is the final event-based result.
//
// Overall ratios use the plain event totals: precision is Correct/Nsys,
// recall is Correct/Nref and the error rate is (D+I+S)/Nref. With lenient
// substitution Nref and Nsys still count the substituted events, so a
// substitution lowers precision and recall the same way a deletion or an
// insertion does, and the error rate counts it once instead of twice.
type EventReport struct {
	Collar    float64
	OffsetPct float64
	Counts    EventCounts
	Overall   Scores
	ClassWise []ClassResult
	Macro     Scores
}

// Report combines the results of both scorers.
type Report struct {
	Segment SegmentReport
	Event   EventReport
}

// BuildReport reduces the accumulators of both scorers.
func BuildReport(seg *SegmentScorer, ev *EventScorer) Report {
	return Report{Segment: seg.Report(), Event: ev.Report()}
}

// Report reduces the accumulated counts into micro, class-wise and macro
// scores.
func (s *SegmentScorer) Report() SegmentReport {
	c := s.Counts()
	t := c.Totals()

	r := SegmentReport{
		Resolution: s.Resolution(),
		Counts:     c,
		Overall: Scores{
			SubstitutionRate: ratio(c.Substitutions, c.Nref),
			DeletionRate:     ratio(c.Deletions, c.Nref),
			InsertionRate:    ratio(c.Insertions, c.Nref),
			ErrorRate:        ratio(c.Substitutions+c.Deletions+c.Insertions, c.Nref),
		},
	}
	r.Overall.Precision, r.Overall.Recall, r.Overall.F1 = prf(t.TP, t.TP+t.FP, t.TP+t.FN)

	sens := ratio(t.TP, t.TP+t.FN)
	spec := ratio(t.TN, t.TN+t.FP)
	r.Accuracy = AccuracyScores{
		Sensitivity:      sens,
		Specificity:      spec,
		BalancedAccuracy: (sens + spec) / 2,
		Accuracy:         ratio(t.TP+t.TN, t.TP+t.TN+t.FP+t.FN),
	}

	r.ClassWise = make([]ClassResult, len(c.Labels))
	for i, l := range c.Labels {
		cr := ClassResult{
			Label:       s.vocab.Label(i),
			Nref:        l.Nref(),
			Nsys:        l.Nsys(),
			Hits:        l.TP,
			Misses:      l.FN,
			FalseAlarms: l.FP,
		}
		cr.Precision, cr.Recall, cr.F1 = prf(l.TP, l.Nsys(), l.Nref())
		cr.DeletionRate = ratio(l.FN, l.Nref())
		cr.InsertionRate = ratio(l.FP, l.Nref())
		cr.ErrorRate = ratio(l.FN+l.FP, l.Nref())
		r.ClassWise[i] = cr
	}
	r.Macro = macro(r.ClassWise)
	return r
}

// Report reduces the accumulated counts into micro, class-wise and macro
// scores.
func (s *EventScorer) Report() EventReport {
	c := s.Counts()

	r := EventReport{
		Collar:    s.Collar(),
		OffsetPct: s.OffsetPercentage(),
		Counts:    c,
		Overall: Scores{
			SubstitutionRate: ratio(c.Substituted, c.Nref),
			DeletionRate:     ratio(c.Deleted, c.Nref),
			InsertionRate:    ratio(c.Inserted, c.Nref),
			ErrorRate:        ratio(c.Deleted+c.Inserted+c.Substituted, c.Nref),
		},
	}
	r.Overall.Precision, r.Overall.Recall, r.Overall.F1 = prf(c.Correct, c.Nsys, c.Nref)

	r.ClassWise = make([]ClassResult, len(c.Labels))
	for i, l := range c.Labels {
		cr := ClassResult{
			Label:       s.vocab.Label(i),
			Nref:        l.Nref,
			Nsys:        l.Nsys,
			Hits:        l.Correct,
			Misses:      l.Deleted,
			FalseAlarms: l.Inserted,
		}
		cr.Precision, cr.Recall, cr.F1 = prf(l.Correct, l.Nsys, l.Nref)
		cr.DeletionRate = ratio(l.Deleted, l.Nref)
		cr.InsertionRate = ratio(l.Inserted, l.Nref)
		cr.ErrorRate = ratio(l.Deleted+l.Inserted, l.Nref)
		r.ClassWise[i] = cr
	}
	r.Macro = macro(r.ClassWise)
	return r
}

// macro averages class-wise precision, recall, F1 and error rate over the
// labels with at least one reference instance.
func macro(classes []ClassResult) Scores {
	var m Scores
	n := 0
	for _, c := range classes {
		if c.Nref == 0 {
			continue
		}
		n++
		m.Precision += c.Precision
		m.Recall += c.Recall
		m.F1 += c.F1
		m.ErrorRate += c.ErrorRate
		m.DeletionRate += c.DeletionRate
		m.InsertionRate += c.InsertionRate
	}
	if n == 0 {
		return Scores{}
	}
	k := float64(n)
	m.Precision /= k
	m.Recall /= k
	m.F1 /= k
	m.ErrorRate /= k
	m.DeletionRate /= k
	m.InsertionRate /= k
	return m
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// prf returns precision hits/nsys, recall hits/nref and their harmonic mean.
func prf(hits, nsys, nref int) (p, r, f float64) {
	p = ratio(hits, nsys)
	r = ratio(hits, nref)
	if p+r > 0 {
		f = 2 * p * r / (p + r)
	}
	return p, r, f
}

// Values flattens the report into metric names such as
// "event_based.overall.f_measure" or "segment_based.class_wise.filler.recall".
func (r Report) Values() map[string]float64 {
	m := make(map[string]float64)
	for k, v := range r.Segment.Values() {
		m["segment_based."+k] = v
	}
	for k, v := range r.Event.Values() {
		m["event_based."+k] = v
	}
	return m
}

// Values flattens the report into metric names such as "overall.error_rate"
// or "class_wise.filler.precision".
func (r SegmentReport) Values() map[string]float64 {
	m := make(map[string]float64)
	r.Overall.put(m, "overall.")
	m["overall.nref"] = float64(r.Counts.Nref)
	m["overall.nsys"] = float64(r.Counts.Nsys)
	m["overall.segments"] = float64(r.Counts.Segments)
	m["overall.sensitivity"] = r.Accuracy.Sensitivity
	m["overall.specificity"] = r.Accuracy.Specificity
	m["overall.balanced_accuracy"] = r.Accuracy.BalancedAccuracy
	m["overall.accuracy"] = r.Accuracy.Accuracy
	putClasses(m, r.ClassWise)
	r.Macro.put(m, "macro.")
	return m
}

// Values flattens the report into metric names such as "overall.f_measure"
// or "class_wise.filler.deletion_rate".
func (r EventReport) Values() map[string]float64 {
	m := make(map[string]float64)
	r.Overall.put(m, "overall.")
	m["overall.nref"] = float64(r.Counts.Nref)
	m["overall.nsys"] = float64(r.Counts.Nsys)
	m["overall.correct"] = float64(r.Counts.Correct)
	m["overall.deleted"] = float64(r.Counts.Deleted)
	m["overall.inserted"] = float64(r.Counts.Inserted)
	m["overall.substituted"] = float64(r.Counts.Substituted)
	putClasses(m, r.ClassWise)
	r.Macro.put(m, "macro.")
	return m
}

func (s Scores) put(m map[string]float64, prefix string) {
	m[prefix+"precision"] = s.Precision
	m[prefix+"recall"] = s.Recall
	m[prefix+"f_measure"] = s.F1
	m[prefix+"error_rate"] = s.ErrorRate
	m[prefix+"substitution_rate"] = s.SubstitutionRate
	m[prefix+"deletion_rate"] = s.DeletionRate
	m[prefix+"insertion_rate"] = s.InsertionRate
}

func putClasses(m map[string]float64, classes []ClassResult) {
	for _, c := range classes {
		prefix := "class_wise." + c.Label + "."
		c.Scores.put(m, prefix)
		m[prefix+"nref"] = float64(c.Nref)
		m[prefix+"nsys"] = float64(c.Nsys)
	}
}
