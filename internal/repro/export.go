package repro

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	sedeval "github.com/jamesainslie/go-sedeval"
)

// Format selects the export encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatProtobuf Format = "protobuf"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatProtobuf:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q, want text, json or protobuf", s)
	}
}

// Export writes the outcome in the given format. JSON and protobuf both
// encode a google.protobuf.Struct with the target, the recording counts and
// the flattened metric values.
func Export(w io.Writer, o *Outcome, format Format) error {
	switch format {
	case FormatText:
		return WriteText(w, o.Result.Report)
	case FormatJSON:
		st, err := outcomeStruct(o)
		if err != nil {
			return err
		}
		data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(st)
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		return nil
	case FormatProtobuf:
		st, err := outcomeStruct(o)
		if err != nil {
			return err
		}
		data, err := proto.MarshalOptions{Deterministic: true}.Marshal(st)
		if err != nil {
			return fmt.Errorf("marshal protobuf: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write protobuf: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func outcomeStruct(o *Outcome) (*structpb.Struct, error) {
	metrics := make(map[string]any)
	for k, v := range o.Result.Report.Values() {
		metrics[k] = v
	}
	skipped := make([]any, len(o.Skipped))
	for i, s := range o.Skipped {
		skipped[i] = s
	}

	st, err := structpb.NewStruct(map[string]any{
		"target":     o.Target.Name,
		"recordings": o.Result.Recordings,
		"skipped":    skipped,
		"metrics":    metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("build report struct: %w", err)
	}
	return st, nil
}

// WriteText writes a plain summary: event-based results, then segment-based.
func WriteText(w io.Writer, r sedeval.Report) error {
	var b strings.Builder

	ev := r.Event
	fmt.Fprintf(&b, "Event based metrics (onset-offset)\n")
	fmt.Fprintf(&b, "  t_collar: %.3f s  offset pct: %.2f\n", ev.Collar, ev.OffsetPct)
	fmt.Fprintf(&b, "  Nref: %d  Nsys: %d  correct: %d  deleted: %d  inserted: %d  substituted: %d\n",
		ev.Counts.Nref, ev.Counts.Nsys, ev.Counts.Correct, ev.Counts.Deleted, ev.Counts.Inserted, ev.Counts.Substituted)
	writeScores(&b, "Overall (micro)", ev.Overall)
	writeScores(&b, "Class-wise average (macro)", ev.Macro)
	writeClasses(&b, ev.ClassWise)

	seg := r.Segment
	fmt.Fprintf(&b, "\nSegment based metrics\n")
	fmt.Fprintf(&b, "  time resolution: %.3f s  segments: %d\n", seg.Resolution, seg.Counts.Segments)
	fmt.Fprintf(&b, "  Nref: %d  Nsys: %d\n", seg.Counts.Nref, seg.Counts.Nsys)
	writeScores(&b, "Overall (micro)", seg.Overall)
	fmt.Fprintf(&b, "    sensitivity: %6.2f %%  specificity: %6.2f %%  balanced accuracy: %6.2f %%  accuracy: %6.2f %%\n",
		100*seg.Accuracy.Sensitivity, 100*seg.Accuracy.Specificity, 100*seg.Accuracy.BalancedAccuracy, 100*seg.Accuracy.Accuracy)
	writeScores(&b, "Class-wise average (macro)", seg.Macro)
	writeClasses(&b, seg.ClassWise)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeScores(b *strings.Builder, title string, s sedeval.Scores) {
	fmt.Fprintf(b, "  %s\n", title)
	fmt.Fprintf(b, "    F1: %6.2f %%  precision: %6.2f %%  recall: %6.2f %%\n", 100*s.F1, 100*s.Precision, 100*s.Recall)
	fmt.Fprintf(b, "    ER: %6.2f  substitution: %6.2f  deletion: %6.2f  insertion: %6.2f\n",
		s.ErrorRate, s.SubstitutionRate, s.DeletionRate, s.InsertionRate)
}

func writeClasses(b *strings.Builder, classes []sedeval.ClassResult) {
	sorted := slices.Clone(classes)
	slices.SortFunc(sorted, func(a, c sedeval.ClassResult) int { return strings.Compare(a.Label, c.Label) })

	fmt.Fprintf(b, "  Class-wise\n")
	fmt.Fprintf(b, "    %-16s %6s %6s %8s %8s %8s %6s\n", "label", "Nref", "Nsys", "F1", "Pre", "Rec", "ER")
	for _, c := range sorted {
		fmt.Fprintf(b, "    %-16s %6d %6d %7.2f%% %7.2f%% %7.2f%% %6.2f\n",
			c.Label, c.Nref, c.Nsys, 100*c.F1, 100*c.Precision, 100*c.Recall, c.ErrorRate)
	}
}

// WriteSweep writes one line per sweep point in the order given.
func WriteSweep(w io.Writer, points []SweepPoint) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%8s %8s %8s %8s %6s %6s %6s %6s\n", "collar", "F1", "Pre", "Rec", "ER", "C", "D", "I")
	for _, p := range points {
		fmt.Fprintf(&b, "%8.3f %7.2f%% %7.2f%% %7.2f%% %6.2f %6d %6d %6d\n",
			p.Collar, 100*p.Overall.F1, 100*p.Overall.Precision, 100*p.Overall.Recall, p.Overall.ErrorRate,
			p.Counts.Correct, p.Counts.Deleted, p.Counts.Inserted)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
