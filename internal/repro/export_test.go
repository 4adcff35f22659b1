package repro

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func runScenario(t *testing.T) *Outcome {
	t.Helper()
	out, err := Run(context.Background(), Params{Root: scenarioRoot(t), Target: "1", Config: DefaultConfig()})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out
}

func TestExportJSON(t *testing.T) {
	out := runScenario(t)

	var buf bytes.Buffer
	if err := Export(&buf, out, FormatJSON); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var doc struct {
		Target     string             `json:"target"`
		Recordings float64            `json:"recordings"`
		Metrics    map[string]float64 `json:"metrics"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if doc.Target != "Table1" || doc.Recordings != 2 {
		t.Errorf("target/recordings = %q/%v", doc.Target, doc.Recordings)
	}
	if doc.Metrics["event_based.overall.recall"] != 1 {
		t.Errorf("event recall = %v, want 1", doc.Metrics["event_based.overall.recall"])
	}
}

func TestExportProtobuf(t *testing.T) {
	out := runScenario(t)

	var buf bytes.Buffer
	if err := Export(&buf, out, FormatProtobuf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var st structpb.Struct
	if err := proto.Unmarshal(buf.Bytes(), &st); err != nil {
		t.Fatalf("proto.Unmarshal() error = %v", err)
	}
	metrics := st.GetFields()["metrics"].GetStructValue().GetFields()
	if got := metrics["event_based.overall.inserted"].GetNumberValue(); got != 1 {
		t.Errorf("inserted = %v, want 1", got)
	}
}

func TestExportText(t *testing.T) {
	out := runScenario(t)

	var buf bytes.Buffer
	if err := Export(&buf, out, FormatText); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	text := buf.String()
	for _, want := range []string{"Event based metrics", "Segment based metrics", "filler", "F1: "} {
		if !strings.Contains(text, want) {
			t.Errorf("text output missing %q:\n%s", want, text)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "JSON", "protobuf"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", s, err)
		}
	}
	if _, err := ParseFormat("csv"); err == nil {
		t.Error("ParseFormat(csv) succeeded")
	}
}
