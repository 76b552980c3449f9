package flow

import (
	"bytes"
	"strings"
	"testing"

	"github.com/criticaltext/cbgm/internal/coherence"
	"github.com/criticaltext/cbgm/internal/model"
	"github.com/criticaltext/cbgm/internal/parentsearch"
)

func TestBuildAssemblesEdges(t *testing.T) {
	witnesses := []WitnessInput{
		{
			Witness: model.InitialWS, Reading: "a",
			ParentExpr: model.ParentExpr(model.INIT),
		},
		{
			Witness: "03", Reading: "a",
			ParentExpr: model.ParentExpr(model.INIT),
			Chosen:     parentsearch.Combination{{Witness: model.InitialWS, Rank: 1, Generation: 1}},
			Rows:       []coherence.Row{{W2: model.InitialWS, Perc1: 100, WGtW2: 0, WLtW2: 5}},
		},
	}

	d, err := Build("vu1", "499", witnesses, Thresholds{Strong: 3, Weak: 1}, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(d.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(d.Nodes))
	}
	if len(d.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(d.Edges))
	}
	if d.Edges[0].Strength != "strong" {
		t.Errorf("edge strength = %q, want strong", d.Edges[0].Strength)
	}
}

func TestBuildForestError(t *testing.T) {
	witnesses := []WitnessInput{
		{Witness: "03", Reading: "a", ParentExpr: model.ParentExpr(model.INIT)},
	}
	_, err := Build("vu1", "499", witnesses, Thresholds{}, true)
	if err == nil {
		t.Fatalf("expected ForestError in perfect-coherence mode")
	}
	if _, ok := err.(*ForestError); !ok {
		t.Errorf("expected *ForestError, got %T", err)
	}
}

func TestWriteDOT(t *testing.T) {
	witnesses := []WitnessInput{
		{Witness: model.InitialWS, Reading: "a"},
		{
			Witness: "03", Reading: "a",
			Chosen: parentsearch.Combination{{Witness: model.InitialWS, Rank: 1, Generation: 1}},
			Rows:   []coherence.Row{{W2: model.InitialWS, Perc1: 100}},
		},
	}
	d, err := Build("vu1", "499", witnesses, Thresholds{}, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var buf bytes.Buffer
	if err := d.WriteDOT(&buf); err != nil {
		t.Fatalf("WriteDOT: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "digraph") || !strings.Contains(out, "\"A\" -> \"03\"") {
		t.Errorf("unexpected DOT output: %s", out)
	}
}
