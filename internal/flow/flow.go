// Package flow assembles the per-variant-unit textual flow diagram
// (§4.F): for every witness, the best explaining parent combination
// from internal/parentsearch becomes an arc parent -> witness.
package flow

import (
	"fmt"

	"github.com/criticaltext/cbgm/internal/coherence"
	"github.com/criticaltext/cbgm/internal/model"
	"github.com/criticaltext/cbgm/internal/parentsearch"
)

// ForestError reports that perfect-coherence mode was requested but a
// non-initial witness has no explaining parent.
type ForestError struct {
	Witness     string
	VariantUnit string
}

func (e *ForestError) Error() string {
	return fmt.Sprintf("witness %q has no parent at %s: forest detected", e.Witness, e.VariantUnit)
}

// Thresholds classify an edge's directional strength (WLtW2 - WGtW2,
// i.e. how much more often the witness is posterior to its chosen
// ancestor than prior) as "strong" or "weak" for styling purposes.
type Thresholds struct {
	Strong int
	Weak   int
}

func (t Thresholds) classify(strength int) string {
	switch {
	case strength >= t.Strong:
		return "strong"
	case strength >= t.Weak:
		return "weak"
	default:
		return ""
	}
}

// WitnessInput is everything Build needs about one witness at the
// target variant unit: its own reading/parent declaration, the best
// parent combination chosen for it by parentsearch.SelectForFlow, and
// its genealogical-coherence rows (for rank/percentage/strength lookup
// keyed by ancestor witness).
type WitnessInput struct {
	Witness    string
	Reading    string
	ParentExpr model.ParentExpr
	Chosen     parentsearch.Combination
	Rows       []coherence.Row
}

// Node is one witness in the diagram.
type Node struct {
	Witness   string
	Label     string // display label, e.g. "03 (b)" or "03/2 (b)"
	FillColor string
	Color     string
}

// Edge is one parent -> witness arc.
type Edge struct {
	From, To string
	Rank     int
	Perc     float64
	Strength string
}

// Diagram is the full textual flow graph for one (variant unit,
// connectivity) pair.
type Diagram struct {
	VariantUnit  string
	Connectivity string
	Nodes        []Node
	Edges        []Edge
}

// Build assembles the diagram for one variant unit. perfectOnly turns
// a parentless non-"A" witness into a fatal ForestError instead of a
// silently skipped node.
func Build(vu, connectivity string, witnesses []WitnessInput, thresholds Thresholds, perfectOnly bool) (*Diagram, error) {
	d := &Diagram{VariantUnit: vu, Connectivity: connectivity}

	for _, w := range witnesses {
		fill := colourFor(w.Reading)
		d.Nodes = append(d.Nodes, Node{
			Witness:   w.Witness,
			Label:     nodeLabel(w),
			FillColor: fill,
			Color:     darken(fill, 75),
		})

		if len(w.Chosen) == 0 {
			if w.Witness == model.InitialWS {
				continue
			}
			if perfectOnly {
				return nil, &ForestError{Witness: w.Witness, VariantUnit: vu}
			}
			continue
		}

		rowByW2 := make(map[string]coherence.Row, len(w.Rows))
		for _, r := range w.Rows {
			rowByW2[r.W2] = r
		}

		for _, a := range w.Chosen {
			edge := Edge{From: a.Witness, To: w.Witness, Rank: a.Rank}
			if row, ok := rowByW2[a.Witness]; ok {
				edge.Perc = row.Perc1
				edge.Strength = thresholds.classify(row.WLtW2 - row.WGtW2)
			}
			d.Edges = append(d.Edges, edge)
		}
	}

	return d, nil
}

func nodeLabel(w WitnessInput) string {
	switch len(w.Chosen) {
	case 0:
		return fmt.Sprintf("%s (%s)", w.Witness, w.Reading)
	case 1:
		if w.Chosen[0].Generation == 1 {
			return fmt.Sprintf("%s (%s)", w.Witness, w.Reading)
		}
		return fmt.Sprintf("%s/%d (%s)", w.Witness, w.Chosen[0].Generation, w.Reading)
	default:
		parts := ""
		for i, a := range w.Chosen {
			if i > 0 {
				parts += ", "
			}
			parts += fmt.Sprintf("%s.%d", a.Witness, a.Generation)
		}
		return fmt.Sprintf("%s/[%s] (%s)", w.Witness, parts, w.Reading)
	}
}

// BoxReadings groups, for a given reading label, the witnesses
// attesting it and the subset of their chosen ancestors that attest a
// different reading (the "box" variant from spec.md §4.F).
func BoxReadings(witnesses []WitnessInput, label string) []Edge {
	byWitness := make(map[string]WitnessInput, len(witnesses))
	for _, w := range witnesses {
		byWitness[w.Witness] = w
	}

	var out []Edge
	for _, w := range witnesses {
		if w.Reading != label {
			continue
		}
		for _, a := range w.Chosen {
			ancestor, ok := byWitness[a.Witness]
			if ok && ancestor.Reading == label {
				continue
			}
			out = append(out, Edge{From: a.Witness, To: w.Witness, Rank: a.Rank})
		}
	}
	return out
}
