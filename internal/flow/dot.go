package flow

import (
	"fmt"
	"io"
	"sort"

	"github.com/criticaltext/cbgm/internal/witness"
)

// WriteDOT renders the diagram as a Graphviz DOT digraph, the
// layout-tool-friendly textual form spec.md §4.F asks for in place of
// raster/vector rendering.
func (d *Diagram) WriteDOT(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "digraph \"%s\" {\n", d.VariantUnit); err != nil {
		return err
	}

	nodes := make([]Node, len(d.Nodes))
	copy(nodes, d.Nodes)
	sortNodes(nodes)

	for _, n := range nodes {
		if _, err := fmt.Fprintf(w,
			"\t%q [label=%q, style=filled, fillcolor=%q, color=%q];\n",
			n.Witness, n.Label, n.FillColor, n.Color); err != nil {
			return err
		}
	}

	for _, e := range d.Edges {
		style := ""
		if e.Strength != "" {
			style = fmt.Sprintf(", style=%s", strengthStyle(e.Strength))
		}
		if _, err := fmt.Fprintf(w,
			"\t%q -> %q [label=%q%s];\n",
			e.From, e.To, fmt.Sprintf("rank=%d perc=%.1f", e.Rank, e.Perc), style); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}

func strengthStyle(strength string) string {
	switch strength {
	case "strong":
		return "bold"
	case "weak":
		return "dashed"
	default:
		return "solid"
	}
}

func sortNodes(nodes []Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return witness.Less(nodes[i].Witness, nodes[j].Witness)
	})
}
