package dot

import (
	"bytes"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/untangle/pkg/dag"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds the row and metadata to node labels.
	Detailed bool
	// ShowWeights labels edges whose weight is above 1.
	ShowWeights bool
}

// ToDOT converts g to Graphviz DOT with each row on its own rank and the
// row's current order pinned left to right by invisible edges. Edge pen
// width grows with the logarithm of the weight. Subdividers are drawn as
// points so subdivided edges read as one line.
func ToDOT(g *dag.DAG, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  newrank=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")

	for _, r := range g.RowIDs() {
		nodes := g.NodesInRow(r)
		fmt.Fprintf(&buf, "\n  subgraph row_%s {\n    rank=same;\n", rowIndex(r))
		for _, n := range nodes {
			fmt.Fprintf(&buf, "    %q [%s];\n", n.ID, strings.Join(nodeAttrs(*n, opts.Detailed), ", "))
		}
		for i := 1; i < len(nodes); i++ {
			fmt.Fprintf(&buf, "    %q -> %q [style=invis];\n", nodes[i-1].ID, nodes[i].ID)
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(edgeAttrs(g, e, opts.ShowWeights), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// rowIndex keeps subgraph names valid identifiers for negative rows.
func rowIndex(r int) string {
	if r < 0 {
		return fmt.Sprintf("m%d", -r)
	}
	return fmt.Sprint(r)
}

func nodeAttrs(n dag.Node, detailed bool) []string {
	if n.IsSubdivider() {
		return []string{`label=""`, "shape=point", "width=0.04"}
	}
	return []string{fmt.Sprintf("label=%q", label(n, detailed))}
}

func label(n dag.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}
	parts := []string{fmt.Sprintf("row: %d", n.Row)}
	if n.Group != "" {
		parts = append(parts, "group: "+n.Group)
	}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return n.ID + "\n" + strings.Join(parts, "\n")
}

func edgeAttrs(g *dag.DAG, e dag.Edge, showWeights bool) []string {
	attrs := []string{fmt.Sprintf("penwidth=%.1f", 1+math.Log2(float64(e.Weight)))}
	if to, ok := g.Node(e.To); ok && to.IsSubdivider() {
		attrs = append(attrs, "arrowhead=none")
	}
	if showWeights && e.Weight > 1 {
		attrs = append(attrs, fmt.Sprintf("label=%q", fmt.Sprint(e.Weight)))
	}
	return attrs
}
