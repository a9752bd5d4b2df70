package transform

import "github.com/matzehuels/untangle/pkg/dag"

// Stats reports what [Normalize] changed.
type Stats struct {
	Reversed    int  // back edges reversed to break cycles
	Relayered   bool // rows were recomputed
	Subdividers int  // dummy nodes inserted for long edges
}

// Changed reports whether Normalize modified the graph.
func (s Stats) Changed() bool {
	return s.Reversed > 0 || s.Relayered || s.Subdividers > 0
}

// Normalize turns g into a layered graph in place: cycles are broken, rows
// are recomputed if any edge does not point downward, and long edges are
// subdivided. A graph that already validates is left untouched, including
// its row orders.
func Normalize(g *dag.DAG) Stats {
	var st Stats
	if g.Validate() == nil {
		return st
	}
	st.Reversed = BreakCycles(g)
	if !RowsConsistent(g) {
		AssignLayers(g)
		st.Relayered = true
	}
	st.Subdividers = Subdivide(g)
	return st
}
