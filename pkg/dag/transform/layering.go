package transform

import "github.com/matzehuels/untangle/pkg/dag"

// AssignLayers assigns every node the length of the longest path reaching
// it from a source, so sources sit in row 0 and every edge points strictly
// downward. Existing rows are overwritten; in-row order is kept where nodes
// stay in their row.
//
// The traversal is Kahn's topological sort in O(V + E). Nodes on a cycle
// never reach in-degree zero and stay at row 0, so run [BreakCycles] first.
func AssignLayers(g *dag.DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		rows[n.ID] = 0
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
}

// RowsConsistent reports whether every edge points to a strictly lower row.
// Graphs that pass only need [Subdivide] to become layered.
func RowsConsistent(g *dag.DAG) bool {
	for _, e := range g.Edges() {
		src, okS := g.Node(e.From)
		dst, okD := g.Node(e.To)
		if !okS || !okD || dst.Row <= src.Row {
			return false
		}
	}
	return true
}
