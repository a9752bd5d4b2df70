package transform

import "github.com/matzehuels/untangle/pkg/dag"

// BreakCycles makes g acyclic by reversing every back edge found by a
// depth-first search started from the sources in row order. Reversed edges
// keep their weight and metadata, so crossing costs are unchanged.
// Self-loops cannot be layered and are dropped. It returns the number of
// source/target pairs reversed or dropped.
func BreakCycles(g *dag.DAG) int {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	seen := make(map[[2]string]bool)
	var backEdges [][2]string

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				key := [2]string{node, child}
				if !seen[key] {
					seen[key] = true
					backEdges = append(backEdges, key)
				}
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	if len(backEdges) == 0 {
		return 0
	}
	edges := g.Edges()
	for _, be := range backEdges {
		g.RemoveEdge(be[0], be[1])
		if be[0] == be[1] {
			continue
		}
		for _, e := range edges {
			if e.From == be[0] && e.To == be[1] {
				if err := g.AddEdge(dag.Edge{From: e.To, To: e.From, Weight: e.Weight, Meta: e.Meta}); err != nil {
					panic(err)
				}
			}
		}
	}
	return len(backEdges)
}
