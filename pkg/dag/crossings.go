package dag

import (
	"maps"
	"slices"
)

// CountCrossings returns the weighted crossing count for the given row
// orders, summed over each pair of consecutive rows present in orders. Rows
// missing from orders count as empty.
//
//	orders := map[int][]string{
//	    0: {"app", "cli"},
//	    1: {"lib1", "lib2", "lib3"},
//	}
//	crossings := dag.CountCrossings(g, orders)
//
// This is a plain reference implementation that works on string IDs; the
// optimizer in package untangle keeps its own index-based counter.
func CountCrossings(g *DAG, orders map[int][]string) int64 {
	rows := slices.Sorted(maps.Keys(orders))
	var crossings int64
	for _, r := range rows {
		if lower, ok := orders[r+1]; ok {
			crossings += CountLayerCrossings(g, orders[r], lower)
		}
	}
	return crossings
}

// CountCurrentCrossings counts crossings of the graph's own row orders.
func CountCurrentCrossings(g *DAG) int64 {
	return CountCrossings(g, g.RowOrders())
}

// CountLayerCrossings counts weighted crossings between two adjacent rows
// using a Fenwick tree over positions in the lower row.
//
// Edges (u1,v1) and (u2,v2) cross when pos(u1) < pos(u2) and pos(v1) > pos(v2);
// each crossing adds w1·w2. Sorting edges by source position makes this a
// weighted inversion count over target positions.
//
// Edges whose endpoints are not in upper and lower are ignored.
func CountLayerCrossings(g *DAG, upper, lower []string) int64 {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	upperPos, lowerPos := PosMap(upper), PosMap(lower)

	type edge struct {
		upper, lower int
		w            int64
	}
	var edges []edge
	for _, e := range g.edges {
		u, okU := upperPos[e.From]
		l, okL := lowerPos[e.To]
		if okU && okL {
			edges = append(edges, edge{u, l, e.Weight})
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int64, len(lower)+1)
	var crossings, total int64
	for _, e := range edges {
		// weight seen so far with target <= e.lower
		var lessOrEqual int64
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += e.w * (total - lessOrEqual)

		total += e.w
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx] += e.w
		}
	}
	return crossings
}
