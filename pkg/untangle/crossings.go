package untangle

import "slices"

// placed is an edge mapped to current positions.
type placed struct {
	sp, tp int
	w      int64
}

// CountCrossings returns the weighted crossing count summed over every pair
// of adjacent layers.
func (g *Graph[K]) CountCrossings() int64 {
	var total int64
	for l := range g.links {
		total += g.CountLayerCrossings(l)
	}
	return total
}

// CountLayerCrossings returns the weighted crossing count between layer l and
// layer l+1, or 0 if l is not the upper layer of an adjacent pair.
//
// Edges (s1,t1) and (s2,t2) cross when pos(s1) < pos(s2) and pos(t1) > pos(t2),
// contributing w1·w2. Edges are sorted by source then target position and
// scanned with a weighted Fenwick tree over target positions, so each edge
// adds its weight times the weight already seen at larger targets.
// Runs in O(E log E + E log T).
func (g *Graph[K]) CountLayerCrossings(l int) int64 {
	if l < 0 || l >= len(g.links) || len(g.links[l]) < 2 {
		return 0
	}

	edges := g.scratch[:0]
	spos, tpos := g.pos[l], g.pos[l+1]
	for _, lk := range g.links[l] {
		edges = append(edges, placed{sp: spos[lk.src], tp: tpos[lk.tgt], w: lk.w})
	}
	g.scratch = edges

	slices.SortFunc(edges, func(a, b placed) int {
		if a.sp != b.sp {
			return a.sp - b.sp
		}
		return a.tp - b.tp
	})

	size := len(tpos) + 1
	if cap(g.fenwick) < size {
		g.fenwick = make([]int64, size)
	}
	fenwick := g.fenwick[:size]
	clear(fenwick)

	var crossings, total int64
	for _, e := range edges {
		// weight seen so far with target <= e.tp
		var lessOrEqual int64
		for q := e.tp + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += e.w * (total - lessOrEqual)

		total += e.w
		for idx := e.tp + 1; idx < size; idx += idx & (-idx) {
			fenwick[idx] += e.w
		}
	}
	return crossings
}

// incidentCrossings is the crossing count on both sides of layer l.
func (g *Graph[K]) incidentCrossings(l int) int64 {
	return g.CountLayerCrossings(l-1) + g.CountLayerCrossings(l)
}
