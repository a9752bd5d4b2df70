package untangle

import "slices"

// neighbor is an incident edge expressed by the position of its far end.
type neighbor struct {
	pos int
	w   int64
}

// deltaTable holds, for one layer, the change in crossings caused by moving
// node b directly left of node a when a sits directly left of b:
//
//	delta(a, b) = c(b, a) − c(a, b)
//
// where c(x, y) is the weighted crossing count between the edges of x and y
// when x is left of y. The table is antisymmetric. Entries only depend on the
// positions in the neighboring layers, so they stay exact while the layer
// itself is permuted and go stale when a neighbor layer changes.
type deltaTable struct {
	n       int
	m       []int64
	upVer   uint64
	downVer uint64
	valid   bool
}

func (d *deltaTable) at(a, b int) int64 { return d.m[a*d.n+b] }

// deltas returns the up-to-date table for layer l, rebuilding it if a
// neighboring layer changed since it was last built.
func (o *Optimizer[K]) deltas(l int) *deltaTable {
	g := o.g
	d := &o.tables[l]
	var upVer, downVer uint64
	if l > 0 {
		upVer = g.version[l-1]
	}
	if l+1 < len(g.keys) {
		downVer = g.version[l+1]
	}
	if d.valid && d.upVer == upVer && d.downVer == downVer {
		return d
	}

	n := len(g.keys[l])
	if d.n != n || d.m == nil {
		d.n = n
		d.m = make([]int64, n*n)
	} else {
		clear(d.m)
	}
	if l > 0 {
		addPairDeltas(d, o.groups[l], neighborLists(g.up[l], g.pos[l-1]))
	}
	if l+1 < len(g.keys) {
		addPairDeltas(d, o.groups[l], neighborLists(g.down[l], g.pos[l+1]))
	}
	d.upVer, d.downVer, d.valid = upVer, downVer, true
	return d
}

// neighborLists maps each node's adjacency to neighbor positions sorted
// ascending.
func neighborLists(nodes [][]adj, pos []int) [][]neighbor {
	out := make([][]neighbor, len(nodes))
	for id, as := range nodes {
		if len(as) == 0 {
			continue
		}
		ns := make([]neighbor, len(as))
		for i, a := range as {
			ns[i] = neighbor{pos: pos[a.node], w: a.w}
		}
		slices.SortFunc(ns, func(x, y neighbor) int { return x.pos - y.pos })
		out[id] = ns
	}
	return out
}

// addPairDeltas accumulates the contribution of one neighbor layer for every
// pair of nodes that share a group. Pairs in different groups can never
// become adjacent candidates, so they are skipped.
func addPairDeltas(d *deltaTable, groups [][]int, lists [][]neighbor) {
	for _, members := range groups {
		for i, a := range members {
			if len(lists[a]) == 0 {
				continue
			}
			for _, b := range members[i+1:] {
				if len(lists[b]) == 0 {
					continue
				}
				delta := pairDelta(lists[a], lists[b])
				d.m[a*d.n+b] += delta
				d.m[b*d.n+a] -= delta
			}
		}
	}
}

// pairDelta returns c(b, a) − c(a, b) for two position-sorted neighbor lists.
//
// With a left of b, an edge of a at position p crosses every edge of b whose
// far end lies strictly left of p. With b left of a, it crosses every edge of
// b strictly right of p. Both sums are exclusive cumulative weights of b, read
// off with two monotone cursors.
func pairDelta(a, b []neighbor) int64 {
	var totalB int64
	for _, e := range b {
		totalB += e.w
	}

	var keep, swap int64
	var less, lessOrEqual int64
	i, j := 0, 0
	for _, e := range a {
		for i < len(b) && b[i].pos < e.pos {
			less += b[i].w
			i++
		}
		for j < len(b) && b[j].pos <= e.pos {
			lessOrEqual += b[j].w
			j++
		}
		keep += e.w * less
		swap += e.w * (totalB - lessOrEqual)
	}
	return swap - keep
}
