package untangle

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/untangle/pkg/dag/perm"
	errs "github.com/matzehuels/untangle/pkg/errors"
)

var (
	// ErrLayerMismatch is returned when the number of edge layers is not
	// one less than the number of node layers.
	ErrLayerMismatch = errors.New("edge layers do not match node layers")

	// ErrDuplicateNode is returned when a key appears twice in one layer.
	ErrDuplicateNode = errors.New("duplicate node in layer")

	// ErrDanglingEdge is returned when an edge endpoint is not a member of
	// the layer it must belong to.
	ErrDanglingEdge = errors.New("edge endpoint not found in layer")

	// ErrNonPositiveWeight is returned for edges with weight <= 0.
	ErrNonPositiveWeight = errors.New("edge weight must be positive")

	// ErrEmptyLayer is returned when an empty layer has incident edges.
	ErrEmptyLayer = errors.New("empty layer has incident edges")

	// ErrInvalidHierarchy is returned when group sizes do not describe a
	// nested partition of a layer.
	ErrInvalidHierarchy = errors.New("invalid hierarchy")
)

// Edge connects Source in layer i to Target in layer i+1.
type Edge[K comparable] struct {
	Source K
	Target K
	Weight int64
}

// link is a merged edge between two node ids of adjacent layers.
type link struct {
	src, tgt int
	w        int64
}

// adj is one neighbor of a node in an adjacent layer.
type adj struct {
	node int
	w    int64
}

// Graph is a layered graph whose edges only join adjacent layers.
//
// Nodes are identified by their key within a layer; the same key may appear
// in different layers. Layer membership is fixed at construction. Only the
// order within each layer changes, and only through adjacent swaps.
//
// A Graph is not safe for concurrent use.
type Graph[K comparable] struct {
	keys    [][]K       // keys[l][id]
	index   []map[K]int // key -> id
	order   [][]int     // order[l][position] = id
	pos     [][]int     // pos[l][id] = position
	links   [][]link    // merged edges between l and l+1
	down    [][][]adj   // down[l][id] = neighbors in l+1
	up      [][][]adj   // up[l][id] = neighbors in l-1
	version []uint64    // bumped on every order change of a layer

	fenwick []int64
	scratch []placed
}

// NewGraph validates and copies layers and edges into a new Graph. The
// initial order of each layer is the order given. edges[i] holds the edges
// between layers[i] and layers[i+1]; parallel edges are merged by summing
// their weights.
//
// Errors carry the VALIDATION_ERROR code and wrap one of the package
// sentinels.
func NewGraph[K comparable](layers [][]K, edges [][]Edge[K]) (*Graph[K], error) {
	want := max(len(layers)-1, 0)
	if len(edges) != want {
		return nil, errs.Wrap(errs.ErrCodeValidation, ErrLayerMismatch,
			"%d node layers need %d edge layers, got %d", len(layers), want, len(edges))
	}

	n := len(layers)
	g := &Graph[K]{
		keys:    make([][]K, n),
		index:   make([]map[K]int, n),
		order:   make([][]int, n),
		pos:     make([][]int, n),
		links:   make([][]link, want),
		down:    make([][][]adj, n),
		up:      make([][][]adj, n),
		version: make([]uint64, n),
	}

	for l, layer := range layers {
		g.keys[l] = slices.Clone(layer)
		g.index[l] = make(map[K]int, len(layer))
		for id, k := range layer {
			if _, dup := g.index[l][k]; dup {
				return nil, errs.Wrap(errs.ErrCodeValidation, ErrDuplicateNode,
					"layer %d: node %v", l, k)
			}
			g.index[l][k] = id
		}
		g.order[l] = perm.Seq(len(layer))
		g.pos[l] = perm.Seq(len(layer))
		g.down[l] = make([][]adj, len(layer))
		g.up[l] = make([][]adj, len(layer))
	}

	for l, layerEdges := range edges {
		if len(layerEdges) > 0 && (len(layers[l]) == 0 || len(layers[l+1]) == 0) {
			return nil, errs.Wrap(errs.ErrCodeValidation, ErrEmptyLayer,
				"edge layer %d joins layers of size %d and %d", l, len(layers[l]), len(layers[l+1]))
		}
		merged := make(map[[2]int]int64, len(layerEdges))
		var pairs [][2]int
		for _, e := range layerEdges {
			if e.Weight <= 0 {
				return nil, errs.Wrap(errs.ErrCodeValidation, ErrNonPositiveWeight,
					"edge %v -> %v in layer %d has weight %d", e.Source, e.Target, l, e.Weight)
			}
			s, ok := g.index[l][e.Source]
			if !ok {
				return nil, errs.Wrap(errs.ErrCodeValidation, ErrDanglingEdge,
					"source %v missing from layer %d", e.Source, l)
			}
			t, ok := g.index[l+1][e.Target]
			if !ok {
				return nil, errs.Wrap(errs.ErrCodeValidation, ErrDanglingEdge,
					"target %v missing from layer %d", e.Target, l+1)
			}
			key := [2]int{s, t}
			if _, seen := merged[key]; !seen {
				pairs = append(pairs, key)
			}
			merged[key] += e.Weight
		}
		g.links[l] = make([]link, 0, len(pairs))
		for _, p := range pairs {
			w := merged[p]
			g.links[l] = append(g.links[l], link{src: p[0], tgt: p[1], w: w})
			g.down[l][p[0]] = append(g.down[l][p[0]], adj{node: p[1], w: w})
			g.up[l+1][p[1]] = append(g.up[l+1][p[1]], adj{node: p[0], w: w})
		}
	}
	return g, nil
}

// NumLayers returns the number of layers.
func (g *Graph[K]) NumLayers() int { return len(g.keys) }

// NumNodes returns the total number of nodes across all layers.
func (g *Graph[K]) NumNodes() int {
	total := 0
	for _, layer := range g.keys {
		total += len(layer)
	}
	return total
}

// LayerSize returns the number of nodes in layer l.
func (g *Graph[K]) LayerSize(l int) int { return len(g.keys[l]) }

// Layer returns a copy of layer l in its current order.
func (g *Graph[K]) Layer(l int) []K {
	out := make([]K, len(g.order[l]))
	for p, id := range g.order[l] {
		out[p] = g.keys[l][id]
	}
	return out
}

// Nodes returns a copy of every layer in its current order.
func (g *Graph[K]) Nodes() [][]K {
	out := make([][]K, len(g.keys))
	for l := range g.keys {
		out[l] = g.Layer(l)
	}
	return out
}

// Position returns the current position of key in layer l.
func (g *Graph[K]) Position(l int, key K) (int, bool) {
	if l < 0 || l >= len(g.keys) {
		return 0, false
	}
	id, ok := g.index[l][key]
	if !ok {
		return 0, false
	}
	return g.pos[l][id], true
}

// Edges returns the merged edges between layer l and l+1 in insertion order.
func (g *Graph[K]) Edges(l int) []Edge[K] {
	out := make([]Edge[K], len(g.links[l]))
	for i, lk := range g.links[l] {
		out[i] = Edge[K]{Source: g.keys[l][lk.src], Target: g.keys[l+1][lk.tgt], Weight: lk.w}
	}
	return out
}

// SwapAdjacent exchanges the nodes at positions p and p+1 of layer l.
func (g *Graph[K]) SwapAdjacent(l, p int) error {
	if l < 0 || l >= len(g.keys) {
		return errs.New(errs.ErrCodeUsage, "layer %d out of range [0, %d)", l, len(g.keys))
	}
	if p < 0 || p+1 >= len(g.order[l]) {
		return errs.New(errs.ErrCodeUsage, "position %d has no right neighbor in layer %d of size %d", p, l, len(g.order[l]))
	}
	g.swap(l, p)
	return nil
}

func (g *Graph[K]) swap(l, p int) {
	order, pos := g.order[l], g.pos[l]
	a, b := order[p], order[p+1]
	order[p], order[p+1] = b, a
	pos[a], pos[b] = p+1, p
	g.version[l]++
}

// revision changes whenever any layer order changes.
func (g *Graph[K]) revision() uint64 {
	var sum uint64
	for _, v := range g.version {
		sum += v
	}
	return sum
}

// snapshot copies the current order of every layer.
func (g *Graph[K]) snapshot() [][]int {
	out := make([][]int, len(g.order))
	for l, o := range g.order {
		out[l] = slices.Clone(o)
	}
	return out
}

// restore installs orders previously taken with snapshot.
func (g *Graph[K]) restore(orders [][]int) {
	for l, o := range orders {
		if slices.Equal(g.order[l], o) {
			continue
		}
		copy(g.order[l], o)
		for p, id := range o {
			g.pos[l][id] = p
		}
		g.version[l]++
	}
}

func (g *Graph[K]) String() string {
	return fmt.Sprintf("Graph(layers=%d, nodes=%d)", g.NumLayers(), g.NumNodes())
}
