package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists. IDs are unique across the whole graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidWeight is returned by [DAG.AddEdge] for a negative weight.
	ErrInvalidWeight = errors.New("edge weight must not be negative")

	// ErrInvalidEdgeEndpoint is returned by [DAG.Validate] when an edge
	// references a node that doesn't exist.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrNonConsecutiveRows is returned by [DAG.Validate] when an edge
	// does not go from row r to row r+1.
	ErrNonConsecutiveRows = errors.New("edges must connect consecutive rows")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a cycle is detected.
	ErrGraphHasCycle = errors.New("graph contains a cycle")

	// ErrRowMismatch is returned by [DAG.SetRowOrder] when the given IDs are
	// not a permutation of the row's nodes.
	ErrRowMismatch = errors.New("order is not a permutation of the row")
)

// Metadata stores arbitrary key-value pairs attached to nodes, edges, or the
// graph. Metadata maps are never nil after insertion.
type Metadata map[string]any

// NodeKind distinguishes input nodes from nodes created by transforms.
type NodeKind int

const (
	// NodeKindRegular is a node read from input.
	NodeKindRegular NodeKind = iota
	// NodeKindSubdivider is a dummy node inserted to split an edge that spans
	// more than one row. Subdividers keep a MasterID pointing at the edge's
	// source.
	NodeKindSubdivider
)

// Node is a vertex with an assigned row.
type Node struct {
	ID  string // Unique identifier
	Row int    // Layer assignment (0 = top)

	// Group is an optional slash-separated group path ("team/service"),
	// coarse to fine. Nodes sharing a full path are only reordered among
	// themselves by hierarchical orderers.
	Group string

	Meta Metadata // Arbitrary key-value metadata (never nil after AddNode)

	Kind     NodeKind
	MasterID string // origin node for subdividers
}

// IsSubdivider reports whether the node was inserted to break a long edge.
func (n Node) IsSubdivider() bool { return n.Kind == NodeKindSubdivider }

// EffectiveID returns MasterID if set, otherwise ID.
func (n Node) EffectiveID() string {
	if n.MasterID != "" {
		return n.MasterID
	}
	return n.ID
}

// Edge is a directed, weighted connection. A valid edge goes from row r to
// row r+1; see [DAG.Validate].
type Edge struct {
	From   string
	To     string
	Weight int64    // 0 on input means 1
	Meta   Metadata // never nil after AddEdge
}

// DAG is a directed acyclic graph whose nodes are arranged in rows.
//
// Each row remembers an order: the order nodes were added, until
// [DAG.SetRowOrder] replaces it. That order is the initial layer order handed
// to the crossing optimizer and the one exporters write back out.
//
// The zero value is not usable; call [New]. DAG is not safe for concurrent
// use without external synchronization.
type DAG struct {
	nodes    map[string]*Node
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string
	rows     map[int][]*Node
	meta     Metadata
}

// New creates an empty DAG with optional graph-level metadata.
func New(meta Metadata) *DAG {
	if meta == nil {
		meta = Metadata{}
	}
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		rows:     make(map[int][]*Node),
		meta:     meta,
	}
}

// Clone returns a deep copy of d with the same row orders. Metadata maps
// are copied one level deep.
func (d *DAG) Clone() *DAG {
	out := New(maps.Clone(d.meta))
	for _, n := range d.Nodes() {
		cp := *n
		cp.Meta = maps.Clone(n.Meta)
		_ = out.AddNode(cp)
	}
	for _, e := range d.edges {
		e.Meta = maps.Clone(e.Meta)
		_ = out.AddEdge(e)
	}
	return out
}

// Meta returns the graph-level metadata map.
func (d *DAG) Meta() Metadata { return d.meta }

// AddNode adds a node and appends it to its row.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	d.nodes[node.ID] = node
	d.rows[node.Row] = append(d.rows[node.Row], node)
	return nil
}

// SetRows reassigns rows and rebuilds the row index. Nodes absent from rows
// keep their current row. Within a row, nodes keep their previous relative
// order; nodes moving into a row are appended in ID order so the result is
// deterministic.
func (d *DAG) SetRows(rows map[string]int) {
	old := d.rows
	d.rows = make(map[int][]*Node)
	var moved []*Node
	for _, r := range slices.Sorted(maps.Keys(old)) {
		for _, n := range old[r] {
			if newRow, ok := rows[n.ID]; ok && newRow != n.Row {
				n.Row = newRow
				moved = append(moved, n)
				continue
			}
			d.rows[n.Row] = append(d.rows[n.Row], n)
		}
	}
	slices.SortFunc(moved, func(a, b *Node) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	for _, n := range moved {
		d.rows[n.Row] = append(d.rows[n.Row], n)
	}
}

// AddEdge adds a directed edge between two existing nodes. A zero weight is
// stored as 1. AddEdge does not check rows; use [DAG.Validate].
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if e.Weight < 0 {
		return ErrInvalidWeight
	}
	if e.Weight == 0 {
		e.Weight = 1
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes every edge from→to.
func (d *DAG) RemoveEdge(from, to string) {
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool { return e.From == from && e.To == to })
	d.outgoing[from] = slices.DeleteFunc(d.outgoing[from], func(s string) bool { return s == to })
	d.incoming[to] = slices.DeleteFunc(d.incoming[to], func(s string) bool { return s == from })
}

// Nodes returns all nodes in row order, then in-row order.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, 0, len(d.nodes))
	for _, r := range d.RowIDs() {
		nodes = append(nodes, d.rows[r]...)
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the targets of id's outgoing edges. Read-only.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the sources of id's incoming edges. Read-only.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// Node returns the node with the given ID.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// NodesInRow returns the nodes of row in their current order. Read-only.
func (d *DAG) NodesInRow(row int) []*Node { return d.rows[row] }

// RowOrder returns the IDs of row in their current order.
func (d *DAG) RowOrder(row int) []string { return NodeIDs(d.rows[row]) }

// RowOrders returns the current order of every row.
func (d *DAG) RowOrders() map[int][]string {
	out := make(map[int][]string, len(d.rows))
	for r, nodes := range d.rows {
		out[r] = NodeIDs(nodes)
	}
	return out
}

// SetRowOrder replaces the order of row. ids must be a permutation of the
// row's node IDs.
func (d *DAG) SetRowOrder(row int, ids []string) error {
	cur := d.rows[row]
	if len(ids) != len(cur) {
		return ErrRowMismatch
	}
	next := make([]*Node, len(ids))
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		n, ok := d.nodes[id]
		if !ok || n.Row != row || seen[id] {
			return ErrRowMismatch
		}
		seen[id] = true
		next[i] = n
	}
	d.rows[row] = next
	return nil
}

// RowCount returns the number of distinct rows.
func (d *DAG) RowCount() int { return len(d.rows) }

// RowIDs returns all row indices in ascending order.
func (d *DAG) RowIDs() []int {
	return slices.Sorted(maps.Keys(d.rows))
}

// MaxRow returns the highest row index, or 0 if the graph is empty.
func (d *DAG) MaxRow() int {
	if len(d.rows) == 0 {
		return 0
	}
	rowIDs := d.RowIDs()
	return rowIDs[len(rowIDs)-1]
}

// Sources returns nodes with no incoming edges, in row order.
func (d *DAG) Sources() []*Node {
	var sources []*Node
	for _, n := range d.Nodes() {
		if len(d.incoming[n.ID]) == 0 {
			sources = append(sources, n)
		}
	}
	return sources
}

// Sinks returns nodes with no outgoing edges, in row order.
func (d *DAG) Sinks() []*Node {
	var sinks []*Node
	for _, n := range d.Nodes() {
		if len(d.outgoing[n.ID]) == 0 {
			sinks = append(sinks, n)
		}
	}
	return sinks
}

// Validate checks that every edge joins existing nodes in consecutive rows
// and that the graph is acyclic.
func (d *DAG) Validate() error {
	if err := d.validateEdgeConsistency(); err != nil {
		return err
	}
	return d.detectCycles()
}

func (d *DAG) validateEdgeConsistency() error {
	for _, e := range d.edges {
		src, okS := d.nodes[e.From]
		dst, okD := d.nodes[e.To]
		if !okS || !okD {
			return ErrInvalidEdgeEndpoint
		}
		if dst.Row != src.Row+1 {
			return ErrNonConsecutiveRows
		}
	}
	return nil
}

func (d *DAG) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range d.outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
			}
			if hasCycle {
				return
			}
		}
		color[id] = black
	}

	for _, n := range d.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

// PosMap maps each ID to its index in ids.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodeIDs extracts the ID of each node, preserving order.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
