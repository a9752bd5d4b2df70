// Package dag provides a string-keyed directed acyclic graph whose nodes are
// arranged in rows.
//
// # Overview
//
// Input graphs arrive as nodes with IDs, optional rows, and weighted edges.
// Before the crossing optimizer can work on them they must be layered: every
// edge has to join row r to row r+1. This package holds the graph in that
// shape and remembers the left-to-right order of every row.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "app", Row: 0})
//	g.AddNode(dag.Node{ID: "lib", Row: 1})
//	g.AddEdge(dag.Edge{From: "app", To: "lib", Weight: 3})
//
// [DAG.Validate] checks that edges join consecutive rows and that there are
// no cycles. Graphs that are not layered yet go through
// [transform.Normalize] first.
//
// # Row Orders
//
// Rows keep insertion order until [DAG.SetRowOrder] replaces it. The
// orderers in package ordering read these orders as their starting point and
// write their result back with SetRowOrder.
//
// # Groups
//
// [Node.Group] carries an optional slash-separated group path. Hierarchical
// orderers only swap nodes that share a full path, and keep groups at every
// level in their relative order.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count weighted crossings with a
// Fenwick tree in O(E log V) per row pair. Parallel edges count separately,
// which is the same as one edge with the summed weight.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Read-only operations such
// as counting crossings may run in parallel on a graph nobody modifies.
//
// [transform]: github.com/matzehuels/untangle/pkg/dag/transform
package dag
