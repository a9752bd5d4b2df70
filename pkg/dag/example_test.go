package dag_test

import (
	"fmt"

	"github.com/matzehuels/untangle/pkg/dag"
)

func ExampleDAG_basic() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "app", Row: 0})
	_ = g.AddNode(dag.Node{ID: "lib", Row: 1})
	_ = g.AddNode(dag.Node{ID: "core", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "app", To: "lib", Weight: 2})
	_ = g.AddEdge(dag.Edge{From: "lib", To: "core"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Rows:", g.RowCount())
	fmt.Println("Default weight:", g.Edges()[1].Weight)
	fmt.Println("Valid:", g.Validate() == nil)
	// Output:
	// Nodes: 3
	// Edges: 2
	// Rows: 3
	// Default weight: 1
	// Valid: true
}

func ExampleDAG_SetRowOrder() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "a", Row: 0})
	_ = g.AddNode(dag.Node{ID: "b", Row: 0})
	_ = g.AddNode(dag.Node{ID: "c", Row: 0})

	fmt.Println(g.RowOrder(0))
	_ = g.SetRowOrder(0, []string{"c", "a", "b"})
	fmt.Println(g.RowOrder(0))
	fmt.Println(g.SetRowOrder(0, []string{"a", "b"}))
	// Output:
	// [a b c]
	// [c a b]
	// order is not a permutation of the row
}

func ExampleNode_EffectiveID() {
	regular := dag.Node{ID: "lib"}
	subdivider := dag.Node{ID: "app_sub_1", Kind: dag.NodeKindSubdivider, MasterID: "app"}

	fmt.Println(regular.EffectiveID(), regular.IsSubdivider())
	fmt.Println(subdivider.EffectiveID(), subdivider.IsSubdivider())
	// Output:
	// lib false
	// app true
}

func ExampleCountLayerCrossings() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "a", Row: 0})
	_ = g.AddNode(dag.Node{ID: "b", Row: 0})
	_ = g.AddNode(dag.Node{ID: "x", Row: 1})
	_ = g.AddNode(dag.Node{ID: "y", Row: 1})

	// a→y and b→x cross while a is left of b
	_ = g.AddEdge(dag.Edge{From: "a", To: "y", Weight: 2})
	_ = g.AddEdge(dag.Edge{From: "b", To: "x", Weight: 3})

	lower := []string{"x", "y"}
	fmt.Println("Crossings:", dag.CountLayerCrossings(g, []string{"a", "b"}, lower))
	fmt.Println("After reorder:", dag.CountLayerCrossings(g, []string{"b", "a"}, lower))
	// Output:
	// Crossings: 6
	// After reorder: 0
}
