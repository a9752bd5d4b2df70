package transform

import (
	"testing"

	"github.com/matzehuels/untangle/pkg/dag"
)

func TestAssignLayers_LongestPath(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}, {"c", "d"}})

	AssignLayers(g)

	want := map[string]int{"a": 0, "b": 1, "c": 2, "d": 3}
	for id, row := range want {
		n, _ := g.Node(id)
		if n.Row != row {
			t.Errorf("%s.Row = %d, want %d", id, n.Row, row)
		}
	}
}

func TestAssignLayers_KeepsRowOrder(t *testing.T) {
	g := dag.New(nil)
	for _, id := range []string{"root", "z", "y", "x"} {
		row := 1
		if id == "root" {
			row = 0
		}
		_ = g.AddNode(dag.Node{ID: id, Row: row})
	}
	for _, id := range []string{"z", "y", "x"} {
		_ = g.AddEdge(dag.Edge{From: "root", To: id})
	}

	AssignLayers(g)

	got := g.RowOrder(1)
	want := []string{"z", "y", "x"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("RowOrder(1) = %v, want %v", got, want)
		}
	}
}

func TestRowsConsistent(t *testing.T) {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "a", Row: 0})
	_ = g.AddNode(dag.Node{ID: "b", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "a", To: "b"})
	if !RowsConsistent(g) {
		t.Error("downward long edge should be consistent")
	}

	_ = g.AddEdge(dag.Edge{From: "b", To: "a"})
	if RowsConsistent(g) {
		t.Error("upward edge should be inconsistent")
	}
}
