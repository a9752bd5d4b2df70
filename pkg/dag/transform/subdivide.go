package transform

import (
	"fmt"

	"github.com/matzehuels/untangle/pkg/dag"
)

// Subdivide replaces every edge spanning more than one row with a chain of
// single-row edges through [dag.NodeKindSubdivider] nodes:
//
//	Before: app (row 0) → core (row 3)
//	After:  app → app_sub_1 → app_sub_2 → core
//
// Every segment carries the original weight, so crossings between chains
// cost the same as crossings between the edges they stand for. Edge metadata
// is kept on the last segment only. Subdividers get MasterID set to the
// edge's source and IDs of the form "source_sub_row", with a numeric suffix
// on collision. It returns the number of subdividers added.
func Subdivide(g *dag.DAG) int {
	gen := newIDGen(g.Nodes())
	added := 0

	var toRemove []dag.Edge
	for _, e := range g.Edges() {
		src, srcOK := g.Node(e.From)
		dst, dstOK := g.Node(e.To)
		if !srcOK || !dstOK || dst.Row <= src.Row+1 {
			continue
		}

		toRemove = append(toRemove, e)
		prevID := src.ID
		for row := src.Row + 1; row < dst.Row; row++ {
			prevID = addSubdivider(g, gen, prevID, src, row, e.Weight)
			added++
		}
		if err := g.AddEdge(dag.Edge{From: prevID, To: dst.ID, Weight: e.Weight, Meta: e.Meta}); err != nil {
			panic(err)
		}
	}

	for _, e := range toRemove {
		g.RemoveEdge(e.From, e.To)
	}
	return added
}

func addSubdivider(g *dag.DAG, gen *idGen, from string, master *dag.Node, row int, weight int64) string {
	id := gen.next(master.EffectiveID(), row)
	if err := g.AddNode(dag.Node{
		ID:       id,
		Row:      row,
		Group:    master.Group,
		Kind:     dag.NodeKindSubdivider,
		MasterID: master.EffectiveID(),
	}); err != nil {
		panic(err)
	}
	if err := g.AddEdge(dag.Edge{From: from, To: id, Weight: weight}); err != nil {
		panic(err)
	}
	return id
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(nodes []*dag.Node) *idGen {
	m := make(map[string]struct{}, len(nodes)*2)
	for _, n := range nodes {
		m[n.ID] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(base string, row int) string {
	prefix := fmt.Sprintf("%s_sub_%d", base, row)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
