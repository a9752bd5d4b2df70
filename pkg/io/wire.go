package io

import (
	"strconv"

	"github.com/matzehuels/untangle/pkg/dag"
	errs "github.com/matzehuels/untangle/pkg/errors"
)

var (
	kindToString   = map[dag.NodeKind]string{dag.NodeKindSubdivider: "subdivider"}
	kindFromString = map[string]dag.NodeKind{"subdivider": dag.NodeKindSubdivider}
)

type graph struct {
	Nodes []node       `json:"nodes"`
	Edges []edge       `json:"edges"`
	Meta  dag.Metadata `json:"meta,omitempty"`
}

type node struct {
	ID     string       `json:"id"`
	Row    *int         `json:"row,omitempty"`
	Group  string       `json:"group,omitempty"`
	Kind   string       `json:"kind,omitempty"`
	Master string       `json:"master,omitempty"`
	Meta   dag.Metadata `json:"meta,omitempty"`
}

type edge struct {
	From   string       `json:"from"`
	To     string       `json:"to"`
	Weight int64        `json:"weight,omitempty"`
	Meta   dag.Metadata `json:"meta,omitempty"`
}

func toWire(g *dag.DAG) graph {
	nodes := g.Nodes()
	edges := g.Edges()
	out := graph{
		Nodes: make([]node, len(nodes)),
		Edges: make([]edge, len(edges)),
	}
	if len(g.Meta()) > 0 {
		out.Meta = g.Meta()
	}

	for i, n := range nodes {
		row := n.Row
		nd := node{ID: n.ID, Row: &row, Group: n.Group, Master: n.MasterID}
		if len(n.Meta) > 0 {
			nd.Meta = n.Meta
		}
		if s, ok := kindToString[n.Kind]; ok {
			nd.Kind = s
		}
		out.Nodes[i] = nd
	}
	for i, e := range edges {
		ed := edge{From: e.From, To: e.To}
		if e.Weight != 1 {
			ed.Weight = e.Weight
		}
		if len(e.Meta) > 0 {
			ed.Meta = e.Meta
		}
		out.Edges[i] = ed
	}
	return out
}

func fromWire(data graph) (*dag.DAG, error) {
	g := dag.New(data.Meta)
	for i, n := range data.Nodes {
		nd := dag.Node{ID: n.ID, Group: n.Group, MasterID: n.Master, Meta: n.Meta}
		if n.Row != nil {
			nd.Row = *n.Row
		}
		if n.Kind != "" {
			k, ok := kindFromString[n.Kind]
			if !ok {
				return nil, errs.New(errs.ErrCodeInvalidInput, "node %d (%s): unknown kind %q", i, n.ID, n.Kind)
			}
			nd.Kind = k
		}
		if err := g.AddNode(nd); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "node %d (%s)", i, n.ID)
		}
	}
	for i, e := range data.Edges {
		if e.Weight < 0 {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, dag.ErrInvalidWeight,
				"edge %d (%s->%s): weight %d", i, e.From, e.To, e.Weight)
		}
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To, Weight: e.Weight, Meta: e.Meta}); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "edge %d (%s->%s)", i, e.From, e.To)
		}
	}
	return g, nil
}

func rowKey(r int) string { return strconv.Itoa(r) }
