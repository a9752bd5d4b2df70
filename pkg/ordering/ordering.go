package ordering

import (
	"context"
	"strings"

	"github.com/matzehuels/untangle/pkg/dag"
)

// Orderer computes a horizontal order for every row of a layered graph.
// The returned map holds a permutation of each row's node IDs; g itself is
// not modified.
type Orderer interface {
	OrderRows(g *dag.DAG) (map[int][]string, error)
}

// ContextOrderer is an Orderer that supports cancellation and timeouts
// via a context.
type ContextOrderer interface {
	Orderer
	OrderRowsContext(ctx context.Context, g *dag.DAG) (map[int][]string, error)
}

// GroupFunc returns a node's slash-separated group path, coarse to fine.
// An empty path means the node is ungrouped.
type GroupFunc func(n *dag.Node) string

// ByGroup groups nodes by [dag.Node.Group].
func ByGroup(n *dag.Node) string { return n.Group }

// ByMeta groups nodes by the string value of a metadata key. Subdividers
// have no metadata of their own and fall back to their Group, which
// subdivision copies from the edge's source.
func ByMeta(key string) GroupFunc {
	return func(n *dag.Node) string {
		if s, ok := n.Meta[key].(string); ok {
			return s
		}
		if n.IsSubdivider() {
			return n.Group
		}
		return ""
	}
}

// GroupFuncFor maps a CLI/API group key to a GroupFunc: "" means flat,
// "group" means [ByGroup], anything else is a metadata key.
func GroupFuncFor(key string) GroupFunc {
	switch key {
	case "":
		return nil
	case "group":
		return ByGroup
	}
	return ByMeta(key)
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Apply writes orders back into g as its row orders.
func Apply(g *dag.DAG, orders map[int][]string) error {
	for r, ids := range orders {
		if err := g.SetRowOrder(r, ids); err != nil {
			return err
		}
	}
	return nil
}
