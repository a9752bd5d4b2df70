package ordering

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/untangle/pkg/anneal"
	"github.com/matzehuels/untangle/pkg/dag"
	errs "github.com/matzehuels/untangle/pkg/errors"
	"github.com/matzehuels/untangle/pkg/observability"
	"github.com/matzehuels/untangle/pkg/untangle"
)

// Annealing orders rows with the simulated-annealing optimizer in package
// untangle. The graph's current row orders are the starting point, so
// calling it on an already ordered graph can only keep or improve it.
//
// The zero value uses [anneal.DefaultParams] and the default seed.
type Annealing struct {
	Params         anneal.Params // zero value means anneal.DefaultParams()
	Seed           *uint64       // nil means untangle.DefaultSeed
	TieBreak       *float64      // nil means untangle.DefaultTieBreak
	PassesPerLayer int           // zero means 1
	GroupBy        GroupFunc     // nil means every row is reordered freely
	Logger         *log.Logger
	Hooks          observability.OptimizerHooks
}

// OrderRows implements [Orderer].
func (a Annealing) OrderRows(g *dag.DAG) (map[int][]string, error) {
	return a.OrderRowsContext(context.Background(), g)
}

// OrderRowsContext implements [ContextOrderer]. On cancellation it returns
// the best order found so far together with the context error.
func (a Annealing) OrderRowsContext(ctx context.Context, g *dag.DAG) (map[int][]string, error) {
	orders, _, err := a.Order(ctx, g)
	return orders, err
}

// Order runs the optimizer and also returns its [untangle.Result].
// g must be a valid layered graph. With GroupBy set, the result's initial
// count is taken after groups were made contiguous.
func (a Annealing) Order(ctx context.Context, g *dag.DAG) (map[int][]string, untangle.Result, error) {
	if err := g.Validate(); err != nil {
		return nil, untangle.Result{}, errs.Wrap(errs.ErrCodeValidation, err, "graph is not layered")
	}

	in, err := a.build(g)
	if err != nil {
		return nil, untangle.Result{}, err
	}

	opt, err := untangle.NewHierarchyOptimizer(in.graph, in.hierarchy, a.options()...)
	if err != nil {
		return nil, untangle.Result{}, err
	}

	res, err := opt.Optimize(ctx, a.params())
	if err != nil && !isContextErr(ctx, err) {
		return nil, res, err
	}
	return in.orders(opt.Nodes()), res, err
}

func (a Annealing) options() []untangle.Option {
	var opts []untangle.Option
	if a.Seed != nil {
		opts = append(opts, untangle.WithSeed(*a.Seed))
	}
	if a.TieBreak != nil {
		opts = append(opts, untangle.WithTieBreak(*a.TieBreak))
	}
	if a.PassesPerLayer != 0 {
		opts = append(opts, untangle.WithPassesPerLayer(a.PassesPerLayer))
	}
	if a.Logger != nil {
		opts = append(opts, untangle.WithLogger(a.Logger))
	}
	if a.Hooks != nil {
		opts = append(opts, untangle.WithHooks(a.Hooks))
	}
	return opts
}

func isContextErr(ctx context.Context, err error) bool {
	return ctx.Err() != nil && errors.Is(err, ctx.Err())
}

// input is a dag.DAG translated into engine layers. Layer i holds row
// first+i; rows without nodes become empty layers.
type input struct {
	first     int
	graph     *untangle.Graph[string]
	hierarchy untangle.Hierarchy
}

func (in input) orders(layers [][]string) map[int][]string {
	out := make(map[int][]string, len(layers))
	for i, ids := range layers {
		if len(ids) > 0 {
			out[in.first+i] = ids
		}
	}
	return out
}

func (a Annealing) build(g *dag.DAG) (input, error) {
	rows := g.RowIDs()
	if len(rows) == 0 {
		graph, err := untangle.NewGraph[string](nil, nil)
		return input{graph: graph}, err
	}
	first, last := rows[0], rows[len(rows)-1]
	n := last - first + 1

	layers := make([][]string, n)
	var h untangle.Hierarchy
	if a.GroupBy != nil {
		h = make(untangle.Hierarchy, n)
	}
	for i := range n {
		ids := g.RowOrder(first + i)
		if a.GroupBy != nil {
			grouped, levels, err := groupRow(g, ids, a.GroupBy)
			if err != nil {
				return input{}, fmt.Errorf("row %d: %w", first+i, err)
			}
			ids, h[i] = grouped, levels
		}
		layers[i] = ids
	}

	edges := make([][]untangle.Edge[string], max(n-1, 0))
	for _, e := range g.Edges() {
		src, _ := g.Node(e.From)
		l := src.Row - first
		edges[l] = append(edges[l], untangle.Edge[string]{Source: e.From, Target: e.To, Weight: e.Weight})
	}

	graph, err := untangle.NewGraph(layers, edges)
	if err != nil {
		return input{}, err
	}
	return input{first: first, graph: graph, hierarchy: h}, nil
}
