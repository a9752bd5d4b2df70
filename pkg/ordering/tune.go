package ordering

import (
	"github.com/matzehuels/untangle/pkg/anneal"
	"github.com/matzehuels/untangle/pkg/dag"
	errs "github.com/matzehuels/untangle/pkg/errors"
	"github.com/matzehuels/untangle/pkg/untangle"
)

// TuneResult reports a single-row call such as [Annealing.Tune].
type TuneResult struct {
	Row     int
	Initial int64 // total crossings before tuning
	Final   int64 // total crossings after tuning
}

// Tune reorders a single row at a fixed temperature, running up to
// iterations passes over it. The other rows keep their order. Params are
// ignored; GroupBy, Seed and TieBreak apply as in [Annealing.Order].
// A temperature of 0 never makes the total worse.
func (a Annealing) Tune(g *dag.DAG, row, iterations int, temperature float64) (map[int][]string, TuneResult, error) {
	return a.single(g, row, func(opt *untangle.Optimizer[string], l int) (int64, error) {
		return opt.SwapNodes(l, iterations, temperature)
	})
}

// Cooldown reorders a single row along the cooling schedule of Params,
// keeping the best order it sees. The other rows keep their order.
func (a Annealing) Cooldown(g *dag.DAG, row int) (map[int][]string, TuneResult, error) {
	params := a.params()
	return a.single(g, row, func(opt *untangle.Optimizer[string], l int) (int64, error) {
		return opt.Cooldown(l, params)
	})
}

func (a Annealing) single(g *dag.DAG, row int, run func(*untangle.Optimizer[string], int) (int64, error)) (map[int][]string, TuneResult, error) {
	out := TuneResult{Row: row}
	if err := g.Validate(); err != nil {
		return nil, out, errs.Wrap(errs.ErrCodeValidation, err, "graph is not layered")
	}
	rows := g.RowIDs()
	if len(rows) == 0 || row < rows[0] || row > rows[len(rows)-1] {
		return nil, out, errs.New(errs.ErrCodeUsage, "row %d is not in the graph", row)
	}

	in, err := a.build(g)
	if err != nil {
		return nil, out, err
	}
	opt, err := untangle.NewHierarchyOptimizer(in.graph, in.hierarchy, a.options()...)
	if err != nil {
		return nil, out, err
	}

	out.Initial = opt.CountCrossings()
	out.Final, err = run(opt, row-in.first)
	if err != nil {
		return nil, out, err
	}
	return in.orders(opt.Nodes()), out, nil
}

func (a Annealing) params() anneal.Params {
	if a.Params == (anneal.Params{}) {
		return anneal.DefaultParams()
	}
	return a.Params
}
