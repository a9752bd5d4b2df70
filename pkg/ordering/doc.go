// Package ordering chooses the left-to-right order of nodes in each row of a
// layered [dag.DAG].
//
// # Orderers
//
// [Annealing] translates the DAG into an [untangle.Graph] keyed by node ID,
// runs the simulated-annealing optimizer from its current row orders, and
// returns the best order found. [Exhaustive] tries every combination of row
// permutations and is meant for tiny graphs and tests. [Annealing.Tune]
// reorders a single row at a fixed temperature and [Annealing.Cooldown]
// anneals a single row along the cooling schedule; both leave the other
// rows alone. [Count] reports the crossings of the current orders.
//
// Orderers return new orders and leave the graph alone; use [Apply] to write
// them back:
//
//	orders, err := ordering.Annealing{}.OrderRows(g)
//	if err != nil {
//	    return err
//	}
//	_ = ordering.Apply(g, orders)
//
// # Groups
//
// With [Annealing.GroupBy] set, each node's group path ("team/service")
// becomes a hierarchy level per path segment. Rows are first rearranged so
// each group is contiguous, keeping the order in which groups first appear,
// and the optimizer then only swaps nodes inside their innermost group.
package ordering
