package ordering

import (
	"context"
	"maps"
	"slices"

	"github.com/matzehuels/untangle/pkg/dag"
	"github.com/matzehuels/untangle/pkg/dag/perm"
	errs "github.com/matzehuels/untangle/pkg/errors"
)

// DefaultExhaustiveLimit bounds the number of row-order combinations
// [Exhaustive] will try.
const DefaultExhaustiveLimit = 1 << 20

// Exhaustive finds a minimum-crossing order by trying every combination of
// row permutations. It is only practical for tiny graphs and serves as a
// reference for the annealing orderer. Grouping is not supported.
type Exhaustive struct {
	// Limit caps the size of the search space (product of row factorials).
	// Zero means DefaultExhaustiveLimit.
	Limit int
}

// OrderRows implements [Orderer].
func (e Exhaustive) OrderRows(g *dag.DAG) (map[int][]string, error) {
	return e.OrderRowsContext(context.Background(), g)
}

// OrderRowsContext implements [ContextOrderer]. The context is checked
// between candidates of the first row.
func (e Exhaustive) OrderRowsContext(ctx context.Context, g *dag.DAG) (map[int][]string, error) {
	limit := e.Limit
	if limit <= 0 {
		limit = DefaultExhaustiveLimit
	}

	rows := slices.Sorted(maps.Keys(g.RowOrders()))
	base := g.RowOrders()
	space := 1
	for _, r := range rows {
		n := len(base[r])
		if n > 12 {
			return nil, errs.New(errs.ErrCodeUnsupported, "row %d has %d nodes, too many for exhaustive search", r, n)
		}
		space *= perm.Factorial(n)
		if space > limit {
			return nil, errs.New(errs.ErrCodeUnsupported, "search space exceeds %d orderings", limit)
		}
	}

	current := maps.Clone(base)
	best := maps.Clone(base)
	bestCount := dag.CountCrossings(g, base)

	var search func(i int) error
	search = func(i int) error {
		if bestCount == 0 {
			return nil
		}
		if i == len(rows) {
			if c := dag.CountCrossings(g, current); c < bestCount {
				bestCount = c
				for r, ids := range current {
					best[r] = slices.Clone(ids)
				}
			}
			return nil
		}
		r := rows[i]
		for p := range perm.All(len(base[r])) {
			if i == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			current[r] = perm.Apply(base[r], p)
			if err := search(i + 1); err != nil {
				return err
			}
		}
		return nil
	}

	err := search(0)
	return best, err
}
