package ordering

import (
	"github.com/matzehuels/untangle/pkg/dag"
	errs "github.com/matzehuels/untangle/pkg/errors"
)

// RowCrossings is the weighted crossing count between row Upper and row
// Upper+1.
type RowCrossings struct {
	Upper     int
	Crossings int64
}

// Count returns the weighted crossing count of g's current row orders and
// its breakdown by adjacent row pair. It uses the same counter as the
// optimizer. g must be a valid layered graph.
func Count(g *dag.DAG) (int64, []RowCrossings, error) {
	if err := g.Validate(); err != nil {
		return 0, nil, errs.Wrap(errs.ErrCodeValidation, err, "graph is not layered")
	}
	in, err := Annealing{}.build(g)
	if err != nil {
		return 0, nil, err
	}
	pairs := make([]RowCrossings, max(in.graph.NumLayers()-1, 0))
	for l := range pairs {
		pairs[l] = RowCrossings{Upper: in.first + l, Crossings: in.graph.CountLayerCrossings(l)}
	}
	return in.graph.CountCrossings(), pairs, nil
}
