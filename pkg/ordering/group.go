package ordering

import (
	"slices"
	"strings"

	"github.com/matzehuels/untangle/pkg/dag"
	"github.com/matzehuels/untangle/pkg/untangle"
)

// groupRow makes every group of ids contiguous and returns the reordered
// row with its hierarchy levels. Groups keep the position of their first
// member and members keep their relative order, so an already contiguous
// row is returned unchanged. A row without any group path gets nil levels.
func groupRow(g *dag.DAG, ids []string, groupOf GroupFunc) ([]string, [][]int, error) {
	paths := make([][]string, len(ids))
	depth := 0
	for i, id := range ids {
		n, _ := g.Node(id)
		paths[i] = splitPath(groupOf(n))
		depth = max(depth, len(paths[i]))
	}
	if depth == 0 {
		return ids, nil, nil
	}

	// labels[k][i] is the prefix of node i's path down to level k.
	labels := make([][]string, depth)
	rank := make([][]int, depth)
	for k := range depth {
		labels[k] = make([]string, len(ids))
		rank[k] = make([]int, len(ids))
		first := make(map[string]int)
		for i, p := range paths {
			label := strings.Join(p[:min(k+1, len(p))], "/")
			labels[k][i] = label
			if _, ok := first[label]; !ok {
				first[label] = len(first)
			}
			rank[k][i] = first[label]
		}
	}

	idx := make([]int, len(ids))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		for k := range depth {
			if d := rank[k][a] - rank[k][b]; d != 0 {
				return d
			}
		}
		return 0
	})

	ordered := make([]string, len(ids))
	levels := make([][]int, depth)
	for k := range depth {
		row := make([]string, len(ids))
		for i, j := range idx {
			row[i] = labels[k][j]
			ordered[i] = ids[j]
		}
		sizes, err := untangle.GroupSizes(row)
		if err != nil {
			return nil, nil, err
		}
		levels[k] = sizes
	}
	return ordered, levels, nil
}
