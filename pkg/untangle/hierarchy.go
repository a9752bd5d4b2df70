package untangle

import (
	errs "github.com/matzehuels/untangle/pkg/errors"
)

// Hierarchy describes nested groups per layer as consecutive group sizes:
//
//	h[layer][level] = []size
//
// Levels run from coarse to fine. Each level partitions the layer's initial
// order into contiguous runs, and every border of a coarser level must also
// be a border of each finer level. A nil or empty entry leaves that layer
// flat.
//
// Only nodes inside the same innermost group are ever swapped, so the
// relative order of groups at every level is preserved.
type Hierarchy [][][]int

// validate checks h against the layer sizes of a graph.
func (h Hierarchy) validate(sizes []int) error {
	if len(h) != len(sizes) {
		return errs.Wrap(errs.ErrCodeValidation, ErrInvalidHierarchy,
			"hierarchy has %d layers, graph has %d", len(h), len(sizes))
	}
	for l, levels := range h {
		var coarser map[int]bool
		for lv, groups := range levels {
			borders := make(map[int]bool, len(groups))
			sum := 0
			for gi, size := range groups {
				if size <= 0 {
					return errs.Wrap(errs.ErrCodeValidation, ErrInvalidHierarchy,
						"layer %d level %d group %d has size %d", l, lv, gi, size)
				}
				sum += size
				borders[sum] = true
			}
			if sum != sizes[l] {
				return errs.Wrap(errs.ErrCodeValidation, ErrInvalidHierarchy,
					"layer %d level %d covers %d nodes, layer has %d", l, lv, sum, sizes[l])
			}
			for b := range coarser {
				if !borders[b] {
					return errs.Wrap(errs.ErrCodeValidation, ErrInvalidHierarchy,
						"layer %d level %d splits a group of level %d at %d", l, lv, lv-1, b)
				}
			}
			coarser = borders
		}
	}
	return nil
}

// innermost returns the finest group sizes of layer l, or a single group
// spanning the layer when it has no hierarchy.
func (h Hierarchy) innermost(l, size int) []int {
	if l < len(h) && len(h[l]) > 0 {
		return h[l][len(h[l])-1]
	}
	if size == 0 {
		return nil
	}
	return []int{size}
}

// partition derives the node groups and candidate swap positions of every
// layer from the graph's current order.
func partition[K comparable](g *Graph[K], h Hierarchy) (groups [][][]int, candidates [][]int) {
	groups = make([][][]int, len(g.keys))
	candidates = make([][]int, len(g.keys))
	for l := range g.keys {
		start := 0
		for _, size := range h.innermost(l, len(g.keys[l])) {
			members := make([]int, size)
			copy(members, g.order[l][start:start+size])
			groups[l] = append(groups[l], members)
			for j := start; j+1 < start+size; j++ {
				candidates[l] = append(candidates[l], j)
			}
			start += size
		}
	}
	return groups, candidates
}

// NewHierarchyOptimizer returns an optimizer that only reorders nodes within
// their innermost group of h. The hierarchy is read against g's current
// order. Errors carry VALIDATION_ERROR and wrap [ErrInvalidHierarchy].
func NewHierarchyOptimizer[K comparable](g *Graph[K], h Hierarchy, opts ...Option) (*Optimizer[K], error) {
	if g == nil {
		return nil, errs.New(errs.ErrCodeUsage, "optimizer requires a graph")
	}
	sizes := make([]int, g.NumLayers())
	for l := range sizes {
		sizes[l] = g.LayerSize(l)
	}
	if h == nil {
		h = make(Hierarchy, len(sizes))
	}
	if err := h.validate(sizes); err != nil {
		return nil, err
	}
	return newOptimizer(g, h, opts)
}

// GroupSizes turns per-node group labels, given in layer order, into the
// run lengths of consecutive equal labels. It fails if a label reappears
// after a different one, since such a group would not be contiguous.
func GroupSizes[L comparable](labels []L) ([]int, error) {
	var sizes []int
	seen := make(map[L]bool)
	for i, label := range labels {
		if i > 0 && labels[i-1] == label {
			sizes[len(sizes)-1]++
			continue
		}
		if seen[label] {
			return nil, errs.Wrap(errs.ErrCodeValidation, ErrInvalidHierarchy,
				"group %v is not contiguous at position %d", label, i)
		}
		seen[label] = true
		sizes = append(sizes, 1)
	}
	return sizes, nil
}
