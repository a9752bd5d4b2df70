package untangle

import (
	"math/rand/v2"
	"testing"
)

// randomLayered builds layers of the given sizes with integer keys unique
// per layer and roughly density·|Li|·|Li+1| weighted edges per pair.
func randomLayered(seed uint64, sizes []int, density float64, maxWeight int64) ([][]int, [][]Edge[int]) {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	layers := make([][]int, len(sizes))
	for l, n := range sizes {
		for i := range n {
			layers[l] = append(layers[l], l*1000+i)
		}
	}
	edges := make([][]Edge[int], max(len(sizes)-1, 0))
	for l := range edges {
		for _, s := range layers[l] {
			for _, t := range layers[l+1] {
				if rng.Float64() < density {
					edges[l] = append(edges[l], Edge[int]{Source: s, Target: t, Weight: 1 + rng.Int64N(maxWeight)})
				}
			}
		}
	}
	return layers, edges
}

// bruteCrossings counts crossings pair by pair from current positions.
func bruteCrossings[K comparable](g *Graph[K]) int64 {
	var total int64
	for l := 0; l+1 < g.NumLayers(); l++ {
		edges := g.Edges(l)
		for i := range edges {
			for j := i + 1; j < len(edges); j++ {
				s1, _ := g.Position(l, edges[i].Source)
				s2, _ := g.Position(l, edges[j].Source)
				t1, _ := g.Position(l+1, edges[i].Target)
				t2, _ := g.Position(l+1, edges[j].Target)
				if (s1 < s2 && t1 > t2) || (s2 < s1 && t2 > t1) {
					total += edges[i].Weight * edges[j].Weight
				}
			}
		}
	}
	return total
}

func mustGraph[K comparable](t *testing.T, layers [][]K, edges [][]Edge[K]) *Graph[K] {
	t.Helper()
	g, err := NewGraph(layers, edges)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	return g
}

// twoCrossings has two crossings: c->e passes under a->f and b->f.
func twoCrossings() ([][]string, [][]Edge[string]) {
	return [][]string{{"a", "b", "c"}, {"d", "e", "f"}},
		[][]Edge[string]{{
			{Source: "a", Target: "f", Weight: 1},
			{Source: "b", Target: "f", Weight: 1},
			{Source: "c", Target: "e", Weight: 1},
		}}
}
