package untangle

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/untangle/pkg/anneal"
	errs "github.com/matzehuels/untangle/pkg/errors"
)

func TestHierarchyValidation(t *testing.T) {
	layers, edges := randomLayered(1, []int{4, 3}, 0.5, 2)
	g := mustGraph(t, layers, edges)

	tests := []struct {
		name    string
		h       Hierarchy
		wantErr bool
	}{
		{"nil is flat", nil, false},
		{"empty entries are flat", Hierarchy{nil, {}}, false},
		{"single level", Hierarchy{{{2, 2}}, {{1, 2}}}, false},
		{"two levels", Hierarchy{{{2, 2}, {1, 1, 1, 1}}, nil}, false},
		{"three levels", Hierarchy{{{4}, {2, 2}, {1, 1, 2}}, nil}, false},
		{"wrong layer count", Hierarchy{{{4}}}, true},
		{"zero size", Hierarchy{{{0, 4}}, nil}, true},
		{"negative size", Hierarchy{{{-1, 5}}, nil}, true},
		{"sum too small", Hierarchy{{{1, 2}}, nil}, true},
		{"sum too large", Hierarchy{{{3, 2}}, nil}, true},
		{"not nested", Hierarchy{{{2, 2}, {1, 3}}, nil}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHierarchyOptimizer(g, tt.h)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewHierarchyOptimizer() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrInvalidHierarchy) || !errs.Is(err, errs.ErrCodeValidation) {
				t.Errorf("error = %v, want validation error wrapping ErrInvalidHierarchy", err)
			}
		})
	}
}

// groupSets returns, per innermost span, the set of keys occupying it.
func groupSets(g *Graph[int], h Hierarchy) [][][]int {
	out := make([][][]int, g.NumLayers())
	for l := range g.NumLayers() {
		layer := g.Layer(l)
		start := 0
		for _, size := range h.innermost(l, len(layer)) {
			span := slices.Clone(layer[start : start+size])
			slices.Sort(span)
			out[l] = append(out[l], span)
			start += size
		}
	}
	return out
}

func TestHierarchyPreservesGroups(t *testing.T) {
	sizes := []int{8, 9, 6}
	h := Hierarchy{
		{{5, 3}, {2, 3, 1, 2}},
		{{4, 5}, {1, 3, 2, 3}},
		{{6}, {3, 3}},
	}
	for seed := range uint64(6) {
		layers, edges := randomLayered(seed, sizes, 0.3, 3)
		g := mustGraph(t, layers, edges)
		want := groupSets(g, h)

		o, err := NewHierarchyOptimizer(g, h, WithSeed(seed), WithAcceptFunc(acceptAll), WithTieBreak(1))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := o.Optimize(context.Background(), anneal.Params{
			InitialTemp: 5, CoolingRate: 0.8, MinTemp: 0.01, MaxIterations: 30, Reheats: 1,
		}); err != nil {
			t.Fatal(err)
		}
		for l := range sizes {
			if _, err := o.SwapNodes(l, 3, 2); err != nil {
				t.Fatal(err)
			}
		}

		if got := groupSets(g, h); !slices.EqualFunc(got, want, func(a, b [][]int) bool {
			return slices.EqualFunc(a, b, slices.Equal)
		}) {
			t.Errorf("seed %d: group membership changed:\n got %v\nwant %v", seed, got, want)
		}
		if recount := g.CountCrossings(); recount != o.CountCrossings() {
			t.Errorf("seed %d: running total %d, recount %d", seed, o.CountCrossings(), recount)
		}
	}
}

func TestHierarchySingletonGroupsFreezeLayer(t *testing.T) {
	layers, edges := twoCrossings()
	g := mustGraph(t, layers, edges)
	o, err := NewHierarchyOptimizer(g, Hierarchy{{{1, 1, 1}}, {{1, 1, 1}}})
	if err != nil {
		t.Fatal(err)
	}
	res, err := o.Optimize(context.Background(), anneal.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if res.Final != 2 || res.Reason != TerminationConverged {
		t.Errorf("Optimize() = %+v, want frozen at 2 crossings", res)
	}
	if got := o.Nodes(); !slices.Equal(got[0], layers[0]) || !slices.Equal(got[1], layers[1]) {
		t.Errorf("Nodes() = %v, want unchanged", got)
	}
}

func TestHierarchyAllowsIntraGroupImprovement(t *testing.T) {
	layers, edges := twoCrossings()
	g := mustGraph(t, layers, edges)
	// b and c share a group, a is alone: the b/c crossing can go, a/c cannot.
	o, err := NewHierarchyOptimizer(g, Hierarchy{{{1, 2}}, nil})
	if err != nil {
		t.Fatal(err)
	}
	got, err := o.SwapNodes(0, 5, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("SwapNodes() = %d, want 1", got)
	}
	if first := o.Nodes()[0][0]; first != "a" {
		t.Errorf("a left its singleton group: %v", o.Nodes()[0])
	}
}

func TestGroupSizes(t *testing.T) {
	tests := []struct {
		labels  []string
		want    []int
		wantErr bool
	}{
		{nil, nil, false},
		{[]string{"x"}, []int{1}, false},
		{[]string{"x", "x", "y", "z", "z", "z"}, []int{2, 1, 3}, false},
		{[]string{"x", "y", "x"}, nil, true},
	}
	for _, tt := range tests {
		got, err := GroupSizes(tt.labels)
		if (err != nil) != tt.wantErr {
			t.Errorf("GroupSizes(%v) error = %v, wantErr %v", tt.labels, err, tt.wantErr)
			continue
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("GroupSizes(%v) = %v, want %v", tt.labels, got, tt.want)
		}
	}
}
