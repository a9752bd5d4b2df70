package untangle

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/untangle/pkg/anneal"
	errs "github.com/matzehuels/untangle/pkg/errors"
	"github.com/matzehuels/untangle/pkg/observability"
)

// sweepRecorder captures the per-sweep crossing counts.
type sweepRecorder struct {
	observability.NoopOptimizerHooks
	started   bool
	crossings []int64
	reason    string
}

func (r *sweepRecorder) OnOptimizeStart(context.Context, int, int, int64) { r.started = true }

func (r *sweepRecorder) OnSweep(_ context.Context, _ int, _ float64, c int64, _ int) {
	r.crossings = append(r.crossings, c)
}

func (r *sweepRecorder) OnOptimizeComplete(_ context.Context, _ int64, _ int, reason string, _ time.Duration, _ error) {
	r.reason = reason
}

func acceptAll(int64, float64, anneal.Source) bool { return true }

func TestSwapNodesRemovesCrossings(t *testing.T) {
	layers, edges := twoCrossings()
	o, err := New(layers, edges)
	if err != nil {
		t.Fatal(err)
	}
	if got := o.CountCrossings(); got != 2 {
		t.Fatalf("initial CountCrossings() = %d, want 2", got)
	}

	got, err := o.SwapNodes(0, 10, 0)
	if err != nil {
		t.Fatalf("SwapNodes: %v", err)
	}
	if got != 0 {
		t.Errorf("SwapNodes() = %d, want 0", got)
	}
	if first := o.Nodes()[0][0]; first != "c" {
		t.Errorf("Nodes()[0] = %v, want c first", o.Nodes()[0])
	}
	if recount := o.Graph().CountCrossings(); recount != got {
		t.Errorf("recount = %d, running total = %d", recount, got)
	}
}

func TestSwapNodesNoEdges(t *testing.T) {
	o, err := New([][]int{{0, 1, 2}, {3, 4}}, [][]Edge[int]{nil})
	if err != nil {
		t.Fatal(err)
	}
	for l := range 2 {
		got, err := o.SwapNodes(l, 5, 1)
		if err != nil || got != 0 {
			t.Errorf("SwapNodes(%d) = %d, %v; want 0, nil", l, got, err)
		}
	}
}

func TestSwapNodesMonotoneAtZeroTemperature(t *testing.T) {
	for seed := range uint64(15) {
		layers, edges := randomLayered(seed, []int{6, 8, 7, 5}, 0.3, 4)
		o, err := New(layers, edges, WithSeed(seed))
		if err != nil {
			t.Fatal(err)
		}
		prev := o.CountCrossings()
		for round := range 12 {
			l := round % len(layers)
			got, err := o.SwapNodes(l, 3, 0)
			if err != nil {
				t.Fatal(err)
			}
			if got > prev {
				t.Fatalf("seed %d: SwapNodes(%d) raised crossings %d -> %d", seed, l, prev, got)
			}
			if recount := o.Graph().CountCrossings(); recount != got {
				t.Fatalf("seed %d: running total %d, recount %d", seed, got, recount)
			}
			prev = got
		}
	}
}

func TestSwapNodesUsageErrors(t *testing.T) {
	layers, edges := twoCrossings()
	o, err := New(layers, edges)
	if err != nil {
		t.Fatal(err)
	}
	before := o.Nodes()

	tests := []struct {
		name       string
		layer, its int
		temp       float64
	}{
		{"negative layer", -1, 1, 0},
		{"layer out of range", 2, 1, 0},
		{"zero iterations", 0, 0, 0},
		{"negative temperature", 0, 1, -1},
		{"nan temperature", 0, 1, math.NaN()},
		{"infinite temperature", 0, 1, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.SwapNodes(tt.layer, tt.its, tt.temp)
			if !errs.Is(err, errs.ErrCodeUsage) {
				t.Errorf("SwapNodes() error = %v, want usage error", err)
			}
		})
	}
	if !slices.EqualFunc(before, o.Nodes(), slices.Equal) {
		t.Error("usage errors modified the layer orders")
	}
}

func TestOptimizeReachesZero(t *testing.T) {
	layers, edges := twoCrossings()
	o, err := New(layers, edges)
	if err != nil {
		t.Fatal(err)
	}
	res, err := o.Optimize(context.Background(), anneal.DefaultParams())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if res.Initial != 2 || res.Final != 0 {
		t.Errorf("Optimize() = %+v, want 2 -> 0", res)
	}
	if res.Reason != TerminationZero {
		t.Errorf("Reason = %v, want %v", res.Reason, TerminationZero)
	}
	if o.State() != StateTerminated {
		t.Errorf("State() = %v, want %v", o.State(), StateTerminated)
	}
}

func TestOptimizeThreeLayersWithReheats(t *testing.T) {
	layers := [][]string{{"a", "b"}, {"c", "d", "e", "f"}, {"g", "h", "i"}}
	edges := [][]Edge[string]{
		{
			{Source: "a", Target: "f", Weight: 1},
			{Source: "a", Target: "d", Weight: 2},
			{Source: "b", Target: "c", Weight: 1},
			{Source: "b", Target: "e", Weight: 3},
		},
		{
			{Source: "c", Target: "i", Weight: 2},
			{Source: "d", Target: "g", Weight: 1},
			{Source: "e", Target: "h", Weight: 1},
			{Source: "f", Target: "g", Weight: 4},
		},
	}
	o, err := New(layers, edges)
	if err != nil {
		t.Fatal(err)
	}
	before := o.CountCrossings()

	p := anneal.Params{InitialTemp: 1, CoolingRate: 0.1, MinTemp: 1e-3, MaxIterations: 100, Reheats: 2}
	res, err := o.Optimize(context.Background(), p)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if res.Sweeps > p.MaxIterations {
		t.Errorf("Sweeps = %d, budget %d", res.Sweeps, p.MaxIterations)
	}
	if res.Final > before {
		t.Errorf("Final = %d, initial %d", res.Final, before)
	}
	if got := o.CountCrossings(); got != res.Final {
		t.Errorf("CountCrossings() = %d, Result.Final = %d", got, res.Final)
	}
	if recount := o.Graph().CountCrossings(); recount != res.Final {
		t.Errorf("recount = %d, Result.Final = %d", recount, res.Final)
	}
}

func TestOptimizeKeepsBest(t *testing.T) {
	for seed := range uint64(8) {
		layers, edges := randomLayered(seed, []int{6, 6, 6}, 0.35, 3)
		rec := &sweepRecorder{}
		o, err := New(layers, edges,
			WithSeed(seed), WithAcceptFunc(acceptAll), WithTieBreak(1), WithHooks(rec))
		if err != nil {
			t.Fatal(err)
		}
		initial := o.CountCrossings()
		res, err := o.Optimize(context.Background(), anneal.Params{
			InitialTemp: 10, CoolingRate: 1, MinTemp: 0, MaxIterations: 25,
		})
		if err != nil {
			t.Fatal(err)
		}

		best := initial
		for _, c := range rec.crossings {
			best = min(best, c)
		}
		if res.Final != best {
			t.Errorf("seed %d: Final = %d, best observed = %d (sweeps %v)", seed, res.Final, best, rec.crossings)
		}
		if recount := o.Graph().CountCrossings(); recount != res.Final {
			t.Errorf("seed %d: restored orders count %d, Final %d", seed, recount, res.Final)
		}
		if !rec.started || rec.reason != res.Reason.String() {
			t.Errorf("seed %d: hooks saw start=%v reason=%q, want reason %q", seed, rec.started, rec.reason, res.Reason)
		}
	}
}

func TestOptimizeIdempotentAtZero(t *testing.T) {
	layers, edges := twoCrossings()
	o, err := New(layers, edges)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := o.Optimize(context.Background(), anneal.DefaultParams()); err != nil {
		t.Fatal(err)
	}
	settled := o.Nodes()

	res, err := o.Optimize(context.Background(), anneal.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if res.Sweeps != 0 || res.Final != 0 {
		t.Errorf("second Optimize() = %+v, want no sweeps at zero crossings", res)
	}
	if !slices.EqualFunc(settled, o.Nodes(), slices.Equal) {
		t.Errorf("Nodes() changed from %v to %v", settled, o.Nodes())
	}
}

func TestOptimizeIdempotentAfterConvergence(t *testing.T) {
	p := anneal.DefaultParams()
	p.MaxIterations = 10000

	for seed := range uint64(40) {
		layers, edges := randomLayered(seed, []int{7, 7, 7}, 0.4, 3)
		o, err := New(layers, edges, WithSeed(seed))
		if err != nil {
			t.Fatal(err)
		}
		first, err := o.Optimize(context.Background(), p)
		if err != nil {
			t.Fatal(err)
		}
		if first.Reason != TerminationConverged && first.Reason != TerminationZero {
			t.Fatalf("seed %d: first Optimize() reason = %v, want convergence", seed, first.Reason)
		}
		settled := o.Nodes()

		second, err := o.Optimize(context.Background(), p)
		if err != nil {
			t.Fatal(err)
		}
		if second.Sweeps != 0 || second.Final != first.Final {
			t.Errorf("seed %d: second Optimize() = %+v after %+v", seed, second, first)
		}
		if !slices.EqualFunc(settled, o.Nodes(), slices.Equal) {
			t.Errorf("seed %d: Nodes() changed after convergence", seed)
		}
	}
}

func TestOptimizeResumesAfterOrderChange(t *testing.T) {
	layers, edges := randomLayered(5, []int{6, 6}, 1, 3)
	o, err := New(layers, edges)
	if err != nil {
		t.Fatal(err)
	}
	p := anneal.DefaultParams()
	p.MaxIterations = 10000
	if _, err := o.Optimize(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	if !o.isSettled() {
		t.Fatal("converged optimizer is not settled")
	}
	settled := o.Nodes()

	if _, err := o.SwapNodes(0, 1, 1e6); err != nil {
		t.Fatal(err)
	}
	if slices.EqualFunc(settled, o.Nodes(), slices.Equal) {
		t.Fatal("hot SwapNodes pass changed nothing")
	}
	if o.isSettled() {
		t.Error("still settled after SwapNodes moved nodes")
	}
	res, err := o.Optimize(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if res.Sweeps == 0 {
		t.Errorf("Optimize() after SwapNodes = %+v, want a fresh run", res)
	}
}

func TestOptimizeDeterministic(t *testing.T) {
	layers, edges := randomLayered(11, []int{8, 9, 8, 7}, 0.3, 5)
	run := func() ([][]int, Result) {
		o, err := New(layers, edges, WithSeed(1234))
		if err != nil {
			t.Fatal(err)
		}
		res, err := o.Optimize(context.Background(), anneal.DefaultParams())
		if err != nil {
			t.Fatal(err)
		}
		return o.Nodes(), res
	}

	nodes1, res1 := run()
	nodes2, res2 := run()
	if !slices.EqualFunc(nodes1, nodes2, slices.Equal) {
		t.Error("same seed produced different orders")
	}
	if res1.Final != res2.Final || res1.Sweeps != res2.Sweeps || res1.Accepted != res2.Accepted {
		t.Errorf("same seed produced %+v and %+v", res1, res2)
	}
}

func TestOptimizeInvalidParams(t *testing.T) {
	layers, edges := twoCrossings()
	o, err := New(layers, edges)
	if err != nil {
		t.Fatal(err)
	}
	before := o.Nodes()

	bad := []anneal.Params{
		{InitialTemp: 0, CoolingRate: 0.5, MaxIterations: 1},
		{InitialTemp: 1, CoolingRate: 0, MaxIterations: 1},
		{InitialTemp: 1, CoolingRate: 1.5, MaxIterations: 1},
		{InitialTemp: 1, CoolingRate: 0.5, MinTemp: -1, MaxIterations: 1},
		{InitialTemp: 1, CoolingRate: 0.5, MaxIterations: 0},
		{InitialTemp: 1, CoolingRate: 0.5, MaxIterations: 1, Reheats: -1},
	}
	for _, p := range bad {
		if _, err := o.Optimize(context.Background(), p); !errs.Is(err, errs.ErrCodeUsage) {
			t.Errorf("Optimize(%+v) error = %v, want usage error", p, err)
		}
	}
	if !slices.EqualFunc(before, o.Nodes(), slices.Equal) {
		t.Error("invalid params modified the layer orders")
	}
	if o.State() != StateInitialized {
		t.Errorf("State() = %v, want untouched %v", o.State(), StateInitialized)
	}
}

func TestOptimizeCanceled(t *testing.T) {
	layers, edges := twoCrossings()
	o, err := New(layers, edges)
	if err != nil {
		t.Fatal(err)
	}
	before := o.Nodes()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := o.Optimize(ctx, anneal.DefaultParams())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Optimize() error = %v, want context.Canceled", err)
	}
	if res.Reason != TerminationCanceled {
		t.Errorf("Reason = %v, want %v", res.Reason, TerminationCanceled)
	}
	if res.Sweeps != 0 || !slices.EqualFunc(before, o.Nodes(), slices.Equal) {
		t.Errorf("canceled run swept %d times", res.Sweeps)
	}
}

func TestOptionValidation(t *testing.T) {
	layers, edges := twoCrossings()
	tests := []struct {
		name string
		opt  Option
	}{
		{"tie-break above one", WithTieBreak(1.5)},
		{"tie-break negative", WithTieBreak(-0.1)},
		{"zero passes", WithPassesPerLayer(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(layers, edges, tt.opt); !errs.Is(err, errs.ErrCodeUsage) {
				t.Errorf("New() error = %v, want usage error", err)
			}
		})
	}
	if _, err := NewOptimizer[string](nil); !errs.Is(err, errs.ErrCodeUsage) {
		t.Errorf("NewOptimizer(nil) error = %v, want usage error", err)
	}
	if _, err := NewHierarchyOptimizer[string](nil, Hierarchy{{{1}}}); !errs.Is(err, errs.ErrCodeUsage) {
		t.Errorf("NewHierarchyOptimizer(nil) error = %v, want usage error", err)
	}
}

func TestPassesPerLayer(t *testing.T) {
	layers, edges := randomLayered(21, []int{9, 9}, 0.3, 3)
	o, err := New(layers, edges, WithPassesPerLayer(4), WithAcceptFunc(anneal.Greedy), WithTieBreak(0))
	if err != nil {
		t.Fatal(err)
	}
	initial := o.CountCrossings()
	res, err := o.Optimize(context.Background(), anneal.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if res.Final > initial {
		t.Errorf("Final = %d > initial %d", res.Final, initial)
	}
}

func TestStateAndTerminationStrings(t *testing.T) {
	states := map[State]string{
		StateInitialized: "initialized",
		StateSweeping:    "sweeping",
		StateCooling:     "cooling",
		StateTerminated:  "terminated",
	}
	for s, want := range states {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
	reasons := map[Termination]string{
		TerminationNone:      "none",
		TerminationBudget:    "budget_exhausted",
		TerminationZero:      "zero_crossings",
		TerminationConverged: "converged",
		TerminationCanceled:  "canceled",
	}
	for r, want := range reasons {
		if r.String() != want {
			t.Errorf("Termination(%d).String() = %q, want %q", r, r.String(), want)
		}
	}
}

func TestCooldownUntanglesLayer(t *testing.T) {
	layers, edges := twoCrossings()
	o, err := New(layers, edges)
	if err != nil {
		t.Fatal(err)
	}
	got, err := o.Cooldown(0, anneal.DefaultParams())
	if err != nil {
		t.Fatalf("Cooldown: %v", err)
	}
	if got != 0 {
		t.Errorf("Cooldown() = %d, want 0", got)
	}
	if !slices.Equal(o.Nodes()[1], layers[1]) {
		t.Errorf("layer 1 moved to %v", o.Nodes()[1])
	}
	if recount := o.Graph().CountCrossings(); recount != got {
		t.Errorf("recount = %d, running total = %d", recount, got)
	}
}

func TestCooldownKeepsBest(t *testing.T) {
	for seed := range uint64(10) {
		layers, edges := randomLayered(seed, []int{6, 8, 6}, 0.4, 4)
		o, err := New(layers, edges, WithSeed(seed))
		if err != nil {
			t.Fatal(err)
		}
		before := o.CountCrossings()
		p := anneal.DefaultParams()
		p.InitialTemp = 50
		got, err := o.Cooldown(1, p)
		if err != nil {
			t.Fatal(err)
		}
		if got > before {
			t.Errorf("seed %d: Cooldown() = %d, started at %d", seed, got, before)
		}
		if recount := bruteCrossings(o.Graph()); recount != got {
			t.Errorf("seed %d: recount = %d, running total = %d", seed, recount, got)
		}
		nodes := o.Nodes()
		if !slices.Equal(nodes[0], layers[0]) || !slices.Equal(nodes[2], layers[2]) {
			t.Errorf("seed %d: fixed layers moved", seed)
		}
	}
}

func TestCooldownFollowsLadder(t *testing.T) {
	var temps []float64
	reject := func(_ int64, temp float64, _ anneal.Source) bool {
		temps = append(temps, temp)
		return false
	}
	o, err := New(
		[][]string{{"a", "b"}, {"c", "d"}},
		[][]Edge[string]{{{Source: "a", Target: "d", Weight: 1}, {Source: "b", Target: "c", Weight: 1}}},
		WithAcceptFunc(reject), WithTieBreak(0),
	)
	if err != nil {
		t.Fatal(err)
	}
	p := anneal.Params{InitialTemp: 1, CoolingRate: 0.5, MinTemp: 0.3, MaxIterations: 100}
	if p.Steps() != 2 {
		t.Fatalf("Steps() = %d, want 2", p.Steps())
	}

	got, err := o.Cooldown(0, p)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("Cooldown() = %d, want 1 with every move rejected", got)
	}
	if want := []float64{1, 0.5, 0.3}; !slices.Equal(temps, want) {
		t.Errorf("temperatures = %v, want %v", temps, want)
	}

	temps = nil
	p.MaxIterations = 2
	if _, err := o.Cooldown(0, p); err != nil {
		t.Fatal(err)
	}
	if want := []float64{1, 0.5}; !slices.Equal(temps, want) {
		t.Errorf("capped temperatures = %v, want %v", temps, want)
	}
}

func TestCooldownErrors(t *testing.T) {
	layers, edges := twoCrossings()
	o, err := New(layers, edges)
	if err != nil {
		t.Fatal(err)
	}
	bad := anneal.DefaultParams()
	bad.CoolingRate = 0

	tests := []struct {
		name  string
		layer int
		p     anneal.Params
	}{
		{"negative layer", -1, anneal.DefaultParams()},
		{"layer past end", 2, anneal.DefaultParams()},
		{"invalid params", 0, bad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := o.Cooldown(tt.layer, tt.p); !errs.Is(err, errs.ErrCodeUsage) {
				t.Errorf("Cooldown() error = %v, want usage error", err)
			}
		})
	}
	if !slices.EqualFunc(layers, o.Nodes(), slices.Equal) {
		t.Error("usage errors modified the layer orders")
	}
}
