package untangle

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/untangle/pkg/anneal"
	errs "github.com/matzehuels/untangle/pkg/errors"
	"github.com/matzehuels/untangle/pkg/observability"
)

// State is the lifecycle position of an [Optimizer.Optimize] call.
type State int

const (
	StateInitialized State = iota
	StateSweeping
	StateCooling
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateSweeping:
		return "sweeping"
	case StateCooling:
		return "cooling"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// Termination says why Optimize stopped.
type Termination int

const (
	TerminationNone Termination = iota
	// TerminationBudget means the sweep budget was spent.
	TerminationBudget
	// TerminationZero means no crossings remain.
	TerminationZero
	// TerminationConverged means a full sweep changed no crossing count.
	TerminationConverged
	// TerminationCanceled means the context was done.
	TerminationCanceled
)

func (t Termination) String() string {
	switch t {
	case TerminationBudget:
		return "budget_exhausted"
	case TerminationZero:
		return "zero_crossings"
	case TerminationConverged:
		return "converged"
	case TerminationCanceled:
		return "canceled"
	}
	return "none"
}

// MarshalText encodes the termination reason as its string form.
func (t Termination) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Result summarizes an Optimize call.
type Result struct {
	Initial  int64         // crossings before the call
	Final    int64         // crossings of the restored best-seen state
	Sweeps   int           // full bidirectional sweeps run
	Accepted int           // swaps taken, including ones later undone
	Reason   Termination   // why the run stopped
	Duration time.Duration // wall time
}

// Optimizer reorders the layers of a [Graph] to reduce weighted crossings.
//
// The optimizer takes over g: it mutates g's layer orders in place, and g
// should not be modified through other means while the optimizer is in use.
// An Optimizer is not safe for concurrent use; independent optimizers may
// run in parallel.
type Optimizer[K comparable] struct {
	g          *Graph[K]
	groups     [][][]int
	candidates [][]int
	tables     []deltaTable
	total      int64
	state      State

	// settled holds the graph revision left by a run that converged or
	// reached zero; the orders have not moved since while it matches.
	settled    uint64
	hasSettled bool

	rng      anneal.Source
	accept   anneal.AcceptFunc
	tieBreak float64
	passes   int
	logger   *log.Logger
	hooks    observability.OptimizerHooks
}

// NewOptimizer returns an optimizer that may reorder every layer of g freely.
func NewOptimizer[K comparable](g *Graph[K], opts ...Option) (*Optimizer[K], error) {
	return newOptimizer(g, nil, opts)
}

// New builds a [Graph] from layers and edges and returns a flat optimizer
// over it.
func New[K comparable](layers [][]K, edges [][]Edge[K], opts ...Option) (*Optimizer[K], error) {
	g, err := NewGraph(layers, edges)
	if err != nil {
		return nil, err
	}
	return NewOptimizer(g, opts...)
}

func newOptimizer[K comparable](g *Graph[K], h Hierarchy, opts []Option) (*Optimizer[K], error) {
	if g == nil {
		return nil, errs.New(errs.ErrCodeUsage, "optimizer requires a graph")
	}
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if err := s.finish(); err != nil {
		return nil, err
	}

	groups, candidates := partition(g, h)
	return &Optimizer[K]{
		g:          g,
		groups:     groups,
		candidates: candidates,
		tables:     make([]deltaTable, g.NumLayers()),
		total:      g.CountCrossings(),
		rng:        s.rng,
		accept:     s.accept,
		tieBreak:   s.tieBreak,
		passes:     s.passes,
		logger:     s.logger,
		hooks:      s.hooks,
	}, nil
}

// Graph returns the graph being optimized.
func (o *Optimizer[K]) Graph() *Graph[K] { return o.g }

// Nodes returns a copy of the current layer orders.
func (o *Optimizer[K]) Nodes() [][]K { return o.g.Nodes() }

// CountCrossings returns the weighted crossing count of the current orders.
func (o *Optimizer[K]) CountCrossings() int64 { return o.total }

// State returns the lifecycle state of the last Optimize call.
func (o *Optimizer[K]) State() State { return o.state }

// Optimize anneals all layers with bidirectional sweeps until the sweep
// budget is spent, no crossings remain, a sweep changes no crossing count,
// or ctx is done. The best orders seen during the call are restored before
// returning, so the final count never exceeds the initial one.
//
// Once a call has converged, later calls return at once without a sweep
// until the orders change again through [Optimizer.SwapNodes],
// [Optimizer.Cooldown] or the graph itself.
//
// Invalid params return a USAGE_ERROR without touching any state. A done
// context returns ctx.Err() together with the partial result; the best-seen
// orders are still restored.
func (o *Optimizer[K]) Optimize(ctx context.Context, p anneal.Params) (Result, error) {
	sched, err := anneal.NewSchedule(p, o.rng, o.accept)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	o.state = StateInitialized
	res := Result{Initial: o.total}
	best, bestOrder := o.total, o.g.snapshot()
	o.hooks.OnOptimizeStart(ctx, o.g.NumLayers(), o.g.NumNodes(), o.total)
	o.logger.Debug("optimize", "layers", o.g.NumLayers(), "nodes", o.g.NumNodes(), "crossings", o.total,
		"t0", p.InitialTemp, "alpha", p.CoolingRate, "tmin", p.MinTemp, "budget", p.MaxIterations, "reheats", p.Reheats)

	switch {
	case o.total == 0:
		res.Reason = TerminationZero
	case o.isSettled():
		res.Reason = TerminationConverged
		o.logger.Debug("already converged", "crossings", o.total)
	}
	for res.Reason == TerminationNone {
		if err = ctx.Err(); err != nil {
			res.Reason = TerminationCanceled
			break
		}

		o.state = StateSweeping
		temp := sched.Temperature()
		st := o.sweep(sched)
		res.Sweeps++
		res.Accepted += st.accepted

		o.state = StateCooling
		if o.total < best {
			best, bestOrder = o.total, o.g.snapshot()
		}
		o.hooks.OnSweep(ctx, res.Sweeps, temp, o.total, st.accepted)
		o.logger.Debug("sweep", "n", res.Sweeps, "temp", temp, "crossings", o.total, "best", best,
			"accepted", st.accepted, "changed", st.changed)

		switch {
		case o.total == 0:
			res.Reason = TerminationZero
		case st.changed == 0:
			res.Reason = TerminationConverged
		case res.Sweeps >= p.MaxIterations:
			res.Reason = TerminationBudget
		default:
			if sched.Cool() {
				o.logger.Debug("reheat", "sweep", res.Sweeps, "left", sched.ReheatsLeft())
			}
		}
	}

	o.g.restore(bestOrder)
	o.total = best
	o.state = StateTerminated
	o.hasSettled = res.Reason == TerminationConverged || res.Reason == TerminationZero
	o.settled = o.g.revision()
	res.Final = best
	res.Duration = time.Since(start)
	o.hooks.OnOptimizeComplete(ctx, best, res.Sweeps, res.Reason.String(), res.Duration, err)
	return res, err
}

func (o *Optimizer[K]) isSettled() bool {
	return o.hasSettled && o.settled == o.g.revision()
}

// SwapNodes runs iterations passes over layer l alone at a fixed
// temperature, stopping early once no crossings touch the layer. It returns
// the new total crossing count. A temperature of 0 never accepts a
// worsening swap, so the count cannot grow.
func (o *Optimizer[K]) SwapNodes(l, iterations int, temperature float64) (int64, error) {
	if l < 0 || l >= o.g.NumLayers() {
		return o.total, errs.New(errs.ErrCodeUsage, "layer %d out of range [0, %d)", l, o.g.NumLayers())
	}
	if iterations <= 0 {
		return o.total, errs.New(errs.ErrCodeUsage, "iterations must be positive, got %d", iterations)
	}
	sched, err := anneal.Fixed(temperature, o.rng, o.accept)
	if err != nil {
		return o.total, err
	}

	incident := o.g.incidentCrossings(l)
	for i := 0; i < iterations && incident > 0; i++ {
		before := o.total
		o.pass(l, sched)
		incident += o.total - before
	}
	return o.total, nil
}

// Cooldown anneals layer l alone while the other layers stay fixed. It
// visits the layer once per temperature on the cooling ladder of p, from
// InitialTemp down to MinTemp ([anneal.Params.Steps] cooling steps), and
// repeats the ladder for every reheat. MaxIterations caps the total number
// of visits and bounds ladders that never reach MinTemp. It stops early
// once no crossings touch the layer, restores the best order of the layer
// seen, and returns the new total crossing count.
func (o *Optimizer[K]) Cooldown(l int, p anneal.Params) (int64, error) {
	if l < 0 || l >= o.g.NumLayers() {
		return o.total, errs.New(errs.ErrCodeUsage, "layer %d out of range [0, %d)", l, o.g.NumLayers())
	}
	sched, err := anneal.NewSchedule(p, o.rng, o.accept)
	if err != nil {
		return o.total, err
	}

	budget := p.MaxIterations
	if steps := p.Steps(); steps >= 0 {
		budget = min(budget, (steps+1)*(p.Reheats+1))
	}
	best, bestOrder := o.total, o.g.snapshot()
	incident := o.g.incidentCrossings(l)
	visits := 0
	for ; visits < budget && incident > 0; visits++ {
		before := o.total
		o.visit(l, sched)
		incident += o.total - before
		if o.total < best {
			best, bestOrder = o.total, o.g.snapshot()
		}
		sched.Cool()
	}
	o.g.restore(bestOrder)
	o.total = best
	o.logger.Debug("cooldown", "layer", l, "visits", visits, "crossings", best)
	return best, nil
}
