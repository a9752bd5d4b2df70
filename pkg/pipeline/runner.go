package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/untangle/pkg/cache"
	"github.com/matzehuels/untangle/pkg/dag"
	"github.com/matzehuels/untangle/pkg/dag/transform"
	errs "github.com/matzehuels/untangle/pkg/errors"
	uio "github.com/matzehuels/untangle/pkg/io"
	"github.com/matzehuels/untangle/pkg/observability"
	"github.com/matzehuels/untangle/pkg/ordering"
	"github.com/matzehuels/untangle/pkg/render"
)

// Runner executes ordering runs against a cache. A Runner holds no per-run
// state and may be shared by concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses [cache.NewDefaultKeyer] and a nil logger discards output.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Run orders a copy of g. Without Normalize the graph must already be
// layered. On cancellation Run returns the best order found so far together
// with the context error; such results are not cached.
func (r *Runner) Run(ctx context.Context, g *dag.DAG, opts Options) (_ *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}

	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	hooks := observability.Pipeline()
	hooks.OnRunStart(ctx, res.RunID, g.NodeCount())
	defer func() {
		res.Stats.Duration = time.Since(start)
		hooks.OnRunComplete(ctx, res.RunID, res.Cached, res.Stats.Duration, err)
	}()

	work, err := r.Prepare(g, opts, &res.Stats)
	if err != nil {
		return nil, err
	}
	res.Graph = work
	res.Stats.Nodes, res.Stats.Edges = work.NodeCount(), work.EdgeCount()

	var buf bytes.Buffer
	if err := uio.WriteJSON(work, &buf); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "hash graph")
	}
	res.GraphHash = cache.Hash(buf.Bytes())
	key := r.Keyer.ResultKey(res.GraphHash, opts.keyOpts())

	if !opts.Refresh && r.fromCache(ctx, key, res) {
		logger.Info("cache hit", "run", res.RunID, "crossings", res.Crossings)
	} else {
		if err := r.order(ctx, work, opts, res, logger); err != nil {
			return res, err
		}
		r.store(ctx, key, res, opts.TTL, logger)
	}

	if err := r.renderArtifacts(ctx, res, opts.Formats); err != nil {
		return nil, err
	}
	return res, nil
}

// Prepare returns the graph the optimizer will see: a normalized clone
// with opts.Normalize, otherwise a validated clone.
func (r *Runner) Prepare(g *dag.DAG, opts Options, stats *Stats) (*dag.DAG, error) {
	work := g.Clone()
	if opts.Normalize {
		st := transform.Normalize(work)
		if stats != nil {
			stats.Subdividers, stats.Reversed = st.Subdividers, st.Reversed
		}
		if st.Changed() {
			r.Logger.Debug("normalized graph",
				"reversed", st.Reversed,
				"relayered", st.Relayered,
				"subdividers", st.Subdividers)
		}
		return work, nil
	}
	if err := work.Validate(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeValidation, err, "graph is not layered (use normalize)")
	}
	return work, nil
}

func (r *Runner) order(ctx context.Context, work *dag.DAG, opts Options, res *Result, logger *log.Logger) error {
	orderer := ordering.Annealing{
		Params:         opts.Params,
		Seed:           opts.Seed,
		TieBreak:       opts.TieBreak,
		PassesPerLayer: opts.PassesPerLayer,
		GroupBy:        ordering.GroupFuncFor(opts.GroupKey),
		Logger:         logger,
		Hooks:          opts.Hooks,
	}
	orders, out, err := orderer.Order(ctx, work)
	if orders != nil {
		if applyErr := ordering.Apply(work, orders); applyErr != nil {
			return errs.Wrap(errs.ErrCodeInternal, applyErr, "apply order")
		}
	}
	res.InitialCrossings = out.Initial
	res.Crossings = out.Final
	res.Sweeps = out.Sweeps
	res.Reason = out.Reason.String()
	if err != nil {
		return err
	}

	logger.Info("ordered graph",
		"run", res.RunID,
		"initial", res.InitialCrossings,
		"crossings", res.Crossings,
		"sweeps", res.Sweeps,
		"reason", res.Reason)
	return nil
}

func (r *Runner) fromCache(ctx context.Context, key string, res *Result) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return false
	}
	doc, err := uio.ReadResult(bytes.NewReader(data))
	if err != nil {
		return false
	}
	work := res.Graph.Clone()
	if err := ordering.Apply(work, doc.Rows); err != nil {
		return false
	}
	res.Graph = work
	res.InitialCrossings = doc.InitialCrossings
	res.Crossings = doc.Crossings
	res.Sweeps = doc.Sweeps
	res.Reason = doc.Reason
	res.Cached = true
	return true
}

func (r *Runner) store(ctx context.Context, key string, res *Result, ttl time.Duration, logger *log.Logger) {
	doc := res.Document()
	doc.Graph = nil
	var buf bytes.Buffer
	if err := uio.WriteResult(doc, &buf); err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, buf.Bytes(), ttl); err != nil {
		logger.Warn("cache store failed", "err", err)
	}
}

func (r *Runner) renderArtifacts(ctx context.Context, res *Result, formats []string) error {
	if len(formats) == 0 {
		return nil
	}
	res.Artifacts = make(map[string][]byte, len(formats))
	for _, name := range formats {
		f, err := render.ParseFormat(name)
		if err != nil {
			return err
		}
		data, err := render.Render(ctx, res.Graph, f, render.Options{ShowWeights: true})
		if err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "render %s", name)
		}
		res.Artifacts[name] = data
	}
	return nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// IsCanceled reports whether err stems from context cancellation or a
// deadline.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
