// Package pipeline runs the normalize → order → render sequence shared by
// the CLI and the HTTP API, with result caching.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Run(ctx, g, pipeline.Options{Normalize: true})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.InitialCrossings, "->", res.Crossings)
//
// The input graph is never modified; the result carries an ordered copy.
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/untangle/pkg/anneal"
	"github.com/matzehuels/untangle/pkg/cache"
	"github.com/matzehuels/untangle/pkg/config"
	"github.com/matzehuels/untangle/pkg/dag"
	errs "github.com/matzehuels/untangle/pkg/errors"
	uio "github.com/matzehuels/untangle/pkg/io"
	"github.com/matzehuels/untangle/pkg/observability"
	"github.com/matzehuels/untangle/pkg/render"
	"github.com/matzehuels/untangle/pkg/untangle"
)

// Options configures one run. Zero or nil fields take their defaults in
// [Options.ValidateAndSetDefaults]; Seed and TieBreak are pointers so that
// 0 stays a valid choice.
type Options struct {
	Params         anneal.Params `json:"params"`
	Seed           *uint64       `json:"seed,omitempty"`
	TieBreak       *float64      `json:"tie_break,omitempty"`
	PassesPerLayer int           `json:"passes_per_layer,omitempty"`
	GroupKey       string        `json:"group_key,omitempty"`
	Normalize      bool          `json:"normalize,omitempty"`
	Formats        []string      `json:"formats,omitempty"`

	// Refresh skips the cache lookup but still stores the result.
	Refresh bool `json:"refresh,omitempty"`
	// TTL overrides cache.TTLResult.
	TTL time.Duration `json:"-"`

	Logger *log.Logger `json:"-"`
	// Hooks receive optimizer progress for this run only.
	Hooks observability.OptimizerHooks `json:"-"`
}

// OptionsFromConfig seeds Options from a loaded configuration.
func OptionsFromConfig(cfg config.Config) Options {
	seed, tieBreak := cfg.Seed, cfg.TieBreak
	return Options{
		Params:         cfg.Anneal,
		Seed:           &seed,
		TieBreak:       &tieBreak,
		PassesPerLayer: cfg.PassesPerLayer,
		TTL:            cfg.Cache.TTL.Duration,
	}
}

// ValidateAndSetDefaults fills zero and nil fields and validates the rest.
// It returns USAGE_ERROR for out-of-range values.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Params == (anneal.Params{}) {
		o.Params = anneal.DefaultParams()
	}
	if err := o.Params.Validate(); err != nil {
		return err
	}
	if o.Seed == nil {
		seed := untangle.DefaultSeed
		o.Seed = &seed
	}
	if o.TieBreak == nil {
		tieBreak := untangle.DefaultTieBreak
		o.TieBreak = &tieBreak
	}
	if err := errs.ValidateProbability("tie break", *o.TieBreak); err != nil {
		return err
	}
	if o.PassesPerLayer == 0 {
		o.PassesPerLayer = 1
	}
	if o.PassesPerLayer < 0 {
		return errs.New(errs.ErrCodeUsage, "passes per layer must be positive, got %d", o.PassesPerLayer)
	}
	for _, f := range o.Formats {
		if _, err := render.ParseFormat(f); err != nil {
			return err
		}
	}
	if o.TTL == 0 {
		o.TTL = cache.TTLResult
	}
	return nil
}

func (o Options) keyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Params:    o.Params,
		Seed:      *o.Seed,
		TieBreak:  *o.TieBreak,
		Passes:    o.PassesPerLayer,
		GroupKey:  o.GroupKey,
		Normalize: o.Normalize,
	}
}

// Result is the outcome of [Runner.Run].
type Result struct {
	RunID            string
	GraphHash        string
	Graph            *dag.DAG // ordered copy of the (normalized) input
	InitialCrossings int64
	Crossings        int64
	Sweeps           int
	Reason           string
	Cached           bool
	Artifacts        map[string][]byte
	Stats            Stats
}

// Stats describes the work done by a run.
type Stats struct {
	Nodes       int
	Edges       int
	Subdividers int
	Reversed    int
	Duration    time.Duration
}

// Document converts r into its JSON exchange form with the graph embedded.
func (r *Result) Document() uio.Result {
	return uio.Result{
		RunID:            r.RunID,
		InitialCrossings: r.InitialCrossings,
		Crossings:        r.Crossings,
		Sweeps:           r.Sweeps,
		Reason:           r.Reason,
		Cached:           r.Cached,
		Rows:             r.Graph.RowOrders(),
		Graph:            r.Graph,
	}
}
