package untangle

import (
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/untangle/pkg/anneal"
	errs "github.com/matzehuels/untangle/pkg/errors"
	"github.com/matzehuels/untangle/pkg/observability"
)

// DefaultSeed seeds the random source when no option overrides it.
const DefaultSeed uint64 = 42

// DefaultTieBreak is the probability of taking a swap that leaves the
// crossing count unchanged.
const DefaultTieBreak = 0.3

// Option configures an [Optimizer].
type Option func(*settings)

type settings struct {
	rng      anneal.Source
	accept   anneal.AcceptFunc
	tieBreak float64
	passes   int
	logger   *log.Logger
	hooks    observability.OptimizerHooks
}

func defaultSettings() settings {
	return settings{
		tieBreak: DefaultTieBreak,
		passes:   1,
	}
}

// WithSeed seeds the optimizer's own PCG source.
func WithSeed(seed uint64) Option {
	return func(s *settings) { s.rng = newRand(seed) }
}

// WithRand installs an explicit random source.
func WithRand(rng anneal.Source) Option {
	return func(s *settings) { s.rng = rng }
}

// WithAcceptFunc replaces the Metropolis acceptance rule.
func WithAcceptFunc(fn anneal.AcceptFunc) Option {
	return func(s *settings) { s.accept = fn }
}

// WithTieBreak sets the probability in [0, 1] of proposing a swap that
// leaves the crossing count unchanged.
func WithTieBreak(p float64) Option {
	return func(s *settings) { s.tieBreak = p }
}

// WithPassesPerLayer sets how many left-to-right passes each layer gets per
// sweep visit.
func WithPassesPerLayer(n int) Option {
	return func(s *settings) { s.passes = n }
}

// WithLogger sets the logger for per-sweep debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithHooks overrides the globally registered optimizer hooks.
func WithHooks(h observability.OptimizerHooks) Option {
	return func(s *settings) { s.hooks = h }
}

func (s *settings) finish() error {
	if err := errs.ValidateProbability("tie-break probability", s.tieBreak); err != nil {
		return err
	}
	if s.passes <= 0 {
		return errs.New(errs.ErrCodeUsage, "passes per layer must be positive, got %d", s.passes)
	}
	if s.rng == nil {
		s.rng = newRand(DefaultSeed)
	}
	if s.accept == nil {
		s.accept = anneal.Metropolis
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.hooks == nil {
		s.hooks = observability.Optimizer()
	}
	return nil
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}
