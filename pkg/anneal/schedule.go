package anneal

import (
	"math"

	errs "github.com/matzehuels/untangle/pkg/errors"
)

// Source is the random source consumed by acceptance decisions.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// AcceptFunc decides whether a move that changes the objective by delta is
// taken at the given temperature. Negative deltas are improvements.
type AcceptFunc func(delta int64, temperature float64, rng Source) bool

// Metropolis accepts every non-worsening move and a worsening move with
// probability exp(−delta/temperature). It never accepts a worsening move at
// temperature 0.
func Metropolis(delta int64, temperature float64, rng Source) bool {
	if delta <= 0 {
		return true
	}
	if temperature <= 0 {
		return false
	}
	return rng.Float64() < math.Exp(-float64(delta)/temperature)
}

// Greedy accepts only strict improvements regardless of temperature.
func Greedy(delta int64, _ float64, _ Source) bool {
	return delta < 0
}

// Schedule tracks the current temperature of an annealing run.
type Schedule struct {
	params      Params
	temp        float64
	reheatsLeft int
	accept      AcceptFunc
	rng         Source
}

// NewSchedule validates p and returns a schedule at its initial temperature.
// A nil accept defaults to [Metropolis].
func NewSchedule(p Params, rng Source, accept AcceptFunc) (*Schedule, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, errs.New(errs.ErrCodeUsage, "schedule requires a random source")
	}
	if accept == nil {
		accept = Metropolis
	}
	return &Schedule{
		params:      p,
		temp:        p.InitialTemp,
		reheatsLeft: p.Reheats,
		accept:      accept,
		rng:         rng,
	}, nil
}

// Fixed returns a schedule that stays at temp forever. temp may be 0.
func Fixed(temp float64, rng Source, accept AcceptFunc) (*Schedule, error) {
	if err := errs.ValidateNonNegative("temperature", temp); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, errs.New(errs.ErrCodeUsage, "schedule requires a random source")
	}
	if accept == nil {
		accept = Metropolis
	}
	return &Schedule{
		params: Params{InitialTemp: temp, CoolingRate: 1, MinTemp: temp, MaxIterations: math.MaxInt},
		temp:   temp,
		accept: accept,
		rng:    rng,
	}, nil
}

// Temperature returns the current temperature.
func (s *Schedule) Temperature() float64 { return s.temp }

// ReheatsLeft returns how many reheats remain.
func (s *Schedule) ReheatsLeft() int { return s.reheatsLeft }

// Params returns the parameters the schedule was built from.
func (s *Schedule) Params() Params { return s.params }

// Accept reports whether a move with the given delta is taken now.
func (s *Schedule) Accept(delta int64) bool {
	return s.accept(delta, s.temp, s.rng)
}

// Cool advances the schedule by one sweep and reports whether a reheat
// happened.
func (s *Schedule) Cool() bool {
	s.temp = max(s.temp*s.params.CoolingRate, s.params.MinTemp)
	if s.temp <= s.params.MinTemp && s.reheatsLeft > 0 {
		s.temp = s.params.InitialTemp
		s.reheatsLeft--
		return true
	}
	return false
}
