package anneal

import (
	"math"

	errs "github.com/matzehuels/untangle/pkg/errors"
)

// Params configures an annealing run.
type Params struct {
	InitialTemp   float64 `toml:"initial_temp" json:"initial_temp"`     // T0, must be > 0
	CoolingRate   float64 `toml:"cooling_rate" json:"cooling_rate"`     // α in (0, 1]
	MinTemp       float64 `toml:"min_temp" json:"min_temp"`             // Tmin in [0, T0]
	MaxIterations int     `toml:"max_iterations" json:"max_iterations"` // sweep budget, > 0
	Reheats       int     `toml:"reheats" json:"reheats"`               // resets to T0 after hitting Tmin
}

// DefaultParams returns the schedule used when nothing else is configured.
func DefaultParams() Params {
	return Params{
		InitialTemp:   1.0,
		CoolingRate:   0.9,
		MinTemp:       1e-3,
		MaxIterations: 200,
		Reheats:       2,
	}
}

// Validate reports a USAGE_ERROR for any out-of-range parameter.
func (p Params) Validate() error {
	if err := errs.ValidatePositive("initial temperature", p.InitialTemp); err != nil {
		return err
	}
	if err := errs.ValidatePositive("cooling rate", p.CoolingRate); err != nil {
		return err
	}
	if p.CoolingRate > 1 {
		return errs.New(errs.ErrCodeUsage, "cooling rate must lie in (0, 1], got %g", p.CoolingRate)
	}
	if err := errs.ValidateNonNegative("minimum temperature", p.MinTemp); err != nil {
		return err
	}
	if p.MinTemp > p.InitialTemp {
		return errs.New(errs.ErrCodeUsage, "minimum temperature %g exceeds initial temperature %g", p.MinTemp, p.InitialTemp)
	}
	if p.MaxIterations <= 0 {
		return errs.New(errs.ErrCodeUsage, "max iterations must be positive, got %d", p.MaxIterations)
	}
	if p.Reheats < 0 {
		return errs.New(errs.ErrCodeUsage, "reheats must not be negative, got %d", p.Reheats)
	}
	return nil
}

// Steps returns how many sweeps one cooling phase takes to go from T0 to
// Tmin, or -1 if the temperature never reaches Tmin (α = 1 or Tmin = 0).
func (p Params) Steps() int {
	if p.CoolingRate >= 1 || p.MinTemp <= 0 {
		return -1
	}
	if p.MinTemp >= p.InitialTemp {
		return 0
	}
	return int(math.Ceil(math.Log(p.MinTemp/p.InitialTemp) / math.Log(p.CoolingRate)))
}
