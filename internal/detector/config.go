package detector

import (
	"errors"
	"math"
)

const (
	// MinSeriesLength is the exclusive lower bound on accepted series length.
	MinSeriesLength = 20

	minSlowWindow    = 20
	minFastWindow    = 5
	minPlateauLength = 10
)

// Params is a snapshot of every detection threshold and window size.
type Params struct {
	LowerLimit    float64 `mapstructure:"lower_limit"`
	UpperLimit    float64 `mapstructure:"upper_limit"`
	SlowWindow    int     `mapstructure:"slow_window"`
	FastWindow    int     `mapstructure:"fast_window"`
	SlopeDelta    float64 `mapstructure:"slope_delta"`
	PlateauLength int     `mapstructure:"plateau_length"`
	PlateauDelta  float64 `mapstructure:"plateau_delta"`
}

var defaults = Params{
	LowerLimit:    100,
	UpperLimit:    1300,
	SlowWindow:    20,
	FastWindow:    5,
	SlopeDelta:    70,
	PlateauLength: 2000,
	PlateauDelta:  2,
}

// DefaultParams returns a copy of the factory defaults.
func DefaultParams() Params {
	return defaults
}

// Config holds validated detection parameters. Every setter checks its value
// against the current state and leaves the state untouched on rejection.
type Config struct {
	p Params
}

// NewConfig returns a store seeded with the defaults.
func NewConfig() *Config {
	return &Config{p: DefaultParams()}
}

// Params returns the current parameter snapshot.
func (c *Config) Params() Params {
	return c.p
}

// SetLowerLimit validates against the current upper limit.
func (c *Config) SetLowerLimit(v float64) error {
	if !isFinite(v) {
		return invalid("lower_limit", v, "must be a finite number")
	}
	if c.p.UpperLimit <= v {
		return invalid("lower_limit", v, "must be smaller than upper_limit")
	}
	c.p.LowerLimit = v
	return nil
}

// SetUpperLimit validates against the current lower limit.
func (c *Config) SetUpperLimit(v float64) error {
	if !isFinite(v) {
		return invalid("upper_limit", v, "must be a finite number")
	}
	if c.p.LowerLimit >= v {
		return invalid("upper_limit", v, "must be greater than lower_limit")
	}
	c.p.UpperLimit = v
	return nil
}

// SetSlowWindow validates against the current fast window.
func (c *Config) SetSlowWindow(v int) error {
	if c.p.FastWindow >= v {
		return invalid("slow_window", v, "must be greater than fast_window")
	}
	if v < minSlowWindow {
		return invalid("slow_window", v, "minimum allowed value is 20")
	}
	c.p.SlowWindow = v
	return nil
}

// SetFastWindow validates against the current slow window.
func (c *Config) SetFastWindow(v int) error {
	if c.p.SlowWindow <= v {
		return invalid("fast_window", v, "must be smaller than slow_window")
	}
	if v < minFastWindow {
		return invalid("fast_window", v, "minimum allowed value is 5")
	}
	c.p.FastWindow = v
	return nil
}

// SetSlopeDelta requires a non-negative delta narrower than the limit range.
func (c *Config) SetSlopeDelta(v float64) error {
	if !isFinite(v) || v < 0 {
		return invalid("slope_delta", v, "must be a non-negative number")
	}
	if c.p.UpperLimit-c.p.LowerLimit <= v {
		return invalid("slope_delta", v, "must be smaller than upper_limit minus lower_limit")
	}
	c.p.SlopeDelta = v
	return nil
}

// SetPlateauLength sets the run length that marks a stuck sensor.
func (c *Config) SetPlateauLength(v int) error {
	if v < minPlateauLength {
		return invalid("plateau_length", v, "minimum allowed value is 10")
	}
	c.p.PlateauLength = v
	return nil
}

// SetPlateauDelta sets the largest |delta_ma| still counted as flat.
func (c *Config) SetPlateauDelta(v float64) error {
	if !isFinite(v) || v < 0 {
		return invalid("plateau_delta", v, "must be equal or greater than 0")
	}
	c.p.PlateauDelta = v
	return nil
}

// Apply writes a whole parameter set through the setters. Limits and windows
// are ordered so that a consistent set can replace another one regardless of
// the current state. Rejected parameters keep their previous value and their
// errors are joined into the result.
func (c *Config) Apply(p Params) error {
	var errs []error

	if p.UpperLimit > c.p.LowerLimit {
		errs = append(errs, c.SetUpperLimit(p.UpperLimit), c.SetLowerLimit(p.LowerLimit))
	} else {
		errs = append(errs, c.SetLowerLimit(p.LowerLimit), c.SetUpperLimit(p.UpperLimit))
	}

	if p.SlowWindow > c.p.FastWindow {
		errs = append(errs, c.SetSlowWindow(p.SlowWindow), c.SetFastWindow(p.FastWindow))
	} else {
		errs = append(errs, c.SetFastWindow(p.FastWindow), c.SetSlowWindow(p.SlowWindow))
	}

	errs = append(errs,
		c.SetSlopeDelta(p.SlopeDelta),
		c.SetPlateauLength(p.PlateauLength),
		c.SetPlateauDelta(p.PlateauDelta),
	)

	return errors.Join(errs...)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
