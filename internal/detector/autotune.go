package detector

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

const (
	tuneSigmas     = 2.5
	tuneSlopeShare = 0.1
)

// Tuning reports the statistics and thresholds derived by auto-tune.
type Tuning struct {
	Mean       float64
	StdDev     float64
	LowerLimit float64
	UpperLimit float64
	SlopeDelta float64
}

// SuggestThresholds derives limits at mean ± 2.5σ (population σ) and a slope
// delta of 10% of that range.
func SuggestThresholds(values []float64) (Tuning, error) {
	if len(values) == 0 {
		return Tuning{}, ErrNotReady
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	t := Tuning{
		Mean:       mean,
		StdDev:     std,
		LowerLimit: mean - tuneSigmas*std,
		UpperLimit: mean + tuneSigmas*std,
	}
	t.SlopeDelta = tuneSlopeShare * (t.UpperLimit - t.LowerLimit)

	if std == 0 {
		return t, ErrDegenerateSeries
	}
	return t, nil
}

// AutoTune writes suggested limits and slope delta through the setters, in
// lower, upper, slope order. A rejected write keeps the prior value and is
// reported in the returned error; the other writes still apply.
func (d *Detector) AutoTune() (Tuning, error) {
	if d.frame == nil {
		return Tuning{}, ErrNotReady
	}

	t, err := SuggestThresholds(d.frame.Values)
	if err != nil {
		return t, err
	}

	err = errors.Join(
		d.cfg.SetLowerLimit(t.LowerLimit),
		d.cfg.SetUpperLimit(t.UpperLimit),
		d.cfg.SetSlopeDelta(t.SlopeDelta),
	)
	if err != nil {
		d.logger.Warn().Err(err).
			Float64("mean", t.Mean).
			Float64("std", t.StdDev).
			Msg("auto-tune partially rejected")
		return t, fmt.Errorf("auto-tune: %w", err)
	}

	d.logger.Debug().
		Float64("lower_limit", t.LowerLimit).
		Float64("upper_limit", t.UpperLimit).
		Float64("slope_delta", t.SlopeDelta).
		Msg("auto-tune applied")
	return t, nil
}
