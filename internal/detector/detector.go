package detector

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

// Frame is the input table annotated with whatever columns have been computed.
// A nil column has not been produced yet.
type Frame struct {
	Labels  []string
	Values  []float64
	SlowMA  []float64
	FastMA  []float64
	DeltaMA []float64
	Rupture []bool
	Slope   []bool
	Plateau []bool
	Alert   []bool
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Values)
}

// Detector runs the detection rules over one series. It is not safe for
// concurrent use; use one Detector per series.
type Detector struct {
	cfg    *Config
	frame  *Frame
	logger zerolog.Logger
}

// New constructs a detector bound to cfg. A nil cfg uses the defaults.
func New(cfg *Config, logger zerolog.Logger) *Detector {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &Detector{cfg: cfg, logger: logger.With().Str("component", "detector").Logger()}
}

// Config exposes the parameter store.
func (d *Detector) Config() *Config {
	return d.cfg
}

// SetSeries loads a copy of values. Labels are optional; when present they
// must align with values. Any previously computed columns are discarded.
func (d *Detector) SetSeries(values []float64, labels []string) error {
	if len(values) <= MinSeriesLength {
		return fmt.Errorf("%w: %d readings, need more than %d", ErrInsufficientData, len(values), MinSeriesLength)
	}
	if labels != nil && len(labels) != len(values) {
		return invalid("labels", len(labels), fmt.Sprintf("length must match %d readings", len(values)))
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid("values", v, fmt.Sprintf("reading %d is not finite", i))
		}
	}

	frame := &Frame{Values: append([]float64(nil), values...)}
	if labels != nil {
		frame.Labels = append([]string(nil), labels...)
	}
	d.frame = frame

	d.logger.Debug().Int("readings", len(values)).Msg("series loaded")
	return nil
}

// Frame returns the annotated table, or nil before a series is loaded.
func (d *Detector) Frame() *Frame {
	return d.frame
}

// DetectRupture flags readings outside the configured limits. The combined
// Alert column is cleared until the next DetectAll.
func (d *Detector) DetectRupture() ([]bool, error) {
	if d.frame == nil {
		return nil, ErrNotReady
	}
	p := d.cfg.Params()
	d.frame.Rupture = Rupture(d.frame.Values, p.LowerLimit, p.UpperLimit)
	d.frame.Alert = nil
	return d.frame.Rupture, nil
}

// DetectSlope recomputes the moving averages and flags fast divergence.
func (d *Detector) DetectSlope() ([]bool, error) {
	ma, err := d.averages()
	if err != nil {
		return nil, err
	}
	f := d.frame
	f.SlowMA, f.FastMA, f.DeltaMA = ma.Slow, ma.Fast, ma.Delta
	f.Slope = Slope(ma.Delta, d.cfg.Params().SlopeDelta)
	f.Alert = nil
	return f.Slope, nil
}

// DetectPlateau recomputes the moving averages and flags long flat runs.
func (d *Detector) DetectPlateau() ([]bool, error) {
	ma, err := d.averages()
	if err != nil {
		return nil, err
	}
	p := d.cfg.Params()
	f := d.frame
	f.SlowMA, f.FastMA, f.DeltaMA = ma.Slow, ma.Fast, ma.Delta
	f.Plateau = Plateau(ma.Delta, p.PlateauDelta, p.PlateauLength)
	f.Alert = nil
	return f.Plateau, nil
}

// DetectAll runs rupture, slope and plateau over a single moving-average
// computation and ORs them into the Alert column. On error the frame is left
// as it was.
func (d *Detector) DetectAll() (*Frame, error) {
	ma, err := d.averages()
	if err != nil {
		return nil, err
	}

	p := d.cfg.Params()
	f := d.frame
	rupture := Rupture(f.Values, p.LowerLimit, p.UpperLimit)
	slope := Slope(ma.Delta, p.SlopeDelta)
	plateau := Plateau(ma.Delta, p.PlateauDelta, p.PlateauLength)

	f.SlowMA, f.FastMA, f.DeltaMA = ma.Slow, ma.Fast, ma.Delta
	f.Rupture, f.Slope, f.Plateau = rupture, slope, plateau
	f.Alert = Combine(rupture, slope, plateau)

	d.logger.Debug().
		Int("rupture", countTrue(f.Rupture)).
		Int("slope", countTrue(f.Slope)).
		Int("plateau", countTrue(f.Plateau)).
		Int("alert", countTrue(f.Alert)).
		Msg("detection pass complete")
	return f, nil
}

func (d *Detector) averages() (MovingAverages, error) {
	if d.frame == nil {
		return MovingAverages{}, ErrNotReady
	}
	p := d.cfg.Params()
	return ComputeMovingAverages(d.frame.Values, p.SlowWindow, p.FastWindow)
}

func countTrue(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
