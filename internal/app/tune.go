package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gastank-alerts/internal/detector"
)

// Tune prints the thresholds auto-tune would derive and whether the
// configured store would accept each of them.
func (a *App) Tune(ctx context.Context, opts TuneOptions) error {
	a.applyInputOverrides(opts.Input, opts.Column)

	if err := a.checkParams(); err != nil {
		return err
	}

	loader, closeLoader, err := a.newLoader(ctx)
	if err != nil {
		return err
	}
	if closeLoader != nil {
		defer closeLoader()
	}

	table, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load series: %w", err)
	}

	cfg := detector.NewConfig()
	if err := cfg.Apply(a.Config.Detector.Params); err != nil {
		return err
	}
	det := detector.New(cfg, a.Logger)
	if err := det.SetSeries(table.Values, table.Labels); err != nil {
		return err
	}

	tuning, tuneErr := det.AutoTune()
	return writeTuning(os.Stdout, seriesName(table.Name), tuning, cfg.Params(), tuneErr)
}

func writeTuning(out io.Writer, name string, t detector.Tuning, applied detector.Params, tuneErr error) error {
	fmt.Fprintf(out, "%s: mean=%.4f std=%.4f\n", name, t.Mean, t.StdDev)
	if errors.Is(tuneErr, detector.ErrDegenerateSeries) {
		fmt.Fprintln(out, "series is constant; limits left unchanged")
		return nil
	}

	fmt.Fprintf(out, "suggested lower_limit=%.4f upper_limit=%.4f slope_delta=%.4f\n", t.LowerLimit, t.UpperLimit, t.SlopeDelta)
	fmt.Fprintf(out, "resulting lower_limit=%g upper_limit=%g slope_delta=%g\n", applied.LowerLimit, applied.UpperLimit, applied.SlopeDelta)
	if tuneErr != nil {
		fmt.Fprintf(out, "rejected: %s\n", sanitizeInline(tuneErr.Error()))
	}
	return nil
}
