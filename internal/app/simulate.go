package app

import (
	"context"
	"errors"
	"math"
	"time"

	"gastank-alerts/internal/service"
	"gastank-alerts/internal/source"
)

// Simulate 生成一段合成序列（尖峰 + 冻结段）并走完整检测流程。
func (a *App) Simulate(ctx context.Context, opts SimulateOptions) error {
	if err := a.checkParams(); err != nil {
		return err
	}

	values, err := syntheticSeries(opts)
	if err != nil {
		return err
	}

	loader := &source.StaticLoader{Table: source.Table{Name: "simulated", Values: values}}
	svc := service.New(a.Config, nil, loader, a.newNotifier(), a.Logger)

	res, err := svc.Evaluate(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	return a.report(res, opts.CSVPath, opts.ShowLimit)
}

// syntheticSeries draws a slow sine around the baseline, replaces one reading
// with the spike and holds the signal constant over the freeze window.
func syntheticSeries(opts SimulateOptions) ([]float64, error) {
	if opts.Samples <= 20 {
		return nil, errors.New("samples must be greater than 20")
	}
	if opts.FreezeLen < 0 || opts.FreezeAt < 0 || opts.FreezeAt+opts.FreezeLen > opts.Samples {
		return nil, errors.New("freeze window must lie inside the series")
	}

	values := make([]float64, opts.Samples)
	for i := range values {
		values[i] = opts.Baseline + 40*math.Sin(float64(i)/15)
	}

	if opts.FreezeLen > 0 {
		frozen := values[opts.FreezeAt]
		for i := opts.FreezeAt; i < opts.FreezeAt+opts.FreezeLen; i++ {
			values[i] = frozen
		}
	}

	if opts.SpikeAt >= 0 && opts.SpikeAt < opts.Samples {
		values[opts.SpikeAt] = opts.SpikeValue
	}
	return values, nil
}
