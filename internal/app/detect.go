package app

import (
	"context"
	"time"

	"gastank-alerts/internal/config"
	"gastank-alerts/internal/service"
)

// Detect loads the configured series once, writes the annotated table and
// prints flagged rows.
func (a *App) Detect(ctx context.Context, opts DetectOptions) error {
	a.applyInputOverrides(opts.Input, opts.Column)
	if opts.AutoTune != nil {
		a.Config.Detector.AutoTune = *opts.AutoTune
	}

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

	svc := service.New(a.Config, nil, loader, a.newNotifier(), a.Logger)
	res, err := svc.Evaluate(ctx, time.Now().UTC())
	if err != nil {
		return err
	}

	return a.report(res, opts.CSVPath, opts.ShowLimit)
}

func (a *App) report(res *service.Result, csvPath string, showLimit int) error {
	if csvPath == "" {
		csvPath = a.Config.Output.CSVPath
	}
	if csvPath != "" {
		if err := writeFrameCSV(csvPath, res.Frame); err != nil {
			return err
		}
		a.Logger.Info().Str("path", csvPath).Int("rows", res.Frame.Len()).Msg("annotated series written")
	}

	return showResult(res, a.Config.ResolveShowLimit(showLimit))
}

func (a *App) applyInputOverrides(input, column string) {
	if input != "" {
		a.Config.Input.Source = config.SourceCSV
		a.Config.Input.Path = input
	}
	if column != "" {
		a.Config.Input.Column = column
	}
}
