package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"gastank-alerts/internal/alerting"
	"gastank-alerts/internal/config"
	"gastank-alerts/internal/detector"
	"gastank-alerts/internal/scheduler"
	"gastank-alerts/internal/source"
)

// Result is the outcome of one evaluation.
type Result struct {
	At       time.Time
	Series   string
	Frame    *detector.Frame
	Summary  detector.Summary
	Params   detector.Params
	Tuning   *detector.Tuning
	TuneErr  error
	Notified bool
}

// Service orchestrates loading, detection, and alerting.
type Service struct {
	scheduler *scheduler.Scheduler
	loader    source.Loader
	notifier  alerting.Notifier
	logger    zerolog.Logger

	params    detector.Params
	autoTune  bool
	alertsOn  bool
	minAlerts int
	channels  []string
}

// New constructs the evaluation service.
func New(cfg *config.Config, sched *scheduler.Scheduler, loader source.Loader, notifier alerting.Notifier, logger zerolog.Logger) *Service {
	minAlerts := cfg.Alerting.MinAlerts
	if minAlerts < 1 {
		minAlerts = 1
	}

	return &Service{
		scheduler: sched,
		loader:    loader,
		notifier:  notifier,
		logger:    logger.With().Str("component", "service").Logger(),
		params:    cfg.Detector.Params,
		autoTune:  cfg.Detector.AutoTune,
		alertsOn:  cfg.Alerting.Enabled,
		minAlerts: minAlerts,
		channels:  cfg.Alerting.Channels,
	}
}

// Run begins the periodic evaluation loop.
func (s *Service) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return s.scheduler.Run(ctx, func(ctx context.Context, at time.Time) error {
		_, err := s.Evaluate(ctx, at)
		return err
	})
}

// Evaluate 加载序列并执行一次完整检测。
func (s *Service) Evaluate(ctx context.Context, at time.Time) (*Result, error) {
	table, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load series: %w", err)
	}

	dcfg := detector.NewConfig()
	if err := dcfg.Apply(s.params); err != nil {
		return nil, fmt.Errorf("detector parameters: %w", err)
	}

	det := detector.New(dcfg, s.logger)
	if err := det.SetSeries(table.Values, table.Labels); err != nil {
		return nil, fmt.Errorf("series %q: %w", table.Name, err)
	}

	res := &Result{At: at, Series: table.Name}

	if s.autoTune {
		tuning, tuneErr := det.AutoTune()
		res.Tuning = &tuning
		if tuneErr != nil {
			// prior thresholds stay in effect for whatever was rejected
			res.TuneErr = tuneErr
			s.logger.Warn().Err(tuneErr).Str("series", table.Name).Msg("auto-tune not fully applied")
		}
	}

	frame, err := det.DetectAll()
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}

	res.Frame = frame
	res.Summary = frame.Summarize()
	res.Params = dcfg.Params()

	s.logger.Info().Time("at", at).
		Str("series", table.Name).
		Int("samples", res.Summary.Samples).
		Int("alerts", res.Summary.Alerts).
		Int("rupture", res.Summary.Rupture).
		Int("slope", res.Summary.Slope).
		Int("plateau", res.Summary.Plateau).
		Msg("evaluation recorded")

	if s.alertsOn && s.notifier != nil && res.Summary.Alerts >= s.minAlerts {
		if err := s.notifier.Notify(ctx, s.notification(res)); err != nil {
			s.logger.Error().Err(err).Time("at", at).Msg("failed to dispatch alert")
		} else {
			res.Notified = true
		}
	}

	return res, nil
}

func (s *Service) notification(res *Result) alerting.Notification {
	note := alerting.Notification{
		EvaluatedAt: res.At,
		Sensor:      res.Series,
		Samples:     res.Summary.Samples,
		Alerts:      res.Summary.Alerts,
		Rupture:     res.Summary.Rupture,
		Slope:       res.Summary.Slope,
		Plateau:     res.Summary.Plateau,
		LowerLimit:  decimal.NewFromFloat(res.Params.LowerLimit),
		UpperLimit:  decimal.NewFromFloat(res.Params.UpperLimit),
		SlopeDelta:  decimal.NewFromFloat(res.Params.SlopeDelta),
		AutoTuned:   res.Tuning != nil && res.TuneErr == nil,
		Channels:    s.channels,
	}
	if res.Summary.FirstAlert >= 0 {
		note.FirstAlert = rowLabel(res.Frame, res.Summary.FirstAlert)
		note.LastAlert = rowLabel(res.Frame, res.Summary.LastAlert)
	}
	return note
}

func rowLabel(f *detector.Frame, i int) string {
	if f.Labels != nil {
		return f.Labels[i]
	}
	return fmt.Sprintf("#%d", i)
}
