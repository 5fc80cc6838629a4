package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"gastank-alerts/internal/alerting"
	"gastank-alerts/internal/config"
	"gastank-alerts/internal/detector"
	"gastank-alerts/internal/scheduler"
	"gastank-alerts/internal/service"
	"gastank-alerts/internal/source"
	"gastank-alerts/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle. Every log line carries the
// configured app name and environment.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	logger = logger.With().
		Str("app", cfg.App.Name).
		Str("environment", cfg.App.Environment).
		Logger()
	logger.Debug().Msg("application initialised")
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

// checkParams rejects a configured parameter set the detector would not accept.
func (a *App) checkParams() error {
	if err := detector.NewConfig().Apply(a.Config.Detector.Params); err != nil {
		return fmt.Errorf("detector configuration: %w", err)
	}
	return nil
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

// newLoader picks the configured series source. The returned closer is
// non-nil when a database pool was opened.
func (a *App) newLoader(ctx context.Context) (source.Loader, func(), error) {
	switch a.Config.Input.Source {
	case config.SourcePostgres:
		store, closeStore, err := a.openStore(ctx)
		if err != nil {
			return nil, nil, err
		}
		loader := source.NewStore(store, source.StoreOptions{
			SensorID: a.Config.Database.SensorID,
			Lookback: a.Config.Database.Lookback,
			Limit:    a.Config.Database.Limit,
		}, a.Logger)
		return loader, closeStore, nil
	default:
		loader := source.NewCSV(source.CSVOptions{
			Path:        a.Config.Input.Path,
			Column:      a.Config.Input.Column,
			LabelColumn: a.Config.Input.LabelColumn,
		}, a.Logger)
		return loader, nil, nil
	}
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, errors.New("database.dsn not configured; cannot read sensor history")
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// Run executes the long-running evaluation loop.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

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

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Scheduler.Interval,
		AlignToStart: a.Config.Scheduler.AlignToBucket,
		StartupDelay: a.Config.Scheduler.StartupDelay,
		Immediate:    true,
	}, a.Logger)

	notifier := a.newNotifier()
	if a.Config.Alerting.Enabled && notifier == nil {
		a.Logger.Warn().Msg("alerting enabled but no channel configured; alerts will only be logged")
	}

	svc := service.New(a.Config, sched, loader, notifier, a.Logger)

	a.Logger.Info().Dur("interval", a.Config.Scheduler.Interval).Msg("starting evaluation loop")
	err = svc.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("service terminated with error")
		return err
	}

	a.Logger.Info().Msg("evaluation loop stopped")
	return nil
}

// DetectOptions configure a one-shot detection.
type DetectOptions struct {
	Input     string
	Column    string
	CSVPath   string
	ShowLimit int
	AutoTune  *bool
}

// TuneOptions configure the tune command.
type TuneOptions struct {
	Input  string
	Column string
}

// SimulateOptions shape the synthetic series.
type SimulateOptions struct {
	Samples    int
	Baseline   float64
	SpikeAt    int
	SpikeValue float64
	FreezeAt   int
	FreezeLen  int
	CSVPath    string
	ShowLimit  int
}
