package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"gastank-alerts/internal/storage"
)

// StoreOptions parameterise the database-backed loader. When Lookback is
// positive it wins over Limit.
type StoreOptions struct {
	SensorID string
	Lookback time.Duration
	Limit    int
}

// StoreLoader reads a sensor's recent history from a ReadingStore.
type StoreLoader struct {
	store  storage.ReadingStore
	opts   StoreOptions
	now    func() time.Time
	logger zerolog.Logger
}

// NewStore constructs a StoreLoader.
func NewStore(store storage.ReadingStore, opts StoreOptions, logger zerolog.Logger) *StoreLoader {
	return &StoreLoader{
		store:  store,
		opts:   opts,
		now:    time.Now,
		logger: logger.With().Str("component", "store_source").Logger(),
	}
}

// Load fetches readings in ascending time order, labelled with RFC3339 timestamps.
func (s *StoreLoader) Load(ctx context.Context) (Table, error) {
	if s.store == nil {
		return Table{}, storage.ErrNotConfigured
	}
	if s.opts.SensorID == "" {
		return Table{}, errors.New("sensor id not configured")
	}

	var (
		readings []storage.Reading
		err      error
	)
	switch {
	case s.opts.Lookback > 0:
		to := s.now().UTC()
		readings, err = s.store.ListReadingsBetween(ctx, s.opts.SensorID, to.Add(-s.opts.Lookback), to)
	case s.opts.Limit > 0:
		readings, err = s.store.ListRecentReadings(ctx, s.opts.SensorID, s.opts.Limit)
	default:
		return Table{}, errors.New("lookback or limit must be greater than zero")
	}
	if err != nil {
		return Table{}, fmt.Errorf("load readings for %s: %w", s.opts.SensorID, err)
	}
	if len(readings) == 0 {
		if total, countErr := s.store.CountReadings(ctx, s.opts.SensorID); countErr == nil {
			s.logger.Warn().Str("sensor_id", s.opts.SensorID).Int64("stored", total).Msg("no readings in the requested range")
		}
		return Table{}, ErrEmpty
	}

	table := Table{
		Name:   s.opts.SensorID,
		Labels: make([]string, len(readings)),
		Values: make([]float64, len(readings)),
	}
	for i, r := range readings {
		table.Labels[i] = r.Time.UTC().Format(time.RFC3339)
		table.Values[i] = r.Float()
	}

	s.logger.Debug().Str("sensor_id", s.opts.SensorID).Int("rows", len(readings)).Msg("readings loaded")
	return table, nil
}

var _ Loader = (*StoreLoader)(nil)
