package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

const (
	listReadingsBetweenSQL = `SELECT
        sensor_id,
        reading_ts,
        value::text
    FROM sensor_readings
    WHERE sensor_id = $1
      AND reading_ts >= $2
      AND reading_ts < $3
    ORDER BY reading_ts;`

	listRecentReadingsSQL = `SELECT
        sensor_id,
        reading_ts,
        value::text
    FROM sensor_readings
    WHERE sensor_id = $1
    ORDER BY reading_ts DESC
    LIMIT $2;`

	countReadingsSQL = `SELECT COUNT(*) FROM sensor_readings WHERE sensor_id = $1;`
)

// ReadingStore defines read access to a sensor's history.
type ReadingStore interface {
	ListReadingsBetween(ctx context.Context, sensorID string, from, to time.Time) ([]Reading, error)
	ListRecentReadings(ctx context.Context, sensorID string, limit int) ([]Reading, error)
	CountReadings(ctx context.Context, sensorID string) (int64, error)
}

// Store reads sensor readings from PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// ListReadingsBetween lists readings within [from, to) in ascending time order.
func (s *Store) ListReadingsBetween(ctx context.Context, sensorID string, from, to time.Time) ([]Reading, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listReadingsBetweenSQL, sensorID, from, to)
	if queryErr != nil {
		return nil, fmt.Errorf("list readings between: %w", queryErr)
	}
	defer rows.Close()

	readings := make([]Reading, 0)
	for rows.Next() {
		reading, scanErr := scanReading(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		readings = append(readings, reading)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return readings, nil
}

// ListRecentReadings returns the latest limit readings in ascending time order.
func (s *Store) ListRecentReadings(ctx context.Context, sensorID string, limit int) ([]Reading, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentReadingsSQL, sensorID, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent readings: %w", queryErr)
	}
	defer rows.Close()

	readings := make([]Reading, 0, capacityHint(limit))
	for rows.Next() {
		reading, scanErr := scanReading(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		readings = append(readings, reading)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	// query is newest first
	for i, j := 0, len(readings)-1; i < j; i, j = i+1, j-1 {
		readings[i], readings[j] = readings[j], readings[i]
	}
	return readings, nil
}

// maxPrealloc bounds the slice capacity reserved from a caller-supplied limit.
const maxPrealloc = 1024

func capacityHint(limit int) int {
	if limit < 0 {
		return 0
	}
	return min(limit, maxPrealloc)
}

// CountReadings counts stored readings for a sensor.
func (s *Store) CountReadings(ctx context.Context, sensorID string) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}
	var count int64
	if scanErr := pool.QueryRow(ctx, countReadingsSQL, sensorID).Scan(&count); scanErr != nil {
		return 0, fmt.Errorf("count readings: %w", scanErr)
	}
	return count, nil
}

func scanReading(rows pgx.Rows) (Reading, error) {
	var (
		sensorID string
		ts       time.Time
		valueStr string
	)

	if err := rows.Scan(&sensorID, &ts, &valueStr); err != nil {
		return Reading{}, err
	}

	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return Reading{}, fmt.Errorf("parse reading value: %w", err)
	}

	return Reading{SensorID: sensorID, Time: ts, Value: value}, nil
}

var _ ReadingStore = (*Store)(nil)
