package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"gastank-alerts/internal/storage"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestReadCSV(t *testing.T) {
	input := "ts,values\n2024-01-01T00:00:00Z,500\n2024-01-01T00:01:00Z, 512.5\n"
	table, err := ReadCSV(context.Background(), strings.NewReader(input), "values", "ts")
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(table.Values) != 2 || table.Values[1] != 512.5 {
		t.Fatalf("unexpected values: %v", table.Values)
	}
	if table.Labels[0] != "2024-01-01T00:00:00Z" {
		t.Fatalf("unexpected labels: %v", table.Labels)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing column", "pressure\n1\n"},
		{"bad value", "values\n1\nabc\n"},
		{"blank value", "values\n1\n\"\"\n"},
		{"no rows", "values\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ReadCSV(context.Background(), strings.NewReader(tc.input), "values", ""); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	if _, err := ReadCSV(context.Background(), strings.NewReader(""), "values", ""); !errors.Is(err, ErrEmpty) {
		t.Fatalf("empty input should be ErrEmpty, got %v", err)
	}
}

func TestCSVLoaderFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tank.csv")
	if err := os.WriteFile(path, []byte("Values\n1\n2\n3\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	table, err := NewCSV(CSVOptions{Path: path}, noopLogger()).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(table.Values) != 3 || table.Labels != nil {
		t.Fatalf("unexpected table: %+v", table)
	}

	if _, err := NewCSV(CSVOptions{}, noopLogger()).Load(context.Background()); err == nil {
		t.Fatal("missing path should fail")
	}
}

type fakeStore struct {
	readings []storage.Reading
	from, to time.Time
	limit    int
	counted  bool
}

func (f *fakeStore) ListReadingsBetween(ctx context.Context, sensorID string, from, to time.Time) ([]storage.Reading, error) {
	f.from, f.to = from, to
	return f.readings, nil
}

func (f *fakeStore) ListRecentReadings(ctx context.Context, sensorID string, limit int) ([]storage.Reading, error) {
	f.limit = limit
	return f.readings, nil
}

func (f *fakeStore) CountReadings(ctx context.Context, sensorID string) (int64, error) {
	f.counted = true
	return int64(len(f.readings)), nil
}

func TestStoreLoaderLookback(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{readings: []storage.Reading{
		{SensorID: "tank-1", Time: base, Value: decimal.RequireFromString("700.25")},
		{SensorID: "tank-1", Time: base.Add(time.Minute), Value: decimal.NewFromInt(701)},
	}}

	loader := NewStore(store, StoreOptions{SensorID: "tank-1", Lookback: time.Hour}, noopLogger())
	loader.now = func() time.Time { return base.Add(time.Hour) }

	table, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !store.from.Equal(base) || !store.to.Equal(base.Add(time.Hour)) {
		t.Fatalf("unexpected window %v..%v", store.from, store.to)
	}
	if table.Values[0] != 700.25 || table.Labels[1] != "2024-05-01T12:01:00Z" {
		t.Fatalf("unexpected table: %+v", table)
	}
}

func TestStoreLoaderLimitAndEmpty(t *testing.T) {
	store := &fakeStore{}
	loader := NewStore(store, StoreOptions{SensorID: "tank-1", Limit: 50}, noopLogger())
	if _, err := loader.Load(context.Background()); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if store.limit != 50 {
		t.Fatalf("limit not forwarded: %d", store.limit)
	}
	if !store.counted {
		t.Fatal("empty range should look up the stored total")
	}

	if _, err := NewStore(nil, StoreOptions{SensorID: "x", Limit: 1}, noopLogger()).Load(context.Background()); !errors.Is(err, storage.ErrNotConfigured) {
		t.Fatalf("nil store should be ErrNotConfigured, got %v", err)
	}
}

func TestStaticLoaderCopies(t *testing.T) {
	s := &StaticLoader{Table: Table{Values: []float64{1, 2}}}
	table, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	table.Values[0] = 99
	if s.Table.Values[0] != 1 {
		t.Fatal("static loader should return a copy")
	}
}
