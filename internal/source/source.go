package source

import (
	"context"
	"errors"
)

// ErrEmpty is returned when a source yields no readings.
var ErrEmpty = errors.New("source: no readings")

// Table is one named numeric series with optional aligned row labels.
type Table struct {
	Name   string
	Labels []string
	Values []float64
}

// Loader produces the series to analyse.
type Loader interface {
	Load(ctx context.Context) (Table, error)
}

// StaticLoader serves a fixed in-memory table.
type StaticLoader struct {
	Table Table
}

// Load returns a copy of the static table.
func (s *StaticLoader) Load(ctx context.Context) (Table, error) {
	if len(s.Table.Values) == 0 {
		return Table{}, ErrEmpty
	}
	t := Table{Name: s.Table.Name, Values: append([]float64(nil), s.Table.Values...)}
	if s.Table.Labels != nil {
		t.Labels = append([]string(nil), s.Table.Labels...)
	}
	return t, nil
}

var _ Loader = (*StaticLoader)(nil)
