package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// CSVOptions parameterise the CSV loader.
type CSVOptions struct {
	Path        string
	Column      string
	LabelColumn string
}

// CSVLoader reads one numeric column from a CSV file with a header row.
type CSVLoader struct {
	opts   CSVOptions
	logger zerolog.Logger
}

// NewCSV constructs a CSV loader. Column defaults to "values".
func NewCSV(opts CSVOptions, logger zerolog.Logger) *CSVLoader {
	if strings.TrimSpace(opts.Column) == "" {
		opts.Column = "values"
	}
	return &CSVLoader{opts: opts, logger: logger.With().Str("component", "csv_source").Logger()}
}

// Load opens the file and parses it.
func (c *CSVLoader) Load(ctx context.Context) (Table, error) {
	if c.opts.Path == "" {
		return Table{}, errors.New("csv path not configured")
	}

	file, err := os.Open(c.opts.Path)
	if err != nil {
		return Table{}, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	table, err := ReadCSV(ctx, file, c.opts.Column, c.opts.LabelColumn)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", c.opts.Path, err)
	}

	c.logger.Debug().Str("path", c.opts.Path).Int("rows", len(table.Values)).Msg("csv loaded")
	return table, nil
}

// ReadCSV parses column (and optionally labelColumn) from r. Blank cells are
// rejected rather than skipped so row indexes keep matching the file.
func ReadCSV(ctx context.Context, r io.Reader, column, labelColumn string) (Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, ErrEmpty
		}
		return Table{}, fmt.Errorf("read header: %w", err)
	}

	valueIdx := indexOf(header, column)
	if valueIdx < 0 {
		return Table{}, fmt.Errorf("data has no %q column", column)
	}
	labelIdx := -1
	if labelColumn != "" {
		if labelIdx = indexOf(header, labelColumn); labelIdx < 0 {
			return Table{}, fmt.Errorf("data has no %q column", labelColumn)
		}
	}

	table := Table{Name: column}
	if labelIdx >= 0 {
		table.Labels = make([]string, 0)
	}

	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return Table{}, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("line %d: %w", line, err)
		}

		raw := strings.TrimSpace(record[valueIdx])
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Table{}, fmt.Errorf("line %d: invalid %s value %q", line, column, raw)
		}
		table.Values = append(table.Values, value)
		if labelIdx >= 0 {
			table.Labels = append(table.Labels, record[labelIdx])
		}
	}

	if len(table.Values) == 0 {
		return Table{}, ErrEmpty
	}
	return table, nil
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), name) {
			return i
		}
	}
	return -1
}

var _ Loader = (*CSVLoader)(nil)
