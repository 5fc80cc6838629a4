package app

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"gastank-alerts/internal/detector"
)

// writeFrameCSV writes the annotated table. Derived and flag columns are only
// emitted when they were computed.
func writeFrameCSV(path string, frame *detector.Frame) error {
	if frame == nil {
		return errors.New("nothing to export")
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	floatCols := []struct {
		name string
		data []float64
	}{
		{"slow_ma", frame.SlowMA},
		{"fast_ma", frame.FastMA},
		{"delta_ma", frame.DeltaMA},
	}
	flagCols := []struct {
		name string
		data []bool
	}{
		{"rupture_alert", frame.Rupture},
		{"slope_alert", frame.Slope},
		{"plateau_alert", frame.Plateau},
		{"alert", frame.Alert},
	}

	header := make([]string, 0, 9)
	if frame.Labels != nil {
		header = append(header, "label")
	}
	header = append(header, "values")
	for _, c := range floatCols {
		if c.data != nil {
			header = append(header, c.name)
		}
	}
	for _, c := range flagCols {
		if c.data != nil {
			header = append(header, c.name)
		}
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for i := 0; i < frame.Len(); i++ {
		record := make([]string, 0, len(header))
		if frame.Labels != nil {
			record = append(record, frame.Labels[i])
		}
		record = append(record, formatFloat(frame.Values[i]))
		for _, c := range floatCols {
			if c.data != nil {
				record = append(record, formatFloat(c.data[i]))
			}
		}
		for _, c := range flagCols {
			if c.data != nil {
				record = append(record, formatFlag(c.data[i]))
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFlag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
