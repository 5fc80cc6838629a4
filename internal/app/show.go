package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gastank-alerts/internal/service"
)

// showResult prints flagged rows and a summary to stdout.
func showResult(res *service.Result, limit int) error {
	return writeResult(os.Stdout, res, limit)
}

func writeResult(out io.Writer, res *service.Result, limit int) error {
	frame := res.Frame
	sum := res.Summary
	p := res.Params

	if res.Tuning != nil {
		status := "applied"
		if res.TuneErr != nil {
			status = "rejected: " + sanitizeInline(res.TuneErr.Error())
		}
		fmt.Fprintf(out, "auto-tune: mean=%.3f std=%.3f -> [%.3f, %.3f] slope_delta=%.3f (%s)\n",
			res.Tuning.Mean, res.Tuning.StdDev, res.Tuning.LowerLimit, res.Tuning.UpperLimit, res.Tuning.SlopeDelta, status)
	}
	fmt.Fprintf(out, "limits=[%g, %g] slow=%d fast=%d slope_delta=%g plateau=%d/%g\n",
		p.LowerLimit, p.UpperLimit, p.SlowWindow, p.FastWindow, p.SlopeDelta, p.PlateauLength, p.PlateauDelta)
	fmt.Fprintf(out, "%s: %d samples, %d flagged (rupture %d, slope %d, plateau %d)\n",
		seriesName(res.Series), sum.Samples, sum.Alerts, sum.Rupture, sum.Slope, sum.Plateau)

	rows := frame.AlertRows()
	if len(rows) == 0 || limit == 0 {
		return nil
	}

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Row\tLabel\tValue\tDeltaMA\tRupture\tSlope\tPlateau")

	for n, i := range rows {
		if n >= limit {
			fmt.Fprintf(writer, "...\t%d more\t\t\t\t\t\n", len(rows)-limit)
			break
		}
		label := ""
		if frame.Labels != nil {
			label = sanitizeInline(frame.Labels[i])
		}
		fmt.Fprintf(
			writer,
			"%d\t%s\t%.3f\t%.3f\t%s\t%s\t%s\n",
			i,
			label,
			frame.Values[i],
			frame.DeltaMA[i],
			mark(frame.Rupture, i),
			mark(frame.Slope, i),
			mark(frame.Plateau, i),
		)
	}

	return writer.Flush()
}

func mark(col []bool, i int) string {
	if col != nil && col[i] {
		return "x"
	}
	return ""
}

func seriesName(name string) string {
	if name == "" {
		return "series"
	}
	return name
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
