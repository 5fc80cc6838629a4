package detector

import "math"

// Rupture flags readings outside [lower, upper].
func Rupture(values []float64, lower, upper float64) []bool {
	flags := make([]bool, len(values))
	for i, v := range values {
		flags[i] = v < lower || v > upper
	}
	return flags
}

// Slope flags samples whose slow/fast divergence exceeds ±threshold.
func Slope(delta []float64, threshold float64) []bool {
	flags := make([]bool, len(delta))
	for i, d := range delta {
		flags[i] = d < -threshold || d > threshold
	}
	return flags
}

// Plateau scans delta in time order, counting consecutive samples with
// |delta| < epsilon. A sample is flagged once the run exceeds length; any
// break resets the run to zero.
func Plateau(delta []float64, epsilon float64, length int) []bool {
	flags := make([]bool, len(delta))
	run := 0
	for i, d := range delta {
		if math.Abs(d) < epsilon {
			run++
		} else {
			run = 0
		}
		flags[i] = run > length
	}
	return flags
}

// Combine ORs aligned flag columns.
func Combine(columns ...[]bool) []bool {
	if len(columns) == 0 {
		return nil
	}
	out := make([]bool, len(columns[0]))
	for _, col := range columns {
		for i, f := range col {
			out[i] = out[i] || f
		}
	}
	return out
}
