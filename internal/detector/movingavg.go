package detector

import "fmt"

// MovingAverages groups the slow and fast averages and their difference.
type MovingAverages struct {
	Slow  []float64
	Fast  []float64
	Delta []float64
}

// MovingAverage returns the forward window mean values[i..i+w-1] for every i
// with a full window. The trailing w-1 positions repeat the last computed
// mean, so the output always has len(values) entries.
func MovingAverage(values []float64, w int) ([]float64, error) {
	if w <= 0 {
		return nil, invalid("window", w, "must be positive")
	}
	n := len(values)
	if w > n {
		return nil, fmt.Errorf("%w: window %d exceeds series length %d", ErrInsufficientData, w, n)
	}

	out := make([]float64, n)
	valid := n - w + 1
	for i := 0; i < valid; i++ {
		var sum float64
		for _, v := range values[i : i+w] {
			sum += v
		}
		out[i] = sum / float64(w)
	}

	last := out[valid-1]
	for i := valid; i < n; i++ {
		out[i] = last
	}
	return out, nil
}

// ComputeMovingAverages computes both averages and delta = slow - fast.
func ComputeMovingAverages(values []float64, slowWindow, fastWindow int) (MovingAverages, error) {
	slow, err := MovingAverage(values, slowWindow)
	if err != nil {
		return MovingAverages{}, fmt.Errorf("slow moving average: %w", err)
	}
	fast, err := MovingAverage(values, fastWindow)
	if err != nil {
		return MovingAverages{}, fmt.Errorf("fast moving average: %w", err)
	}

	delta := make([]float64, len(values))
	for i := range delta {
		delta[i] = slow[i] - fast[i]
	}

	return MovingAverages{Slow: slow, Fast: fast, Delta: delta}, nil
}
