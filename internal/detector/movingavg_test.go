package detector

import (
	"errors"
	"testing"
)

func TestMovingAverageForwardWindowWithPadding(t *testing.T) {
	got, err := MovingAverage([]float64{1, 2, 3, 4, 5, 6}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 末尾用最后一个有效均值填充，而不是原始值 6。
	want := []float64{2, 3, 4, 5, 5, 5}
	assertFloats(t, got, want)
}

func TestMovingAverageWindowOfOne(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5}
	got, err := MovingAverage(values, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertFloats(t, got, values)
}

func TestMovingAverageErrors(t *testing.T) {
	if _, err := MovingAverage([]float64{1, 2}, 3); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("window longer than series should be insufficient data, got %v", err)
	}
	if _, err := MovingAverage([]float64{1, 2}, 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero window should be a validation error, got %v", err)
	}
}

func TestComputeMovingAveragesAlignment(t *testing.T) {
	values := make([]float64, 57)
	for i := range values {
		values[i] = float64((i*37)%101) + 0.25
	}

	ma, err := ComputeMovingAverages(values, 20, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, col := range [][]float64{ma.Slow, ma.Fast, ma.Delta} {
		if len(col) != len(values) {
			t.Fatalf("column length %d, want %d", len(col), len(values))
		}
	}
	for i := range values {
		if ma.Delta[i] != ma.Slow[i]-ma.Fast[i] {
			t.Fatalf("delta[%d]=%v, want %v", i, ma.Delta[i], ma.Slow[i]-ma.Fast[i])
		}
	}
	for i := len(values) - 19; i < len(values); i++ {
		if ma.Slow[i] != ma.Slow[len(values)-20] {
			t.Fatalf("slow[%d] should repeat the last full-window mean", i)
		}
	}
}

func TestComputeMovingAveragesIsPure(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = float64(i * i)
	}
	before := append([]float64(nil), values...)

	a, err := ComputeMovingAverages(values, 20, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := ComputeMovingAverages(values, 20, 5)

	assertFloats(t, values, before)
	assertFloats(t, a.Delta, b.Delta)
}

func assertFloats(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v want %v", i, got[i], want[i])
		}
	}
}
