package detector

import "testing"

func TestRuptureStrictBounds(t *testing.T) {
	got := Rupture([]float64{99.9, 100, 700, 1300, 1300.1}, 100, 1300)
	assertFlags(t, got, []bool{true, false, false, false, true})
}

func TestSlopeSymmetricThreshold(t *testing.T) {
	got := Slope([]float64{-71, -70, 0, 70, 71}, 70)
	assertFlags(t, got, []bool{true, false, false, false, true})
}

func TestPlateauRunResets(t *testing.T) {
	delta := []float64{0, 0, 0, 5, 0, 0, 0, 0, -0.5}
	got := Plateau(delta, 1, 2)
	assertFlags(t, got, []bool{false, false, true, false, false, false, true, true, true})
}

func TestPlateauEpsilonIsStrict(t *testing.T) {
	got := Plateau([]float64{2, 2, 2, 2}, 2, 1)
	assertFlags(t, got, []bool{false, false, false, false})
}

func TestCombine(t *testing.T) {
	a := []bool{true, false, false, false}
	b := []bool{false, true, false, false}
	c := []bool{false, false, true, false}
	assertFlags(t, Combine(a, b, c), []bool{true, true, true, false})
	if Combine() != nil {
		t.Fatal("no columns should combine to nil")
	}
}

func assertFlags(t *testing.T, got, want []bool) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v want %v (all: %v)", i, got[i], want[i], got)
		}
	}
}
