package engine

import (
	"math"
	"testing"
)

// --- Pure math helpers: exact expected values ---

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		want float64
	}{
		{"empty", nil, 0},
		{"single", []float64{42}, 42},
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{1, 2, 3, 4}, 2.5},
		{"unsorted even", []float64{10, 2, 8, 4}, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := median(tt.x)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("median(%v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	x := []float64{3, 1, 2}
	median(x)
	if x[0] != 3 || x[1] != 1 || x[2] != 2 {
		t.Errorf("median mutated its input: %v", x)
	}
}

func TestQuantile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}
	tests := []struct {
		name string
		q    float64
		want float64
	}{
		{"min", 0, 10},
		{"max", 1, 50},
		{"median", 0.5, 30},
		{"q1 interpolated", 0.25, 20},
		{"q3 interpolated", 0.75, 40},
		{"between ranks", 0.1, 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := quantile(sorted, tt.q)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("quantile(%v, %v) = %v, want %v", sorted, tt.q, got, tt.want)
			}
		})
	}
}

func TestQuantile_InterpolatesEvenLength(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	// idx = 0.25*3 = 0.75 -> 1*(0.25) + 2*(0.75) = 1.75
	if got := quantile(sorted, 0.25); math.Abs(got-1.75) > 1e-9 {
		t.Errorf("quantile = %v, want 1.75", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name            string
		value, min, max float64
		want            float64
	}{
		{"below range", -5, 0, 10, 0},
		{"above range", 15, 0, 10, 1},
		{"midpoint", 5, 0, 10, 0.5},
		{"degenerate range", 5, 10, 10, 0},
		{"inverted range", 5, 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize(tt.value, tt.min, tt.max)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("normalize(%v, %v, %v) = %v, want %v", tt.value, tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestSanitizeFloat(t *testing.T) {
	if got := sanitizeFloat(math.NaN()); got != 0 {
		t.Errorf("sanitizeFloat(NaN) = %v, want 0", got)
	}
	if got := sanitizeFloat(math.Inf(1)); got != 0 {
		t.Errorf("sanitizeFloat(+Inf) = %v, want 0", got)
	}
	if got := sanitizeFloat(3.5); got != 3.5 {
		t.Errorf("sanitizeFloat(3.5) = %v, want 3.5", got)
	}
}

func TestIsFinitePositive(t *testing.T) {
	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if isFinitePositive(bad) {
			t.Errorf("isFinitePositive(%v) = true, want false", bad)
		}
	}
	if !isFinitePositive(0.001) {
		t.Error("isFinitePositive(0.001) = false, want true")
	}
}
