package embed

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"scaled", []float32{1, 1}, []float32{5, 5}, 1},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 2}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Cosine(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Cosine = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCosine_StaysInRange(t *testing.T) {
	vecs := [][]float32{
		{0.1, -0.9, 0.4, 0.2},
		{-0.7, 0.3, 0.3, -0.1},
		{2, 2, 2, 2},
		{-5, 1, 0, 3},
	}
	for _, a := range vecs {
		for _, b := range vecs {
			got := Cosine(a, b)
			if got < -1.0000001 || got > 1.0000001 {
				t.Errorf("Cosine(%v, %v) = %v outside [-1, 1]", a, b, got)
			}
		}
	}
}

func TestRound4(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.123456, 0.1235},
		{0.12344, 0.1234},
		{-0.99995, -1},
		{1, 1},
		{0, 0},
	}
	for _, tc := range tests {
		if got := Round4(tc.in); got != tc.want {
			t.Errorf("Round4(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRound4_ExactPrecision(t *testing.T) {
	for _, f := range []float64{0.38127449, -0.00004999, 0.55555} {
		r := Round4(f)
		if Round4(r) != r {
			t.Errorf("Round4 not idempotent for %v", f)
		}
		scaled := r * 10000
		if math.Abs(scaled-math.Round(scaled)) > 1e-6 {
			t.Errorf("Round4(%v) = %v has more than 4 decimal places", f, r)
		}
	}
}
