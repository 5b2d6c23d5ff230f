package ephem

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// chebyshevDirect sums the series with the forward three-term recurrence.
func chebyshevDirect(c []float64, s float64) float64 {
	tPrev, t := 1.0, s
	sum := c[0]
	for k := 1; k < len(c); k++ {
		sum += c[k] * t
		tPrev, t = t, 2*s*t-tPrev
	}
	return sum
}

func TestChebyshevBasis(t *testing.T) {
	cases := []struct {
		name   string
		coeffs []float64
		s      float64
		want   float64
	}{
		{"constant", []float64{1, 0, 0}, 0.3, 1},
		{"T1-mid", []float64{0, 1}, 0, 0},
		{"T1-end", []float64{0, 1}, 1, 1},
		{"T1-start", []float64{0, 1}, -1, -1},
		{"T2-zero", []float64{0, 0, 1}, 0, -1},
		{"T3-half", []float64{0, 0, 0, 1}, 0.5, -1},
		{"T4-end", []float64{0, 0, 0, 0, 1}, -1, 1},
		{"T5-start", []float64{0, 0, 0, 0, 0, 1}, -1, -1},
		{"single", []float64{7.25}, -0.9, 7.25},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, chebyshev(c.coeffs, c.s))
		})
	}
}

func TestChebyshevMatchesRecurrence(t *testing.T) {
	rng := rand.New(rand.NewSource(405))
	for n := 1; n <= 18; n++ {
		coeffs := make([]float64, n)
		for i := range coeffs {
			coeffs[i] = (rng.Float64()*2 - 1) * math.Pow(10, float64(8-i))
		}
		for _, s := range []float64{-1, -0.73, -0.5, 0, 0.125, 0.5, 0.999, 1} {
			want := chebyshevDirect(coeffs, s)
			assert.InDelta(t, want, chebyshev(coeffs, s), 1e-7*math.Max(1, math.Abs(coeffs[0])), "n=%d s=%v", n, s)
		}
	}
}

func TestChebyshevCosineIdentity(t *testing.T) {
	// T_k(cos θ) = cos(kθ)
	for k := 0; k < 16; k++ {
		coeffs := make([]float64, k+1)
		coeffs[k] = 1
		for _, theta := range []float64{0.1, 1.0, 2.5, 3.0} {
			assert.InDelta(t, math.Cos(float64(k)*theta), chebyshev(coeffs, math.Cos(theta)), 1e-12, "k=%d", k)
		}
	}
}

func TestSegmentIndex(t *testing.T) {
	cases := []struct {
		x    float64
		n    int
		want int
	}{
		{-0.5, 4, 0},
		{0, 4, 0},
		{0.25, 4, 0},
		{1, 4, 0},
		{math.Nextafter(1, 2), 4, 1},
		{3.5, 4, 3},
		{4, 4, 3},
		{7, 4, 3},
		{0.5, 1, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, segmentIndex(c.x, c.n), "x=%v n=%d", c.x, c.n)
	}
}
