package ephem

// chebyshev evaluates sum(c[k] * T_k(s)) for s in [-1, 1] with Clenshaw's
// backward recurrence. len(c) must be at least 1.
func chebyshev(c []float64, s float64) float64 {
	var b1, b2 float64
	s2 := 2 * s
	for k := len(c) - 1; k >= 1; k-- {
		b1, b2 = c[k]+s2*b1-b2, b1
	}
	return c[0] + s*b1 - b2
}
