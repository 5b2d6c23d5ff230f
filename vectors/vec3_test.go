package vectors

import (
	"math"
	"testing"
)

func TestArithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{-4, 0.5, 2}

	if got := a.Add(b); got != (Vec3{-3, 2.5, 5}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != (Vec3{5, 1.5, 1}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(-2); got != (Vec3{-2, -4, -6}) {
		t.Errorf("Scale = %v", got)
	}
	if got := a.Dot(b); got != 3 {
		t.Errorf("Dot = %v, want 3", got)
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"axis", Vec3{0, 0, -7}, Vec3{0, 0, -1}},
		{"pythagorean", Vec3{3, 4, 0}, Vec3{0.6, 0.8, 0}},
		{"zero", Zero(), Zero()},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.in.Normalize()
			if Distance(got, c.want) > 1e-15 {
				t.Errorf("Normalize(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestComponent(t *testing.T) {
	v := FromComponents([3]float64{7, 8, 9})
	for i, want := range []float64{7, 8, 9} {
		if got := v.Component(i); got != want {
			t.Errorf("Component(%d) = %v, want %v", i, got, want)
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("Component(3) did not panic")
		}
	}()
	v.Component(3)
}

func TestAngle(t *testing.T) {
	cases := []struct {
		name string
		a, b Vec3
		want float64
	}{
		{"parallel", Vec3{1, 1, 0}, Vec3{2, 2, 0}, 0},
		{"right", Vec3{1, 0, 0}, Vec3{0, 0, 5}, math.Pi / 2},
		{"antiparallel", Vec3{0, 1, 0}, Vec3{0, -3, 0}, math.Pi},
		{"zero", Zero(), Vec3{1, 0, 0}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.a.Angle(c.b); math.Abs(got-c.want) > 1e-12 {
				t.Errorf("Angle = %v, want %v", got, c.want)
			}
		})
	}
}

func TestCross(t *testing.T) {
	x, y, z := Vec3{1, 0, 0}, Vec3{0, 1, 0}, Vec3{0, 0, 1}
	if got := x.Cross(y); got != z {
		t.Errorf("x × y = %v, want %v", got, z)
	}
	if got := y.Cross(x); got != z.Scale(-1) {
		t.Errorf("y × x = %v, want %v", got, z.Scale(-1))
	}
	if got := (Vec3{1, 2, 3}).Cross(Vec3{2, 4, 6}); got != Zero() {
		t.Errorf("parallel cross = %v, want zero", got)
	}
}

func TestAngleSmall(t *testing.T) {
	// acos of the cosine cannot resolve this; the cosine rounds to 1.
	const eps = 1e-9
	a := Vec3{1, 0, 0}
	b := Vec3{math.Cos(eps), math.Sin(eps), 0}
	if got := a.Angle(b); math.Abs(got-eps) > 1e-20 {
		t.Errorf("Angle = %v, want %v", got, eps)
	}
	c := Vec3{-math.Cos(eps), math.Sin(eps), 0}
	if got := a.Angle(c); math.Abs(got-(math.Pi-eps)) > 1e-15 {
		t.Errorf("Angle = %v, want %v", got, math.Pi-eps)
	}
}
