package vectors

import "math"

// Vec3 is a 3D vector with float64 components. Positions returned by the
// ephemeris are Vec3 values in the file's native frame and units (km).
type Vec3 struct {
	X, Y, Z float64
}

func Zero() Vec3 {
	return Vec3{}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product v · o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Norm returns the Euclidean length ||v||.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns the unit vector v / ||v||.
// If ||v|| == 0, it returns the zero vector (0,0,0).
func (v Vec3) Normalize() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	inv := 1.0 / n
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// Component returns X, Y or Z for i = 0, 1, 2.
func (v Vec3) Component(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic("vectors: component index out of range")
}

// FromComponents builds a vector from a 3-element array.
func FromComponents(c [3]float64) Vec3 {
	return Vec3{X: c[0], Y: c[1], Z: c[2]}
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Angle returns the angle between v and o in radians, or 0 if either is zero.
// atan2 keeps full precision near 0 and π, where acos of the cosine does not.
func (v Vec3) Angle(o Vec3) float64 {
	return math.Atan2(v.Cross(o).Norm(), v.Dot(o))
}

func Distance(v1, v2 Vec3) float64 {
	return v1.Sub(v2).Norm()
}
