// Package earth answers Earth-centered questions on top of an ephemeris.
package earth

import (
	"math"

	"github.com/soniakeys/meeus/v3/solar"

	"github.com/echoflaresat/jpleph/ephem"
	"github.com/echoflaresat/jpleph/vectors"
)

// Source is anything that can evaluate barycentric positions, such as an
// *ephem.Ephemeris or a *catalog.Catalog.
type Source interface {
	Position(body ephem.Body, jd float64) (vectors.Vec3, error)
}

// GeocentricPosition returns body's position relative to Earth's center at
// jd, in the source's frame and units.
func GeocentricPosition(src Source, body ephem.Body, jd float64) (vectors.Vec3, error) {
	// The Moon is stored geocentrically already.
	if body == ephem.Moon {
		return src.Position(ephem.Moon, jd)
	}

	e, err := src.Position(ephem.Earth, jd)
	if err != nil {
		return vectors.Vec3{}, err
	}
	if body == ephem.Earth {
		return vectors.Zero(), nil
	}
	p, err := src.Position(body, jd)
	if err != nil {
		return vectors.Vec3{}, err
	}
	return p.Sub(e), nil
}

// SunDirection is the unit vector from Earth's center toward the Sun.
func SunDirection(src Source, jd float64) (vectors.Vec3, error) {
	p, err := GeocentricPosition(src, ephem.Sun, jd)
	if err != nil {
		return vectors.Vec3{}, err
	}
	return p.Normalize(), nil
}

// AnalyticSunDirection is the Sun's apparent direction from the low-precision
// solar theory, as a unit vector in equatorial coordinates of date. jde is a
// Julian ephemeris day; the TT/TDB difference is far below its accuracy.
func AnalyticSunDirection(jde float64) vectors.Vec3 {
	ra, dec := solar.ApparentEquatorial(jde)
	return vectors.Vec3{
		X: dec.Cos() * ra.Cos(),
		Y: dec.Cos() * ra.Sin(),
		Z: dec.Sin(),
	}
}

// Separation returns the angle between two directions in degrees.
func Separation(a, b vectors.Vec3) float64 {
	return a.Angle(b) * 180 / math.Pi
}
