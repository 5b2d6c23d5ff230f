package ephem

import (
	"math"

	"github.com/echoflaresat/jpleph/vectors"
)

// Position returns the body's position at Julian date jd (TDB) in the file's
// native frame and units.
//
// Positions are barycentric except the Moon, which DE files store
// geocentrically. Earth is derived as EMB - Moon/(1+EMRAT) using the file's
// Earth/Moon mass ratio; the solar-system barycenter is the origin.
func (e *Ephemeris) Position(body Body, jd float64) (vectors.Vec3, error) {
	if !e.Covers(jd) {
		return vectors.Vec3{}, &OutOfRangeError{Body: body, JD: jd, Start: e.header.StartDate, End: e.header.EndDate}
	}

	switch body {
	case SolarSystemBarycenter:
		return vectors.Zero(), nil
	case Earth:
		if !e.Supports(Earth) {
			return vectors.Vec3{}, e.unsupported(Earth)
		}
		emb := e.evaluate(e.header.Layouts[SlotEarthMoonBarycenter], jd)
		moon := e.evaluate(e.header.Layouts[SlotMoon], jd)
		return emb.Sub(moon.Scale(1.0 / (1.0 + e.header.EarthMoonMassRatio))), nil
	}

	s, ok := body.slot()
	if !ok || !e.header.Layouts[s].Present() {
		return vectors.Vec3{}, e.unsupported(body)
	}
	return e.evaluate(e.header.Layouts[s], jd), nil
}

func (e *Ephemeris) unsupported(body Body) error {
	return &UnsupportedBodyError{Body: body, DENumber: e.header.DENumber}
}

// evaluate interpolates a three-component slot at jd, which must be covered.
func (e *Ephemeris) evaluate(l Layout, jd float64) vectors.Vec3 {
	rec := e.record(e.recordIndex(jd))
	t0 := rec[0]
	coeffs := rec[2:]

	width := e.header.DaysPerInterval / float64(l.GranuleCount)
	g := segmentIndex((jd-t0)/width, l.GranuleCount)
	granuleStart := t0 + float64(g)*width
	s := 2*(jd-granuleStart)/width - 1

	// Granule-major: each granule holds x, y, z series back to back.
	n := l.CoefficientCount
	base := l.Offset + g*n*3
	var out [3]float64
	for c := range out {
		out[c] = chebyshev(coeffs[base+c*n:base+(c+1)*n], s)
	}
	return vectors.FromComponents(out)
}

// recordIndex finds the record covering jd. A date shared by two records
// belongs to the earlier one, so every record is evaluated on its own closed
// span.
func (e *Ephemeris) recordIndex(jd float64) int {
	i := segmentIndex((jd-e.header.StartDate)/e.header.DaysPerInterval, e.count)
	if i > 0 && jd <= e.record(i)[0] {
		i--
	} else if i < e.count-1 && jd > e.record(i)[1] {
		i++
	}
	return i
}

// segmentIndex maps a position x measured in segment widths to the index of
// the segment (k, k+1] that contains it, clamped to [0, n-1].
func segmentIndex(x float64, n int) int {
	i := int(math.Ceil(x)) - 1
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
