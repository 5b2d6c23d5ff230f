// Package ephem loads JPL Development Ephemeris binary files (DE200, DE405,
// DE406 and compatible layouts) and evaluates body positions from their
// Chebyshev coefficients.
//
// An *Ephemeris is immutable once Load returns and may be queried from any
// number of goroutines.
package ephem

import (
	"encoding/binary"
	"slices"
)

// Ephemeris holds every interval record of a DE file in a single flat buffer.
// Record i occupies words[i*RecordWordCount : (i+1)*RecordWordCount], t0 and
// t1 first.
type Ephemeris struct {
	header Header
	words  []float64
	count  int
}

// IntervalRecord is a copy of one record: its date span and coefficient block.
type IntervalRecord struct {
	T0, T1       float64
	Coefficients []float64
}

func (e *Ephemeris) DENumber() int { return e.header.DENumber }
func (e *Ephemeris) StartDate() float64 { return e.header.StartDate }
func (e *Ephemeris) EndDate() float64 { return e.header.EndDate }
func (e *Ephemeris) DaysPerInterval() float64 { return e.header.DaysPerInterval }
func (e *Ephemeris) ByteOrder() binary.ByteOrder { return e.header.ByteOrder }
func (e *Ephemeris) ByteOrderSwapped() bool { return e.header.ByteOrderSwapped() }
func (e *Ephemeris) RecordWordCount() int { return e.header.RecordWordCount }
func (e *Ephemeris) RecordCount() int { return e.count }
func (e *Ephemeris) AU() float64 { return e.header.AU }

// Header returns a copy of the decoded header.
func (e *Ephemeris) Header() Header {
	h := e.header
	h.Constants = slices.Clone(e.header.Constants)
	return h
}

// Constant looks up a named constant from the file's constants record.
func (e *Ephemeris) Constant(name string) (float64, bool) {
	return e.header.Constant(name)
}

// Record returns a copy of record i. It panics if i is out of range.
func (e *Ephemeris) Record(i int) IntervalRecord {
	w := e.record(i)
	return IntervalRecord{T0: w[0], T1: w[1], Coefficients: slices.Clone(w[2:])}
}

// Covers reports whether jd lies in the closed range [StartDate, EndDate].
func (e *Ephemeris) Covers(jd float64) bool { return e.header.Covers(jd) }

// Supports reports whether Position can succeed for body inside the range.
func (e *Ephemeris) Supports(body Body) bool { return e.header.Supports(body) }

func (e *Ephemeris) record(i int) []float64 {
	rw := e.header.RecordWordCount
	return e.words[i*rw : (i+1)*rw : (i+1)*rw]
}
