// Package ephemtest writes synthetic DE binary streams for tests.
//
// The writer encodes the file format independently of package ephem's
// decoder, so round-trips through both catch layout mistakes on either side.
package ephemtest

import (
	"encoding/binary"
	"math"

	"github.com/echoflaresat/jpleph/ephem"
	"github.com/echoflaresat/jpleph/vectors"
)

// Byte positions of header fields, as laid out by JPL's export programs.
const (
	OffsetStartDate       = 2652
	OffsetEndDate         = 2660
	OffsetDaysPerInterval = 2668
	OffsetNConstants      = 2676
	OffsetAU              = 2680
	OffsetEMRatio         = 2688
	OffsetLayouts         = 2696
	OffsetDENumber        = 2840
	OffsetLibration       = 2844
	HeaderBytes           = 2856
)

// minRecordWords is the smallest record that can hold the header block.
const minRecordWords = (HeaderBytes + 7) / 8

// Series returns the Chebyshev coefficients of one component over the
// granule [start, end].
type Series func(component int, start, end float64) []float64

// Raw uses the same coefficient lists for every granule of every record.
// Missing components are zero.
func Raw(components ...[]float64) Series {
	return func(c int, _, _ float64) []float64 {
		if c < len(components) {
			return components[c]
		}
		return nil
	}
}

// Fit approximates f on each granule with n Chebyshev coefficients sampled at
// the Chebyshev nodes.
func Fit(f func(jd float64) vectors.Vec3, n int) Series {
	return func(c int, start, end float64) []float64 {
		mid := (start + end) / 2
		half := (end - start) / 2
		values := make([]float64, n)
		for k := range values {
			x := math.Cos(math.Pi * (float64(k) + 0.5) / float64(n))
			values[k] = f(mid + half*x).Component(c)
		}
		coeffs := make([]float64, n)
		for j := range coeffs {
			var sum float64
			for k, v := range values {
				sum += v * math.Cos(math.Pi*float64(j)*(float64(k)+0.5)/float64(n))
			}
			coeffs[j] = 2 * sum / float64(n)
		}
		coeffs[0] /= 2
		return coeffs
	}
}

type slotSpec struct {
	slot         ephem.Slot
	coefficients int
	granules     int
	series       Series
	fileOffset   int
}

// Builder assembles a DE stream. The zero value is not usable; call New.
type Builder struct {
	DENumber           int
	Labels             [3]string
	StartDate          float64
	DaysPerInterval    float64
	Intervals          int
	AU                 float64
	EarthMoonMassRatio float64
	ByteOrder          binary.ByteOrder
	Constants          []ephem.Constant

	slots []slotSpec
}

// New returns a two-interval builder starting at J2000 with 32-day records.
func New() *Builder {
	return &Builder{
		DENumber:           999,
		Labels:             [3]string{"JPL Planetary Ephemeris DE999/LE999", "Start Epoch: JED= 2451545.0", "Final Epoch: JED= 2451609.0"},
		StartDate:          2451545.0,
		DaysPerInterval:    32,
		Intervals:          2,
		AU:                 149597870.691,
		EarthMoonMassRatio: 81.30056,
		ByteOrder:          binary.LittleEndian,
		Constants: []ephem.Constant{
			{Name: "DENUM", Value: 999},
			{Name: "CLIGHT", Value: 299792.458},
			{Name: "AU", Value: 149597870.691},
			{Name: "EMRAT", Value: 81.30056},
		},
	}
}

// Add stores coefficients for slot. Slots are laid out in the order added.
func (b *Builder) Add(slot ephem.Slot, coefficients, granules int, series Series) *Builder {
	b.slots = append(b.slots, slotSpec{slot: slot, coefficients: coefficients, granules: granules, series: series})
	return b
}

// EndDate is the end of the last interval, accumulated the way records are.
func (b *Builder) EndDate() float64 {
	t := b.StartDate
	for i := 0; i < b.Intervals; i++ {
		t += b.DaysPerInterval
	}
	return t
}

// layout assigns file offsets and pads the record with libration
// coefficients when it would be too small to hold the header.
func (b *Builder) layout() ([]slotSpec, int) {
	specs := append([]slotSpec(nil), b.slots...)
	next := 3
	hasLibration := false
	for i := range specs {
		specs[i].fileOffset = next
		next += specs[i].coefficients * specs[i].granules * specs[i].slot.Components()
		if specs[i].slot == ephem.SlotLibration {
			hasLibration = true
		}
	}
	words := next - 1
	need := max(minRecordWords, len(b.Constants))
	if words < need && !hasLibration {
		n := (need - words + 2) / 3
		specs = append(specs, slotSpec{slot: ephem.SlotLibration, coefficients: n, granules: 1, series: Raw(), fileOffset: next})
		words += 3 * n
	}
	return specs, words
}

// RecordWordCount is the record size the built file will have.
func (b *Builder) RecordWordCount() int {
	_, words := b.layout()
	return words
}

// RecordOffset is the byte offset of record i's t0 word.
func (b *Builder) RecordOffset(i int) int {
	return (2 + i) * b.RecordWordCount() * 8
}

// PutFloat overwrites the float64 at off in data using the builder's byte order.
func (b *Builder) PutFloat(data []byte, off int, v float64) {
	b.ByteOrder.PutUint64(data[off:], math.Float64bits(v))
}

// PutUint overwrites the uint32 at off in data using the builder's byte order.
func (b *Builder) PutUint(data []byte, off int, v uint32) {
	b.ByteOrder.PutUint32(data[off:], v)
}

// Bytes encodes the header record, the constants record and every interval
// record.
func (b *Builder) Bytes() []byte {
	specs, words := b.layout()
	recordBytes := words * 8

	// A record too small for the header still gets the whole header block,
	// which is what such a broken file would look like.
	header := make([]byte, max(recordBytes, HeaderBytes))
	for i, label := range b.Labels {
		copy(header[i*84:(i+1)*84], padded(label, 84))
	}
	for i, c := range b.Constants {
		copy(header[252+i*6:252+(i+1)*6], padded(c.Name, 6))
	}
	b.PutFloat(header, OffsetStartDate, b.StartDate)
	b.PutFloat(header, OffsetEndDate, b.EndDate())
	b.PutFloat(header, OffsetDaysPerInterval, b.DaysPerInterval)
	b.PutUint(header, OffsetNConstants, uint32(len(b.Constants)))
	b.PutFloat(header, OffsetAU, b.AU)
	b.PutFloat(header, OffsetEMRatio, b.EarthMoonMassRatio)
	b.PutUint(header, OffsetDENumber, uint32(b.DENumber))
	for _, s := range specs {
		off := OffsetLayouts + int(s.slot)*12
		if s.slot == ephem.SlotLibration {
			off = OffsetLibration
		}
		b.PutUint(header, off, uint32(s.fileOffset))
		b.PutUint(header, off+4, uint32(s.coefficients))
		b.PutUint(header, off+8, uint32(s.granules))
	}

	out := make([]byte, len(header)+(1+b.Intervals)*recordBytes)
	copy(out, header)

	constants := out[len(header) : len(header)+recordBytes]
	for i, c := range b.Constants {
		b.PutFloat(constants, i*8, c.Value)
	}

	t0 := b.StartDate
	for i := 0; i < b.Intervals; i++ {
		at := len(header) + (1+i)*recordBytes
		rec := out[at : at+recordBytes]
		t1 := t0 + b.DaysPerInterval
		b.PutFloat(rec, 0, t0)
		b.PutFloat(rec, 8, t1)
		for _, s := range specs {
			b.writeSlot(rec, s, t0)
		}
		t0 = t1
	}
	return out
}

func (b *Builder) writeSlot(rec []byte, s slotSpec, t0 float64) {
	width := b.DaysPerInterval / float64(s.granules)
	comps := s.slot.Components()
	for g := 0; g < s.granules; g++ {
		start := t0 + float64(g)*width
		for c := 0; c < comps; c++ {
			coeffs := s.series(c, start, start+width)
			word := s.fileOffset - 1 + (g*comps+c)*s.coefficients
			for k := 0; k < s.coefficients && k < len(coeffs); k++ {
				b.PutFloat(rec, (word+k)*8, coeffs[k])
			}
		}
	}
}

func padded(s string, n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = ' '
	}
	copy(buf, s)
	return buf
}
