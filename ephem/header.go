package ephem

import (
	"encoding/binary"
	"io"
	"math"
	"slices"
	"strings"
)

// Field positions inside the fixed header block at the start of a DE file.
const (
	LabelSize        = 84
	LabelCount       = 3
	MaxConstants     = 400
	ConstantNameSize = 6

	offsetDates      = LabelSize*LabelCount + MaxConstants*ConstantNameSize
	offsetNConstants = offsetDates + 3*8
	offsetAU         = offsetNConstants + 4
	offsetEMRatio    = offsetAU + 8
	offsetLayouts    = offsetEMRatio + 8
	offsetDENumber   = offsetLayouts + (NumSlots-1)*12
	offsetLibration  = offsetDENumber + 4

	// HeaderSize is the number of meaningful bytes in the first record.
	HeaderSize = offsetLibration + 12
)

// Plausibility bounds used to pick the byte order of a file.
const (
	minDaysPerInterval = 0.01
	maxDaysPerInterval = 1000.0
	maxDENumber        = 1 << 15
	maxIntervals       = math.MaxInt32

	// maxRecordWords bounds every layout field before it is multiplied.
	// Published DE files use records of roughly a thousand words.
	maxRecordWords = 1 << 16
)

// Record sizes, in float64 words, of the DE families with a fixed layout.
var knownRecordWords = map[int]int{
	200: 826,
	405: 1018,
	406: 728,
}

// Layout locates one slot's coefficients inside every record's coefficient
// block. Offset is counted in words from the first word after t0 and t1.
type Layout struct {
	Offset           int
	CoefficientCount int
	GranuleCount     int
}

// Present reports whether the file carries coefficients for the slot.
func (l Layout) Present() bool { return l.CoefficientCount > 0 }

// Words is the number of coefficient words the slot occupies in each record.
func (l Layout) Words(components int) int {
	if !l.Present() {
		return 0
	}
	return l.CoefficientCount * l.GranuleCount * components
}

// Constant is one named value from the file's constants record.
type Constant struct {
	Name  string
	Value float64
}

// Header is the decoded metadata of a DE file.
type Header struct {
	Labels             [LabelCount]string
	DENumber           int
	StartDate          float64
	EndDate            float64
	DaysPerInterval    float64
	AU                 float64
	EarthMoonMassRatio float64
	RecordWordCount    int
	ByteOrder          binary.ByteOrder
	Layouts            [NumSlots]Layout
	Constants          []Constant
}

// Layout returns the slot's layout and whether the slot is present.
func (h Header) Layout(s Slot) (Layout, bool) {
	if s < 0 || int(s) >= NumSlots {
		return Layout{}, false
	}
	l := h.Layouts[s]
	return l, l.Present()
}

// ByteOrderSwapped reports whether the file is big-endian, i.e. not in the
// byte order of the little-endian machines DE files are usually read on.
func (h Header) ByteOrderSwapped() bool {
	return h.ByteOrder == binary.BigEndian
}

// IntervalCount is the number of records covering [StartDate, EndDate].
func (h Header) IntervalCount() int {
	return int((h.EndDate - h.StartDate) / h.DaysPerInterval)
}

// Covers reports whether jd lies in the closed range [StartDate, EndDate].
// NaN is never covered.
func (h Header) Covers(jd float64) bool {
	return jd >= h.StartDate && jd <= h.EndDate
}

// Supports reports whether the file has what Position needs for body.
func (h Header) Supports(body Body) bool {
	switch body {
	case SolarSystemBarycenter:
		return true
	case Earth:
		return h.Layouts[SlotEarthMoonBarycenter].Present() &&
			h.Layouts[SlotMoon].Present() &&
			h.EarthMoonMassRatio > 0
	}
	s, ok := body.slot()
	return ok && h.Layouts[s].Present()
}

// Constant looks a named constant up, ignoring case.
func (h Header) Constant(name string) (float64, bool) {
	for _, c := range h.Constants {
		if strings.EqualFold(c.Name, name) {
			return c.Value, true
		}
	}
	return 0, false
}

func (h Header) recordBytes() int { return h.RecordWordCount * 8 }

func readFloat(raw []byte, off int, order binary.ByteOrder) float64 {
	return math.Float64frombits(order.Uint64(raw[off : off+8]))
}

func readUint(raw []byte, off int, order binary.ByteOrder) int {
	return int(order.Uint32(raw[off : off+4]))
}

// DetectByteOrder picks the byte order under which the header block decodes to
// plausible values. The format carries no endianness marker, so both orders
// are tried; little-endian wins if both look valid.
func DetectByteOrder(raw []byte) (binary.ByteOrder, error) {
	if len(raw) < HeaderSize {
		return nil, formatErr(int64(len(raw)), io.ErrUnexpectedEOF, "header block needs %d bytes", HeaderSize)
	}
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		if plausibleHeader(raw, order) {
			return order, nil
		}
	}
	return nil, formatErr(offsetDates, nil, "no byte order gives a plausible date range and DE number")
}

func plausibleHeader(raw []byte, order binary.ByteOrder) bool {
	start := readFloat(raw, offsetDates, order)
	end := readFloat(raw, offsetDates+8, order)
	days := readFloat(raw, offsetDates+16, order)
	de := readUint(raw, offsetDENumber, order)

	if math.IsNaN(start) || math.IsInf(start, 0) || math.IsNaN(end) || math.IsInf(end, 0) {
		return false
	}
	if !(start < end) {
		return false
	}
	if !(days >= minDaysPerInterval && days <= maxDaysPerInterval) {
		return false
	}
	return de >= 1 && de < maxDENumber
}

type layoutRange struct {
	slot       Slot
	start, end int
}

// decodeHeader validates the header block and returns the header without its
// constant values, plus the constant names still to be paired with them.
func decodeHeader(raw []byte, order binary.ByteOrder) (Header, []string, error) {
	h := Header{
		ByteOrder:          order,
		StartDate:          readFloat(raw, offsetDates, order),
		EndDate:            readFloat(raw, offsetDates+8, order),
		DaysPerInterval:    readFloat(raw, offsetDates+16, order),
		AU:                 readFloat(raw, offsetAU, order),
		EarthMoonMassRatio: readFloat(raw, offsetEMRatio, order),
		DENumber:           readUint(raw, offsetDENumber, order),
	}
	for i := range h.Labels {
		label := raw[i*LabelSize : (i+1)*LabelSize]
		h.Labels[i] = strings.TrimRight(string(label), " \x00")
	}

	if !(h.EndDate > h.StartDate) {
		return Header{}, nil, formatErr(offsetDates, nil, "end date %v not after start date %v", h.EndDate, h.StartDate)
	}
	if !(h.DaysPerInterval > 0) {
		return Header{}, nil, formatErr(offsetDates+16, nil, "non-positive interval length %v", h.DaysPerInterval)
	}
	intervals := (h.EndDate - h.StartDate) / h.DaysPerInterval
	if intervals != math.Trunc(intervals) || intervals < 1 || intervals > maxIntervals {
		return Header{}, nil, formatErr(offsetDates, nil, "date range is not a whole number of %v-day intervals (%v)", h.DaysPerInterval, intervals)
	}

	nConstants := readUint(raw, offsetNConstants, order)
	if nConstants > MaxConstants {
		return Header{}, nil, formatErr(offsetNConstants, nil, "%d constants exceeds the %d name slots", nConstants, MaxConstants)
	}

	extent := 0
	var ranges []layoutRange
	for s := Slot(0); int(s) < NumSlots; s++ {
		off := offsetLayouts + int(s)*12
		if s == SlotLibration {
			off = offsetLibration
		}
		fileOffset := readUint(raw, off, order)
		l := Layout{
			CoefficientCount: readUint(raw, off+4, order),
			GranuleCount:     readUint(raw, off+8, order),
		}
		if !l.Present() {
			continue
		}
		if l.GranuleCount < 1 {
			return Header{}, nil, formatErr(int64(off+8), nil, "%s has %d coefficients but no granules", s, l.CoefficientCount)
		}
		if l.CoefficientCount > maxRecordWords || l.GranuleCount > maxRecordWords/l.CoefficientCount {
			return Header{}, nil, formatErr(int64(off+4), nil, "%s has %d coefficients in %d granules, more than a %d-word record holds",
				s, l.CoefficientCount, l.GranuleCount, maxRecordWords)
		}
		if fileOffset > maxRecordWords {
			return Header{}, nil, formatErr(int64(off), nil, "%s offset %d lies beyond a %d-word record", s, fileOffset, maxRecordWords)
		}
		// File offsets are 1-based and count the two date words.
		if fileOffset < 3 {
			return Header{}, nil, formatErr(int64(off), nil, "%s offset %d overlaps the record dates", s, fileOffset)
		}
		l.Offset = fileOffset - 3
		h.Layouts[s] = l

		r := layoutRange{slot: s, start: l.Offset, end: l.Offset + l.Words(s.Components())}
		ranges = append(ranges, r)
		extent = max(extent, r.end+2)
	}

	slices.SortFunc(ranges, func(a, b layoutRange) int { return a.start - b.start })
	for i := 1; i < len(ranges); i++ {
		if ranges[i].start < ranges[i-1].end {
			return Header{}, nil, formatErr(offsetLayouts, nil, "%s coefficients overlap %s", ranges[i].slot, ranges[i-1].slot)
		}
	}

	if extent == 0 {
		return Header{}, nil, formatErr(offsetLayouts, nil, "no slot has coefficients")
	}
	if extent > maxRecordWords {
		return Header{}, nil, formatErr(offsetLayouts, nil, "layout spans %d words, more than the %d-word limit", extent, maxRecordWords)
	}
	if declared, ok := knownRecordWords[h.DENumber]; ok && declared != extent {
		return Header{}, nil, formatErr(offsetDENumber, nil, "DE%d records hold %d words but the layout spans %d", h.DENumber, declared, extent)
	}
	h.RecordWordCount = extent
	if h.recordBytes() < HeaderSize {
		return Header{}, nil, formatErr(offsetLayouts, nil, "%d-word records cannot hold the %d-byte header", extent, HeaderSize)
	}
	if nConstants > h.RecordWordCount {
		return Header{}, nil, formatErr(offsetNConstants, nil, "%d constants do not fit a %d-word record", nConstants, h.RecordWordCount)
	}

	names := make([]string, nConstants)
	base := LabelSize * LabelCount
	for i := range names {
		name := raw[base+i*ConstantNameSize : base+(i+1)*ConstantNameSize]
		names[i] = strings.TrimSpace(strings.TrimRight(string(name), "\x00"))
	}
	return h, names, nil
}
