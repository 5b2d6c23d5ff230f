package ephem

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"golang.org/x/exp/mmap"
)

// Records are appended to one flat buffer; this caps the up-front allocation,
// in words, so a bogus header cannot request gigabytes before the stream runs
// dry.
const initialWords = 1 << 20

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (c *countingReader) readFull(buf []byte) error {
	_, err := io.ReadFull(c, buf)
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// Load reads a complete DE binary stream. Either the whole file is accepted
// or an error is returned; the result never refers back to r.
func Load(r io.Reader) (*Ephemeris, error) {
	cr := &countingReader{r: bufio.NewReaderSize(r, 1<<16)}
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}

	n := h.IntervalCount()
	rw := h.RecordWordCount
	words := make([]float64, 0, min(n*rw, initialWords))
	buf := make([]byte, h.recordBytes())

	prevEnd := h.StartDate
	for i := 0; i < n; i++ {
		at := cr.n
		if err := cr.readFull(buf); err != nil {
			return nil, formatErr(at, err, "record %d of %d truncated", i, n)
		}
		for j := 0; j < rw; j++ {
			words = append(words, readFloat(buf, j*8, h.ByteOrder))
		}
		t0, t1 := words[i*rw], words[i*rw+1]
		if t0 != prevEnd {
			return nil, formatErr(at, nil, "record %d starts at JD %v, expected %v", i, t0, prevEnd)
		}
		if t1-t0 != h.DaysPerInterval {
			return nil, formatErr(at+8, nil, "record %d spans %v days, expected %v", i, t1-t0, h.DaysPerInterval)
		}
		prevEnd = t1
	}
	if prevEnd != h.EndDate {
		return nil, formatErr(cr.n, nil, "records end at JD %v, header says %v", prevEnd, h.EndDate)
	}
	if err := checkTrailing(cr); err != nil {
		return nil, err
	}

	return &Ephemeris{header: h, words: words, count: n}, nil
}

// LoadFile memory-maps path, loads it, and unmaps it again.
func LoadFile(path string) (*Ephemeris, error) {
	ra, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer ra.Close()

	eph, err := Load(io.NewSectionReader(ra, 0, int64(ra.Len())))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return eph, nil
}

// ReadHeader decodes the header and constants records only.
func ReadHeader(r io.Reader) (Header, error) {
	return readHeader(&countingReader{r: r})
}

// ReadHeaderFile is ReadHeader on a memory-mapped file.
func ReadHeaderFile(path string) (Header, error) {
	ra, err := mmap.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer ra.Close()

	h, err := ReadHeader(io.NewSectionReader(ra, 0, int64(ra.Len())))
	if err != nil {
		return Header{}, fmt.Errorf("read header %s: %w", path, err)
	}
	return h, nil
}

func readHeader(cr *countingReader) (Header, error) {
	raw := make([]byte, HeaderSize)
	if err := cr.readFull(raw); err != nil {
		return Header{}, formatErr(cr.n, err, "header truncated")
	}

	order, err := DetectByteOrder(raw)
	if err != nil {
		return Header{}, err
	}
	h, names, err := decodeHeader(raw, order)
	if err != nil {
		return Header{}, err
	}

	// The rest of the first record is unused.
	if skip := int64(h.recordBytes() - HeaderSize); skip > 0 {
		if _, err := io.CopyN(io.Discard, cr, skip); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return Header{}, formatErr(cr.n, err, "header record truncated")
		}
	}

	values := make([]byte, h.recordBytes())
	if err := cr.readFull(values); err != nil {
		return Header{}, formatErr(cr.n, err, "constants record truncated")
	}
	h.Constants = make([]Constant, len(names))
	for i, name := range names {
		h.Constants[i] = Constant{Name: name, Value: readFloat(values, i*8, order)}
	}
	return h, nil
}

// checkTrailing drains what follows the final record. Zero padding is
// accepted; anything else is rejected.
func checkTrailing(cr *countingReader) error {
	buf := make([]byte, 4096)
	for {
		at := cr.n
		n, err := cr.Read(buf)
		for i, b := range buf[:n] {
			if b != 0 {
				return formatErr(at+int64(i), ErrTrailingData, "non-zero byte after final record")
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return formatErr(cr.n, err, "reading past final record")
		}
	}
}
