package ephem

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat is matched by every *FormatError.
	ErrFormat = errors.New("malformed ephemeris")
	// ErrOutOfRange is matched by every *OutOfRangeError.
	ErrOutOfRange = errors.New("date outside ephemeris range")
	// ErrUnsupportedBody is matched by every *UnsupportedBodyError.
	ErrUnsupportedBody = errors.New("body not present in ephemeris")
	// ErrTrailingData is wrapped by the FormatError returned when non-padding
	// bytes follow the last interval record.
	ErrTrailingData = errors.New("trailing data after last record")
)

// FormatError reports a truncated, malformed or inconsistent DE stream.
// Offset is the byte position at which the problem was detected.
type FormatError struct {
	Offset int64
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("jpleph: %s at byte %d: %s", ErrFormat, e.Offset, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

func formatErr(offset int64, err error, format string, args ...any) *FormatError {
	return &FormatError{Offset: offset, Reason: fmt.Sprintf(format, args...), Err: err}
}

// OutOfRangeError reports a query date outside [Start, End].
type OutOfRangeError struct {
	Body       Body
	JD         float64
	Start, End float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("jpleph: %s: %s at JD %.6f not in [%.1f, %.1f]", ErrOutOfRange, e.Body, e.JD, e.Start, e.End)
}

func (e *OutOfRangeError) Is(target error) bool { return target == ErrOutOfRange }

// UnsupportedBodyError reports a body with no coefficients in this file.
type UnsupportedBodyError struct {
	Body     Body
	DENumber int
}

func (e *UnsupportedBodyError) Error() string {
	if e.DENumber == 0 {
		return fmt.Sprintf("jpleph: %s: %s", ErrUnsupportedBody, e.Body)
	}
	return fmt.Sprintf("jpleph: %s: %s in DE%d", ErrUnsupportedBody, e.Body, e.DENumber)
}

func (e *UnsupportedBodyError) Is(target error) bool { return target == ErrUnsupportedBody }
