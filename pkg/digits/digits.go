// Package digits computes and serves the decimal digits of pi.
//
// A Stream is an immutable, validated sequence of decimal digits starting at
// the first digit after the decimal point ("1415926..."). Generation happens
// once per precision; everything downstream reads digits through Stream and
// never recomputes them.
package digits

import (
	"strings"

	"github.com/mkoster/pibauhaus/pkg/errors"
)

// Stream is an immutable sequence of decimal digits of pi, indexed from zero
// at the first digit after the decimal point.
type Stream struct {
	digits []byte // values 0..9
}

// FromString builds a Stream from a digit string such as "14159265".
// Every byte must be an ASCII decimal digit.
func FromString(text string) (*Stream, error) {
	if text == "" {
		return nil, errors.New(errors.ErrCodeInvalidDigit, "digit string cannot be empty")
	}

	ds := make([]byte, len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c < '0' || c > '9' {
			return nil, errors.New(errors.ErrCodeInvalidDigit, "invalid digit %q at position %d", c, i)
		}
		ds[i] = c - '0'
	}

	return &Stream{digits: ds}, nil
}

// Len returns the number of digits in the stream.
func (s *Stream) Len() int {
	return len(s.digits)
}

// DigitAt returns the digit at zero-based index i.
// Requests beyond the generated range fail with an OutOfRangeError; the
// stream never silently extends itself.
func (s *Stream) DigitAt(i int) (int, error) {
	if i < 0 || i >= len(s.digits) {
		return 0, &errors.OutOfRangeError{Index: i, Length: len(s.digits)}
	}
	return int(s.digits[i]), nil
}

// Slice returns digits in the half-open range [start, end).
func (s *Stream) Slice(start, end int) ([]int, error) {
	if start < 0 || start > end || end > len(s.digits) {
		return nil, &errors.OutOfRangeError{Index: end, Length: len(s.digits)}
	}

	out := make([]int, end-start)
	for i := start; i < end; i++ {
		out[i-start] = int(s.digits[i])
	}
	return out, nil
}

// String returns the digits as text, e.g. "1415926535".
func (s *Stream) String() string {
	var b strings.Builder
	b.Grow(len(s.digits))
	for _, d := range s.digits {
		b.WriteByte('0' + d)
	}
	return b.String()
}

// Prefix returns up to n leading digits as text.
func (s *Stream) Prefix(n int) string {
	if n > len(s.digits) {
		n = len(s.digits)
	}
	return s.String()[:n]
}
