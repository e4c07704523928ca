package cell

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is the set of Go types a cell can hold.
type Value interface {
	uint64 | int64 | float64
}

// ModeOf returns the Mode that corresponds to T.
func ModeOf[T Value]() Mode {
	var zero T
	switch any(zero).(type) {
	case uint64:
		return Unsigned
	case int64:
		return Signed
	default:
		return Float
	}
}

// Zero returns the additive identity of T.
func Zero[T Value]() T {
	var zero T
	return zero
}

// One returns the multiplicative identity of T.
func One[T Value]() T {
	return T(1)
}

// Abs returns |v|. Unsigned values are returned unchanged.
// For int64 the absolute value of math.MinInt64 wraps to itself.
func Abs[T Value](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// AbsDiff returns |a-b| without leaving the domain of T.
// For unsigned values the smaller operand is subtracted from the larger one.
func AbsDiff[T Value](a, b T) T {
	if a > b {
		return a - b
	}
	return b - a
}

// Midpoint returns (a+b)/2 without overflowing T. Integer modes truncate
// toward zero.
func Midpoint[T Value](a, b T) T {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	switch {
	case lo >= 0:
		return lo + (hi-lo)/2
	case hi <= 0:
		return hi + (lo-hi)/2
	default:
		// Opposite signs cannot overflow the sum.
		return (lo + hi) / 2
	}
}

// Float64 converts v to float64 for rendering.
func Float64[T Value](v T) float64 {
	return float64(v)
}

// Parse parses a single token as a T.
// Leading and trailing whitespace is ignored.
func Parse[T Value](s string) (T, error) {
	s = strings.TrimSpace(s)
	var zero T
	switch any(zero).(type) {
	case uint64:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return zero, &ParseError{Token: s, Mode: Unsigned, cause: err}
		}
		return T(v), nil
	case int64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return zero, &ParseError{Token: s, Mode: Signed, cause: err}
		}
		return T(v), nil
	default:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return zero, &ParseError{Token: s, Mode: Float, cause: err}
		}
		return T(v), nil
	}
}

// ParseError reports a token that is not a valid number in the active mode.
type ParseError struct {
	Token string
	Mode  Mode
	cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q as %s cell", e.Token, e.Mode)
}

func (e *ParseError) Unwrap() error { return e.cause }
