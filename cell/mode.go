package cell

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMode is returned when a mode name or value is not recognized.
var ErrInvalidMode = errors.New("invalid cell mode")

// Mode is the numeric representation used throughout one run.
type Mode uint8

const (
	Unsigned Mode = iota
	Signed
	Float
)

func (m Mode) String() string {
	switch m {
	case Unsigned:
		return "unsigned"
	case Signed:
		return "signed"
	case Float:
		return "float"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m <= Float
}

// ParseMode converts a mode name into a Mode.
// Short aliases ("u", "u64", "i", "i64", "f", "f64", ...) are accepted.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unsigned", "uint", "uint64", "u64", "u":
		return Unsigned, nil
	case "signed", "int", "int64", "i64", "i":
		return Signed, nil
	case "float", "float64", "double", "f64", "d64", "f", "d":
		return Float, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}
