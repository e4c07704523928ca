package tabledist

import (
	"errors"
	"fmt"

	"github.com/hupe1980/tabledist/cell"
	"github.com/hupe1980/tabledist/distance"
	"github.com/hupe1980/tabledist/distmat"
	"github.com/hupe1980/tabledist/filter"
	"github.com/hupe1980/tabledist/table"
)

var (
	// ErrInvalidConfig is returned for configuration that cannot start a run.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidMode is returned for an unknown cell mode.
	ErrInvalidMode = cell.ErrInvalidMode

	// ErrInvalidMetric is returned for an unknown distance metric.
	ErrInvalidMetric = distance.ErrInvalidMetric

	// ErrInvalidMethod is returned for an unknown filter method.
	ErrInvalidMethod = filter.ErrInvalidMethod

	// ErrMemoryLimit is returned when the distance matrix does not fit the
	// configured memory budget.
	ErrMemoryLimit = distmat.ErrMemoryLimit
)

// ErrRowWidthMismatch indicates a data row whose cell count differs from the
// first data row.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrRowWidthMismatch struct {
	Line     int
	Expected int
	Actual   int
	cause    error
}

func (e *ErrRowWidthMismatch) Error() string {
	return fmt.Sprintf("line %d: row has %d cells, expected %d", e.Line, e.Actual, e.Expected)
}

func (e *ErrRowWidthMismatch) Unwrap() error { return e.cause }

// ErrParseCell indicates a token that is not a number in the active mode.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrParseCell struct {
	Line  int
	Token string
	Mode  cell.Mode
	cause error
}

func (e *ErrParseCell) Error() string {
	return fmt.Sprintf("line %d: cannot parse %q as %s", e.Line, e.Token, e.Mode)
}

func (e *ErrParseCell) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	line := 0
	var le *table.LineError
	if errors.As(err, &le) {
		line = le.Line
	}

	var wm *distmat.ErrRowWidthMismatch
	if errors.As(err, &wm) {
		return &ErrRowWidthMismatch{Line: line, Expected: wm.Expected, Actual: wm.Actual, cause: err}
	}
	var pe *cell.ParseError
	if errors.As(err, &pe) {
		return &ErrParseCell{Line: line, Token: pe.Token, Mode: pe.Mode, cause: err}
	}

	return err
}
