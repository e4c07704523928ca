package distmat

import (
	"errors"
	"fmt"
)

var (
	// ErrMemoryLimit is returned when the accumulator buffer cannot be
	// reserved. It is fatal for the run.
	ErrMemoryLimit = errors.New("distance matrix exceeds memory limit")

	// ErrTooManySamples is returned when k·(k-1)/2 does not fit in an int.
	ErrTooManySamples = errors.New("too many samples for a condensed matrix")
)

// ErrRowWidthMismatch indicates a row whose width differs from the width of
// the first row.
type ErrRowWidthMismatch struct {
	Row      int
	Expected int
	Actual   int
}

func (e *ErrRowWidthMismatch) Error() string {
	return fmt.Sprintf("row %d has %d cells, expected %d", e.Row, e.Actual, e.Expected)
}

// ErrSampleNamesMismatch indicates a header that names a different number of
// samples than the data rows carry.
type ErrSampleNamesMismatch struct {
	Names   int
	Samples int
}

func (e *ErrSampleNamesMismatch) Error() string {
	return fmt.Sprintf("header names %d samples, rows have %d", e.Names, e.Samples)
}
