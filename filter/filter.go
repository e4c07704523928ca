// Package filter decides, row by row, whether a table row is kept.
//
// Predicates are stateless: each sees one row's cells and a mode-typed
// threshold. Kept rows are written verbatim by the caller; Report records
// which data rows survived.
package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wangjohn/quickselect"

	"github.com/hupe1980/tabledist/cell"
)

// ErrInvalidMethod is returned for an unknown filter method.
var ErrInvalidMethod = errors.New("invalid filter method")

// Method selects the row statistic compared against the threshold.
type Method int

const (
	// MethodMedian keeps rows whose median is >= threshold.
	MethodMedian Method = iota
	// MethodNonzero keeps rows with at least threshold cells > 0.
	MethodNonzero
)

func (m Method) String() string {
	switch m {
	case MethodMedian:
		return "median"
	case MethodNonzero:
		return "nonzero"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMethod converts a method name into a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "median":
		return MethodMedian, nil
	case "nonzero", "non-zero", "num-nonzero":
		return MethodNonzero, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMethod, s)
	}
}

// Predicate reports whether a row passes.
type Predicate[T cell.Value] func(cells []T) bool

// Provider returns the predicate for m with the given threshold.
func Provider[T cell.Value](m Method, threshold T) (Predicate[T], error) {
	switch m {
	case MethodMedian:
		return MedianAtLeast(threshold), nil
	case MethodNonzero:
		return NonzeroAtLeast(threshold), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidMethod, m)
	}
}

// MedianAtLeast keeps rows whose median is >= threshold.
// The returned predicate reuses a scratch buffer and is not safe for
// concurrent use.
func MedianAtLeast[T cell.Value](threshold T) Predicate[T] {
	var scratch []T
	return func(cells []T) bool {
		scratch = append(scratch[:0], cells...)
		return selectMedian(scratch) >= threshold
	}
}

// NonzeroAtLeast keeps rows with at least threshold cells greater than
// zero. Counting stops as soon as the threshold is reached.
func NonzeroAtLeast[T cell.Value](threshold T) Predicate[T] {
	return func(cells []T) bool {
		var passes T
		for i := 0; i < len(cells) && passes < threshold; i++ {
			if cells[i] > 0 {
				passes++
			}
		}
		return passes >= threshold
	}
}

// Median returns the middle cell of cells, or the mean of the two middle
// cells for an even count, in T's arithmetic. An empty row has median zero.
// cells is not modified.
func Median[T cell.Value](cells []T) T {
	return selectMedian(append([]T(nil), cells...))
}

// selectMedian partially reorders data.
func selectMedian[T cell.Value](data []T) T {
	n := len(data)
	switch n {
	case 0:
		return 0
	case 1:
		return data[0]
	}

	k := n/2 + 1
	// k is within [1, n], QuickSelect cannot fail.
	_ = quickselect.QuickSelect(ordered[T](data), k)

	// data[:k] now holds the k smallest cells; the largest of them is the
	// middle cell and the runner-up is its lower neighbor.
	top, second := data[0], data[1]
	if second > top {
		top, second = second, top
	}
	for _, v := range data[2:k] {
		if v > top {
			second, top = top, v
		} else if v > second {
			second = v
		}
	}
	if n%2 == 1 {
		return top
	}
	return cell.Midpoint(second, top)
}

type ordered[T cell.Value] []T

func (o ordered[T]) Len() int           { return len(o) }
func (o ordered[T]) Less(i, j int) bool { return o[i] < o[j] }
func (o ordered[T]) Swap(i, j int)      { o[i], o[j] = o[j], o[i] }
