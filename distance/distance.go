package distance

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/tabledist/cell"
)

// ErrInvalidMetric is returned for an unknown metric name or value.
var ErrInvalidMetric = errors.New("invalid distance metric")

// Metric represents the distance measure used for column comparison.
type Metric int

const (
	MetricCanberra Metric = iota
	MetricManhattan
	MetricBinaryManhattan
)

func (m Metric) String() string {
	switch m {
	case MetricCanberra:
		return "Canberra"
	case MetricManhattan:
		return "Manhattan"
	case MetricBinaryManhattan:
		return "BinaryManhattan"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMetric converts a metric name into a Metric.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "canberra":
		return MetricCanberra, nil
	case "manhattan":
		return MetricManhattan, nil
	case "binarymanhattan", "binary-manhattan", "binary_manhattan":
		return MetricBinaryManhattan, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMetric, s)
	}
}

// Func computes the distance contribution of one pair of cells.
// Implementations are pure and commutative.
type Func[T cell.Value] func(left, right T) T

// Canberra returns |left-right| / (|left|+|right|), or zero when the
// denominator is zero.
//
// Integer modes use integer division, so the result is almost always 0 or 1.
func Canberra[T cell.Value](left, right T) T {
	den := cell.Abs(left) + cell.Abs(right)
	if den == 0 {
		return 0
	}
	return cell.AbsDiff(left, right) / den
}

// Manhattan returns |left-right|.
func Manhattan[T cell.Value](left, right T) T {
	return cell.AbsDiff(left, right)
}

// BinaryManhattan returns a Func that thresholds both operands against
// cutoff (value > cutoff means present) and yields 1 when exactly one of them
// is present, 0 otherwise.
func BinaryManhattan[T cell.Value](cutoff T) Func[T] {
	return func(left, right T) T {
		if (left > cutoff) != (right > cutoff) {
			return 1
		}
		return 0
	}
}

// DefaultCutoff is the presence cutoff used when none is configured.
func DefaultCutoff[T cell.Value]() T {
	return cell.One[T]()
}

// Provider returns the distance function for the given metric.
// cutoff is only consulted by MetricBinaryManhattan.
func Provider[T cell.Value](m Metric, cutoff T) (Func[T], error) {
	switch m {
	case MetricCanberra:
		return Canberra[T], nil
	case MetricManhattan:
		return Manhattan[T], nil
	case MetricBinaryManhattan:
		return BinaryManhattan(cutoff), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetric, m)
	}
}
