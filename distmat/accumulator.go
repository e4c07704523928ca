package distmat

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/hupe1980/tabledist/cell"
	"github.com/hupe1980/tabledist/distance"
)

// Reserver hands out memory budget for the accumulator buffer.
// *resource.Controller implements it.
type Reserver interface {
	TryAcquireMemory(bytes int64) bool
	ReleaseMemory(bytes int64)
}

type options struct {
	reserver Reserver
}

// Option configures an Accumulator.
type Option func(*options)

// WithReserver makes the accumulator reserve its buffer size from r before
// allocating. A refused reservation fails the first Observe with
// ErrMemoryLimit.
func WithReserver(r Reserver) Option {
	return func(o *options) {
		o.reserver = r
	}
}

// PairCount returns k·(k-1)/2, the number of unordered pairs of k samples.
func PairCount(k int) (int, error) {
	if k < 0 {
		return 0, fmt.Errorf("%w: negative sample count %d", ErrTooManySamples, k)
	}
	if k < 2 {
		return 0, nil
	}
	// k·(k-1) must not overflow before halving.
	if uint64(k) > math.MaxInt/uint64(k-1) {
		return 0, fmt.Errorf("%w: %d", ErrTooManySamples, k)
	}
	return k * (k - 1) / 2, nil
}

// Accumulator is a condensed pairwise distance matrix that is folded one row
// at a time. It is not safe for concurrent use.
type Accumulator[T cell.Value] struct {
	fn       distance.Func[T]
	opts     options
	sized    bool
	samples  int
	rows     int
	buf      []T
	names    []string
	reserved int64
}

// New creates an empty accumulator that combines cells with fn.
func New[T cell.Value](fn distance.Func[T], optFns ...Option) *Accumulator[T] {
	a := &Accumulator[T]{fn: fn}
	for _, opt := range optFns {
		opt(&a.opts)
	}
	return a
}

// Observe folds one row into the matrix.
//
// The first call fixes the sample count to len(row) and allocates the
// buffer. Later rows must have the same width; a different width returns
// *ErrRowWidthMismatch and leaves the matrix untouched.
func (a *Accumulator[T]) Observe(row []T) error {
	if !a.sized {
		if err := a.size(len(row)); err != nil {
			return err
		}
	} else if len(row) != a.samples {
		return &ErrRowWidthMismatch{Row: a.rows + 1, Expected: a.samples, Actual: len(row)}
	}

	buf := a.buf
	idx := 0
	for i := 0; i < a.samples; i++ {
		left := row[i]
		for _, right := range row[i+1:] {
			buf[idx] += a.fn(left, right)
			idx++
		}
	}
	a.rows++
	return nil
}

func (a *Accumulator[T]) size(k int) error {
	pairs, err := PairCount(k)
	if err != nil {
		return err
	}
	if len(a.names) > 0 && len(a.names) != k {
		return &ErrSampleNamesMismatch{Names: len(a.names), Samples: k}
	}

	var zero T
	bytes := int64(pairs) * int64(unsafe.Sizeof(zero))
	if a.opts.reserver != nil && bytes > 0 {
		if !a.opts.reserver.TryAcquireMemory(bytes) {
			return fmt.Errorf("%w: %d samples need %d bytes", ErrMemoryLimit, k, bytes)
		}
		a.reserved = bytes
	}

	a.buf = make([]T, pairs)
	a.samples = k
	a.sized = true
	return nil
}

// SetSampleNames attaches column labels used by Render. The slice is copied.
// Once the sample count is known the number of names must match it.
func (a *Accumulator[T]) SetSampleNames(names []string) error {
	if a.sized && len(names) > 0 && len(names) != a.samples {
		return &ErrSampleNamesMismatch{Names: len(names), Samples: a.samples}
	}
	a.names = append([]string(nil), names...)
	return nil
}

// SampleNames returns the attached labels, or nil.
func (a *Accumulator[T]) SampleNames() []string {
	return a.names
}

// Sized reports whether the first row has been observed.
func (a *Accumulator[T]) Sized() bool { return a.sized }

// Samples returns k, or 0 before the first row.
func (a *Accumulator[T]) Samples() int { return a.samples }

// Rows returns the number of rows folded so far.
func (a *Accumulator[T]) Rows() int { return a.rows }

// Len returns the number of stored pairs, k·(k-1)/2.
func (a *Accumulator[T]) Len() int { return len(a.buf) }

// Bytes returns the size of the condensed buffer in bytes.
func (a *Accumulator[T]) Bytes() int64 {
	var zero T
	return int64(len(a.buf)) * int64(unsafe.Sizeof(zero))
}

// Index returns the flat buffer position of pair (i, j), i < j.
func (a *Accumulator[T]) Index(i, j int) int {
	if i >= j || i < 0 || j >= a.samples {
		panic(fmt.Sprintf("distmat: invalid pair (%d, %d) for %d samples", i, j, a.samples))
	}
	return i*(2*a.samples-i-1)/2 + (j - i - 1)
}

// At returns the accumulated distance between samples i and j.
// The diagonal is always zero and At(i, j) == At(j, i).
func (a *Accumulator[T]) At(i, j int) T {
	if i == j {
		return 0
	}
	if i > j {
		i, j = j, i
	}
	return a.buf[a.Index(i, j)]
}

// Values returns the condensed buffer in canonical pair order.
// The slice aliases internal storage and must not be modified.
func (a *Accumulator[T]) Values() []T {
	return a.buf
}

// Release returns the reserved memory budget. The accumulator must not be
// used afterwards.
func (a *Accumulator[T]) Release() {
	if a.opts.reserver != nil && a.reserved > 0 {
		a.opts.reserver.ReleaseMemory(a.reserved)
		a.reserved = 0
	}
	a.buf = nil
}
