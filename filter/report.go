package filter

import (
	"bufio"
	"io"
	"strconv"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Report tracks the outcome of a filter run. Kept data rows are recorded by
// their zero-based ordinal among data rows (header rows excluded).
type Report struct {
	kept  *roaring64.Bitmap
	total uint64
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{kept: roaring64.New()}
}

// Record notes the outcome of the next data row.
func (r *Report) Record(passed bool) {
	if passed {
		r.kept.Add(r.total)
	}
	r.total++
}

// Total returns the number of data rows seen.
func (r *Report) Total() uint64 { return r.total }

// Kept returns the number of rows that passed.
func (r *Report) Kept() uint64 { return r.kept.GetCardinality() }

// Dropped returns the number of rows that failed.
func (r *Report) Dropped() uint64 { return r.total - r.kept.GetCardinality() }

// Contains reports whether data row ordinal was kept.
func (r *Report) Contains(ordinal uint64) bool { return r.kept.Contains(ordinal) }

// KeptRows returns the kept ordinals in ascending order.
func (r *Report) KeptRows() []uint64 { return r.kept.ToArray() }

// WriteKeptRows writes one kept ordinal per line.
func (r *Report) WriteKeptRows(w io.Writer) error {
	bw := bufio.NewWriter(w)
	var num []byte
	it := r.kept.Iterator()
	for it.HasNext() {
		num = strconv.AppendUint(num[:0], it.Next(), 10)
		num = append(num, '\n')
		if _, err := bw.Write(num); err != nil {
			return err
		}
	}
	return bw.Flush()
}
