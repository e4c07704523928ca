package distmat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tabledist/distance"
)

type fakeReserver struct {
	limit int64
	used  int64
}

func (f *fakeReserver) TryAcquireMemory(bytes int64) bool {
	if f.used+bytes > f.limit {
		return false
	}
	f.used += bytes
	return true
}

func (f *fakeReserver) ReleaseMemory(bytes int64) { f.used -= bytes }

func TestPairCount(t *testing.T) {
	tests := []struct {
		k, want int
	}{
		{0, 0}, {1, 0}, {2, 1}, {3, 3}, {4, 6}, {100, 4950},
	}
	for _, tt := range tests {
		got, err := PairCount(tt.k)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "k=%d", tt.k)
	}

	_, err := PairCount(math.MaxInt)
	assert.ErrorIs(t, err, ErrTooManySamples)
	_, err = PairCount(-1)
	assert.ErrorIs(t, err, ErrTooManySamples)
}

func TestAccumulator_ManhattanExample(t *testing.T) {
	acc := New(distance.Manhattan[float64])
	require.NoError(t, acc.Observe([]float64{1, 3}))
	require.NoError(t, acc.Observe([]float64{2, 2}))
	require.NoError(t, acc.Observe([]float64{5, 1}))

	assert.Equal(t, 2, acc.Samples())
	assert.Equal(t, 1, acc.Len())
	assert.Equal(t, 3, acc.Rows())
	assert.Equal(t, 6.0, acc.At(0, 1))
	assert.Equal(t, 6.0, acc.At(1, 0))
	assert.Equal(t, 0.0, acc.At(1, 1))
}

func TestAccumulator_CanonicalOrder(t *testing.T) {
	acc := New(distance.Manhattan[int64])
	require.NoError(t, acc.Observe([]int64{0, 1, 3, 7}))

	// (0,1) (0,2) (0,3) (1,2) (1,3) (2,3)
	assert.Equal(t, []int64{1, 3, 7, 2, 6, 4}, acc.Values())

	idx := 0
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			assert.Equal(t, idx, acc.Index(i, j))
			idx++
		}
	}
	assert.Panics(t, func() { acc.Index(2, 1) })
	assert.Panics(t, func() { acc.Index(0, 4) })
}

func TestAccumulator_NoReallocation(t *testing.T) {
	acc := New(distance.Canberra[float64])
	require.NoError(t, acc.Observe([]float64{1, 2, 3}))
	first := &acc.Values()[0]

	for i := 0; i < 1000; i++ {
		require.NoError(t, acc.Observe([]float64{float64(i), 2, float64(i % 3)}))
	}
	assert.Same(t, first, &acc.Values()[0])
	assert.Equal(t, 3, acc.Len())
}

func TestAccumulator_Symmetric(t *testing.T) {
	rows := [][]uint64{{1, 0, 4, 2}, {3, 3, 0, 9}, {0, 2, 2, 1}}
	fwd := New(distance.BinaryManhattan[uint64](1))
	rev := New(distance.BinaryManhattan[uint64](1))
	for _, row := range rows {
		require.NoError(t, fwd.Observe(row))
		reversed := make([]uint64, len(row))
		for i, v := range row {
			reversed[len(row)-1-i] = v
		}
		require.NoError(t, rev.Observe(reversed))
	}

	k := fwd.Samples()
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			assert.Equal(t, fwd.At(i, j), rev.At(k-1-i, k-1-j))
		}
	}
}

func TestAccumulator_RowWidthMismatch(t *testing.T) {
	acc := New(distance.Manhattan[float64])
	require.NoError(t, acc.Observe([]float64{1, 2, 3}))

	err := acc.Observe([]float64{1, 2})
	var mismatch *ErrRowWidthMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 2, mismatch.Row)
	assert.Equal(t, 3, mismatch.Expected)
	assert.Equal(t, 2, mismatch.Actual)

	// Matrix untouched.
	assert.Equal(t, []float64{1, 2, 1}, acc.Values())
}

func TestAccumulator_SingleSample(t *testing.T) {
	acc := New(distance.Manhattan[float64])
	require.NoError(t, acc.Observe([]float64{5}))
	require.NoError(t, acc.Observe([]float64{7}))
	assert.Equal(t, 1, acc.Samples())
	assert.Equal(t, 0, acc.Len())
}

func TestAccumulator_SampleNames(t *testing.T) {
	acc := New(distance.Manhattan[float64])
	require.NoError(t, acc.SetSampleNames([]string{"A", "B", "C"}))

	err := acc.Observe([]float64{1, 2})
	var mismatch *ErrSampleNamesMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.False(t, acc.Sized())

	acc = New(distance.Manhattan[float64])
	require.NoError(t, acc.Observe([]float64{1, 2}))
	assert.Error(t, acc.SetSampleNames([]string{"A"}))
	require.NoError(t, acc.SetSampleNames([]string{"A", "B"}))
	assert.Equal(t, []string{"A", "B"}, acc.SampleNames())
}

func TestAccumulator_MemoryLimit(t *testing.T) {
	r := &fakeReserver{limit: 16}

	// 3 pairs of 8-byte cells need 24 bytes.
	acc := New(distance.Manhattan[float64], WithReserver(r))
	err := acc.Observe([]float64{1, 2, 3})
	require.ErrorIs(t, err, ErrMemoryLimit)
	assert.False(t, acc.Sized())
	assert.Equal(t, int64(0), r.used)

	r.limit = 24
	acc = New(distance.Manhattan[float64], WithReserver(r))
	require.NoError(t, acc.Observe([]float64{1, 2, 3}))
	assert.Equal(t, int64(24), r.used)

	acc.Release()
	assert.Equal(t, int64(0), r.used)
}
