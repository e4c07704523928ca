package filter

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name  string
		cells []float64
		want  float64
	}{
		{"Empty", nil, 0},
		{"Single", []float64{4}, 4},
		{"Odd", []float64{3, 0, 1}, 1},
		{"Even", []float64{4, 1, 3, 2}, 2.5},
		{"Duplicates", []float64{2, 2, 2, 9}, 2},
		{"Pair", []float64{5, 1}, 3},
		{"Negative", []float64{-5, -1, -3}, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]float64(nil), tt.cells...)
			assert.Equal(t, tt.want, Median(in))
			assert.Equal(t, tt.cells, in, "input must not be reordered")
		})
	}
}

func TestMedianInteger(t *testing.T) {
	// Mean of the two middle cells truncates in integer modes.
	assert.Equal(t, uint64(2), Median([]uint64{1, 2, 3, 4}))
	assert.Equal(t, int64(-2), Median([]int64{-1, -2, -3, -4}))
	assert.Equal(t, uint64(3), Median([]uint64{9, 3, 1}))
}

func TestMedian_LargeValues(t *testing.T) {
	assert.Equal(t, uint64(math.MaxUint64), Median([]uint64{math.MaxUint64, math.MaxUint64}))
	assert.Equal(t, uint64(math.MaxUint64-2), Median([]uint64{math.MaxUint64, 1, math.MaxUint64 - 1, math.MaxUint64 - 2}))
	assert.Equal(t, int64(math.MinInt64), Median([]int64{math.MinInt64, math.MinInt64}))
	assert.True(t, MedianAtLeast[uint64](math.MaxUint64)([]uint64{math.MaxUint64, math.MaxUint64}))
}

func TestMedianAtLeast(t *testing.T) {
	keep := MedianAtLeast[uint64](2)
	assert.False(t, keep([]uint64{0, 1, 3}))
	assert.True(t, keep([]uint64{2, 3, 4}))
	assert.True(t, keep([]uint64{2, 2}))
	assert.False(t, keep(nil))
}

func TestNonzeroAtLeast(t *testing.T) {
	keep := NonzeroAtLeast[uint64](2)
	assert.False(t, keep([]uint64{0, 0, 5}))
	assert.True(t, keep([]uint64{0, 4, 5}))

	keepF := NonzeroAtLeast(1.5)
	assert.False(t, keepF([]float64{0, 0.1, -3}))
	assert.True(t, keepF([]float64{0.1, 0.2}))

	// Negative cells are not counted.
	keepI := NonzeroAtLeast[int64](1)
	assert.False(t, keepI([]int64{-1, 0}))

	// A zero threshold always passes.
	assert.True(t, NonzeroAtLeast[uint64](0)(nil))
}

func TestProvider(t *testing.T) {
	p, err := Provider[uint64](MethodMedian, 2)
	require.NoError(t, err)
	assert.True(t, p([]uint64{2, 3, 4}))

	p, err = Provider[uint64](MethodNonzero, 2)
	require.NoError(t, err)
	assert.False(t, p([]uint64{0, 0, 5}))

	_, err = Provider[uint64](Method(9), 2)
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("Non-Zero")
	require.NoError(t, err)
	assert.Equal(t, MethodNonzero, m)
	assert.Equal(t, "nonzero", m.String())

	_, err = ParseMethod("mean")
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestReport(t *testing.T) {
	r := NewReport()
	for _, passed := range []bool{false, true, true, false, true} {
		r.Record(passed)
	}

	assert.Equal(t, uint64(5), r.Total())
	assert.Equal(t, uint64(3), r.Kept())
	assert.Equal(t, uint64(2), r.Dropped())
	assert.True(t, r.Contains(1))
	assert.False(t, r.Contains(3))
	assert.Equal(t, []uint64{1, 2, 4}, r.KeptRows())

	var buf bytes.Buffer
	require.NoError(t, r.WriteKeptRows(&buf))
	assert.Equal(t, "1\n2\n4\n", buf.String())
}
