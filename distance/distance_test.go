package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanberra(t *testing.T) {
	tests := []struct {
		name     string
		a, b     float64
		expected float64
	}{
		{"Simple", 1, 3, 0.5},
		{"Identical", 4, 4, 0},
		{"BothZero", 0, 0, 0},
		{"OneZero", 0, 2, 1},
		{"Negative", -1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Canberra(tt.a, tt.b), 1e-12)
			assert.InDelta(t, tt.expected, Canberra(tt.b, tt.a), 1e-12)
		})
	}
}

func TestCanberraIntegerDivision(t *testing.T) {
	// |1-3| / (1+3) = 2/4 truncates to 0 in integer modes.
	assert.Equal(t, uint64(0), Canberra[uint64](1, 3))
	assert.Equal(t, int64(0), Canberra[int64](1, 3))
	// |0-5| / (0+5) = 1
	assert.Equal(t, uint64(1), Canberra[uint64](0, 5))
	// |-2-2| / (2+2) = 1
	assert.Equal(t, int64(1), Canberra[int64](-2, 2))
	assert.Equal(t, uint64(0), Canberra[uint64](0, 0))
	assert.Equal(t, int64(0), Canberra[int64](0, 0))
}

func TestCanberraIdentityIsZero(t *testing.T) {
	for _, v := range []float64{0, 1, -3.5, 1e300} {
		assert.Zero(t, Canberra(v, v))
	}
	for _, v := range []int64{0, 7, -9} {
		assert.Zero(t, Canberra(v, v))
	}
	for _, v := range []uint64{0, 7, math.MaxUint32} {
		assert.Zero(t, Canberra(v, v))
	}
}

func TestManhattan(t *testing.T) {
	assert.Equal(t, uint64(2), Manhattan[uint64](1, 3))
	assert.Equal(t, uint64(2), Manhattan[uint64](3, 1))
	assert.Equal(t, int64(10), Manhattan[int64](-4, 6))
	assert.InDelta(t, 0.25, Manhattan(1.5, 1.25), 1e-12)
}

func TestBinaryManhattan(t *testing.T) {
	fn := BinaryManhattan(DefaultCutoff[float64]())

	tests := []struct {
		name     string
		a, b     float64
		expected float64
	}{
		{"BothAbove", 2, 5, 0},
		{"BothBelow", 0, 1, 0},
		{"AtCutoffIsAbsent", 1, 1.5, 1},
		{"OneAbove", 0.2, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fn(tt.a, tt.b))
			assert.Equal(t, tt.expected, fn(tt.b, tt.a))
		})
	}

	signed := BinaryManhattan[int64](-1)
	assert.Equal(t, int64(1), signed(-2, 0))
	assert.Equal(t, int64(0), signed(-1, -5))
}

func TestProvider(t *testing.T) {
	fn, err := Provider[uint64](MetricManhattan, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), fn(1, 5))

	fn, err = Provider[uint64](MetricCanberra, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), fn(0, 5))

	fn, err = Provider[uint64](MetricBinaryManhattan, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), fn(3, 4))

	_, err = Provider[uint64](Metric(42), 0)
	assert.ErrorIs(t, err, ErrInvalidMetric)
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("Binary-Manhattan")
	require.NoError(t, err)
	assert.Equal(t, MetricBinaryManhattan, m)
	assert.Equal(t, "BinaryManhattan", m.String())

	_, err = ParseMetric("euclid")
	assert.ErrorIs(t, err, ErrInvalidMetric)
	assert.Equal(t, "Unknown(7)", Metric(7).String())
}
