package table

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tabledist/cell"
)

type recorder[T cell.Value] struct {
	headers []string
	lines   []string
	rows    [][]T
}

func (r *recorder[T]) Header(_ int, line string) error {
	r.headers = append(r.headers, line)
	return nil
}

func (r *recorder[T]) Row(line string, cells []T) error {
	r.lines = append(r.lines, line)
	r.rows = append(r.rows, append([]T(nil), cells...))
	return nil
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		name string
		line string
		sep  string
		want []string
	}{
		{"Tab", "a\tb\tc\n", "\t", []string{"a", "b", "c"}},
		{"CRLF", "a\tb\r\n", "\t", []string{"a", "b"}},
		{"CollapseRuns", "a\t\tb", "\t", []string{"a", "b"}},
		{"AnyChar", "a,b;c", ",;", []string{"a", "b", "c"}},
		{"Empty", "\n", "\t", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitFields(tt.line, tt.sep)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHeaderFields(t *testing.T) {
	opts := Options{SkipCols: 1}
	assert.Equal(t, []string{"A", "B"}, HeaderFields("id\tA\tB\n", opts))
	assert.Nil(t, HeaderFields("id\n", opts))
}

func TestScan(t *testing.T) {
	input := "id\tA\tB\n# comment\nr1\t1\t3\n\nr2\t2\t2\nr3\t5\t1"
	rec := &recorder[float64]{}

	st, err := Scan[float64](context.Background(), strings.NewReader(input), Options{SkipRows: 2, SkipCols: 1}, rec)
	require.NoError(t, err)

	assert.Equal(t, []string{"id\tA\tB\n", "# comment\n"}, rec.headers)
	assert.Equal(t, [][]float64{{1, 3}, {2, 2}, {5, 1}}, rec.rows)
	assert.Equal(t, "r3\t5\t1", rec.lines[2])
	assert.Equal(t, Stats{Lines: 6, HeaderRows: 2, DataRows: 3, BlankRows: 1}, st)
}

func TestScan_CustomSeparator(t *testing.T) {
	rec := &recorder[int64]{}
	_, err := Scan[int64](context.Background(), strings.NewReader("1,-2, 3\n"), Options{Separator: ","}, rec)
	require.NoError(t, err)
	assert.Equal(t, [][]int64{{1, -2, 3}}, rec.rows)
}

func TestScan_ParseError(t *testing.T) {
	rec := &recorder[uint64]{}
	_, err := Scan[uint64](context.Background(), strings.NewReader("1\t2\n3\tx\n"), Options{}, rec)

	var pe *cell.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, err.Error(), "line 2")
	var le *LineError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 2, le.Line)
	assert.Len(t, rec.rows, 1)
}

func TestScan_HandlerError(t *testing.T) {
	boom := errors.New("boom")
	h := HandlerFuncs[float64]{
		RowFunc: func(string, []float64) error { return boom },
	}
	_, err := Scan[float64](context.Background(), strings.NewReader("1\n"), Options{}, h)
	assert.ErrorIs(t, err, boom)
}

func TestScan_InvalidOptions(t *testing.T) {
	_, err := Scan[float64](context.Background(), strings.NewReader(""), Options{SkipRows: -1}, HandlerFuncs[float64]{})
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestScan_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Scan[float64](ctx, strings.NewReader("1\n"), Options{}, HandlerFuncs[float64]{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScan_AllLabelColumns(t *testing.T) {
	rec := &recorder[float64]{}
	_, err := Scan[float64](context.Background(), strings.NewReader("a\tb\n"), Options{SkipCols: 5}, rec)
	require.NoError(t, err)
	require.Len(t, rec.rows, 1)
	assert.Empty(t, rec.rows[0])
}
