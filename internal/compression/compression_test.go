package compression

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPath(t *testing.T) {
	tests := []struct {
		name string
		want Type
	}{
		{"matrix.tsv", None},
		{"matrix.tsv.gz", Gzip},
		{"s3://bucket/out.ZST", Zstd},
		{"out.lz4", LZ4},
		{"-", None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromPath(tt.name))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	payload := strings.Repeat("id\tA\tB\nr1\t1\t3\n", 500)

	for _, typ := range []Type{None, Gzip, Zstd, LZ4} {
		t.Run(typ.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, typ)
			require.NoError(t, err)
			_, err = io.WriteString(w, payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			assert.Equal(t, typ, Detect(buf.Bytes()))

			r, detected, err := NewReader(&buf)
			require.NoError(t, err)
			defer r.Close()
			assert.Equal(t, typ, detected)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, payload, string(got))
		})
	}
}

func TestNewReader_ShortInput(t *testing.T) {
	r, typ, err := NewReader(strings.NewReader("1\n"))
	require.NoError(t, err)
	assert.Equal(t, None, typ)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "1\n", string(got))
}

func TestNewWriter_Unknown(t *testing.T) {
	_, err := NewWriter(io.Discard, Type(99))
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.Equal(t, "Unknown(99)", Type(99).String())
}
