// Package compression transparently wraps table streams in gzip, zstd or
// lz4 codecs.
package compression

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type defines the compression algorithm of a stream.
type Type uint8

const (
	// None indicates an uncompressed stream.
	None Type = iota
	// Gzip indicates a gzip (RFC 1952) stream.
	Gzip
	// Zstd indicates a Zstandard frame stream.
	Zstd
	// LZ4 indicates an LZ4 frame stream.
	LZ4
)

// ErrUnknownType is returned for an unsupported Type value.
var ErrUnknownType = errors.New("unknown compression type")

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// FromPath picks the compression for an output name by its extension.
func FromPath(name string) Type {
	switch strings.ToLower(path.Ext(name)) {
	case ".gz", ".gzip":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	case ".lz4":
		return LZ4
	default:
		return None
	}
}

// Detect identifies the compression of a stream from its leading bytes.
func Detect(head []byte) Type {
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return Zstd
	case bytes.HasPrefix(head, lz4Magic):
		return LZ4
	case bytes.HasPrefix(head, gzipMagic):
		return Gzip
	default:
		return None
	}
}

// NewReader sniffs r and returns a reader that yields the decompressed
// stream. Closing the returned reader releases decoder resources but does not
// close r.
func NewReader(r io.Reader) (io.ReadCloser, Type, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, None, err
	}

	t := Detect(head)
	switch t {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, t, err
		}
		return zr, t, nil
	case Zstd:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, t, err
		}
		return zstdReadCloser{dec}, t, nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(br)), t, nil
	default:
		return io.NopCloser(br), None, nil
	}
}

// NewWriter wraps w in an encoder for t. Close flushes the encoder but does
// not close w.
func NewWriter(w io.Writer, t Type) (io.WriteCloser, error) {
	switch t {
	case None:
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case LZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
}

type zstdReadCloser struct {
	dec *zstd.Decoder
}

func (z zstdReadCloser) Read(p []byte) (int, error) { return z.dec.Read(p) }

func (z zstdReadCloser) Close() error {
	z.dec.Close()
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
