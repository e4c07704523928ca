package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction for reading input tables and writing results.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Create creates (or replaces) a blob for streaming writes.
	Create(ctx context.Context, name string) (WritableBlob, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	io.Closer
	// Size returns the size of the blob in bytes, or -1 when it is only
	// known once the blob has been read to the end.
	Size() int64
	// ReadRange returns a reader for length bytes starting at off.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
}

// WritableBlob is a blob being written. Data becomes visible once Close
// returns without error.
type WritableBlob interface {
	io.WriteCloser
	// Sync flushes buffered data to stable storage where supported.
	Sync() error
}

// Aborter is an optional interface for WritableBlobs that can discard a
// write in progress. After Abort the blob is not created.
type Aborter interface {
	Abort() error
}

// Mappable is an optional interface for Blobs that support memory mapping.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	Bytes() ([]byte, error)
}

// Streamer is an optional interface for Blobs that can only be read once,
// front to back, such as pipes and character devices.
type Streamer interface {
	Stream() io.Reader
}

// NewSequentialReader returns a reader over the whole blob. Closing it also
// closes the blob.
func NewSequentialReader(ctx context.Context, b Blob) (io.ReadCloser, error) {
	if s, ok := b.(Streamer); ok {
		return &blobReader{r: s.Stream(), blob: b}, nil
	}
	if m, ok := b.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		return &blobReader{r: bytes.NewReader(data), blob: b}, nil
	}

	if b.Size() == 0 {
		return &blobReader{r: bytes.NewReader(nil), blob: b}, nil
	}

	rc, err := b.ReadRange(ctx, 0, b.Size())
	if err != nil {
		return nil, err
	}
	return &blobReader{r: rc, body: rc, blob: b}, nil
}

type blobReader struct {
	r    io.Reader
	body io.Closer
	blob Blob
}

func (r *blobReader) Read(p []byte) (int, error) {
	return r.r.Read(p)
}

func (r *blobReader) Close() error {
	var err error
	if r.body != nil {
		err = r.body.Close()
	}
	if closeErr := r.blob.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
