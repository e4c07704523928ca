//go:build unix

package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestLocalBlobStore_FIFO(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.fifo")
	require.NoError(t, unix.Mkfifo(path, 0o600))

	table := []byte("g\ts1\ts2\na\t1\t2\nb\t3\t4\n")
	errCh := make(chan error, 1)
	go func() {
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			errCh <- err
			return
		}
		_, err = f.Write(table)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		errCh <- err
	}()

	ctx := context.Background()
	blob, err := NewLocalStore("").Open(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), blob.Size())

	_, err = blob.ReadRange(ctx, 0, 4)
	require.ErrorIs(t, err, ErrNotSeekable)

	r, err := NewSequentialReader(ctx, blob)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, <-errCh)

	assert.Equal(t, table, got)
}
