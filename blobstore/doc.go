// Package blobstore provides storage abstraction for input tables and
// rendered results.
//
// BlobStore is the interface for reading and writing data blobs.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem with mmap support
//   - MemoryStore: In-memory store for tests
//   - s3.Store: Amazon S3 with ranged reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// # Reading
//
// Tables are consumed once, front to back:
//
//	blob, _ := store.Open(ctx, "counts.tsv")
//	r, _ := blobstore.NewSequentialReader(ctx, blob)
//	defer r.Close()
//
// # Writing
//
// Writes are streamed and only become visible once Close succeeds:
//
//	w, _ := store.Create(ctx, "matrix.tsv")
//	_, _ = io.Copy(w, src)
//	_ = w.Close()
package blobstore
