// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "tables/")
//
//	blob, err := store.Open(ctx, "counts.tsv.gz")
//
// # Features
//
//   - Range reads for streaming input tables
//   - Multipart uploads for large distance matrices
//   - Configurable prefix for shared buckets
package s3
