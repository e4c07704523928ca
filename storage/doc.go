// Package storage resolves the input and output locations accepted by the
// command line tools.
//
// A location is one of:
//
//	-                    standard input or output
//	path/to/file.tsv     a local file
//	file:///abs/path     a local file
//	s3://bucket/key      an AWS S3 object
//	minio://bucket/key   an object on a MinIO or other S3-compatible endpoint
//
// Inputs compressed with gzip, zstd or lz4 are decompressed transparently.
// Outputs are compressed when the name ends in .gz, .zst or .lz4.
package storage
