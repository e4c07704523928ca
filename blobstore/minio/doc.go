// Package minio stores input tables and output matrices in a MinIO (or other
// S3-compatible) bucket through the minio-go client.
//
// Objects are addressed as prefix+name inside one bucket. Reads issue ranged
// GetObject calls; writes stream through an io.Pipe into a single PutObject
// of unknown size, which minio-go turns into a multipart upload. The object
// appears only when the writer is closed without error; Abort discards it.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    return err
//	}
//	store := minioblob.NewStore(client, "tables", "runs/")
//	blob, err := store.Open(ctx, "counts.tsv.gz")
//
// The tabledist and filtertable commands reach this store through
// minio://bucket/key locations; endpoint and credentials come from the
// --minio-* flags or FILTERTABLE_/TABLEDIST_ environment variables.
package minio
