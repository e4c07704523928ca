package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/tabledist/blobstore"
	"github.com/hupe1980/tabledist/blobstore/minio"
	"github.com/hupe1980/tabledist/blobstore/s3"
	"github.com/hupe1980/tabledist/internal/compression"
	"github.com/hupe1980/tabledist/resource"
)

// Stdio is the location that selects standard input or output.
const Stdio = "-"

var (
	// ErrUnsupportedScheme is returned for a location with an unknown scheme.
	ErrUnsupportedScheme = errors.New("unsupported location scheme")

	// ErrInvalidLocation is returned for a malformed location.
	ErrInvalidLocation = errors.New("invalid location")
)

// Config holds the settings for remote stores.
type Config struct {
	// S3Region overrides the region from the AWS shared config.
	S3Region string
	// S3Endpoint overrides the S3 endpoint (e.g. LocalStack).
	S3Endpoint string
	// S3PathStyle forces path-style addressing.
	S3PathStyle bool

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIORegion    string
	MinIOSecure    bool

	// Resources throttles input reads and output writes when it carries an
	// IO limit.
	Resources *resource.Controller
}

// Location is a parsed input or output location.
type Location struct {
	Scheme string // "" for stdio, "file", "s3", "minio", or a registered scheme
	Bucket string
	Key    string
}

// IsStdio reports whether l selects standard input or output.
func (l Location) IsStdio() bool { return l.Scheme == "" }

func (l Location) String() string {
	switch l.Scheme {
	case "":
		return Stdio
	case "file":
		return l.Key
	default:
		return l.Scheme + "://" + l.Bucket + "/" + l.Key
	}
}

// ParseLocation parses a location string. An empty string selects stdio.
func ParseLocation(s string) (Location, error) {
	if s == "" || s == Stdio {
		return Location{}, nil
	}

	scheme, rest, ok := strings.Cut(s, "://")
	if !ok {
		return Location{Scheme: "file", Key: s}, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %q: %w", ErrInvalidLocation, s, err)
	}
	scheme = strings.ToLower(scheme)
	if scheme == "file" {
		if u.Path == "" {
			return Location{}, fmt.Errorf("%w: %q", ErrInvalidLocation, s)
		}
		return Location{Scheme: "file", Key: u.Path}, nil
	}

	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return Location{}, fmt.Errorf("%w: %q needs bucket and key", ErrInvalidLocation, s)
	}
	return Location{Scheme: scheme, Bucket: bucket, Key: key}, nil
}

// StoreFactory opens the blob store for a bucket.
type StoreFactory func(ctx context.Context, bucket string) (blobstore.BlobStore, error)

// Resolver opens locations.
type Resolver struct {
	cfg Config

	stdin  io.Reader
	stdout io.Writer

	mu        sync.Mutex
	factories map[string]StoreFactory
	stores    map[string]blobstore.BlobStore
}

// NewResolver creates a resolver with the file, s3 and minio schemes.
func NewResolver(cfg Config) *Resolver {
	r := &Resolver{
		cfg:       cfg,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		factories: make(map[string]StoreFactory),
		stores:    make(map[string]blobstore.BlobStore),
	}
	local := blobstore.NewLocalStore("")
	r.factories["file"] = func(context.Context, string) (blobstore.BlobStore, error) {
		return local, nil
	}
	r.factories["s3"] = r.newS3Store
	r.factories["minio"] = r.newMinIOStore
	return r
}

// SetStdio replaces standard input and output.
func (r *Resolver) SetStdio(in io.Reader, out io.Writer) {
	r.stdin = in
	r.stdout = out
}

// Register adds or replaces the store factory for scheme.
func (r *Resolver) Register(scheme string, f StoreFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(scheme)] = f
}

func (r *Resolver) store(ctx context.Context, loc Location) (blobstore.BlobStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cacheKey := loc.Scheme + "://" + loc.Bucket
	if s, ok := r.stores[cacheKey]; ok {
		return s, nil
	}
	f, ok := r.factories[loc.Scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, loc.Scheme)
	}
	s, err := f(ctx, loc.Bucket)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", loc.Scheme, err)
	}
	r.stores[cacheKey] = s
	return s, nil
}

func (r *Resolver) newS3Store(ctx context.Context, bucket string) (blobstore.BlobStore, error) {
	var loadOpts []func(*config.LoadOptions) error
	if r.cfg.S3Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(r.cfg.S3Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if r.cfg.S3Endpoint != "" {
			o.BaseEndpoint = &r.cfg.S3Endpoint
		}
		o.UsePathStyle = r.cfg.S3PathStyle
	})
	return s3.NewStore(client, bucket, ""), nil
}

func (r *Resolver) newMinIOStore(_ context.Context, bucket string) (blobstore.BlobStore, error) {
	if r.cfg.MinIOEndpoint == "" {
		return nil, fmt.Errorf("%w: minio endpoint is not configured", ErrInvalidLocation)
	}
	client, err := miniogo.New(r.cfg.MinIOEndpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(r.cfg.MinIOAccessKey, r.cfg.MinIOSecretKey, ""),
		Secure: r.cfg.MinIOSecure,
		Region: r.cfg.MinIORegion,
	})
	if err != nil {
		return nil, err
	}
	return minio.NewStore(client, bucket, ""), nil
}

// OpenInput opens the location for reading. The stream is decompressed if
// it starts with a known magic number.
func (r *Resolver) OpenInput(ctx context.Context, location string) (io.ReadCloser, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	var raw io.ReadCloser
	if loc.IsStdio() {
		raw = io.NopCloser(r.stdin)
	} else {
		st, err := r.store(ctx, loc)
		if err != nil {
			return nil, err
		}
		blob, err := st.Open(ctx, loc.Key)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", loc, err)
		}
		raw, err = blobstore.NewSequentialReader(ctx, blob)
		if err != nil {
			_ = blob.Close()
			return nil, fmt.Errorf("open %s: %w", loc, err)
		}
	}

	var src io.Reader = raw
	if r.cfg.Resources != nil {
		src = resource.NewRateLimitedReader(ctx, raw, r.cfg.Resources)
	}

	dec, _, err := compression.NewReader(src)
	if err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("open %s: %w", loc, err)
	}
	return &input{Reader: dec, closers: []io.Closer{dec, raw}}, nil
}

type input struct {
	io.Reader
	closers []io.Closer
}

func (in *input) Close() error {
	var errs []error
	for _, c := range in.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Output is a destination being written. Call Close to publish it or Abort
// to discard it.
type Output struct {
	enc    io.WriteCloser
	blob   blobstore.WritableBlob
	closed bool
}

func (o *Output) Write(p []byte) (int, error) {
	return o.enc.Write(p)
}

// Close flushes the encoder and publishes the output.
func (o *Output) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true
	err := o.enc.Close()
	if o.blob == nil {
		return err
	}
	if err != nil {
		abort(o.blob)
		return err
	}
	return o.blob.Close()
}

// Abort discards the output where the store supports it. Data already written
// to standard output cannot be taken back.
func (o *Output) Abort() {
	if o.closed {
		return
	}
	o.closed = true
	_ = o.enc.Close()
	if o.blob != nil {
		abort(o.blob)
	}
}

func abort(b blobstore.WritableBlob) {
	if a, ok := b.(blobstore.Aborter); ok {
		_ = a.Abort()
		return
	}
	_ = b.Close()
}

func (r *Resolver) limitWriter(ctx context.Context, w io.Writer) io.Writer {
	if r.cfg.Resources == nil {
		return w
	}
	return resource.NewRateLimitedWriter(ctx, w, r.cfg.Resources)
}

// CreateOutput opens the location for writing, compressing by extension.
// With an IO limit configured, the encoded bytes are throttled on their way
// to the store.
func (r *Resolver) CreateOutput(ctx context.Context, location string) (*Output, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	if loc.IsStdio() {
		enc, err := compression.NewWriter(r.limitWriter(ctx, r.stdout), compression.None)
		if err != nil {
			return nil, err
		}
		return &Output{enc: enc}, nil
	}

	st, err := r.store(ctx, loc)
	if err != nil {
		return nil, err
	}
	blob, err := st.Create(ctx, loc.Key)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", loc, err)
	}
	enc, err := compression.NewWriter(r.limitWriter(ctx, blob), compression.FromPath(loc.Key))
	if err != nil {
		abort(blob)
		return nil, fmt.Errorf("create %s: %w", loc, err)
	}
	return &Output{enc: enc, blob: blob}, nil
}
