// Package cli holds the flag, environment, logging and I/O plumbing shared
// by the tabledist and filtertable commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hupe1980/tabledist"
	"github.com/hupe1980/tabledist/cell"
	"github.com/hupe1980/tabledist/resource"
	"github.com/hupe1980/tabledist/storage"
	"github.com/hupe1980/tabledist/table"
)

// Flag names shared by both commands.
const (
	FlagSkipRows       = "skip-rows"
	FlagSkipCols       = "skip-cols"
	FlagSeparator      = "separator"
	FlagInput          = "input"
	FlagOutput         = "output"
	FlagMode           = "mode"
	FlagLogLevel       = "log-level"
	FlagLogFormat      = "log-format"
	FlagMaxMemory      = "max-memory"
	FlagIOLimit        = "io-limit"
	FlagS3Region       = "s3-region"
	FlagS3Endpoint     = "s3-endpoint"
	FlagS3PathStyle    = "s3-path-style"
	FlagMinIOEndpoint  = "minio-endpoint"
	FlagMinIOAccessKey = "minio-access-key"
	FlagMinIOSecretKey = "minio-secret-key"
	FlagMinIORegion    = "minio-region"
	FlagMinIOSecure    = "minio-secure"
)

// ErrInvalidFlag is returned for a flag value that cannot be used.
var ErrInvalidFlag = errors.New("invalid flag value")

// AddCommonFlags registers the flags shared by both commands on cmd.
func AddCommonFlags(cmd *cobra.Command, defaultMode cell.Mode) {
	f := cmd.Flags()
	f.IntP(FlagSkipRows, "r", 0, "Skip `ROWS` rows from start of table.")
	f.IntP(FlagSkipCols, "c", 0, "Skip `COLS` columns from start of each row.")
	f.StringP(FlagSeparator, "s", table.DefaultSeparator, "Use string `SEP` as field separator; every character separates.")
	f.StringP(FlagInput, "i", storage.Stdio, "Input from `INFILE` (path, s3://, minio:// or '-' for stdin).")
	f.StringP(FlagOutput, "o", storage.Stdio, "Output to `OUTFILE` (path, s3://, minio:// or '-' for stdout).")
	f.String(FlagMode, defaultMode.String(), "Cell `MODE`: unsigned, signed or float.")
	f.String(FlagLogLevel, "warn", "Log `LEVEL`: debug, info, warn or error.")
	f.String(FlagLogFormat, "text", "Log `FORMAT`: text or json.")
	f.String(FlagMaxMemory, "", "Refuse matrices larger than `SIZE` (e.g. 512MiB).")
	f.String(FlagIOLimit, "", "Read input and write output at most `RATE` bytes per second (e.g. 100MB).")
	f.String(FlagS3Region, "", "AWS region for s3:// locations.")
	f.String(FlagS3Endpoint, "", "Custom S3 endpoint URL.")
	f.Bool(FlagS3PathStyle, false, "Use path-style S3 addressing.")
	f.String(FlagMinIOEndpoint, "", "MinIO endpoint (host:port) for minio:// locations.")
	f.String(FlagMinIOAccessKey, "", "MinIO access key.")
	f.String(FlagMinIOSecretKey, "", "MinIO secret key.")
	f.String(FlagMinIORegion, "", "MinIO region.")
	f.Bool(FlagMinIOSecure, true, "Use TLS for MinIO.")
}

// NewViper binds every flag of cmd to environment variables named
// PREFIX_FLAG_NAME.
func NewViper(cmd *cobra.Command, envPrefix string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	return v, nil
}

// Common is the resolved value of the shared flags.
type Common struct {
	Table     table.Options
	Mode      cell.Mode
	Input     string
	Output    string
	LogLevel  slog.Level
	LogFormat string
	MaxMemory int64
	IOLimit   int64
	Storage   storage.Config
}

// LoadCommon reads the shared flags from v.
func LoadCommon(v *viper.Viper) (Common, error) {
	c := Common{
		Table: table.Options{
			Separator: v.GetString(FlagSeparator),
			SkipRows:  v.GetInt(FlagSkipRows),
			SkipCols:  v.GetInt(FlagSkipCols),
		},
		Input:     v.GetString(FlagInput),
		Output:    v.GetString(FlagOutput),
		LogFormat: strings.ToLower(v.GetString(FlagLogFormat)),
		Storage: storage.Config{
			S3Region:       v.GetString(FlagS3Region),
			S3Endpoint:     v.GetString(FlagS3Endpoint),
			S3PathStyle:    v.GetBool(FlagS3PathStyle),
			MinIOEndpoint:  v.GetString(FlagMinIOEndpoint),
			MinIOAccessKey: v.GetString(FlagMinIOAccessKey),
			MinIOSecretKey: v.GetString(FlagMinIOSecretKey),
			MinIORegion:    v.GetString(FlagMinIORegion),
			MinIOSecure:    v.GetBool(FlagMinIOSecure),
		},
	}

	if c.Table.SkipRows < 0 || c.Table.SkipCols < 0 {
		return c, fmt.Errorf("%w: skip counts must not be negative", ErrInvalidFlag)
	}
	if c.Table.Separator == "" {
		return c, fmt.Errorf("%w: --%s must not be empty", ErrInvalidFlag, FlagSeparator)
	}

	mode, err := cell.ParseMode(v.GetString(FlagMode))
	if err != nil {
		return c, err
	}
	c.Mode = mode

	if err := c.LogLevel.UnmarshalText([]byte(v.GetString(FlagLogLevel))); err != nil {
		return c, fmt.Errorf("%w: --%s: %w", ErrInvalidFlag, FlagLogLevel, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return c, fmt.Errorf("%w: --%s %q", ErrInvalidFlag, FlagLogFormat, c.LogFormat)
	}

	if c.MaxMemory, err = parseBytes(v.GetString(FlagMaxMemory)); err != nil {
		return c, fmt.Errorf("%w: --%s: %w", ErrInvalidFlag, FlagMaxMemory, err)
	}
	if c.IOLimit, err = parseBytes(v.GetString(FlagIOLimit)); err != nil {
		return c, fmt.Errorf("%w: --%s: %w", ErrInvalidFlag, FlagIOLimit, err)
	}
	return c, nil
}

func parseBytes(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	if n > 1<<62 {
		return 0, fmt.Errorf("%s is too large", s)
	}
	return int64(n), nil
}

// Env is the runtime wiring built from Common.
type Env struct {
	Logger    *tabledist.Logger
	Metrics   *tabledist.BasicMetricsCollector
	Resources *resource.Controller
	Resolver  *storage.Resolver
}

// NewEnv builds the logger, resource controller and location resolver. Logs
// go to the command's stderr; stdio locations use its stdin and stdout.
func NewEnv(cmd *cobra.Command, c Common) *Env {
	var logger *tabledist.Logger
	if c.LogFormat == "json" {
		logger = tabledist.NewJSONLogger(cmd.ErrOrStderr(), c.LogLevel)
	} else {
		logger = tabledist.NewTextLogger(cmd.ErrOrStderr(), c.LogLevel)
	}

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   c.MaxMemory,
		IOLimitBytesPerSec: c.IOLimit,
	})

	cfg := c.Storage
	cfg.Resources = rc
	resolver := storage.NewResolver(cfg)
	resolver.SetStdio(cmd.InOrStdin(), cmd.OutOrStdout())

	return &Env{
		Logger:    logger,
		Metrics:   &tabledist.BasicMetricsCollector{},
		Resources: rc,
		Resolver:  resolver,
	}
}

// Options returns the library options for a run.
func (e *Env) Options() []tabledist.Option {
	return []tabledist.Option{
		tabledist.WithLogger(e.Logger),
		tabledist.WithMetricsCollector(e.Metrics),
		tabledist.WithResourceController(e.Resources),
	}
}

// Stream opens input and output, runs fn and publishes the output only if fn
// succeeds.
func (e *Env) Stream(ctx context.Context, input, output string, fn func(r io.Reader, w io.Writer) error) (err error) {
	in, err := e.Resolver.OpenInput(ctx, input)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := in.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	out, err := e.Resolver.CreateOutput(ctx, output)
	if err != nil {
		return err
	}

	if err := fn(in, out); err != nil {
		out.Abort()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", output, err)
	}

	stats := e.Metrics.GetStats()
	e.Logger.DebugContext(ctx, "run metrics",
		"rows", stats.RowCount,
		"skipped_rows", stats.SkippedRowCount,
		"peak_memory", humanize.IBytes(uint64(e.Resources.PeakMemoryUsage())),
	)
	return nil
}

// Execute runs cmd with args. Without arguments it prints the usage and
// succeeds. It returns the process exit code.
func Execute(cmd *cobra.Command, args []string) int {
	if len(args) == 0 {
		// cobra prints usage to stderr unless told otherwise.
		cmd.SetOut(cmd.OutOrStdout())
		_ = cmd.Usage()
		return 0
	}
	cmd.SetArgs(args)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", cmd.Name(), err)
		return 1
	}
	return 0
}

// Changed reports whether the named flag was set on the command line.
func Changed(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}
