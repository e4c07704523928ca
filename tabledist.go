package tabledist

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/tabledist/cell"
	"github.com/hupe1980/tabledist/distance"
	"github.com/hupe1980/tabledist/distmat"
	"github.com/hupe1980/tabledist/filter"
	"github.com/hupe1980/tabledist/table"
)

// DistanceConfig configures a Distance run.
type DistanceConfig struct {
	// Mode selects how cells are parsed and combined.
	Mode cell.Mode

	// Metric is the per-cell distance function.
	Metric distance.Metric

	// Cutoff is the Binary Manhattan threshold, parsed in Mode. Empty means
	// distance.DefaultCutoff. Ignored by the other metrics.
	Cutoff string

	// Table controls how the input is split.
	Table table.Options
}

// Summary describes a completed Distance run.
type Summary struct {
	Mode       cell.Mode
	Metric     distance.Metric
	Samples    int
	Pairs      int
	Bytes      int64
	Rows       int
	HeaderRows int
	BlankRows  int
	Labeled    bool
	Duration   time.Duration
}

// Distance streams the table from r, accumulates the pairwise column
// distances and writes the matrix to w.
//
// When cfg.Table.SkipRows is positive, the fields of the first line after
// the label columns name the samples and a label row and column are
// rendered. Nothing is written to w unless the whole input is consumed
// without error.
func Distance(ctx context.Context, r io.Reader, w io.Writer, cfg DistanceConfig, optFns ...Option) (*Summary, error) {
	start := time.Now()
	o := applyOptions(optFns)
	logger := o.logger.WithOperation("distance").WithMode(cfg.Mode)

	var (
		s   *Summary
		err error
	)
	switch cfg.Mode {
	case cell.Unsigned:
		s, err = runDistance[uint64](ctx, r, w, cfg, &o, logger)
	case cell.Signed:
		s, err = runDistance[int64](ctx, r, w, cfg, &o, logger)
	case cell.Float:
		s, err = runDistance[float64](ctx, r, w, cfg, &o, logger)
	default:
		s, err = &Summary{Mode: cfg.Mode, Metric: cfg.Metric}, fmt.Errorf("%w: %d", ErrInvalidMode, cfg.Mode)
	}

	err = translateError(err)
	s.Duration = time.Since(start)
	o.metricsCollector.RecordDistance(s.Samples, s.Duration, err)
	logger.LogDistance(ctx, s, err)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func runDistance[T cell.Value](ctx context.Context, r io.Reader, w io.Writer, cfg DistanceConfig, o *options, logger *Logger) (*Summary, error) {
	s := &Summary{Mode: cfg.Mode, Metric: cfg.Metric}

	cutoff := distance.DefaultCutoff[T]()
	if cfg.Cutoff != "" {
		v, err := cell.Parse[T](cfg.Cutoff)
		if err != nil {
			return s, fmt.Errorf("%w: cutoff: %w", ErrInvalidConfig, err)
		}
		cutoff = v
	}

	fn, err := distance.Provider[T](cfg.Metric, cutoff)
	if err != nil {
		return s, err
	}

	var accOpts []distmat.Option
	if o.resources != nil {
		accOpts = append(accOpts, distmat.WithReserver(o.resources))
	}
	acc := distmat.New(fn, accOpts...)
	defer acc.Release()

	progress := newProgress(o.progressInterval)
	h := table.HandlerFuncs[T]{
		HeaderFunc: func(index int, line string) error {
			o.metricsCollector.RecordSkippedRow()
			if index != 0 {
				return nil
			}
			return acc.SetSampleNames(table.HeaderFields(line, cfg.Table))
		},
		RowFunc: func(_ string, cells []T) error {
			first := !acc.Sized()
			if err := acc.Observe(cells); err != nil {
				return err
			}
			if first {
				logger.LogSized(ctx, acc.Samples(), acc.Len(), acc.Bytes())
			}
			o.metricsCollector.RecordRow()
			progress.Do(func() { logger.LogProgress(ctx, acc.Rows()) })
			return nil
		},
	}

	st, err := table.Scan[T](ctx, r, cfg.Table, h)
	s.Rows = st.DataRows
	s.HeaderRows = st.HeaderRows
	s.BlankRows = st.BlankRows
	s.Samples = acc.Samples()
	s.Pairs = acc.Len()
	s.Bytes = acc.Bytes()
	s.Labeled = len(acc.SampleNames()) > 0
	for range st.BlankRows {
		o.metricsCollector.RecordSkippedRow()
	}
	if err != nil {
		return s, err
	}

	if err := distmat.Render(w, acc); err != nil {
		return s, fmt.Errorf("write matrix: %w", err)
	}
	return s, nil
}

// FilterConfig configures a Filter run.
type FilterConfig struct {
	// Mode selects how cells are parsed and compared.
	Mode cell.Mode

	// Method is the per-row statistic.
	Method filter.Method

	// Threshold is the minimum statistic a row needs to be kept, parsed in
	// Mode. Required.
	Threshold string

	// Table controls how the input is split.
	Table table.Options
}

// FilterSummary describes a completed Filter run.
type FilterSummary struct {
	Mode       cell.Mode
	Method     filter.Method
	HeaderRows int
	BlankRows  int
	Report     *filter.Report
	Duration   time.Duration
}

// Filter copies the header rows of r to w and then every data row whose
// statistic reaches the threshold. Lines are written exactly as read.
func Filter(ctx context.Context, r io.Reader, w io.Writer, cfg FilterConfig, optFns ...Option) (*FilterSummary, error) {
	start := time.Now()
	o := applyOptions(optFns)
	logger := o.logger.WithOperation("filter").WithMode(cfg.Mode)

	var (
		s   *FilterSummary
		err error
	)
	switch cfg.Mode {
	case cell.Unsigned:
		s, err = runFilter[uint64](ctx, r, w, cfg, &o, logger)
	case cell.Signed:
		s, err = runFilter[int64](ctx, r, w, cfg, &o, logger)
	case cell.Float:
		s, err = runFilter[float64](ctx, r, w, cfg, &o, logger)
	default:
		s = &FilterSummary{Mode: cfg.Mode, Method: cfg.Method, Report: filter.NewReport()}
		err = fmt.Errorf("%w: %d", ErrInvalidMode, cfg.Mode)
	}

	err = translateError(err)
	s.Duration = time.Since(start)
	o.metricsCollector.RecordFilter(s.Report.Total(), s.Report.Kept(), s.Duration, err)
	logger.LogFilter(ctx, s, err)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func runFilter[T cell.Value](ctx context.Context, r io.Reader, w io.Writer, cfg FilterConfig, o *options, logger *Logger) (*FilterSummary, error) {
	s := &FilterSummary{Mode: cfg.Mode, Method: cfg.Method, Report: filter.NewReport()}

	if cfg.Threshold == "" {
		return s, fmt.Errorf("%w: threshold is required", ErrInvalidConfig)
	}
	threshold, err := cell.Parse[T](cfg.Threshold)
	if err != nil {
		return s, fmt.Errorf("%w: threshold: %w", ErrInvalidConfig, err)
	}

	pred, err := filter.Provider[T](cfg.Method, threshold)
	if err != nil {
		return s, err
	}

	bw := bufio.NewWriter(w)
	progress := newProgress(o.progressInterval)
	h := table.HandlerFuncs[T]{
		HeaderFunc: func(_ int, line string) error {
			o.metricsCollector.RecordSkippedRow()
			_, err := bw.WriteString(line)
			return err
		},
		RowFunc: func(line string, cells []T) error {
			o.metricsCollector.RecordRow()
			keep := pred(cells)
			s.Report.Record(keep)
			progress.Do(func() { logger.LogProgress(ctx, int(s.Report.Total())) })
			if !keep {
				return nil
			}
			_, err := bw.WriteString(line)
			return err
		},
	}

	st, err := table.Scan[T](ctx, r, cfg.Table, h)
	s.HeaderRows = st.HeaderRows
	s.BlankRows = st.BlankRows
	for range st.BlankRows {
		o.metricsCollector.RecordSkippedRow()
	}
	if ferr := bw.Flush(); err == nil && ferr != nil {
		err = fmt.Errorf("write rows: %w", ferr)
	}
	return s, err
}

// progress throttles progress log lines.
type progress struct {
	s       *rate.Sometimes
	enabled bool
}

func newProgress(interval time.Duration) progress {
	if interval <= 0 {
		return progress{}
	}
	return progress{s: &rate.Sometimes{Interval: interval}, enabled: true}
}

func (p progress) Do(f func()) {
	if p.enabled {
		p.s.Do(f)
	}
}
