package tabledist

import (
	"time"

	"github.com/hupe1980/tabledist/resource"
)

// DefaultProgressInterval is the minimum time between progress log lines.
const DefaultProgressInterval = 10 * time.Second

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	resources        *resource.Controller
	progressInterval time.Duration
}

// Option configures a Distance or Filter run.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring runs.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &tabledist.BasicMetricsCollector{}
//	_, err := tabledist.Distance(ctx, in, out, cfg, tabledist.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("Rows: %d, Avg run: %dns\n", stats.RowCount, stats.DistanceAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for runs.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := tabledist.NewJSONLogger(os.Stderr, slog.LevelInfo)
//	_, err := tabledist.Distance(ctx, in, out, cfg, tabledist.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithResourceController bounds the memory reserved for the distance matrix.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithProgressInterval sets the minimum time between progress log lines.
// A non-positive interval disables progress logging.
func WithProgressInterval(d time.Duration) Option {
	return func(o *options) {
		o.progressInterval = d
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		progressInterval: DefaultProgressInterval,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
