// Package instrument is the process-wide observer for lazyflow pipelines.
//
// Streams never log failures themselves; errors are returned to the caller
// of the terminal operation. When instrumentation is enabled, the engine
// additionally reports what it did through a zerolog logger and an optional
// Prometheus registry: terminal operations, the sort and join strategies it
// chose, indexes it built, fresh buffers it reused, and failed terminals.
//
//	reg := metrics.NewRegistry(prometheus.NewRegistry())
//	instrument.Enable(instrument.Config{
//		Logger:  instrument.NewLogger(instrument.LogConfig{Level: "debug"}),
//		Metrics: reg,
//		Name:    "reports",
//	})
//	defer instrument.Disable()
package instrument

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/metrics"
)

// Config configures the observer.
type Config struct {
	// Logger receives debug events. The zero value discards everything.
	Logger zerolog.Logger

	// Metrics receives counters and histograms. Nil disables metrics.
	Metrics *metrics.Registry

	// Name is the stream_name label attached to every metric.
	Name string
}

// DefaultConfig returns a configuration that logs nowhere and records no metrics.
func DefaultConfig() Config {
	return Config{
		Logger: zerolog.Nop(),
		Name:   "default",
	}
}

var current atomic.Pointer[Config]

// Enable installs cfg as the process-wide observer. It is safe to call
// while streams are running.
func Enable(cfg Config) {
	if cfg.Name == "" {
		cfg.Name = DefaultConfig().Name
	}
	current.Store(&cfg)
}

// Disable removes the observer.
func Disable() {
	current.Store(nil)
}

// Enabled reports whether an observer is installed.
func Enabled() bool {
	return current.Load() != nil
}

// Terminal records a successful terminal operation that consumed items elements.
func Terminal(op string, items int) {
	cfg := current.Load()
	if cfg == nil {
		return
	}
	cfg.Logger.Debug().Str("op", op).Int("items", items).Msg("terminal operation")
	if m := cfg.Metrics; m != nil {
		m.StreamOperations.WithLabelValues(op, cfg.Name).Inc()
		m.StreamItems.WithLabelValues(op, cfg.Name).Add(float64(items))
	}
}

// Failure records a failed terminal operation.
func Failure(op string, err error) {
	cfg := current.Load()
	if cfg == nil || err == nil {
		return
	}
	reason := Reason(err)
	cfg.Logger.Debug().Str("op", op).Str("reason", reason).Err(err).Msg("terminal operation failed")
	if m := cfg.Metrics; m != nil {
		m.StreamOperations.WithLabelValues(op, cfg.Name).Inc()
		m.StreamErrors.WithLabelValues(op, cfg.Name, reason).Inc()
	}
}

// Sort records the sort strategy chosen for items elements.
func Sort(op, strategy string, items int) {
	cfg := current.Load()
	if cfg == nil {
		return
	}
	cfg.Logger.Debug().Str("op", op).Str("strategy", strategy).Int("items", items).Msg("sort strategy")
	if m := cfg.Metrics; m != nil {
		m.SortStrategy.WithLabelValues(strategy, cfg.Name).Inc()
	}
}

// Join records the join strategy chosen for an inner side of items elements.
func Join(op, strategy string, items int) {
	cfg := current.Load()
	if cfg == nil {
		return
	}
	cfg.Logger.Debug().Str("op", op).Str("strategy", strategy).Int("inner", items).Msg("join strategy")
	if m := cfg.Metrics; m != nil {
		m.JoinStrategy.WithLabelValues(strategy, cfg.Name).Inc()
	}
}

// IndexBuilt records a join or group index with keys distinct keys over size elements.
func IndexBuilt(kind string, keys, size int) {
	cfg := current.Load()
	if cfg == nil {
		return
	}
	cfg.Logger.Debug().Str("kind", kind).Int("keys", keys).Int("size", size).Msg("index built")
	if m := cfg.Metrics; m != nil {
		m.IndexBuilds.WithLabelValues(kind, cfg.Name).Inc()
		m.IndexSize.WithLabelValues(kind).Observe(float64(keys))
	}
}

// Reused records that op mutated a fresh buffer of items elements in place.
func Reused(op string, items int) {
	cfg := current.Load()
	if cfg == nil {
		return
	}
	cfg.Logger.Debug().Str("op", op).Int("items", items).Msg("fresh buffer reused")
	if m := cfg.Metrics; m != nil {
		m.BufferReuse.WithLabelValues(op, cfg.Name).Inc()
	}
}

// Reason maps err onto the reason label used by stream_errors_total.
func Reason(err error) string {
	switch {
	case errors.Is(err, lferrors.ErrNeverEnding):
		return "never_ending"
	case errors.Is(err, lferrors.ErrEmptySource):
		return "empty_source"
	case errors.Is(err, lferrors.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, lferrors.ErrIndexOutOfBounds):
		return "index_out_of_bounds"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "other"
	}
}
