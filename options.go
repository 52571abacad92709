package carray

import (
	"github.com/hupe1980/carray/mem"
)

type options struct {
	alignment        int
	allocator        mem.Allocator
	logger           *Logger
	metricsCollector MetricsCollector
	zeroFill         bool
}

// Option configures array construction.
type Option func(*options)

func defaultOptions() options {
	return options{
		alignment:        mem.DefaultAlignment,
		allocator:        mem.Default,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
}

func applyOptions(optFns []Option) options {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

// WithAlignment sets the byte alignment of the element buffer and the index
// blocks. It must be a power of two; it is raised to the natural alignment of
// the element (buffer) or of a pointer (index blocks) when smaller.
//
// Defaults to mem.DefaultAlignment (64 bytes, one cache line).
func WithAlignment(align int) Option {
	return func(o *options) {
		o.alignment = align
	}
}

// WithAllocator sets the allocator for the buffer and the index blocks.
//
// If nil is passed, mem.Default is used.
func WithAllocator(a mem.Allocator) Option {
	return func(o *options) {
		if a == nil {
			a = mem.Default
		}
		o.allocator = a
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithMetricsCollector sets the metrics collector.
//
// If nil is passed, metrics are discarded.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithZeroFill clears the element buffer after allocation.
//
// The built-in allocators already return zeroed memory; enable this for
// custom allocators that recycle blocks.
func WithZeroFill(enabled bool) Option {
	return func(o *options) {
		o.zeroFill = enabled
	}
}
