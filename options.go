package enumpath

import (
	"log/slog"
)

// ResultType selects what Apply collects for each match.
type ResultType string

const (
	// ResultValue collects the matched values.
	ResultValue ResultType = "value"
	// ResultPath collects the canonical path of each match, e.g. $['a'][0].
	ResultPath ResultType = "path"
)

type options struct {
	resultType ResultType
	verbose    bool
	logger     *slog.Logger
	logRate    float64
	logBurst   int
	cache      Cache
	maxDepth   int
}

// Option configures a path application.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		resultType: ResultValue,
		cache:      defaultCache,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.resultType == "" {
		o.resultType = ResultValue
	}
	if o.cache == nil {
		o.cache = defaultCache
	}
	return o
}

// WithResultType selects value or path results. The default is ResultValue.
func WithResultType(t ResultType) Option {
	return func(o *options) {
		o.resultType = t
	}
}

// WithVerbose enables the diagnostic trace. Results are never affected.
func WithVerbose(verbose bool) Option {
	return func(o *options) {
		o.verbose = verbose
	}
}

// WithLogger sets the destination of the diagnostic trace. Without it a
// verbose trace is written as text to stderr.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogRate throttles the diagnostic trace to entriesPerSecond with the
// given burst. Dropped entries are reported when the trace finishes.
func WithLogRate(entriesPerSecond float64, burst int) Option {
	return func(o *options) {
		o.logRate = entriesPerSecond
		o.logBurst = burst
	}
}

// WithCache replaces the process-wide normalization cache.
func WithCache(c Cache) Option {
	return func(o *options) {
		o.cache = c
	}
}

// WithMaxDepth drops branches nested deeper than n trace steps. Zero means
// unlimited. It bounds recursive descent over cyclic data.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = n
	}
}
