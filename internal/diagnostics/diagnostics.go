// Package diagnostics renders the verbose evaluation trace.
//
// A nil *Logger is valid and discards everything, so callers never need to
// check whether verbose mode is on before logging.
package diagnostics

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jacoelho/enumpath/internal/ratelimit"
)

const (
	pad = "  "

	// maxValueWidth bounds rendered values so large documents stay readable.
	maxValueWidth = 50
)

// Logger writes trace entries through slog.
type Logger struct {
	logger  *slog.Logger
	limiter *ratelimit.Limiter
	traceID string
	depth   int
}

// Option configures a Logger.
type Option func(*Logger)

// WithRateLimit caps the number of entries written per second. Entries over
// the budget are dropped and reported once by Finish.
func WithRateLimit(entriesPerSecond float64, burst int) Option {
	return func(l *Logger) {
		if entriesPerSecond > 0 {
			l.limiter = ratelimit.New(entriesPerSecond, burst)
		}
	}
}

// New returns a Logger writing to logger, or to a debug-level text handler on
// stderr when logger is nil.
func New(logger *slog.Logger, opts ...Option) *Logger {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	l := &Logger{logger: logger.With("component", "enumpath")}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Begin starts a new trace and returns its identifier.
func (l *Logger) Begin() string {
	if l == nil {
		return ""
	}
	l.traceID = uuid.NewString()
	l.depth = 0
	return l.traceID
}

// Finish reports entries dropped by the rate limit during the trace.
func (l *Logger) Finish() {
	if l == nil || l.limiter == nil {
		return
	}
	if dropped := l.limiter.Dropped(); dropped > 0 {
		l.logger.LogAttrs(context.Background(), slog.LevelWarn, "enumpath: diagnostics throttled",
			slog.String("trace_id", l.traceID),
			slog.Uint64("dropped", dropped),
		)
	}
}

// SetDepth sets the nesting level used to indent subsequent entries.
func (l *Logger) SetDepth(depth int) {
	if l == nil {
		return
	}
	l.depth = depth
}

// Log writes one entry. attrs is evaluated only when the entry is written.
func (l *Logger) Log(title string, attrs func() []slog.Attr) {
	if l == nil {
		return
	}
	if l.limiter != nil && !l.limiter.Allow() {
		return
	}

	all := []slog.Attr{
		slog.String("trace_id", l.traceID),
		slog.Int("depth", l.depth),
	}
	if attrs != nil {
		all = append(all, attrs()...)
	}

	l.logger.LogAttrs(context.Background(), slog.LevelDebug,
		strings.Repeat(pad, l.depth)+"enumpath: "+title, all...)
}

// Value renders v for a log entry, truncating long renderings.
func Value(key string, v any) slog.Attr {
	return slog.String(key, Render(v))
}

// Render formats v compactly, marking truncation with an ellipsis.
func Render(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		s = "nil"
	case string:
		s = fmt.Sprintf("%q", t)
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprintf("%v", t)
	}

	if utf8.RuneCountInString(s) <= maxValueWidth {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxValueWidth-3]) + "..."
}
