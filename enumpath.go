package enumpath

import (
	"context"
	"log/slog"
	"slices"

	"github.com/jacoelho/enumpath/internal/cache"
	"github.com/jacoelho/enumpath/internal/diagnostics"
	"github.com/jacoelho/enumpath/internal/normalize"
	"github.com/jacoelho/enumpath/internal/resolver"
)

// Symbol is a map key kind distinct from string. Keys that are not found as
// strings are retried as Symbols, and ":name" filter operands become Symbols.
type Symbol = resolver.Symbol

// Path is a normalized path expression. A Path is immutable and may be
// applied concurrently.
type Path struct {
	raw      string
	segments []string
	opts     options
}

// New normalizes raw through the configured cache.
func New(raw string, opts ...Option) *Path {
	o := newOptions(opts)
	return &Path{
		raw: raw,
		segments: o.cache.GetOrSet(raw, func() []string {
			return normalize.Normalize(raw)
		}),
		opts: o,
	}
}

// NewFromSegments builds a Path from already tokenized segments.
func NewFromSegments(segments []string, opts ...Option) *Path {
	return &Path{
		segments: normalize.Segments(slices.Clone(segments)),
		opts:     newOptions(opts),
	}
}

// Segments returns a copy of the normalized segments.
func (p *Path) Segments() []string {
	return slices.Clone(p.segments)
}

// String returns the raw expression, or the canonical form of a path built
// from segments.
func (p *Path) String() string {
	if p.raw != "" || len(p.segments) == 0 {
		return p.raw
	}
	return canonicalPath(p.segments)
}

// Apply evaluates the path against node. Every call starts from empty
// results.
func (p *Path) Apply(node any) Results {
	results, _ := p.ApplyContext(context.Background(), node)
	return results
}

// ApplyContext is Apply with cancellation. On cancellation it returns the
// results collected so far together with ctx.Err().
func (p *Path) ApplyContext(ctx context.Context, node any) (Results, error) {
	log := p.logger()
	log.Begin()
	defer log.Finish()

	log.Log("Path normalized", func() []slog.Attr {
		attrs := []slog.Attr{
			slog.String("original", p.String()),
			slog.Any("normalized", p.segments),
		}
		if c, ok := p.opts.cache.(interface{ Stats() cache.Stats }); ok {
			stats := c.Stats()
			attrs = append(attrs, slog.Group("cache",
				slog.Int("entries", stats.Entries),
				slog.Uint64("hits", stats.Hits),
				slog.Uint64("misses", stats.Misses),
				slog.Uint64("evictions", stats.Evictions),
			))
		}
		return attrs
	})

	c := newCollector(p.opts.resultType, log)
	t := newTracer(c, log, p.opts.maxDepth)
	err := t.run(ctx, p.segments, node)
	return c.results, err
}

func (p *Path) logger() *diagnostics.Logger {
	if !p.opts.verbose {
		return nil
	}
	var opts []diagnostics.Option
	if p.opts.logRate > 0 {
		opts = append(opts, diagnostics.WithRateLimit(p.opts.logRate, p.opts.logBurst))
	}
	return diagnostics.New(p.opts.logger, opts...)
}

// Apply evaluates the raw path expression against node.
func Apply(path string, node any, opts ...Option) Results {
	return New(path, opts...).Apply(node)
}

// ApplySegments evaluates already tokenized segments against node.
func ApplySegments(segments []string, node any, opts ...Option) Results {
	return NewFromSegments(segments, opts...).Apply(node)
}

// Normalize splits a raw path expression into segments.
func Normalize(raw string) []string {
	return normalize.Normalize(raw)
}

// NormalizeSegments returns already tokenized segments unchanged.
func NormalizeSegments(segments []string) []string {
	return normalize.Segments(segments)
}
