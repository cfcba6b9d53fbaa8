package enumpath

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/jacoelho/enumpath/internal/diagnostics"
	"github.com/jacoelho/enumpath/internal/normalize"
)

// Results holds matches in discovery order. In path mode every element is
// a string.
type Results []any

// Apply evaluates path against the results themselves, treated as a
// sequence, so queries can be chained.
func (r Results) Apply(path string, opts ...Option) Results {
	return Apply(path, r, opts...)
}

// Strings returns the string elements, which in path mode is all of them.
func (r Results) Strings() []string {
	out := make([]string, 0, len(r))
	for _, v := range r {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

var unquotedSegmentRe = regexp.MustCompile(`^[0-9*]+$`)

type collector struct {
	resultType ResultType
	results    Results
	log        *diagnostics.Logger
}

func newCollector(resultType ResultType, log *diagnostics.Logger) *collector {
	return &collector{resultType: resultType, results: Results{}, log: log}
}

func (c *collector) store(resolved []string, node any) {
	var result any = node
	if c.resultType == ResultPath {
		result = canonicalPath(resolved)
	}
	c.log.Log("New Result", func() []slog.Attr {
		return []slog.Attr{diagnostics.Value("result", result)}
	})
	c.results = append(c.results, result)
}

// canonicalPath renders resolved segments as $['a'][0]: numeric and
// wildcard-shaped segments unquoted, all others single-quoted.
func canonicalPath(resolved []string) string {
	var b strings.Builder
	b.WriteString(normalize.Root)
	for _, segment := range resolved {
		b.WriteByte('[')
		if unquotedSegmentRe.MatchString(segment) {
			b.WriteString(segment)
		} else {
			b.WriteByte('\'')
			b.WriteString(segment)
			b.WriteByte('\'')
		}
		b.WriteByte(']')
	}
	return b.String()
}
