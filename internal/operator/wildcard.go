package operator

import (
	"log/slog"

	"github.com/jacoelho/enumpath/internal/diagnostics"
	"github.com/jacoelho/enumpath/internal/resolver"
)

const wildcard = "*"

// Wildcard expands to every key of the node. Each key is pushed back onto
// the remaining segments and narrowed by the next trace step.
type Wildcard struct{ base }

func detectWildcard(segment string) bool {
	return segment == wildcard
}

func (w Wildcard) Apply(remaining []string, node any, resolved []string, log *diagnostics.Logger) []Branch {
	keys := resolver.Keys(node)
	log.Log("Applying wildcard to keys", func() []slog.Attr {
		return []slog.Attr{slog.Any("keys", keys)}
	})

	branches := make([]Branch, 0, len(keys))
	for _, key := range keys {
		branches = append(branches, Branch{Remaining: prepend(key, remaining), Node: node, Resolved: resolved})
	}
	return branches
}
