package operator

import (
	"log/slog"

	"github.com/jacoelho/enumpath/internal/diagnostics"
	"github.com/jacoelho/enumpath/internal/normalize"
	"github.com/jacoelho/enumpath/internal/resolver"
)

// RecursiveDescent applies the remaining segments to the node itself and
// then, with ".." re-prepended, to every traversable member.
type RecursiveDescent struct{ base }

func detectRecursiveDescent(segment string) bool {
	return segment == normalize.RecursiveDescent
}

func (r RecursiveDescent) Apply(remaining []string, node any, resolved []string, log *diagnostics.Logger) []Branch {
	log.Log("Applying remaining path recursively to enum", func() []slog.Attr {
		return []slog.Attr{slog.Any("remaining path", remaining)}
	})

	branches := []Branch{{Remaining: remaining, Node: node, Resolved: resolved}}
	deeper := prepend(normalize.RecursiveDescent, remaining)

	for _, key := range resolver.Keys(node) {
		value, ok := resolver.Simple(key, node)
		if !ok || !resolver.Traversable(value) {
			continue
		}
		log.Log("Applying remaining path recursively to key", func() []slog.Attr {
			return []slog.Attr{slog.String("key", key), slog.Any("remaining path", deeper)}
		})
		branches = append(branches, Branch{Remaining: deeper, Node: value, Resolved: extend(resolved, key)})
	}
	return branches
}
