package operator

import (
	"github.com/jacoelho/enumpath/internal/diagnostics"
)

// Child selects the index, key, member or property named by its segment.
type Child struct{ base }

func detectChild(segment string, node any) bool {
	_, ok := resolveMember(segment, node)
	return ok
}

func (c Child) Apply(remaining []string, node any, resolved []string, _ *diagnostics.Logger) []Branch {
	value, ok := resolveMember(c.segment, node)
	if !ok {
		return nil
	}
	return []Branch{{Remaining: remaining, Node: value, Resolved: extend(resolved, c.segment)}}
}
