package operator

import (
	"log/slog"
	"strings"

	"github.com/jacoelho/enumpath/internal/diagnostics"
)

// Union expands to each comma-separated name or index, in declaration order.
type Union struct{ base }

func detectUnion(segment string) bool {
	return strings.Contains(segment, ",") &&
		!strings.HasPrefix(segment, ",") &&
		!strings.HasSuffix(segment, ",")
}

func (u Union) Apply(remaining []string, node any, resolved []string, log *diagnostics.Logger) []Branch {
	parts := unionParts(u.segment)
	log.Log("Applying union parts", func() []slog.Attr {
		return []slog.Attr{slog.Any("parts", parts)}
	})

	branches := make([]Branch, 0, len(parts))
	for _, part := range parts {
		branches = append(branches, Branch{Remaining: prepend(part, remaining), Node: node, Resolved: resolved})
	}
	return branches
}

// unionParts splits on commas, trims each part and strips one leading and
// one trailing quote.
func unionParts(segment string) []string {
	raw := strings.Split(segment, ",")
	parts := make([]string, len(raw))
	for i, part := range raw {
		part = strings.TrimSpace(part)
		if part != "" && (part[0] == '\'' || part[0] == '"') {
			part = part[1:]
		}
		if part != "" && (part[len(part)-1] == '\'' || part[len(part)-1] == '"') {
			part = part[:len(part)-1]
		}
		parts[i] = part
	}
	return parts
}
