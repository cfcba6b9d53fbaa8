package operator

import (
	"log/slog"
	"regexp"

	"github.com/jacoelho/enumpath/internal/diagnostics"
	"github.com/jacoelho/enumpath/internal/resolver"
)

var subscriptRe = regexp.MustCompile(`^\((.*)\)$`)

// SubscriptExpression computes a key from a property of the node, optionally
// combined with an integer or string operand, and selects that member.
type SubscriptExpression struct{ base }

func detectSubscript(segment string) bool {
	return subscriptRe.MatchString(segment)
}

func (s SubscriptExpression) Apply(remaining []string, node any, resolved []string, log *diagnostics.Logger) []Branch {
	log.Log("Applying subscript expression", func() []slog.Attr {
		return []slog.Attr{slog.String("expression", s.segment), diagnostics.Value("to", node)}
	})

	m := subscriptRe.FindStringSubmatch(s.segment)
	if m == nil {
		return nil
	}
	result, ok := evaluateSubscript(parseExpression(m[1], arithmeticRe), node, log)
	if !ok {
		return nil
	}
	key, ok := stringify(result)
	if !ok {
		return nil
	}
	value, ok := resolver.Simple(key, node)
	if !ok {
		return nil
	}
	log.Log("Applying subscript", func() []slog.Attr {
		return []slog.Attr{diagnostics.Value("enum at subscript", value)}
	})
	return []Branch{{Remaining: remaining, Node: value, Resolved: extend(resolved, key)}}
}

func evaluateSubscript(e expression, node any, log *diagnostics.Logger) (any, bool) {
	value, ok := resolveProperty(e.property, node)
	if !ok {
		return nil, false
	}
	if !e.hasOperator() {
		log.Log("Simple subscript", func() []slog.Attr {
			return []slog.Attr{diagnostics.Value("subscript", value)}
		})
		return value, true
	}

	operand := castSubscriptOperand(e.operand)
	result, err := arithmetics[e.op](value, operand)
	if err != nil {
		log.Log("Subscript could not be evaluated", func() []slog.Attr {
			return []slog.Attr{slog.String("error", err.Error())}
		})
		return nil, false
	}
	log.Log("Evaluated subscript", func() []slog.Attr {
		return []slog.Attr{
			diagnostics.Value("value", value),
			slog.String("operator", e.op),
			diagnostics.Value("operand", operand),
			diagnostics.Value("result", result),
		}
	})
	return result, true
}
