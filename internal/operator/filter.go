package operator

import (
	"log/slog"
	"regexp"

	"github.com/jacoelho/enumpath/internal/diagnostics"
	"github.com/jacoelho/enumpath/internal/resolver"
)

var filterRe = regexp.MustCompile(`^\?\((.*)\)$`)

// FilterExpression keeps the members of the node for which the boolean
// expression holds. Expressions joined by && or || are all evaluated and
// folded left to right.
type FilterExpression struct{ base }

func detectFilter(segment string) bool {
	return filterRe.MatchString(segment)
}

func (f FilterExpression) Apply(remaining []string, node any, resolved []string, log *diagnostics.Logger) []Branch {
	log.Log("Evaluating filter expression", func() []slog.Attr {
		return []slog.Attr{slog.String("expression", f.segment), diagnostics.Value("to", node)}
	})

	m := filterRe.FindStringSubmatch(f.segment)
	if m == nil {
		return nil
	}
	clauses := splitLogical(m[1])

	var branches []Branch
	for _, key := range resolver.Keys(node) {
		value, _ := resolver.Simple(key, node)
		log.Log("Applying filter to key", func() []slog.Attr {
			return []slog.Attr{slog.String("key", key), diagnostics.Value("enum", value)}
		})
		if !passes(clauses, value, log) {
			continue
		}
		log.Log("Applying filtered key", func() []slog.Attr {
			return []slog.Attr{slog.String("filtered key", key), diagnostics.Value("filtered enum", value)}
		})
		branches = append(branches, Branch{Remaining: remaining, Node: value, Resolved: extend(resolved, key)})
	}
	return branches
}

// clause is one comparison and the logical operator joining it to the
// running result. The first clause has no logical operator.
type clause struct {
	logical string
	expr    expression
}

func splitLogical(text string) []clause {
	var (
		clauses []clause
		logical string
		start   int
	)
	for _, loc := range logicalRe.FindAllStringIndex(text, -1) {
		clauses = append(clauses, clause{logical: logical, expr: parseExpression(text[start:loc[0]], comparisonRe)})
		logical = text[loc[0]:loc[1]]
		start = loc[1]
	}
	return append(clauses, clause{logical: logical, expr: parseExpression(text[start:], comparisonRe)})
}

func passes(clauses []clause, value any, log *diagnostics.Logger) bool {
	var running bool
	for i, c := range clauses {
		result := evaluateClause(c.expr, value, log)
		switch {
		case i == 0:
			running = result
		case c.logical == "&&":
			running = running && result
		case c.logical == "||":
			running = running || result
		}
	}
	return running
}

func evaluateClause(e expression, node any, log *diagnostics.Logger) bool {
	value, _ := resolveProperty(e.property, node)
	result := test(e, value)
	log.Log("Evaluated filter", func() []slog.Attr {
		attrs := []slog.Attr{diagnostics.Value(e.property, value)}
		if e.hasOperator() {
			attrs = append(attrs, slog.String("operator", e.op), slog.String("operand", e.operand))
		}
		return append(attrs, slog.Bool("result", result))
	})
	return result
}

// test compares value against the operand, or checks its truthiness when
// the expression has no operator. Unsupported comparisons fail.
func test(e expression, value any) bool {
	if !e.hasOperator() {
		return truthy(value)
	}
	operand, err := castFilterOperand(e.operand)
	if err != nil {
		return false
	}
	fn, ok := comparators[e.op]
	if !ok {
		return false
	}
	result, err := fn(value, operand)
	if err != nil {
		return false
	}
	return result
}
