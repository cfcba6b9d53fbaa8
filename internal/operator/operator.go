// Package operator implements the closed set of path-segment operators and
// the detection chain that picks exactly one of them for a segment.
package operator

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jacoelho/enumpath/internal/diagnostics"
	"github.com/jacoelho/enumpath/internal/resolver"
)

// ErrNotImplemented signals an operator outside the closed set. It is only
// reachable through an incorrect extension of this package.
var ErrNotImplemented = errors.New("operator: not implemented")

// Kind tags an operator variant.
type Kind uint8

const (
	KindChild Kind = iota + 1
	KindWildcard
	KindRecursiveDescent
	KindUnion
	KindSubscriptExpression
	KindFilterExpression
	KindSlice
)

func (k Kind) String() string {
	switch k {
	case KindChild:
		return "Child"
	case KindWildcard:
		return "Wildcard"
	case KindRecursiveDescent:
		return "Recursive Descent"
	case KindUnion:
		return "Union"
	case KindSubscriptExpression:
		return "Subscript Expression"
	case KindFilterExpression:
		return "Filter Expression"
	case KindSlice:
		return "Slice"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Branch is one continuation produced by applying an operator: the segments
// still to apply, the node to apply them to and the path taken so far.
type Branch struct {
	Remaining []string
	Node      any
	Resolved  []string
}

// Operator applies one normalized segment to a node.
type Operator interface {
	Kind() Kind
	Segment() string
	// Apply returns the branches to trace next, in emission order.
	Apply(remaining []string, node any, resolved []string, log *diagnostics.Logger) []Branch
	sealed()
}

type base struct {
	kind    Kind
	segment string
}

func (b base) Kind() Kind { return b.kind }
func (b base) Segment() string { return b.segment }
func (b base) String() string { return b.segment }
func (base) sealed() {}

// Apply on the base is the abstract contract; every variant overrides it.
func (b base) Apply([]string, any, []string, *diagnostics.Logger) []Branch {
	panic(fmt.Errorf("%w: %s operator has no apply", ErrNotImplemented, b.kind))
}

type detector struct {
	kind   Kind
	detect func(segment string, node any) bool
}

// detectors is the fixed precedence list; the first match wins.
var detectors = []detector{
	{kind: KindChild, detect: detectChild},
	{kind: KindWildcard, detect: func(segment string, _ any) bool { return detectWildcard(segment) }},
	{kind: KindRecursiveDescent, detect: func(segment string, _ any) bool { return detectRecursiveDescent(segment) }},
	{kind: KindUnion, detect: func(segment string, _ any) bool { return detectUnion(segment) }},
	{kind: KindSubscriptExpression, detect: func(segment string, _ any) bool { return detectSubscript(segment) }},
	{kind: KindFilterExpression, detect: func(segment string, _ any) bool { return detectFilter(segment) }},
	{kind: KindSlice, detect: func(segment string, _ any) bool { return detectSlice(segment) }},
}

// Detect returns a fresh operator for segment, or nil when no variant
// applies to it against node.
func Detect(segment string, node any, log *diagnostics.Logger) Operator {
	for _, d := range detectors {
		if d.detect(segment, node) {
			log.Log(d.kind.String()+" operator detected", nil)
			return New(d.kind, segment)
		}
	}
	log.Log("Not a valid operator for enum", func() []slog.Attr {
		return []slog.Attr{slog.String("operator", segment), diagnostics.Value("enum", node)}
	})
	return nil
}

// New builds the operator of the given kind for segment. It panics with
// ErrNotImplemented for a kind outside the closed set.
func New(kind Kind, segment string) Operator {
	b := base{kind: kind, segment: segment}
	switch kind {
	case KindChild:
		return Child{b}
	case KindWildcard:
		return Wildcard{b}
	case KindRecursiveDescent:
		return RecursiveDescent{b}
	case KindUnion:
		return Union{b}
	case KindSubscriptExpression:
		return SubscriptExpression{b}
	case KindFilterExpression:
		return FilterExpression{b}
	case KindSlice:
		return Slice{b}
	default:
		panic(fmt.Errorf("%w: %s", ErrNotImplemented, kind))
	}
}

// extend returns a copy of resolved with key appended, so sibling branches
// never share backing storage.
func extend(resolved []string, key string) []string {
	out := make([]string, len(resolved), len(resolved)+1)
	copy(out, resolved)
	return append(out, key)
}

// prepend returns a new slice holding segment followed by remaining.
func prepend(segment string, remaining []string) []string {
	out := make([]string, 0, len(remaining)+1)
	out = append(out, segment)
	return append(out, remaining...)
}

// resolveMember looks name up with the simple resolver, then as a property.
func resolveMember(name string, node any) (any, bool) {
	return resolver.Resolve(name, node)
}
