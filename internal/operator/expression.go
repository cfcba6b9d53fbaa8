package operator

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/jacoelho/enumpath/internal/number"
	"github.com/jacoelho/enumpath/internal/resolver"
)

var (
	// ErrUnsupportedOperation reports an operator applied to operands it is
	// not defined for. Callers treat it as a failed filter or an absent
	// subscript result.
	ErrUnsupportedOperation = errors.New("operator: unsupported operation")

	// ErrInvalidRegex reports a regex literal that does not compile.
	ErrInvalidRegex = errors.New("operator: invalid regex literal")
)

var (
	// Order matters: longer tokens come before their prefixes.
	comparisonRe = regexp.MustCompile(`<=>|==|!=|>=|<=|=~|!~|>|<`)
	arithmeticRe = regexp.MustCompile(`\*\*|\+|-|\*|/|%`)
	logicalRe    = regexp.MustCompile(`&&|\|\|`)

	floatPrefixRe = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]+)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?`)
	intPrefixRe   = regexp.MustCompile(`^[+-]?[0-9]+`)
	literalRe     = regexp.MustCompile(`(?i)^(true|false|nil)$`)
)

type comparator func(value, operand any) (bool, error)

type arithmetic func(value, operand any) (any, error)

var comparators = map[string]comparator{
	"==":  func(v, o any) (bool, error) { return equal(v, o), nil },
	"!=":  func(v, o any) (bool, error) { return !equal(v, o), nil },
	">":   ordered(func(c int) bool { return c > 0 }),
	"<":   ordered(func(c int) bool { return c < 0 }),
	">=":  ordered(func(c int) bool { return c >= 0 }),
	"<=":  ordered(func(c int) bool { return c <= 0 }),
	"<=>": spaceship,
	"=~":  func(v, o any) (bool, error) { return match(v, o) },
	"!~": func(v, o any) (bool, error) {
		ok, err := match(v, o)
		return !ok, err
	},
}

var arithmetics = map[string]arithmetic{
	"+":  add,
	"-":  numeric(func(a, b int64) (int64, error) { return a - b, nil }, func(a, b float64) float64 { return a - b }),
	"*":  multiply,
	"/":  numeric(floorDiv, func(a, b float64) float64 { return a / b }),
	"%":  numeric(floorMod, func(a, b float64) float64 { return a - b*math.Floor(a/b) }),
	"**": power,
}

// expression is a parsed "property [op operand]" triple.
type expression struct {
	property string
	op       string
	operand  string
}

// parseExpression splits text at the first operator matched by re. The
// operand is the trimmed remainder; an empty operand drops the operator.
func parseExpression(text string, re *regexp.Regexp) expression {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return expression{property: strings.TrimSpace(text)}
	}
	e := expression{
		property: strings.TrimSpace(text[:loc[0]]),
		op:       text[loc[0]:loc[1]],
		operand:  strings.TrimSpace(text[loc[1]:]),
	}
	if e.operand == "" {
		e.op = ""
	}
	return e
}

// hasOperator reports whether the expression carries a complete operation.
func (e expression) hasOperator() bool {
	return e.op != ""
}

// resolveProperty resolves an "@"-relative property against node. "@"
// alone denotes the node itself.
func resolveProperty(property string, node any) (any, bool) {
	if property == "@" {
		return node, true
	}
	return resolveMember(strings.TrimPrefix(property, "@."), node)
}

// castFilterOperand converts a filter operand literal: quoted text to a
// string, ":name" to a Symbol, true/false/nil to their values, /re/flags to
// a compiled regexp, anything else to a float parsed from its numeric
// prefix.
func castFilterOperand(text string) (any, error) {
	if isQuoted(text) {
		return text[1 : len(text)-1], nil
	}
	if len(text) > 1 && text[0] == ':' {
		return resolver.Symbol(text[1:]), nil
	}
	if m := literalRe.FindStringSubmatch(text); m != nil {
		switch strings.ToLower(m[1]) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return nil, nil
		}
	}
	if re, ok, err := parseRegexLiteral(text); ok {
		return re, err
	}
	return parseFloatPrefix(text), nil
}

// castSubscriptOperand converts a subscript operand literal: quoted text
// or ":name" to a string, anything else to an integer parsed from its
// numeric prefix.
func castSubscriptOperand(text string) any {
	if isQuoted(text) {
		return text[1 : len(text)-1]
	}
	if len(text) > 1 && text[0] == ':' {
		return text[1:]
	}
	n, err := strconv.ParseInt(intPrefixRe.FindString(text), 10, 64)
	if err != nil {
		return int64(0)
	}
	return n
}

func isQuoted(text string) bool {
	if len(text) < 3 {
		return false
	}
	first, last := text[0], text[len(text)-1]
	return (first == '\'' || first == '"') && first == last
}

func parseFloatPrefix(text string) float64 {
	f, err := strconv.ParseFloat(floatPrefixRe.FindString(text), 64)
	if err != nil {
		return 0
	}
	return f
}

// parseRegexLiteral recognises /pattern/flags. ok is false when text is not
// shaped like a regex literal at all.
func parseRegexLiteral(text string) (re *regexp.Regexp, ok bool, err error) {
	if len(text) < 2 || text[0] != '/' {
		return nil, false, nil
	}
	lastSlash := strings.LastIndexByte(text[1:], '/')
	if lastSlash == -1 {
		return nil, false, nil
	}
	lastSlash++

	pattern := text[1:lastSlash]
	flags := text[lastSlash+1:]

	var goFlags string
	for _, flag := range flags {
		switch flag {
		case 'i', 'm', 's':
			if !strings.ContainsRune(goFlags, flag) {
				goFlags += string(flag)
			}
		case 'x':
			pattern = stripExtended(pattern)
		default:
			return nil, true, fmt.Errorf("%w: unsupported flag %q in %s", ErrInvalidRegex, flag, text)
		}
	}
	if goFlags != "" {
		pattern = "(?" + goFlags + ")" + pattern
	}

	re, err = regexp.Compile(pattern)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %s: %v", ErrInvalidRegex, text, err)
	}
	return re, true, nil
}

// stripExtended drops unescaped whitespace from an extended-mode pattern.
func stripExtended(pattern string) string {
	var b strings.Builder
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// truthy holds for every value except nil and false.
func truthy(value any) bool {
	if value == nil {
		return false
	}
	if b, ok := value.(bool); ok {
		return b
	}
	return true
}

// plainString returns the text of string-kinded values other than Symbol.
func plainString(value any) (string, bool) {
	if value == nil {
		return "", false
	}
	if _, ok := value.(resolver.Symbol); ok {
		return "", false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

func equal(value, operand any) bool {
	if a, ok := number.ToFloat64(value); ok {
		b, ok := number.ToFloat64(operand)
		return ok && a == b
	}
	if a, ok := plainString(value); ok {
		b, ok := plainString(operand)
		return ok && a == b
	}
	if a, ok := value.(resolver.Symbol); ok {
		b, ok := operand.(resolver.Symbol)
		return ok && a == b
	}
	if value == nil || operand == nil {
		return value == nil && operand == nil
	}
	if a, ok := value.(bool); ok {
		b, ok := operand.(bool)
		return ok && a == b
	}
	return reflect.DeepEqual(value, operand)
}

func compare(value, operand any) (int, error) {
	if a, ok := number.ToFloat64(value); ok {
		if b, ok := number.ToFloat64(operand); ok {
			switch {
			case a < b:
				return -1, nil
			case a > b:
				return 1, nil
			case a == b:
				return 0, nil
			}
		}
	}
	if a, ok := plainString(value); ok {
		if b, ok := plainString(operand); ok {
			return strings.Compare(a, b), nil
		}
	}
	if a, ok := value.(resolver.Symbol); ok {
		if b, ok := operand.(resolver.Symbol); ok {
			return strings.Compare(string(a), string(b)), nil
		}
	}
	return 0, fmt.Errorf("%w: cannot order %T against %T", ErrUnsupportedOperation, value, operand)
}

func ordered(accept func(int) bool) comparator {
	return func(value, operand any) (bool, error) {
		c, err := compare(value, operand)
		if err != nil {
			return false, err
		}
		return accept(c), nil
	}
}

// spaceship holds whenever the two values are mutually ordered.
func spaceship(value, operand any) (bool, error) {
	_, err := compare(value, operand)
	return err == nil, nil
}

// match requires a string value and a regexp operand. Any other value,
// nil included, is an unsupported operation, so the clause fails for both
// =~ and !~ instead of !~ passing on a missing member.
func match(value, operand any) (bool, error) {
	s, ok := plainString(value)
	if !ok {
		return false, fmt.Errorf("%w: cannot match %T", ErrUnsupportedOperation, value)
	}
	re, ok := operand.(*regexp.Regexp)
	if !ok {
		return false, fmt.Errorf("%w: %T is not a regex", ErrUnsupportedOperation, operand)
	}
	return re.MatchString(s), nil
}

// numeric lifts integer and float implementations into an arithmetic,
// using integer math only when both sides are integers.
func numeric(ints func(a, b int64) (int64, error), floats func(a, b float64) float64) arithmetic {
	return func(value, operand any) (any, error) {
		if a, ok := number.ToInt64(value); ok {
			if b, ok := number.ToInt64(operand); ok {
				return ints(a, b)
			}
		}
		a, ok := number.ToFloat64(value)
		if !ok {
			return nil, fmt.Errorf("%w: %T is not a number", ErrUnsupportedOperation, value)
		}
		b, ok := number.ToFloat64(operand)
		if !ok {
			return nil, fmt.Errorf("%w: %T is not a number", ErrUnsupportedOperation, operand)
		}
		return floats(a, b), nil
	}
}

func add(value, operand any) (any, error) {
	if a, ok := plainString(value); ok {
		b, ok := plainString(operand)
		if !ok {
			return nil, fmt.Errorf("%w: cannot append %T to a string", ErrUnsupportedOperation, operand)
		}
		return a + b, nil
	}
	return numeric(
		func(a, b int64) (int64, error) { return a + b, nil },
		func(a, b float64) float64 { return a + b },
	)(value, operand)
}

// maxRepeatBytes bounds the length of a repeated string.
const maxRepeatBytes = 1 << 20

func multiply(value, operand any) (any, error) {
	if s, ok := plainString(value); ok {
		n, ok := number.ToInt64(operand)
		if !ok || n < 0 || (n > 0 && int64(len(s)) > maxRepeatBytes/n) {
			return nil, fmt.Errorf("%w: cannot repeat a string by %v", ErrUnsupportedOperation, operand)
		}
		return strings.Repeat(s, int(n)), nil
	}
	return numeric(
		func(a, b int64) (int64, error) { return a * b, nil },
		func(a, b float64) float64 { return a * b },
	)(value, operand)
}

func power(value, operand any) (any, error) {
	a, aInt := number.ToInt64(value)
	b, bInt := number.ToInt64(operand)
	if aInt && bInt && b >= 0 {
		result := int64(1)
		for ; b > 0; b >>= 1 {
			if b&1 == 1 {
				result *= a
			}
			a *= a
		}
		return result, nil
	}

	x, ok := number.ToFloat64(value)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a number", ErrUnsupportedOperation, value)
	}
	y, ok := number.ToFloat64(operand)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a number", ErrUnsupportedOperation, operand)
	}
	return math.Pow(x, y), nil
}

func floorDiv(a, b int64) (int64, error) {
	if b == 0 {
		return 0, fmt.Errorf("%w: division by zero", ErrUnsupportedOperation)
	}
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q, nil
}

func floorMod(a, b int64) (int64, error) {
	if b == 0 {
		return 0, fmt.Errorf("%w: division by zero", ErrUnsupportedOperation)
	}
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m, nil
}

// stringify renders a subscript result as a segment key.
func stringify(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case resolver.Symbol:
		return string(v), true
	case bool:
		return strconv.FormatBool(v), true
	}
	if s, ok := number.Format(value); ok {
		return s, true
	}
	if s, ok := plainString(value); ok {
		return s, true
	}
	return fmt.Sprint(value), true
}
