// Package normalize tokenizes textual path expressions into segments.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// Root is the root marker of a path expression.
	Root = "$"

	// RecursiveDescent is the segment produced for ".." in a raw path.
	RecursiveDescent = ".."

	delimiter = ";"

	// placeholderMark brackets the index of an extracted expression. It
	// cannot appear in a path typed by a user.
	placeholderMark = "\x00"
)

var (
	// Filter `?(...)` and subscript `(...)` expressions wrapped in brackets or quotes.
	expressionRe = regexp.MustCompile(`[\['](\??\(.*?\))[\]']`)

	// Dot separators (optionally quote-wrapped) and bracket-opens.
	separatorRe = regexp.MustCompile(`'?\.'?|\['?`)

	// Two or three delimiters in a row mark a recursive descent.
	descentRe = regexp.MustCompile(`;;;|;;`)

	// A trailing delimiter, any bracket-close, or a trailing quote.
	trailingRe = regexp.MustCompile(`;$|'?\]|'$`)

	placeholderRe = regexp.MustCompile(placeholderMark + `([0-9]+)` + placeholderMark)

	rootRe = regexp.MustCompile(`^\$(;|$)`)
)

// Normalize splits raw into its ordered segments. The root marker is
// dropped, recursive descent becomes its own ".." segment and the text of
// filter and subscript expressions is passed through untouched.
func Normalize(raw string) []string {
	path, expressions := extractExpressions(raw)

	path = separatorRe.ReplaceAllString(path, delimiter)
	path = descentRe.ReplaceAllString(path, delimiter+RecursiveDescent+delimiter)
	path = trailingRe.ReplaceAllString(path, "")

	path = restoreExpressions(path, expressions)
	path = rootRe.ReplaceAllString(path, "")

	parts := strings.Split(path, delimiter)
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// Segments returns an already tokenized path unchanged.
func Segments(segments []string) []string {
	return segments
}

// extractExpressions replaces every bracketed expression with a numbered
// placeholder so the generic tokenizer cannot split it.
func extractExpressions(raw string) (string, []string) {
	var expressions []string
	path := expressionRe.ReplaceAllStringFunc(raw, func(match string) string {
		sub := expressionRe.FindStringSubmatch(match)
		expressions = append(expressions, sub[1])
		return "[" + placeholder(len(expressions)-1) + "]"
	})
	return path, expressions
}

func restoreExpressions(path string, expressions []string) string {
	if len(expressions) == 0 {
		return path
	}
	return placeholderRe.ReplaceAllStringFunc(path, func(match string) string {
		index, err := strconv.Atoi(strings.Trim(match, placeholderMark))
		if err != nil || index >= len(expressions) {
			return match
		}
		return expressions[index]
	})
}

func placeholder(index int) string {
	return placeholderMark + strconv.Itoa(index) + placeholderMark
}
