// Package rfc9535 evaluates queries with a standards-conforming JSONPath
// engine, for comparison against enumpath results.
package rfc9535

import (
	"errors"
	"fmt"

	"github.com/theory/jsonpath"

	"github.com/jacoelho/enumpath/internal/document"
)

var ErrInvalidPath = errors.New("rfc9535: invalid path")

// Select parses expr and selects from node. The node is first converted to
// plain JSON values, which is the data model the engine understands.
func Select(expr string, node any) ([]any, error) {
	path, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPath, expr, err)
	}
	return path.Select(document.Plain(node)), nil
}
