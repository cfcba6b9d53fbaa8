package formatter

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownKind = errors.New("formatter: unknown output kind")

// Kind names an output rendering.
type Kind string

const (
	KindJSON  Kind = "json"
	KindYAML  Kind = "yaml"
	KindLines Kind = "lines"
)

// ParseKind validates an output kind. The empty string means KindJSON.
func ParseKind(name string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(name))); k {
	case "":
		return KindJSON, nil
	case KindJSON, KindYAML, KindLines:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

// Formatter renders a result list. Implementations decide the output device.
type Formatter interface {
	Format(results []any) error
}
