package stdout

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/enumpath/internal/document"
	"github.com/jacoelho/enumpath/internal/formatter"
)

// Formatter writes results to a writer, stdout by default.
type Formatter struct {
	writer io.Writer
	kind   formatter.Kind
}

// New creates a formatter of the given kind that outputs to stdout.
func New(kind formatter.Kind) formatter.Formatter {
	return NewWithWriter(kind, os.Stdout)
}

// NewWithWriter creates a formatter with a custom writer.
func NewWithWriter(kind formatter.Kind, writer io.Writer) formatter.Formatter {
	return &Formatter{writer: writer, kind: kind}
}

// Format renders results: json as one array, yaml as one sequence, lines as
// one entry per line with strings printed raw.
func (f *Formatter) Format(results []any) error {
	ordered := make([]any, len(results))
	for i, r := range results {
		ordered[i] = document.Ordered(r)
	}

	switch f.kind {
	case formatter.KindLines:
		return f.formatLines(ordered)
	case formatter.KindYAML:
		return f.write(ordered)
	case formatter.KindJSON, "":
		return f.write(ordered, yaml.JSON())
	default:
		return fmt.Errorf("%w: %q", formatter.ErrUnknownKind, f.kind)
	}
}

func (f *Formatter) formatLines(results []any) error {
	for _, r := range results {
		if s, ok := r.(string); ok {
			if _, err := fmt.Fprintln(f.writer, s); err != nil {
				return err
			}
			continue
		}
		if err := f.write(r, yaml.JSON()); err != nil {
			return err
		}
	}
	return nil
}

func (f *Formatter) write(v any, opts ...yaml.EncodeOption) error {
	out, err := yaml.MarshalWithOptions(v, opts...)
	if err != nil {
		return fmt.Errorf("formatter: encode results: %w", err)
	}
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	_, err = f.writer.Write(out)
	return err
}
