// Package document decodes input documents into nodes that keep the key
// order of the source, and converts them back for output.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrDecode        = errors.New("document: decode failed")
	ErrUnknownFormat = errors.New("document: unknown format")
)

// Format names an input encoding.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatBSON Format = "bson"
)

// ParseFormat validates a format name. The empty string means FormatAuto.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatJSON, FormatYAML, FormatBSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Read decodes all of r in the given format.
func Read(r io.Reader, format Format) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return Decode(data, format)
}

// Decode decodes data. JSON and YAML objects become yaml.MapSlice, BSON
// documents become bson.D, so keys keep their source order.
func Decode(data []byte, format Format) (any, error) {
	if format == FormatAuto || format == "" {
		format = Detect(data)
	}

	switch format {
	case FormatJSON, FormatYAML:
		return decodeYAML(data)
	case FormatBSON:
		return decodeBSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Detect guesses the format of data. A BSON document starts with its own
// little-endian length; anything else is treated as YAML, a superset of
// JSON.
func Detect(data []byte) Format {
	if looksLikeBSON(data) {
		return FormatBSON
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

func looksLikeBSON(data []byte) bool {
	if len(data) < 5 {
		return false
	}
	size := int(data[0]) | int(data[1])<<8 | int(data[2])<<16 | int(data[3])<<24
	return size == len(data) && data[len(data)-1] == 0x00
}

func decodeYAML(data []byte) (any, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return v, nil
}

func decodeBSON(data []byte) (any, error) {
	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return doc, nil
}
