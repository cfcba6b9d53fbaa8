package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/goccy/go-yaml"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{name: "", want: FormatAuto},
		{name: "JSON", want: FormatJSON},
		{name: " yaml ", want: FormatYAML},
		{name: "bson", want: FormatBSON},
		{name: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Fatalf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) error = %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestDecodeJSONKeepsKeyOrder(t *testing.T) {
	got, err := Decode([]byte(`{"z": 1, "a": {"y": true, "b": [1, "x"]}}`), FormatAuto)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	doc, ok := got.(yaml.MapSlice)
	if !ok {
		t.Fatalf("Decode() = %T, want yaml.MapSlice", got)
	}
	var keys []string
	for _, item := range doc {
		keys = append(keys, item.Key.(string))
	}
	if diff := cmp.Diff([]string{"z", "a"}, keys); diff != "" {
		t.Errorf("key order mismatch (-want +got):\n%s", diff)
	}
	if _, ok := doc[1].Value.(yaml.MapSlice); !ok {
		t.Errorf("nested object = %T, want yaml.MapSlice", doc[1].Value)
	}
}

func TestDecodeYAML(t *testing.T) {
	got, err := Read(strings.NewReader("name: enumpath\ntags:\n  - a\n  - b\n"), FormatYAML)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	want := map[string]any{"name": "enumpath", "tags": []any{"a", "b"}}
	if diff := cmp.Diff(want, Plain(got)); diff != "" {
		t.Errorf("Plain(Read()) mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeBSON(t *testing.T) {
	data, err := bson.Marshal(bson.D{{Key: "b", Value: int32(2)}, {Key: "a", Value: bson.A{"x"}}})
	if err != nil {
		t.Fatalf("bson.Marshal() error = %v", err)
	}
	if f := Detect(data); f != FormatBSON {
		t.Fatalf("Detect() = %q, want bson", f)
	}

	got, err := Decode(data, FormatAuto)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	doc, ok := got.(bson.D)
	if !ok {
		t.Fatalf("Decode() = %T, want bson.D", got)
	}
	if doc[0].Key != "b" || doc[1].Key != "a" {
		t.Errorf("key order = %v, want [b a]", doc)
	}

	want := yaml.MapSlice{{Key: "b", Value: int32(2)}, {Key: "a", Value: []any{"x"}}}
	if diff := cmp.Diff(want, Ordered(got)); diff != "" {
		t.Errorf("Ordered() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode([]byte("{"), FormatJSON); !errors.Is(err, ErrDecode) {
		t.Errorf("Decode(invalid json) error = %v, want ErrDecode", err)
	}
	if _, err := Decode([]byte{5, 0, 0, 0, 1}, FormatBSON); !errors.Is(err, ErrDecode) {
		t.Errorf("Decode(invalid bson) error = %v, want ErrDecode", err)
	}
	if _, err := Decode(nil, Format("xml")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Decode(xml) error = %v, want ErrUnknownFormat", err)
	}
}

type rating uint8

func TestPlainNumbers(t *testing.T) {
	got := Plain([]any{
		uint64(1), int64(-2), int32(3), 1.5, "s",
		int8(-4), int16(5), uint(6), uint8(7), uint16(8), uint32(9), float32(0.5),
		rating(10), true, nil,
	})
	want := []any{
		1.0, -2.0, 3.0, 1.5, "s",
		-4.0, 5.0, 6.0, 7.0, 8.0, 9.0, 0.5,
		10.0, true, nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Plain() mismatch (-want +got):\n%s", diff)
	}
}
