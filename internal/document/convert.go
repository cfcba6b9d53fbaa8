package document

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/jacoelho/enumpath/internal/number"
)

// Ordered converts BSON containers into their YAML equivalents, keeping key
// order, so a result can be marshalled by one encoder.
func Ordered(v any) any {
	switch t := v.(type) {
	case bson.D:
		out := make(yaml.MapSlice, 0, len(t))
		for _, e := range t {
			out = append(out, yaml.MapItem{Key: e.Key, Value: Ordered(e.Value)})
		}
		return out
	case bson.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Ordered(e)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Ordered(e)
		}
		return out
	case yaml.MapSlice:
		out := make(yaml.MapSlice, 0, len(t))
		for _, item := range t {
			out = append(out, yaml.MapItem{Key: item.Key, Value: Ordered(item.Value)})
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Ordered(e)
		}
		return out
	default:
		return v
	}
}

// Plain converts ordered containers into map[string]any and []any and every
// number into float64, the shape of a JSON value decoded by encoding/json.
func Plain(v any) any {
	switch t := v.(type) {
	case yaml.MapSlice:
		out := make(map[string]any, len(t))
		for _, item := range t {
			out[fmt.Sprint(item.Key)] = Plain(item.Value)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = Plain(e.Value)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Plain(e)
		}
		return out
	case bson.M:
		return Plain(map[string]any(t))
	case bson.A:
		return Plain([]any(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Plain(e)
		}
		return out
	default:
		if f, ok := number.ToFloat64(v); ok {
			return f
		}
		return v
	}
}
