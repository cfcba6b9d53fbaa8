// Package resolver looks up keys, indices and accessors on arbitrary Go
// values. A failed lookup is reported as absent, never as an error.
package resolver

import (
	"reflect"
	"regexp"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/goccy/go-yaml"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/jacoelho/enumpath/internal/number"
)

var (
	numericIndexRe = regexp.MustCompile(`^-?(?:0|[1-9][0-9]*)$`)

	errorType = reflect.TypeOf((*error)(nil)).Elem()
)

// Simple resolves key as an index, key or member of node. Integer-looking
// keys are first tried as indices, then key is tried as a string key, then
// as a Symbol key. A nil member counts as absent.
func Simple(key string, node any) (any, bool) {
	rv := indirect(node)
	if !rv.IsValid() {
		return nil, false
	}

	if numericIndexRe.MatchString(key) {
		if index, err := strconv.Atoi(key); err == nil {
			if v, ok := lookupIndex(rv, index); ok {
				return v, true
			}
		}
	}

	if v, ok := lookupString(rv, key); ok {
		return v, true
	}

	return lookupSymbol(rv, Symbol(key))
}

// Property invokes the exported zero-argument method called name on a
// record or opaque object, also trying name with its first letter
// upper-cased. Sequences, collections and strings answer the intrinsic
// accessors "length" and "size".
func Property(name string, node any) (any, bool) {
	if name == "" || node == nil {
		return nil, false
	}

	switch KindOf(node) {
	case KindRecord, KindOpaqueObject:
		return callAccessor(reflect.ValueOf(node), name)
	}

	if name != "length" && name != "size" {
		return nil, false
	}
	rv := indirect(node)
	switch {
	case !rv.IsValid():
		return nil, false
	case KindOf(node) == KindIndexedSequence || KindOf(node) == KindKeyedCollection:
		return rv.Len(), true
	case rv.Kind() == reflect.String:
		return utf8.RuneCountInString(rv.String()), true
	default:
		return nil, false
	}
}

// Resolve tries Simple first and falls back to Property.
func Resolve(key string, node any) (any, bool) {
	if v, ok := Simple(key, node); ok {
		return v, true
	}
	return Property(key, node)
}

func lookupIndex(rv reflect.Value, index int) (any, bool) {
	switch rv.Type() {
	case mapSliceType:
		for _, item := range rv.Interface().(yaml.MapSlice) {
			if k, ok := number.ToInt64(item.Key); ok && k == int64(index) {
				return present(reflect.ValueOf(item.Value))
			}
		}
		return nil, false
	case bsonDType:
		return nil, false
	}

	switch KindOf(rv.Interface()) {
	case KindIndexedSequence:
		n := rv.Len()
		if index < 0 {
			index += n
		}
		if index < 0 || index >= n {
			return nil, false
		}
		return present(rv.Index(index))
	case KindKeyedCollection:
		keyType := rv.Type().Key()
		switch keyType.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if overflows(keyType, index) {
				return nil, false
			}
			return present(rv.MapIndex(reflect.ValueOf(index).Convert(keyType)))
		case reflect.Interface:
			if !reflect.TypeOf(index).Implements(keyType) {
				return nil, false
			}
			return present(rv.MapIndex(reflect.ValueOf(index)))
		}
	case KindRecord:
		fields := recordFields(rv.Type())
		if index < 0 {
			index += len(fields)
		}
		if index < 0 || index >= len(fields) {
			return nil, false
		}
		return recordField(rv, fields[index])
	}
	return nil, false
}

func lookupString(rv reflect.Value, key string) (any, bool) {
	switch rv.Type() {
	case mapSliceType:
		for _, item := range rv.Interface().(yaml.MapSlice) {
			if k, ok := item.Key.(string); ok && k == key {
				return present(reflect.ValueOf(item.Value))
			}
		}
		return nil, false
	case bsonDType:
		for _, e := range rv.Interface().(bson.D) {
			if e.Key == key {
				return present(reflect.ValueOf(e.Value))
			}
		}
		return nil, false
	}

	switch rv.Kind() {
	case reflect.Map:
		keyType := rv.Type().Key()
		if keyType == symbolType {
			return nil, false
		}
		if keyType.Kind() == reflect.String {
			return present(rv.MapIndex(reflect.ValueOf(key).Convert(keyType)))
		}
		if keyType.Kind() == reflect.Interface && stringType.Implements(keyType) {
			return present(rv.MapIndex(reflect.ValueOf(key)))
		}
	case reflect.Struct:
		for _, f := range recordFields(rv.Type()) {
			if f.key == key || f.name == key {
				return recordField(rv, f)
			}
		}
	}
	return nil, false
}

func lookupSymbol(rv reflect.Value, key Symbol) (any, bool) {
	switch rv.Type() {
	case mapSliceType:
		for _, item := range rv.Interface().(yaml.MapSlice) {
			if k, ok := item.Key.(Symbol); ok && k == key {
				return present(reflect.ValueOf(item.Value))
			}
		}
		return nil, false
	case bsonDType:
		return nil, false
	}

	if rv.Kind() != reflect.Map {
		return nil, false
	}
	keyType := rv.Type().Key()
	if keyType == symbolType || (keyType.Kind() == reflect.Interface && symbolType.Implements(keyType)) {
		return present(rv.MapIndex(reflect.ValueOf(key)))
	}
	return nil, false
}

func recordField(rv reflect.Value, f field) (any, bool) {
	fv, err := rv.FieldByIndexErr(f.index)
	if err != nil {
		return nil, false
	}
	return present(fv)
}

func callAccessor(rv reflect.Value, name string) (result any, ok bool) {
	method := rv.MethodByName(name)
	if !method.IsValid() {
		if upper := capitalize(name); upper != name {
			method = rv.MethodByName(upper)
		}
	}
	if !method.IsValid() {
		return nil, false
	}

	mt := method.Type()
	takesNoArgs := mt.NumIn() == 0 || (mt.IsVariadic() && mt.NumIn() == 1)
	if !takesNoArgs {
		return nil, false
	}
	switch {
	case mt.NumOut() == 1:
	case mt.NumOut() == 2 && mt.Out(1) == errorType:
	default:
		return nil, false
	}

	defer func() {
		if recover() != nil {
			result, ok = nil, false
		}
	}()

	out := method.Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, false
	}
	return present(out[0])
}

// present converts a looked-up value, treating invalid and nil values as
// absent.
func present(v reflect.Value) (any, bool) {
	if !v.IsValid() || !v.CanInterface() {
		return nil, false
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil, false
		}
	}
	return v.Interface(), true
}

func capitalize(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// overflows reports whether index cannot be represented by the integer key
// type t.
func overflows(t reflect.Type, index int) bool {
	zero := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return index < 0 || zero.OverflowUint(uint64(index))
	default:
		return zero.OverflowInt(int64(index))
	}
}
