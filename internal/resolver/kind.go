package resolver

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/goccy/go-yaml"
	"go.mongodb.org/mongo-driver/bson"
)

// Symbol is a key kind distinct from plain strings. Maps keyed by Symbol
// are consulted after string-keyed lookup fails.
type Symbol string

// Kind classifies a node by the capabilities the engine can use.
type Kind uint8

const (
	KindScalar Kind = iota
	KindIndexedSequence
	KindKeyedCollection
	KindRecord
	KindOpaqueObject
)

func (k Kind) String() string {
	switch k {
	case KindIndexedSequence:
		return "IndexedSequence"
	case KindKeyedCollection:
		return "KeyedCollection"
	case KindRecord:
		return "Record"
	case KindOpaqueObject:
		return "OpaqueObject"
	default:
		return "Scalar"
	}
}

var (
	mapSliceType = reflect.TypeOf(yaml.MapSlice{})
	bsonDType    = reflect.TypeOf(bson.D{})
	symbolType   = reflect.TypeOf(Symbol(""))
	stringType   = reflect.TypeOf("")
)

// indirect follows pointers and interfaces. It returns an invalid Value for
// nil.
func indirect(node any) reflect.Value {
	rv := reflect.ValueOf(node)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

// KindOf classifies node.
func KindOf(node any) Kind {
	return kindOfValue(reflect.ValueOf(node))
}

func kindOfValue(orig reflect.Value) Kind {
	rv := orig
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return KindScalar
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return KindScalar
	}

	switch rv.Type() {
	case mapSliceType, bsonDType:
		return KindKeyedCollection
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			// raw bytes and fixed-size identifiers are terminal values
			return KindScalar
		}
		return KindIndexedSequence
	case reflect.Map:
		return KindKeyedCollection
	case reflect.Struct:
		return KindRecord
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return KindScalar
	}

	if orig.Type().NumMethod() > 0 {
		return KindOpaqueObject
	}
	return KindScalar
}

// Traversable reports whether recursive descent can enter node.
func Traversable(node any) bool {
	switch KindOf(node) {
	case KindIndexedSequence, KindKeyedCollection, KindRecord:
		return true
	default:
		return false
	}
}

// Keys enumerates the keys of node: the index range of sequences, the key
// set of collections and records, nothing otherwise. Go maps are listed in
// sorted order; ordered collections keep their own order.
func Keys(node any) []string {
	rv := indirect(node)
	if !rv.IsValid() {
		return nil
	}

	switch KindOf(node) {
	case KindIndexedSequence:
		keys := make([]string, rv.Len())
		for i := range keys {
			keys[i] = strconv.Itoa(i)
		}
		return keys
	case KindKeyedCollection:
		return collectionKeys(rv)
	case KindRecord:
		fields := recordFields(rv.Type())
		keys := make([]string, len(fields))
		for i, f := range fields {
			keys[i] = f.key
		}
		return keys
	default:
		return nil
	}
}

// Len returns the number of members of node, or the character count of a
// string. Everything else has length zero.
func Len(node any) int {
	rv := indirect(node)
	if !rv.IsValid() {
		return 0
	}

	switch KindOf(node) {
	case KindIndexedSequence, KindKeyedCollection:
		return rv.Len()
	case KindRecord:
		return len(recordFields(rv.Type()))
	}
	if rv.Kind() == reflect.String {
		return utf8.RuneCountInString(rv.String())
	}
	return 0
}

func collectionKeys(rv reflect.Value) []string {
	switch rv.Type() {
	case mapSliceType:
		items := rv.Interface().(yaml.MapSlice)
		keys := make([]string, len(items))
		for i, item := range items {
			keys[i] = keyString(item.Key)
		}
		return keys
	case bsonDType:
		doc := rv.Interface().(bson.D)
		keys := make([]string, len(doc))
		for i, e := range doc {
			keys[i] = e.Key
		}
		return keys
	}

	mapKeys := rv.MapKeys()
	slices.SortFunc(mapKeys, compareMapKeys)

	keys := make([]string, len(mapKeys))
	for i, k := range mapKeys {
		keys[i] = keyString(k.Interface())
	}
	return keys
}

func compareMapKeys(a, b reflect.Value) int {
	ai, aInt := intKey(a)
	bi, bInt := intKey(b)
	if aInt && bInt {
		return cmp.Compare(ai, bi)
	}
	return strings.Compare(keyString(a.Interface()), keyString(b.Interface()))
}

func intKey(v reflect.Value) (int64, bool) {
	for v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint()), true
	default:
		return 0, false
	}
}

func keyString(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case Symbol:
		return string(k)
	case fmt.Stringer:
		return k.String()
	default:
		return fmt.Sprint(k)
	}
}

type field struct {
	key   string // name exposed to paths
	name  string // Go field name
	index []int
}

var fieldCache sync.Map // reflect.Type -> []field

// recordFields lists the exported fields of a struct type, including
// promoted ones, keyed by their json tag name when present.
func recordFields(t reflect.Type) []field {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]field)
	}

	var fields []field
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		key := sf.Name
		if tag, ok := sf.Tag.Lookup("json"); ok {
			name, _, _ := strings.Cut(tag, ",")
			if name == "-" {
				continue
			}
			if name != "" {
				key = name
			}
		}
		fields = append(fields, field{key: key, name: sf.Name, index: sf.Index})
	}

	actual, _ := fieldCache.LoadOrStore(t, fields)
	return actual.([]field)
}
