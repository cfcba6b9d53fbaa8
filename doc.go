// Package enumpath evaluates JSONPath-style path expressions against
// arbitrary nested Go values: slices and arrays, maps, ordered documents
// (yaml.MapSlice, bson.D), structs and values exposing zero-argument
// accessor methods.
//
// A path is normalized into segments, and each segment is matched to one
// operator: child, wildcard (*), recursive descent (..), union (a,b),
// slice (start:end:step), filter expression (?(@.price < 10)) or subscript
// expression ((@.length-1)). Application is depth-first and returns either
// the matched values or their canonical paths:
//
//	enumpath.Apply("$.store.book[0].title", store)
//	// [Sayings of the Century]
//	enumpath.Apply("$.store.book[0].title", store, enumpath.WithResultType(enumpath.ResultPath))
//	// [$['store']['book'][0]['title']]
//
// A path that matches nothing yields an empty Results rather than an error.
package enumpath
