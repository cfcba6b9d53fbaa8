package enumpath

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/goccy/go-yaml"
	"go.mongodb.org/mongo-driver/bson"
)

var (
	book1 = map[string]any{"category": "reference", "author": "Nigel Rees", "title": "Sayings of the Century", "price": 8.95}
	book2 = map[string]any{"category": "fiction", "author": "Evelyn Waugh", "title": "Sword of Honour", "price": 12.99}
	book3 = map[string]any{"category": "fiction", "author": "Herman Melville", "title": "Moby Dick", "isbn": "0-553-21311-3", "price": 8.99}
	book4 = map[string]any{"category": "fiction", "author": "J. R. R. Tolkien", "title": "The Lord of the Rings", "isbn": "0-395-19395-8", "price": 22.99}

	books   = []any{book1, book2, book3, book4}
	bicycle = map[string]any{"color": "red", "price": 19.95}
	store   = map[string]any{"store": map[string]any{"book": books, "bicycle": bicycle}}
)

func TestStoreExamples(t *testing.T) {
	tests := []struct {
		path       string
		wantValues Results
		wantPaths  []string
	}{
		{
			path:       "$.store.book[0].title",
			wantValues: Results{"Sayings of the Century"},
			wantPaths:  []string{"$['store']['book'][0]['title']"},
		},
		{
			path:       "$['store']['book'][0]['title']",
			wantValues: Results{"Sayings of the Century"},
			wantPaths:  []string{"$['store']['book'][0]['title']"},
		},
		{
			path:       "$.store.book[*].author",
			wantValues: Results{"Nigel Rees", "Evelyn Waugh", "Herman Melville", "J. R. R. Tolkien"},
			wantPaths: []string{
				"$['store']['book'][0]['author']",
				"$['store']['book'][1]['author']",
				"$['store']['book'][2]['author']",
				"$['store']['book'][3]['author']",
			},
		},
		{
			path:       "$..author",
			wantValues: Results{"Nigel Rees", "Evelyn Waugh", "Herman Melville", "J. R. R. Tolkien"},
			wantPaths: []string{
				"$['store']['book'][0]['author']",
				"$['store']['book'][1]['author']",
				"$['store']['book'][2]['author']",
				"$['store']['book'][3]['author']",
			},
		},
		{
			path:       "$.store.*",
			wantValues: Results{bicycle, books},
			wantPaths:  []string{"$['store']['bicycle']", "$['store']['book']"},
		},
		{
			path:       "$.store..price",
			wantValues: Results{19.95, 8.95, 12.99, 8.99, 22.99},
			wantPaths: []string{
				"$['store']['bicycle']['price']",
				"$['store']['book'][0]['price']",
				"$['store']['book'][1]['price']",
				"$['store']['book'][2]['price']",
				"$['store']['book'][3]['price']",
			},
		},
		{
			path:       "$..book[2]",
			wantValues: Results{book3},
			wantPaths:  []string{"$['store']['book'][2]"},
		},
		{
			path:       "$..book[(@.length-1)]",
			wantValues: Results{book4},
			wantPaths:  []string{"$['store']['book'][3]"},
		},
		{
			path:       "$..book[-1:]",
			wantValues: Results{book4},
			wantPaths:  []string{"$['store']['book'][3]"},
		},
		{
			path:       "$..book[0,1]",
			wantValues: Results{book1, book2},
			wantPaths:  []string{"$['store']['book'][0]", "$['store']['book'][1]"},
		},
		{
			path:       "$..book[:2]",
			wantValues: Results{book1, book2},
			wantPaths:  []string{"$['store']['book'][0]", "$['store']['book'][1]"},
		},
		{
			path:       "$..book[?(@.isbn)]",
			wantValues: Results{book3, book4},
			wantPaths:  []string{"$['store']['book'][2]", "$['store']['book'][3]"},
		},
		{
			path:       "$..book[?(@.price < 10)]",
			wantValues: Results{book1, book3},
			wantPaths:  []string{"$['store']['book'][0]", "$['store']['book'][2]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := Apply(tt.path, store)
			if diff := cmp.Diff(tt.wantValues, got); diff != "" {
				t.Errorf("Apply() values mismatch (-want +got):\n%s", diff)
			}

			paths := Apply(tt.path, store, WithResultType(ResultPath)).Strings()
			if diff := cmp.Diff(tt.wantPaths, paths); diff != "" {
				t.Errorf("Apply() paths mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecursiveWildcard(t *testing.T) {
	want := []string{
		"$['store']",
		"$['store']['bicycle']",
		"$['store']['bicycle']['color']",
		"$['store']['bicycle']['price']",
		"$['store']['book']",
	}
	for i, b := range books {
		prefix := "$['store']['book'][" + string(rune('0'+i)) + "]"
		want = append(want, prefix)
		for key := range b.(map[string]any) {
			want = append(want, prefix+"['"+key+"']")
		}
	}

	got := Apply("$..*", store, WithResultType(ResultPath)).Strings()
	if diff := cmp.Diff(want, got, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("Apply($..*) mismatch (-want +got):\n%s", diff)
	}
	if len(got) != 27 {
		t.Errorf("Apply($..*) returned %d paths, want 27", len(got))
	}
}

func TestScenarios(t *testing.T) {
	ordered := yaml.MapSlice{
		{Key: "store", Value: yaml.MapSlice{
			{Key: "book", Value: []any{yaml.MapSlice{{Key: "price", Value: 1}}}},
			{Key: "bicycle", Value: yaml.MapSlice{{Key: "price", Value: 2}}},
		}},
	}

	tests := []struct {
		name   string
		path   string
		node   any
		result ResultType
		want   Results
	}{
		{
			name: "nested index",
			path: "$.a.b[1]",
			node: map[string]any{"a": map[string]any{"b": []any{10, 20}}},
			want: Results{20},
		},
		{
			name:   "nested index path",
			path:   "$.a.b[1]",
			node:   map[string]any{"a": map[string]any{"b": []any{10, 20}}},
			result: ResultPath,
			want:   Results{"$['a']['b'][1]"},
		},
		{
			name: "wildcard in key order",
			path: "$.a.*",
			node: map[string]any{"a": map[string]any{"y": 2, "x": 1}},
			want: Results{1, 2},
		},
		{
			name: "descent keeps document order",
			path: "$..price",
			node: ordered,
			want: Results{1, 2},
		},
		{
			name: "descent over go maps is sorted",
			path: "$..price",
			node: map[string]any{"store": map[string]any{
				"book":    []any{map[string]any{"price": 1}},
				"bicycle": map[string]any{"price": 2},
			}},
			want: Results{2, 1},
		},
		{
			name: "negative slice start",
			path: "$[-1:]",
			node: []any{"a", "b", "c", "d"},
			want: Results{"d"},
		},
		{
			name: "slice step",
			path: "$[::2]",
			node: []any{"a", "b", "c", "d"},
			want: Results{"a", "c"},
		},
		{
			name: "filter on missing member",
			path: "$[?(@.missing > 5)]",
			node: []any{map[string]any{"present": 10}},
			want: Results{},
		},
		{
			name: "union in declaration order",
			path: "$[c,a,b]",
			node: map[string]any{"a": 1, "b": 2, "c": 3},
			want: Results{3, 1, 2},
		},
		{
			name: "no match",
			path: "$.nothing.here",
			node: map[string]any{"a": 1},
			want: Results{},
		},
		{
			name: "root",
			path: "$",
			node: map[string]any{"a": 1},
			want: Results{map[string]any{"a": 1}},
		},
		{
			name: "symbol keys",
			path: "$.name",
			node: map[Symbol]any{"name": "enumpath"},
			want: Results{"enumpath"},
		},
		{
			name: "symbol operand",
			path: "$[?(@.kind == :book)].id",
			node: []any{map[string]any{"kind": Symbol("book"), "id": 1}, map[string]any{"kind": "book", "id": 2}},
			want: Results{1},
		},
		{
			name: "bson document",
			path: "$.user.tags[1]",
			node: bson.D{{Key: "user", Value: bson.D{{Key: "tags", Value: bson.A{"a", "b"}}}}},
			want: Results{"b"},
		},
		{
			name: "string length",
			path: "$.name.length",
			node: map[string]any{"name": "héllo"},
			want: Results{5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.path, tt.node, WithResultType(tt.result))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply(%q) mismatch (-want +got):\n%s", tt.path, diff)
			}
		})
	}
}

type author struct {
	Name string `json:"name"`
	Born int    `json:"born"`
}

type novel struct {
	Title   string   `json:"title"`
	Price   float64  `json:"price"`
	Authors []author `json:"authors"`
	Secret  string   `json:"-"`
	notes   string
}

func (n novel) Summary() string { return n.Title + " (" + n.Authors[0].Name + ")" }

func TestRecords(t *testing.T) {
	shelf := struct {
		Novels []novel
	}{
		Novels: []novel{
			{Title: "Moby Dick", Price: 8.99, Authors: []author{{Name: "Herman Melville", Born: 1819}}, Secret: "x", notes: "first edition"},
			{Title: "Sword of Honour", Price: 12.99, Authors: []author{{Name: "Evelyn Waugh", Born: 1903}}},
		},
	}

	tests := []struct {
		path string
		want Results
	}{
		{path: "$.Novels[*].title", want: Results{"Moby Dick", "Sword of Honour"}},
		{path: "$.Novels[?(@.price < 10)].authors[0].name", want: Results{"Herman Melville"}},
		{path: "$.Novels[1].summary", want: Results{"Sword of Honour (Evelyn Waugh)"}},
		{path: "$..born", want: Results{1819, 1903}},
		{path: "$.Novels[0].Secret", want: Results{}},
		{path: "$.Novels[0].notes", want: Results{}},
		{path: "$.Novels[0].*", want: Results{"Moby Dick", 8.99, []author{{Name: "Herman Melville", Born: 1819}}}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := Apply(tt.path, shelf)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply(%q) mismatch (-want +got):\n%s", tt.path, diff)
			}
		})
	}
}

func TestOpaqueObject(t *testing.T) {
	node := map[string]any{"released": time.Date(1851, time.October, 18, 0, 0, 0, 0, time.UTC)}
	got := Apply("$.released.year", node)
	if diff := cmp.Diff(Results{1851}, got); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestResultsApplyChains(t *testing.T) {
	got := Apply("$..book[*]", store).Apply("$[?(@.price > 20)].title")
	if diff := cmp.Diff(Results{"The Lord of the Rings"}, got); diff != "" {
		t.Errorf("chained Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestPathResultsReset(t *testing.T) {
	p := New("$.a")
	first := p.Apply(map[string]any{"a": 1})
	second := p.Apply(map[string]any{"a": 2})

	if diff := cmp.Diff(Results{1}, first); diff != "" {
		t.Errorf("first Apply() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Results{2}, second); diff != "" {
		t.Errorf("second Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestCacheReusesSegments(t *testing.T) {
	c := NewCache(0)
	p1 := New("$.store.book[0]", WithCache(c))
	p2 := New("$.store.book[0]", WithCache(c))

	if &p1.segments[0] != &p2.segments[0] {
		t.Error("equal raw paths did not share the cached segments")
	}
	if diff := cmp.Diff([]string{"store", "book", "0"}, p1.Segments()); diff != "" {
		t.Errorf("Segments() mismatch (-want +got):\n%s", diff)
	}

	p1.Segments()[0] = "mutated"
	if p2.segments[0] != "store" {
		t.Error("Segments() exposed the cached slice")
	}
}

func TestCacheEviction(t *testing.T) {
	c := NewCache(1)
	p1 := New("$.a", WithCache(c))
	New("$.b", WithCache(c))
	p3 := New("$.a", WithCache(c))

	if &p1.segments[0] == &p3.segments[0] {
		t.Error("evicted entry was reused")
	}
}

func TestResetCache(t *testing.T) {
	p1 := New("$.reset.me")
	ResetCache()
	p2 := New("$.reset.me")
	if &p1.segments[0] == &p2.segments[0] {
		t.Error("ResetCache() kept the cached segments")
	}
}

func TestApplySegments(t *testing.T) {
	got := ApplySegments([]string{"a", "..", "b"}, map[string]any{"a": map[string]any{"x": map[string]any{"b": 1}}}, WithResultType(ResultPath))
	if diff := cmp.Diff(Results{"$['a']['x']['b']"}, got); diff != "" {
		t.Errorf("ApplySegments() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, NormalizeSegments([]string{"a", "b"})); diff != "" {
		t.Errorf("NormalizeSegments() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, raw := range []string{"$.store.book[*].author", "$..book[?(@.price < 10)]", "$['a']['b'][0]", "$..*"} {
		once := Normalize(raw)
		if diff := cmp.Diff(once, NormalizeSegments(once)); diff != "" {
			t.Errorf("normalizing %q twice changed it (-once +twice):\n%s", raw, diff)
		}
	}
}

func TestApplyContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := New("$..price").ApplyContext(ctx, store)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ApplyContext() error = %v, want context.Canceled", err)
	}
	if len(got) != 0 {
		t.Errorf("ApplyContext() = %v, want no results", got)
	}
}

func TestMaxDepthStopsCycles(t *testing.T) {
	cyclic := map[string]any{"price": 1}
	cyclic["self"] = cyclic

	got := Apply("$..price", cyclic, WithMaxDepth(4))
	if len(got) == 0 {
		t.Fatal("Apply() found nothing, want the prices reachable within the depth bound")
	}
	for _, v := range got {
		if v != 1 {
			t.Errorf("Apply() result = %v, want 1", v)
		}
	}
}

func TestVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	quiet := Apply("$..book[?(@.price < 10)].title", store)
	loud := Apply("$..book[?(@.price < 10)].title", store, WithVerbose(true), WithLogger(logger))

	if diff := cmp.Diff(quiet, loud); diff != "" {
		t.Errorf("verbose changed results (-quiet +verbose):\n%s", diff)
	}

	out := buf.String()
	for _, title := range []string{
		"Path normalized",
		"Recursive Descent operator detected",
		"Filter Expression operator detected",
		"Evaluated filter",
		"Storing",
		"New Result",
		"trace_id=",
		"cache.hits=",
		"cache.misses=",
		"pending=",
	} {
		if !strings.Contains(out, title) {
			t.Errorf("trace missing %q", title)
		}
	}
}

func TestHugeSliceAndRepeatOperands(t *testing.T) {
	seq := []any{"a", "b", "c", "d"}

	tests := []struct {
		name string
		path string
		node any
		want Results
	}{
		{name: "max int step", path: "$[1:4:9223372036854775807]", node: seq, want: Results{"b"}},
		{name: "overflowing start", path: "$[99999999999999999999:]", node: seq, want: Results{}},
		{name: "overflowing negative start", path: "$[-99999999999999999999:2]", node: seq, want: Results{"a", "b"}},
		{name: "overflowing step", path: "$[::99999999999999999999]", node: seq, want: Results{"a"}},
		{name: "string repeat overflow", path: "$[(@.name*9223372036854775807)]", node: map[string]any{"name": "ab"}, want: Results{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.path, tt.node)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Apply(%q) mismatch (-want +got):\n%s", tt.path, diff)
			}
		})
	}
}

func TestVerboseDisabledWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	Apply("$..price", store, WithLogger(logger))
	if buf.Len() != 0 {
		t.Errorf("trace written without verbose:\n%s", buf.String())
	}
}

func TestVerboseRateLimited(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	Apply("$..*", store, WithVerbose(true), WithLogger(logger), WithLogRate(0.001, 3))
	if !strings.Contains(buf.String(), "dropped=") {
		t.Errorf("throttled trace did not report dropped entries:\n%s", buf.String())
	}
}
