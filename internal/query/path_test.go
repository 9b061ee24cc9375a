package query_test

import (
	"testing"

	"github.com/aadamsx/josson/internal/funcs"
	"github.com/aadamsx/josson/internal/node"
	"github.com/aadamsx/josson/internal/query"
)

func TestNavigateFilterModes(t *testing.T) {
	e := query.NewEngine(funcs.Builtins())
	e.PutDataset("items", mustParse(t, `[{"id":1,"ok":true},{"id":2,"ok":false},{"id":3,"ok":true}]`))

	first, err := e.EvaluateQuery("items[ok=true]")
	if err != nil {
		t.Fatalf("first mode: %v", err)
	}
	if node.Marshal(first) != `{"id":1,"ok":true}` {
		t.Errorf("first mode = %s, want first matching element", node.Marshal(first))
	}

	all, err := e.EvaluateQuery("items[ok=true]*")
	if err != nil {
		t.Fatalf("collect-all mode: %v", err)
	}
	if node.Marshal(all) != `[{"id":1,"ok":true},{"id":3,"ok":true}]` {
		t.Errorf("collect-all mode = %s", node.Marshal(all))
	}
}

func TestNavigateIndexFilter(t *testing.T) {
	e := query.NewEngine(funcs.Builtins())
	e.PutDataset("items", mustParse(t, `["a","b","c"]`))

	v, err := e.EvaluateQuery("items[0]")
	if err != nil || v.Text() != "a" {
		t.Errorf("items[0] = %v, %v, want a", v, err)
	}
	v, err = e.EvaluateQuery("items[-1]")
	if err != nil || v.Text() != "c" {
		t.Errorf("items[-1] = %v, %v, want c", v, err)
	}
}

func TestNavigateNameMapsAcrossArray(t *testing.T) {
	e := query.NewEngine(funcs.Builtins())
	e.PutDataset("items", mustParse(t, `[{"v":1},{"v":2},{"v":3}]`))
	v, err := e.EvaluateQuery("items.v")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node.Marshal(v) != `[1,2,3]` {
		t.Errorf("items.v = %s, want [1,2,3]", node.Marshal(v))
	}
}

func TestNavigateFunctionStep(t *testing.T) {
	e := query.NewEngine(funcs.Builtins())
	e.PutDataset("s", node.NewText("Hello"))
	v, err := e.EvaluateQuery("s.upperCase()")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Text() != "HELLO" {
		t.Errorf("got %q, want HELLO", v.Text())
	}
}

func TestFilterPredicateImplicitIndex(t *testing.T) {
	e := query.NewEngine(funcs.Builtins())
	e.PutDataset("items", mustParse(t, `["a","b","c"]`))
	v, err := e.EvaluateQuery("items[?=1]*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node.Marshal(v) != `["b"]` {
		t.Errorf("got %s, want [\"b\"]", node.Marshal(v))
	}
}

// TestDivertAllMapsDownstreamFunctionStepUnlikeCollectAll covers spec.md
// §4.2 point 2's distinction between collect-all ("*") and divert-all
// ("@"): both gather the same matched elements into an array, but only
// divert-all leaves it marked so a later function step maps across its
// elements individually instead of receiving the whole array as one value.
func TestDivertAllMapsDownstreamFunctionStepUnlikeCollectAll(t *testing.T) {
	e := query.NewEngine(funcs.Builtins())
	e.PutDataset("items", mustParse(t, `[{"ok":true,"v":"ann"},{"ok":false,"v":"bob"},{"ok":true,"v":"cara"}]`))

	collectAll, err := e.EvaluateQuery("items[ok=true]*.v.upperCase()")
	if err != nil {
		t.Fatalf("collect-all: %v", err)
	}
	wantCollectAll := `"[\"ANN\",\"CARA\"]"`
	if node.Marshal(collectAll) != wantCollectAll {
		t.Errorf("collect-all got %s, want %s", node.Marshal(collectAll), wantCollectAll)
	}

	divertAll, err := e.EvaluateQuery("items[ok=true]@.v.upperCase()")
	if err != nil {
		t.Fatalf("divert-all: %v", err)
	}
	wantDivertAll := `["ANN","CARA"]`
	if node.Marshal(divertAll) != wantDivertAll {
		t.Errorf("divert-all got %s, want %s", node.Marshal(divertAll), wantDivertAll)
	}
}

func TestFilterOnObjectWrapsToSingleton(t *testing.T) {
	e := query.NewEngine(funcs.Builtins())
	e.PutDataset("o", mustParse(t, `{"id":1,"name":"a"}`))
	v, err := e.EvaluateQuery("o[id=1]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node.Marshal(v) != `{"id":1,"name":"a"}` {
		t.Errorf("got %s", node.Marshal(v))
	}
}
