package query_test

import (
	"testing"

	"github.com/aadamsx/josson/internal/funcs"
	"github.com/aadamsx/josson/internal/node"
	"github.com/aadamsx/josson/internal/query"
)

func TestJoinLeftOneKeepsUnmatchedRow(t *testing.T) {
	e := query.NewEngine(funcs.Builtins())
	e.PutDataset("L", mustParse(t, `[{"id":1,"a":10},{"id":2,"a":20}]`))
	e.PutDataset("R", mustParse(t, `[{"id":2,"b":"B"}]`))
	got, err := e.EvaluateQuery("L{id} <=< R{id}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `[{"id":1,"a":10},{"id":2,"a":20,"b":"B"}]`
	if node.Marshal(got) != want {
		t.Errorf("got %s, want %s", node.Marshal(got), want)
	}
}

// TestJoinRightOneSwapsSides checks the commutativity property of spec.md
// §8 item 5: right-one(R,L) normalises to left-one(L,R), so "R{id} >=> L{id}"
// keeps L's rows as the base (matching TestJoinLeftOneKeepsUnmatchedRow's
// "L{id} <=< R{id}" result exactly), not R's.
func TestJoinRightOneSwapsSides(t *testing.T) {
	e := query.NewEngine(funcs.Builtins())
	e.PutDataset("L", mustParse(t, `[{"id":1,"a":10},{"id":2,"a":20}]`))
	e.PutDataset("R", mustParse(t, `[{"id":2,"b":"B"}]`))
	got, err := e.EvaluateQuery("R{id} >=> L{id}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `[{"id":1,"a":10},{"id":2,"a":20,"b":"B"}]`
	if node.Marshal(got) != want {
		t.Errorf("got %s, want %s", node.Marshal(got), want)
	}
}

func TestJoinRightManySwapsSides(t *testing.T) {
	e := query.NewEngine(funcs.Builtins())
	e.PutDataset("L", mustParse(t, `[{"id":1},{"id":2}]`))
	e.PutDataset("things", mustParse(t, `[{"fk":1,"v":"x"},{"fk":2,"v":"z"}]`))
	got, err := e.EvaluateQuery("things{fk} >>=> L{id}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `[{"id":1,"things":[{"fk":1,"v":"x"}]},{"id":2,"things":[{"fk":2,"v":"z"}]}]`
	if node.Marshal(got) != want {
		t.Errorf("got %s, want %s", node.Marshal(got), want)
	}
}

func TestJoinExplicitArrayFieldPrefix(t *testing.T) {
	e := query.NewEngine(funcs.Builtins())
	e.PutDataset("L", mustParse(t, `[{"id":1},{"id":2}]`))
	e.PutDataset("things", mustParse(t, `[{"fk":1,"v":"x"},{"fk":2,"v":"z"}]`))
	got, err := e.EvaluateQuery("L{id} <=<< things{fk:fk}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `[{"id":1,"fk":[{"fk":1,"v":"x"}]},{"id":2,"fk":[{"fk":2,"v":"z"}]}]`
	if node.Marshal(got) != want {
		t.Errorf("got %s, want %s", node.Marshal(got), want)
	}
}

func TestJoinInnerDropsUnmatched(t *testing.T) {
	e := query.NewEngine(funcs.Builtins())
	e.PutDataset("L", mustParse(t, `[{"id":1,"a":10},{"id":3,"a":30}]`))
	e.PutDataset("R", mustParse(t, `[{"id":1,"b":"B"}]`))
	got, err := e.EvaluateQuery("L{id} >=< R{id}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node.Marshal(got) != `[{"id":1,"a":10,"b":"B"}]` {
		t.Errorf("got %s", node.Marshal(got))
	}
}

// TestJoinInnerOneSwapsArrayLeftForBareObjectRight covers the supplemented
// edge case from Jossons.joinNodes: an inner-one join (">=<") with an array
// on the left and a bare object on the right swaps sides so the object
// drives a single merged result, instead of wrapping the object into a
// one-element array of rows keyed off the left array.
func TestJoinInnerOneSwapsArrayLeftForBareObjectRight(t *testing.T) {
	e := query.NewEngine(funcs.Builtins())
	e.PutDataset("L", mustParse(t, `[{"id":1,"a":10},{"id":2,"a":20}]`))
	e.PutDataset("R", mustParse(t, `{"id":2,"b":"B"}`))
	got, err := e.EvaluateQuery("L{id} >=< R{id}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"id":2,"b":"B","a":20}`
	if node.Marshal(got) != want {
		t.Errorf("got %s, want %s", node.Marshal(got), want)
	}
}

func TestJoinKeyArityMismatchErrors(t *testing.T) {
	e := query.NewEngine(funcs.Builtins())
	e.PutDataset("L", mustParse(t, `[{"id":1,"x":1}]`))
	e.PutDataset("R", mustParse(t, `[{"id":1}]`))
	_, err := e.EvaluateQuery("L{id,x} >=< R{id}")
	if err == nil {
		t.Fatalf("expected error for mismatched key list sizes")
	}
}
