package funcs_test

import (
	"testing"

	"github.com/aadamsx/josson/internal/funcs"
	"github.com/aadamsx/josson/internal/node"
)

func call(t *testing.T, cat funcs.Catalog, name string, cur *node.Node, args ...*node.Node) *node.Node {
	t.Helper()
	fn, ok := cat.Lookup(name)
	if !ok {
		t.Fatalf("no such function %q", name)
	}
	v, err := fn(cur, args)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return v
}

func TestStringFuncs(t *testing.T) {
	cat := funcs.Builtins()
	if got := call(t, cat, "upperCase", node.NewText("hi")).Text(); got != "HI" {
		t.Errorf("upperCase = %q", got)
	}
	if got := call(t, cat, "lowerCase", node.NewText("HI")).Text(); got != "hi" {
		t.Errorf("lowerCase = %q", got)
	}
	if got := call(t, cat, "trim", node.NewText("  hi  ")).Text(); got != "hi" {
		t.Errorf("trim = %q", got)
	}
	if got := call(t, cat, "length", node.NewText("hello")).Number(); got != 5 {
		t.Errorf("length = %v", got)
	}
}

func TestArrayFuncs(t *testing.T) {
	cat := funcs.Builtins()
	arr := node.NewArray(node.NewNumber(3), node.NewNumber(1), node.NewNumber(2))
	if got := node.Marshal(call(t, cat, "sort", arr)); got != "[1,2,3]" {
		t.Errorf("sort = %s", got)
	}
	if got := call(t, cat, "sum", arr).Number(); got != 6 {
		t.Errorf("sum = %v", got)
	}
	if got := call(t, cat, "max", arr).Number(); got != 3 {
		t.Errorf("max = %v", got)
	}
	if got := call(t, cat, "min", arr).Number(); got != 1 {
		t.Errorf("min = %v", got)
	}
	if got := call(t, cat, "size", arr).Number(); got != 3 {
		t.Errorf("size = %v", got)
	}
	if got := call(t, cat, "first", arr).Number(); got != 3 {
		t.Errorf("first = %v", got)
	}
	if got := call(t, cat, "last", arr).Number(); got != 2 {
		t.Errorf("last = %v", got)
	}
	dup := node.NewArray(node.NewNumber(1), node.NewNumber(1), node.NewNumber(2))
	if got := node.Marshal(call(t, cat, "distinct", dup)); got != "[1,2]" {
		t.Errorf("distinct = %s", got)
	}
}

func TestScalarFuncs(t *testing.T) {
	cat := funcs.Builtins()
	if got := call(t, cat, "coalesce", node.NewNull(), node.NewText("fallback")).Text(); got != "fallback" {
		t.Errorf("coalesce = %q", got)
	}
	if got := call(t, cat, "round", node.NewNumber(3.14159), node.NewNumber(2)).Number(); got != 3.14 {
		t.Errorf("round = %v", got)
	}
	if got := call(t, cat, "abs", node.NewNumber(-4)).Number(); got != 4 {
		t.Errorf("abs = %v", got)
	}
	if got := call(t, cat, "isNull", node.NewNull()).Bool(); !got {
		t.Errorf("isNull(null) = %v", got)
	}
}

func TestCryptoHashVerify(t *testing.T) {
	cat := funcs.Builtins()
	hashed := call(t, cat, "hash", node.NewText("secret"))
	if hashed.Text() == "secret" || hashed.Text() == "" {
		t.Fatalf("hash did not transform input: %q", hashed.Text())
	}
	ok := call(t, cat, "verify", hashed, node.NewText("secret"))
	if !ok.Bool() {
		t.Errorf("verify(hash(secret), secret) = false, want true")
	}
	bad := call(t, cat, "verify", hashed, node.NewText("wrong"))
	if bad.Bool() {
		t.Errorf("verify(hash(secret), wrong) = true, want false")
	}
}

func TestPatchFunc(t *testing.T) {
	cat := funcs.Builtins()
	cur, err := node.ParseString(`{"a":1}`)
	if err != nil {
		t.Fatal(err)
	}
	patchDoc, err := node.ParseString(`[{"op":"add","path":"/b","value":2}]`)
	if err != nil {
		t.Fatal(err)
	}
	got := call(t, cat, "patch", cur, patchDoc)
	if node.Marshal(got) != `{"a":1,"b":2}` {
		t.Errorf("patch result = %s", node.Marshal(got))
	}
}
