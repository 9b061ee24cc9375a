package query

import (
	"testing"

	"github.com/aadamsx/josson/internal/node"
)

func TestRegistryTriState(t *testing.T) {
	r := NewRegistry()

	if _, known := r.Lookup("x"); known {
		t.Fatalf("unset name should be unknown")
	}
	if r.Has("x") {
		t.Fatalf("unset name should not be Has")
	}

	r.Put("x", nil)
	v, known := r.Lookup("x")
	if !known {
		t.Fatalf("poisoned name should be known")
	}
	if v != nil {
		t.Errorf("poisoned name's value should be nil")
	}
	if !r.Has("x") {
		t.Errorf("poisoned name should be Has")
	}

	r.Put("y", node.NewNumber(42))
	v, known = r.Lookup("y")
	if !known || v == nil || v.Number() != 42 {
		t.Errorf("got v=%v known=%v", v, known)
	}
}

func TestRegistryToObjectExcludesPoisoned(t *testing.T) {
	r := NewRegistry()
	r.Put("a", node.NewNumber(1))
	r.Put("b", nil)
	obj := r.ToObject()
	if obj.Get("a") == nil {
		t.Errorf("expected resolved name 'a' to be present")
	}
	if obj.Get("b") != nil {
		t.Errorf("expected poisoned name 'b' to be excluded")
	}
}

func TestNewRegistryFromObject(t *testing.T) {
	obj, err := node.ParseString(`{"a":1,"b":"two"}`)
	if err != nil {
		t.Fatal(err)
	}
	r, err := NewRegistryFromObject(obj)
	if err != nil {
		t.Fatal(err)
	}
	if v, known := r.Lookup("a"); !known || v.Number() != 1 {
		t.Errorf("a lookup failed: v=%v known=%v", v, known)
	}
	if v, known := r.Lookup("b"); !known || v.Text() != "two" {
		t.Errorf("b lookup failed: v=%v known=%v", v, known)
	}
}

func TestNewRegistryFromObjectRejectsNonObject(t *testing.T) {
	arr, err := node.ParseString(`[1,2,3]`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewRegistryFromObject(arr); err == nil {
		t.Errorf("expected an error for a non-object constructor argument")
	}
}

func TestNewRegistryFromTextAndInt(t *testing.T) {
	r := NewRegistryFromText(map[string]string{"name": "ada"})
	if v, known := r.Lookup("name"); !known || v.Text() != "ada" {
		t.Errorf("got v=%v known=%v", v, known)
	}
	r2 := NewRegistryFromInt(map[string]int64{"count": -7})
	if v, known := r2.Lookup("count"); !known || v.Number() != -7 {
		t.Errorf("got v=%v known=%v", v, known)
	}
}
