package query

import "testing"

func TestDecomposeTernarySteps(t *testing.T) {
	// "a ? b : c ? d : e" is the steps (a, b), (c, d) and a default step
	// (e) with no IfTrue half.
	steps := decomposeTernarySteps("a>0 ? 'pos' : b>0 ? 'also-pos' : 'non-pos'")
	if len(steps) != 3 {
		t.Fatalf("got %d steps, want 3", len(steps))
	}
	if steps[0].Cond != "a>0" || steps[0].IfTrue == nil || *steps[0].IfTrue != "'pos'" {
		t.Errorf("step0 = %+v", steps[0])
	}
	if steps[1].Cond != "b>0" || steps[1].IfTrue == nil || *steps[1].IfTrue != "'also-pos'" {
		t.Errorf("step1 = %+v", steps[1])
	}
	if steps[2].Cond != "'non-pos'" || steps[2].IfTrue != nil {
		t.Errorf("step2 = %+v", steps[2])
	}
}

func TestDecomposeJoinConditionsLongestMatchFirst(t *testing.T) {
	conds := decomposeJoinConditions("A{k} <=<< B{k}")
	if len(conds) != 2 {
		t.Fatalf("got %d conditions, want 2", len(conds))
	}
	if conds[1].Op != "<=<<" {
		t.Errorf("op = %q, want <=<< (not mistaken for <=< plus stray <)", conds[1].Op)
	}
}

func TestMatchJoinOperation(t *testing.T) {
	q, keys, ok := matchJoinOperation("results.items{id}")
	if !ok || q != "results.items" || keys != "id" {
		t.Errorf("got q=%q keys=%q ok=%v", q, keys, ok)
	}
	_, _, ok = matchJoinOperation("no braces here")
	if ok {
		t.Errorf("expected no match for text without a trailing }")
	}
}

func TestMatchDbQuery(t *testing.T) {
	coll, sym, payload, ok := matchDbQuery("users{?}id=1")
	if !ok || coll != "users" || sym != "?" || payload != "id=1" {
		t.Errorf("got coll=%q sym=%q payload=%q ok=%v", coll, sym, payload, ok)
	}
	coll, sym, payload, ok = matchDbQuery("{[]}select * from x")
	if !ok || coll != "" || sym != "[]" || payload != "select * from x" {
		t.Errorf("empty collection name case: coll=%q sym=%q payload=%q ok=%v", coll, sym, payload, ok)
	}
	_, _, _, ok = matchDbQuery("plain.path.no.braces")
	if ok {
		t.Errorf("expected no match")
	}
}

func TestGetLastElementName(t *testing.T) {
	if got := getLastElementName("a.b.things[x=1]*"); got != "things" {
		t.Errorf("got %q, want things", got)
	}
	if got := getLastElementName("solo"); got != "solo" {
		t.Errorf("got %q, want solo", got)
	}
}

func TestMatchFunctionCall(t *testing.T) {
	name, args, ok := matchFunctionCall("upperCase()")
	if !ok || name != "upperCase" || args != "" {
		t.Errorf("got name=%q args=%q ok=%v", name, args, ok)
	}
	name, args, ok = matchFunctionCall("substr(1,3)")
	if !ok || name != "substr" || args != "1,3" {
		t.Errorf("got name=%q args=%q ok=%v", name, args, ok)
	}
	_, _, ok = matchFunctionCall("not a call")
	if ok {
		t.Errorf("expected no match")
	}
}

func TestSeparateXmlTags(t *testing.T) {
	pieces := separateXmlTags("<b>hello</b> world")
	want := []string{"<b>", "hello", "</b>", " world"}
	if len(pieces) != len(want) {
		t.Fatalf("got %v, want %v", pieces, want)
	}
	for i := range want {
		if pieces[i] != want[i] {
			t.Errorf("piece %d = %q, want %q", i, pieces[i], want[i])
		}
	}
}
