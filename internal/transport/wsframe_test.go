package transport

import (
	"strings"
	"testing"
)

func TestReadMsgParsesSubjTokenAndPayload(t *testing.T) {
	m, err := readMsg(strings.NewReader("eval#sometoken\n{\"query\":\"1+1\"}"))
	if err != nil {
		t.Fatalf("readMsg: %v", err)
	}
	if m.Subj != "eval" {
		t.Errorf("Subj = %q, want eval", m.Subj)
	}
	if string(m.Tok) != "sometoken" {
		t.Errorf("Tok = %q, want sometoken", m.Tok)
	}
	if string(m.Raw) != `{"query":"1+1"}` {
		t.Errorf("Raw = %q", m.Raw)
	}
}

func TestReadMsgWithoutTokenOrPayload(t *testing.T) {
	m, err := readMsg(strings.NewReader("+"))
	if err != nil {
		t.Fatalf("readMsg: %v", err)
	}
	if m.Subj != "+" || len(m.Tok) != 0 || len(m.Raw) != 0 {
		t.Errorf("got Subj=%q Tok=%q Raw=%q", m.Subj, m.Tok, m.Raw)
	}
}

func TestReadMsgRejectsEmptySubject(t *testing.T) {
	if _, err := readMsg(strings.NewReader("")); err == nil {
		t.Errorf("expected an error for a message with no subject")
	}
	if _, err := readMsg(strings.NewReader("#tok\npayload")); err == nil {
		t.Errorf("expected an error for a message with an empty subject before '#'")
	}
}

func TestWsConnWriteMsgRoundTripsFraming(t *testing.T) {
	m := &Msg{Subj: "merge", Tok: []byte("tok"), Raw: []byte(`{"template":"x"}`)}
	var buf strings.Builder
	buf.WriteString(m.Subj)
	if len(m.Tok) != 0 {
		buf.WriteByte('#')
		buf.Write(m.Tok)
	}
	if len(m.Raw) != 0 {
		buf.WriteByte('\n')
		buf.Write(m.Raw)
	}
	got, err := readMsg(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("readMsg: %v", err)
	}
	if got.Subj != m.Subj || string(got.Tok) != string(m.Tok) || string(got.Raw) != string(m.Raw) {
		t.Errorf("got %+v, want %+v", got, m)
	}
}
