package transport_test

import (
	"sync"
	"testing"

	"github.com/aadamsx/josson/internal/transport"
)

type fakeConn struct {
	id int64
	ch chan *transport.Msg
}

func newFakeConn(id int64) *fakeConn {
	return &fakeConn{id: id, ch: make(chan *transport.Msg, 4)}
}

func (c *fakeConn) ID() int64                   { return c.id }
func (c *fakeConn) Chan() chan<- *transport.Msg { return c.ch }

type recordingRouter struct {
	mu   sync.Mutex
	subs []string
}

func (r *recordingRouter) Route(m *transport.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, m.Subj)
}

func (r *recordingRouter) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.subs))
	copy(out, r.subs)
	return out
}

func TestNextIDIsUniqueAndPositive(t *testing.T) {
	a := transport.NextID()
	b := transport.NextID()
	if a == b || a <= 0 || b <= 0 {
		t.Errorf("got a=%d b=%d, want distinct positive ids", a, b)
	}
}

func TestHubSignonSignoffRoutesAndCleansUp(t *testing.T) {
	h := transport.NewHub()
	r := &recordingRouter{}
	done := make(chan struct{})
	go func() {
		h.Run(r)
		close(done)
	}()

	c := newFakeConn(transport.NextID())
	transport.Signon(h, c)
	transport.Signoff(h, c)

	// Signoff sends a nil back on the connection's own channel once the
	// hub has removed it.
	if msg := <-c.ch; msg != nil {
		t.Errorf("expected a nil closing message, got %v", msg)
	}

	h.Chan() <- nil
	<-done

	subs := r.seen()
	if len(subs) != 2 || subs[0] != transport.SubjSignon || subs[1] != transport.SubjSignoff {
		t.Errorf("got %v, want [%q %q]", subs, transport.SubjSignon, transport.SubjSignoff)
	}
}

func TestHubRoutesMergeAndEvalMessages(t *testing.T) {
	h := transport.NewHub()
	r := &recordingRouter{}
	done := make(chan struct{})
	go func() {
		h.Run(r)
		close(done)
	}()

	c := newFakeConn(transport.NextID())
	h.Chan() <- &transport.Msg{From: c, Subj: transport.SubjMerge, Raw: []byte("{{x}}")}
	h.Chan() <- &transport.Msg{From: c, Subj: transport.SubjEval, Raw: []byte("1+1")}
	h.Chan() <- nil
	<-done

	subs := r.seen()
	if len(subs) != 2 || subs[0] != transport.SubjMerge || subs[1] != transport.SubjEval {
		t.Errorf("got %v", subs)
	}
}
