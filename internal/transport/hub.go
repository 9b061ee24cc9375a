// Package transport exposes the resolution engine over a websocket
// connection hub, adapted from mb0-daql's hub package: the same
// sign-on/sign-off connection registry and message-routing shape, now
// carrying resolve/evaluate requests instead of daql's record protocol.
package transport

import (
	"sync"
	"sync/atomic"
)

const (
	SubjSignon  = "+"
	SubjSignoff = "-"

	// SubjMerge carries a template-merge request/response pair.
	SubjMerge = "merge"
	// SubjEval carries a query-evaluation request/response pair.
	SubjEval = "eval"
)

// Msg is the message passed between connections and the Hub. Raw holds the
// JSON-encoded request or response body for SubjMerge/SubjEval; Tok carries
// the caller's bearer token on requests.
type Msg struct {
	From Conn
	Subj string
	Tok  []byte
	Raw  []byte
}

// Router routes a received message to its handler.
type Router interface{ Route(*Msg) }

// Conn is the common interface for a hub participant.
type Conn interface {
	ID() int64
	Chan() chan<- *Msg
}

// Hub manages connection sign-on/sign-off and dispatches every message it
// receives to a Router, exactly as mb0-daql's Hub does.
type Hub struct {
	sync.Mutex
	cmap map[int64]Conn
	mque chan *Msg
}

// NewHub returns an empty, unstarted Hub.
func NewHub() *Hub {
	return &Hub{cmap: make(map[int64]Conn, 64), mque: make(chan *Msg, 128)}
}

func (h *Hub) ID() int64         { return 0 }
func (h *Hub) Chan() chan<- *Msg { return h.mque }

// Run dispatches received messages to r until the hub's channel is closed
// with a nil message.
func (h *Hub) Run(r Router) {
	for m := range h.mque {
		if m == nil {
			break
		}
		if m.Subj == SubjSignon {
			h.Lock()
			h.cmap[m.From.ID()] = m.From
			h.Unlock()
		}
		r.Route(m)
		if m.Subj == SubjSignoff {
			h.Lock()
			delete(h.cmap, m.From.ID())
			m.From.Chan() <- nil
			h.Unlock()
		}
	}
}

// Signon registers c with h and routes a sign-on message for it.
func Signon(h *Hub, c Conn) { h.Chan() <- &Msg{From: c, Subj: SubjSignon} }

// Signoff routes a sign-off message for c, which removes it from h.
func Signoff(h *Hub, c Conn) { h.Chan() <- &Msg{From: c, Subj: SubjSignoff} }

var lastID = new(int64)

// NextID returns a new, unused positive connection id.
func NextID() int64 { return atomic.AddInt64(lastID, 1) }
