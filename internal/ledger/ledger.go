// Package ledger keeps an append-only, revision-stamped log of resolution
// requests handled by internal/transport, adapted from mb0-daql's evt
// package: the same Rev()/NextRev monotonic revision shape and append-only
// event list, with daql's dom/xelf-backed Event/Trans machinery dropped in
// favor of a minimal record of what was asked and what came back.
package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// NextRev returns rev truncated to the millisecond, or if rev is not after
// last, the next possible revision one millisecond after last.
func NextRev(last, rev time.Time) time.Time {
	rev = rev.Truncate(time.Millisecond)
	if rev.After(last) {
		return rev
	}
	return last.Add(time.Millisecond)
}

// Event is one resolved merge or evaluate request. ID is a random UUID
// assigned at append time, for correlating an event with client-side logs
// or a request trace independent of its revision.
type Event struct {
	ID     uuid.UUID
	Rev    time.Time
	Kind   string // "merge" or "eval"
	Query  string
	Result string // JSON text of the result, empty on error
	Err    string // non-empty on failure
}

// Ledger is an in-memory, append-only event log guarded by rev.
type Ledger struct {
	mu     sync.Mutex
	last   time.Time
	events []*Event
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger { return &Ledger{} }

// Rev returns the latest event revision, or the zero time if empty.
func (l *Ledger) Rev() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}

// Append records an event with a freshly minted revision after last and
// returns it.
func (l *Ledger) Append(kind, query, result, errText string) *Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last = NextRev(l.last, time.Now())
	e := &Event{ID: uuid.New(), Rev: l.last, Kind: kind, Query: query, Result: result, Err: errText}
	l.events = append(l.events, e)
	return e
}

// Events returns every event recorded since rev, oldest first.
func (l *Ledger) Events(since time.Time) []*Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Event, 0, len(l.events))
	for _, e := range l.events {
		if e.Rev.After(since) {
			out = append(out, e)
		}
	}
	return out
}
