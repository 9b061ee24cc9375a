package query

import (
	"fmt"

	"github.com/aadamsx/josson/internal/node"
)

// DebugLevel controls how Progress.resolvedValue stringifies a resolved
// node, per ResolverProgress.java's ResolverDebugLevel.
type DebugLevel int

const (
	DebugValueOnly DebugLevel = iota
	DebugUpToObject
	DebugUpToArray
)

// Progress is an append-only diagnostic log plus round counter, ported
// from ResolverProgress.java. It carries no semantic weight in the
// resolution driver; it exists purely so callers can observe what the
// driver did.
type Progress struct {
	Level       DebugLevel
	AutoMarkEnd bool

	round int
	steps []string
	ended bool
}

// NewProgress returns a Progress starting at round 1, matching the
// original's default field values.
func NewProgress() *Progress {
	return &Progress{round: 1, AutoMarkEnd: true}
}

// Steps returns the accumulated log lines.
func (p *Progress) Steps() []string { return p.steps }

func (p *Progress) nextRound() { p.round++ }

func (p *Progress) addStep(step string) {
	p.steps = append(p.steps, fmt.Sprintf("Round %d : %s", p.round, step))
}

func (p *Progress) addResolvingFrom(name, query string) {
	p.addStep(fmt.Sprintf("Resolving %s from %s", name, query))
}

func (p *Progress) addResolvedNode(name string, n *node.Node) {
	if n == nil {
		p.addStep(fmt.Sprintf("Unresolvable %s", name))
		return
	}
	p.addStep(fmt.Sprintf("Resolved %s = %s", name, p.resolvedValue(n)))
}

func (p *Progress) addQueryResult(n *node.Node) {
	if n == nil {
		p.addStep("Query result = null")
		return
	}
	p.addStep(fmt.Sprintf("Query result = %s", p.resolvedValue(n)))
}

// MarkEnd appends a terminal step, idempotently.
func (p *Progress) MarkEnd() {
	if p.ended {
		return
	}
	p.ended = true
	p.addStep("End")
}

func (p *Progress) resolvedValue(n *node.Node) string {
	switch p.Level {
	case DebugUpToArray:
		if n.IsArray() {
			return node.Marshal(n)
		}
		fallthrough
	case DebugUpToObject:
		if n.IsObject() {
			return node.Marshal(n)
		}
	}
	return simplifyResolvedValue(n)
}

func simplifyResolvedValue(n *node.Node) string {
	if n.IsObject() {
		return fmt.Sprintf("Object with %d elements", n.Len())
	}
	if n.IsArray() {
		return fmt.Sprintf("Array with %d elements", n.Len())
	}
	return node.Marshal(n)
}
