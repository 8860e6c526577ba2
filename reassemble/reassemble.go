// Package reassemble implements the Statement Reassembler (spec.md §4.3):
// joining continuation cards into one logical statement under the
// trailing-comma rule.
package reassemble

import (
	"strings"

	"github.com/jclnorm/jclextract/card"
)

// Statement is one logical, fully-joined card, before symbolic
// substitution (applied by the caller, spec.md §4.3/§4.4) and
// classification (spec.md §4.6).
type Statement struct {
	Label    string
	Operator string
	Operand  string
}

// Reassembler accumulates normalized cards into statements.
type Reassembler struct {
	continuing bool
	label      string
	operator   string
	buf        strings.Builder
}

// New creates a new, empty Reassembler.
func New() *Reassembler {
	return &Reassembler{}
}

// Feed processes one raw physical card. It returns a non-nil Statement
// when the card completes a logical statement (spec.md §8 property 3),
// and (nil, false) when the card was dropped (comment/end marker) or the
// statement is still open awaiting a continuation.
func (r *Reassembler) Feed(raw string) (*Statement, bool) {
	c, ok := card.Normalize(raw, r.continuing)
	if !ok {
		return nil, false
	}

	if !r.continuing {
		r.label = c.Label
		r.operator = c.Operator
		r.buf.Reset()
	}
	r.buf.WriteString(c.Operand)

	if strings.HasSuffix(r.buf.String(), ",") {
		r.continuing = true
		return nil, false
	}

	r.continuing = false
	return &Statement{Label: r.label, Operator: r.operator, Operand: r.buf.String()}, true
}

// Continuing reports whether a statement is still open awaiting a
// continuation card.
func (r *Reassembler) Continuing() bool {
	return r.continuing
}
