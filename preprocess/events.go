// Package preprocess implements the Preprocessor Driver (spec.md §4.6):
// orchestrating the card->statement pipeline and emitting a typed event
// stream in place of the source's sentinel strings (spec.md §9).
package preprocess

import "github.com/jclnorm/jclextract/ast"

// Event is the typed replacement for the "*PROC_START*"/"*PROC_END*"/
// "*PAYLOAD*" sentinel strings the source interleaves into its statement
// stream (spec.md §9).
type Event interface {
	eventNode()
}

// StatementEvent carries one fully parsed EXEC or DD card.
type StatementEvent struct {
	Card ast.Card
}

func (StatementEvent) eventNode() {}

// ProcStartEvent marks entry into an expanded procedure body.
type ProcStartEvent struct {
	CallerLabel string
	ProcName    string
}

func (ProcStartEvent) eventNode() {}

// ProcEndEvent marks exit from an expanded procedure body.
type ProcEndEvent struct{}

func (ProcEndEvent) eventNode() {}

// PayloadEvent carries one in-stream data line (columns 1-72).
type PayloadEvent struct {
	Line string
}

func (PayloadEvent) eventNode() {}
