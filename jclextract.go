// Package jclextract ingests mainframe JCL source decks and produces a
// normalized, relational representation of the jobs they describe (see
// SPEC_FULL.md).
package jclextract

import (
	"github.com/jclnorm/jclextract/ast"
	"github.com/jclnorm/jclextract/lexer"
	"github.com/jclnorm/jclextract/parser"
	"github.com/jclnorm/jclextract/token"
)

// ParseCard parses the already-reassembled, already-substituted operand
// text of one EXEC or DD statement into its structured representation
// (spec.md §4.7). cardType must be "EXEC" or "DD".
func ParseCard(cardType, label, operand string) (ast.Card, []string) {
	l := lexer.New(operand)
	p := parser.New(l)

	var card ast.Card
	switch cardType {
	case "EXEC":
		card = p.ParseExecCard(label)
	case "DD":
		card = p.ParseDDCard(label)
	default:
		return nil, []string{"unsupported card type: " + cardType}
	}
	return card, p.Errors()
}

// Re-export the grammar's types for convenience, in the teacher's style.
type (
	Card     = ast.Card
	ExecCard = ast.ExecCard
	DDCard   = ast.DDCard
	Param    = ast.Param
	Token    = token.Token
)
