// Package procexpand implements the Procedure Expander (spec.md §4.5):
// capturing in-stream PROC definitions and computing the scoped symbol
// table an invocation expands under. The procedure map itself lives on
// the preprocess.Driver (spec.md §9 design note: "process-wide state...
// instance's lifetime equals one deck"); this package only models one
// captured Procedure and the pure bind-defaults-then-overrides step.
package procexpand

import (
	"strings"

	"github.com/jclnorm/jclextract/ast"
	"github.com/jclnorm/jclextract/reassemble"
	"github.com/jclnorm/jclextract/symtab"
)

// Procedure is a captured PROC definition: its header defaults and the
// raw body cards up to (excluding) the matching PEND.
type Procedure struct {
	Name     string
	Defaults [][2]string
	Body     []string
}

// CaptureBody scans raw cards starting at lines[start] for the matching
// PEND and returns the intervening raw cards plus the index to resume
// scanning from (spec.md §4.5 "Capture"). It reassembles internally only
// to detect statement boundaries (a PEND may itself be continued); the
// cards returned are the original, unsubstituted raw lines.
func CaptureBody(lines []string, start int) (body []string, next int) {
	ra := reassemble.New()
	sinceLastStatement := 0
	i := start

	for i < len(lines) {
		line := lines[i]
		i++
		body = append(body, line)
		sinceLastStatement++

		stmt, ok := ra.Feed(line)
		if !ok {
			continue
		}
		if strings.EqualFold(stmt.Operator, "PEND") {
			body = body[:len(body)-sinceLastStatement]
			return body, i
		}
		sinceLastStatement = 0
	}
	// Malformed deck: PEND never found. Everything scanned becomes the
	// body; there is nothing left to resume from.
	return body, i
}

// BindOverrides builds the scoped symbol table a procedure invocation
// runs under: defaults from the PROC header, then EXEC-card overrides on
// top, both installed on a fresh child frame (spec.md §4.5 steps 1-3;
// spec.md §9 "model as an immutable chain of frames").
func BindOverrides(parent *symtab.Table, defaults [][2]string, execParams []ast.Param) *symtab.Table {
	child := parent.Enter()
	for _, kv := range defaults {
		child.Set(kv[0], kv[1])
	}
	for _, p := range execParams {
		if vp, ok := p.(*ast.ValueParam); ok {
			child.Set(vp.Name, vp.Value)
		}
	}
	return child
}
