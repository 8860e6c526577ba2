package step

import (
	"strings"

	"github.com/jclnorm/jclextract/ast"
	"github.com/jclnorm/jclextract/preprocess"
)

// frame is one entry of the expansion context stack (spec.md §3
// "Expansion context stack").
type frame struct {
	callerLabel string
	procName    string
}

// Assembler consumes a preprocess.Event stream and builds the ordered
// step/DD tree (spec.md §4.8). It is stateful and single-use: construct
// one per deck with New, feed it the full event slice, and read Steps.
type Assembler struct {
	Steps []*Step

	stack     []frame
	current   *Step
	currentDD *DD
}

// New returns an empty Assembler.
func New() *Assembler {
	return &Assembler{}
}

// Assemble consumes events in order and returns the resulting steps. It
// is equivalent to constructing an Assembler and calling Consume, for
// the common case of a single, complete event stream.
func Assemble(events []preprocess.Event) []*Step {
	a := New()
	a.Consume(events)
	return a.Steps
}

// Consume feeds events into the assembler in order, extending Steps.
func (a *Assembler) Consume(events []preprocess.Event) {
	for _, ev := range events {
		switch e := ev.(type) {
		case preprocess.ProcStartEvent:
			a.stack = append(a.stack, frame{callerLabel: e.CallerLabel, procName: strings.ToUpper(e.ProcName)})

		case preprocess.ProcEndEvent:
			if len(a.stack) > 0 {
				a.stack = a.stack[:len(a.stack)-1]
			}

		case preprocess.PayloadEvent:
			if a.currentDD != nil {
				a.currentDD.InstreamLines = append(a.currentDD.InstreamLines, e.Line)
			}

		case preprocess.StatementEvent:
			switch card := e.Card.(type) {
			case *ast.ExecCard:
				a.startStep(card)
			case *ast.DDCard:
				a.appendDD(card)
			}
		}
	}
}

// startStep opens a new Step for a parsed EXEC card, resolving its three
// names per spec.md §4.8: an EXEC emitted while the context stack is
// non-empty inherits the outermost frame's caller label and procedure
// name, and carries its own label as the proc-step name; a top-level
// EXEC carries only its own label (and PROC=, if this is an unresolved
// pass-through invocation).
func (a *Assembler) startStep(card *ast.ExecCard) {
	s := &Step{ProgramName: card.Pgm}

	if len(a.stack) > 0 {
		outer := a.stack[0]
		s.StepName = outer.callerLabel
		s.ProcName = outer.procName
		s.ProcStepName = card.Label
	} else {
		s.StepName = card.Label
		s.ProcName = strings.ToUpper(card.Proc)
	}

	if p := paramValue(card.Param("COND")); p != "" {
		s.Cond = p
	}
	if p := paramValue(card.Param("PARM")); p != "" {
		s.Parm = p
	}
	if p := paramValue(card.Param("REGION")); p != "" {
		s.Region = p
	}
	if p := paramValue(card.Param("TIME")); p != "" {
		s.Time = p
	}

	a.Steps = append(a.Steps, s)
	a.current = s
	a.currentDD = nil
}

// appendDD adds a DD to the current step, treating an unlabeled DD as a
// concatenation continuation of the immediately preceding one (spec.md
// §8 property 5, invariant I2). A DD with no preceding EXEC in the
// stream has nothing to attach to and is silently dropped, matching the
// PayloadEvent handling above.
func (a *Assembler) appendDD(card *ast.DDCard) {
	if a.current == nil {
		return
	}

	dd := &DD{Dsn: classifyDsn(card), Dummy: card.Dummy}

	if card.Label == "" && a.currentDD != nil {
		dd.Label = a.currentDD.Label
		dd.Offset = a.currentDD.Offset + 1
	} else {
		dd.Label = card.Label
		dd.Offset = 1
	}

	if disp, ok := card.Param("DISP").(*ast.DispParam); ok {
		dd.Disp = Disp{
			Status:       disp.Values[0],
			NormalTerm:   disp.Values[1],
			AbnormalTerm: disp.Values[2],
		}
	}
	dd.Unit = paramValue(card.Param("UNIT"))
	if vol, ok := card.Param("VOL").(*ast.VolParam); ok {
		dd.VolSer = strings.Join(vol.Ser, ",")
	}

	dd.Lrecl = paramValue(card.Param("LRECL"))
	dd.Blksize = paramValue(card.Param("BLKSIZE"))
	dd.Recfm = paramValue(card.Param("RECFM"))
	if dcb, ok := card.Param("DCB").(*ast.DcbParam); ok {
		for _, f := range dcb.Fields {
			switch strings.ToUpper(f.Name) {
			case "LRECL":
				dd.Lrecl = f.Value
			case "BLKSIZE":
				dd.Blksize = f.Value
			case "RECFM":
				dd.Recfm = f.Value
			default:
				if dd.DcbAttributes == nil {
					dd.DcbAttributes = map[string]string{}
				}
				dd.DcbAttributes[strings.ToUpper(f.Name)] = f.Value
			}
		}
	}
	if dsorg := paramValue(card.Param("DSORG")); dsorg != "" {
		if dd.DcbAttributes == nil {
			dd.DcbAttributes = map[string]string{}
		}
		dd.DcbAttributes["DSORG"] = dsorg
	}

	a.current.DDs = append(a.current.DDs, dd)
	a.currentDD = dd
}

func paramValue(p ast.Param) string {
	switch v := p.(type) {
	case nil:
		return ""
	case *ast.ValueParam:
		return v.Value
	case *ast.ListParam:
		return "(" + strings.Join(v.Values, ",") + ")"
	default:
		return ""
	}
}
