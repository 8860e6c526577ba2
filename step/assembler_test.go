package step

import (
	"testing"

	"github.com/jclnorm/jclextract/ast"
	"github.com/jclnorm/jclextract/preprocess"
)

// S1: a plain PGM step (spec.md §8 scenario S1).
func TestAssemblePgmStep(t *testing.T) {
	events := []preprocess.Event{
		preprocess.StatementEvent{Card: &ast.ExecCard{Label: "STEP1", Pgm: "IEFBR14"}},
	}
	steps := Assemble(events)
	if len(steps) != 1 {
		t.Fatalf("len(steps) = %d, want 1", len(steps))
	}
	s := steps[0]
	if s.StepName != "STEP1" || s.ProgramName != "IEFBR14" || s.ProcName != "" {
		t.Errorf("step = %+v, unexpected", s)
	}
}

// S2: a DD DISP tuple carries through to the assembled step.
func TestAssembleDispTuple(t *testing.T) {
	events := []preprocess.Event{
		preprocess.StatementEvent{Card: &ast.ExecCard{Label: "STEP1", Pgm: "IEFBR14"}},
		preprocess.StatementEvent{Card: &ast.DDCard{
			Label: "OUT",
			Params: []ast.Param{
				&ast.DsnParam{Value: "MY.DATA.SET"},
				&ast.DispParam{Values: [3]string{"NEW", "CATLG", "DELETE"}},
			},
		}},
	}
	steps := Assemble(events)
	dd := steps[0].DDs[0]
	if dd.Disp != (Disp{"NEW", "CATLG", "DELETE"}) {
		t.Errorf("disp = %+v, want NEW/CATLG/DELETE", dd.Disp)
	}
	if dd.Dsn != "MY.DATA.SET" {
		t.Errorf("dsn = %q", dd.Dsn)
	}
}

// S3: a procedure expansion attributes the inner EXEC to the caller's
// step name with the proc name and its own proc-step name (spec.md §8
// scenario S3, §4.8 name-resolution rule).
func TestAssembleProcedureExpansion(t *testing.T) {
	events := []preprocess.Event{
		preprocess.ProcStartEvent{CallerLabel: "CALL", ProcName: "MYPROC"},
		preprocess.StatementEvent{Card: &ast.ExecCard{Label: "S1", Pgm: "SORT"}},
		preprocess.ProcEndEvent{},
	}
	steps := Assemble(events)
	if len(steps) != 1 {
		t.Fatalf("len(steps) = %d, want 1", len(steps))
	}
	s := steps[0]
	if s.StepName != "CALL" || s.ProcName != "MYPROC" || s.ProcStepName != "S1" || s.ProgramName != "SORT" {
		t.Errorf("step = %+v, unexpected", s)
	}
}

// Nested procedure expansion still attributes to the outermost caller
// (spec.md §3 "An EXEC emitted while the stack is non-empty inherits the
// outermost frame's caller label and proc name").
func TestAssembleNestedProcedureExpansion(t *testing.T) {
	events := []preprocess.Event{
		preprocess.ProcStartEvent{CallerLabel: "OUTER", ProcName: "OUTERPROC"},
		preprocess.ProcStartEvent{CallerLabel: "INNER", ProcName: "INNERPROC"},
		preprocess.StatementEvent{Card: &ast.ExecCard{Label: "S1", Pgm: "SORT"}},
		preprocess.ProcEndEvent{},
		preprocess.ProcEndEvent{},
	}
	steps := Assemble(events)
	s := steps[0]
	if s.StepName != "OUTER" || s.ProcName != "OUTERPROC" || s.ProcStepName != "S1" {
		t.Errorf("step = %+v, want outermost attribution", s)
	}
}

// S4: an in-stream payload attaches to the current DD and round-trips
// through InstreamRef as "HELLO\nWORLD".
func TestAssembleInstreamPayload(t *testing.T) {
	events := []preprocess.Event{
		preprocess.StatementEvent{Card: &ast.ExecCard{Label: "STEP1", Pgm: "IEBGENER"}},
		preprocess.StatementEvent{Card: &ast.DDCard{Label: "SYSIN", Star: true}},
		preprocess.PayloadEvent{Line: "HELLO"},
		preprocess.PayloadEvent{Line: "WORLD"},
	}
	steps := Assemble(events)
	dd := steps[0].DDs[0]
	if dd.InstreamRef() != "HELLO\nWORLD" {
		t.Errorf("InstreamRef() = %q, want %q", dd.InstreamRef(), "HELLO\nWORLD")
	}
	if dd.Dsn != "(input stream)" {
		t.Errorf("dsn = %q, want (input stream)", dd.Dsn)
	}
}

// S5: an unlabeled DD concatenates onto the previous labeled DD with an
// incrementing offset (spec.md §8 property 5, invariant I2).
func TestAssembleDDConcatenation(t *testing.T) {
	events := []preprocess.Event{
		preprocess.StatementEvent{Card: &ast.ExecCard{Label: "STEP1", Pgm: "IEBGENER"}},
		preprocess.StatementEvent{Card: &ast.DDCard{Label: "CONCAT", Params: []ast.Param{&ast.DsnParam{Value: "A.B"}}}},
		preprocess.StatementEvent{Card: &ast.DDCard{Params: []ast.Param{&ast.DsnParam{Value: "C.D"}}}},
		preprocess.StatementEvent{Card: &ast.DDCard{Params: []ast.Param{&ast.DsnParam{Value: "E.F"}}}},
	}
	steps := Assemble(events)
	dds := steps[0].DDs
	if len(dds) != 3 {
		t.Fatalf("len(dds) = %d, want 3", len(dds))
	}
	for i, want := range []struct {
		label  string
		offset int
	}{{"CONCAT", 1}, {"CONCAT", 2}, {"CONCAT", 3}} {
		if dds[i].Label != want.label || dds[i].Offset != want.offset {
			t.Errorf("dds[%d] = {%q,%d}, want {%q,%d}", i, dds[i].Label, dds[i].Offset, want.label, want.offset)
		}
	}
}

// A DD with no preceding EXEC has nothing to attach to and is dropped.
func TestAssembleDDWithoutStepDropped(t *testing.T) {
	events := []preprocess.Event{
		preprocess.StatementEvent{Card: &ast.DDCard{Label: "ORPHAN", Dummy: true}},
	}
	steps := Assemble(events)
	if len(steps) != 0 {
		t.Errorf("steps = %v, want none", steps)
	}
}

// DSORG and other non-LRECL/RECFM/BLKSIZE sub-keys land in
// DcbAttributes, preserved verbatim (spec.md §3, §6).
func TestAssembleDcbSublistExtraFields(t *testing.T) {
	events := []preprocess.Event{
		preprocess.StatementEvent{Card: &ast.ExecCard{Label: "STEP1", Pgm: "IEBGENER"}},
		preprocess.StatementEvent{Card: &ast.DDCard{
			Label: "OUT",
			Params: []ast.Param{
				&ast.DsnParam{Value: "A.B"},
				&ast.DcbParam{Fields: []ast.DcbField{
					{Name: "LRECL", Value: "80"},
					{Name: "DSORG", Value: "PS"},
					{Name: "OPTCD", Value: "Q"},
				}},
			},
		}},
	}
	steps := Assemble(events)
	dd := steps[0].DDs[0]
	if dd.Lrecl != "80" {
		t.Errorf("lrecl = %q, want 80", dd.Lrecl)
	}
	if dd.DcbAttributes["DSORG"] != "PS" || dd.DcbAttributes["OPTCD"] != "Q" {
		t.Errorf("dcb attributes = %v, want DSORG=PS, OPTCD=Q", dd.DcbAttributes)
	}
}
