package ast

import "testing"

func TestExecCardStringWithPgm(t *testing.T) {
	card := &ExecCard{
		Label: "STEP1",
		Pgm:   "IEFBR14",
		Params: []Param{
			&ValueParam{Name: "PARM", Value: "FIELDS=(1,10,A)"},
		},
	}
	want := "STEP1 EXEC PGM=IEFBR14,PARM=FIELDS=(1,10,A)"
	if got := card.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestExecCardParamLookupIsCaseInsensitive(t *testing.T) {
	card := &ExecCard{Params: []Param{&ValueParam{Name: "PARM", Value: "X"}}}
	if p := card.Param("parm"); p == nil {
		t.Fatal("expected case-insensitive lookup to find PARM")
	}
	if p := card.Param("COND"); p != nil {
		t.Errorf("expected nil for absent key, got %v", p)
	}
}

func TestDDCardStringStarAndDummy(t *testing.T) {
	card := &DDCard{Label: "SYSIN", Star: true}
	want := "SYSIN DD *"
	if got := card.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	dummy := &DDCard{Label: "NEXT", Dummy: true}
	wantDummy := "NEXT DD DUMMY"
	if got := dummy.String(); got != wantDummy {
		t.Errorf("String() = %q, want %q", got, wantDummy)
	}
}

func TestDDCardUnlabeledConcatenation(t *testing.T) {
	card := &DDCard{Params: []Param{&DsnParam{Value: "B"}}}
	if card.Label != "" {
		t.Errorf("expected empty label, got %q", card.Label)
	}
	dsn, ok := card.Param("DSN").(*DsnParam)
	if !ok || dsn.Value != "B" {
		t.Errorf("dsn param = %+v, want Value=B", dsn)
	}
}

func TestDsnParamWithGdgSuffix(t *testing.T) {
	p := &DsnParam{Value: "MY.GDG.BASE", GdgRel: "+1"}
	want := "DSN=MY.GDG.BASE(+1)"
	if got := p.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDispParamString(t *testing.T) {
	p := &DispParam{Values: [3]string{"NEW", "CATLG", "DELETE"}}
	want := "DISP=(NEW,CATLG,DELETE)"
	if got := p.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDcbParamOpaqueVsSublist(t *testing.T) {
	opaque := &DcbParam{Opaque: "OTHERDD"}
	if got := opaque.String(); got != "DCB=OTHERDD" {
		t.Errorf("String() = %q, want DCB=OTHERDD", got)
	}

	sublist := &DcbParam{Fields: []DcbField{{Name: "LRECL", Value: "80"}, {Name: "RECFM", Value: "FB"}}}
	if got := sublist.String(); got != "DCB=(LRECL=80,RECFM=FB)" {
		t.Errorf("String() = %q, want DCB=(LRECL=80,RECFM=FB)", got)
	}
}
