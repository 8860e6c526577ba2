package parser

import (
	"testing"

	"github.com/jclnorm/jclextract/ast"
	"github.com/jclnorm/jclextract/lexer"
)

func checkErrors(t *testing.T, p *Parser) {
	t.Helper()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parser errors: %v", errs)
	}
}

func TestParseExecPgm(t *testing.T) {
	p := New(lexer.New("PGM=IEFBR14"))
	card := p.ParseExecCard("STEP1")
	checkErrors(t, p)
	if card.Pgm != "IEFBR14" || card.Label != "STEP1" {
		t.Errorf("got %+v", card)
	}
}

func TestParseExecWithParms(t *testing.T) {
	p := New(lexer.New("PGM=SORT,PARM='FIELDS=(1,10,A)',REGION=4M,COND=(4,LT)"))
	card := p.ParseExecCard("STEP2")
	checkErrors(t, p)

	parm, ok := card.Param("PARM").(*ast.ValueParam)
	if !ok {
		t.Fatalf("missing or wrong-typed PARM: %+v", card.Param("PARM"))
	}
	if parm.Value != "FIELDS=(1,10,A)" {
		t.Errorf("PARM value = %q", parm.Value)
	}
	if card.Param("COND") == nil {
		t.Fatalf("missing COND")
	}
}

func TestParseExecProcedureInvocation(t *testing.T) {
	p := New(lexer.New("MYPROC,P=BAR"))
	card := p.ParseExecCard("CALL")
	checkErrors(t, p)
	if card.Proc != "MYPROC" {
		t.Errorf("Proc = %q", card.Proc)
	}
	if len(card.Params) != 1 || card.Params[0].Key() != "P" {
		t.Errorf("params = %+v", card.Params)
	}
}

// TestParseDispTuple verifies spec.md §8 scenario S2.
func TestParseDispTuple(t *testing.T) {
	p := New(lexer.New("DSN=A.B,DISP=(NEW,CATLG,DELETE)"))
	card := p.ParseDDCard("OUT")
	checkErrors(t, p)

	disp := card.Param("DISP")
	if disp == nil {
		t.Fatalf("missing DISP")
	}
	dp, ok := disp.(*ast.DispParam)
	if !ok {
		t.Fatalf("DISP is %T", disp)
	}
	if dp.Values != [3]string{"NEW", "CATLG", "DELETE"} {
		t.Errorf("DISP values = %v", dp.Values)
	}
}

func TestParseDDStarWithDummy(t *testing.T) {
	p := New(lexer.New("*"))
	card := p.ParseDDCard("SYSIN")
	checkErrors(t, p)
	if !card.Star {
		t.Errorf("expected Star DD")
	}

	p2 := New(lexer.New("DUMMY"))
	card2 := p2.ParseDDCard("NEXT")
	checkErrors(t, p2)
	if !card2.Dummy {
		t.Errorf("expected Dummy DD")
	}
}

func TestParseDDConcatenation(t *testing.T) {
	p := New(lexer.New("DSN=B"))
	card := p.ParseDDCard("")
	checkErrors(t, p)
	if card.Label != "" {
		t.Errorf("expected unlabeled continuation DD")
	}
	if card.Param("DSN").String() != "DSN=B" {
		t.Errorf("got %v", card.Param("DSN"))
	}
}

func TestParseSpaceFlattened(t *testing.T) {
	p := New(lexer.New("SPACE=(CYL,(10,5),RLSE)"))
	card := p.ParseDDCard("OUT")
	checkErrors(t, p)
	sp := card.Param("SPACE")
	if sp == nil {
		t.Fatalf("missing SPACE")
	}
}

func TestParseDcbSublist(t *testing.T) {
	p := New(lexer.New("DCB=(LRECL=80,BLKSIZE=800,RECFM=FB)"))
	card := p.ParseDDCard("OUT")
	checkErrors(t, p)
	dcb := card.Param("DCB")
	if dcb == nil {
		t.Fatalf("missing DCB")
	}
}

func TestParseDsnWithGdg(t *testing.T) {
	p := New(lexer.New("DSN=PROD.DATA(+1),DISP=SHR"))
	card := p.ParseDDCard("IN")
	checkErrors(t, p)
	dsn := card.Param("DSN")
	if dsn.String() != "DSN=PROD.DATA(+1)" {
		t.Errorf("got %q", dsn.String())
	}
}
