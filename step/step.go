// Package step implements the Step Assembler (spec.md §4.8): consuming
// the preprocessor's event stream and building the ordered step/DD tree
// that is later persisted (spec.md §6).
package step

import (
	"strings"

	"github.com/jclnorm/jclextract/ast"
)

// Disp is the parsed DISP tuple (spec.md §3).
type Disp struct {
	Status       string
	NormalTerm   string
	AbnormalTerm string
}

// DD is one data-definition allocation belonging to the most recent step
// (spec.md §3).
type DD struct {
	Label         string // dd_name
	Offset        int    // allocation_offset: 1 for the labeled DD, incrementing per unlabeled follower
	Dsn           string // normalized; surrogate values per spec.md §6 when absent
	Disp          Disp
	Unit          string
	VolSer        string
	Dummy         bool
	InstreamLines []string // raw payload lines, if any
	Lrecl         string
	Blksize       string
	Recfm         string
	// DcbAttributes holds DCB sub-keys other than LRECL/RECFM/BLKSIZE
	// (including DSORG), preserved verbatim (spec.md §3, §6).
	DcbAttributes map[string]string
}

// InstreamRef joins the captured payload lines the way spec.md §8
// scenario S4 expects ("HELLO\nWORLD").
func (d *DD) InstreamRef() string {
	if len(d.InstreamLines) == 0 {
		return ""
	}
	return strings.Join(d.InstreamLines, "\n")
}

// Step is one EXEC invocation and its trailing DDs (spec.md §3).
type Step struct {
	StepName     string // caller-visible step name
	ProcStepName string // callee-visible proc-step name; empty unless expanded
	ProgramName  string // PGM= target; empty if a procedure invocation
	ProcName     string // invoked or enclosing procedure name; empty for a plain PGM step
	Cond         string // COND= verbatim, if present (spec.md §9 Open Question 1)
	Parm         string
	Region       string
	Time         string
	DDs          []*DD
}

// classifyDsn implements the surrogate-DSN rules of spec.md §6. A DSN=
// value, including a temporary (&&NAME) or referback (*.STEP.DD) name, is
// returned as written. "(work_ds)" is given to every DD that has none of
// DSN=, DUMMY, * / DATA or SYSOUT=, without telling those cases apart.
func classifyDsn(dd *ast.DDCard) string {
	if dsn := dd.Param("DSN"); dsn != nil {
		if v, ok := dsn.(*ast.DsnParam); ok {
			if v.GdgRel != "" {
				return v.Value + "(" + v.GdgRel + ")"
			}
			return v.Value
		}
	}
	if dd.Dummy {
		return "(dummy)"
	}
	if dd.Star || dd.Data {
		return "(input stream)"
	}
	if sysout := dd.Param("SYSOUT"); sysout != nil {
		return "(output stream)"
	}
	return "(work_ds)"
}
