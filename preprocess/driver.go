package preprocess

import (
	"strings"

	"github.com/jclnorm/jclextract/ast"
	"github.com/jclnorm/jclextract/library"
	"github.com/jclnorm/jclextract/procexpand"
	"github.com/jclnorm/jclextract/reassemble"
	"github.com/jclnorm/jclextract/symtab"
	"github.com/sirupsen/logrus"
)

// jobAdminOps and conditional-head operators are recognized and dropped
// without producing an event (spec.md §4.6); COND still surfaces as an
// EXEC parameter when present on an EXEC card, independent of this set.
var jobAdminOps = map[string]bool{
	"JOB": true, "CNTL": true, "ENDCNTL": true, "EXPORT": true,
	"NOTIFY": true, "OUTPUT": true, "SCHEDULE": true,
	"IF": true, "THEN": true, "ELSE": true, "ENDIF": true,
}

// cardParser is the seam the Driver calls into the Grammar + Transformer
// component through (spec.md §4.7); it is a function value so tests can
// stub parse failures without constructing real token streams.
type cardParser func(cardType, label, operand string) (ast.Card, []string)

// SourceReader resolves and reads the raw card lines of an included
// member or external procedure. This package has no implementation of
// its own (the command-line tool supplies one that reads plain files);
// PDS/z-dataset access strategy is explicitly out of scope (spec.md §1)
// and left to a caller-supplied implementation.
type SourceReader interface {
	ReadLines(path string) ([]string, error)
}

// Driver orchestrates the card -> statement pipeline (spec.md §4.6): it
// owns the process-wide procedure map and library resolver for the
// lifetime of one deck (spec.md §9).
type Driver struct {
	Resolver   *library.Resolver
	Source     SourceReader
	Log        *logrus.Logger
	procedures map[string]*procexpand.Procedure
	parse      cardParser
}

// New creates a Driver. parse is normally jclextract.ParseCard; it is
// accepted as a parameter to keep this package free of a dependency on
// the facade package, avoiding an import cycle risk as the facade grows.
func New(resolver *library.Resolver, source SourceReader, log *logrus.Logger, parse cardParser) *Driver {
	if log == nil {
		log = logrus.New()
	}
	return &Driver{
		Resolver:   resolver,
		Source:     source,
		Log:        log,
		procedures: map[string]*procexpand.Procedure{},
		parse:      parse,
	}
}

// Run preprocesses one deck's raw card lines, starting with a fresh root
// symbol table, and returns the emitted event stream.
func (d *Driver) Run(lines []string) []Event {
	return d.run(symtab.New(), lines)
}

func (d *Driver) run(symbols *symtab.Table, lines []string) []Event {
	var events []Event
	ra := reassemble.New()
	i := 0

	for i < len(lines) {
		line := lines[i]
		i++

		stmt, ok := ra.Feed(line)
		if !ok {
			continue
		}
		stmt.Operand = symbols.Apply(stmt.Operand)
		op := strings.ToUpper(stmt.Operator)

		switch {
		case jobAdminOps[op]:
			continue

		case op == "JCLLIB":
			d.Resolver.PrependLibs(parseOrderList(stmt.Operand))

		case op == "SET":
			for _, kv := range symtab.ParseSet(stmt.Operand) {
				symbols.Set(kv[0], kv[1])
			}

		case op == "PROC":
			name := strings.ToUpper(stmt.Label)
			defaults := symtab.ParseSet(stmt.Operand)
			body, next := procexpand.CaptureBody(lines, i)
			i = next
			d.procedures[name] = &procexpand.Procedure{Name: name, Defaults: defaults, Body: body}

		case op == "INCLUDE":
			member := extractKeyword(stmt.Operand, "MEMBER")
			included, err := d.resolveAndRead(member)
			if err != nil {
				d.Log.WithFields(logrus.Fields{"member": member}).Warnf("include: %v", err)
				continue
			}
			events = append(events, d.run(symbols, included)...)

		case op == "EXEC":
			events = append(events, d.dispatchExec(symbols, stmt)...)

		case op == "DD":
			ddEvents, consumed := d.dispatchDD(stmt, lines, i)
			i = consumed
			events = append(events, ddEvents...)

		default:
			// Other statement types carry no structure this system
			// models (spec.md §1 Non-goals); nothing downstream
			// consumes them, so no event is produced.
		}
	}

	return events
}

func (d *Driver) dispatchExec(symbols *symtab.Table, stmt *reassemble.Statement) []Event {
	card, errs := d.parse("EXEC", stmt.Label, stmt.Operand)
	if len(errs) > 0 {
		d.Log.WithField("label", stmt.Label).Warnf("parse EXEC: %v", errs)
		return nil
	}
	execCard := card.(*ast.ExecCard)

	if execCard.Pgm != "" {
		return []Event{StatementEvent{Card: execCard}}
	}

	def, found := d.procedures[strings.ToUpper(execCard.Proc)]
	var bodyLines []string
	var defaults [][2]string
	if found {
		bodyLines = def.Body
		defaults = def.Defaults
	} else if lines, err := d.resolveAndRead(execCard.Proc); err == nil {
		bodyLines = lines
	}

	if bodyLines == nil {
		// Neither in-stream nor resolvable: pass through unchanged
		// (spec.md §4.5 "Expansion").
		return []Event{StatementEvent{Card: execCard}}
	}

	child := procexpand.BindOverrides(symbols, defaults, execCard.Params)

	events := []Event{ProcStartEvent{CallerLabel: stmt.Label, ProcName: strings.ToUpper(execCard.Proc)}}
	events = append(events, d.run(child, bodyLines)...)
	events = append(events, ProcEndEvent{})
	return events
}

func (d *Driver) dispatchDD(stmt *reassemble.Statement, lines []string, next int) ([]Event, int) {
	card, errs := d.parse("DD", stmt.Label, stmt.Operand)
	if len(errs) > 0 {
		d.Log.WithField("label", stmt.Label).Warnf("parse DD: %v", errs)
		return nil, next
	}
	ddCard := card.(*ast.DDCard)

	events := []Event{StatementEvent{Card: ddCard}}
	if !ddCard.Star && !ddCard.Data {
		return events, next
	}

	dlm := ""
	if p, ok := ddCard.Param("DLM").(*ast.ValueParam); ok {
		dlm = p.Value
	}
	payload, consumed := capturePayload(lines, next, dlm)
	for _, l := range payload {
		events = append(events, PayloadEvent{Line: l})
	}
	return events, consumed
}

func (d *Driver) resolveAndRead(member string) ([]string, error) {
	if member == "" {
		return nil, errNoMember
	}
	path, err := d.Resolver.Resolve(member)
	if err != nil {
		return nil, err
	}
	return d.Source.ReadLines(path)
}

var errNoMember = memberError("no member name given")

type memberError string

func (e memberError) Error() string { return string(e) }

// capturePayload reads raw in-stream data lines until the terminator
// (spec.md §4.6): a DLM-specified two-character prefix (consumed), or by
// default any card whose first two characters are "//" or "/*"
// (exclusive, left for normal dispatch).
func capturePayload(lines []string, start int, dlm string) (payload []string, next int) {
	i := start
	for i < len(lines) {
		line := truncate72(lines[i])
		if dlm != "" {
			if len(line) >= 2 && strings.EqualFold(line[:2], dlm) {
				return payload, i + 1
			}
		} else if len(line) >= 2 && (line[:2] == "//" || line[:2] == "/*") {
			return payload, i
		}
		payload = append(payload, line)
		i++
	}
	return payload, i
}

func truncate72(s string) string {
	r := []rune(s)
	if len(r) <= 72 {
		return s
	}
	return string(r[:72])
}

// parseOrderList extracts the root list from "ORDER=(a,b,...)" or
// "ORDER=a" (spec.md §4.1).
func parseOrderList(operand string) []string {
	v := extractKeyword(operand, "ORDER")
	v = strings.TrimPrefix(v, "(")
	v = strings.TrimSuffix(v, ")")
	if v == "" {
		return nil
	}
	var roots []string
	for _, part := range strings.Split(v, ",") {
		part = strings.Trim(strings.TrimSpace(part), "'")
		if part != "" {
			roots = append(roots, part)
		}
	}
	return roots
}

// extractKeyword finds "KEY=value" (value may be a parenthesized sublist)
// within a comma-separated operand list and returns value as written.
func extractKeyword(operand, key string) string {
	for _, field := range splitTopLevel(operand) {
		field = strings.TrimSpace(field)
		eq := strings.IndexByte(field, '=')
		if eq < 0 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(field[:eq]), key) {
			return strings.TrimSpace(field[eq+1:])
		}
	}
	return ""
}

// splitTopLevel splits s on commas that are not nested inside parentheses
// or a single-quoted value, so "ORDER=(a,b,c)" is not torn apart.
func splitTopLevel(s string) []string {
	var fields []string
	var cur strings.Builder
	depth := 0
	inQuote := false
	for _, ch := range s {
		switch {
		case ch == '\'':
			inQuote = !inQuote
			cur.WriteRune(ch)
		case inQuote:
			cur.WriteRune(ch)
		case ch == '(':
			depth++
			cur.WriteRune(ch)
		case ch == ')':
			depth--
			cur.WriteRune(ch)
		case ch == ',' && depth == 0:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(ch)
		}
	}
	if cur.Len() > 0 {
		fields = append(fields, cur.String())
	}
	return fields
}
