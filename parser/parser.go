// Package parser implements a recursive-descent parser for the EXEC and
// DD parameter grammar (spec.md §4.7).
package parser

import (
	"fmt"
	"strings"

	"github.com/jclnorm/jclextract/ast"
	"github.com/jclnorm/jclextract/lexer"
	"github.com/jclnorm/jclextract/token"
)

// DISP values are not checked against the recognized DISP vocabulary
// (spec.md §4.7); parsing does not reject unrecognized values, it simply
// records what was written, matching the system's "record, don't
// validate" stance (spec.md §1 Non-goals).

// Parser represents a parser over one statement's operand text.
type Parser struct {
	l      *lexer.Lexer
	errors []string

	curToken  token.Token
	peekToken token.Token
}

// New creates a new Parser positioned at the start of the operand text.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l, errors: []string{}}
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the diagnostics collected while parsing.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) addErrorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekToken.Type != t {
		p.addErrorf("line %d: expected %s, got %s (%q)", p.peekToken.Line, t, p.peekToken.Type, p.peekToken.Literal)
		return false
	}
	p.nextToken()
	return true
}

// ParseExecCard parses the operand text of an EXEC statement.
func (p *Parser) ParseExecCard(label string) *ast.ExecCard {
	card := &ast.ExecCard{Label: label}

	switch p.curToken.Type {
	case token.PGM:
		if !p.expectPeek(token.EQ) {
			return card
		}
		p.nextToken()
		card.Pgm = p.curToken.Literal
		p.nextToken()
	case token.PROC:
		if !p.expectPeek(token.EQ) {
			return card
		}
		p.nextToken()
		card.Proc = p.curToken.Literal
		p.nextToken()
	case token.IDENT:
		// Positional procedure name: bare identifier not followed by '='.
		if p.peekToken.Type != token.EQ {
			card.Proc = p.curToken.Literal
			p.nextToken()
		}
	}

	card.Params = p.parseParamList()
	return card
}

// ParseDDCard parses the operand text of a DD statement.
func (p *Parser) ParseDDCard(label string) *ast.DDCard {
	card := &ast.DDCard{Label: label}

	for {
		switch p.curToken.Type {
		case token.STAR:
			card.Star = true
			p.nextToken()
		case token.DATA:
			card.Data = true
			p.nextToken()
		case token.DUMMY:
			card.Dummy = true
			p.nextToken()
		default:
			goto params
		}
		if p.curToken.Type == token.COMMA {
			p.nextToken()
			continue
		}
		break
	}

params:
	card.Params = append(card.Params, p.parseParamList()...)
	return card
}

// parseParamList parses a comma-separated list of name[=value] parameters
// until EOF.
func (p *Parser) parseParamList() []ast.Param {
	var params []ast.Param
	for p.curToken.Type != token.EOF {
		if p.curToken.Type == token.COMMA {
			p.nextToken()
			continue
		}
		param := p.parseParam()
		if param != nil {
			params = append(params, param)
		} else {
			// Avoid an infinite loop on an unrecognized token.
			p.nextToken()
		}
	}
	return params
}

func (p *Parser) parseParam() ast.Param {
	switch p.curToken.Type {
	case token.DSN:
		return p.parseDsn()
	case token.DISP:
		return p.parseDisp()
	case token.SPACE:
		return p.parseSpace()
	case token.VOL:
		return p.parseVol()
	case token.DCB:
		return p.parseDcb()
	case token.STAR:
		p.nextToken()
		return &ast.ValueParam{Name: "", Value: "*"}
	case token.DATA:
		p.nextToken()
		return &ast.ValueParam{Name: "", Value: "DATA"}
	case token.DUMMY:
		p.nextToken()
		return &ast.ValueParam{Name: "DUMMY", Value: ""}
	case token.PARM, token.COND, token.REGION, token.TIME, token.UNIT,
		token.LRECL, token.BLKSIZE, token.RECFM, token.DSORG, token.DLM,
		token.SYSOUT, token.COPIES, token.DEST, token.RETPD,
		token.DSNTYPE, token.STORCLAS:
		return p.parseNamedValue(strings.ToUpper(p.curToken.Type.String()))
	case token.IDENT:
		// Generic name=value fallback for symbolic overrides
		// (spec.md §4.7).
		name := p.curToken.Literal
		if p.peekToken.Type != token.EQ {
			p.nextToken()
			return &ast.ValueParam{Name: name, Value: ""}
		}
		return p.parseNamedValue(name)
	default:
		p.addErrorf("line %d: unexpected token %s (%q) in parameter list", p.curToken.Line, p.curToken.Type, p.curToken.Literal)
		return nil
	}
}

// parseNamedValue parses NAME=value where value is a bare token, a quoted
// string, or a parenthesized list.
func (p *Parser) parseNamedValue(name string) ast.Param {
	if !p.expectPeek(token.EQ) {
		return &ast.ValueParam{Name: name}
	}
	p.nextToken()
	if p.curToken.Type == token.LPAREN {
		values := p.parseParenList()
		return &ast.ListParam{Name: name, Values: values}
	}
	value := p.curToken.Literal
	p.nextToken()
	return &ast.ValueParam{Name: name, Value: value}
}

// parseParenList parses (v1,v2,...) and leaves curToken on the token
// following the closing paren. A nested parenthesized list is kept as one
// value, e.g. "(10,5)".
func (p *Parser) parseParenList() []string {
	var values []string
	p.nextToken() // consume '('
	for p.curToken.Type != token.RPAREN && p.curToken.Type != token.EOF {
		if p.curToken.Type == token.COMMA {
			p.nextToken()
			continue
		}
		if p.curToken.Type == token.LPAREN {
			values = append(values, "("+strings.Join(p.parseParenList(), ",")+")")
			continue
		}
		values = append(values, p.curToken.Literal)
		p.nextToken()
	}
	if p.curToken.Type == token.RPAREN {
		p.nextToken()
	}
	return values
}

// parseDsn parses DSN=value, optionally followed by a GDG suffix
// "(±N)" concatenated directly onto the dataset name (spec.md §4.7).
func (p *Parser) parseDsn() ast.Param {
	if !p.expectPeek(token.EQ) {
		return &ast.DsnParam{Name: "DSN"}
	}
	p.nextToken()
	value := p.curToken.Literal
	p.nextToken()
	param := &ast.DsnParam{Name: "DSN", Value: value}
	if p.curToken.Type == token.LPAREN {
		p.nextToken()
		if p.curToken.Type != token.RPAREN {
			param.GdgRel = p.curToken.Literal
			p.nextToken()
		}
		if p.curToken.Type == token.RPAREN {
			p.nextToken()
		}
	}
	return param
}

// parseDisp parses DISP=val or DISP=(val[,val[,val]]); omitted positions,
// e.g. the status in DISP=(,KEEP), are left as empty strings.
func (p *Parser) parseDisp() ast.Param {
	if !p.expectPeek(token.EQ) {
		return &ast.DispParam{}
	}
	p.nextToken()
	param := &ast.DispParam{}
	if p.curToken.Type == token.LPAREN {
		p.nextToken() // consume '('
		pos := 0
		for p.curToken.Type != token.RPAREN && p.curToken.Type != token.EOF {
			if p.curToken.Type == token.COMMA {
				pos++
			} else if pos < 3 {
				param.Values[pos] = p.curToken.Literal
			}
			p.nextToken()
		}
		if p.curToken.Type == token.RPAREN {
			p.nextToken()
		}
		return param
	}
	param.Values[0] = p.curToken.Literal
	p.nextToken()
	return param
}

// parseSpace flattens SPACE=(UNIT,qty[,RLSE][,CONTIG][,ROUND]) into a
// canonical string, as mandated by spec.md §4.7.
func (p *Parser) parseSpace() ast.Param {
	if !p.expectPeek(token.EQ) {
		return &ast.SpaceParam{}
	}
	p.nextToken()
	if p.curToken.Type == token.LPAREN {
		values := p.parseParenList()
		return &ast.SpaceParam{Canonical: "(" + strings.Join(values, ",") + ")"}
	}
	v := p.curToken.Literal
	p.nextToken()
	return &ast.SpaceParam{Canonical: v}
}

// parseVol parses VOL=SER=(value|list).
func (p *Parser) parseVol() ast.Param {
	if !p.expectPeek(token.EQ) {
		return &ast.VolParam{}
	}
	if !p.expectPeek(token.SER) {
		return &ast.VolParam{}
	}
	if !p.expectPeek(token.EQ) {
		return &ast.VolParam{}
	}
	p.nextToken()
	if p.curToken.Type == token.LPAREN {
		return &ast.VolParam{Ser: p.parseParenList()}
	}
	v := p.curToken.Literal
	p.nextToken()
	return &ast.VolParam{Ser: []string{v}}
}

// parseDcb parses DCB=value (an opaque reference to another DD's DCB) or
// DCB=(sublist) where sublist items are LRECL/RECFM/BLKSIZE/DSORG and/or
// symbolic overrides.
func (p *Parser) parseDcb() ast.Param {
	if !p.expectPeek(token.EQ) {
		return &ast.DcbParam{}
	}
	p.nextToken()
	if p.curToken.Type != token.LPAREN {
		v := p.curToken.Literal
		p.nextToken()
		return &ast.DcbParam{Opaque: v}
	}
	p.nextToken() // consume '('
	var fields []ast.DcbField
	for p.curToken.Type != token.RPAREN && p.curToken.Type != token.EOF {
		if p.curToken.Type == token.COMMA {
			p.nextToken()
			continue
		}
		name := strings.ToUpper(p.curToken.Type.String())
		if p.curToken.Type == token.IDENT {
			name = p.curToken.Literal
		}
		if p.peekToken.Type == token.EQ {
			p.nextToken() // on name
			p.nextToken() // on '='
			val := p.curToken.Literal
			fields = append(fields, ast.DcbField{Name: name, Value: val})
			p.nextToken()
		} else {
			fields = append(fields, ast.DcbField{Name: name, Value: p.curToken.Literal})
			p.nextToken()
		}
	}
	if p.curToken.Type == token.RPAREN {
		p.nextToken()
	}
	return &ast.DcbParam{Fields: fields}
}
