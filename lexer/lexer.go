// Package lexer implements a lexical scanner for the operand field of an
// EXEC or DD statement (everything after the operator keyword).
package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/jclnorm/jclextract/token"
)

// identChars are additionally accepted inside an IDENT beyond letters and
// digits, to admit composite dataset names, symbolics left unresolved by
// an upstream substitution failure, and GDG suffixes (spec.md §4.7).
const identChars = ".#$@&*-+<>"

// Lexer represents a lexical scanner for EXEC/DD operand text.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           rune
	line         int
	column       int
}

// New creates a new Lexer for the given operand text.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
	} else {
		r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.position = l.readPosition
		l.readPosition += size
	}
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}
}

// NextToken returns the next token from the operand text.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	var tok token.Token
	tok.Line = l.line
	tok.Column = l.column

	switch l.ch {
	case ',':
		tok = l.newToken(token.COMMA, ",")
	case '(':
		tok = l.newToken(token.LPAREN, "(")
	case ')':
		tok = l.newToken(token.RPAREN, ")")
	case '=':
		tok = l.newToken(token.EQ, "=")
	case '\'':
		tok.Type = token.STRING
		tok.Literal = l.readQuotedString()
		return tok
	case '*':
		// A bare * stands alone as the in-stream marker (DD *); inside a
		// value it is caught by readBareValue via identChars instead.
		if l.peekChar() == 0 || l.peekChar() == ',' {
			tok = l.newToken(token.STAR, "*")
		} else {
			tok.Literal = l.readBareValue()
			tok.Type = token.LookupIdent(strings.ToUpper(tok.Literal))
			return tok
		}
	case 0:
		tok.Literal = ""
		tok.Type = token.EOF
	default:
		if isDigit(l.ch) {
			tok.Literal = l.readNumber()
			tok.Type = token.NUMBER
			return tok
		}
		if isIdentStart(l.ch) {
			tok.Literal = l.readBareValue()
			tok.Type = token.LookupIdent(strings.ToUpper(tok.Literal))
			return tok
		}
		tok = l.newToken(token.ILLEGAL, string(l.ch))
	}

	l.readChar()
	return tok
}

func (l *Lexer) newToken(t token.Type, lit string) token.Token {
	return token.Token{Type: t, Literal: lit, Line: l.line, Column: l.column}
}

// readBareValue reads an unquoted identifier/value: letters, digits, and
// identChars, stopping at whitespace, comma, or parens.
func (l *Lexer) readBareValue() string {
	start := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readQuotedString reads a single-quoted string, honoring doubled
// embedded quotes ('' -> literal ').
func (l *Lexer) readQuotedString() string {
	var sb strings.Builder
	l.readChar() // consume opening quote
	for {
		if l.ch == 0 {
			break
		}
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				sb.WriteRune('\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // consume closing quote
			break
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return sb.String()
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return ch >= 'A' && ch <= 'Z' || ch >= 'a' && ch <= 'z' || strings.ContainsRune(identChars, ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}

// Tokenize returns all tokens from the operand text, including the
// trailing EOF token.
func Tokenize(input string) []token.Token {
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks
}
