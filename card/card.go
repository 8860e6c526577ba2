// Package card implements the Card Normalizer (spec.md §4.2): cleaning one
// physical card into either a dropped comment/marker or the label,
// operator, and comment-stripped operand of a statement card.
package card

import "strings"

// maxColumn is the last significant column; anything beyond is discarded.
const maxColumn = 72

// Card is the normalized result of one physical line.
type Card struct {
	Label    string // header cards only; empty for continuation cards
	Operator string // header cards only; empty for continuation cards
	Operand  string // comment-stripped operand text
}

// Normalize cleans one physical card. continuing indicates whether this
// card is a continuation of a still-open statement (the reassembler's
// state, not derivable from the card alone). It returns (Card{}, false)
// for cards that should be dropped entirely: "//*" comments, the bare
// end-of-job "//" marker, and "/*" markers (spec.md §4.2).
//
// In-stream payload cards are never passed to Normalize: the preprocessor
// driver captures them directly from the raw card stream (spec.md §4.6).
func Normalize(raw string, continuing bool) (Card, bool) {
	trunc := truncate(raw, maxColumn)

	if continuing {
		content := strings.TrimLeft(strings.TrimPrefix(trunc, "//"), " \t")
		return Card{Operand: stripTrailingComment(content)}, true
	}

	if strings.HasPrefix(trunc, "//*") {
		return Card{}, false
	}
	if strings.HasPrefix(trunc, "/*") {
		return Card{}, false
	}
	if strings.TrimRight(trunc, " ") == "//" {
		return Card{}, false
	}
	if !strings.HasPrefix(trunc, "//") {
		// Not a card belonging to this deck's "//" convention; drop.
		return Card{}, false
	}

	content := trunc[2:]
	label, operator, rest := splitHeader(content)
	return Card{Label: label, Operator: operator, Operand: stripTrailingComment(rest)}, true
}

func truncate(s string, cols int) string {
	r := []rune(s)
	if len(r) <= cols {
		return s
	}
	return string(r[:cols])
}

// splitHeader splits "LABEL OPERATOR rest..." (LABEL may be absent when
// content begins with whitespace) into its three fields.
func splitHeader(content string) (label, operator, rest string) {
	r := []rune(content)
	n := len(r)
	i := 0

	if n > 0 && !isSpace(r[0]) {
		j := i
		for j < n && !isSpace(r[j]) {
			j++
		}
		label = string(r[i:j])
		i = j
	}
	for i < n && isSpace(r[i]) {
		i++
	}
	j := i
	for j < n && !isSpace(r[j]) {
		j++
	}
	operator = string(r[i:j])
	i = j
	for i < n && isSpace(r[i]) {
		i++
	}
	rest = string(r[i:])
	return label, operator, rest
}

// stripTrailingComment scans for the first unquoted space and treats
// everything from there on as an in-line comment (spec.md §4.2, §8
// property 1). A single quote toggles an in-quote state that suppresses
// space-as-terminator.
func stripTrailingComment(s string) string {
	r := []rune(s)
	inQuote := false
	for i, ch := range r {
		if ch == '\'' {
			inQuote = !inQuote
			continue
		}
		if ch == ' ' && !inQuote {
			return strings.TrimRight(string(r[:i]), " ")
		}
	}
	return strings.TrimRight(s, " ")
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\t'
}
