// Package symtab implements the Symbol Table (spec.md §4.4): symbolic
// substitution with longest-name-first precedence and dotted-suffix
// disambiguation, scoped as a parent-linked frame chain (spec.md §9
// design note, avoiding a whole-table deep copy per procedure call).
package symtab

import (
	"sort"
	"strings"
)

// Table is one scope frame of symbolic bindings.
type Table struct {
	parent *Table
	values map[string]string
}

// New creates a new, empty root Table.
func New() *Table {
	return &Table{values: map[string]string{}}
}

// Enter pushes a new child frame for procedure expansion; symbols set in
// the child are invisible once the child is discarded (spec.md §8
// property 4).
func (t *Table) Enter() *Table {
	return &Table{parent: t, values: map[string]string{}}
}

// Set stores a symbolic binding on this frame, upper-casing the name and
// stripping surrounding single quotes from the value (spec.md §4.4).
func (t *Table) Set(name, value string) {
	name = strings.ToUpper(strings.TrimSpace(name))
	t.values[name] = stripQuotes(value)
}

// Lookup walks this frame and its ancestors for name.
func (t *Table) Lookup(name string) (string, bool) {
	name = strings.ToUpper(name)
	for f := t; f != nil; f = f.parent {
		if v, ok := f.values[name]; ok {
			return v, true
		}
	}
	return "", false
}

// names returns every bound name visible from this frame, longest first
// (spec.md §4.4: "iterates names in descending length order").
func (t *Table) names() []string {
	seen := map[string]bool{}
	var names []string
	for f := t; f != nil; f = f.parent {
		for n := range f.values {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

// Apply substitutes every known symbol into stmt, longest name first, in
// the three-form order of spec.md §4.4: "&NAME.." -> "VALUE.", then
// "&NAME." -> "VALUE", then "&NAME" -> "VALUE".
func (t *Table) Apply(stmt string) string {
	out := stmt
	for _, name := range t.names() {
		value, _ := t.Lookup(name)
		out = strings.ReplaceAll(out, "&"+name+"..", value+".")
		out = strings.ReplaceAll(out, "&"+name+".", value)
		out = strings.ReplaceAll(out, "&"+name, value)
	}
	return out
}

// ParseSet splits a SET statement's operand "NAME=VALUE[,NAME=VALUE...]"
// into ordered name/value pairs, respecting quoted values that may
// themselves contain commas.
func ParseSet(operand string) [][2]string {
	var pairs [][2]string
	for _, field := range splitRespectingQuotes(operand) {
		eq := strings.IndexByte(field, '=')
		if eq < 0 {
			continue
		}
		pairs = append(pairs, [2]string{field[:eq], field[eq+1:]})
	}
	return pairs
}

// splitRespectingQuotes splits s on commas that are not inside a
// single-quoted value.
func splitRespectingQuotes(s string) []string {
	var fields []string
	var cur strings.Builder
	inQuote := false
	for _, ch := range s {
		switch {
		case ch == '\'':
			inQuote = !inQuote
			cur.WriteRune(ch)
		case ch == ',' && !inQuote:
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

func stripQuotes(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && strings.HasPrefix(v, "'") && strings.HasSuffix(v, "'") {
		return v[1 : len(v)-1]
	}
	return v
}
