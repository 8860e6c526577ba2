package symtab

import "testing"

// TestSubstitutionPrecedence verifies spec.md §8 property 2.
func TestSubstitutionPrecedence(t *testing.T) {
	tab := New()
	tab.Set("A", "1")
	tab.Set("ABC", "9")

	if got := tab.Apply("&ABC &A"); got != "9 1" {
		t.Errorf("Apply(&ABC &A) = %q, want %q", got, "9 1")
	}
	if got := tab.Apply("&A..BC"); got != "1.BC" {
		t.Errorf("Apply(&A..BC) = %q, want %q", got, "1.BC")
	}
	if got := tab.Apply("&ABC.X"); got != "9X" {
		t.Errorf("Apply(&ABC.X) = %q, want %q", got, "9X")
	}
}

// TestProcedureScoping verifies spec.md §8 property 4.
func TestProcedureScoping(t *testing.T) {
	root := New()
	root.Set("HLQ", "PROD")

	child := root.Enter()
	child.Set("P", "FOO")

	if v, _ := child.Lookup("HLQ"); v != "PROD" {
		t.Errorf("child should see parent symbol, got %q", v)
	}
	if _, ok := root.Lookup("P"); ok {
		t.Errorf("symbol set in child leaked to parent")
	}
}

// TestIdempotence verifies spec.md §8 property 8 / invariant I4.
func TestIdempotence(t *testing.T) {
	tab := New()
	tab.Set("HLQ", "PROD")
	once := tab.Apply("&HLQ..DATA")
	twice := tab.Apply(once)
	if once != twice {
		t.Errorf("Apply is not idempotent: %q vs %q", once, twice)
	}
}

func TestParseSet(t *testing.T) {
	pairs := ParseSet("NAME='A,B',OTHER=C")
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d: %+v", len(pairs), pairs)
	}
	if pairs[0][0] != "NAME" || pairs[0][1] != "'A,B'" {
		t.Errorf("got %+v", pairs[0])
	}
}
