package logic

import "testing"

// TestGroupLiteralsResolvesContradictions tests the cases that resolve before any plugin runs
func TestGroupLiteralsResolvesContradictions(t *testing.T) {
	tests := []struct {
		name string
		conj Conjunction
	}{
		{"false literal", Conjunction{{Predicate: Pattern{"a"}}, {Predicate: Bool(false)}}},
		{"negated true", Conjunction{{Predicate: Bool(true), Negated: true}}},
		{
			"disjoint types",
			Conjunction{{Predicate: Type{SetOf(TypeString)}}, {Predicate: Type{SetOf(TypeNumber, TypeNull)}}},
		},
		{
			"const outside type",
			Conjunction{{Predicate: Type{SetOf(TypeString)}}, {Predicate: Const{5.0}}},
		},
		{
			"two constants of different types",
			Conjunction{{Predicate: Const{"5"}}, {Predicate: Const{5.0}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := GroupLiterals(tt.conj)
			if !g.Resolved || g.Value {
				t.Errorf("expected conjunction resolved to false, got resolved=%v value=%v", g.Resolved, g.Value)
			}
		})
	}
}

// TestGroupLiteralsNarrowsTypes tests type intersection and bucketing
func TestGroupLiteralsNarrowsTypes(t *testing.T) {
	g := GroupLiterals(Conjunction{
		{Predicate: Type{SetOf(TypeString, TypeNumber, TypeArray)}},
		{Predicate: Bool(true)},
		{Predicate: Type{SetOf(TypeArray)}, Negated: true},
		{Predicate: MinLength{2}},
		{Predicate: Pattern{"^a"}, Negated: true},
		{Predicate: Const{"ab"}, Negated: true},
	})

	if g.Resolved {
		t.Fatal("expected unresolved grouping")
	}
	if want := SetOf(TypeString, TypeNumber); g.Types != want {
		t.Errorf("expected types %v, got %v", want, g.Types)
	}
	if len(g.Asserted[KindMinLength]) != 1 {
		t.Errorf("expected one asserted minLength, got %v", g.Asserted[KindMinLength])
	}
	if len(g.Negated[KindPattern]) != 1 || len(g.Negated[KindConst]) != 1 {
		t.Errorf("expected negated pattern and const, got %v", g.Negated)
	}
	if len(g.Literals) != 6 {
		t.Errorf("expected the full conjunction to be kept, got %d literals", len(g.Literals))
	}

	if got := g.Applicable(TypeNumber); len(got) != 0 {
		t.Errorf("expected no literal applicable to numbers, got %v", got)
	}
	if got := g.Applicable(TypeString); len(got) != 3 {
		t.Errorf("expected 3 literals applicable to strings, got %v", got)
	}

	n := g.Narrow(TypeNumber)
	if len(n.Asserted) != 0 || len(n.Negated) != 0 {
		t.Errorf("expected nothing left for numbers, got %v / %v", n.Asserted, n.Negated)
	}
}

// TestGroupLiteralsOnlyTypes tests that a conjunction of types resolves to true
func TestGroupLiteralsOnlyTypes(t *testing.T) {
	g := GroupLiterals(Conjunction{{Predicate: Type{SetOf(TypeObject, TypeNull)}}})
	if !g.Resolved || !g.Value {
		t.Fatalf("expected resolved true, got resolved=%v value=%v", g.Resolved, g.Value)
	}
	if g.Types != SetOf(TypeObject, TypeNull) {
		t.Errorf("expected object and null, got %v", g.Types)
	}

	g = GroupLiterals(Conjunction{})
	if !g.Resolved || !g.Value || !g.Types.IsUniverse() {
		t.Errorf("expected empty conjunction to be true over every type, got %+v", g)
	}
}
