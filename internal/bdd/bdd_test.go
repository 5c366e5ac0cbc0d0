package bdd

import "testing"

func TestConstants(t *testing.T) {
	b := New()
	if !b.IsTrue(b.True()) || !b.IsFalse(b.False()) {
		t.Fatalf("constant nodes misreport themselves")
	}
	if b.True() == b.False() {
		t.Fatalf("true and false share a node")
	}
}

func TestIdempotence(t *testing.T) {
	b := New()
	x := b.Atomic(b.NewVar(), true)
	y := b.Atomic(b.NewVar(), true)

	if b.Conjunction(x, x) != x {
		t.Errorf("x AND x != x")
	}
	if b.Disjunction(x, x) != x {
		t.Errorf("x OR x != x")
	}
	if got := b.Disjunction(x, b.Negation(x)); !b.IsTrue(got) {
		t.Errorf("x OR ~x is not true")
	}
	if got := b.Conjunction(x, b.Negation(x)); !b.IsFalse(got) {
		t.Errorf("x AND ~x is not false")
	}
	if b.Negation(b.Negation(y)) != y {
		t.Errorf("double negation is not the identity")
	}
}

func TestHashConsing(t *testing.T) {
	b := New()
	v1, v2 := b.NewVar(), b.NewVar()
	x, y := b.Atomic(v1, true), b.Atomic(v2, true)

	n1 := b.Disjunction(x, y)
	n2 := b.Disjunction(y, x)
	if n1 != n2 {
		t.Errorf("x OR y and y OR x are different nodes")
	}

	n3 := b.Conjunction(n1, x)
	if n3 != x {
		t.Errorf("(x OR y) AND x != x (absorption)")
	}
}

func TestImplication(t *testing.T) {
	b := New()
	x := b.Atomic(b.NewVar(), true)
	y := b.Atomic(b.NewVar(), true)

	if !b.IsTrue(b.Implication(x, x)) {
		t.Errorf("x -> x is not true")
	}
	if !b.IsTrue(b.Implication(b.False(), y)) {
		t.Errorf("false -> y is not true")
	}
	if b.IsTrue(b.Implication(x, y)) {
		t.Errorf("x -> y is true for independent variables")
	}
	// x AND y implies x.
	if !b.IsTrue(b.Implication(b.Conjunction(x, y), x)) {
		t.Errorf("x AND y -> x is not true")
	}
}

func TestAtomicPolarity(t *testing.T) {
	b := New()
	v := b.NewVar()
	if b.Negation(b.Atomic(v, true)) != b.Atomic(v, false) {
		t.Errorf("negation of the positive atom is not the negative atom")
	}
}

func TestSupport(t *testing.T) {
	b := New()
	v1, v2, v3 := b.NewVar(), b.NewVar(), b.NewVar()
	_ = v3
	n := b.Conjunction(b.Atomic(v1, true), b.Atomic(v2, false))

	got := b.Support(n)
	if len(got) != 2 || got[0] != v1 || got[1] != v2 {
		t.Errorf("support = %v, want [%d %d]", got, v1, v2)
	}
	if len(b.Support(b.True())) != 0 {
		t.Errorf("constants have non-empty support")
	}
}
