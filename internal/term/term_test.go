package term

import "testing"

func newTestStore() *Store {
	return NewStore(NewSignature())
}

func TestHashConsing(t *testing.T) {
	s := newTestStore()
	f := s.Sig.AddFunction("f", 2)
	a := s.Sig.AddFunction("a", 0)

	ca := s.Create(a, nil)
	t1 := s.Create(f, []*Term{ca, s.Variable(0)})
	t2 := s.Create(f, []*Term{s.Create(a, nil), s.Variable(0)})
	if t1 != t2 {
		t.Errorf("structurally equal terms have different identities")
	}

	t3 := s.Create(f, []*Term{s.Variable(0), ca})
	if t1 == t3 {
		t.Errorf("distinct terms share an identity")
	}
}

func TestWeightInvariant(t *testing.T) {
	s := newTestStore()
	f := s.Sig.AddFunction("f", 2)
	g := s.Sig.AddFunction("g", 1)
	a := s.Sig.AddFunction("a", 0)

	ca := s.Create(a, nil)
	ga := s.Create(g, []*Term{ca})
	fgax := s.Create(f, []*Term{ga, s.Variable(0)})

	if got, want := ca.Weight(), 1; got != want {
		t.Errorf("weight(a) = %d, want %d", got, want)
	}
	if got, want := ga.Weight(), 2; got != want {
		t.Errorf("weight(g(a)) = %d, want %d", got, want)
	}
	// weight(f(t1..tn)) = 1 + sum weight(ti).
	if got, want := fgax.Weight(), 1+ga.Weight()+1; got != want {
		t.Errorf("weight(f(g(a),X)) = %d, want %d", got, want)
	}
	if fgax.Ground() {
		t.Errorf("f(g(a),X) reported ground")
	}
	if !ga.Ground() {
		t.Errorf("g(a) reported non-ground")
	}
}

func TestTwoVarEquality(t *testing.T) {
	s := newTestStore()

	const sort = 3
	l1 := s.CreateEquality(true, s.Variable(0), s.Variable(1), sort)
	l2 := s.CreateEquality(true, s.Variable(0), s.Variable(1), sort)

	if l1 != l2 {
		t.Fatalf("the same two-variable equality was not shared")
	}
	if !l1.IsTwoVarEquality() {
		t.Errorf("isTwoVarEquality = false, want true")
	}
	if got := l1.TwoVarEqSort(); got != sort {
		t.Errorf("sort = %d, want %d", got, sort)
	}

	// An equality with one compound side is not a two-variable equality.
	a := s.Sig.AddFunction("a", 0)
	l3 := s.CreateEquality(true, s.Create(a, nil), s.Variable(0), 0)
	if l3.IsTwoVarEquality() {
		t.Errorf("a = X flagged as a two-variable equality")
	}
}

func TestCommutativeCanonicalOrder(t *testing.T) {
	s := newTestStore()
	a := s.Create(s.Sig.AddFunction("a", 0), nil)
	b := s.Create(s.Sig.AddFunction("b", 0), nil)

	l1 := s.CreateEquality(true, a, b, 0)
	l2 := s.CreateEquality(true, b, a, 0)
	if l1 != l2 {
		t.Errorf("a = b and b = a do not share")
	}
}

func TestOrientedEquality(t *testing.T) {
	s := newTestStore()
	a := s.Create(s.Sig.AddFunction("a", 0), nil)
	b := s.Create(s.Sig.AddFunction("b", 0), nil)

	// An oriented equality keeps the argument order chosen by the term
	// ordering instead of the canonical one, and records the hint.
	l := s.CreateOrientedEquality(true, b, a, 5)
	if l.Arg(0) != b || l.Arg(1) != a {
		t.Errorf("oriented equality did not keep its argument order")
	}
	if got, want := l.OrderHint(), uint8(5); got != want {
		t.Errorf("orderHint = %d, want %d", got, want)
	}
	if l == s.CreateEquality(true, b, a, 0) {
		t.Errorf("oriented and canonical equalities must not collide")
	}
}

func TestHeader(t *testing.T) {
	s := newTestStore()
	p := s.Sig.AddPredicate("p", 1)

	pos := s.CreateLiteral(p, true, []*Term{s.Variable(0)})
	neg := s.CreateLiteral(p, false, []*Term{s.Variable(0)})

	if got, want := pos.Header(), 2*p+1; got != want {
		t.Errorf("header(p) = %d, want %d", got, want)
	}
	if got, want := neg.Header(), 2*p; got != want {
		t.Errorf("header(~p) = %d, want %d", got, want)
	}
	if pos.ComplementaryHeader() != neg.Header() {
		t.Errorf("complementary headers do not match")
	}
	if s.Complement(pos) != neg {
		t.Errorf("complement is not shared with the negative literal")
	}
}

func TestSpecialVariableNamespace(t *testing.T) {
	s := newTestStore()

	v := s.Variable(2)
	sv := s.Special(2)
	if v == sv {
		t.Errorf("ordinary and special variable 2 share an identity")
	}
	if v.Kind() != Var || sv.Kind() != SpecialVar {
		t.Errorf("variable kinds wrong: %v, %v", v.Kind(), sv.Kind())
	}
	if sv != s.Special(2) {
		t.Errorf("special variables are not shared")
	}
}

func TestDistinctVars(t *testing.T) {
	s := newTestStore()
	f := s.Sig.AddFunction("f", 3)
	tt := s.Create(f, []*Term{s.Variable(0), s.Variable(1), s.Variable(0)})

	if got, want := tt.VarOccs(), 3; got != want {
		t.Errorf("varOccs = %d, want %d", got, want)
	}
	if got, want := tt.DistinctVars(), 2; got != want {
		t.Errorf("distinctVars = %d, want %d", got, want)
	}
}
