package ordering

import (
	"testing"

	"github.com/rhartert/saturn/internal/term"
)

type fixture struct {
	store *term.Store
	f, g  int
	a, b  int
}

func newFixture() *fixture {
	s := term.NewStore(term.NewSignature())
	return &fixture{
		store: s,
		a:     s.Sig.AddFunction("a", 0),
		b:     s.Sig.AddFunction("b", 0),
		g:     s.Sig.AddFunction("g", 1),
		f:     s.Sig.AddFunction("f", 2),
	}
}

func orderings(fx *fixture) map[string]Ordering {
	prec := NewPrecedence(fx.store.Sig, 0)
	return map[string]Ordering{
		"kbo": NewKBO(fx.store.Sig, prec),
		"lpo": NewLPO(prec),
	}
}

func TestSubtermProperty(t *testing.T) {
	fx := newFixture()
	ca := fx.store.Create(fx.a, nil)
	ga := fx.store.Create(fx.g, []*term.Term{ca})
	gga := fx.store.Create(fx.g, []*term.Term{ga})

	for name, ord := range orderings(fx) {
		if got := ord.Compare(gga, ga); got != Greater {
			t.Errorf("%s: g(g(a)) vs g(a) = %s, want greater", name, got)
		}
		if got := ord.Compare(ca, ga); got != Less {
			t.Errorf("%s: a vs g(a) = %s, want less", name, got)
		}
		if got := ord.Compare(ga, ga); got != Equal {
			t.Errorf("%s: g(a) vs g(a) = %s, want equal", name, got)
		}
	}
}

func TestVariableComparisons(t *testing.T) {
	fx := newFixture()
	x, y := fx.store.Variable(0), fx.store.Variable(1)
	gx := fx.store.Create(fx.g, []*term.Term{x})

	for name, ord := range orderings(fx) {
		if got := ord.Compare(x, y); got != Incomparable {
			t.Errorf("%s: X vs Y = %s, want incomparable", name, got)
		}
		if got := ord.Compare(gx, x); got != Greater {
			t.Errorf("%s: g(X) vs X = %s, want greater", name, got)
		}
		if got := ord.Compare(gx, y); got != Incomparable {
			t.Errorf("%s: g(X) vs Y = %s, want incomparable", name, got)
		}
	}
}

// TestStabilityUnderSubstitution spot-checks that a strict comparison stays
// strict under a grounding substitution.
func TestStabilityUnderSubstitution(t *testing.T) {
	fx := newFixture()
	x := fx.store.Variable(0)
	gx := fx.store.Create(fx.g, []*term.Term{x})
	ggx := fx.store.Create(fx.g, []*term.Term{gx})

	ca := fx.store.Create(fx.a, nil)
	ga := fx.store.Create(fx.g, []*term.Term{ca})
	gga := fx.store.Create(fx.g, []*term.Term{ga})

	for name, ord := range orderings(fx) {
		if got := ord.Compare(ggx, gx); got != Greater {
			t.Fatalf("%s: g(g(X)) vs g(X) = %s, want greater", name, got)
		}
		if got := ord.Compare(gga, ga); got != Greater {
			t.Errorf("%s: instance comparison flipped: %s", name, got)
		}
	}
}

func TestPrecedenceByArity(t *testing.T) {
	fx := newFixture()
	ca := fx.store.Create(fx.a, nil)
	cb := fx.store.Create(fx.b, nil)

	// Default precedence ranks by arity then registration order: b > a.
	for name, ord := range orderings(fx) {
		if got := ord.Compare(cb, ca); got != Greater {
			t.Errorf("%s: b vs a = %s, want greater", name, got)
		}
	}

	// f (arity 2) outranks g (arity 1): under LPO, f(a,a) > g(a) needs
	// the precedence; under KBO the weights already decide.
	faa := fx.store.Create(fx.f, []*term.Term{ca, ca})
	ga := fx.store.Create(fx.g, []*term.Term{ca})
	for name, ord := range orderings(fx) {
		if got := ord.Compare(faa, ga); got != Greater {
			t.Errorf("%s: f(a,a) vs g(a) = %s, want greater", name, got)
		}
	}
}

func TestKBOVariableCondition(t *testing.T) {
	fx := newFixture()
	x, y := fx.store.Variable(0), fx.store.Variable(1)
	kbo := NewKBO(fx.store.Sig, NewPrecedence(fx.store.Sig, 0))

	// f(X, X) vs g(Y): heavier but no variable cover, so incomparable.
	fxx := fx.store.Create(fx.f, []*term.Term{x, x})
	gy := fx.store.Create(fx.g, []*term.Term{y})
	if got := kbo.Compare(fxx, gy); got != Incomparable {
		t.Errorf("f(X,X) vs g(Y) = %s, want incomparable", got)
	}

	// f(X, X) vs g(X): heavier and covers X.
	gxOnly := fx.store.Create(fx.g, []*term.Term{x})
	if got := kbo.Compare(fxx, gxOnly); got != Greater {
		t.Errorf("f(X,X) vs g(X) = %s, want greater", got)
	}
}

func TestCompareLits(t *testing.T) {
	fx := newFixture()
	ca := fx.store.Create(fx.a, nil)
	cb := fx.store.Create(fx.b, nil)
	p := fx.store.Sig.AddPredicate("p", 1)

	for name, ord := range orderings(fx) {
		eq := fx.store.CreateEquality(true, ca, cb, 0)
		lp := fx.store.CreateLiteral(p, true, []*term.Term{ca})
		if got := ord.CompareLits(lp, eq); got != Greater {
			t.Errorf("%s: p(a) vs a = b = %s, want greater (equalities are smallest)", name, got)
		}

		pos := fx.store.CreateEquality(true, ca, cb, 0)
		neg := fx.store.CreateEquality(false, ca, cb, 0)
		if got := ord.CompareLits(neg, pos); got != Greater {
			t.Errorf("%s: a != b vs a = b = %s, want greater", name, got)
		}
	}
}

func TestSeedShufflesWithinArity(t *testing.T) {
	fx := newFixture()
	p0 := NewPrecedence(fx.store.Sig, 0)
	p7 := NewPrecedence(fx.store.Sig, 7)

	// Whatever the seed, arity still dominates the rank.
	if p7.Rank(fx.f) < p7.Rank(fx.a) || p7.Rank(fx.f) < p7.Rank(fx.b) {
		t.Errorf("seeded precedence ranks a binary symbol below constants")
	}
	_ = p0
}
