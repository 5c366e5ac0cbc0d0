package subst

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
		f:     s.Sig.AddFunction("f", 2),
		g:     s.Sig.AddFunction("g", 1),
		a:     s.Sig.AddFunction("a", 0),
		b:     s.Sig.AddFunction("b", 0),
	}
}

func (fx *fixture) fn(f int, args ...*term.Term) *term.Term {
	return fx.store.Create(f, args)
}

func (fx *fixture) v(i int) *term.Term { return fx.store.Variable(i) }

// TestUnifyApply checks that a unifier equalises both terms under Apply.
func TestUnifyApply(t *testing.T) {
	fx := newFixture()
	ca := fx.fn(fx.a)

	// f(X, g(Y)) with f(g(a), Z), different banks.
	t1 := fx.fn(fx.f, fx.v(0), fx.fn(fx.g, fx.v(1)))
	t2 := fx.fn(fx.f, fx.fn(fx.g, ca), fx.v(2))

	s := New(fx.store)
	if !s.Unify(t1, 0, t2, 1) {
		t.Fatalf("unification failed")
	}
	r1 := s.Apply(t1, 0)
	r2 := s.Apply(t2, 1)
	if r1 != r2 {
		t.Errorf("apply(t1) != apply(t2): %s vs %s", fx.store.String(r1), fx.store.String(r2))
	}
}

func TestUnifySameVarDifferentBanks(t *testing.T) {
	fx := newFixture()

	// X (bank 0) and X (bank 1) are distinct variables.
	s := New(fx.store)
	if !s.Unify(fx.v(0), 0, fx.fn(fx.g, fx.v(0)), 1) {
		t.Fatalf("unification of X^0 with g(X)^1 should succeed")
	}
}

func TestOccursCheck(t *testing.T) {
	fx := newFixture()

	s := New(fx.store)
	if s.Unify(fx.v(0), 0, fx.fn(fx.g, fx.v(0)), 0) {
		t.Errorf("X unified with g(X) in the same bank")
	}
	if s.Len() != 0 {
		t.Errorf("failed unification left %d bindings behind", s.Len())
	}
}

func TestClashFailureLeavesSubstUnchanged(t *testing.T) {
	fx := newFixture()
	ca, cb := fx.fn(fx.a), fx.fn(fx.b)

	s := New(fx.store)
	// f(X, a) with f(b, b): X binds to b first, then a clashes with b, and
	// the earlier binding must be rolled back.
	t1 := fx.fn(fx.f, fx.v(0), ca)
	t2 := fx.fn(fx.f, cb, cb)
	if s.Unify(t1, 0, t2, 1) {
		t.Fatalf("unification should fail on the clash")
	}
	if s.Bound(0, 0) {
		t.Errorf("binding of X survived a failed unification")
	}
}

func TestTrailNesting(t *testing.T) {
	fx := newFixture()
	ca, cb := fx.fn(fx.a), fx.fn(fx.b)

	s := New(fx.store)
	var outer, inner Trail
	s.Record(&outer)
	if !s.Unify(fx.v(0), 0, ca, 0) {
		t.Fatalf("binding X failed")
	}

	s.Record(&inner)
	if !s.Unify(fx.v(1), 0, cb, 0) {
		t.Fatalf("binding Y failed")
	}
	s.Done()
	inner.Backtrack()

	if s.Bound(1, 0) {
		t.Errorf("inner binding survived the inner backtrack")
	}
	if !s.Bound(0, 0) {
		t.Errorf("outer binding lost by the inner backtrack")
	}

	s.Done()
	outer.Backtrack()
	if s.Bound(0, 0) {
		t.Errorf("outer binding survived the outer backtrack")
	}
}

func TestMatchOneWay(t *testing.T) {
	fx := newFixture()
	ca := fx.fn(fx.a)

	s := New(fx.store)
	// g(X) matches onto g(a)...
	if !s.Match(fx.fn(fx.g, fx.v(0)), 0, fx.fn(fx.g, ca), 1) {
		t.Errorf("g(X) should match g(a)")
	}
	// ...but matching never binds instance-side variables.
	s2 := New(fx.store)
	if s2.Match(fx.fn(fx.g, ca), 0, fx.fn(fx.g, fx.v(0)), 1) {
		t.Errorf("g(a) matched onto g(X)")
	}
}

func TestApplyKeepPreservesVariables(t *testing.T) {
	fx := newFixture()
	ca := fx.fn(fx.a)

	s := New(fx.store)
	// Bind X to a; Y stays free and must survive as itself.
	if !s.Unify(fx.v(0), 0, ca, 0) {
		t.Fatalf("binding X failed")
	}
	got := s.ApplyKeep(fx.fn(fx.f, fx.v(0), fx.v(1)), 0)
	want := fx.fn(fx.f, ca, fx.v(1))
	if got != want {
		t.Errorf("applyKeep: got %s, want %s", fx.store.String(got), fx.store.String(want))
	}
}

func TestApplyGround(t *testing.T) {
	fx := newFixture()
	ca := fx.fn(fx.a)

	s := New(fx.store)
	if !s.Unify(fx.v(0), 0, ca, 0) {
		t.Fatalf("binding X failed")
	}
	if got := s.ApplyGround(fx.fn(fx.g, fx.v(0)), 0); got == nil {
		t.Errorf("applyGround failed on a ground result")
	}
	if got := s.ApplyGround(fx.fn(fx.g, fx.v(1)), 0); got != nil {
		t.Errorf("applyGround succeeded on a non-ground result: %s", fx.store.String(got))
	}
}
