package index

import (
	"testing"

	"github.com/rhartert/saturn/internal/clause"
	"github.com/rhartert/saturn/internal/term"
)

type fixture struct {
	store *term.Store
	infs  *clause.Store
	p, q  int
	f     int
	a, b  int
}

func newFixture() *fixture {
	s := term.NewStore(term.NewSignature())
	return &fixture{
		store: s,
		infs:  clause.NewStore(),
		p:     s.Sig.AddPredicate("p", 1),
		q:     s.Sig.AddPredicate("q", 2),
		f:     s.Sig.AddFunction("f", 1),
		a:     s.Sig.AddFunction("a", 0),
		b:     s.Sig.AddFunction("b", 0),
	}
}

func (fx *fixture) lit(pred int, positive bool, args ...*term.Term) *term.Term {
	return fx.store.CreateLiteral(pred, positive, args)
}

func (fx *fixture) clause(lits ...*term.Term) *clause.Clause {
	return fx.infs.NewClause(lits, clause.Axiom, clause.NewInference(clause.Input))
}

func TestLiteralIndexUnifications(t *testing.T) {
	fx := newFixture()
	ca := fx.store.Create(fx.a, nil)

	stored := fx.lit(fx.p, true, fx.store.Create(fx.f, []*term.Term{fx.store.Variable(0)}))
	cl := fx.clause(stored)

	ix := NewLiteralIndex(fx.store)
	ix.Insert(stored, cl)

	// ~p(f(a)) unifies with the complementary stored p(f(X)).
	query := fx.lit(fx.p, false, fx.store.Create(fx.f, []*term.Term{ca}))
	got := ix.Unifications(query, true, true)
	if len(got) != 1 {
		t.Fatalf("got %d unifications, want 1", len(got))
	}
	if got[0].Lit != stored || got[0].Clause != cl {
		t.Errorf("wrong entry returned")
	}
	if got[0].Subst == nil {
		t.Errorf("substitution was requested but not returned")
	}

	// Same header (not complementary) does not match ~p.
	if got := ix.Unifications(query, false, false); len(got) != 0 {
		t.Errorf("non-complementary query returned %d results", len(got))
	}

	ix.Remove(stored, cl)
	if got := ix.Unifications(query, true, false); len(got) != 0 {
		t.Errorf("removed literal still retrieved")
	}
}

func TestLiteralIndexGeneralizationsInstances(t *testing.T) {
	fx := newFixture()
	ca := fx.store.Create(fx.a, nil)

	general := fx.lit(fx.p, true, fx.store.Variable(0))
	ground := fx.lit(fx.p, true, ca)
	clG := fx.clause(general)
	clI := fx.clause(ground)

	ix := NewLiteralIndex(fx.store)
	ix.Insert(general, clG)
	ix.Insert(ground, clI)

	gens := ix.Generalizations(ground, false, false)
	if len(gens) != 2 {
		// p(X) generalises p(a); p(a) generalises itself.
		t.Errorf("got %d generalizations of p(a), want 2", len(gens))
	}
	insts := ix.Instances(general, false, false)
	if len(insts) != 2 {
		t.Errorf("got %d instances of p(X), want 2", len(insts))
	}
	if got := ix.Instances(ground, false, false); len(got) != 1 {
		t.Errorf("got %d instances of p(a), want 1", len(got))
	}
}

func TestVariantIndexRoundTrip(t *testing.T) {
	fx := newFixture()

	// {p(X), q(X, Y)}.
	cl := fx.clause(
		fx.lit(fx.p, true, fx.store.Variable(0)),
		fx.lit(fx.q, true, fx.store.Variable(0), fx.store.Variable(1)),
	)
	ix := NewVariantIndex()
	ix.Insert(cl)

	// Variant modulo renaming, literals in the other order.
	variant := []*term.Term{
		fx.lit(fx.q, true, fx.store.Variable(5), fx.store.Variable(3)),
		fx.lit(fx.p, true, fx.store.Variable(5)),
	}
	if got := ix.RetrieveVariant(variant); got != cl {
		t.Errorf("variant not retrieved")
	}

	// Not a variant: the shared variable links differently.
	nonVariant := []*term.Term{
		fx.lit(fx.q, true, fx.store.Variable(3), fx.store.Variable(5)),
		fx.lit(fx.p, true, fx.store.Variable(5)),
	}
	if got := ix.RetrieveVariant(nonVariant); got != nil {
		t.Errorf("non-variant retrieved as a variant")
	}

	// A non-bijective renaming is not a variant.
	collapsed := []*term.Term{
		fx.lit(fx.q, true, fx.store.Variable(5), fx.store.Variable(5)),
		fx.lit(fx.p, true, fx.store.Variable(5)),
	}
	if got := ix.RetrieveVariant(collapsed); got != nil {
		t.Errorf("collapsed clause retrieved as a variant")
	}
}

func TestEqIndex(t *testing.T) {
	fx := newFixture()
	ca := fx.store.Create(fx.a, nil)
	fX := fx.store.Create(fx.f, []*term.Term{fx.store.Variable(0)})
	fa := fx.store.Create(fx.f, []*term.Term{ca})

	eq := fx.store.CreateEquality(true, fX, fx.store.Variable(0), 0)
	cl := fx.clause(eq)

	ix := NewEqIndex(fx.store)
	ix.Insert(fX, fx.store.Variable(0), eq, cl)

	gens := ix.Generalizations(fa)
	if len(gens) != 1 {
		t.Fatalf("got %d generalizations, want 1", len(gens))
	}
	rhs := gens[0].Subst.ApplyKeep(gens[0].RHS, StoredBank)
	if rhs != ca {
		t.Errorf("instantiated right-hand side = %s, want a", fx.store.String(rhs))
	}

	// Variable left-hand sides are never indexed.
	ix.Insert(fx.store.Variable(1), ca, eq, cl)
	if got := ix.Generalizations(ca); len(got) != 0 {
		t.Errorf("variable LHS retrieved")
	}
}

func TestSubtermIndex(t *testing.T) {
	fx := newFixture()
	ca := fx.store.Create(fx.a, nil)
	fa := fx.store.Create(fx.f, []*term.Term{ca})

	lit := fx.lit(fx.p, true, fa)
	cl := fx.clause(lit)

	ix := NewSubtermIndex(fx.store)
	ix.Insert(lit, cl)

	// Both f(a) and a are indexed.
	if got := ix.Unifications(fa); len(got) != 1 {
		t.Errorf("got %d hits for f(a), want 1", len(got))
	}
	if got := ix.Unifications(ca); len(got) != 1 {
		t.Errorf("got %d hits for a, want 1", len(got))
	}

	ix.Remove(lit, cl)
	if got := ix.Unifications(fa); len(got) != 0 {
		t.Errorf("removed entries still retrieved")
	}
}
