package prop

import (
	"testing"

	"github.com/rhartert/saturn/internal/bdd"
	"github.com/rhartert/saturn/internal/stats"
)

func TestVerifyRefutationUnsat(t *testing.T) {
	b := bdd.New()
	n := b.NewVar()

	// Empty clauses asserting n and ~n: their conjunction is false, so the
	// SAT backend must agree the refutation is sound.
	parts := []*bdd.Node{b.Atomic(n, true), b.Atomic(n, false)}
	c := NewChecker(b, stats.New())
	if !c.VerifyRefutation(parts) {
		t.Errorf("a sound splitting refutation failed the SAT check")
	}
}

func TestVerifyRefutationSatisfiable(t *testing.T) {
	b := bdd.New()
	n1, n2 := b.NewVar(), b.NewVar()

	// n1 and (~n1 or n2) are satisfiable together: no refutation.
	parts := []*bdd.Node{
		b.Atomic(n1, true),
		b.Disjunction(b.Atomic(n1, false), b.Atomic(n2, true)),
	}
	c := NewChecker(b, stats.New())
	if c.VerifyRefutation(parts) {
		t.Errorf("satisfiable parts passed as a refutation")
	}
}

func TestVerifyFalseConstant(t *testing.T) {
	b := bdd.New()
	c := NewChecker(b, stats.New())
	if !c.VerifyRefutation([]*bdd.Node{b.False()}) {
		t.Errorf("the false node alone must verify")
	}
}

func TestStatsCounters(t *testing.T) {
	b := bdd.New()
	n := b.NewVar()
	st := stats.New()

	c := NewChecker(b, st)
	c.VerifyRefutation([]*bdd.Node{b.Atomic(n, true), b.Atomic(n, false)})

	if st.SATSolverCalls != 1 {
		t.Errorf("satSolverCalls = %d, want 1", st.SATSolverCalls)
	}
	if st.SATClauses == 0 || st.SATVars == 0 {
		t.Errorf("sat counters not bumped: clauses %d vars %d", st.SATClauses, st.SATVars)
	}
}
