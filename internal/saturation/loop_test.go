package saturation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rhartert/saturn/internal/clause"
	"github.com/rhartert/saturn/internal/term"
)

func runLoop(e *testEnv, opts Options, clauses ...*clause.Clause) Outcome {
	loop := NewLoop(e.ctx, opts)
	loop.AddInput(clauses)
	return loop.Run()
}

func TestPropositionalRefutation(t *testing.T) {
	for _, mode := range []SplittingMode{SplittingOff, SplittingOn} {
		e := newTestEnv(t)
		opts := DefaultOptions
		opts.Splitting = mode

		out := runLoop(e, opts,
			e.clause(e.lit(e.r, true)),
			e.clause(e.lit(e.r, false)),
		)
		require.Equal(t, RefutationFound, out.Kind)
		require.NotNil(t, out.Refutation)
		require.True(t, out.Refutation.Empty())
		require.True(t, e.ctx.BDD.IsFalse(e.ctx.prop(out.Refutation)))
	}
}

// TestRefutationProofDAG checks saturation soundness: the refutation's
// parent-closed DAG bottoms out in input units.
func TestRefutationProofDAG(t *testing.T) {
	e := newTestEnv(t)

	out := runLoop(e, DefaultOptions,
		e.clause(e.lit(e.r, true)),
		e.clause(e.lit(e.r, false)),
	)
	require.Equal(t, RefutationFound, out.Kind)

	leaves := 0
	e.ctx.Infs.Traverse(out.Refutation, func(u clause.Unit) {
		inf := u.Inf()
		require.NotNil(t, inf)
		switch inf.Rule {
		case clause.Input, clause.ClauseNaming, clause.TautologyIntroduction, clause.AnswerLiteral:
			leaves++
		default:
			require.NotEmpty(t, inf.Parents, "derived unit %d has no parents", u.Num())
		}
	})
	require.NotZero(t, leaves, "the proof has no leaves")
}

func TestEqualityRefutation(t *testing.T) {
	e := newTestEnv(t)
	store := e.ctx.Store
	f := store.Sig.AddFunction("f", 1)
	a := store.Sig.AddFunction("a", 0)
	b := store.Sig.AddFunction("b", 0)
	ca, cb := store.Create(a, nil), store.Create(b, nil)

	out := runLoop(e, DefaultOptions,
		e.clause(store.CreateEquality(true, ca, cb, 0)),
		e.clause(store.CreateEquality(false,
			store.Create(f, []*term.Term{ca}),
			store.Create(f, []*term.Term{cb}), 0)),
	)
	require.Equal(t, RefutationFound, out.Kind)
	require.NotZero(t, e.ctx.Stats.TrivialInequalities+e.ctx.Stats.EqualityResolution,
		"the equality refutation should end through a trivial inequality or equality resolution")
}

func TestSplittingRefutation(t *testing.T) {
	e := newTestEnv(t)
	store := e.ctx.Store
	a := store.Sig.AddFunction("a", 0)
	ca := store.Create(a, nil)
	x, y := store.Variable(0), store.Variable(1)

	out := runLoop(e, DefaultOptions,
		e.clause(e.lit(e.p, true, x), e.lit(e.q, true, y)),
		e.clause(e.lit(e.p, false, ca)),
		e.clause(e.lit(e.q, false, ca)),
	)
	require.Equal(t, RefutationFound, out.Kind)
	require.Equal(t, 1, e.ctx.Stats.SplitClauses)
	require.Equal(t, 2, e.ctx.Stats.SplitComponents)
}

func TestTautologyDeletion(t *testing.T) {
	e := newTestEnv(t)
	opts := DefaultOptions
	opts.Splitting = SplittingOff

	x, y := e.ctx.Store.Variable(0), e.ctx.Store.Variable(1)
	rr := e.ctx.Store.Sig.AddPredicate("rr", 1)

	out := runLoop(e, opts,
		e.clause(e.lit(e.p, true, x), e.lit(e.p, false, x), e.lit(rr, true, y)),
		e.clause(e.lit(e.q, true, e.ctx.Store.Variable(0))),
	)
	require.Equal(t, Saturated, out.Kind)
	require.Equal(t, 1, e.ctx.Stats.SimpleTautologies)
	// The tautology never reached passive: only the q clause did.
	require.Equal(t, 1, e.ctx.Stats.PassiveClauses)
}

func TestSaturationSatisfiable(t *testing.T) {
	e := newTestEnv(t)
	ca := e.ctx.Store.Create(e.a, nil)

	out := runLoop(e, DefaultOptions,
		e.clause(e.lit(e.p, true, ca)),
		e.clause(e.lit(e.q, true, ca)),
	)
	require.Equal(t, Saturated, out.Kind)
	require.Nil(t, out.Refutation)
}

func TestWeightLimitMakesIncomplete(t *testing.T) {
	e := newTestEnv(t)
	store := e.ctx.Store
	f := store.Sig.AddFunction("f", 1)
	x := store.Variable(0)
	fx := store.Create(f, []*term.Term{x})

	opts := DefaultOptions
	opts.Splitting = SplittingOff
	opts.MaxClauseWeight = 3

	// p(X) => p(f(X)) generates ever-heavier clauses. With a limit of 3 the
	// weight check already discards both input clauses (weights 4 and 5), so
	// the loop drains without a complete saturation.
	out := runLoop(e, opts,
		e.clause(e.lit(e.p, true, store.Create(f, []*term.Term{fx}))),
		e.clause(e.lit(e.p, false, x), e.lit(e.p, true, fx)),
	)
	require.Equal(t, SaturatedIncomplete, out.Kind)
}

func TestForwardSubsumption(t *testing.T) {
	e := newTestEnv(t)
	store := e.ctx.Store
	a := store.Create(e.a, nil)
	x := store.Variable(0)

	opts := DefaultOptions
	opts.Splitting = SplittingOff

	// Resolving q(a) against ~q(a) | p(a) generates p(a), which the
	// active p(X) forward-subsumes.
	out := runLoop(e, opts,
		e.clause(e.lit(e.p, true, x)),
		e.clause(e.lit(e.q, true, a)),
		e.clause(e.lit(e.q, false, a), e.lit(e.p, true, a)),
	)
	require.Equal(t, Saturated, out.Kind)
	require.Equal(t, 1, e.ctx.Stats.ForwardSubsumed)
}

func TestTimeLimit(t *testing.T) {
	e := newTestEnv(t)
	store := e.ctx.Store
	f := store.Sig.AddFunction("f", 1)
	x := store.Variable(0)
	fx := store.Create(f, []*term.Term{x})

	opts := DefaultOptions
	opts.Splitting = SplittingOff
	opts.TimeLimit = 1 // nanosecond budget trips immediately

	out := runLoop(e, opts,
		e.clause(e.lit(e.p, true, store.Create(f, []*term.Term{fx}))),
		e.clause(e.lit(e.p, false, x), e.lit(e.p, true, fx)),
	)
	require.Equal(t, LimitTime, out.Kind)
}
