// Package answer implements question answering: the answer-literal manager
// that instruments existential conjectures, the capture of answer clauses
// during saturation, and the witness extractors that reconstruct answer
// tuples from a refutation.
package answer

import (
	"github.com/rhartert/saturn/internal/bdd"
	"github.com/rhartert/saturn/internal/clause"
	"github.com/rhartert/saturn/internal/stats"
	"github.com/rhartert/saturn/internal/term"
)

// Manager owns the answer predicates, the captured answer clauses, and the
// identity resolver clauses used to manufacture the synthetic refutation.
type Manager struct {
	store *term.Store
	bdd   *bdd.BDD
	infs  *clause.Store
	stats *stats.Statistics

	answers   []*clause.Clause
	resolvers map[int]*clause.Clause
}

// NewManager returns a manager over the run's stores.
func NewManager(store *term.Store, b *bdd.BDD, infs *clause.Store, st *stats.Statistics) *Manager {
	return &Manager{
		store:     store,
		bdd:       b,
		infs:      infs,
		stats:     st,
		resolvers: map[int]*clause.Clause{},
	}
}

// AddAnswerLiterals rewrites every negated conjecture of the shape
// not(exists(X1..Xn, phi)) into not(exists(X1..Xn, phi and ans(X1..Xn)))
// with ans a fresh answer predicate. One pass over the unit list, run before
// clausification.
func (m *Manager) AddAnswerLiterals(units []clause.Unit) []clause.Unit {
	out := make([]clause.Unit, len(units))
	for i, u := range units {
		out[i] = m.tryAddAnswerLiteral(u)
	}
	return out
}

func (m *Manager) tryAddAnswerLiteral(u clause.Unit) clause.Unit {
	fu, ok := u.(*clause.FormulaUnit)
	if !ok || fu.Type() != clause.NegatedConjecture {
		return u
	}
	form := fu.Form.Flatten()
	if form.Conn != term.Not || form.Sub[0].Conn != term.Exists {
		return u
	}
	quant := form.Sub[0]
	vars := quant.Bound

	ansLit := m.answerLiteral(vars)
	conj := term.NewJunction(term.And, []*term.Formula{quant.Sub[0], term.NewLit(ansLit)})
	newForm := term.NewNot(term.NewQuantified(term.Exists, vars, conj)).Flatten()

	m.stats.AnswerLiterals++
	return m.infs.NewFormulaUnit(newForm, fu.Name, fu.Type(),
		clause.NewInference(clause.AnswerLiteral, fu))
}

// answerLiteral builds ans(X1..Xn) over a fresh predicate marked as an
// answer predicate.
func (m *Manager) answerLiteral(vars []int) *term.Term {
	args := make([]*term.Term, len(vars))
	for i, v := range vars {
		args[i] = m.store.Variable(v)
	}
	pred := m.store.Sig.AddFreshPredicate("ans", len(args))
	m.store.Sig.Predicate(pred).Answer = true
	return m.store.CreateLiteral(pred, true, args)
}

// IsAnswerLiteral reports whether the literal belongs to an answer
// predicate.
func (m *Manager) IsAnswerLiteral(lit *term.Term) bool {
	return !lit.IsEquality() && m.store.Sig.Predicate(lit.Functor()).Answer
}

// OnNewClause implements the saturation loop's new-clause hook: a clause
// with no propositional guard, no splits, and only answer literals is
// captured as a candidate answer, and a synthetic refutation by unit
// resulting resolution against the identity resolver clauses terminates the
// run.
func (m *Manager) OnNewClause(c *clause.Clause) *clause.Clause {
	if c.Len() == 0 || !c.NoProp(m.bdd) || !c.NoSplits() {
		return nil
	}
	for _, lit := range c.Lits {
		if !m.IsAnswerLiteral(lit) {
			return nil
		}
	}
	m.answers = append(m.answers, c)
	return m.refutationOf(c)
}

// refutationOf manufactures the synthetic refutation of an answer clause.
func (m *Manager) refutationOf(answer *clause.Clause) *clause.Clause {
	parents := []clause.Unit{answer}
	for _, lit := range answer.Lits {
		parents = append(parents, m.resolverClause(lit.Functor()))
	}
	m.stats.URResolution++
	ref := m.infs.NewClause(nil, answer.Type(),
		&clause.Inference{Rule: clause.URResolution, Parents: parents})
	ref.Prop = m.bdd.False()
	return ref
}

// resolverClause returns the identity clause {ans(X1..Xn)} of an answer
// predicate, creating it on first use.
func (m *Manager) resolverClause(pred int) *clause.Clause {
	if c, ok := m.resolvers[pred]; ok {
		return c
	}
	sym := m.store.Sig.Predicate(pred)
	if !sym.Answer {
		panic("answer: resolver clause for a non-answer predicate")
	}
	args := make([]*term.Term, sym.Arity)
	for i := range args {
		args[i] = m.store.Variable(i)
	}
	lit := m.store.CreateLiteral(pred, true, args)
	c := m.infs.NewClause([]*term.Term{lit}, clause.Axiom,
		clause.NewInference(clause.AnswerLiteral))
	c.Prop = m.bdd.False()
	m.resolvers[pred] = c
	return c
}

// TryGetAnswer implements the direct strategy: a captured answer clause with
// a single answer literal yields its arguments as the witnesses.
func (m *Manager) TryGetAnswer() ([]*term.Term, bool) {
	for _, ansCl := range m.answers {
		if ansCl.Len() != 1 {
			continue
		}
		lit := ansCl.Lits[0]
		return append([]*term.Term{}, lit.Args()...), true
	}
	return nil, false
}
