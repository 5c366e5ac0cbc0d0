package answer

import (
	"github.com/rhartert/saturn/internal/clause"
	"github.com/rhartert/saturn/internal/index"
	"github.com/rhartert/saturn/internal/subst"
	"github.com/rhartert/saturn/internal/term"
)

// ExtractAnswer reconstructs an answer tuple from a refutation. The direct
// strategy over captured answer clauses is tried first; the conjunctive goal
// extractor runs as the fallback. The boolean result reports whether an
// answer was found; the refutation stands either way.
func (m *Manager) ExtractAnswer(refutation *clause.Clause) ([]*term.Term, bool) {
	if ans, ok := m.TryGetAnswer(); ok {
		return ans, true
	}
	return m.extractConjunctiveGoal(refutation)
}

// neededUnits walks the refutation's inference DAG and collects the
// input-level premise clauses and the negated conjecture units.
func (m *Manager) neededUnits(refutation *clause.Clause) (premises []*clause.Clause, conjectures []*clause.FormulaUnit) {
	m.infs.Traverse(refutation, func(u clause.Unit) {
		rule := u.Inf().Rule
		if fu, ok := u.(*clause.FormulaUnit); ok && rule == clause.NegatedConjectureRule {
			conjectures = append(conjectures, fu)
		}
		if c, ok := u.(*clause.Clause); ok {
			switch rule {
			case clause.Clausify, clause.Input, clause.NegatedConjectureRule:
				premises = append(premises, c)
			}
		}
	})
	return premises, conjectures
}

// extractConjunctiveGoal handles conjectures of the shape
// not(exists(X1..Xn, L1 and ... and Lk)) with literal conjuncts: it
// saturates a lemma index from the proof's premises by tabulation and
// searches depth-first for a substitution making every goal literal follow
// from a lemma.
func (m *Manager) extractConjunctiveGoal(refutation *clause.Clause) ([]*term.Term, bool) {
	premises, conjectures := m.neededUnits(refutation)
	if len(conjectures) != 1 {
		return nil, false
	}

	form := conjectures[0].Form.Flatten()
	if form.Conn != term.Not || form.Sub[0].Conn != term.Exists {
		return nil, false
	}
	quant := form.Sub[0]
	answerVars := quant.Bound

	var goals []*term.Term
	switch body := quant.Sub[0]; body.Conn {
	case term.Lit:
		goals = append(goals, body.Literal)
	case term.And:
		for _, g := range body.Sub {
			if g.Conn != term.Lit {
				return nil, false
			}
			goals = append(goals, g.Literal)
		}
	default:
		return nil, false
	}

	lemmas := tabulate(m.store, premises)
	s := subst.New(m.store)

	b := &substBuilder{goals: goals, lemmas: lemmas, subst: s}
	if !b.run() {
		return nil, false
	}

	answer := make([]*term.Term, len(answerVars))
	for i, v := range answerVars {
		// Goal variables live in bank 0.
		answer[i] = s.Apply(m.store.Variable(v), 0)
	}
	return answer, true
}

// substBuilder searches for a substitution unifying every goal literal with
// a lemma: depth-first across the goals with one backtracking trail per
// depth, candidates in lemma-index order, and a one-shot fallback per goal
// that unifies the two sides of a positive equality goal.
type substBuilder struct {
	goals  []*term.Term
	lemmas *lemmaSet
	subst  *subst.Subst

	depth      int
	trails     []*subst.Trail
	candidates [][]index.Entry
	triedEq    []bool
}

func (b *substBuilder) run() bool {
	n := len(b.goals)
	b.trails = make([]*subst.Trail, n)
	b.candidates = make([][]index.Entry, n)
	b.triedEq = make([]bool, n)

	b.depth = 0
	b.enterGoal()
	for {
		if b.nextGoalUnif() {
			b.depth++
			if b.depth == n {
				break
			}
			b.enterGoal()
		} else {
			b.leaveGoal()
			if b.depth == 0 {
				return false
			}
			b.depth--
		}
	}
	// Close the recordings opened along the successful branch.
	for i := 0; i < n; i++ {
		b.subst.Done()
	}
	return true
}

func (b *substBuilder) enterGoal() {
	goal := b.goals[b.depth]
	b.candidates[b.depth] = b.lemmas.index.Candidates(goal.Header())
	b.triedEq[b.depth] = false
	b.trails[b.depth] = &subst.Trail{}
	b.subst.Record(b.trails[b.depth])
}

func (b *substBuilder) leaveGoal() {
	b.subst.Done()
	b.trails[b.depth].Backtrack()
}

// nextGoalUnif advances to the next unifier for the current goal. Bindings
// of a failed candidate are undone before the next one is tried.
func (b *substBuilder) nextGoalUnif() bool {
	goal := b.goals[b.depth]
	for len(b.candidates[b.depth]) > 0 {
		e := b.candidates[b.depth][0]
		b.candidates[b.depth] = b.candidates[b.depth][1:]
		b.trails[b.depth].Backtrack()
		if unifyLitInBanks(b.subst, goal, 0, e.Lit, b.lemmas.banks[e.Lit]) {
			return true
		}
	}
	if !b.triedEq[b.depth] && goal.IsEquality() && goal.IsPositive() {
		b.triedEq[b.depth] = true
		b.trails[b.depth].Backtrack()
		if b.subst.Unify(goal.Arg(0), 0, goal.Arg(1), 0) {
			return true
		}
	}
	return false
}
