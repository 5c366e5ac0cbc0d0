package answer

import (
	"github.com/rhartert/saturn/internal/clause"
	"github.com/rhartert/saturn/internal/index"
	"github.com/rhartert/saturn/internal/subst"
	"github.com/rhartert/saturn/internal/term"
)

// maxLemmas bounds the tabulation closure. The goal matching is best-effort:
// the prover still reports the refutation when the bound cuts the closure
// short of a witness.
const maxLemmas = 4096

// lemmaSet is the unit-lemma index produced by tabulation. Every lemma
// literal carries its own variable bank so lemmas never clash on variable
// numbers during goal matching.
type lemmaSet struct {
	index *index.LiteralIndex
	banks map[*term.Term]int
	lits  []*term.Term
}

// tabulate runs a forward-chaining closure over the premise clauses,
// deriving unit lemmas by unit resulting resolution until a fixpoint or the
// lemma bound is reached.
func tabulate(store *term.Store, premises []*clause.Clause) *lemmaSet {
	ls := &lemmaSet{
		index: index.NewLiteralIndex(store),
		banks: map[*term.Term]int{},
	}
	// Lemma banks start above the clause bank (0).
	nextBank := 1
	seen := map[*term.Term]struct{}{}
	add := func(lit *term.Term) bool {
		if _, ok := seen[lit]; ok {
			return false
		}
		seen[lit] = struct{}{}
		ls.banks[lit] = nextBank
		nextBank++
		ls.lits = append(ls.lits, lit)
		ls.index.Insert(lit, nil)
		return true
	}

	for _, c := range premises {
		if c.Len() == 1 {
			add(c.Lits[0])
		}
	}

	changed := true
	for changed && len(ls.lits) < maxLemmas {
		changed = false
		for _, c := range premises {
			if c.Len() < 2 {
				continue
			}
			for i := range c.Lits {
				for _, derived := range ls.unitResolvents(store, c, i) {
					if add(derived) {
						changed = true
					}
					if len(ls.lits) >= maxLemmas {
						return ls
					}
				}
			}
		}
	}
	return ls
}

// unitResolvents resolves every literal of c except the survivor at index
// keep against the current lemmas, enumerating all combinations, and returns
// the instantiated survivors.
func (ls *lemmaSet) unitResolvents(store *term.Store, c *clause.Clause, keep int) []*term.Term {
	s := subst.New(store)
	var out []*term.Term
	var dfs func(j int)
	dfs = func(j int) {
		if j == c.Len() {
			out = append(out, s.Apply(c.Lits[keep], 0))
			return
		}
		if j == keep {
			dfs(j + 1)
			return
		}
		lit := c.Lits[j]
		for _, e := range ls.index.Candidates(lit.ComplementaryHeader()) {
			bank := ls.banks[e.Lit]
			var tr subst.Trail
			s.Record(&tr)
			ok := unifyLitInBanks(s, lit, 0, e.Lit, bank)
			s.Done()
			if ok {
				dfs(j + 1)
			}
			tr.Backtrack()
		}
	}
	dfs(0)
	return out
}

// unifyLitInBanks unifies the argument lists of two literals over explicit
// banks, trying both argument orders for commutative predicates.
func unifyLitInBanks(s *subst.Subst, a *term.Term, aBank int, b *term.Term, bBank int) bool {
	if a.Functor() != b.Functor() || a.Arity() != b.Arity() {
		return false
	}
	if s.UnifyArgs(a, aBank, b, bBank) {
		return true
	}
	if a.Commutative() && a.Arity() == 2 {
		var tr subst.Trail
		s.Record(&tr)
		ok := s.Unify(a.Arg(0), aBank, b.Arg(1), bBank) &&
			s.Unify(a.Arg(1), aBank, b.Arg(0), bBank)
		s.Done()
		if ok {
			return true
		}
		tr.Backtrack()
	}
	return false
}
