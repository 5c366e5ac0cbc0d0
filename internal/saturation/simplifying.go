package saturation

import (
	"github.com/rhartert/saturn/internal/clause"
	"github.com/rhartert/saturn/internal/index"
	"github.com/rhartert/saturn/internal/ordering"
	"github.com/rhartert/saturn/internal/subst"
	"github.com/rhartert/saturn/internal/term"
)

// forwardSimplify applies the cheap destructive simplifications to a clause
// dequeued from unprocessed: duplicate-literal removal, trivial-inequality
// removal, tautology deletion, forward demodulation, forward subsumption,
// and forward subsumption resolution.
//
// It returns the simplified clause, or nil when the clause was discarded as
// redundant. A non-nil result distinct from the input is a replacement that
// must re-enter processing as a new clause.
func (l *Loop) forwardSimplify(c *clause.Clause) *clause.Clause {
	if c = l.removeDuplicateLiterals(c); c == nil {
		return nil
	}
	if c = l.removeTrivialInequalities(c); c == nil {
		return nil
	}
	if l.isTautology(c) {
		return nil
	}
	if rewritten := l.forwardDemodulate(c); rewritten != nil {
		return rewritten
	}
	if l.forwardSubsumed(c) {
		return nil
	}
	if resolved := l.forwardSubsumptionResolution(c); resolved != nil {
		return resolved
	}
	return c
}

// removeDuplicateLiterals drops repeated literals. Literals are shared, so a
// duplicate is a pointer repeat.
func (l *Loop) removeDuplicateLiterals(c *clause.Clause) *clause.Clause {
	seen := map[*term.Term]struct{}{}
	dups := 0
	for _, lit := range c.Lits {
		if _, ok := seen[lit]; ok {
			dups++
		}
		seen[lit] = struct{}{}
	}
	if dups == 0 {
		return c
	}
	l.ctx.Stats.DuplicateLiterals += dups
	lits := make([]*term.Term, 0, len(c.Lits)-dups)
	clear(seen)
	for _, lit := range c.Lits {
		if _, ok := seen[lit]; ok {
			continue
		}
		seen[lit] = struct{}{}
		lits = append(lits, lit)
	}
	out := l.ctx.Infs.NewClause(lits, c.Type(), clause.NewInference(clause.DuplicateLiteralRemoval, c))
	l.ctx.setProp(out, l.ctx.prop(c))
	return out
}

// removeTrivialInequalities drops literals of the shape s != s, which are
// false. A clause consisting only of such literals becomes the empty clause.
func (l *Loop) removeTrivialInequalities(c *clause.Clause) *clause.Clause {
	trivial := 0
	for _, lit := range c.Lits {
		if lit.IsEquality() && lit.IsNegative() && lit.Arg(0) == lit.Arg(1) {
			trivial++
		}
	}
	if trivial == 0 {
		return c
	}
	l.ctx.Stats.TrivialInequalities += trivial
	lits := make([]*term.Term, 0, len(c.Lits)-trivial)
	for _, lit := range c.Lits {
		if lit.IsEquality() && lit.IsNegative() && lit.Arg(0) == lit.Arg(1) {
			continue
		}
		lits = append(lits, lit)
	}
	out := l.ctx.Infs.NewClause(lits, c.Type(), clause.NewInference(clause.TrivialInequalityRemoval, c))
	l.ctx.setProp(out, l.ctx.prop(c))
	return out
}

// isTautology reports whether the clause contains a complementary literal
// pair or a trivial equality s = s.
func (l *Loop) isTautology(c *clause.Clause) bool {
	headers := map[*term.Term]struct{}{}
	for _, lit := range c.Lits {
		if lit.IsEquality() && lit.IsPositive() && lit.Arg(0) == lit.Arg(1) {
			l.ctx.Stats.EquationalTautologies++
			return true
		}
		headers[lit] = struct{}{}
	}
	for _, lit := range c.Lits {
		if _, ok := headers[l.ctx.Store.Complement(lit)]; ok {
			l.ctx.Stats.SimpleTautologies++
			return true
		}
	}
	return false
}

// forwardDemodulate rewrites the clause with the active unit equalities,
// left to right, until no rewrite applies. It returns the rewritten clause,
// or nil when no equation applied.
func (l *Loop) forwardDemodulate(c *clause.Clause) *clause.Clause {
	lits := append([]*term.Term{}, c.Lits...)
	parents := []clause.Unit{c}
	prop := l.ctx.prop(c)
	rewrote := false

	for i := 0; i < len(lits); i++ {
		for {
			lit, eq := l.demodulateLiteral(lits[i])
			if eq == nil {
				break
			}
			l.ctx.Stats.ForwardDemodulations++
			rewrote = true
			lits[i] = lit
			parents = append(parents, eq)
			prop = l.ctx.BDD.Disjunction(prop, l.ctx.prop(eq))
		}
	}
	if !rewrote {
		return nil
	}
	out := l.ctx.Infs.NewClause(lits, c.Type(), &clause.Inference{Rule: clause.ForwardDemodulation, Parents: parents})
	l.ctx.setProp(out, prop)
	return out
}

// demodulateLiteral tries to rewrite one subterm of the literal with a unit
// equality of the demodulation index. It returns the rewritten literal and
// the equality clause used, or nils.
func (l *Loop) demodulateLiteral(lit *term.Term) (*term.Term, *clause.Clause) {
	var hit *term.Term
	var replacement *term.Term
	var used *clause.Clause
	for _, a := range lit.Args() {
		a.IterSubterms(func(st *term.Term) {
			if hit != nil {
				return
			}
			for _, res := range l.demodIndex.Generalizations(st) {
				// The match instantiates the equation's left side to
				// st; the rewrite is sound only when the instance is
				// ordering-decreasing.
				rhs := res.Subst.ApplyKeep(res.RHS, index.StoredBank)
				if l.ctx.Ord.Compare(st, rhs) != ordering.Greater {
					continue
				}
				hit, replacement, used = st, rhs, res.Clause
				return
			}
		})
		if hit != nil {
			break
		}
	}
	if hit == nil {
		return nil, nil
	}
	return l.replaceInLiteral(lit, hit, replacement), used
}

// replaceInLiteral rebuilds the literal with every occurrence of the shared
// subterm replaced.
func (l *Loop) replaceInLiteral(lit, from, to *term.Term) *term.Term {
	args := make([]*term.Term, lit.Arity())
	for i, a := range lit.Args() {
		args[i] = l.replaceInTerm(a, from, to)
	}
	return l.ctx.Store.CreateLiteral(lit.Functor(), lit.IsPositive(), args)
}

func (l *Loop) replaceInTerm(t, from, to *term.Term) *term.Term {
	if t == from {
		return to
	}
	if t.IsVar() || t.Ground() && !from.Ground() {
		return t
	}
	changed := false
	args := make([]*term.Term, t.Arity())
	for i, a := range t.Args() {
		args[i] = l.replaceInTerm(a, from, to)
		if args[i] != a {
			changed = true
		}
	}
	if !changed {
		return t
	}
	return l.ctx.Store.Create(t.Functor(), args)
}

// forwardSubsumed reports whether an active clause subsumes c. Deletion also
// requires the subsumer's propositional guard to entail the candidate's.
func (l *Loop) forwardSubsumed(c *clause.Clause) bool {
	for _, d := range l.active {
		if d.Len() > c.Len() || d.Weight() > c.Weight() {
			continue
		}
		if !l.ctx.propImplies(l.ctx.prop(d), l.ctx.prop(c)) {
			continue
		}
		if l.subsumes(d, c) {
			l.ctx.Stats.ForwardSubsumed++
			return true
		}
	}
	return false
}

// forwardSubsumptionResolution tries to cut one literal of c with an active
// clause: if some active clause subsumes c once one of c's literals is
// complemented, that literal is removed.
func (l *Loop) forwardSubsumptionResolution(c *clause.Clause) *clause.Clause {
	for _, d := range l.active {
		if d.Len() > c.Len() || !l.ctx.propImplies(l.ctx.prop(d), l.ctx.prop(c)) {
			continue
		}
		for i := range c.Lits {
			if !l.subsumesWithComplement(d, c, i) {
				continue
			}
			l.ctx.Stats.ForwardSubsumptionResolution++
			lits := make([]*term.Term, 0, len(c.Lits)-1)
			lits = append(lits, c.Lits[:i]...)
			lits = append(lits, c.Lits[i+1:]...)
			out := l.ctx.Infs.NewClause(lits, c.Type(), clause.NewInference(clause.SubsumptionResolution, c, d))
			l.ctx.setProp(out, l.ctx.BDD.Disjunction(l.ctx.prop(c), l.ctx.prop(d)))
			return out
		}
	}
	return nil
}

// subsumes reports whether sigma(c) is a sub-multiset of d for some
// substitution sigma.
func (l *Loop) subsumes(c, d *clause.Clause) bool {
	if c.Len() == 0 {
		return true
	}
	if c.Len() > d.Len() {
		return false
	}
	s := subst.New(l.ctx.Store)
	used := make([]bool, d.Len())
	return l.subsumeFrom(s, c, d, used, 0, -1)
}

// subsumesWithComplement reports whether c subsumes d with exactly one
// literal of c matched against the complement of d's literal at index compl.
func (l *Loop) subsumesWithComplement(c, d *clause.Clause, compl int) bool {
	if c.Len() == 0 || c.Len() > d.Len() {
		return false
	}
	s := subst.New(l.ctx.Store)
	used := make([]bool, d.Len())
	return l.subsumeFrom(s, c, d, used, 0, compl)
}

// subsumeFrom assigns c's literals to distinct literals of d, matching
// left-to-right with backtracking. When compl is non-negative, the literal
// of d at that index participates complemented, and at least one literal of
// c must map onto it.
func (l *Loop) subsumeFrom(s *subst.Subst, c, d *clause.Clause, used []bool, i, compl int) bool {
	if i == c.Len() {
		return compl < 0 || used[compl]
	}
	base := c.Lits[i]
	for j, dl := range d.Lits {
		if used[j] {
			continue
		}
		target := dl
		if j == compl {
			target = l.ctx.Store.Complement(dl)
		}
		if base.Header() != target.Header() {
			continue
		}
		var tr subst.Trail
		s.Record(&tr)
		ok := index.MatchLitArgs(s, base, index.QueryBank, target, index.StoredBank)
		s.Done()
		if ok {
			used[j] = true
			if l.subsumeFrom(s, c, d, used, i+1, compl) {
				return true
			}
			used[j] = false
		}
		tr.Backtrack()
	}
	return false
}

// backwardSimplify uses a freshly activated clause to simplify the active
// set: backward demodulation when the given clause is a unit
// equality, then backward subsumption and backward subsumption resolution.
// Simplified clauses are deactivated; replacements re-enter as new clauses.
func (l *Loop) backwardSimplify(given *clause.Clause) {
	if given.Len() == 1 && given.Lits[0].IsEquality() && given.Lits[0].IsPositive() {
		l.backwardDemodulate(given)
	}
	l.backwardSubsume(given)
}

// backwardDemodulate rewrites active clauses containing an instance of the
// given unit equality's larger side.
func (l *Loop) backwardDemodulate(given *clause.Clause) {
	eq := given.Lits[0]
	for _, o := range orientations(l.ctx, eq) {
		for _, res := range l.subtermIndex.Instances(o.lhs) {
			if res.Clause == given {
				continue
			}
			lhs := res.Subst.ApplyKeep(o.lhs, index.QueryBank)
			rhs := res.Subst.ApplyKeep(o.rhs, index.QueryBank)
			if l.ctx.Ord.Compare(lhs, rhs) != ordering.Greater {
				continue
			}
			if !l.ctx.propImplies(l.ctx.prop(given), l.ctx.prop(res.Clause)) {
				continue
			}
			target := res.Clause
			if !l.isActive(target) {
				continue
			}
			l.ctx.Stats.BackwardDemodulations++
			lits := make([]*term.Term, len(target.Lits))
			for i, lit := range target.Lits {
				lits[i] = l.replaceInLiteral(lit, res.Subterm, rhs)
			}
			out := l.ctx.Infs.NewClause(lits, target.Type(), clause.NewInference(clause.BackwardDemodulation, target, given))
			l.ctx.setProp(out, l.ctx.BDD.Disjunction(l.ctx.prop(target), l.ctx.prop(given)))
			l.deactivate(target)
			l.enqueueNew(out)
		}
	}
}

// backwardSubsume removes active clauses subsumed by the given clause and
// applies backward subsumption resolution to the rest.
func (l *Loop) backwardSubsume(given *clause.Clause) {
	var subsumed, resolved []*clause.Clause
	var replacements []*clause.Clause
	for _, d := range l.active {
		if d == given || given.Len() > d.Len() {
			continue
		}
		if !l.ctx.propImplies(l.ctx.prop(given), l.ctx.prop(d)) {
			continue
		}
		if l.subsumes(given, d) {
			l.ctx.Stats.BackwardSubsumed++
			subsumed = append(subsumed, d)
			continue
		}
		for i := range d.Lits {
			if !l.subsumesWithComplement(given, d, i) {
				continue
			}
			l.ctx.Stats.BackwardSubsumptionResolution++
			lits := make([]*term.Term, 0, len(d.Lits)-1)
			lits = append(lits, d.Lits[:i]...)
			lits = append(lits, d.Lits[i+1:]...)
			out := l.ctx.Infs.NewClause(lits, d.Type(), clause.NewInference(clause.SubsumptionResolution, d, given))
			l.ctx.setProp(out, l.ctx.BDD.Disjunction(l.ctx.prop(d), l.ctx.prop(given)))
			resolved = append(resolved, d)
			replacements = append(replacements, out)
			break
		}
	}
	for _, d := range subsumed {
		l.deactivate(d)
	}
	for i, d := range resolved {
		l.deactivate(d)
		l.enqueueNew(replacements[i])
	}
}

// orientation is one usable direction of an equality.
type orientation struct {
	lhs, rhs *term.Term
}

// orientations returns the rewriting directions of a positive equality that
// the ordering does not rule out.
func orientations(ctx *Context, eq *term.Term) []orientation {
	s, t := eq.Arg(0), eq.Arg(1)
	switch ctx.Ord.Compare(s, t) {
	case ordering.Greater:
		return []orientation{{s, t}}
	case ordering.Less:
		return []orientation{{t, s}}
	case ordering.Equal:
		return nil
	default:
		return []orientation{{s, t}, {t, s}}
	}
}
