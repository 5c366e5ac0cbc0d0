package saturation

import (
	"github.com/rhartert/saturn/internal/clause"
	"github.com/rhartert/saturn/internal/index"
	"github.com/rhartert/saturn/internal/ordering"
	"github.com/rhartert/saturn/internal/subst"
	"github.com/rhartert/saturn/internal/term"
)

// generate runs the generating inferences of the given clause against the
// active set. The given clause is already registered in the indices, so
// inferences of the clause with itself are found as well. Literals are
// enumerated in clause-declaration order and index hits in insertion order,
// which keeps generation deterministic.
func (l *Loop) generate(g *clause.Clause) {
	for i, gl := range g.SelectedLits() {
		l.resolveAgainst(g, i, gl)
		l.factorWith(g, i, gl)
		if gl.IsEquality() {
			if gl.IsNegative() {
				l.equalityResolution(g, i, gl)
			} else {
				l.equalityFactoring(g, i, gl)
				l.superposeFrom(g, gl)
			}
		}
		l.superposeInto(g, i, gl)
		if l.refutation != nil {
			return
		}
	}
}

// maxType combines the input types of two parents; conjecture-derived
// clauses keep their conjecture lineage.
func maxType(a, b clause.InputType) clause.InputType {
	if b > a {
		return b
	}
	return a
}

// resolveAgainst performs binary resolution between the selected literal gl
// and the complementary selected literals of the active set.
func (l *Loop) resolveAgainst(g *clause.Clause, i int, gl *term.Term) {
	if gl.IsEquality() {
		// Equality literals resolve through equality resolution, not
		// through the binary rule.
		return
	}
	for _, res := range l.genIndex.Unifications(gl, true, true) {
		s := res.Subst
		lits := make([]*term.Term, 0, g.Len()+res.Clause.Len()-2)
		for j, m := range g.Lits {
			if j == i {
				continue
			}
			lits = append(lits, s.Apply(m, index.QueryBank))
		}
		skipped := false
		for _, m := range res.Clause.Lits {
			if !skipped && m == res.Lit {
				skipped = true
				continue
			}
			lits = append(lits, s.Apply(m, index.StoredBank))
		}
		l.ctx.Stats.Resolution++
		out := l.ctx.Infs.NewClause(lits, maxType(g.Type(), res.Clause.Type()),
			clause.NewInference(clause.Resolution, g, res.Clause))
		l.ctx.setProp(out, l.ctx.BDD.Disjunction(l.ctx.prop(g), l.ctx.prop(res.Clause)))
		l.enqueueNew(out)
		if l.refutation != nil {
			return
		}
	}
}

// factorWith unifies the selected literal with the later literals of the
// same clause and polarity, producing the factor.
func (l *Loop) factorWith(g *clause.Clause, i int, gl *term.Term) {
	for j := i + 1; j < g.Len(); j++ {
		other := g.Lits[j]
		if other.Header() != gl.Header() {
			continue
		}
		s := subst.New(l.ctx.Store)
		if !unifySameBank(s, gl, other) {
			continue
		}
		lits := make([]*term.Term, 0, g.Len()-1)
		for k, m := range g.Lits {
			if k == j {
				continue
			}
			lits = append(lits, s.Apply(m, index.QueryBank))
		}
		l.ctx.Stats.Factoring++
		out := l.ctx.Infs.NewClause(lits, g.Type(), clause.NewInference(clause.Factoring, g))
		l.ctx.setProp(out, l.ctx.prop(g))
		l.enqueueNew(out)
		if l.refutation != nil {
			return
		}
	}
}

// equalityResolution resolves a selected negative equality s != t by
// unifying its sides.
func (l *Loop) equalityResolution(g *clause.Clause, i int, gl *term.Term) {
	s := subst.New(l.ctx.Store)
	if !s.Unify(gl.Arg(0), index.QueryBank, gl.Arg(1), index.QueryBank) {
		return
	}
	lits := make([]*term.Term, 0, g.Len()-1)
	for j, m := range g.Lits {
		if j == i {
			continue
		}
		lits = append(lits, s.Apply(m, index.QueryBank))
	}
	l.ctx.Stats.EqualityResolution++
	out := l.ctx.Infs.NewClause(lits, g.Type(), clause.NewInference(clause.EqualityResolution, g))
	l.ctx.setProp(out, l.ctx.prop(g))
	l.enqueueNew(out)
}

// equalityFactoring factors two positive equalities of the clause: from
// s = t and u = v with unifiable s and u, derive u = v and t != v under the
// unifier, dropping s = t.
func (l *Loop) equalityFactoring(g *clause.Clause, i int, gl *term.Term) {
	for j, other := range g.Lits {
		if j == i || !other.IsEquality() || !other.IsPositive() {
			continue
		}
		for _, o1 := range []orientation{{gl.Arg(0), gl.Arg(1)}, {gl.Arg(1), gl.Arg(0)}} {
			for _, o2 := range []orientation{{other.Arg(0), other.Arg(1)}, {other.Arg(1), other.Arg(0)}} {
				s := subst.New(l.ctx.Store)
				if !s.Unify(o1.lhs, index.QueryBank, o2.lhs, index.QueryBank) {
					continue
				}
				if l.ctx.Ord.Compare(s.Apply(o1.lhs, index.QueryBank), s.Apply(o1.rhs, index.QueryBank)) == ordering.Less {
					continue
				}
				lits := make([]*term.Term, 0, g.Len())
				for k, m := range g.Lits {
					if k == i {
						continue
					}
					lits = append(lits, s.Apply(m, index.QueryBank))
				}
				t := s.Apply(o1.rhs, index.QueryBank)
				v := s.Apply(o2.rhs, index.QueryBank)
				lits = append(lits, l.ctx.Store.CreateEquality(false, t, v, 0))
				l.ctx.Stats.EqualityFactoring++
				out := l.ctx.Infs.NewClause(lits, g.Type(), clause.NewInference(clause.EqualityFactoring, g))
				l.ctx.setProp(out, l.ctx.prop(g))
				l.enqueueNew(out)
				if l.refutation != nil {
					return
				}
			}
		}
	}
}

// superposeFrom rewrites subterms of active clauses (the given clause
// included) with the given clause's selected positive equality.
func (l *Loop) superposeFrom(g *clause.Clause, gl *term.Term) {
	for _, o := range orientations(l.ctx, gl) {
		if o.lhs.IsVar() {
			continue
		}
		for _, res := range l.subtermIndex.Unifications(o.lhs) {
			s := res.Subst
			lhsA := s.Apply(o.lhs, index.QueryBank)
			rhsA := s.Apply(o.rhs, index.QueryBank)
			if l.ctx.Ord.Compare(lhsA, rhsA) == ordering.Less {
				continue
			}
			lits := make([]*term.Term, 0, g.Len()+res.Clause.Len()-1)
			for _, m := range g.Lits {
				if m == gl {
					continue
				}
				lits = append(lits, s.Apply(m, index.QueryBank))
			}
			skipped := false
			for _, m := range res.Clause.Lits {
				mA := s.Apply(m, index.StoredBank)
				if !skipped && m == res.Lit {
					skipped = true
					mA = l.replaceInLiteral(mA, lhsA, rhsA)
				}
				lits = append(lits, mA)
			}
			rule := clause.BackwardSuperposition
			if res.Clause == g {
				rule = clause.SelfSuperposition
				l.ctx.Stats.SelfSuperposition++
			} else {
				l.ctx.Stats.BackwardSuperposition++
			}
			out := l.ctx.Infs.NewClause(lits, maxType(g.Type(), res.Clause.Type()),
				clause.NewInference(rule, g, res.Clause))
			l.ctx.setProp(out, l.ctx.BDD.Disjunction(l.ctx.prop(g), l.ctx.prop(res.Clause)))
			l.enqueueNew(out)
			if l.refutation != nil {
				return
			}
		}
	}
}

// superposeInto rewrites the subterms of the given clause's selected literal
// with the active positive equalities.
func (l *Loop) superposeInto(g *clause.Clause, i int, gl *term.Term) {
	seen := map[*term.Term]struct{}{}
	for _, a := range gl.Args() {
		a.IterSubterms(func(st *term.Term) {
			if _, ok := seen[st]; ok {
				return
			}
			seen[st] = struct{}{}
			for _, res := range l.eqLhsIndex.Unifications(st) {
				s := res.Subst
				lhsA := s.Apply(res.LHS, index.StoredBank)
				rhsA := s.Apply(res.RHS, index.StoredBank)
				if l.ctx.Ord.Compare(lhsA, rhsA) == ordering.Less {
					continue
				}
				lits := make([]*term.Term, 0, g.Len()+res.Clause.Len()-1)
				for k, m := range g.Lits {
					mA := s.Apply(m, index.QueryBank)
					if k == i {
						mA = l.replaceInLiteral(mA, lhsA, rhsA)
					}
					lits = append(lits, mA)
				}
				skipped := false
				for _, m := range res.Clause.Lits {
					if !skipped && m == res.Lit {
						skipped = true
						continue
					}
					lits = append(lits, s.Apply(m, index.StoredBank))
				}
				rule := clause.ForwardSuperposition
				if res.Clause == g {
					rule = clause.SelfSuperposition
					l.ctx.Stats.SelfSuperposition++
				} else {
					l.ctx.Stats.ForwardSuperposition++
				}
				out := l.ctx.Infs.NewClause(lits, maxType(g.Type(), res.Clause.Type()),
					clause.NewInference(rule, g, res.Clause))
				l.ctx.setProp(out, l.ctx.BDD.Disjunction(l.ctx.prop(g), l.ctx.prop(res.Clause)))
				l.enqueueNew(out)
				if l.refutation != nil {
					return
				}
			}
		})
	}
}

// unifySameBank unifies two literals living in the same clause (bank 0),
// trying both argument orders for commutative predicates.
func unifySameBank(s *subst.Subst, a, b *term.Term) bool {
	if s.UnifyArgs(a, index.QueryBank, b, index.QueryBank) {
		return true
	}
	if a.Commutative() && a.Arity() == 2 {
		var tr subst.Trail
		s.Record(&tr)
		ok := s.Unify(a.Arg(0), index.QueryBank, b.Arg(1), index.QueryBank) &&
			s.Unify(a.Arg(1), index.QueryBank, b.Arg(0), index.QueryBank)
		s.Done()
		if ok {
			return true
		}
		tr.Backtrack()
	}
	return false
}
