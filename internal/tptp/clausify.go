package tptp

import (
	"github.com/rhartert/saturn/internal/clause"
	"github.com/rhartert/saturn/internal/stats"
	"github.com/rhartert/saturn/internal/term"
)

// Clausifier turns formula units into clauses: negation of conjectures,
// negation normal form, Skolemization, and distribution into CNF.
type Clausifier struct {
	store *term.Store
	infs  *clause.Store
	stats *stats.Statistics

	nextVar int
}

// NewClausifier returns a clausifier over the given stores.
func NewClausifier(store *term.Store, infs *clause.Store, st *stats.Statistics) *Clausifier {
	return &Clausifier{store: store, infs: infs, stats: st}
}

// NegateConjectures replaces every conjecture formula unit by its negation,
// so the saturation loop refutes the axioms plus the negated conjecture.
func (c *Clausifier) NegateConjectures(units []clause.Unit) []clause.Unit {
	out := make([]clause.Unit, len(units))
	for i, u := range units {
		fu, ok := u.(*clause.FormulaUnit)
		if !ok || fu.Type() != clause.Conjecture {
			out[i] = u
			continue
		}
		neg := term.NewNot(fu.Form).Flatten()
		out[i] = c.infs.NewFormulaUnit(neg, fu.Name, clause.NegatedConjecture,
			clause.NewInference(clause.NegatedConjectureRule, fu))
	}
	return out
}

// Clausify converts the unit list into clauses. Clause units pass through;
// formula units are clausified with a Clausify inference back to the unit.
func (c *Clausifier) Clausify(units []clause.Unit) []*clause.Clause {
	var out []*clause.Clause
	for _, u := range units {
		switch v := u.(type) {
		case *clause.Clause:
			out = append(out, v)
		case *clause.FormulaUnit:
			out = append(out, c.clausifyUnit(v)...)
		}
	}
	c.stats.InitialClauses += len(out)
	return out
}

func (c *Clausifier) clausifyUnit(fu *clause.FormulaUnit) []*clause.Clause {
	nnf := c.nnf(fu.Form, true)
	sk := c.skolemize(nnf, nil, map[int]*term.Term{})
	var clauses []*clause.Clause
	for _, lits := range c.cnf(sk) {
		lits = dedupe(lits)
		cl := c.infs.NewClause(lits, fu.Type(), clause.NewInference(clause.Clausify, fu))
		clauses = append(clauses, cl)
	}
	return clauses
}

// nnf pushes negations down to the literals. The result only contains And,
// Or, Forall, Exists, Lit, TrueConst, and FalseConst.
func (c *Clausifier) nnf(f *term.Formula, positive bool) *term.Formula {
	switch f.Conn {
	case term.Lit:
		if positive {
			return f
		}
		return term.NewLit(c.store.Complement(f.Literal))
	case term.TrueConst:
		if positive {
			return f
		}
		return &term.Formula{Conn: term.FalseConst}
	case term.FalseConst:
		if positive {
			return f
		}
		return &term.Formula{Conn: term.TrueConst}
	case term.Not:
		return c.nnf(f.Sub[0], !positive)
	case term.And, term.Or:
		conn := f.Conn
		if !positive {
			if conn == term.And {
				conn = term.Or
			} else {
				conn = term.And
			}
		}
		sub := make([]*term.Formula, len(f.Sub))
		for i, g := range f.Sub {
			sub[i] = c.nnf(g, positive)
		}
		return term.NewJunction(conn, sub)
	case term.Implies:
		// a => b is ~a | b.
		l := c.nnf(f.Sub[0], !positive)
		r := c.nnf(f.Sub[1], positive)
		if positive {
			return term.NewJunction(term.Or, []*term.Formula{l, r})
		}
		return term.NewJunction(term.And, []*term.Formula{l, r})
	case term.Iff, term.Xor:
		// a <=> b is (a & b) | (~a & ~b); <~> is its negation.
		pos := positive == (f.Conn == term.Iff)
		if pos {
			both := term.NewJunction(term.And, []*term.Formula{c.nnf(f.Sub[0], true), c.nnf(f.Sub[1], true)})
			neither := term.NewJunction(term.And, []*term.Formula{c.nnf(f.Sub[0], false), c.nnf(f.Sub[1], false)})
			return term.NewJunction(term.Or, []*term.Formula{both, neither})
		}
		left := term.NewJunction(term.And, []*term.Formula{c.nnf(f.Sub[0], true), c.nnf(f.Sub[1], false)})
		right := term.NewJunction(term.And, []*term.Formula{c.nnf(f.Sub[0], false), c.nnf(f.Sub[1], true)})
		return term.NewJunction(term.Or, []*term.Formula{left, right})
	case term.Forall, term.Exists:
		conn := f.Conn
		if !positive {
			if conn == term.Forall {
				conn = term.Exists
			} else {
				conn = term.Forall
			}
		}
		return term.NewQuantified(conn, f.Bound, c.nnf(f.Sub[0], positive))
	}
	panic("tptp: unreachable connective in nnf")
}

// skolemize eliminates quantifiers from an NNF formula: universal variables
// are rectified to fresh variables, existential ones replaced by Skolem
// terms over the universals in scope. Free variables are treated as
// universally quantified.
func (c *Clausifier) skolemize(f *term.Formula, universals []*term.Term, env map[int]*term.Term) *term.Formula {
	switch f.Conn {
	case term.Lit:
		lit := f.Literal
		// Free variables not seen yet become fresh universals.
		lit.IterVars(func(v int) {
			if _, ok := env[v]; !ok {
				fresh := c.freshVar()
				env[v] = fresh
			}
		})
		return term.NewLit(c.substitute(lit, env))
	case term.TrueConst, term.FalseConst:
		return f
	case term.And, term.Or:
		sub := make([]*term.Formula, len(f.Sub))
		for i, g := range f.Sub {
			sub[i] = c.skolemize(g, universals, env)
		}
		return term.NewJunction(f.Conn, sub)
	case term.Forall:
		saved := map[int]*term.Term{}
		for _, v := range f.Bound {
			saved[v] = env[v]
			fresh := c.freshVar()
			env[v] = fresh
			universals = append(universals, fresh)
		}
		out := c.skolemize(f.Sub[0], universals, env)
		for _, v := range f.Bound {
			env[v] = saved[v]
		}
		return out
	case term.Exists:
		saved := map[int]*term.Term{}
		for _, v := range f.Bound {
			saved[v] = env[v]
			sk := c.store.Sig.AddFreshFunction("sK", len(universals))
			c.stats.SkolemFunctions++
			env[v] = c.store.Create(sk, append([]*term.Term{}, universals...))
		}
		out := c.skolemize(f.Sub[0], universals, env)
		for _, v := range f.Bound {
			env[v] = saved[v]
		}
		return out
	}
	panic("tptp: quantifier-normal form expected")
}

func (c *Clausifier) freshVar() *term.Term {
	v := c.store.Variable(c.nextVar)
	c.nextVar++
	return v
}

// substitute rebuilds a term with the environment applied to its variables.
func (c *Clausifier) substitute(t *term.Term, env map[int]*term.Term) *term.Term {
	if t.IsVar() {
		if r, ok := env[t.VarID()]; ok && r != nil {
			return r
		}
		return t
	}
	args := make([]*term.Term, t.Arity())
	for i, a := range t.Args() {
		args[i] = c.substitute(a, env)
	}
	if t.IsLiteral() {
		return c.store.CreateLiteral(t.Functor(), t.IsPositive(), args)
	}
	return c.store.Create(t.Functor(), args)
}

// cnf distributes a quantifier-free NNF formula into clauses.
func (c *Clausifier) cnf(f *term.Formula) [][]*term.Term {
	switch f.Conn {
	case term.Lit:
		return [][]*term.Term{{f.Literal}}
	case term.TrueConst:
		return nil
	case term.FalseConst:
		return [][]*term.Term{nil}
	case term.And:
		var out [][]*term.Term
		for _, g := range f.Sub {
			out = append(out, c.cnf(g)...)
		}
		return out
	case term.Or:
		out := [][]*term.Term{nil}
		for _, g := range f.Sub {
			sub := c.cnf(g)
			var next [][]*term.Term
			for _, left := range out {
				for _, right := range sub {
					merged := make([]*term.Term, 0, len(left)+len(right))
					merged = append(merged, left...)
					merged = append(merged, right...)
					next = append(next, merged)
				}
			}
			out = next
		}
		return out
	}
	panic("tptp: quantifier-free NNF expected in cnf")
}

func dedupe(lits []*term.Term) []*term.Term {
	seen := map[*term.Term]struct{}{}
	out := lits[:0]
	for _, l := range lits {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
