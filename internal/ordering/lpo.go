package ordering

import "github.com/rhartert/saturn/internal/term"

// LPO is the lexicographic path ordering induced by the symbol precedence.
type LPO struct {
	prec *Precedence
}

// NewLPO returns an LPO over the precedence.
func NewLPO(prec *Precedence) *LPO {
	return &LPO{prec: prec}
}

// Compare compares two terms under LPO.
func (l *LPO) Compare(s, t *term.Term) Result {
	if s == t {
		return Equal
	}
	switch {
	case s.IsVar() && t.IsVar():
		return Incomparable
	case s.IsVar():
		if t.ContainsVar(s.VarID()) {
			return Less
		}
		return Incomparable
	case t.IsVar():
		if s.ContainsVar(t.VarID()) {
			return Greater
		}
		return Incomparable
	}
	if l.greater(s, t) {
		return Greater
	}
	if l.greater(t, s) {
		return Less
	}
	return Incomparable
}

// CompareLits compares two literals under the literal extension of LPO.
func (l *LPO) CompareLits(l1, l2 *term.Term) Result {
	return compareLits(l, l.prec, l1, l2)
}

// greater implements s >lpo t.
func (l *LPO) greater(s, t *term.Term) bool {
	if s.IsVar() {
		return false
	}
	if t.IsVar() {
		return s.ContainsVar(t.VarID())
	}

	// (1) Some argument of s dominates t.
	for i := 0; i < s.Arity(); i++ {
		if s.Arg(i) == t || l.greater(s.Arg(i), t) {
			return true
		}
	}

	rs, rt := l.prec.Rank(s.Functor()), l.prec.Rank(t.Functor())
	if s.IsLiteral() != t.IsLiteral() {
		return false
	}
	switch {
	case rs > rt:
		// (2) s's head dominates: s must dominate every argument of t.
		return l.dominatesArgs(s, t)
	case rs == rt && s.Functor() == t.Functor() && s.Arity() == t.Arity():
		// (3) Equal heads: first strictly decided argument wins, s must
		// still dominate the remaining arguments of t.
		for i := 0; i < s.Arity(); i++ {
			if s.Arg(i) == t.Arg(i) {
				continue
			}
			if !l.greater(s.Arg(i), t.Arg(i)) {
				return false
			}
			for j := i + 1; j < t.Arity(); j++ {
				if !l.greater(s, t.Arg(j)) {
					return false
				}
			}
			return true
		}
		return false
	default:
		return false
	}
}

func (l *LPO) dominatesArgs(s, t *term.Term) bool {
	for i := 0; i < t.Arity(); i++ {
		if !l.greater(s, t.Arg(i)) {
			return false
		}
	}
	return true
}
