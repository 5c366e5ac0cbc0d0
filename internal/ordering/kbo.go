package ordering

import "github.com/rhartert/saturn/internal/term"

// KBO is the Knuth-Bendix ordering with per-symbol weights from the
// signature and ties broken by precedence.
type KBO struct {
	sig  *term.Signature
	prec *Precedence
}

// NewKBO returns a KBO over the signature and precedence.
func NewKBO(sig *term.Signature, prec *Precedence) *KBO {
	return &KBO{sig: sig, prec: prec}
}

// Compare compares two terms under KBO.
func (k *KBO) Compare(s, t *term.Term) Result {
	if s == t {
		return Equal
	}
	if s.IsVar() {
		if t.ContainsVar(s.VarID()) {
			return Less
		}
		return Incomparable
	}
	if t.IsVar() {
		if s.ContainsVar(t.VarID()) {
			return Greater
		}
		return Incomparable
	}

	// The variable condition: s can only dominate t if every variable
	// occurs at least as often in s as in t, and dually.
	sv, tv := varCounts(s), varCounts(t)
	sCovers, tCovers := covers(sv, tv), covers(tv, sv)
	if !sCovers && !tCovers {
		return Incomparable
	}

	ws, wt := k.weight(s), k.weight(t)
	switch {
	case ws > wt:
		if sCovers {
			return Greater
		}
		return Incomparable
	case wt > ws:
		if tCovers {
			return Less
		}
		return Incomparable
	}

	// Equal weights: precedence decides, then the arguments
	// lexicographically.
	rs, rt := k.prec.Rank(s.Functor()), k.prec.Rank(t.Functor())
	switch {
	case rs > rt:
		if sCovers {
			return Greater
		}
		return Incomparable
	case rt > rs:
		if tCovers {
			return Less
		}
		return Incomparable
	}
	for i := 0; i < s.Arity(); i++ {
		if r := k.Compare(s.Arg(i), t.Arg(i)); r != Equal {
			switch r {
			case Greater:
				if sCovers {
					return Greater
				}
			case Less:
				if tCovers {
					return Less
				}
			}
			return Incomparable
		}
	}
	return Equal
}

// CompareLits compares two literals under the literal extension of KBO.
func (k *KBO) CompareLits(l1, l2 *term.Term) Result {
	return compareLits(k, k.prec, l1, l2)
}

func (k *KBO) weight(t *term.Term) int {
	if t.IsVar() {
		return 1
	}
	w := 1
	if !t.IsLiteral() {
		w = k.sig.Function(t.Functor()).Weight
	}
	for i := 0; i < t.Arity(); i++ {
		w += k.weight(t.Arg(i))
	}
	return w
}

func varCounts(t *term.Term) map[int]int {
	m := map[int]int{}
	t.IterVars(func(v int) { m[v]++ })
	return m
}

// covers reports whether every variable occurs at least as often in a as
// in b.
func covers(a, b map[int]int) bool {
	for v, n := range b {
		if a[v] < n {
			return false
		}
	}
	return true
}
